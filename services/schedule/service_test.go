package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viyarschedule/database"
	memoryRepo "viyarschedule/database/repository/memory"
	scheduleRepo "viyarschedule/database/repository/schedule"
	"viyarschedule/models"
)

// mapCache mirrors RedisCache: slots are qualified by a generation that
// bump retires.
type mapCache struct {
	data map[string][]models.EmployeeScheduleGroup
	gen  int
	gets int
}

func (m *mapCache) slot(key string) string { return fmt.Sprintf("%d:%s", m.gen, key) }

func (m *mapCache) bump() { m.gen++ }

func (m *mapCache) Get(_ context.Context, key string) ([]models.EmployeeScheduleGroup, string, bool) {
	m.gets++
	slot := m.slot(key)
	g, ok := m.data[slot]
	return g, slot, ok
}

func (m *mapCache) Set(_ context.Context, slot string, g []models.EmployeeScheduleGroup) {
	m.data[slot] = g
}

// bumpingSchedules invalidates the cache while a range read is in flight,
// as an import committing mid-query would.
type bumpingSchedules struct {
	scheduleRepo.ScheduleRepository
	cache *mapCache
}

func (b bumpingSchedules) GetInRange(ctx context.Context, from, to time.Time, f scheduleRepo.RangeFilter) ([]models.Schedule, error) {
	entries, err := b.ScheduleRepository.GetInRange(ctx, from, to, f)
	b.cache.bump()
	return entries, err
}

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// seed: Олена (finance) on 31.01, 01.02, 28.02, 01.03; Іван (Склад) on 15.02;
// "undefined" in finance on 10.02.
func seed(t *testing.T) (*memoryRepo.Store, *Service) {
	t.Helper()
	ctx := context.Background()
	store := memoryRepo.NewStore()
	add := func(name, position, dept string, dates ...time.Time) {
		emp, err := store.Employees().FindOrCreate(ctx, name, position)
		require.NoError(t, err)
		for _, d := range dates {
			require.NoError(t, store.Schedules().Upsert(ctx, models.Schedule{EmployeeID: emp.ID, Date: d, Action: "8", Department: dept}))
		}
	}
	add("Коваль Олена", "консультант", "finance", date(2025, 1, 31), date(2025, 2, 1), date(2025, 2, 28), date(2025, 3, 1))
	add("Мельник Іван", "комірник", "Склад", date(2025, 2, 15))
	add(models.UndefinedName, "", "finance", date(2025, 2, 10))

	svc := NewService(store.Employees(), store.Schedules(), nil, Options{}, nil)
	return store, svc
}

func TestByName(t *testing.T) {
	_, svc := seed(t)
	got, err := svc.ByName(context.Background(), " Коваль Олена ")
	require.NoError(t, err)
	assert.Equal(t, "Коваль Олена", got.Employee)
	require.Len(t, got.Schedules, 4)
	assert.Equal(t, date(2025, 1, 31), got.Schedules[0].Date)

	_, err = svc.ByName(context.Background(), "Нікого")
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = svc.ByName(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestByDepartments_CaseInsensitiveExact(t *testing.T) {
	_, svc := seed(t)
	ctx := context.Background()

	_, err := svc.ByDepartments(ctx, []string{"fin"})
	assert.ErrorIs(t, err, database.ErrNotFound)

	groups, err := svc.ByDepartments(ctx, []string{"Finance"})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Коваль Олена", groups[0].Name)
	assert.Len(t, groups[0].Schedules, 4)

	groups, err = svc.ByDepartments(ctx, []string{"FINANCE", "склад"})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Коваль Олена", groups[0].Name)
	assert.Equal(t, "Мельник Іван", groups[1].Name)

	_, err = svc.ByDepartments(ctx, []string{" ", ""})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestByMonth_RangeAndUndefinedExcluded(t *testing.T) {
	_, svc := seed(t)
	groups, err := svc.ByMonth(context.Background(), 2, 2025)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	olena := groups[0]
	assert.Equal(t, "Коваль Олена", olena.Name)
	require.Len(t, olena.Schedules, 2)
	assert.Equal(t, date(2025, 2, 1), olena.Schedules[0].Date)
	assert.Equal(t, date(2025, 2, 28), olena.Schedules[1].Date)
	assert.Equal(t, "Мельник Іван", groups[1].Name)

	empty, err := svc.ByMonth(context.Background(), 6, 2025)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.ByMonth(context.Background(), 13, 2025)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestByMonthFiltered_Modes(t *testing.T) {
	_, svc := seed(t)
	ctx := context.Background()
	q := MonthQuery{Month: 2, Year: 2025, Name: "Мельник Іван", Department: "finance"}

	or, err := svc.ByMonthFiltered(ctx, q)
	require.NoError(t, err)
	assert.Len(t, or, 2)

	q.Mode = scheduleRepo.MatchAll
	and, err := svc.ByMonthFiltered(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, and)

	nameOnly, err := svc.ByMonthFiltered(ctx, MonthQuery{Month: 2, Year: 2025, Name: "Мельник Іван"})
	require.NoError(t, err)
	require.Len(t, nameOnly, 1)
	assert.Len(t, nameOnly[0].Schedules, 1)

	unknown, err := svc.ByMonthFiltered(ctx, MonthQuery{Month: 2, Year: 2025, Name: "Нікого"})
	require.NoError(t, err)
	assert.Empty(t, unknown)

	// unknown name OR'd with a department still returns the department
	unknownOr, err := svc.ByMonthFiltered(ctx, MonthQuery{Month: 2, Year: 2025, Name: "Нікого", Department: "склад"})
	require.NoError(t, err)
	require.Len(t, unknownOr, 1)
	assert.Equal(t, "Мельник Іван", unknownOr[0].Name)
}

func TestByMonthFiltered_UsesCache(t *testing.T) {
	store, _ := seed(t)
	cache := &mapCache{data: map[string][]models.EmployeeScheduleGroup{}}
	svc := NewService(store.Employees(), store.Schedules(), cache, Options{}, nil)
	ctx := context.Background()

	first, err := svc.ByMonth(ctx, 2, 2025)
	require.NoError(t, err)
	require.Len(t, cache.data, 1)

	cache.data[cache.slot(monthKey(MonthQuery{Month: 2, Year: 2025, Mode: scheduleRepo.MatchAny}))] = first[:1]
	second, err := svc.ByMonth(ctx, 2, 2025)
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, 2, cache.gets)
}

func TestByMonthFiltered_CacheKeepsNameExact(t *testing.T) {
	store, _ := seed(t)
	cache := &mapCache{data: map[string][]models.EmployeeScheduleGroup{}}
	svc := NewService(store.Employees(), store.Schedules(), cache, Options{}, nil)
	ctx := context.Background()

	exact, err := svc.ByMonthFiltered(ctx, MonthQuery{Month: 2, Year: 2025, Name: "Мельник Іван"})
	require.NoError(t, err)
	require.Len(t, exact, 1)

	lower, err := svc.ByMonthFiltered(ctx, MonthQuery{Month: 2, Year: 2025, Name: "мельник іван"})
	require.NoError(t, err)
	assert.Empty(t, lower)
	assert.Len(t, cache.data, 2)

	// department matching ignores case, so those queries share a slot
	assert.Equal(t,
		monthKey(MonthQuery{Month: 2, Year: 2025, Department: "Склад"}),
		monthKey(MonthQuery{Month: 2, Year: 2025, Department: "склад"}))
}

func TestByMonthFiltered_ResultReadBeforeInvalidationIsNotServed(t *testing.T) {
	store, _ := seed(t)
	ctx := context.Background()
	cache := &mapCache{data: map[string][]models.EmployeeScheduleGroup{}}
	svc := NewService(store.Employees(), bumpingSchedules{store.Schedules(), cache}, cache, Options{}, nil)

	before, err := svc.ByMonth(ctx, 2, 2025)
	require.NoError(t, err)
	require.Len(t, before, 2)

	emp, err := store.Employees().FindOrCreate(ctx, "Бондар Петро", "консультант")
	require.NoError(t, err)
	require.NoError(t, store.Schedules().Upsert(ctx, models.Schedule{EmployeeID: emp.ID, Date: date(2025, 2, 3), Action: "8", Department: "finance"}))

	after, err := NewService(store.Employees(), store.Schedules(), cache, Options{}, nil).ByMonth(ctx, 2, 2025)
	require.NoError(t, err)
	assert.Len(t, after, 3)
}

func TestSuggest(t *testing.T) {
	_, svc := seed(t)
	got, err := svc.Suggest(context.Background(), "ко")
	require.NoError(t, err)
	require.Len(t, got.Employees, 1)
	assert.Equal(t, models.EmployeeSummary{Name: "Коваль Олена", Position: "консультант"}, got.Employees[0])
	assert.Empty(t, got.Departments)

	got, err = svc.Suggest(context.Background(), "FIN")
	require.NoError(t, err)
	assert.Empty(t, got.Employees)
	assert.Equal(t, []string{"finance"}, got.Departments)

	_, err = svc.Suggest(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSuggest_ClosestMatchBeyondAlphabeticalPrefix(t *testing.T) {
	store := memoryRepo.NewStore()
	ctx := context.Background()
	for _, name := range []string{
		"Абрамова Олена Петрівна",
		"Бойко Олена Іванівна",
		"Волошин Оленандр",
		"Гнатюк Олена Василівна",
		"Олена",
	} {
		_, err := store.Employees().FindOrCreate(ctx, name, "консультант")
		require.NoError(t, err)
	}
	svc := NewService(store.Employees(), store.Schedules(), nil, Options{SuggestLimit: 1}, nil)

	got, err := svc.Suggest(ctx, "олена")
	require.NoError(t, err)
	require.Len(t, got.Employees, 1)
	assert.Equal(t, "Олена", got.Employees[0].Name)
}

func TestRank(t *testing.T) {
	assert.Equal(t, []string{"abc", "xabc", "a-b-c"}, rank("abc", []string{"a-b-c", "xabc", "abc"}, 0))
	assert.Equal(t, []string{"abc"}, rank("abc", []string{"a-b-c", "xabc", "abc"}, 1))
}

func TestParseMatchMode(t *testing.T) {
	m, err := ParseMatchMode("", scheduleRepo.MatchAll)
	require.NoError(t, err)
	assert.Equal(t, scheduleRepo.MatchAll, m)

	m, err = ParseMatchMode(" AND ", scheduleRepo.MatchAny)
	require.NoError(t, err)
	assert.Equal(t, scheduleRepo.MatchAll, m)

	_, err = ParseMatchMode("xor", scheduleRepo.MatchAny)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
