package memoryRepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viyarschedule/database"
	employeeRepo "viyarschedule/database/repository/employee"
	scheduleRepo "viyarschedule/database/repository/schedule"
	"viyarschedule/models"
)

var (
	_ employeeRepo.EmployeeRepository = (*EmployeeStore)(nil)
	_ scheduleRepo.ScheduleRepository = (*ScheduleStore)(nil)
)

func day(d int) time.Time { return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC) }

func TestUpsertKeepsOneEntryPerEmployeeDay(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	emp, err := s.Employees().FindOrCreate(ctx, "A", "pos")
	require.NoError(t, err)

	require.NoError(t, s.Schedules().Upsert(ctx, models.Schedule{EmployeeID: emp.ID, Date: day(1), Action: "8"}))
	require.NoError(t, s.Schedules().Upsert(ctx, models.Schedule{EmployeeID: emp.ID, Date: day(1), Action: "ВХ"}))
	assert.Equal(t, 1, s.Len())

	got, err := s.Schedules().GetByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ВХ", got[0].Action)
}

func TestFindOrCreateRefreshesPosition(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	first, err := s.Employees().FindOrCreate(ctx, "A", "old")
	require.NoError(t, err)
	assert.Equal(t, models.PlaceholderDate, first.HireDate)

	second, err := s.Employees().FindOrCreate(ctx, "A", "new")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "new", second.Position)

	_, err = s.Employees().GetByName(ctx, "B")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestGetInRangeModes(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a, _ := s.Employees().FindOrCreate(ctx, "A", "p")
	b, _ := s.Employees().FindOrCreate(ctx, "B", "p")
	require.NoError(t, s.Schedules().Upsert(ctx, models.Schedule{EmployeeID: a.ID, Date: day(1), Department: "Склад"}))
	require.NoError(t, s.Schedules().Upsert(ctx, models.Schedule{EmployeeID: b.ID, Date: day(2), Department: "Фінанси"}))

	or, err := s.Schedules().GetInRange(ctx, day(1), day(31), scheduleRepo.RangeFilter{
		NameGiven: true, EmployeeID: &a.ID, Departments: []string{"фінанси"},
	})
	require.NoError(t, err)
	assert.Len(t, or, 2)

	and, err := s.Schedules().GetInRange(ctx, day(1), day(31), scheduleRepo.RangeFilter{
		NameGiven: true, EmployeeID: &a.ID, Departments: []string{"фінанси"}, Mode: scheduleRepo.MatchAll,
	})
	require.NoError(t, err)
	assert.Empty(t, and)

	unknown, err := s.Schedules().GetInRange(ctx, day(1), day(31), scheduleRepo.RangeFilter{NameGiven: true})
	require.NoError(t, err)
	assert.Empty(t, unknown)
}
