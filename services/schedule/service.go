// File: services/schedule/service.go
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"viyarschedule/database"
	employeeRepo "viyarschedule/database/repository/employee"
	scheduleRepo "viyarschedule/database/repository/schedule"
	"viyarschedule/models"
	"viyarschedule/services/normalize"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidArgument marks a query the caller has to fix.
	ErrInvalidArgument = errors.New("invalid query argument")
)

// ParseMatchMode maps "or"/"and" onto a match mode; empty yields def.
func ParseMatchMode(v string, def scheduleRepo.MatchMode) (scheduleRepo.MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return def, nil
	case string(scheduleRepo.MatchAny):
		return scheduleRepo.MatchAny, nil
	case string(scheduleRepo.MatchAll):
		return scheduleRepo.MatchAll, nil
	}
	return "", fmt.Errorf("%w: match must be \"or\" or \"and\", got %q", ErrInvalidArgument, v)
}

// Options tunes a Service.
type Options struct {
	// DefaultMode combines name and department in month queries when the
	// caller does not choose.
	DefaultMode  scheduleRepo.MatchMode
	SuggestLimit int
}

// MonthQuery selects one calendar month, optionally narrowed.
type MonthQuery struct {
	Month      int
	Year       int
	Name       string
	Department string
	Mode       scheduleRepo.MatchMode
}

// Service answers the read-side queries.
type Service struct {
	employees employeeRepo.EmployeeRepository
	schedules scheduleRepo.ScheduleRepository
	cache     MonthCache
	opts      Options
	logger    *zap.Logger
}

// NewService builds a Service. cache may be nil.
func NewService(employees employeeRepo.EmployeeRepository, schedules scheduleRepo.ScheduleRepository, cache MonthCache, opts Options, logger *zap.Logger) *Service {
	if opts.DefaultMode == "" {
		opts.DefaultMode = scheduleRepo.MatchAny
	}
	if opts.SuggestLimit <= 0 {
		opts.SuggestLimit = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{employees: employees, schedules: schedules, cache: cache, opts: opts, logger: logger}
}

// DefaultMode returns the configured month filter mode.
func (s *Service) DefaultMode() scheduleRepo.MatchMode { return s.opts.DefaultMode }

// ByName returns the full schedule of the employee with exactly that name.
func (s *Service) ByName(ctx context.Context, name string) (*models.EmployeeSchedule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	emp, err := s.employees.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	entries, err := s.schedules.GetByEmployee(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	return &models.EmployeeSchedule{Employee: emp.Name, Schedules: toEntries(entries)}, nil
}

// ByDepartments returns every employee with at least one entry in any of the
// departments, each with the whole schedule.
func (s *Service) ByDepartments(ctx context.Context, departments []string) ([]models.EmployeeScheduleGroup, error) {
	departments = cleanList(departments)
	if len(departments) == 0 {
		return nil, fmt.Errorf("%w: at least one department is required", ErrInvalidArgument)
	}
	ids, err := s.schedules.EmployeesInDepartments(ctx, departments)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, database.ErrNotFound
	}
	emps, err := s.employees.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	emps = withoutUndefined(emps)

	groups := make([]models.EmployeeScheduleGroup, len(emps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, emp := range emps {
		g.Go(func() error {
			entries, err := s.schedules.GetByEmployee(gctx, emp.ID)
			if err != nil {
				return err
			}
			groups[i] = models.EmployeeScheduleGroup{Name: emp.Name, Position: emp.Position, Schedules: toEntries(entries)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, database.ErrNotFound
	}
	return groups, nil
}

// ByMonth returns all entries of the month grouped by employee.
func (s *Service) ByMonth(ctx context.Context, month, year int) ([]models.EmployeeScheduleGroup, error) {
	return s.ByMonthFiltered(ctx, MonthQuery{Month: month, Year: year})
}

// ByMonthFiltered narrows a month by name and/or department. With both given,
// q.Mode decides whether an entry must match either (or) or both (and).
func (s *Service) ByMonthFiltered(ctx context.Context, q MonthQuery) ([]models.EmployeeScheduleGroup, error) {
	from, to, err := normalize.MonthRange(q.Month, q.Year)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	q.Name = strings.TrimSpace(q.Name)
	q.Department = strings.TrimSpace(q.Department)
	if q.Mode == "" {
		q.Mode = s.opts.DefaultMode
	}

	var slot string
	if s.cache != nil {
		groups, resolved, ok := s.cache.Get(ctx, monthKey(q))
		if ok {
			return groups, nil
		}
		slot = resolved
	}

	filter := scheduleRepo.RangeFilter{Mode: q.Mode}
	if q.Name != "" {
		filter.NameGiven = true
		emp, err := s.employees.GetByName(ctx, q.Name)
		switch {
		case err == nil:
			filter.EmployeeID = &emp.ID
		case !errors.Is(err, database.ErrNotFound):
			return nil, err
		}
	}
	if q.Department != "" {
		filter.Departments = []string{q.Department}
	}

	entries, err := s.schedules.GetInRange(ctx, from, to, filter)
	if err != nil {
		return nil, err
	}
	groups, err := s.group(ctx, entries)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, slot, groups)
	}
	return groups, nil
}

// group collects entries per employee, dropping placeholder identities.
// Groups are ordered by name; entries keep their date order.
func (s *Service) group(ctx context.Context, entries []models.Schedule) ([]models.EmployeeScheduleGroup, error) {
	byEmployee := make(map[primitive.ObjectID][]models.ScheduleEntry)
	var ids []primitive.ObjectID
	for _, e := range entries {
		if _, ok := byEmployee[e.EmployeeID]; !ok {
			ids = append(ids, e.EmployeeID)
		}
		byEmployee[e.EmployeeID] = append(byEmployee[e.EmployeeID], models.EntryFromSchedule(e))
	}
	if len(ids) == 0 {
		return []models.EmployeeScheduleGroup{}, nil
	}
	emps, err := s.employees.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	emps = withoutUndefined(emps)
	sort.SliceStable(emps, func(i, j int) bool { return emps[i].Name < emps[j].Name })

	groups := make([]models.EmployeeScheduleGroup, 0, len(emps))
	for _, emp := range emps {
		groups = append(groups, models.EmployeeScheduleGroup{
			Name:      emp.Name,
			Position:  emp.Position,
			Schedules: byEmployee[emp.ID],
		})
	}
	return groups, nil
}

func toEntries(in []models.Schedule) []models.ScheduleEntry {
	out := make([]models.ScheduleEntry, 0, len(in))
	for _, s := range in {
		out = append(out, models.EntryFromSchedule(s))
	}
	return out
}

func withoutUndefined(emps []models.Employee) []models.Employee {
	out := emps[:0]
	for _, e := range emps {
		if e.Name != models.UndefinedName {
			out = append(out, e)
		}
	}
	return out
}

func cleanList(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
