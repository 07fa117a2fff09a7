// File: database/repository/memory/memory.go
package memoryRepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"viyarschedule/database"
	scheduleRepo "viyarschedule/database/repository/schedule"
	"viyarschedule/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store keeps employees and schedule entries in process memory. It satisfies
// both repository interfaces and backs dry-run imports and tests.
type Store struct {
	mu        sync.RWMutex
	employees map[primitive.ObjectID]models.Employee
	byName    map[string]primitive.ObjectID
	entries   map[entryKey]models.Schedule

	// FailUpsert, when set, is consulted before each schedule write.
	FailUpsert func(entry models.Schedule) error
}

type entryKey struct {
	employee primitive.ObjectID
	date     time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		employees: make(map[primitive.ObjectID]models.Employee),
		byName:    make(map[string]primitive.ObjectID),
		entries:   make(map[entryKey]models.Schedule),
	}
}

// Employees returns the employee side of the store.
func (s *Store) Employees() *EmployeeStore { return &EmployeeStore{s} }

// Schedules returns the schedule side of the store.
func (s *Store) Schedules() *ScheduleStore { return &ScheduleStore{s} }

// Len returns the number of stored schedule entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// EmployeeStore implements employeeRepo.EmployeeRepository.
type EmployeeStore struct{ s *Store }

func (e *EmployeeStore) FindOrCreate(ctx context.Context, name, position string) (*models.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := e.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if id, ok := s.byName[name]; ok {
		emp := s.employees[id]
		emp.Position = position
		emp.UpdatedAt = now
		s.employees[id] = emp
		return &emp, nil
	}
	emp := models.Employee{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Position:    position,
		DateOfBirth: models.PlaceholderDate,
		HireDate:    models.PlaceholderDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.employees[emp.ID] = emp
	s.byName[name] = emp.ID
	return &emp, nil
}

func (e *EmployeeStore) GetByName(ctx context.Context, name string) (*models.Employee, error) {
	s := e.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, database.ErrNotFound
	}
	emp := s.employees[id]
	return &emp, nil
}

func (e *EmployeeStore) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Employee, error) {
	s := e.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Employee
	for _, id := range ids {
		if emp, ok := s.employees[id]; ok {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (e *EmployeeStore) Search(ctx context.Context, query string, limit int) ([]models.EmployeeSummary, error) {
	s := e.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	var out []models.EmployeeSummary
	for _, emp := range s.employees {
		if strings.Contains(strings.ToLower(emp.Name), q) {
			out = append(out, models.EmployeeSummary{Name: emp.Name, Position: emp.Position})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (e *EmployeeStore) EnsureIndexes(ctx context.Context) error { return nil }

// ScheduleStore implements scheduleRepo.ScheduleRepository.
type ScheduleStore struct{ s *Store }

func (c *ScheduleStore) DeleteByDates(ctx context.Context, dates []time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	set := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		set[d.UTC()] = struct{}{}
	}
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k := range s.entries {
		if _, ok := set[k.date]; ok {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

func (c *ScheduleStore) Upsert(ctx context.Context, entry models.Schedule) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := c.s
	if s.FailUpsert != nil {
		if err := s.FailUpsert(entry); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	key := entryKey{employee: entry.EmployeeID, date: entry.Date.UTC()}
	if prev, ok := s.entries[key]; ok {
		entry.ID = prev.ID
		entry.CreatedAt = prev.CreatedAt
	} else {
		entry.ID = primitive.NewObjectID()
		entry.CreatedAt = now
	}
	entry.Date = key.date
	entry.UpdatedAt = now
	s.entries[key] = entry
	return nil
}

func (c *ScheduleStore) GetByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Schedule, error) {
	return c.collect(func(e models.Schedule) bool { return e.EmployeeID == employeeID }), nil
}

func (c *ScheduleStore) EmployeesInDepartments(ctx context.Context, departments []string) ([]primitive.ObjectID, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, e := range c.collect(func(e models.Schedule) bool { return matchesDepartment(e.Department, departments) }) {
		if _, ok := seen[e.EmployeeID]; !ok {
			seen[e.EmployeeID] = struct{}{}
			ids = append(ids, e.EmployeeID)
		}
	}
	return ids, nil
}

func (c *ScheduleStore) GetInRange(ctx context.Context, from, to time.Time, f scheduleRepo.RangeFilter) ([]models.Schedule, error) {
	return c.collect(func(e models.Schedule) bool {
		if e.Date.Before(from) || e.Date.After(to) {
			return false
		}
		var conds []bool
		if f.NameGiven {
			conds = append(conds, f.EmployeeID != nil && *f.EmployeeID == e.EmployeeID)
		}
		if hasDepartments(f.Departments) {
			conds = append(conds, matchesDepartment(e.Department, f.Departments))
		}
		if len(conds) == 0 {
			return true
		}
		if f.Mode == scheduleRepo.MatchAll {
			for _, ok := range conds {
				if !ok {
					return false
				}
			}
			return true
		}
		for _, ok := range conds {
			if ok {
				return true
			}
		}
		return false
	}), nil
}

func (c *ScheduleStore) Departments(ctx context.Context, query string) ([]string, error) {
	q := strings.ToLower(query)
	seen := make(map[string]struct{})
	var out []string
	for _, e := range c.collect(func(e models.Schedule) bool {
		return e.Department != "" && strings.Contains(strings.ToLower(e.Department), q)
	}) {
		if _, ok := seen[e.Department]; !ok {
			seen[e.Department] = struct{}{}
			out = append(out, e.Department)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (c *ScheduleStore) EnsureIndexes(ctx context.Context) error { return nil }

func (c *ScheduleStore) collect(keep func(models.Schedule) bool) []models.Schedule {
	s := c.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Schedule
	for _, e := range s.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EmployeeID.Hex() < out[j].EmployeeID.Hex()
	})
	return out
}

func hasDepartments(departments []string) bool {
	for _, d := range departments {
		if strings.TrimSpace(d) != "" {
			return true
		}
	}
	return false
}

func matchesDepartment(dept string, departments []string) bool {
	for _, d := range departments {
		d = strings.TrimSpace(d)
		if d != "" && strings.EqualFold(d, dept) {
			return true
		}
	}
	return false
}
