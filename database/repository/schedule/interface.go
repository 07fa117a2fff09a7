// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"
	"time"

	"viyarschedule/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MatchMode combines the name and department conditions of a range query.
type MatchMode string

const (
	MatchAny MatchMode = "or"
	MatchAll MatchMode = "and"
)

// RangeFilter narrows a date-range query. Zero value means no narrowing.
// NameGiven with a nil EmployeeID is a name that matched no employee.
type RangeFilter struct {
	NameGiven   bool
	EmployeeID  *primitive.ObjectID
	Departments []string
	Mode        MatchMode
}

// ScheduleRepository defines schedule entry data access. Entries are unique per
// (employee, date); writes are upserts.
type ScheduleRepository interface {
	// DeleteByDates removes every entry dated on any of the given days.
	DeleteByDates(ctx context.Context, dates []time.Time) (int64, error)
	// Upsert writes the entry keyed by (EmployeeID, Date).
	Upsert(ctx context.Context, entry models.Schedule) error
	GetByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.Schedule, error)
	// EmployeesInDepartments returns employees with at least one entry in any
	// of the departments (case-insensitive exact match).
	EmployeesInDepartments(ctx context.Context, departments []string) ([]primitive.ObjectID, error)
	// GetInRange returns entries with from <= date <= to, sorted by date.
	GetInRange(ctx context.Context, from, to time.Time, filter RangeFilter) ([]models.Schedule, error)
	// Departments lists distinct department names matching query partially.
	Departments(ctx context.Context, query string) ([]string, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoScheduleRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoScheduleRepo constructs a MongoDB ScheduleRepository.
func NewMongoScheduleRepo(db *mongo.Database, timeout time.Duration) ScheduleRepository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &mongoScheduleRepo{
		coll:    db.Collection("schedules"),
		timeout: timeout,
	}
}
