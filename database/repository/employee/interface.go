// File: database/repository/employee/interface.go
package employeeRepo

import (
	"context"
	"time"

	"viyarschedule/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EmployeeRepository defines employee data access.
type EmployeeRepository interface {
	// FindOrCreate resolves an employee by exact name, creating it with
	// placeholder dates when absent and refreshing the position otherwise.
	FindOrCreate(ctx context.Context, name, position string) (*models.Employee, error)
	// GetByName returns database.ErrNotFound when no employee has that name.
	GetByName(ctx context.Context, name string) (*models.Employee, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Employee, error)
	// Search matches names partially and case-insensitively.
	Search(ctx context.Context, query string, limit int) ([]models.EmployeeSummary, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoEmployeeRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoEmployeeRepo constructs a MongoDB EmployeeRepository.
func NewMongoEmployeeRepo(db *mongo.Database, timeout time.Duration) EmployeeRepository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &mongoEmployeeRepo{
		coll:    db.Collection("employees"),
		timeout: timeout,
	}
}
