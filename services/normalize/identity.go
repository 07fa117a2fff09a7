// File: services/normalize/identity.go
package normalize

import (
	"context"
	"errors"
	"strings"

	"viyarschedule/models"
)

// ErrEmptyName marks a block that decoded without a usable name.
var ErrEmptyName = errors.New("employee name is empty")

// EmployeeStore is the slice of the employee repository identity resolution needs.
type EmployeeStore interface {
	FindOrCreate(ctx context.Context, name, position string) (*models.Employee, error)
}

// Resolver maps roster names onto stored Employee identities.
type Resolver struct {
	Store EmployeeStore
}

// NewResolver returns a Resolver backed by store.
func NewResolver(store EmployeeStore) *Resolver {
	return &Resolver{Store: store}
}

// Resolve finds the employee by exact name or creates it with placeholder
// birth/hire dates. An existing employee gets its position refreshed.
func (r *Resolver) Resolve(ctx context.Context, name, position string) (*models.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return r.Store.FindOrCreate(ctx, name, strings.TrimSpace(position))
}
