package normalize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viyarschedule/models"
)

type fakeEmployeeStore struct {
	byName map[string]*models.Employee
}

func (f *fakeEmployeeStore) FindOrCreate(_ context.Context, name, position string) (*models.Employee, error) {
	if e, ok := f.byName[name]; ok {
		e.Position = position
		return e, nil
	}
	e := &models.Employee{Name: name, Position: position, DateOfBirth: models.PlaceholderDate, HireDate: models.PlaceholderDate}
	f.byName[name] = e
	return e, nil
}

func TestResolver_FindOrCreate(t *testing.T) {
	store := &fakeEmployeeStore{byName: map[string]*models.Employee{}}
	r := NewResolver(store)
	ctx := context.Background()

	first, err := r.Resolve(ctx, " Іваненко Петро ", "консультант")
	require.NoError(t, err)
	assert.Equal(t, "Іваненко Петро", first.Name)
	assert.Equal(t, models.PlaceholderDate, first.HireDate)

	second, err := r.Resolve(ctx, "Іваненко Петро", "експерт")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "експерт", second.Position)
	assert.Len(t, store.byName, 1)

	_, err = r.Resolve(ctx, "   ", "x")
	assert.ErrorIs(t, err, ErrEmptyName)
}
