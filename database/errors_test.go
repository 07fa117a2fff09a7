package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(nil))
	assert.ErrorIs(t, Classify(mongo.ErrNoDocuments), ErrNotFound)
	assert.ErrorIs(t, Classify(fmt.Errorf("find: %w", context.DeadlineExceeded)), ErrTransient)

	other := errors.New("duplicate key")
	assert.Same(t, other, Classify(other))
}
