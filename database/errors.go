package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks timeouts and connection failures; the caller may retry.
	ErrTransient = errors.New("transient storage error")
)

// Classify wraps timeouts and network errors with ErrTransient and maps
// mongo.ErrNoDocuments onto ErrNotFound. Other errors pass through unchanged.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}
