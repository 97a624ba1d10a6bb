package storage

import (
	"context"
	"errors"
)

// Persistence keys, one per widget. Values are JSON arrays of records.
const (
	KeyTasks    = "tasks"
	KeyCart     = "shoppingCart"
	KeyExpenses = "expense-tracker-data"
)

// ErrNotFound is returned by Read when no snapshot exists for the key.
var ErrNotFound = errors.New("storage: snapshot not found")

// Backend is a durable key/value slot for whole-store snapshots. Writes are
// last-writer-wins; there is no merge and no optimistic concurrency.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
