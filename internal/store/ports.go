// Package store defines the persistence port for expenses. The application
// depends only on this contract; the local and remote variants under
// store/local and store/remote implement it.
package store

import (
	"context"
	"errors"

	"chitieu/internal/core"
)

// Sentinel failure classes. Implementations wrap these with %w so callers
// can classify with errors.Is while still seeing the underlying cause.
var (
	// ErrUnavailable means the backing store cannot be reached or was
	// never configured.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrReadFailure means stored or fetched data is malformed.
	ErrReadFailure = errors.New("stored data malformed")

	// ErrWriteFailure means a create or delete was rejected by the store.
	ErrWriteFailure = errors.New("write rejected by store")
)

// Store is the persistence contract for expenses.
type Store interface {
	// List returns all persisted expenses ordered descending by date.
	List(ctx context.Context) ([]core.Expense, error)

	// Create persists a draft (an Expense with empty ID) and returns the
	// assigned id. The draft is assumed validated; validation never
	// reaches the port.
	Create(ctx context.Context, draft core.Expense) (string, error)

	// Delete removes the record with the given id. Deleting an absent id
	// is not an error.
	Delete(ctx context.Context, id string) error
}
