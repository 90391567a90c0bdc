package store

import (
	"context"
	"fmt"

	"github.com/sanalover24/Expense-Tracker/internal/core"
)

// Backend is the table-storage port behind the store. Every call is scoped
// by the owner identity; implementations must never return rows belonging to
// a different owner. RenameCategory, DeleteCategory, and Replace are atomic:
// a reader must never observe a partially applied repoint, cascade, or reset.
type Backend interface {
	Transactions(ctx context.Context, owner string) ([]core.Transaction, error)
	Categories(ctx context.Context, owner string) ([]core.Category, error)

	InsertTransaction(ctx context.Context, owner string, t core.Transaction) error
	UpdateTransaction(ctx context.Context, owner string, t core.Transaction) error
	DeleteTransaction(ctx context.Context, owner, id string) error

	InsertCategory(ctx context.Context, owner string, c core.Category) error
	// RenameCategory updates the category name and repoints every
	// transaction referencing oldName to newName in one operation.
	RenameCategory(ctx context.Context, owner, id, oldName, newName string) error
	// DeleteCategory removes the category and cascades deletion to all
	// transactions referencing it by name. Zero references is not an error.
	DeleteCategory(ctx context.Context, owner, id, name string) error

	// Replace swaps both collections for the owner in one operation.
	Replace(ctx context.Context, owner string, categories []core.Category, transactions []core.Transaction) error
}

// EventPublisher receives notifications after a backend-confirmed mutation.
// Publish failures are logged by callers and never fail the user operation.
type EventPublisher interface {
	TransactionCreated(ctx context.Context, owner, id string) error
	TransactionDeleted(ctx context.Context, owner, id string) error
}

// StorageError wraps a backing-store failure. The in-memory collections are
// guaranteed untouched when one is returned.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
