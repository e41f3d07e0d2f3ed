package collection

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("item not found")
	ErrEmptyName = errors.New("item name cannot be empty")
)

// Store is the durable home of collection items. Implementations report
// medium failures as *StorageError and never partially apply a write.
type Store interface {
	// Init creates the schema if needed and adds any missing columns.
	// It is idempotent.
	Init(ctx context.Context) error
	Create(ctx context.Context, item Item) (int64, error)
	// List returns a snapshot ordered by DateAdded, most recent first.
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	// Update overwrites the mutable fields of id and returns the number of
	// changed records. Zero means no such item.
	Update(ctx context.Context, id int64, item Item) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Close() error
}

// StorageError reports a store operation that could not complete.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// ValidationError reports an item field that breaks a business rule.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
