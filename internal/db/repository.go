package db

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate value")
	ErrVersionConflict   = errors.New("version conflict")
	ErrInvalidPagination = errors.New("invalid pagination")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrInvalidReference  = errors.New("invalid reference")
)

// Repository is the storage contract shared by every entity. E is the stored
// entity, C its creation input and U its sparse update input.
//
// Update and Delete take the entity the caller last read. Update fails with
// ErrVersionConflict when the row changed since; Delete returns the row as it
// was just before removal.
type Repository[E, C, U any] interface {
	GetOneByID(ctx context.Context, id string) (*E, error)
	GetOne(ctx context.Context, filter Filter) (*E, error)
	GetMany(ctx context.Context, filter Filter, offset, limit int) ([]E, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Create(ctx context.Context, in C) (*E, error)
	Update(ctx context.Context, current *E, in U) (*E, error)
	Delete(ctx context.Context, current *E) (*E, error)
}

// TxManager runs fn atomically. Repositories called with the ctx passed to
// fn take part in the same unit of work.
type TxManager interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

func validatePage(offset, limit int) error {
	if offset < 0 || limit <= 0 {
		return ErrInvalidPagination
	}
	return nil
}
