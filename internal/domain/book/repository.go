package book

import (
	"context"
)

// Repository is the catalog persistence port.
// Implementations must honor a transaction carried in ctx.
type Repository interface {
	// Create inserts b and fills in its ID and timestamps
	Create(ctx context.Context, b *Book) error

	// FindByID returns ErrBookNotFound when absent
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update overwrites all mutable columns; ErrBookNotFound when absent
	Update(ctx context.Context, b *Book) error

	// Delete removes the book row only; ErrBookNotFound when absent
	Delete(ctx context.Context, id uint) error

	// List returns every book ordered by title, then id
	List(ctx context.Context) ([]*Book, error)

	// SearchByTitle matches a case-insensitive substring of the title,
	// ordered like List. An empty fragment matches all.
	SearchByTitle(ctx context.Context, fragment string) ([]*Book, error)
}

// DependentsCleaner removes rows that reference a book. The review and
// note repositories satisfy it.
type DependentsCleaner interface {
	DeleteByBookID(ctx context.Context, bookID uint) error
}

// CoverResolver looks up a cover image URL by ISBN.
// It returns "" when the catalog has no cover. Errors are never fatal to
// the caller: the service treats them as "no cover".
type CoverResolver interface {
	Resolve(ctx context.Context, isbn string) (string, error)
}
