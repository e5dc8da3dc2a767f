package note

import (
	"context"
)

// Repository is the note persistence port
type Repository interface {
	Create(ctx context.Context, n *Note) error

	// FindByID returns ErrNoteNotFound when absent
	FindByID(ctx context.Context, id uint) (*Note, error)

	// ListByBookID returns notes ordered by id ascending
	ListByBookID(ctx context.Context, bookID uint) ([]*Note, error)

	Update(ctx context.Context, n *Note) error

	// Delete is a no-op for an absent id
	Delete(ctx context.Context, id uint) error

	// DeleteByBookID removes every note of a book
	DeleteByBookID(ctx context.Context, bookID uint) error
}

// BookChecker confirms a book exists before a note is attached to it
type BookChecker interface {
	Exists(ctx context.Context, bookID uint) (bool, error)
}
