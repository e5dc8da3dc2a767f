package review

import (
	"context"
)

// Repository is the review persistence port
type Repository interface {
	// Create inserts r; ErrReviewExists when the book already has one
	Create(ctx context.Context, r *Review) error

	// FindByBookID returns (nil, nil) when the book has no review
	FindByBookID(ctx context.Context, bookID uint) (*Review, error)

	// FindByID returns ErrReviewNotFound when absent
	FindByID(ctx context.Context, id uint) (*Review, error)

	// Update overwrites rating, date read and body
	Update(ctx context.Context, r *Review) error

	// Delete is a no-op for an absent id
	Delete(ctx context.Context, id uint) error

	// DeleteByBookID removes the review of a book, if any
	DeleteByBookID(ctx context.Context, bookID uint) error
}

// BookChecker confirms a book exists before a review is attached to it
type BookChecker interface {
	Exists(ctx context.Context, bookID uint) (bool, error)
}
