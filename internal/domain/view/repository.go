package view

import (
	"context"
)

// Repository runs the join queries behind the views.
// Rows without a review are excluded (inner join). Ties break on book id.
type Repository interface {
	// TopRated orders by rating desc
	TopRated(ctx context.Context, limit int) ([]*ReviewedBook, error)

	// MostRecent orders by date read desc
	MostRecent(ctx context.Context, limit int) ([]*ReviewedBook, error)

	// SearchReviewed filters by title substring and orders by key
	SearchReviewed(ctx context.Context, fragment string, key SortKey) ([]*ReviewedBook, error)
}
