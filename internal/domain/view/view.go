// Package view composes books, reviews and notes into read models.
package view

import (
	"github.com/xiebiao/booknotes/internal/domain/book"
	"github.com/xiebiao/booknotes/internal/domain/note"
	"github.com/xiebiao/booknotes/internal/domain/review"
)

// DefaultLimit is the size of the home page lists
const DefaultLimit = 3

// ReviewedBook is one row of the inner join of books and reviews
type ReviewedBook struct {
	Book   *book.Book
	Review *review.Review
}

// Detail is a book with its optional review and its notes in order
type Detail struct {
	Book   *book.Book
	Review *review.Review // nil when the book has no review
	Notes  []*note.Note
}

// Home bundles the two lists shown on the landing page
type Home struct {
	TopRated   []*ReviewedBook
	MostRecent []*ReviewedBook
}

// SortKey is the closed set of orderings for the review list.
// Each key maps to a fixed ORDER BY clause in the repository; caller
// input never reaches the query text.
type SortKey int

const (
	ByTitle    SortKey = iota // title ascending
	ByRating                  // rating descending
	ByDateRead                // date read descending
)

// String returns the wire name of the key
func (k SortKey) String() string {
	switch k {
	case ByTitle:
		return "title"
	case ByRating:
		return "rating"
	case ByDateRead:
		return "date_read"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared keys
func (k SortKey) Valid() bool {
	return k >= ByTitle && k <= ByDateRead
}

// ParseSortKey maps a wire name to a SortKey. Empty means ByTitle.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "", "title":
		return ByTitle, nil
	case "rating":
		return ByRating, nil
	case "date_read":
		return ByDateRead, nil
	default:
		return 0, ErrInvalidSortKey
	}
}
