package review

import (
	"time"

	"github.com/xiebiao/booknotes/pkg/validate"
)

// Review is the single review attached to a book.
// A book has at most one review; absence is a normal state.
type Review struct {
	ID        uint
	BookID    uint
	Rating    int       // 1-5
	DateRead  time.Time // calendar date, UTC midnight
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields are the mutable attributes of a review
type Fields struct {
	Rating   int
	DateRead time.Time
	Body     string
}

// NewReview creates a review for bookID (factory)
func NewReview(bookID uint, f Fields) *Review {
	now := time.Now()
	return &Review{
		BookID:    bookID,
		Rating:    f.Rating,
		DateRead:  validate.CalendarDate(f.DateRead),
		Body:      f.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply overwrites rating, date read and body
func (r *Review) Apply(f Fields) {
	r.Rating = f.Rating
	r.DateRead = validate.CalendarDate(f.DateRead)
	r.Body = f.Body
	r.UpdatedAt = time.Now()
}
