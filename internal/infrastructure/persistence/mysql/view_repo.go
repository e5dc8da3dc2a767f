package mysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/booknotes/internal/domain/book"
	"github.com/xiebiao/booknotes/internal/domain/review"
	"github.com/xiebiao/booknotes/internal/domain/view"
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

// orderClauses maps each sort key to a fixed ORDER BY.
// Every ordering ends on books.id so ties are deterministic.
var orderClauses = map[view.SortKey]string{
	view.ByTitle:    "books.title ASC, books.id ASC",
	view.ByRating:   "reviews.rating DESC, books.id ASC",
	view.ByDateRead: "reviews.date_read DESC, books.id ASC",
}

const reviewedColumns = `books.id AS book_id, books.title, books.author, books.description,
books.isbn, books.cover_url, books.created_at AS book_created_at, books.updated_at AS book_updated_at,
reviews.id AS review_id, reviews.rating, reviews.date_read, reviews.review,
reviews.created_at AS review_created_at, reviews.updated_at AS review_updated_at`

// reviewedRow is one row of books JOIN reviews
type reviewedRow struct {
	BookID          uint      `gorm:"column:book_id"`
	Title           string    `gorm:"column:title"`
	Author          string    `gorm:"column:author"`
	Description     string    `gorm:"column:description"`
	ISBN            string    `gorm:"column:isbn"`
	CoverURL        string    `gorm:"column:cover_url"`
	BookCreatedAt   time.Time `gorm:"column:book_created_at"`
	BookUpdatedAt   time.Time `gorm:"column:book_updated_at"`
	ReviewID        uint      `gorm:"column:review_id"`
	Rating          int       `gorm:"column:rating"`
	DateRead        time.Time `gorm:"column:date_read"`
	Review          string    `gorm:"column:review"`
	ReviewCreatedAt time.Time `gorm:"column:review_created_at"`
	ReviewUpdatedAt time.Time `gorm:"column:review_updated_at"`
}

type viewRepository struct {
	db *gorm.DB
}

// NewViewRepository creates the join query repository
func NewViewRepository(db *gorm.DB) view.Repository {
	return &viewRepository{db: db}
}

// TopRated reviewed books by rating
func (r *viewRepository) TopRated(ctx context.Context, limit int) ([]*view.ReviewedBook, error) {
	return r.query(ctx, "", view.ByRating, limit)
}

// MostRecent reviewed books by date read
func (r *viewRepository) MostRecent(ctx context.Context, limit int) ([]*view.ReviewedBook, error) {
	return r.query(ctx, "", view.ByDateRead, limit)
}

// SearchReviewed reviewed books whose title contains fragment
func (r *viewRepository) SearchReviewed(ctx context.Context, fragment string, key view.SortKey) ([]*view.ReviewedBook, error) {
	return r.query(ctx, fragment, key, 0)
}

func (r *viewRepository) query(ctx context.Context, fragment string, key view.SortKey, limit int) ([]*view.ReviewedBook, error) {
	if !key.Valid() {
		return nil, view.ErrInvalidSortKey
	}
	order := orderClauses[key]

	q := getDB(ctx, r.db).Table("books").
		Select(reviewedColumns).
		Joins("JOIN reviews ON reviews.book_id = books.id")
	if fragment != "" {
		q = q.Where(fmt.Sprintf(titleContains, "books.title"), containsPattern(fragment))
	}
	q = q.Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []reviewedRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "query reviewed books")
	}

	out := make([]*view.ReviewedBook, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, nil
}

func (row *reviewedRow) toEntity() *view.ReviewedBook {
	return &view.ReviewedBook{
		Book: &book.Book{
			ID:          row.BookID,
			Title:       row.Title,
			Author:      row.Author,
			Description: row.Description,
			ISBN:        row.ISBN,
			CoverURL:    row.CoverURL,
			CreatedAt:   row.BookCreatedAt,
			UpdatedAt:   row.BookUpdatedAt,
		},
		Review: &review.Review{
			ID:        row.ReviewID,
			BookID:    row.BookID,
			Rating:    row.Rating,
			DateRead:  calendarDate(row.DateRead),
			Body:      row.Review,
			CreatedAt: row.ReviewCreatedAt,
			UpdatedAt: row.ReviewUpdatedAt,
		},
	}
}
