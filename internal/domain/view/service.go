package view

import (
	"context"

	"github.com/xiebiao/booknotes/internal/domain/book"
	"github.com/xiebiao/booknotes/internal/domain/note"
	"github.com/xiebiao/booknotes/internal/domain/review"
	"github.com/xiebiao/booknotes/internal/domain/tx"
	"github.com/xiebiao/booknotes/pkg/tracing"
	"github.com/xiebiao/booknotes/pkg/validate"
)

const tracerName = "booknotes/view"

// Service is the aggregation engine
type Service interface {
	TopRated(ctx context.Context, limit int) ([]*ReviewedBook, error)
	MostRecent(ctx context.Context, limit int) ([]*ReviewedBook, error)

	// SearchReviews validates sort against the allow-list before querying
	SearchReviews(ctx context.Context, fragment, sort string) ([]*ReviewedBook, error)

	// Detail returns ErrBookNotFound when the book is absent
	Detail(ctx context.Context, bookID uint) (*Detail, error)

	Home(ctx context.Context) (*Home, error)
}

type service struct {
	repo    Repository
	books   book.Repository
	reviews review.Repository
	notes   note.Repository
	txm     tx.Manager
}

// NewService creates the aggregation service
func NewService(repo Repository, books book.Repository, reviews review.Repository, notes note.Repository, txm tx.Manager) Service {
	return &service{
		repo:    repo,
		books:   books,
		reviews: reviews,
		notes:   notes,
		txm:     txm,
	}
}

// TopRated returns the best rated reviewed books
func (s *service) TopRated(ctx context.Context, limit int) ([]*ReviewedBook, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "view.TopRated")
	defer span.End()

	return s.repo.TopRated(ctx, normalizeLimit(limit))
}

// MostRecent returns the most recently read reviewed books
func (s *service) MostRecent(ctx context.Context, limit int) ([]*ReviewedBook, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "view.MostRecent")
	defer span.End()

	return s.repo.MostRecent(ctx, normalizeLimit(limit))
}

// SearchReviews lists reviewed books matching a title fragment
func (s *service) SearchReviews(ctx context.Context, fragment, sort string) ([]*ReviewedBook, error) {
	key, err := ParseSortKey(validate.Text(sort))
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, tracerName, "view.SearchReviews")
	defer span.End()

	return s.repo.SearchReviewed(ctx, validate.Text(fragment), key)
}

// Detail reads book, review and notes from one snapshot
func (s *service) Detail(ctx context.Context, bookID uint) (*Detail, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "view.Detail")
	defer span.End()

	var d *Detail
	err := s.txm.Transaction(ctx, func(txCtx context.Context) error {
		b, err := s.books.FindByID(txCtx, bookID)
		if err != nil {
			return err
		}
		r, err := s.reviews.FindByBookID(txCtx, bookID)
		if err != nil {
			return err
		}
		notes, err := s.notes.ListByBookID(txCtx, bookID)
		if err != nil {
			return err
		}
		d = &Detail{Book: b, Review: r, Notes: notes}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Home returns top rated and most recent, DefaultLimit each
func (s *service) Home(ctx context.Context) (*Home, error) {
	top, err := s.TopRated(ctx, DefaultLimit)
	if err != nil {
		return nil, err
	}
	recent, err := s.MostRecent(ctx, DefaultLimit)
	if err != nil {
		return nil, err
	}
	return &Home{TopRated: top, MostRecent: recent}, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
