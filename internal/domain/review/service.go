package review

import (
	"context"

	"github.com/xiebiao/booknotes/internal/domain/tx"
	"github.com/xiebiao/booknotes/pkg/validate"
)

// Service is the review domain service
type Service interface {
	// GetReviewForBook returns (review, true) or (nil, false) when none exists
	GetReviewForBook(ctx context.Context, bookID uint) (*Review, bool, error)

	// CreateReview attaches the only review of a book
	CreateReview(ctx context.Context, bookID uint, f Fields) (*Review, error)

	UpdateReview(ctx context.Context, id uint, f Fields) (*Review, error)

	// DeleteReview succeeds when the id is already gone
	DeleteReview(ctx context.Context, id uint) error
}

type service struct {
	repo  Repository
	books BookChecker
	txm   tx.Manager
}

// NewService creates the review service
func NewService(repo Repository, books BookChecker, txm tx.Manager) Service {
	return &service{repo: repo, books: books, txm: txm}
}

// GetReviewForBook looks up the review of a book
func (s *service) GetReviewForBook(ctx context.Context, bookID uint) (*Review, bool, error) {
	r, err := s.repo.FindByBookID(ctx, bookID)
	if err != nil {
		return nil, false, err
	}
	return r, r != nil, nil
}

// CreateReview creates a review.
// Business rules:
// - the book must exist
// - one review per book (checked here and by a unique index)
func (s *service) CreateReview(ctx context.Context, bookID uint, f Fields) (*Review, error) {
	f, err := normalize(f)
	if err != nil {
		return nil, err
	}

	var created *Review
	err = s.txm.Transaction(ctx, func(txCtx context.Context) error {
		ok, err := s.books.Exists(txCtx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBookNotFound
		}

		existing, err := s.repo.FindByBookID(txCtx, bookID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrReviewExists
		}

		r := NewReview(bookID, f)
		if err := s.repo.Create(txCtx, r); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateReview updates a review by id
func (s *service) UpdateReview(ctx context.Context, id uint, f Fields) (*Review, error) {
	f, err := normalize(f)
	if err != nil {
		return nil, err
	}

	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Apply(f)
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteReview deletes a review by id
func (s *service) DeleteReview(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func normalize(f Fields) (Fields, error) {
	if err := validate.Rating(f.Rating); err != nil {
		return f, err
	}
	if err := validate.NonZeroDate("date_read", f.DateRead); err != nil {
		return f, err
	}
	f.DateRead = validate.CalendarDate(f.DateRead)
	f.Body = validate.Text(f.Body)
	return f, nil
}
