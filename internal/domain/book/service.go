package book

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/internal/domain/tx"
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
	"github.com/xiebiao/booknotes/pkg/validate"
)

// Column limits, mirrored by the GORM model
const (
	maxTitleLen  = 200
	maxAuthorLen = 100
	maxISBNLen   = 20

	// longer resolver answers are dropped rather than stored
	maxCoverURLLen = 2048
)

// Service is the catalog domain service
type Service interface {
	ListBooks(ctx context.Context) ([]*Book, error)
	GetBook(ctx context.Context, id uint) (*Book, error)
	SearchBooks(ctx context.Context, fragment string) ([]*Book, error)

	// CreateBook resolves the cover from the ISBN and inserts.
	// A resolver failure stores an empty cover and never fails the call.
	CreateBook(ctx context.Context, f Fields) (*Book, error)

	// UpdateBook re-resolves the cover on every call and overwrites all fields
	UpdateBook(ctx context.Context, id uint, f Fields) (*Book, error)

	// DeleteBook removes notes, then reviews, then the book, atomically
	DeleteBook(ctx context.Context, id uint) error
}

type service struct {
	repo    Repository
	notes   DependentsCleaner
	reviews DependentsCleaner
	covers  CoverResolver
	txm     tx.Manager
	logger  *zap.Logger
}

// NewService creates the catalog service
func NewService(repo Repository, notes, reviews DependentsCleaner, covers CoverResolver, txm tx.Manager, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:    repo,
		notes:   notes,
		reviews: reviews,
		covers:  covers,
		txm:     txm,
		logger:  logger.Named("catalog"),
	}
}

// ListBooks returns all books by title
func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	return s.repo.List(ctx)
}

// GetBook returns one book
func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// SearchBooks filters by title substring
func (s *service) SearchBooks(ctx context.Context, fragment string) ([]*Book, error) {
	return s.repo.SearchByTitle(ctx, validate.Text(fragment))
}

// CreateBook creates a book
func (s *service) CreateBook(ctx context.Context, f Fields) (*Book, error) {
	// 1. Normalize and validate
	f, err := normalize(f)
	if err != nil {
		return nil, err
	}

	// 2. Resolve the cover outside any transaction (network call)
	coverURL := s.resolveCover(ctx, f.ISBN)

	// 3. Persist
	b := NewBook(f, coverURL)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// UpdateBook updates a book in place
func (s *service) UpdateBook(ctx context.Context, id uint, f Fields) (*Book, error) {
	f, err := normalize(f)
	if err != nil {
		return nil, err
	}

	coverURL := s.resolveCover(ctx, f.ISBN)

	var updated *Book
	err = s.txm.Transaction(ctx, func(txCtx context.Context) error {
		b, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		b.Apply(f, coverURL)
		if err := s.repo.Update(txCtx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteBook deletes a book and everything that references it.
// Order: notes -> reviews -> book, in one transaction.
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	err := s.txm.Transaction(ctx, func(txCtx context.Context) error {
		if err := s.notes.DeleteByBookID(txCtx, id); err != nil {
			return err
		}
		if err := s.reviews.DeleteByBookID(txCtx, id); err != nil {
			return err
		}
		return s.repo.Delete(txCtx, id)
	})
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrBookNotFound) {
		return err
	}
	s.logger.Error("book delete rolled back", zap.Uint("book_id", id), zap.Error(err))
	return apperrors.WithCause(ErrDeleteAborted, err)
}

// resolveCover never fails: lookup errors degrade to "no cover"
func (s *service) resolveCover(ctx context.Context, isbn string) string {
	if s.covers == nil || isbn == "" {
		return ""
	}
	url, err := s.covers.Resolve(ctx, isbn)
	if err != nil {
		s.logger.Warn("cover lookup failed, storing book without cover",
			zap.String("isbn", isbn), zap.Error(err))
		return ""
	}
	if len(url) > maxCoverURLLen {
		s.logger.Warn("cover url too long, storing book without cover",
			zap.String("isbn", isbn), zap.Int("len", len(url)))
		return ""
	}
	return url
}

// =========================================
// Helpers: field normalization
// =========================================

// normalize trims every field and enforces the column limits
func normalize(f Fields) (Fields, error) {
	f.Title = validate.Text(f.Title)
	f.Author = validate.Text(f.Author)
	f.Description = validate.Text(f.Description)
	f.ISBN = validate.Text(f.ISBN)

	if f.Title == "" {
		return f, ErrTitleRequired
	}
	if err := validate.MaxLen("title", f.Title, maxTitleLen); err != nil {
		return f, err
	}
	if err := validate.MaxLen("author", f.Author, maxAuthorLen); err != nil {
		return f, err
	}
	if err := validate.MaxLen("isbn", f.ISBN, maxISBNLen); err != nil {
		return f, err
	}
	return f, nil
}
