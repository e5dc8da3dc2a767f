package note

import (
	"context"

	"github.com/xiebiao/booknotes/internal/domain/tx"
	"github.com/xiebiao/booknotes/pkg/validate"
)

// Service is the annotation domain service
type Service interface {
	ListNotesForBook(ctx context.Context, bookID uint) ([]*Note, error)
	CreateNote(ctx context.Context, bookID uint, body string) (*Note, error)
	UpdateNote(ctx context.Context, id uint, body string) (*Note, error)
	DeleteNote(ctx context.Context, id uint) error
}

type service struct {
	repo  Repository
	books BookChecker
	txm   tx.Manager
}

// NewService creates the note service
func NewService(repo Repository, books BookChecker, txm tx.Manager) Service {
	return &service{repo: repo, books: books, txm: txm}
}

// ListNotesForBook returns notes in insertion order
func (s *service) ListNotesForBook(ctx context.Context, bookID uint) ([]*Note, error) {
	return s.repo.ListByBookID(ctx, bookID)
}

// CreateNote appends a note to a book
func (s *service) CreateNote(ctx context.Context, bookID uint, body string) (*Note, error) {
	body = validate.Text(body)
	if body == "" {
		return nil, ErrEmptyNote
	}

	var created *Note
	err := s.txm.Transaction(ctx, func(txCtx context.Context) error {
		ok, err := s.books.Exists(txCtx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBookNotFound
		}
		n := NewNote(bookID, body)
		if err := s.repo.Create(txCtx, n); err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateNote replaces the body of a note
func (s *service) UpdateNote(ctx context.Context, id uint, body string) (*Note, error) {
	body = validate.Text(body)
	if body == "" {
		return nil, ErrEmptyNote
	}

	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Edit(body)
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// DeleteNote deletes a note; absent ids are ignored
func (s *service) DeleteNote(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
