package library

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/internal/domain/book"
	"github.com/xiebiao/booknotes/internal/domain/editor"
)

// CatalogUseCase book use cases. Every mutation needs an editor session.
type CatalogUseCase struct {
	books book.Service
	gate  editor.Gate
	hooks writeHooks
}

// NewCatalogUseCase creates the catalog use cases
func NewCatalogUseCase(books book.Service, gate editor.Gate, cache ViewCache, events EventPublisher, logger *zap.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		books: books,
		gate:  gate,
		hooks: newWriteHooks(cache, events, logger),
	}
}

// List returns all books, or those whose title contains query
func (uc *CatalogUseCase) List(ctx context.Context, query string) ([]BookResponse, error) {
	var (
		books []*book.Book
		err   error
	)
	if query == "" {
		books, err = uc.books.ListBooks(ctx)
	} else {
		books, err = uc.books.SearchBooks(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	return toBookResponses(books), nil
}

// Get returns one book
func (uc *CatalogUseCase) Get(ctx context.Context, id uint) (*BookResponse, error) {
	b, err := uc.books.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toBookResponse(b)
	return &resp, nil
}

// Create adds a book
func (uc *CatalogUseCase) Create(ctx context.Context, token string, req BookRequest) (*BookResponse, error) {
	if err := uc.gate.Authorize(ctx, token); err != nil {
		return nil, err
	}

	b, err := uc.books.CreateBook(ctx, req.fields())
	if err != nil {
		return nil, err
	}
	uc.hooks.committed(ctx, EventBookCreated, b.ID, b.ID)

	resp := toBookResponse(b)
	return &resp, nil
}

// Update overwrites a book
func (uc *CatalogUseCase) Update(ctx context.Context, token string, id uint, req BookRequest) (*BookResponse, error) {
	if err := uc.gate.Authorize(ctx, token); err != nil {
		return nil, err
	}

	b, err := uc.books.UpdateBook(ctx, id, req.fields())
	if err != nil {
		return nil, err
	}
	uc.hooks.committed(ctx, EventBookUpdated, b.ID, b.ID)

	resp := toBookResponse(b)
	return &resp, nil
}

// Delete removes a book with its review and notes
func (uc *CatalogUseCase) Delete(ctx context.Context, token string, id uint) error {
	if err := uc.gate.Authorize(ctx, token); err != nil {
		return err
	}

	if err := uc.books.DeleteBook(ctx, id); err != nil {
		return err
	}
	uc.hooks.committed(ctx, EventBookDeleted, id, id)
	return nil
}
