package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/booknotes/internal/domain/book"
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

// BookRepository implements book.Repository with GORM.
// It also answers the review and note stores' BookChecker.
type BookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates the book repository
func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// Create inserts a book
func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := getDB(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "create book")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID looks a book up by id
func (r *BookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "query book")
	}
	return toBookEntity(&model), nil
}

// Exists reports whether a book id is present
func (r *BookRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := getDB(ctx, r.db).Model(&BookModel{}).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, apperrors.Wrap(err, "query book")
	}
	return n > 0, nil
}

// Update overwrites every mutable column
func (r *BookRepository) Update(ctx context.Context, b *book.Book) error {
	db := getDB(ctx, r.db)
	result := db.Model(&BookModel{ID: b.ID}).
		Select("title", "author", "description", "isbn", "cover_url", "updated_at").
		Updates(toBookModel(b))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "update book")
	}

	// MySQL reports 0 affected rows when nothing changed, so confirm absence
	if result.RowsAffected == 0 {
		ok, err := r.Exists(ctx, b.ID)
		if err != nil {
			return err
		}
		if !ok {
			return book.ErrBookNotFound
		}
	}
	return nil
}

// Delete removes the book row. Dependent rows must be gone already;
// the foreign keys refuse to orphan them.
func (r *BookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return apperrors.WithCause(book.ErrDeleteAborted, result.Error)
		}
		return apperrors.Wrap(result.Error, "delete book")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// List returns all books by title
func (r *BookRepository) List(ctx context.Context) ([]*book.Book, error) {
	return r.SearchByTitle(ctx, "")
}

// SearchByTitle case-insensitive substring match on title
func (r *BookRepository) SearchByTitle(ctx context.Context, fragment string) ([]*book.Book, error) {
	query := getDB(ctx, r.db).Model(&BookModel{})
	if fragment != "" {
		query = query.Where(fmt.Sprintf(titleContains, "title"), containsPattern(fragment))
	}

	var models []BookModel
	if err := query.Order("title ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "list books")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// =========================================
// Model conversion
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		ISBN:        b.ISBN,
		CoverURL:    b.CoverURL,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBookEntity(m *BookModel) *book.Book {
	return &book.Book{
		ID:          m.ID,
		Title:       m.Title,
		Author:      m.Author,
		Description: m.Description,
		ISBN:        m.ISBN,
		CoverURL:    m.CoverURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
