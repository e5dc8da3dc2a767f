package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/booknotes/internal/domain/note"
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates the note repository
func NewNoteRepository(db *gorm.DB) note.Repository {
	return &noteRepository{db: db}
}

// Create appends a note
func (r *noteRepository) Create(ctx context.Context, n *note.Note) error {
	model := &NoteModel{
		BookID:    n.BookID,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if err := getDB(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		if isForeignKeyError(err) {
			return note.ErrBookNotFound
		}
		return apperrors.Wrap(err, "create note")
	}

	n.ID = model.ID
	n.CreatedAt = model.CreatedAt
	n.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID looks a note up by id
func (r *noteRepository) FindByID(ctx context.Context, id uint) (*note.Note, error) {
	var model NoteModel
	err := getDB(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, note.ErrNoteNotFound
		}
		return nil, apperrors.Wrap(err, "query note")
	}
	return toNoteEntity(&model), nil
}

// ListByBookID returns the notes of a book in insertion order
func (r *noteRepository) ListByBookID(ctx context.Context, bookID uint) ([]*note.Note, error) {
	var models []NoteModel
	err := getDB(ctx, r.db).Where("book_id = ?", bookID).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "list notes")
	}

	notes := make([]*note.Note, len(models))
	for i := range models {
		notes[i] = toNoteEntity(&models[i])
	}
	return notes, nil
}

// Update replaces the body
func (r *noteRepository) Update(ctx context.Context, n *note.Note) error {
	result := getDB(ctx, r.db).Model(&NoteModel{ID: n.ID}).
		Select("notes", "updated_at").
		Updates(&NoteModel{Body: n.Body, UpdatedAt: n.UpdatedAt})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "update note")
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, n.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a note; an absent id is not an error
func (r *noteRepository) Delete(ctx context.Context, id uint) error {
	if err := getDB(ctx, r.db).Delete(&NoteModel{}, id).Error; err != nil {
		return apperrors.Wrap(err, "delete note")
	}
	return nil
}

// DeleteByBookID removes every note of a book
func (r *noteRepository) DeleteByBookID(ctx context.Context, bookID uint) error {
	if err := getDB(ctx, r.db).Where("book_id = ?", bookID).Delete(&NoteModel{}).Error; err != nil {
		return apperrors.Wrap(err, "delete notes of book")
	}
	return nil
}

func toNoteEntity(m *NoteModel) *note.Note {
	return &note.Note{
		ID:        m.ID,
		BookID:    m.BookID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
