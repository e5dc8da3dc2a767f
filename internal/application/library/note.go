package library

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/internal/domain/note"
)

// NoteUseCase note use cases (not gated)
type NoteUseCase struct {
	notes note.Service
	hooks writeHooks
}

// NewNoteUseCase creates the note use cases
func NewNoteUseCase(notes note.Service, cache ViewCache, events EventPublisher, logger *zap.Logger) *NoteUseCase {
	return &NoteUseCase{
		notes: notes,
		hooks: newWriteHooks(cache, events, logger),
	}
}

// List returns the notes of a book, oldest first
func (uc *NoteUseCase) List(ctx context.Context, bookID uint) ([]NoteResponse, error) {
	notes, err := uc.notes.ListNotesForBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return toNoteResponses(notes), nil
}

// Create adds a note to a book
func (uc *NoteUseCase) Create(ctx context.Context, bookID uint, body string) (*NoteResponse, error) {
	n, err := uc.notes.CreateNote(ctx, bookID, body)
	if err != nil {
		return nil, err
	}
	uc.hooks.committed(ctx, EventNoteCreated, n.BookID, n.ID)

	resp := toNoteResponse(n)
	return &resp, nil
}

// Update replaces a note body
func (uc *NoteUseCase) Update(ctx context.Context, id uint, body string) (*NoteResponse, error) {
	n, err := uc.notes.UpdateNote(ctx, id, body)
	if err != nil {
		return nil, err
	}
	uc.hooks.committed(ctx, EventNoteUpdated, n.BookID, n.ID)

	resp := toNoteResponse(n)
	return &resp, nil
}

// Delete removes a note
func (uc *NoteUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.notes.DeleteNote(ctx, id); err != nil {
		return err
	}
	uc.hooks.committed(ctx, EventNoteDeleted, 0, id)
	return nil
}
