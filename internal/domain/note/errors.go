package note

import (
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

var (
	// ErrNoteNotFound the note id does not exist
	ErrNoteNotFound = apperrors.New(apperrors.ErrCodeNoteNotFound, "note not found")

	// ErrBookNotFound the annotated book does not exist
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "book not found")

	// ErrEmptyNote body empty after trimming
	ErrEmptyNote = apperrors.New(apperrors.ErrCodeInvalidParams, "note must not be empty")
)
