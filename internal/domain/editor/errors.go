package editor

import (
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

var (
	// ErrInvalidCredentials wrong username or password
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials

	// ErrEditorNotFound no editor with that username
	ErrEditorNotFound = apperrors.New(apperrors.ErrCodeNotFound, "editor not found")

	// ErrForbidden catalog mutation attempted from a guest session
	ErrForbidden = apperrors.ErrForbidden
)
