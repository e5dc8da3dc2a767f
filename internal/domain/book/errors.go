package book

import (
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

// Catalog domain errors
var (
	// ErrBookNotFound the book does not exist
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "book not found")

	// ErrTitleRequired title missing after trimming
	ErrTitleRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "title is required")

	// ErrDeleteAborted the cascade delete was rolled back
	ErrDeleteAborted = apperrors.ErrIntegrityViolation
)
