package review

import (
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

// Review domain errors
var (
	// ErrReviewNotFound the review id does not exist
	ErrReviewNotFound = apperrors.New(apperrors.ErrCodeReviewNotFound, "review not found")

	// ErrBookNotFound the reviewed book does not exist (same code as the catalog's)
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "book not found")

	// ErrReviewExists the book already has a review
	ErrReviewExists = apperrors.New(apperrors.ErrCodeDuplicateEntry, "this book already has a review")
)
