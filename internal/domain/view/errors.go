package view

import (
	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

var (
	// ErrInvalidSortKey sort key outside {title, rating, date_read}
	ErrInvalidSortKey = apperrors.New(apperrors.ErrCodeInvalidParams, "sort must be one of: title, rating, date_read")
)
