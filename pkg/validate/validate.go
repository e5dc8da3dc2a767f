// Package validate normalizes scalar request fields before they reach the
// domain: trimmed strings, positive ids, bounded ratings and calendar dates.
package validate

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/xiebiao/booknotes/pkg/errors"
)

// DateLayout is the wire format for calendar dates (date_read).
const DateLayout = "2006-01-02"

// Rating bounds. Reviews use a 1-5 scale.
const (
	MinRating = 1
	MaxRating = 5
)

// Text trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(s)
}

// Required trims s and fails when nothing is left.
func Required(field, s string) (string, error) {
	s = Text(s)
	if s == "" {
		return "", apperrors.Invalid(field + " is required")
	}
	return s, nil
}

// MaxLen fails when s is longer than n runes.
func MaxLen(field, s string, n int) error {
	if len([]rune(s)) > n {
		return apperrors.Invalid(field + " must be at most " + strconv.Itoa(n) + " characters")
	}
	return nil
}

// ID parses a positive numeric identifier.
func ID(field, raw string) (uint, error) {
	raw = Text(raw)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, apperrors.Invalid(field + " must be a positive integer")
	}
	return uint(n), nil
}

// Limit parses an optional positive count; empty input yields def.
func Limit(raw string, def int) (int, error) {
	raw = Text(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.Invalid("n must be a positive integer")
	}
	return n, nil
}

// Rating checks r against the review scale.
func Rating(r int) error {
	if r < MinRating || r > MaxRating {
		return apperrors.Invalid("rating must be between " + strconv.Itoa(MinRating) + " and " + strconv.Itoa(MaxRating))
	}
	return nil
}

// Date parses a YYYY-MM-DD calendar date as UTC midnight.
func Date(field, raw string) (time.Time, error) {
	raw = Text(raw)
	if raw == "" {
		return time.Time{}, apperrors.Invalid(field + " is required")
	}
	d, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.Invalid(field + " must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

// CalendarDate truncates t to UTC midnight of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NonZeroDate rejects the zero time.
func NonZeroDate(field string, t time.Time) error {
	if t.IsZero() {
		return apperrors.Invalid(field + " is required")
	}
	return nil
}
