package errors

import (
	"errors"
	"fmt"
)

// AppError is the application error carried from the domain to the API.
// Design notes:
// 1. Code lets clients branch on the error kind (never the raw HTTP status)
// 2. Message is safe to show to the user
// 3. Err is the internal cause; it is logged and never serialized
type AppError struct {
	Code    int    `json:"code"`    // business error code
	Message string `json:"message"` // user-facing message
	Err     error  `json:"-"`       // internal cause (not serialized)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap supports errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors by code, so a wrapped copy of a sentinel
// still satisfies errors.Is against the sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates an AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps a system error (database, network) as an internal error
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf wraps with a formatted message
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithCause returns a copy of a sentinel carrying an internal cause.
// The copy still matches the sentinel with errors.Is.
func WithCause(sentinel *AppError, err error) *AppError {
	return &AppError{
		Code:    sentinel.Code,
		Message: sentinel.Message,
		Err:     err,
	}
}

// =========================================
// Error codes
// =========================================
// Convention:
// - 4xxxx: client errors (bad params, business rule failures)
// - 5xxxx: server errors (database, external services)

const (
	// System (50000-50099)
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeRedisError    = 50002

	// Auth (40100-40199)
	ErrCodeUnauthorized       = 40100
	ErrCodeInvalidToken       = 40101
	ErrCodeTokenExpired       = 40102
	ErrCodeInvalidCredentials = 40103
	ErrCodeForbidden          = 40104

	// Not found (40400-40499)
	ErrCodeNotFound       = 40400
	ErrCodeBookNotFound   = 40402
	ErrCodeReviewNotFound = 40405
	ErrCodeNoteNotFound   = 40406

	// Business rules (40000-40099)
	ErrCodeBusinessError      = 40000
	ErrCodeDuplicateEntry     = 40009
	ErrCodeIntegrityViolation = 40010

	// Params (40900-40999)
	ErrCodeInvalidParams = 40900
	ErrCodeBindError     = 40901

	// Throttling
	ErrCodeTooManyRequests = 42900
)

// =========================================
// Predefined errors
// =========================================

var (
	ErrInternal      = New(ErrCodeInternal, "internal error")
	ErrDatabaseError = New(ErrCodeDatabaseError, "database error")
	ErrRedisError    = New(ErrCodeRedisError, "cache service error")

	ErrUnauthorized       = New(ErrCodeUnauthorized, "please sign in")
	ErrInvalidToken       = New(ErrCodeInvalidToken, "invalid token")
	ErrTokenExpired       = New(ErrCodeTokenExpired, "token expired")
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "invalid username or password")
	ErrForbidden          = New(ErrCodeForbidden, "editor access required")

	ErrNotFound = New(ErrCodeNotFound, "resource not found")

	ErrIntegrityViolation = New(ErrCodeIntegrityViolation, "operation aborted to keep data consistent, please retry")

	ErrInvalidParams   = New(ErrCodeInvalidParams, "invalid parameters")
	ErrBindError       = New(ErrCodeBindError, "malformed request")
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "too many attempts, try again later")
)

// =========================================
// Helpers
// =========================================

// IsAppError reports whether err carries an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts the AppError, wrapping anything else as internal
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "internal error")
}

// Invalid builds a validation error with a field-specific message
func Invalid(message string) *AppError {
	return New(ErrCodeInvalidParams, message)
}

// IsNotFound reports whether err is any of the not-found codes
func IsNotFound(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code >= ErrCodeNotFound && appErr.Code < ErrCodeNotFound+100
}

// IsValidation reports whether err is a parameter validation error
func IsValidation(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == ErrCodeInvalidParams || appErr.Code == ErrCodeBindError
}
