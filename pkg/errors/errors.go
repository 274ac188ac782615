package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Hint    string                 `json:"hint,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors covering the intake pipeline taxonomy.
var (
	ErrOriginMissing    = New("ORIGIN_REJECTED", http.StatusUnauthorized, "missing origin and referer")
	ErrOriginMismatch   = New("ORIGIN_REJECTED", http.StatusForbidden, "unauthorized origin")
	ErrMalformedRequest = New("MALFORMED_REQUEST", http.StatusBadRequest, "request body could not be parsed")
	ErrMissingFile      = New("MISSING_FILE", http.StatusBadRequest, "required file is missing")
	ErrInvalidFileType  = New("INVALID_FILE_TYPE", http.StatusBadRequest, "file type is not allowed")
	ErrFileTooLarge     = New("FILE_TOO_LARGE", http.StatusRequestEntityTooLarge, "file exceeds the size limit")
	ErrUploadFailed     = New("UPLOAD_FAILED", http.StatusInternalServerError, "file storage upload failed")
	ErrValidation       = New("VALIDATION_FAILED", http.StatusBadRequest, "validation failed")
	ErrDuplicateEmail   = New("DUPLICATE_EMAIL", http.StatusConflict, "an application with this email already exists")
	ErrMethodNotAllowed = New("METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed, "method not allowed")

	ErrStoreUnavailable = withHint(
		New("STORE_UNAVAILABLE", http.StatusServiceUnavailable, "datastore is unreachable"),
		"check database connectivity and retry shortly")
	ErrStoreUnauthorized = withHint(
		New("STORE_UNAVAILABLE", http.StatusUnauthorized, "datastore rejected the configured credentials"),
		"verify the datastore username and password")

	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy carrying structured detail fields such as the
// offending form field name.
func WithDetails(err *Error, details map[string]interface{}) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Details = details
	return &clone
}

func withHint(err *Error, hint string) *Error {
	err.Hint = hint
	return err
}
