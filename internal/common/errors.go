package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrUnauthorized        = errors.New("unauthorized access")
	ErrForbidden           = errors.New("forbidden access")
	ErrNotFound            = errors.New("requested resource not found")
	ErrUpstream            = errors.New("upstream service failed")
	ErrStorage             = errors.New("storage operation failed")
)

// UpstreamError is returned when the external judge could not produce a verdict.
// Details holds whatever the upstream sent back, or the transport error text.
type UpstreamError struct {
	Details any
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return ErrUpstream.Error()
	}
	return fmt.Sprintf("%s: %v", ErrUpstream, e.Err)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// PublicError pairs a message that is safe to show clients with its cause.
type PublicError struct {
	Message string
	Err     error
}

func (e *PublicError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *PublicError) Unwrap() error {
	return e.Err
}

// WithMessage attaches a client-facing message to err. The status code is
// still derived from err.
func WithMessage(message string, err error) error {
	return &PublicError{Message: message, Err: err}
}

// StorageError wraps a driver error so callers can match ErrStorage without
// losing the cause. Constraint violations become validation errors using the
// per-constraint messages in constraintMsgs, keyed by constraint name.
func StorageError(op string, err error, constraintMsgs map[string]string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case CodeUniqueViolation, CodeForeignKeyViolation:
			msg, ok := constraintMsgs[pgErr.ConstraintName]
			if !ok {
				msg = pgErr.Detail
			}
			return WithMessage(msg, ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	// upstream and storage failures are both reported as 500
	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
