package common

import (
	"errors"
	"fmt"
)

// Pipeline failure kinds. Every stage either returns a fully valid result or an
// error wrapping exactly one of these; nothing is downgraded to an empty value.
var (
	// ErrSourceUnreadable: input file missing, unreadable, or yielded empty text.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrBackendUnavailable: extraction backend unreachable or failed at the
	// transport level.
	ErrBackendUnavailable = errors.New("extraction backend unavailable")

	// ErrMalformedResponse: backend responded but the content is not parseable
	// as a JSON object. Syntactic failure, distinct from a schema violation.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrSchemaViolation: candidate parsed but does not conform to the declared
	// schema (missing required field, wrong type, unknown field, bad enum).
	ErrSchemaViolation = errors.New("schema violation")

	// ErrPersistenceFailure: the validated output could not be stored.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// AppError carries a stable code alongside a human message and cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
