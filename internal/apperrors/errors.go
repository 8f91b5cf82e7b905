package apperrors

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error categories the core can return.
type Kind string

const (
	KindNotFound   Kind = "NOT_FOUND"
	KindValidation Kind = "VALIDATION"
	KindConflict   Kind = "CONFLICT"
	KindInternal   Kind = "INTERNAL"
)

// ErrNotFound indicates that a requested resource could not be found
// or is not owned by the calling seller.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates a state-machine violation.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates a persistence or transport failure.
var ErrInternal = errors.New("internal error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// It is a Conflict.
var ErrDuplicate = fmt.Errorf("%w: resource already exists", ErrConflict)

// AppError carries a Kind, a user-facing message and an optional cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

// NewAppError creates an AppError of the given kind.
func NewAppError(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(KindNotFound, message, nil)
}

func NewValidationError(message string) *AppError {
	return NewAppError(KindValidation, message, nil)
}

func NewConflictError(message string) *AppError {
	return NewAppError(KindConflict, message, nil)
}

func NewInternalError(message string, err error) *AppError {
	return NewAppError(KindInternal, message, err)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind sentinel and the cause, so errors.Is matches either.
func (e *AppError) Unwrap() []error {
	errs := []error{sentinelFor(e.Kind)}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func sentinelFor(kind Kind) error {
	switch kind {
	case KindNotFound:
		return ErrNotFound
	case KindValidation:
		return ErrValidation
	case KindConflict:
		return ErrConflict
	default:
		return ErrInternal
	}
}

// KindOf classifies any error. Unrecognised errors are Internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}

// Message returns the user-facing message of err. Internal errors are not described.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	if KindOf(err) == KindInternal {
		return "internal server error"
	}
	return err.Error()
}
