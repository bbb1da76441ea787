package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by services and repositories. The HTTP layer maps
// them to status codes.
var (
	ErrNotFound             = errors.New("not found")
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrEventNotFound        = fmt.Errorf("event %w", ErrNotFound)
	ErrSubscriptionNotFound = fmt.Errorf("subscription %w", ErrNotFound)

	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateEventName = errors.New("event name already in use")
	ErrAlreadySubscribed  = errors.New("already subscribed to event")
	ErrAlreadyInactive    = errors.New("already inactive")

	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidCursor = fmt.Errorf("%w: invalid pagination token", ErrInvalidInput)
	ErrForbidden     = errors.New("forbidden")
)

// ValidationError reports which field failed validation and why.
// errors.Is(err, ErrInvalidInput) is true for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
