package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is or the Is helpers; adapters map
// them to HTTP status codes and CLI exit messages.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrUnavailable     = errors.New("unavailable")
	ErrInvalidResponse = errors.New("invalid response")
)

// NotFoundError names the missing entity, such as a bookmark id or a
// storage key.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError reports that entity id does not exist.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError is rejected input. Field names the input and becomes the
// key of the HTTP error details.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Message
	}

	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError reports that field is invalid.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue is NewValidationError keeping the rejected value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError is a dependency that could not serve the request: the
// generator, the store, the clipboard or the browser.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return e.Service + " unavailable"
	}

	return e.Service + " unavailable: " + e.Reason
}

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// NewUnavailableError reports that service could not be used.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// InvalidResponseError is a reply that could not become a domain value,
// such as a generated quote with no author.
type InvalidResponseError struct {
	Service string
	Reason  string
	Cause   error
}

func (e *InvalidResponseError) Error() string {
	msg := fmt.Sprintf("%s sent an invalid response: %s", e.Service, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *InvalidResponseError) Is(target error) bool { return target == ErrInvalidResponse }

func (e *InvalidResponseError) Unwrap() error { return e.Cause }

// NewInvalidResponseError reports an unusable reply from service. cause may be nil.
func NewInvalidResponseError(service, reason string, cause error) error {
	return &InvalidResponseError{Service: service, Reason: reason, Cause: cause}
}

func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool      { return errors.Is(err, ErrValidation) }
func IsUnavailable(err error) bool     { return errors.Is(err, ErrUnavailable) }
func IsInvalidResponse(err error) bool { return errors.Is(err, ErrInvalidResponse) }
