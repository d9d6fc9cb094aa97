package usecase

import (
	"errors"

	"sauvini-api/internal/data/entity"
	"sauvini-api/pkg/utils"
)

// Domain errors. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrWeakPassword       = errors.New("password must be 8 to 72 bytes long and contain a letter and a digit")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredCode        = errors.New("code has expired")
	ErrInvalidCode        = errors.New("invalid code")
	ErrAccountNotApproved = errors.New("account is not approved")
	ErrEmailNotVerified   = errors.New("email is not verified")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = entity.ErrInvalidTransition
	ErrTooManyRequests    = errors.New("too many requests")
	ErrEmailDelivery      = errors.New("failed to send email")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this module")
)

// ValidationError carries a message and optional per-field messages.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(message string, fields map[string]string) error {
	return &ValidationError{Message: message, Fields: fields}
}

func fieldError(field, message string) error {
	return &ValidationError{Message: message, Fields: map[string]string{field: message}}
}
