package application

import (
	"errors"
	"fmt"

	"github.com/example/church-registry/internal/persistence"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrConflict is returned when a write collides with an existing record.
	ErrConflict = errors.New("application: conflict")
	// ErrInvalidCredentials is returned when the login or password does not match.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrAccountDisabled is returned when an inactive account tries to log in.
	ErrAccountDisabled = errors.New("application: account disabled")
)

// ValidationError captures a user-facing message plus field level issues.
type ValidationError struct {
	Message     string
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if v.Message != "" {
		return v.Message
	}
	return "validation failed"
}

// HasErrors reports whether any issue was recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && (v.Message != "" || len(v.FieldErrors) > 0)
}

// add records a field level validation error. The first message also becomes
// the summary message.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
	if v.Message == "" {
		v.Message = message
	}
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil {
		return
	}
	if v.Message == "" {
		v.Message = other.Message
	}
	for field, msg := range other.FieldErrors {
		if v.FieldErrors == nil {
			v.FieldErrors = make(map[string]string)
		}
		v.FieldErrors[field] = msg
	}
}

// requiredError reports message against every named field.
func requiredError(message string, fields ...string) *ValidationError {
	vErr := &ValidationError{Message: message}
	for _, field := range fields {
		vErr.add(field, message)
	}
	return vErr
}

// ConflictError is an ErrConflict carrying the message shown to users.
type ConflictError struct {
	Message string
}

func (c *ConflictError) Error() string {
	return c.Message
}

// Is lets errors.Is(err, ErrConflict) match.
func (c *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

const msgInvalidReference = "Registro relacionado não encontrado"

// mapRepoError translates persistence sentinels into application errors.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrForeignKey):
		return &ValidationError{Message: msgInvalidReference}
	case errors.Is(err, persistence.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
