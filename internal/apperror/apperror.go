// Package apperror holds the error kinds the API distinguishes when
// building a failure response.
package apperror

import (
	"errors"
	"fmt"
)

// NotFoundError reports a referenced entity id that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id '%s' is not found.", e.Entity, e.ID)
}

// ValidationError reports a structurally invalid request, including
// cross-entity consistency violations.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PersistenceError reports a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func Persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
