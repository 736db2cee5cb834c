package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTask       = errors.New("invalid task")
	ErrImmutableField    = errors.New("immutable task field")
	ErrIllegalTransition = errors.New("illegal task transition")
	ErrStorage           = errors.New("task storage failure")
	ErrTaskIDUnavailable = errors.New("task id already used")
)

// ValidationError reports a malformed or missing field on create or edit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidTask, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalidTask, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidTask
}

// ImmutableFieldError reports an edit that tries to change id or kind.
type ImmutableFieldError struct {
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("%s: %s cannot be changed", ErrImmutableField, e.Field)
}

func (e *ImmutableFieldError) Unwrap() error {
	return ErrImmutableField
}

// TransitionError reports a command that is not legal from the current status.
type TransitionError struct {
	Command string
	From    TaskStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s a task in status %q", ErrIllegalTransition, e.Command, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// StorageError wraps a failure of the persistence medium. It matches both
// ErrStorage and the underlying cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
