package services

import (
	"database/sql"
	"errors"
)

// Error kinds. Every error returned by the services matches exactly one of
// them through errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrUnexpected = errors.New("unexpected error")
)

var (
	ErrAccountNotFound   = notFound("Account not found")
	ErrEntryNotFound     = notFound("Entry not found")
	ErrDuplicateName     = &Error{Kind: ErrConflict, Message: "Account with this name already exists"}
	ErrEntryFields       = invalid("Account ID, type, and amount are required")
	ErrAmountTooLarge    = invalid("Amount is too large")
	ErrBalanceOutOfRange = invalid("Account balance would be out of range")
)

// Error carries a kind, a message safe to show to the caller and, for
// unexpected failures, the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalid(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

func notFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func unexpected(op string, err error) *Error {
	return &Error{Kind: ErrUnexpected, Message: op, Err: err}
}

// lookupFailed maps a missing row to missing and anything else to an
// unexpected failure.
func lookupFailed(err error, missing *Error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return missing
	}
	return unexpected(op, err)
}

// Message returns the caller-facing message of a service error.
func Message(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return err.Error()
}
