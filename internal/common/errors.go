// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Batch-fatal errors.
	ErrMissingPopulationData = errors.New("client profile table missing or unreadable")

	// Per-client recoverable errors.
	ErrMissingClientData = errors.New("client data not found")
	ErrUnknownClient     = errors.New("client not present in profile table")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Notification errors.
	ErrNotifyUnavailable = errors.New("notification provider unavailable")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsClientSkippable reports whether an error should skip the client and keep
// the batch running, as opposed to aborting the whole run.
func IsClientSkippable(err error) bool {
	return errors.Is(err, ErrMissingClientData) || errors.Is(err, ErrUnknownClient)
}
