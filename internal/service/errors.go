package service

import (
	"errors"
	"fmt"
)

// Operation errors surfaced to API clients. The texts are the exact messages
// the frontend shows, so they read like user-facing sentences.
var (
	// ErrBadEntryID is returned when an entry id does not parse.
	ErrBadEntryID = errors.New("Invalid entry ID format")
	// ErrEntryNotFound is returned when the id parses but no row exists.
	ErrEntryNotFound = errors.New("Entry not found")
	// ErrEntryIncomplete is returned when confirming an entry that is missing
	// required fields.
	ErrEntryIncomplete = errors.New("Entry is not complete and cannot be confirmed")
	// ErrAlreadyConfirmed is returned when confirming an entry twice.
	ErrAlreadyConfirmed = errors.New("Entry is already confirmed")
	// ErrMissingRequired is returned when a created or updated entry lacks
	// one of the always-required fields.
	ErrMissingRequired = errors.New("Date/Time, Means, and Subject are required")
	// ErrEmptyQuery is returned for a blank search query.
	ErrEmptyQuery = errors.New("Search query must be at least 1 character long")
	// ErrAccessDenied is returned when a non-admin calls an admin operation.
	ErrAccessDenied = errors.New("Access denied. Admin privileges required.")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
