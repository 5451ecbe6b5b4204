package db

import "fmt"

// NotFoundError reports a missing or foreign record.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError reports a version whose text is already stored for the owner.
type ConflictError struct {
	Fingerprint string
	ExistingID  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("resume version with identical text already exists: %s", e.ExistingID)
}

// ValidationError reports invalid store input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}
