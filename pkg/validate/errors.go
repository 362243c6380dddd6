package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is matched by every error this package returns.
var ErrInvalid = errors.New("invalid data")

// ValidationError describes the first schema violation found in a document.
type ValidationError struct {
	// Path locates the offending value, e.g. "database.2020-01.01[0].servings".
	// It is empty when the document as a whole is rejected.
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to validate data: %s", e.Reason)
	}
	return fmt.Sprintf("failed to validate data: %s: %s", e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// EntryError lists every problem with a single edited entry so a form can
// show them all at once.
type EntryError struct {
	Problems []string
}

func (e *EntryError) Error() string {
	return "invalid entry: " + strings.Join(e.Problems, " ")
}

func (e *EntryError) Unwrap() error {
	return ErrInvalid
}
