package compare

import (
	"errors"
	"fmt"
)

// ErrPrecondition marks caller/configuration bugs: a bad output
// directory or a company record missing required fields. These abort
// the whole run instead of being absorbed as per-company skips.
type ErrPrecondition struct {
	Reason string
}

func (e *ErrPrecondition) Error() string {
	return fmt.Sprintf("compare: precondition failed: %s", e.Reason)
}

// IsPrecondition reports whether err is (or wraps) an ErrPrecondition.
func IsPrecondition(err error) bool {
	var pe *ErrPrecondition
	return errors.As(err, &pe)
}

// ErrCompany wraps a per-company failure that the batch runner records
// as a skip and moves past.
type ErrCompany struct {
	Company string
	Stage   string // "capture" | "compose"
	Cause   error
}

func (e *ErrCompany) Error() string {
	return fmt.Sprintf("compare: %s failed for %q: %v", e.Stage, e.Company, e.Cause)
}

func (e *ErrCompany) Unwrap() error { return e.Cause }
