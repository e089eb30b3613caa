package capability

import (
	"errors"
	"fmt"
)

// Kind classifies which capability produced a failure.
type Kind string

const (
	KindSearch   Kind = "search"
	KindScrape   Kind = "scrape"
	KindGenerate Kind = "generate"
	KindExtract  Kind = "extract"
	KindLookup   Kind = "lookup"
)

// Error wraps a failed capability call. Agents treat these as recoverable:
// the fallback chain moves on instead of aborting the pipeline.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failed", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationError marks a capability result that was well-formed but
// unusable (e.g. a picked URL that is not a company page). Handled the
// same way as Error: the caller falls back.
type ValidationError struct {
	Kind   Kind
	Reason string
}

func NewValidationError(kind Kind, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid result: %s", e.Kind, e.Reason)
}

// IsRecoverable reports whether err is a capability-level failure that an
// agent's fallback chain may absorb. Anything else is an orchestration
// error and should surface on the job.
func IsRecoverable(err error) bool {
	var ce *Error
	var ve *ValidationError
	return errors.As(err, &ce) || errors.As(err, &ve)
}
