package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound       = errors.New("item not found")
	ErrAlreadyExists  = errors.New("item already exists")
	ErrTooManyMatches = errors.New("too many matches")
	ErrInvalidRecord  = errors.New("invalid catalog record")
)

// LookupError describes a failed name or fragment lookup. It unwraps to one of the
// sentinels above, so callers classify it with errors.Is.
type LookupError struct {
	Op      string
	Query   string
	Matches []string // candidate names, set for ErrTooManyMatches
	Err     error
}

func (e *LookupError) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := fmt.Sprintf("%s %q: %v", e.Op, e.Query, e.Err)
	if len(e.Matches) > 0 {
		msg += " (" + strings.Join(e.Matches, ", ") + ")"
	}
	return msg
}

func (e *LookupError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewLookupError(op, query string, err error, matches ...string) error {
	return &LookupError{Op: op, Query: query, Matches: matches, Err: err}
}

// MatchesOf returns the candidate names carried by a LookupError, if any.
func MatchesOf(err error) []string {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Matches
	}
	return nil
}

// SourceError wraps a failure to load a catalog source.
type SourceError struct {
	Source string
	Path   string
	Err    error
}

func (e *SourceError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := "catalog source " + e.Source
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += ": " + e.Err.Error()
	}
	return base
}

func (e *SourceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
