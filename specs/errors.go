package specs

import (
	"fmt"
	"strings"
)

// ConstructionError reports a violated spec invariant at construction
// or replace time (e.g. minimum > maximum, negative non-wildcard dims).
type ConstructionError struct {
	msg string
}

func (e *ConstructionError) Error() string { return e.msg }

func constructionErrorf(format string, args ...interface{}) *ConstructionError {
	return &ConstructionError{msg: fmt.Sprintf(format, args...)}
}

// Reason discriminates why a validation failed, so callers can tell
// structural mismatches from shape, dtype or bound failures.
type Reason int

const (
	// ReasonStructure marks container-level mismatches: wrong node
	// kind, wrong sequence length, missing or extra mapping keys.
	ReasonStructure Reason = iota
	ReasonShape
	ReasonDtype
	ReasonElementType
	ReasonBounds
)

func (r Reason) String() string {
	switch r {
	case ReasonStructure:
		return "structure"
	case ReasonShape:
		return "shape"
	case ReasonDtype:
		return "dtype"
	case ReasonElementType:
		return "element type"
	case ReasonBounds:
		return "bounds"
	}
	return "unknown"
}

// ValidationError reports a value that does not conform to a spec.
// Path holds the sequence of mapping keys and sequence indices leading
// to the failing node when raised from a tree validation.
type ValidationError struct {
	Path   []string
	Reason Reason
	msg    string
}

func (e *ValidationError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("%s mismatch at %s: %s", e.Reason, strings.Join(e.Path, "/"), e.msg)
	}
	return fmt.Sprintf("%s mismatch: %s", e.Reason, e.msg)
}

// Structural reports whether the failure is a container mismatch
// rather than a leaf value mismatch.
func (e *ValidationError) Structural() bool { return e.Reason == ReasonStructure }

func validationErrorf(reason Reason, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: reason, msg: fmt.Sprintf(format, args...)}
}

// atPath returns a copy of err with the path prefix prepended.
func atPath(prefix []string, err *ValidationError) *ValidationError {
	path := make([]string, 0, len(prefix)+len(err.Path))
	path = append(path, prefix...)
	path = append(path, err.Path...)
	return &ValidationError{Path: path, Reason: err.Reason, msg: err.msg}
}
