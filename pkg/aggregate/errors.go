package aggregate

import (
	"errors"
	"fmt"
)

// Sentinel errors for the conditions callers may want to test for.
var (
	ErrRootNotFound    = errors.New("root directory does not exist")
	ErrRootNotDir      = errors.New("root is not a directory")
	ErrInvalidEncoding = errors.New("content is not valid UTF-8")
)

// ErrorKind tells which phase of a run produced an error.
type ErrorKind string

const (
	KindConfig    ErrorKind = "config"
	KindTraversal ErrorKind = "traversal"
	KindRead      ErrorKind = "read"
	KindWrite     ErrorKind = "write"
)

// Error wraps an underlying error with the operation, kind and path involved.
type Error struct {
	Op   string
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}
