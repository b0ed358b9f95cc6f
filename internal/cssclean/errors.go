package cssclean

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Precondition failures end an analysis run without a snapshot
var (
	ErrNoHTMLFiles = errors.New("no HTML files found in the project")
	ErrNoCSSFiles  = errors.New("no CSS files found in HTML references")
)

var (
	// ErrSelectorNotFound is returned when a toggle names a selector with no record.
	ErrSelectorNotFound = errors.New("selector not found")
	// ErrInvalidRestoreMode is returned for a restore type other than "original" or "all".
	ErrInvalidRestoreMode = errors.New("invalid restore mode")
	// ErrOutsideRoot is returned for a path that resolves outside the project root.
	ErrOutsideRoot = errors.New("path is outside the project root")
)

// ErrorKind is the structured reason attached to a failure
type ErrorKind string

// Error kinds surfaced to callers
const (
	KindPrecondition ErrorKind = "precondition"
	KindNotFound     ErrorKind = "not_found"
	KindBadRequest   ErrorKind = "bad_request"
	KindForbidden    ErrorKind = "forbidden"
	KindPersistence  ErrorKind = "persistence"
	KindInternal     ErrorKind = "internal"
)

// FileError records a file whose contribution was dropped from an analysis
type FileError struct {
	Path string // Project-relative path
	Op   string // "read", "parse"
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// OverwriteError reports a persistence failure part way through a save.
// Files in Written already hold the new content; Failed and later files are untouched.
type OverwriteError struct {
	Written []string
	Failed  string
	Err     error
}

func (e *OverwriteError) Error() string {
	written := "none"
	if len(e.Written) > 0 {
		written = strings.Join(e.Written, ", ")
	}
	return fmt.Sprintf("save failed at %s (already written: %s): %v", e.Failed, written, e.Err)
}

func (e *OverwriteError) Unwrap() error { return e.Err }

// Kind classifies err into one of the structured failure categories
func Kind(err error) ErrorKind {
	var overwriteErr *OverwriteError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoHTMLFiles), errors.Is(err, ErrNoCSSFiles):
		return KindPrecondition
	case errors.Is(err, ErrSelectorNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidRestoreMode):
		return KindBadRequest
	case errors.Is(err, ErrOutsideRoot):
		return KindForbidden
	case errors.As(err, &overwriteErr):
		return KindPersistence
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	default:
		return KindInternal
	}
}
