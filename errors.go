package launchd

import (
	"errors"
	"fmt"
)

// Common errors returned by launchd operations
var (
	// ErrUtilityExit indicates launchctl exited non-zero
	ErrUtilityExit = errors.New("launchd: launchctl exited non-zero")

	// ErrStopAborted indicates a restart was abandoned because the stop
	// phase failed; no start was attempted
	ErrStopAborted = errors.New("launchd: restart aborted, stop failed")

	// ErrNoDefinition indicates a definition file held no decodable
	// property-list content
	ErrNoDefinition = errors.New("launchd: no definition content")
)

// ParseError reports a definition file that could not be parsed. The file
// is skipped; the surrounding scan continues.
type ParseError struct {
	// Path is the definition file that failed to parse
	Path string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *ParseError) Error() string {
	return fmt.Sprintf("launchd: parsing %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ParseError) Unwrap() error {
	return e.Err
}

// RootError reports a search root that exists but could not be read. The
// root is skipped; the surrounding scan continues with the remaining roots.
type RootError struct {
	// Root is the inaccessible search root
	Root string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *RootError) Error() string {
	return fmt.Sprintf("launchd: reading root %q: %v", e.Root, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *RootError) Unwrap() error {
	return e.Err
}

// LifecycleError reports a failed start, stop, or restart. The underlying
// launchctl diagnostic is preserved verbatim for the operator; the
// operation is not retried.
type LifecycleError struct {
	// Op is the operation that failed
	Op Operation
	// Path is the definition file used as the launchctl handle
	Path string
	// Err is the underlying error, including captured stderr
	Err error
}

// Error returns a formatted error message
func (e *LifecycleError) Error() string {
	return fmt.Sprintf("launchd %s %q: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// PermissionError reports a privileged target directory that is not
// writable. It is returned before any write is attempted.
type PermissionError struct {
	// Dir is the directory that failed the write-access check
	Dir string
}

// Error returns a formatted error message
func (e *PermissionError) Error() string {
	return fmt.Sprintf("launchd: %q is not writable", e.Dir)
}

// CreateError reports a failed definition-file creation. Writes are
// atomic, so no partial file remains on disk.
type CreateError struct {
	// Path is the definition file that could not be written
	Path string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *CreateError) Error() string {
	return fmt.Sprintf("launchd: creating %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *CreateError) Unwrap() error {
	return e.Err
}

// MultiError aggregates the non-fatal failures of a scan: unreadable roots
// and unparseable files. The scan result is still valid when a MultiError
// is returned alongside it.
type MultiError struct {
	// Errors contains all accumulated errors
	Errors []error
}

// Error returns a summary of the accumulated errors
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred", len(m.Errors))
}

// Add appends an error to the collection if it's not nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Err returns nil if no errors occurred, otherwise returns the MultiError itself
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}
