// Package errors defines structured error types for the database.
//
// Every failure the database reports synchronously carries an [ErrorCode].
// ErrorCode values are themselves errors, so callers match a kind with
// errors.Is(err, errors.TableNotFound) without caring about the message.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode defines specific error kinds for the database.
type ErrorCode string

const (
	// InvalidEntryID is returned when an entry id is absent, non-numeric or out of range
	InvalidEntryID ErrorCode = "INVALID_ENTRY_ID"
	// NotCommitted is returned when reloading a database that was never saved
	NotCommitted ErrorCode = "DATABASE_NOT_COMMITTED"
	// SessionError is returned when a scoped session fails to persist on close
	SessionError ErrorCode = "SESSION_ERROR"
	// MatchError is returned when no entry matches a merge candidate
	MatchError ErrorCode = "MATCH_ERROR"
	// TableNotFound is returned when a table name is not present in the store
	TableNotFound ErrorCode = "TABLE_NOT_FOUND"
	// TableCanNotBeEmpty is returned when deleting the last remaining table
	TableCanNotBeEmpty ErrorCode = "TABLE_CAN_NOT_BE_EMPTY"
	// ChildNotFound is returned when a child node is absent
	ChildNotFound ErrorCode = "CHILD_NOT_FOUND"
	// InvalidMode is returned when a path search is given an unsupported mode or target
	InvalidMode ErrorCode = "INVALID_MODE"
	// InvalidOverwrite is returned when a non-overwriting update is given a non-mapping
	InvalidOverwrite ErrorCode = "INVALID_OVERWRITE_TARGET"

	// PathNotFound is returned when a path does not address a node
	PathNotFound ErrorCode = "PATH_NOT_FOUND"
	// InvalidValue is returned when a value cannot be represented as JSON
	InvalidValue ErrorCode = "INVALID_VALUE"
	// InvalidTable is returned when a table's value is not a list of entries
	InvalidTable ErrorCode = "INVALID_TABLE"
	// StorageError is returned when reading or writing the backing file fails
	StorageError ErrorCode = "STORAGE_ERROR"
)

// Error implements the error interface so a code can be used as a sentinel.
func (c ErrorCode) Error() string {
	return string(c)
}

// Error is a concrete error type with a code, a message and optional details.
type Error struct {
	code       ErrorCode
	message    string
	details    map[string]any
	wrappedErr error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		code:    code,
		message: message,
	}
}

// WithDetail adds a single detail to the error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	e.details[key] = value
	return e
}

// Wrap wraps an underlying error.
func (e *Error) Wrap(err error) *Error {
	e.wrappedErr = err
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.wrappedErr != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrappedErr)
	}
	return e.message
}

// Code returns the error code.
func (e *Error) Code() ErrorCode {
	return e.code
}

// Details returns additional error details.
func (e *Error) Details() map[string]any {
	return e.details
}

// Unwrap returns the wrapped error if any.
func (e *Error) Unwrap() error {
	return e.wrappedErr
}

// Is reports whether target is this error's code.
func (e *Error) Is(target error) bool {
	c, ok := target.(ErrorCode)
	return ok && c == e.code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.code
	}
	var c ErrorCode
	if stderrors.As(err, &c) {
		return c
	}
	return ""
}

// Predefined error constructors for common cases

// EntryID reports an entry id that does not address an entry of table.
func EntryID(table string, id any) *Error {
	return New(InvalidEntryID, fmt.Sprintf("invalid entry id %v in table %q", id, table)).
		WithDetail("table", table).WithDetail("id", id)
}

// NotSaved reports a reload of a file that was never written.
func NotSaved(path string) *Error {
	return New(NotCommitted, fmt.Sprintf("database %s has not been saved yet", path)).WithDetail("path", path)
}

// Session reports a scoped session that failed to persist.
func Session(err error) *Error {
	return New(SessionError, "could not commit database").Wrap(err)
}

// NoMatch reports that no entry matched the merge candidate.
func NoMatch(table string) *Error {
	return New(MatchError, fmt.Sprintf("could not match an entry in table %q", table)).WithDetail("table", table)
}

// Table reports an unknown table.
func Table(name string) *Error {
	return New(TableNotFound, fmt.Sprintf("table %q not found", name)).WithDetail("table", name)
}

// LastTable reports an attempt to delete the only table.
func LastTable(name string) *Error {
	return New(TableCanNotBeEmpty, fmt.Sprintf("table %q is the last table and can not be deleted", name)).
		WithDetail("table", name)
}

// Child reports a missing child node.
func Child(name string) *Error {
	return New(ChildNotFound, fmt.Sprintf("child %q not found", name)).WithDetail("child", name)
}

// Mode reports an unsupported search mode or a target the mode can't use.
func Mode(message string) *Error {
	return New(InvalidMode, message)
}

// Overwrite reports a non-overwriting update of something that isn't a mapping.
func Overwrite(what string) *Error {
	return New(InvalidOverwrite, fmt.Sprintf("only a mapping can be updated without overwrite, got %s", what))
}

// Path reports a path segment that does not resolve.
func Path(path any, segment any) *Error {
	return New(PathNotFound, fmt.Sprintf("path %v: segment %v not found", path, segment)).
		WithDetail("segment", segment)
}

// Value reports a value that can't be stored.
func Value(message string) *Error {
	return New(InvalidValue, message)
}

// BadTable reports a table whose value is not a list.
func BadTable(name string) *Error {
	return New(InvalidTable, fmt.Sprintf("table %q is not a list of entries", name)).WithDetail("table", name)
}

// Storage wraps an I/O failure on the backing file.
func Storage(message string, err error) *Error {
	return New(StorageError, message).Wrap(err)
}
