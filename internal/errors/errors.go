package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// Error types for the annotation scanner
type ErrorType string

const (
	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Query errors
	ErrorTypeParse ErrorType = "parse"

	// Per-file errors
	ErrorTypeDecode       ErrorType = "decode"
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"
	ErrorTypeFile         ErrorType = "file"
)

var (
	// ErrNoCategories is wrapped by the ConfigError returned when no category keywords are configured.
	ErrNoCategories = errors.New("no category keywords configured")

	// ErrFieldCount is wrapped by the ParseError returned for a query with the wrong number of fields.
	ErrFieldCount = errors.New("query must have 3 or 4 colon-separated fields")
)

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config error for field %s: %v", e.Field, e.Underlying)
	}
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// ParseError represents a malformed query string
type ParseError struct {
	Type       ErrorType
	Query      string
	Fields     int
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new query parse error
func NewParseError(query string, fields int, err error) *ParseError {
	return &ParseError{
		Type:       ErrorTypeParse,
		Query:      query,
		Fields:     fields,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid query %q (%d fields): %v", e.Query, e.Fields, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// DecodeError reports a source whose content is not valid UTF-8 text
type DecodeError struct {
	Type      ErrorType
	Path      string
	Offset    int // byte offset of the first invalid sequence
	Timestamp time.Time
}

// NewDecodeError creates a new decode error
func NewDecodeError(path string, offset int) *DecodeError {
	return &DecodeError{
		Type:      ErrorTypeDecode,
		Path:      path,
		Offset:    offset,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed for %s: invalid UTF-8 at byte %d", e.Path, e.Offset)
}

// MissingFileError reports a file that vanished between enumeration and read
type MissingFileError struct {
	Type       ErrorType
	Path       string
	Underlying error
	Timestamp  time.Time
}

// NewMissingFileError creates a new missing file error
func NewMissingFileError(path string, err error) *MissingFileError {
	return &MissingFileError{
		Type:       ErrorTypeFileNotFound,
		Path:       path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *MissingFileError) Error() string {
	return fmt.Sprintf("file %s disappeared before it could be read: %v", e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *MissingFileError) Unwrap() error {
	return e.Underlying
}

// FileError represents any other file-related read failure
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFile
	switch {
	case errors.Is(err, fs.ErrPermission):
		errorType = ErrorTypePermission
	case errors.Is(err, fs.ErrNotExist):
		errorType = ErrorTypeFileNotFound
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ClassifyReadError maps an error from opening or reading path onto the per-file taxonomy.
func ClassifyReadError(path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return NewMissingFileError(path, err)
	}
	return NewFileError("read", path, err)
}

// IsPerFile reports whether err only affects a single source. The scan skips
// such sources and carries on.
func IsPerFile(err error) bool {
	var decodeErr *DecodeError
	var missingErr *MissingFileError
	var fileErr *FileError
	return errors.As(err, &decodeErr) || errors.As(err, &missingErr) || errors.As(err, &fileErr)
}

// IsParseError reports whether err is a rejected query
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsConfigError reports whether err is a configuration error
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
