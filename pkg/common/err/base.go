package err

import (
	"errors"
	"strings"
)

// Error is the base error carried through every package.
//
// Format: [package][code] op: message: wrapped
type Error struct {
	// Package is the originating package ("aar", "repackager", "config").
	Package string

	// Code is the machine-readable category. See the Code* constants.
	Code string

	// Op is the operation that failed ("open", "extract", "write").
	Op string

	// Message is a short human-readable description.
	Message string

	// Err is the wrapped cause, nil for leaf errors.
	Err error

	// Context holds optional structured fields, allocated on first use.
	Context map[string]any
}

func (e *Error) Error() string {
	var parts []string

	var prefix strings.Builder
	if e.Package != "" {
		prefix.WriteString("[")
		prefix.WriteString(e.Package)
		prefix.WriteString("]")
	}
	if e.Code != "" {
		prefix.WriteString("[")
		prefix.WriteString(e.Code)
		prefix.WriteString("]")
	}
	if prefix.Len() > 0 {
		parts = append(parts, prefix.String())
	}
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	result := strings.Join(parts, ": ")
	if e.Err != nil {
		if result != "" {
			return result + ": " + e.Err.Error()
		}
		return e.Err.Error()
	}
	return result
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same non-empty code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithContext attaches a key/value pair and returns e for chaining.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// GetContext returns the value stored under key, or nil.
func (e *Error) GetContext(key string) any {
	if e.Context == nil {
		return nil
	}
	return e.Context[key]
}

// New creates a base error.
func New(pkg, code, op, message string, err error) *Error {
	return &Error{
		Package: pkg,
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps err with package, code and operation. Returns nil if err is nil.
func WrapWithCode(err error, pkg, code, op string) error {
	if err == nil {
		return nil
	}
	return &Error{Package: pkg, Code: code, Op: op, Err: err}
}

const (
	// CodeInputNotFound: the source archive does not exist or cannot be read.
	CodeInputNotFound = "INPUT_NOT_FOUND"

	// CodeInvalidFormat: the source archive is not a readable zip container,
	// or an entry inside it is malformed.
	CodeInvalidFormat = "INVALID_ARCHIVE_FORMAT"

	// CodeExtractionFailed: an I/O failure while exploding the archive.
	CodeExtractionFailed = "EXTRACTION_FAILED"

	// CodeWriteFailed: the output archive could not be written.
	CodeWriteFailed = "WRITE_FAILED"

	// CodeInvalidInput: a malformed argument (empty path, bad option).
	CodeInvalidInput = "INVALID_INPUT"

	// CodeNotFound: a requested key or resource does not exist.
	CodeNotFound = "NOT_FOUND"

	// CodeConflict: two requests would write the same location.
	CodeConflict = "CONFLICT"

	// CodeReadOnly: an attempt to modify a read-only configuration level.
	CodeReadOnly = "READ_ONLY"

	// CodeInternal: anything else.
	CodeInternal = "INTERNAL"
)

// IsCode reports whether any error in err's chain carries code.
func IsCode(err error, code string) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}

// GetCode returns the code of the first *Error in err's chain.
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetPackage returns the package of the first *Error in err's chain.
func GetPackage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Package
	}
	return ""
}

// GetOp returns the operation of the first *Error in err's chain.
func GetOp(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}
