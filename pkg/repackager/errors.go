package repackager

import (
	"fmt"

	"github.com/utkarsh5026/aarjar/pkg/common/err"
)

const pkgName = "repackager"

// RepackageError is returned by Repackage. Its code is one of
// CodeInputNotFound, CodeInvalidFormat, CodeExtractionFailed or
// CodeWriteFailed from pkg/common/err.
type RepackageError struct {
	base   *err.Error
	Input  string
	Output string
}

func newRepackageError(op, code, input, output string, underlying error) *RepackageError {
	return &RepackageError{
		base:   err.New(pkgName, code, op, "", underlying),
		Input:  input,
		Output: output,
	}
}

// Error implements the error interface
func (e *RepackageError) Error() string {
	msg := e.base.Error()
	if e.Input != "" {
		msg += fmt.Sprintf(" [input=%s]", e.Input)
	}
	if e.Output != "" {
		msg += fmt.Sprintf(" [output=%s]", e.Output)
	}
	return msg
}

// Unwrap returns the base error
func (e *RepackageError) Unwrap() error {
	return e.base
}

// Code returns the error code.
func (e *RepackageError) Code() string {
	return e.base.Code
}

// Sentinels for errors.Is. Each matches any error carrying the same code.
var (
	ErrInputNotFound        = err.New(pkgName, err.CodeInputNotFound, "", "input archive not found", nil)
	ErrInvalidArchiveFormat = err.New(pkgName, err.CodeInvalidFormat, "", "invalid archive format", nil)
	ErrExtractionFailed     = err.New(pkgName, err.CodeExtractionFailed, "", "extraction failed", nil)
	ErrWriteFailed          = err.New(pkgName, err.CodeWriteFailed, "", "output could not be written", nil)
	ErrConflict             = err.New(pkgName, err.CodeConflict, "", "inputs collide", nil)
)

// classify maps an error from pkg/aar onto the repackaging taxonomy.
func classify(e error, fallback string) string {
	for _, code := range []string{err.CodeInputNotFound, err.CodeInvalidFormat, err.CodeExtractionFailed} {
		if err.IsCode(e, code) {
			return code
		}
	}
	return fallback
}
