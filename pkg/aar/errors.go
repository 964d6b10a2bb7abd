package aar

import (
	"fmt"

	"github.com/utkarsh5026/aarjar/pkg/common/err"
)

const pkgName = "aar"

// ArchiveError describes a failure to open, read, or extract a packaged archive.
type ArchiveError struct {
	base  *err.Error
	Path  string // archive path
	Entry string // entry name if applicable
}

func newArchiveError(op, code, path, entry, message string, underlying error) *ArchiveError {
	return &ArchiveError{
		base:  err.New(pkgName, code, op, message, underlying),
		Path:  path,
		Entry: entry,
	}
}

// Error implements the error interface
func (e *ArchiveError) Error() string {
	msg := e.base.Error()
	if e.Entry != "" {
		msg += fmt.Sprintf(" [entry=%s]", e.Entry)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" [path=%s]", e.Path)
	}
	return msg
}

// Unwrap returns the base error so codes are visible to errors.Is and err.IsCode.
func (e *ArchiveError) Unwrap() error {
	return e.base
}

// Code returns the error code.
func (e *ArchiveError) Code() string {
	return e.base.Code
}

var (
	// ErrNotFound matches archives that are missing or unreadable.
	ErrNotFound = err.New(pkgName, err.CodeInputNotFound, "", "archive not found", nil)

	// ErrInvalidFormat matches archives that are not valid zip containers or
	// hold malformed or unsafe entries.
	ErrInvalidFormat = err.New(pkgName, err.CodeInvalidFormat, "", "invalid archive format", nil)

	// ErrExtraction matches I/O failures while writing extracted entries.
	ErrExtraction = err.New(pkgName, err.CodeExtractionFailed, "", "extraction failed", nil)
)
