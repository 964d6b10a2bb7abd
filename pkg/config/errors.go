package config

import (
	"fmt"

	"github.com/utkarsh5026/aarjar/pkg/common/err"
)

const (
	pkgName = "config"

	CodeNotFoundErr      = err.CodeNotFound
	CodeInvalidFormatErr = err.CodeInvalidFormat
	CodeInvalidValueErr  = err.CodeInvalidInput
	CodeReadOnlyErr      = err.CodeReadOnly
	CodeConversionErr    = "CONVERSION_FAILED"
	CodeInvalidLevelErr  = "INVALID_LEVEL"
	CodeUnknownKeyErr    = "UNKNOWN_KEY"
)

// ConfigError represents a configuration-related error with detailed context
type ConfigError struct {
	base  *err.Error
	Path  string // file path if applicable
	Key   string // config key if applicable
	Level string // config level if applicable
}

// NewConfigError creates a new ConfigError
func NewConfigError(op, code, key, path, level string, underlying error) *ConfigError {
	return &ConfigError{
		base:  err.New(pkgName, code, op, "", underlying),
		Path:  path,
		Key:   key,
		Level: level,
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	msg := e.base.Error()
	if e.Key != "" {
		msg += fmt.Sprintf(" [key=%s]", e.Key)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" [path=%s]", e.Path)
	}
	if e.Level != "" {
		msg += fmt.Sprintf(" [level=%s]", e.Level)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.base
}

// Sentinel errors for specific conditions
var (
	ErrNotFound      = err.New(pkgName, CodeNotFoundErr, "", "configuration key not found", nil)
	ErrInvalidFormat = err.New(pkgName, CodeInvalidFormatErr, "", "invalid configuration format", nil)
	ErrInvalidValue  = err.New(pkgName, CodeInvalidValueErr, "", "invalid configuration value", nil)
	ErrInvalidLevel  = err.New(pkgName, CodeInvalidLevelErr, "", "invalid configuration level", nil)
	ErrReadOnly      = err.New(pkgName, CodeReadOnlyErr, "", "configuration level is read-only", nil)
	ErrConversion    = err.New(pkgName, CodeConversionErr, "", "configuration value conversion failed", nil)
	ErrUnknownKey    = err.New(pkgName, CodeUnknownKeyErr, "", "unknown configuration key", nil)
)

// IsNotFound reports whether e is a missing-key error.
func IsNotFound(e error) bool {
	return err.IsCode(e, CodeNotFoundErr)
}

// IsReadOnly reports whether e is an attempt to write a read-only level.
func IsReadOnly(e error) bool {
	return err.IsCode(e, CodeReadOnlyErr)
}
