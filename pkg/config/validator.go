package config

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/utkarsh5026/aarjar/pkg/common/logger"
)

// Known configuration keys.
const (
	KeyClassesEntry  = "repackage.classesEntry"
	KeyExplodedDir   = "repackage.explodedDir"
	KeyExtension     = "repackage.extension"
	KeyWorkers       = "repackage.workers"
	KeyOutputDir     = "output.dir"
	KeyWatchDebounce = "watch.debounce"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
)

// Validator checks keys and values before they reach a store.
type Validator struct{}

// ValidateKeyValue rejects unknown keys and malformed values.
func (v *Validator) ValidateKeyValue(key, value string) error {
	check, known := validators[key]
	if !known {
		return NewConfigError("validate", CodeUnknownKeyErr, key, "", "", ErrUnknownKey)
	}
	if checkErr := check(value); checkErr != nil {
		return NewConfigError("validate", CodeInvalidValueErr, key, "", "", checkErr)
	}
	return nil
}

// KnownKeys returns every key the validator accepts.
func (v *Validator) KnownKeys() []string {
	return []string{
		KeyClassesEntry, KeyExplodedDir, KeyExtension, KeyWorkers,
		KeyOutputDir, KeyWatchDebounce, KeyLogLevel, KeyLogFormat,
	}
}

var validators = map[string]func(string) error{
	KeyClassesEntry:  validateEntryPath,
	KeyExplodedDir:   validatePlainName,
	KeyExtension:     func(s string) error { return validatePlainName(strings.TrimPrefix(s, ".")) },
	KeyWorkers:       validatePositiveInt,
	KeyOutputDir:     validateNonEmpty,
	KeyWatchDebounce: validateDuration,
	KeyLogLevel: func(s string) error {
		_, parseErr := logger.ParseLevel(s)
		return parseErr
	},
	KeyLogFormat: func(s string) error {
		_, parseErr := logger.ParseFormat(s)
		return parseErr
	},
}

func validateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value must not be empty")
	}
	return nil
}

func validateEntryPath(s string) error {
	if validateErr := validateNonEmpty(s); validateErr != nil {
		return validateErr
	}
	clean := path.Clean(s)
	if path.IsAbs(s) || strings.Contains(s, "\\") || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%q must be a relative path inside the archive", s)
	}
	return nil
}

func validatePlainName(s string) error {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, "/\\") {
		return fmt.Errorf("%q must be a single path component", s)
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, convErr := strconv.Atoi(strings.TrimSpace(s))
	if convErr != nil {
		return fmt.Errorf("%q is not an integer", s)
	}
	if n <= 0 {
		return fmt.Errorf("%d must be positive", n)
	}
	return nil
}

func validateDuration(s string) error {
	d, parseErr := time.ParseDuration(strings.TrimSpace(s))
	if parseErr != nil {
		return parseErr
	}
	if d < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	return nil
}
