package config

import (
	"strconv"
	"strings"
	"time"
)

// ConfigEntry is one resolved key with its value and origin.
type ConfigEntry struct {
	Key    string       // dotted key, e.g. "repackage.workers"
	Value  string       // raw string value
	Level  ConfigLevel  // layer the value came from
	Source ConfigSource // command-line, builtin, or a file path
}

// NewEntry creates a new configuration entry
func NewEntry(key, value string, level ConfigLevel, source ConfigSource) *ConfigEntry {
	return &ConfigEntry{Key: key, Value: value, Level: level, Source: source}
}

// AsString returns the value as a string
func (e *ConfigEntry) AsString() string {
	return e.Value
}

// AsInt converts the value to an integer
func (e *ConfigEntry) AsInt() (int, error) {
	val, convErr := strconv.Atoi(strings.TrimSpace(e.Value))
	if convErr != nil {
		return 0, NewConfigError("convert", CodeConversionErr, e.Key, "", e.Level.String(), convErr)
	}
	return val, nil
}

// AsBool converts the value to a boolean. Accepts true/false, yes/no, on/off, 1/0.
func (e *ConfigEntry) AsBool() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(e.Value)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, NewConfigError("convert", CodeConversionErr, e.Key, "", e.Level.String(), ErrConversion)
	}
}

// AsDuration parses the value with time.ParseDuration.
func (e *ConfigEntry) AsDuration() (time.Duration, error) {
	d, convErr := time.ParseDuration(strings.TrimSpace(e.Value))
	if convErr != nil {
		return 0, NewConfigError("convert", CodeConversionErr, e.Key, "", e.Level.String(), convErr)
	}
	return d, nil
}
