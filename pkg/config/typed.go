package config

import (
	"runtime"
	"time"
)

// TypedConfig exposes known keys with their Go types. Values that fail to
// convert fall back to the built-in default.
type TypedConfig struct {
	manager *Manager
}

// NewTypedConfig wraps manager.
func NewTypedConfig(manager *Manager) *TypedConfig {
	return &TypedConfig{manager: manager}
}

// ClassesEntry is the path of the compiled-classes archive inside a package.
func (tc *TypedConfig) ClassesEntry() string {
	return tc.GetString(KeyClassesEntry)
}

// ExplodedDir is the working-tree directory name under the output directory.
func (tc *TypedConfig) ExplodedDir() string {
	return tc.GetString(KeyExplodedDir)
}

// Extension is the output file extension.
func (tc *TypedConfig) Extension() string {
	return tc.GetString(KeyExtension)
}

// OutputDir is the default output directory.
func (tc *TypedConfig) OutputDir() string {
	return tc.GetString(KeyOutputDir)
}

// Workers bounds batch concurrency.
func (tc *TypedConfig) Workers() int {
	entry := tc.manager.Get(KeyWorkers)
	if entry == nil {
		return runtime.NumCPU()
	}
	n, convErr := entry.AsInt()
	if convErr != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// WatchDebounce is how long the watcher waits for a file to settle.
func (tc *TypedConfig) WatchDebounce() time.Duration {
	const fallback = 300 * time.Millisecond
	entry := tc.manager.Get(KeyWatchDebounce)
	if entry == nil {
		return fallback
	}
	d, convErr := entry.AsDuration()
	if convErr != nil || d < 0 {
		return fallback
	}
	return d
}

// LogLevel is the configured log level name.
func (tc *TypedConfig) LogLevel() string {
	return tc.GetString(KeyLogLevel)
}

// LogFormat is the configured log format name.
func (tc *TypedConfig) LogFormat() string {
	return tc.GetString(KeyLogFormat)
}

// GetString returns the effective value of key, or "".
func (tc *TypedConfig) GetString(key string) string {
	if entry := tc.manager.Get(key); entry != nil {
		return entry.Value
	}
	return ""
}
