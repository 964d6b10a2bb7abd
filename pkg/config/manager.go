package config

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/aarjar/pkg/aarpath"
)

const (
	// ProjectDirName is the per-project configuration directory.
	ProjectDirName = ".aarjar"

	// ConfigFileName is the file name used at every file-backed level.
	ConfigFileName = "config.json"
)

// Paths locates the file-backed levels. Empty fields disable that level.
type Paths struct {
	Project aarpath.AbsolutePath
	User    aarpath.AbsolutePath
}

// DefaultPaths returns <dir>/.aarjar/config.json and
// <user config dir>/aarjar/config.json.
func DefaultPaths(projectDir string) Paths {
	var p Paths
	if projectDir != "" {
		if abs, absErr := aarpath.NewAbsolutePath(projectDir); absErr == nil {
			p.Project = abs.Join(ProjectDirName, ConfigFileName)
		}
	}
	if userDir, dirErr := os.UserConfigDir(); dirErr == nil && userDir != "" {
		p.User = aarpath.AbsolutePath(filepath.Join(userDir, "aarjar", ConfigFileName))
	}
	return p
}

// Manager resolves configuration across levels. It is safe for concurrent use.
type Manager struct {
	mu              sync.RWMutex
	stores          map[ConfigLevel]*Store
	commandLine     map[string]string
	builtinDefaults map[string]string
	validator       *Validator
}

// NewManager creates a manager for the given file locations.
func NewManager(paths Paths) *Manager {
	m := &Manager{
		stores:          make(map[ConfigLevel]*Store),
		commandLine:     make(map[string]string),
		builtinDefaults: make(map[string]string),
		validator:       &Validator{},
	}
	if paths.Project != "" {
		m.stores[ProjectLevel] = NewStore(paths.Project, ProjectLevel)
	}
	if paths.User != "" {
		m.stores[UserLevel] = NewStore(paths.User, UserLevel)
	}
	m.loadBuiltinDefaults()
	return m
}

// Load reads every file-backed level concurrently.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	for _, store := range m.stores {
		g.Go(store.Load)
	}
	return g.Wait()
}

// Get returns the highest-precedence entry for key, or nil.
func (m *Manager) Get(key string) *ConfigEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getUnsafe(key)
}

// Set validates and persists key=value at a file-backed level.
func (m *Manager) Set(key, value string, level ConfigLevel) error {
	if validateErr := m.validator.ValidateKeyValue(key, value); validateErr != nil {
		return validateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	store, storeErr := m.writableStore("set", key, level)
	if storeErr != nil {
		return storeErr
	}
	store.Set(key, value)
	return store.Save()
}

// Unset removes key from a file-backed level.
func (m *Manager) Unset(key string, level ConfigLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, storeErr := m.writableStore("unset", key, level)
	if storeErr != nil {
		return storeErr
	}
	if !store.Unset(key) {
		return NewConfigError("unset", CodeNotFoundErr, key, store.Path().String(), level.String(), ErrNotFound)
	}
	return store.Save()
}

// SetCommandLine validates and records a command-line override.
func (m *Manager) SetCommandLine(key, value string) error {
	if validateErr := m.validator.ValidateKeyValue(key, value); validateErr != nil {
		return validateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandLine[key] = value
	return nil
}

// List returns the effective entry for every key, sorted by key.
func (m *Manager) List() []*ConfigEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make(map[string]bool)
	for k := range m.commandLine {
		keys[k] = true
	}
	for _, store := range m.stores {
		for _, k := range store.Keys() {
			keys[k] = true
		}
	}
	for k := range m.builtinDefaults {
		keys[k] = true
	}

	entries := make([]*ConfigEntry, 0, len(keys))
	for k := range keys {
		if entry := m.getUnsafe(k); entry != nil {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// GetStore returns the store for a level, or nil.
func (m *Manager) GetStore(level ConfigLevel) *Store {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stores[level]
}

func (m *Manager) writableStore(op, key string, level ConfigLevel) (*Store, error) {
	if !level.CanWrite() {
		return nil, NewConfigError(op, CodeReadOnlyErr, key, "", level.String(), ErrReadOnly)
	}
	store, ok := m.stores[level]
	if !ok {
		return nil, NewConfigError(op, CodeNotFoundErr, key, "", level.String(), ErrNotFound)
	}
	return store, nil
}

func (m *Manager) loadBuiltinDefaults() {
	m.builtinDefaults[KeyClassesEntry] = "classes.jar"
	m.builtinDefaults[KeyExplodedDir] = "exploded"
	m.builtinDefaults[KeyExtension] = ".jar"
	m.builtinDefaults[KeyWorkers] = strconv.Itoa(runtime.NumCPU())
	m.builtinDefaults[KeyOutputDir] = filepath.Join("build", "aarjar")
	m.builtinDefaults[KeyWatchDebounce] = "300ms"
	m.builtinDefaults[KeyLogLevel] = "info"
	m.builtinDefaults[KeyLogFormat] = "text"
}

// getUnsafe resolves key; caller holds at least the read lock.
func (m *Manager) getUnsafe(key string) *ConfigEntry {
	if value, ok := m.commandLine[key]; ok {
		return NewEntry(key, value, CommandLineLevel, CommandLineSource)
	}
	for _, level := range []ConfigLevel{ProjectLevel, UserLevel} {
		if store, ok := m.stores[level]; ok {
			if entry := store.Get(key); entry != nil {
				return entry
			}
		}
	}
	if value, ok := m.builtinDefaults[key]; ok {
		return NewEntry(key, value, BuiltinLevel, BuiltinSource)
	}
	return nil
}
