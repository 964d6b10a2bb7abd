package config

import (
	"encoding/json"
	"sort"

	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/common/err"
	"github.com/utkarsh5026/aarjar/pkg/common/fileops"
)

// Store is one JSON configuration file bound to a level. It is not safe for
// concurrent use; Manager serializes access.
type Store struct {
	path    aarpath.AbsolutePath
	level   ConfigLevel
	entries map[string]*ConfigEntry
}

// NewStore creates a new configuration store for a specific file and level
func NewStore(path aarpath.AbsolutePath, level ConfigLevel) *Store {
	return &Store{
		path:    path,
		level:   level,
		entries: make(map[string]*ConfigEntry),
	}
}

// Load reads the file. A missing file is an empty configuration. Unknown
// keys and invalid values fail the load and leave the store empty.
func (s *Store) Load() error {
	content, readErr := fileops.ReadBytes(s.path)
	if readErr != nil {
		return NewConfigError("load", CodeNotFoundErr, "", s.path.String(), s.level.String(), readErr)
	}

	s.entries = make(map[string]*ConfigEntry)
	if content == nil {
		return nil
	}

	structure := NewConfigFileStructure()
	if jsonErr := json.Unmarshal(content, structure); jsonErr != nil {
		return NewConfigError("load", CodeInvalidFormatErr, "", s.path.String(), s.level.String(), jsonErr)
	}
	flat, flatErr := structure.Flatten()
	if flatErr != nil {
		return NewConfigError("load", CodeInvalidFormatErr, "", s.path.String(), s.level.String(), flatErr)
	}

	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	validator := &Validator{}
	for _, key := range keys {
		if validateErr := validator.ValidateKeyValue(key, flat[key]); validateErr != nil {
			return NewConfigError("load", err.GetCode(validateErr), key, s.path.String(), s.level.String(), validateErr)
		}
	}

	source := NewFileSource(s.path)
	for key, value := range flat {
		s.entries[key] = NewEntry(key, value, s.level, source)
	}
	return nil
}

// Save writes the file atomically, creating its directory if needed.
func (s *Store) Save() error {
	flat := make(map[string]string, len(s.entries))
	for key, entry := range s.entries {
		flat[key] = entry.Value
	}

	structure, buildErr := FromFlat(flat)
	if buildErr != nil {
		return NewConfigError("save", CodeInvalidFormatErr, "", s.path.String(), s.level.String(), buildErr)
	}
	content, jsonErr := json.MarshalIndent(structure.data, "", "  ")
	if jsonErr != nil {
		return NewConfigError("save", CodeInvalidFormatErr, "", s.path.String(), s.level.String(), jsonErr)
	}

	if dirErr := fileops.EnsureParentDir(s.path); dirErr != nil {
		return NewConfigError("save", CodeInvalidFormatErr, "", s.path.String(), s.level.String(), dirErr)
	}
	if writeErr := fileops.AtomicWrite(s.path, append(content, '\n'), 0644); writeErr != nil {
		return NewConfigError("save", CodeInvalidFormatErr, "", s.path.String(), s.level.String(), writeErr)
	}
	return nil
}

// Get returns the entry for key, or nil.
func (s *Store) Get(key string) *ConfigEntry {
	entry, ok := s.entries[key]
	if !ok {
		return nil
	}
	clone := *entry
	return &clone
}

// Set replaces the value of key.
func (s *Store) Set(key, value string) {
	s.entries[key] = NewEntry(key, value, s.level, NewFileSource(s.path))
}

// Unset removes key and reports whether it was present.
func (s *Store) Unset(key string) bool {
	_, ok := s.entries[key]
	delete(s.entries, key)
	return ok
}

// Keys returns every key in the store, sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the file path for this store
func (s *Store) Path() aarpath.AbsolutePath {
	return s.path
}

// Level returns the configuration level for this store
func (s *Store) Level() ConfigLevel {
	return s.level
}
