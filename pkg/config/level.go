package config

// ConfigLevel is the layer a configuration entry comes from, ordered by
// precedence (highest first).
type ConfigLevel int

const (
	// CommandLineLevel holds values given with --set key=value.
	CommandLineLevel ConfigLevel = iota

	// ProjectLevel lives in <project>/.aarjar/config.json.
	ProjectLevel

	// UserLevel lives in <user config dir>/aarjar/config.json.
	UserLevel

	// BuiltinLevel holds compiled-in defaults.
	BuiltinLevel
)

// String returns the string representation of the configuration level
func (l ConfigLevel) String() string {
	switch l {
	case CommandLineLevel:
		return "command-line"
	case ProjectLevel:
		return "project"
	case UserLevel:
		return "user"
	case BuiltinLevel:
		return "builtin"
	default:
		return "unknown"
	}
}

// IsValid returns true if the configuration level is valid
func (l ConfigLevel) IsValid() bool {
	return l >= CommandLineLevel && l <= BuiltinLevel
}

// CanWrite reports whether the level is backed by a file.
func (l ConfigLevel) CanWrite() bool {
	return l == ProjectLevel || l == UserLevel
}

// ParseLevel converts a string to a ConfigLevel
func ParseLevel(s string) (ConfigLevel, error) {
	switch s {
	case "command-line":
		return CommandLineLevel, nil
	case "project":
		return ProjectLevel, nil
	case "user":
		return UserLevel, nil
	case "builtin":
		return BuiltinLevel, nil
	default:
		return 0, NewConfigError("parse", CodeInvalidLevelErr, "", "", s, ErrInvalidLevel)
	}
}
