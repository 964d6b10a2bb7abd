package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ConfigFileStructure is the on-disk JSON shape of a configuration file.
// Dotted keys map to nested objects:
//
//	{
//	  "repackage": {
//	    "classesEntry": "classes.jar",
//	    "workers": 4
//	  },
//	  "output": {
//	    "dir": "build/aarjar"
//	  }
//	}
//
// Leaves may be strings, numbers or booleans; they are kept as strings once
// flattened. Arrays and nulls are rejected.
type ConfigFileStructure struct {
	data map[string]any
}

// NewConfigFileStructure creates a new empty ConfigFileStructure.
func NewConfigFileStructure() *ConfigFileStructure {
	return &ConfigFileStructure{data: make(map[string]any)}
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ConfigFileStructure) UnmarshalJSON(data []byte) error {
	c.data = make(map[string]any)
	return json.Unmarshal(data, &c.data)
}

// MarshalJSON implements json.Marshaler.
func (c *ConfigFileStructure) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.data)
}

// SetNestedValue stores value under the dotted keyPath, creating
// intermediate objects and replacing any leaf or object in the way.
func (c *ConfigFileStructure) SetNestedValue(keyPath, value string) error {
	segments, splitErr := splitKey(keyPath)
	if splitErr != nil {
		return splitErr
	}

	current := c.data
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
	return nil
}

// Flatten returns every leaf as dotted-key -> string value.
func (c *ConfigFileStructure) Flatten() (map[string]string, error) {
	out := make(map[string]string)
	if walkErr := flatten("", c.data, out); walkErr != nil {
		return nil, walkErr
	}
	return out, nil
}

// FromFlat builds a structure from dotted keys.
func FromFlat(values map[string]string) (*ConfigFileStructure, error) {
	c := NewConfigFileStructure()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if setErr := c.SetNestedValue(k, values[k]); setErr != nil {
			return nil, setErr
		}
	}
	return c, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) error {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}

		switch v := value.(type) {
		case map[string]any:
			if walkErr := flatten(full, v, out); walkErr != nil {
				return walkErr
			}
		case string:
			out[full] = v
		case bool:
			out[full] = strconv.FormatBool(v)
		case float64:
			out[full] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return fmt.Errorf("key %q: unsupported value type %T", full, value)
		}
	}
	return nil
}

func splitKey(keyPath string) ([]string, error) {
	if strings.TrimSpace(keyPath) == "" {
		return nil, NewConfigError("parse", CodeInvalidValueErr, keyPath, "", "", fmt.Errorf("empty key path"))
	}
	segments := strings.Split(keyPath, ".")
	for _, s := range segments {
		if s == "" {
			return nil, NewConfigError("parse", CodeInvalidValueErr, keyPath, "", "", fmt.Errorf("empty key segment"))
		}
	}
	return segments, nil
}
