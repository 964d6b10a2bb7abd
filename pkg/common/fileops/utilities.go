package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/utkarsh5026/aarjar/pkg/aarpath"
)

// Exists checks if a file or directory exists at the given path.
// Returns an error only for filesystem errors other than non-existence.
func Exists(p aarpath.AbsolutePath) (bool, error) {
	_, err := os.Stat(p.String())
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("check existence: %w", err)
}

// IsFile checks if the path exists and is a regular file.
func IsFile(p aarpath.AbsolutePath) (bool, error) {
	info, err := os.Stat(p.String())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat path: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// EnsureDir creates path and any missing parents.
func EnsureDir(path aarpath.AbsolutePath) error {
	if err := os.MkdirAll(path.String(), 0755); err != nil {
		return fmt.Errorf("ensure directory %s: %w", path.String(), err)
	}
	return nil
}

// EnsureParentDir creates the parent directory of p.
func EnsureParentDir(p aarpath.AbsolutePath) error {
	if err := os.MkdirAll(filepath.Dir(p.String()), 0755); err != nil {
		return fmt.Errorf("ensure parent directory: %w", err)
	}
	return nil
}

// ReadBytes reads a file. A missing file yields nil, nil.
func ReadBytes(p aarpath.AbsolutePath) ([]byte, error) {
	data, err := os.ReadFile(p.String())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// SafeRemove removes a file if it exists.
func SafeRemove(p aarpath.AbsolutePath) error {
	if err := os.Remove(p.String()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// RemoveTree removes dir and everything below it. A missing dir is not an
// error. The filesystem root and single-element paths are refused.
func RemoveTree(dir aarpath.AbsolutePath) error {
	clean := filepath.Clean(dir.String())
	if !filepath.IsAbs(clean) || clean == filepath.VolumeName(clean)+string(filepath.Separator) {
		return fmt.Errorf("refusing to remove %q", clean)
	}
	if strings.Count(strings.TrimPrefix(clean, filepath.VolumeName(clean)), string(filepath.Separator)) < 2 {
		return fmt.Errorf("refusing to remove top-level directory %q", clean)
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("remove tree %s: %w", clean, err)
	}
	return nil
}
