package aarpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AbsolutePath is a cleaned absolute filesystem path.
type AbsolutePath string

// ArchivePath is the absolute path of a packaged (.aar) source archive.
type ArchivePath string

// OutputDir is the absolute path of the directory that receives repackaged
// jars and the exploded working trees.
type OutputDir string

// NewAbsolutePath resolves path against the working directory and cleans it.
func NewAbsolutePath(path string) (AbsolutePath, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return AbsolutePath(abs), nil
}

// String returns the path as a string
func (p AbsolutePath) String() string {
	return string(p)
}

// IsValid checks if this is a non-empty absolute path
func (p AbsolutePath) IsValid() bool {
	return filepath.IsAbs(string(p))
}

// Join joins path elements to the path
func (p AbsolutePath) Join(elem ...string) AbsolutePath {
	parts := append([]string{string(p)}, elem...)
	return AbsolutePath(filepath.Join(parts...))
}

// Dir returns all but the last element of the path
func (p AbsolutePath) Dir() AbsolutePath {
	return AbsolutePath(filepath.Dir(string(p)))
}

// Base returns the last element of the path
func (p AbsolutePath) Base() string {
	return filepath.Base(string(p))
}

// Contains reports whether other is p itself or lies underneath p.
func (p AbsolutePath) Contains(other AbsolutePath) bool {
	rel, err := filepath.Rel(string(p), string(other))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return !filepath.IsAbs(rel) && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// NewArchivePath resolves path to an absolute archive path.
func NewArchivePath(path string) (ArchivePath, error) {
	abs, err := NewAbsolutePath(path)
	if err != nil {
		return "", fmt.Errorf("invalid archive path: %w", err)
	}
	return ArchivePath(abs), nil
}

// String returns the path as a string
func (a ArchivePath) String() string {
	return string(a)
}

// Absolute returns the archive path as an AbsolutePath.
func (a ArchivePath) Absolute() AbsolutePath {
	return AbsolutePath(a)
}

// Base returns the file name of the archive, extension included.
// "/libs/widget.aar" -> "widget.aar"
func (a ArchivePath) Base() string {
	return filepath.Base(string(a))
}

// Stem returns the file name without its final extension.
// "/libs/widget-1.2.aar" -> "widget-1.2"
func (a ArchivePath) Stem() string {
	base := a.Base()
	if ext := filepath.Ext(base); ext != "" && ext != base {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// HasArchiveExtension reports whether the file name ends in .aar, ignoring case.
func (a ArchivePath) HasArchiveExtension() bool {
	return strings.EqualFold(filepath.Ext(string(a)), AarExtension)
}

// NewOutputDir resolves path to an absolute output directory.
func NewOutputDir(path string) (OutputDir, error) {
	abs, err := NewAbsolutePath(path)
	if err != nil {
		return "", fmt.Errorf("invalid output directory: %w", err)
	}
	return OutputDir(abs), nil
}

// String returns the path as a string
func (o OutputDir) String() string {
	return string(o)
}

// Absolute returns the output directory as an AbsolutePath.
func (o OutputDir) Absolute() AbsolutePath {
	return AbsolutePath(o)
}

// ExplodedRoot returns the directory holding every exploded working tree.
// An empty name falls back to ExplodedDir.
func (o OutputDir) ExplodedRoot(name string) AbsolutePath {
	if name == "" {
		name = ExplodedDir
	}
	return AbsolutePath(filepath.Join(string(o), name))
}

// WorkingDir returns the exploded working tree for one archive, keyed by the
// archive's file name: <out>/<exploded>/<archive-base>.
func (o OutputDir) WorkingDir(explodedName string, archive ArchivePath) AbsolutePath {
	return o.ExplodedRoot(explodedName).Join(archive.Base())
}

// OutputFile returns <out>/<archive-stem><ext>. An empty ext falls back to
// JarExtension and a missing leading dot is added.
func (o OutputDir) OutputFile(archive ArchivePath, ext string) AbsolutePath {
	if ext == "" {
		ext = JarExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return AbsolutePath(filepath.Join(string(o), archive.Stem()+ext))
}
