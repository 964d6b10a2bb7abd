package aar

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/common/err"
	"github.com/utkarsh5026/aarjar/pkg/common/fileops"
)

// ExtractResult summarizes an extraction.
type ExtractResult struct {
	Dir     aarpath.AbsolutePath
	Files   int
	Dirs    int
	Bytes   int64
	Skipped []string // non-regular entries such as symlinks
}

// ExtractTo writes every entry of the archive under dir, creating dir if
// needed. Entry names are validated before anything is written: a name that
// is absolute or escapes dir, or two file entries resolving to the same
// path, fail the whole extraction with ErrInvalidFormat.
// Existing files are truncated and overwritten; the caller clears dir first
// if stale entries must not survive.
func (a *Archive) ExtractTo(dir aarpath.AbsolutePath) (*ExtractResult, error) {
	targets := make([]aarpath.AbsolutePath, len(a.reader.File))
	fileTargets := make(map[aarpath.AbsolutePath]bool, len(a.reader.File))
	for i, f := range a.reader.File {
		target, resolveErr := resolveEntry(dir, f.Name)
		if resolveErr != nil {
			return nil, newArchiveError("extract", err.CodeInvalidFormat, a.path.String(), f.Name, resolveErr.Error(), nil)
		}
		targets[i] = target
		if isDirEntry(f) {
			continue
		}
		if fileTargets[target] {
			return nil, newArchiveError("extract", err.CodeInvalidFormat, a.path.String(), f.Name, "two entries extract to the same file", nil)
		}
		fileTargets[target] = true
	}

	if mkErr := fileops.EnsureDir(dir); mkErr != nil {
		return nil, newArchiveError("extract", err.CodeExtractionFailed, a.path.String(), "", "create directory", mkErr)
	}

	result := &ExtractResult{Dir: dir}
	for i, f := range a.reader.File {
		target := targets[i]
		mode := f.Mode()

		switch {
		case isDirEntry(f):
			if mkErr := fileops.EnsureDir(target); mkErr != nil {
				return nil, newArchiveError("extract", err.CodeExtractionFailed, a.path.String(), f.Name, "create directory", mkErr)
			}
			result.Dirs++

		case mode&os.ModeType != 0:
			result.Skipped = append(result.Skipped, f.Name)

		default:
			n, writeErr := a.extractFile(f, target)
			if writeErr != nil {
				return nil, writeErr
			}
			result.Files++
			result.Bytes += n
		}
	}

	return result, nil
}

func isDirEntry(f *zip.File) bool {
	return f.Mode().IsDir() || strings.HasSuffix(f.Name, "/")
}

// extractFile copies one entry to target. Failures reading the entry are
// format errors; failures writing target are extraction errors.
func (a *Archive) extractFile(f *zip.File, target aarpath.AbsolutePath) (int64, error) {
	if mkErr := fileops.EnsureParentDir(target); mkErr != nil {
		return 0, newArchiveError("extract", err.CodeExtractionFailed, a.path.String(), f.Name, "create parent directory", mkErr)
	}

	rc, openErr := f.Open()
	if openErr != nil {
		return 0, newArchiveError("extract", err.CodeInvalidFormat, a.path.String(), f.Name, "open entry", openErr)
	}
	defer rc.Close()

	out, createErr := os.OpenFile(target.String(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if createErr != nil {
		return 0, newArchiveError("extract", err.CodeExtractionFailed, a.path.String(), f.Name, "create file", createErr)
	}

	n, copyErr := io.Copy(&sourceWriter{w: out}, rc)
	closeErr := out.Close()
	if copyErr != nil {
		var dst *destinationError
		if errors.As(copyErr, &dst) {
			return 0, newArchiveError("extract", err.CodeExtractionFailed, a.path.String(), f.Name, "write file", copyErr)
		}
		return 0, newArchiveError("extract", err.CodeInvalidFormat, a.path.String(), f.Name, "read entry", copyErr)
	}
	if closeErr != nil {
		return 0, newArchiveError("extract", err.CodeExtractionFailed, a.path.String(), f.Name, "close file", closeErr)
	}
	return n, nil
}

// destinationError marks an io.Copy failure as coming from the writer side.
type destinationError struct {
	err error
}

func (e *destinationError) Error() string { return e.err.Error() }
func (e *destinationError) Unwrap() error { return e.err }

type sourceWriter struct {
	w io.Writer
}

func (s *sourceWriter) Write(p []byte) (int, error) {
	n, writeErr := s.w.Write(p)
	if writeErr != nil {
		return n, &destinationError{err: writeErr}
	}
	return n, nil
}

// resolveEntry maps a slash-separated entry name to a path under dir.
func resolveEntry(dir aarpath.AbsolutePath, name string) (aarpath.AbsolutePath, error) {
	if name == "" {
		return "", fmt.Errorf("empty entry name")
	}
	if strings.Contains(name, "\\") {
		return "", fmt.Errorf("backslash in entry name")
	}
	if path.IsAbs(name) || filepath.IsAbs(filepath.FromSlash(name)) || filepath.VolumeName(filepath.FromSlash(name)) != "" {
		return "", fmt.Errorf("absolute entry name")
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", fmt.Errorf("entry escapes extraction directory")
		}
	}

	target := dir.Join(filepath.FromSlash(name))
	if !dir.Contains(target) {
		return "", fmt.Errorf("entry escapes extraction directory")
	}
	return target, nil
}
