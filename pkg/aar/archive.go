package aar

import (
	"archive/zip"
	"errors"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/common/err"
)

// Entry describes one member of a packaged archive.
type Entry struct {
	Name           string
	Size           uint64
	CompressedSize uint64
	CRC32          uint32
	Modified       time.Time
	IsDir          bool
	Kind           Kind
}

// Archive is an open packaged archive. It is read-only and must be closed.
type Archive struct {
	path   aarpath.ArchivePath
	reader *zip.ReadCloser
	index  map[string]*zip.File
}

// Open opens the packaged archive at path.
//
// A missing, unreadable, or non-regular path fails with ErrNotFound; a file
// that is not a zip container, or one that lists the same entry name twice,
// fails with ErrInvalidFormat.
func Open(path aarpath.ArchivePath) (*Archive, error) {
	info, statErr := os.Stat(path.String())
	if statErr != nil {
		return nil, newArchiveError("open", err.CodeInputNotFound, path.String(), "", "", statErr)
	}
	if !info.Mode().IsRegular() {
		return nil, newArchiveError("open", err.CodeInputNotFound, path.String(), "", "not a regular file", nil)
	}

	reader, openErr := zip.OpenReader(path.String())
	if openErr != nil && !(errors.Is(openErr, zip.ErrInsecurePath) && reader != nil) {
		if errors.Is(openErr, fs.ErrPermission) || errors.Is(openErr, fs.ErrNotExist) {
			return nil, newArchiveError("open", err.CodeInputNotFound, path.String(), "", "", openErr)
		}
		return nil, newArchiveError("open", err.CodeInvalidFormat, path.String(), "", "not a zip container", openErr)
	}

	index := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		if _, dup := index[f.Name]; dup {
			_ = reader.Close()
			return nil, newArchiveError("open", err.CodeInvalidFormat, path.String(), f.Name, "duplicate entry", nil)
		}
		index[f.Name] = f
	}

	return &Archive{path: path, reader: reader, index: index}, nil
}

// Path returns the path the archive was opened from.
func (a *Archive) Path() aarpath.ArchivePath {
	return a.path
}

// Close releases the underlying file.
func (a *Archive) Close() error {
	return a.reader.Close()
}

// Entries returns every entry sorted by name.
func (a *Archive) Entries() []Entry {
	entries := make([]Entry, 0, len(a.reader.File))
	for _, f := range a.reader.File {
		entries = append(entries, toEntry(f))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Entry returns the entry stored under name.
func (a *Archive) Entry(name string) (Entry, bool) {
	f, ok := a.index[name]
	if !ok {
		return Entry{}, false
	}
	return toEntry(f), true
}

// Has reports whether a non-directory entry named name exists.
func (a *Archive) Has(name string) bool {
	f, ok := a.index[name]
	return ok && !f.FileInfo().IsDir()
}

// HasClasses reports whether the archive holds a root classes.jar.
func (a *Archive) HasClasses() bool {
	return a.Has(ClassesJar)
}

// HasManifest reports whether the archive holds a root AndroidManifest.xml.
func (a *Archive) HasManifest() bool {
	return a.Has(ManifestFile)
}

// EmbeddedLibs returns the names of jars bundled under libs/, sorted.
func (a *Archive) EmbeddedLibs() []string {
	var libs []string
	for name, f := range a.index {
		if isEmbeddedLib(name) && !f.FileInfo().IsDir() {
			libs = append(libs, name)
		}
	}
	sort.Strings(libs)
	return libs
}

// OpenEntry opens the named entry for reading.
func (a *Archive) OpenEntry(name string) (io.ReadCloser, error) {
	f, ok := a.index[name]
	if !ok || f.FileInfo().IsDir() {
		return nil, newArchiveError("open_entry", err.CodeNotFound, a.path.String(), name, "no such entry", nil)
	}
	rc, openErr := f.Open()
	if openErr != nil {
		return nil, newArchiveError("open_entry", err.CodeInvalidFormat, a.path.String(), name, "", openErr)
	}
	return rc, nil
}

func toEntry(f *zip.File) Entry {
	return Entry{
		Name:           f.Name,
		Size:           f.UncompressedSize64,
		CompressedSize: f.CompressedSize64,
		CRC32:          f.CRC32,
		Modified:       f.Modified,
		IsDir:          f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/"),
		Kind:           Classify(f.Name),
	}
}
