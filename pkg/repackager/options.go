package repackager

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/utkarsh5026/aarjar/pkg/aar"
	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/common/err"
	"github.com/utkarsh5026/aarjar/pkg/common/logger"
)

// Options configures a Repackager. The zero value is usable; see DefaultOptions.
type Options struct {
	// ClassesEntry is the slash-separated path of the compiled-classes
	// archive inside the packaged archive.
	ClassesEntry string

	// ExplodedDir is the directory under the output directory that receives
	// extracted archives.
	ExplodedDir string

	// Extension is appended to the archive stem to name the output.
	Extension string

	// FileMode is applied to output files.
	FileMode os.FileMode

	// Workers bounds RepackageAll concurrency.
	Workers int

	// Logger receives progress records. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the standard layout: classes.jar, exploded/, .jar.
func DefaultOptions() Options {
	return Options{
		ClassesEntry: aar.ClassesJar,
		ExplodedDir:  aarpath.ExplodedDir,
		Extension:    aarpath.JarExtension,
		FileMode:     0644,
		Workers:      runtime.NumCPU(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.ClassesEntry == "" {
		o.ClassesEntry = def.ClassesEntry
	}
	if o.ExplodedDir == "" {
		o.ExplodedDir = def.ExplodedDir
	}
	if o.Extension == "" {
		o.Extension = def.Extension
	}
	if o.FileMode == 0 {
		o.FileMode = def.FileMode
	}
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	if o.Logger == nil {
		o.Logger = logger.Discard()
	}
	return o
}

// Validate rejects options that would read or write outside the layout:
// a ClassesEntry that is absolute or climbs out of the archive root, and an
// ExplodedDir or Extension that is not a plain file name component.
func (o Options) Validate() error {
	if o.ClassesEntry != "" {
		clean := path.Clean(o.ClassesEntry)
		if path.IsAbs(o.ClassesEntry) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(o.ClassesEntry, "\\") {
			return invalidOption("classes entry", o.ClassesEntry)
		}
	}
	if o.ExplodedDir != "" && !isPlainName(o.ExplodedDir) {
		return invalidOption("exploded directory", o.ExplodedDir)
	}
	if o.Extension != "" && !isPlainName(strings.TrimPrefix(o.Extension, ".")) {
		return invalidOption("extension", o.Extension)
	}
	if o.Workers < 0 {
		return invalidOption("workers", fmt.Sprint(o.Workers))
	}
	return nil
}

func isPlainName(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, "/\\")
}

func invalidOption(what, value string) error {
	return err.New(pkgName, err.CodeInvalidInput, "validate", fmt.Sprintf("invalid %s %q", what, value), nil)
}
