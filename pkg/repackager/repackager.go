// Package repackager turns packaged Android archives into plain jar files.
//
// For one input the flow is: open the archive, explode it under
// <out>/exploded/<archive>/, find classes.jar in the exploded tree and copy
// it byte for byte to <out>/<stem>.jar through a temporary file and a rename.
// An archive without classes.jar yields no output and no error.
//
// A Repackager holds no mutable state. Calls for different inputs may run
// concurrently; calls for the same input must be serialized by the caller,
// which RepackageAll does by deduplicating its inputs.
package repackager

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/utkarsh5026/aarjar/pkg/aar"
	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/common/err"
	"github.com/utkarsh5026/aarjar/pkg/common/fileops"
)

// Result describes one repackaging.
type Result struct {
	Input      aarpath.ArchivePath
	WorkingDir aarpath.AbsolutePath

	// Output is empty when the archive carries no compiled classes.
	Output aarpath.AbsolutePath

	// Bytes is the size of Output.
	Bytes int64

	// Extracted is the number of files written to WorkingDir.
	Extracted int

	// EmbeddedLibs lists libs/*.jar entries. They are never copied.
	EmbeddedLibs []string
}

// Produced reports whether an output file was written.
func (r *Result) Produced() bool {
	return r != nil && r.Output != ""
}

// Outputs returns zero or one output path.
func (r *Result) Outputs() []aarpath.AbsolutePath {
	if !r.Produced() {
		return nil
	}
	return []aarpath.AbsolutePath{r.Output}
}

// Repackager converts packaged archives using a fixed set of Options.
type Repackager struct {
	opts Options
}

// New creates a Repackager. Zero fields of opts take their defaults; options
// that would reach outside the output directory are rejected.
func New(opts Options) (*Repackager, error) {
	if validateErr := opts.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return &Repackager{opts: opts.withDefaults()}, nil
}

// Options returns the effective options.
func (r *Repackager) Options() Options {
	return r.opts
}

// Repackage converts input into outputDir/<stem>.jar using default options.
func Repackage(input, outputDir string) (*Result, error) {
	archive, pathErr := aarpath.NewArchivePath(input)
	if pathErr != nil {
		return nil, newRepackageError("resolve", err.CodeInputNotFound, input, "", pathErr)
	}
	out, pathErr := aarpath.NewOutputDir(outputDir)
	if pathErr != nil {
		return nil, newRepackageError("resolve", err.CodeWriteFailed, input, outputDir, pathErr)
	}
	r, newErr := New(Options{})
	if newErr != nil {
		return nil, newErr
	}
	return r.Repackage(archive, out)
}

// Repackage converts one archive. The input is opened and validated before
// anything is written, so InputNotFound and InvalidArchiveFormat leave
// outputDir untouched. Any earlier extraction of the same archive is
// replaced, and so is any earlier output; when the archive has no compiled
// classes a stale output from a previous run is removed.
func (r *Repackager) Repackage(input aarpath.ArchivePath, outputDir aarpath.OutputDir) (*Result, error) {
	log := r.opts.Logger.With("input", input.String())
	output, workDir, layoutErr := r.layout(input, outputDir)
	if layoutErr != nil {
		return nil, newRepackageError("resolve", err.CodeInvalidInput, input.String(), output.String(), layoutErr)
	}
	if output == input.Absolute() || workDir.Contains(input.Absolute()) {
		return nil, newRepackageError("resolve", err.CodeConflict, input.String(), output.String(), nil)
	}

	archive, openErr := aar.Open(input)
	if openErr != nil {
		return nil, newRepackageError("open", classify(openErr, err.CodeInvalidFormat), input.String(), "", openErr)
	}
	defer archive.Close()

	result := &Result{
		Input:        input,
		WorkingDir:   workDir,
		EmbeddedLibs: archive.EmbeddedLibs(),
	}

	extracted, extractErr := r.explode(archive, result.WorkingDir)
	if extractErr != nil {
		return nil, newRepackageError("extract", classify(extractErr, err.CodeExtractionFailed), input.String(), "", extractErr)
	}
	result.Extracted = extracted.Files
	log.Debug("archive extracted", "dir", result.WorkingDir.String(), "files", extracted.Files, "bytes", extracted.Bytes)
	if len(extracted.Skipped) > 0 {
		log.Warn("skipped non-regular entries", "entries", extracted.Skipped)
	}

	classes := result.WorkingDir.Join(filepath.FromSlash(r.opts.ClassesEntry))
	if classes == result.WorkingDir || !result.WorkingDir.Contains(classes) {
		return nil, newRepackageError("locate", err.CodeInvalidInput, input.String(), "", nil)
	}
	present, statErr := fileops.IsFile(classes)
	if statErr != nil {
		return nil, newRepackageError("locate", err.CodeExtractionFailed, input.String(), "", statErr)
	}
	if !present {
		if rmErr := fileops.SafeRemove(output); rmErr != nil {
			return nil, newRepackageError("remove_stale", err.CodeWriteFailed, input.String(), output.String(), rmErr)
		}
		log.Info("no compiled classes, nothing to repackage", "entry", r.opts.ClassesEntry)
		return result, nil
	}

	n, copyErr := r.copyOut(classes, output)
	if copyErr != nil {
		return nil, newRepackageError("write", err.CodeWriteFailed, input.String(), output.String(), copyErr)
	}
	result.Output = output
	result.Bytes = n

	if len(result.EmbeddedLibs) > 0 {
		log.Warn("embedded libraries are not repackaged", "libs", result.EmbeddedLibs)
	}
	log.Info("repackaged", "output", output.String(), "bytes", n)
	return result, nil
}

// layout returns the output file and working tree for input. Both must sit
// directly inside outputDir and its exploded root respectively.
func (r *Repackager) layout(input aarpath.ArchivePath, outputDir aarpath.OutputDir) (aarpath.AbsolutePath, aarpath.AbsolutePath, error) {
	out := aarpath.AbsolutePath(filepath.Clean(outputDir.String()))
	output := outputDir.OutputFile(input, r.opts.Extension)
	root := outputDir.ExplodedRoot(r.opts.ExplodedDir)
	workDir := outputDir.WorkingDir(r.opts.ExplodedDir, input)

	if output.Dir() != out {
		return output, workDir, fmt.Errorf("output %s is not directly inside %s", output, out)
	}
	if root.Dir() != out {
		return output, workDir, fmt.Errorf("exploded root %s is not directly inside %s", root, out)
	}
	if workDir.Dir() != root {
		return output, workDir, fmt.Errorf("working directory %s is not directly inside %s", workDir, root)
	}
	return output, workDir, nil
}

// explode clears workDir and extracts archive into it.
func (r *Repackager) explode(archive *aar.Archive, workDir aarpath.AbsolutePath) (*aar.ExtractResult, error) {
	if rmErr := fileops.RemoveTree(workDir); rmErr != nil {
		return nil, rmErr
	}
	return archive.ExtractTo(workDir)
}

// copyOut streams src into dst atomically.
func (r *Repackager) copyOut(src, dst aarpath.AbsolutePath) (int64, error) {
	f, openErr := os.Open(src.String())
	if openErr != nil {
		return 0, openErr
	}
	defer f.Close()

	return fileops.AtomicCopy(dst, f, r.opts.FileMode)
}
