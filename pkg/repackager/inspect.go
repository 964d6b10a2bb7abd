package repackager

import (
	"path/filepath"

	"github.com/utkarsh5026/aarjar/pkg/aar"
	"github.com/utkarsh5026/aarjar/pkg/aarpath"
	"github.com/utkarsh5026/aarjar/pkg/common/err"
	"github.com/utkarsh5026/aarjar/pkg/common/fileops"
)

// Report describes a packaged archive without extracting it.
type Report struct {
	Input        aarpath.ArchivePath
	Entries      []aar.Entry
	HasManifest  bool
	HasClasses   bool
	EmbeddedLibs []string

	// ClassesSize is the uncompressed size of the compiled classes entry.
	ClassesSize uint64

	// OutputName is the file name Repackage would write, or empty when the
	// archive has no compiled classes.
	OutputName string

	// TotalSize is the sum of uncompressed entry sizes.
	TotalSize uint64
}

// Inspect reads the archive's directory and reports what Repackage would do.
func (r *Repackager) Inspect(input aarpath.ArchivePath) (*Report, error) {
	archive, openErr := aar.Open(input)
	if openErr != nil {
		return nil, newRepackageError("inspect", classify(openErr, err.CodeInvalidFormat), input.String(), "", openErr)
	}
	defer archive.Close()

	report := &Report{
		Input:        input,
		Entries:      archive.Entries(),
		HasManifest:  archive.HasManifest(),
		EmbeddedLibs: archive.EmbeddedLibs(),
	}
	if classes, ok := archive.Entry(r.opts.ClassesEntry); ok && !classes.IsDir {
		report.HasClasses = true
		report.ClassesSize = classes.Size
	}
	for _, e := range report.Entries {
		report.TotalSize += e.Size
	}
	if report.HasClasses {
		report.OutputName = aarpath.OutputDir("").OutputFile(input, r.opts.Extension).Base()
	}
	return report, nil
}

// Clean removes the exploded working trees under outputDir. It reports
// whether anything was there. Outputs are left alone.
func (r *Repackager) Clean(outputDir aarpath.OutputDir) (bool, error) {
	root := outputDir.ExplodedRoot(r.opts.ExplodedDir)
	if root.Dir() != aarpath.AbsolutePath(filepath.Clean(outputDir.String())) {
		return false, err.New(pkgName, err.CodeInvalidInput, "clean", "exploded directory outside "+outputDir.String(), nil)
	}
	exists, statErr := fileops.Exists(root)
	if statErr != nil {
		return false, err.WrapWithCode(statErr, pkgName, err.CodeInternal, "clean")
	}
	if !exists {
		return false, nil
	}
	if rmErr := fileops.RemoveTree(root); rmErr != nil {
		return false, err.WrapWithCode(rmErr, pkgName, err.CodeWriteFailed, "clean")
	}
	r.opts.Logger.Info("removed exploded archives", "dir", root.String())
	return true, nil
}
