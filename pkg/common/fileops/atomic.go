package fileops

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/utkarsh5026/aarjar/pkg/aarpath"
)

// AtomicWrite writes data to targetPath through a temporary file in the same
// directory and a rename, so readers never observe a partial file.
func AtomicWrite(targetPath aarpath.AbsolutePath, data []byte, mode os.FileMode) error {
	_, err := AtomicCopy(targetPath, bytes.NewReader(data), mode)
	return err
}

// AtomicCopy streams r into targetPath with the same guarantees as
// AtomicWrite and returns the number of bytes written. On any failure the
// temporary file is removed and targetPath is left as it was.
func AtomicCopy(targetPath aarpath.AbsolutePath, r io.Reader, mode os.FileMode) (int64, error) {
	tmpFile, err := os.CreateTemp(targetPath.Dir().String(), ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	n, err := writeTempFile(r, tmpFile)
	if err != nil {
		return 0, fmt.Errorf("write temp file: %w", err)
	}

	if err := renameTempFile(tmpFile.Name(), targetPath.String(), mode); err != nil {
		return 0, err
	}
	return n, nil
}

// writeTempFile copies r into tmpFile, fsyncs and closes it.
func writeTempFile(r io.Reader, tmpFile *os.File) (int64, error) {
	n, err := io.Copy(tmpFile, r)
	if err != nil {
		return 0, fmt.Errorf("write data: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return 0, fmt.Errorf("sync: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("close: %w", err)
	}

	return n, nil
}

// renameTempFile applies mode to the temporary file and moves it over the target.
func renameTempFile(tmpPath string, targetPath string, mode os.FileMode) error {
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	if err := os.Rename(tmpPath, targetPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
