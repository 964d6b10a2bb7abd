package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/utkarsh5026/aarjar/internal/aartest"
)

// TestHelper runs CLI commands inside an isolated project directory with its
// own user configuration directory.
type TestHelper struct {
	t          *testing.T
	projectDir string
	userDir    string
}

// NewTestHelper creates a project directory, points the user configuration
// at a private directory and changes into the project.
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	th := &TestHelper{
		t:          t,
		projectDir: t.TempDir(),
		userDir:    t.TempDir(),
	}
	t.Setenv("XDG_CONFIG_HOME", th.userDir)
	t.Setenv("HOME", th.userDir)
	t.Chdir(th.projectDir)
	return th
}

// ProjectDir returns the working directory commands run in.
func (th *TestHelper) ProjectDir() string {
	return th.projectDir
}

// Path joins elem onto the project directory.
func (th *TestHelper) Path(elem ...string) string {
	return filepath.Join(append([]string{th.projectDir}, elem...)...)
}

// WriteLibrary writes a packaged archive named name into the project. A nil
// classes writes an archive without compiled classes.
func (th *TestHelper) WriteLibrary(name string, classes []byte) string {
	th.t.Helper()
	return aartest.Write(th.t, th.projectDir, name, aartest.Library(th.t, classes)...)
}

// WriteFile creates a file with content in the project.
func (th *TestHelper) WriteFile(name, content string) string {
	th.t.Helper()

	filePath := th.Path(name)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		th.t.Fatalf("failed to create directory for %s: %v", filePath, err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		th.t.Fatalf("failed to write file %s: %v", filePath, err)
	}
	return filePath
}

// Run executes the root command with args and returns stdout, stderr and the
// command error.
func (th *TestHelper) Run(args ...string) (string, string, error) {
	th.t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
