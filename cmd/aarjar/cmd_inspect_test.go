package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/utkarsh5026/aarjar/internal/aartest"
	"github.com/utkarsh5026/aarjar/pkg/repackager"
)

func TestInspectCommand(t *testing.T) {
	th := NewTestHelper(t)
	aartest.Write(t, th.ProjectDir(), "widget.aar", aartest.Library(t, aartest.ClassesJar(t, "w"),
		aartest.File{Name: "libs/okio.jar", Body: []byte("okio")},
	)...)

	stdout, _, err := th.Run("inspect", "widget.aar")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	for _, want := range []string{"widget.aar", "classes.jar", "AndroidManifest.xml", "libs/okio.jar", "widget.jar"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("inspect output missing %q:\n%s", want, stdout)
		}
	}
}

func TestInspectCommand_Brief(t *testing.T) {
	th := NewTestHelper(t)
	th.WriteLibrary("resources-only.aar", nil)

	stdout, _, err := th.Run("inspect", "--brief", "resources-only.aar")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if !strings.Contains(stdout, "nothing") {
		t.Errorf("expected 'nothing' to be produced:\n%s", stdout)
	}
	if strings.Contains(stdout, "R.txt") {
		t.Errorf("--brief should not list entries:\n%s", stdout)
	}
}

func TestInspectCommand_NotAnArchive(t *testing.T) {
	th := NewTestHelper(t)
	th.WriteFile("notes.aar", "plain text")

	_, _, err := th.Run("inspect", "notes.aar")
	if !errors.Is(err, repackager.ErrInvalidArchiveFormat) {
		t.Errorf("expected invalid archive format, got %v", err)
	}
}
