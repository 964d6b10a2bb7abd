package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/utkarsh5026/aarjar/internal/aartest"
	"github.com/utkarsh5026/aarjar/pkg/repackager"
)

func TestRepackageCommand_SingleArchive(t *testing.T) {
	th := NewTestHelper(t)
	classes := aartest.ClassesJar(t, "widget")
	th.WriteLibrary("widget.aar", classes)

	stdout, _, err := th.Run("repackage", "widget.aar", "-o", "out")
	if err != nil {
		t.Fatalf("repackage failed: %v", err)
	}
	if !strings.Contains(stdout, "widget.jar") {
		t.Errorf("output does not mention widget.jar:\n%s", stdout)
	}

	got, err := os.ReadFile(th.Path("out", "widget.jar"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.Equal(got, classes) {
		t.Error("output differs from embedded classes.jar")
	}
}

func TestRepackageCommand_DefaultOutputFromConfig(t *testing.T) {
	th := NewTestHelper(t)
	th.WriteLibrary("widget.aar", aartest.ClassesJar(t, "w"))

	if _, _, err := th.Run("config", "set", "output.dir", "libs/jars"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if _, _, err := th.Run("repackage", "widget.aar"); err != nil {
		t.Fatalf("repackage failed: %v", err)
	}
	if _, err := os.Stat(th.Path("libs", "jars", "widget.jar")); err != nil {
		t.Errorf("expected output under configured directory: %v", err)
	}
}

func TestRepackageCommand_SetOverridesExtension(t *testing.T) {
	th := NewTestHelper(t)
	th.WriteLibrary("widget.aar", aartest.ClassesJar(t, "w"))

	if _, _, err := th.Run("--set", "repackage.extension=.zip", "repackage", "widget.aar", "-o", "out"); err != nil {
		t.Fatalf("repackage failed: %v", err)
	}
	if _, err := os.Stat(th.Path("out", "widget.zip")); err != nil {
		t.Errorf("expected widget.zip: %v", err)
	}
}

func TestRepackageCommand_NoClasses(t *testing.T) {
	th := NewTestHelper(t)
	th.WriteLibrary("resources-only.aar", nil)

	stdout, _, err := th.Run("repackage", "resources-only.aar", "-o", "out")
	if err != nil {
		t.Fatalf("archive without classes must not fail: %v", err)
	}
	if !strings.Contains(stdout, "no compiled classes") {
		t.Errorf("expected a notice, got:\n%s", stdout)
	}
	if _, err := os.Stat(th.Path("out", "resources-only.jar")); !os.IsNotExist(err) {
		t.Error("no jar should be written")
	}
}

func TestRepackageCommand_Errors(t *testing.T) {
	th := NewTestHelper(t)
	th.WriteFile("broken.aar", "definitely not a zip")

	_, _, err := th.Run("repackage", "missing.aar", "-o", "out")
	if !errors.Is(err, repackager.ErrInputNotFound) {
		t.Errorf("missing input: got %v", err)
	}
	if _, statErr := os.Stat(th.Path("out")); !os.IsNotExist(statErr) {
		t.Error("output directory must not be created for a missing input")
	}

	_, _, err = th.Run("repackage", "broken.aar", "-o", "out")
	if !errors.Is(err, repackager.ErrInvalidArchiveFormat) {
		t.Errorf("broken input: got %v", err)
	}

	if _, _, err := th.Run("repackage"); err == nil {
		t.Error("repackage without arguments should fail")
	}
}

func TestRepackageCommand_Batch(t *testing.T) {
	th := NewTestHelper(t)
	th.WriteLibrary("a.aar", aartest.ClassesJar(t, "a"))
	th.WriteLibrary("b.aar", nil)
	th.WriteFile("c.aar", "garbage")

	stdout, _, err := th.Run("repackage", "a.aar", "b.aar", "c.aar", "-o", "out")
	if err == nil || !strings.Contains(err.Error(), "1 of 3 archives failed") {
		t.Fatalf("expected one failure, got %v", err)
	}
	if !errors.Is(err, repackager.ErrInvalidArchiveFormat) {
		t.Errorf("batch error should carry the failing archive's cause, got %v", err)
	}
	for _, want := range []string{"a.aar", "b.aar", "c.aar", "produced", "no classes", "failed"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("summary missing %q:\n%s", want, stdout)
		}
	}
	if _, statErr := os.Stat(th.Path("out", "a.jar")); statErr != nil {
		t.Errorf("a.jar not written: %v", statErr)
	}
}

func TestRepackageCommand_BatchConflict(t *testing.T) {
	th := NewTestHelper(t)
	th.WriteLibrary("widget.aar", aartest.ClassesJar(t, "1"))
	if err := os.MkdirAll(th.Path("other"), 0755); err != nil {
		t.Fatal(err)
	}
	aartest.Write(t, th.Path("other"), "widget.aar", aartest.Library(t, aartest.ClassesJar(t, "3"))...)

	_, _, err := th.Run("repackage", "widget.aar", "other/widget.aar", "-o", "out")
	if !errors.Is(err, repackager.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestCleanCommand(t *testing.T) {
	th := NewTestHelper(t)
	th.WriteLibrary("widget.aar", aartest.ClassesJar(t, "w"))

	if _, _, err := th.Run("repackage", "widget.aar", "-o", "out"); err != nil {
		t.Fatalf("repackage failed: %v", err)
	}

	stdout, _, err := th.Run("clean", "-o", "out")
	if err != nil {
		t.Fatalf("clean failed: %v", err)
	}
	if !strings.Contains(stdout, "Removed") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
	if _, err := os.Stat(th.Path("out", "exploded")); !os.IsNotExist(err) {
		t.Error("exploded directory should be gone")
	}
	if _, err := os.Stat(th.Path("out", "widget.jar")); err != nil {
		t.Error("clean must keep outputs")
	}

	stdout, _, err = th.Run("clean", "-o", "out")
	if err != nil || !strings.Contains(stdout, "Nothing to clean") {
		t.Errorf("second clean: %v\n%s", err, stdout)
	}
}
