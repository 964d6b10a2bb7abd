package aar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/aarjar/internal/aartest"
	"github.com/utkarsh5026/aarjar/pkg/aarpath"
)

func TestExtractTo_WritesEveryEntry(t *testing.T) {
	classes := aartest.ClassesJar(t, "X")
	a := openFixture(t, aartest.Library(t, classes)...)
	dir := aarpath.AbsolutePath(filepath.Join(t.TempDir(), "exploded", "widget.aar"))

	result, extractErr := a.ExtractTo(dir)
	require.NoError(t, extractErr)
	assert.Equal(t, 4, result.Files)
	assert.Equal(t, 1, result.Dirs)
	assert.Empty(t, result.Skipped)

	got, readErr := os.ReadFile(dir.Join("classes.jar").String())
	require.NoError(t, readErr)
	assert.Equal(t, classes, got)

	values, readErr := os.ReadFile(dir.Join("res", "values", "values.xml").String())
	require.NoError(t, readErr)
	assert.Contains(t, string(values), "Widget")
}

func TestExtractTo_OverwritesPreviousRun(t *testing.T) {
	dir := aarpath.AbsolutePath(filepath.Join(t.TempDir(), "exploded", "widget.aar"))
	require.NoError(t, os.MkdirAll(dir.String(), 0755))
	require.NoError(t, os.WriteFile(dir.Join("classes.jar").String(), []byte("a much longer stale classes jar from before"), 0644))

	classes := aartest.ClassesJar(t, "fresh")
	a := openFixture(t, aartest.Library(t, classes)...)

	_, extractErr := a.ExtractTo(dir)
	require.NoError(t, extractErr)

	got, readErr := os.ReadFile(dir.Join("classes.jar").String())
	require.NoError(t, readErr)
	assert.Equal(t, classes, got)
}

func TestExtractTo_RejectsEscapingEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{name: "parent traversal", entry: "../../evil.txt"},
		{name: "nested traversal", entry: "res/../../evil.txt"},
		{name: "absolute", entry: "/etc/evil.txt"},
		{name: "backslash", entry: "..\\evil.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := openFixture(t,
				aartest.File{Name: "classes.jar", Body: []byte("ok")},
				aartest.File{Name: tt.entry, Body: []byte("pwned")},
			)
			root := t.TempDir()
			dir := aarpath.AbsolutePath(filepath.Join(root, "exploded", "widget.aar"))

			_, extractErr := a.ExtractTo(dir)
			require.Error(t, extractErr)
			assert.True(t, errors.Is(extractErr, ErrInvalidFormat))

			var archiveErr *ArchiveError
			require.True(t, errors.As(extractErr, &archiveErr))
			assert.Equal(t, tt.entry, archiveErr.Entry)

			_, statErr := os.Stat(dir.String())
			assert.True(t, os.IsNotExist(statErr), "nothing is written before names are validated")
		})
	}
}

func TestExtractTo_RejectsCollidingEntries(t *testing.T) {
	a := openFixture(t,
		aartest.File{Name: "classes.jar", Body: []byte("ok")},
		aartest.File{Name: "jni/x86/libfoo.so", Body: []byte("first")},
		aartest.File{Name: "jni/x86/./libfoo.so", Body: []byte("second")},
	)
	dir := aarpath.AbsolutePath(filepath.Join(t.TempDir(), "exploded", "widget.aar"))

	_, extractErr := a.ExtractTo(dir)
	require.Error(t, extractErr)
	assert.True(t, errors.Is(extractErr, ErrInvalidFormat))

	var archiveErr *ArchiveError
	require.True(t, errors.As(extractErr, &archiveErr))
	assert.Equal(t, "jni/x86/./libfoo.so", archiveErr.Entry)

	_, statErr := os.Stat(dir.String())
	assert.True(t, os.IsNotExist(statErr), "nothing is written when two entries collide")
}

func TestExtractTo_RepeatedDirectoryEntriesAreFine(t *testing.T) {
	a := openFixture(t,
		aartest.File{Name: "res/"},
		aartest.File{Name: "res/./"},
		aartest.File{Name: "res/values.xml", Body: []byte("<resources/>")},
	)
	dir := aarpath.AbsolutePath(filepath.Join(t.TempDir(), "exploded", "widget.aar"))

	result, extractErr := a.ExtractTo(dir)
	require.NoError(t, extractErr)
	assert.Equal(t, 2, result.Dirs)
	assert.Equal(t, 1, result.Files)
}

func TestExtractTo_UnwritableDestination(t *testing.T) {
	a := openFixture(t, aartest.Library(t, []byte("classes"))...)

	blocker := filepath.Join(t.TempDir(), "exploded")
	require.NoError(t, os.WriteFile(blocker, []byte("a file where a directory should be"), 0644))

	_, extractErr := a.ExtractTo(aarpath.AbsolutePath(filepath.Join(blocker, "widget.aar")))
	require.Error(t, extractErr)
	assert.True(t, errors.Is(extractErr, ErrExtraction))
}

func TestResolveEntry(t *testing.T) {
	dir := aarpath.AbsolutePath(filepath.Join(string(filepath.Separator), "out", "exploded", "widget.aar"))

	target, resolveErr := resolveEntry(dir, "res/values/values.xml")
	require.NoError(t, resolveErr)
	assert.Equal(t, dir.Join("res", "values", "values.xml"), target)

	for _, bad := range []string{"", "..", "a/../../b", "/abs"} {
		_, resolveErr := resolveEntry(dir, bad)
		assert.Error(t, resolveErr, bad)
	}
}
