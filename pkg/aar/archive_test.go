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
	"github.com/utkarsh5026/aarjar/pkg/common/err"
)

func openFixture(t *testing.T, files ...aartest.File) *Archive {
	t.Helper()
	path := aartest.Write(t, t.TempDir(), "widget.aar", files...)
	a, openErr := Open(aarpath.ArchivePath(path))
	require.NoError(t, openErr)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOpen_Missing(t *testing.T) {
	_, openErr := Open(aarpath.ArchivePath(filepath.Join(t.TempDir(), "missing.aar")))
	require.Error(t, openErr)
	assert.True(t, errors.Is(openErr, ErrNotFound))
	assert.True(t, err.IsCode(openErr, err.CodeInputNotFound))
}

func TestOpen_Directory(t *testing.T) {
	_, openErr := Open(aarpath.ArchivePath(t.TempDir()))
	require.Error(t, openErr)
	assert.True(t, errors.Is(openErr, ErrNotFound))
}

func TestOpen_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.aar")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip archive at all"), 0644))

	_, openErr := Open(aarpath.ArchivePath(path))
	require.Error(t, openErr)
	assert.True(t, errors.Is(openErr, ErrInvalidFormat))

	var archiveErr *ArchiveError
	require.True(t, errors.As(openErr, &archiveErr))
	assert.Equal(t, path, archiveErr.Path)
	assert.Equal(t, err.CodeInvalidFormat, archiveErr.Code())
}

func TestOpen_DuplicateEntry(t *testing.T) {
	path := aartest.Write(t, t.TempDir(), "twice.aar",
		aartest.File{Name: "AndroidManifest.xml", Body: []byte("<manifest/>")},
		aartest.File{Name: ClassesJar, Body: []byte("first")},
		aartest.File{Name: ClassesJar, Body: []byte("second")},
	)

	_, openErr := Open(aarpath.ArchivePath(path))
	require.Error(t, openErr)
	assert.True(t, errors.Is(openErr, ErrInvalidFormat))
	assert.True(t, err.IsCode(openErr, err.CodeInvalidFormat))

	var archiveErr *ArchiveError
	require.True(t, errors.As(openErr, &archiveErr))
	assert.Equal(t, ClassesJar, archiveErr.Entry)
}

func TestArchive_Inventory(t *testing.T) {
	a := openFixture(t, aartest.Library(t, aartest.ClassesJar(t, "X"),
		aartest.File{Name: "libs/okio.jar", Body: []byte("okio")},
		aartest.File{Name: "libs/nested/ignored.jar", Body: []byte("nested")},
		aartest.File{Name: "jni/arm64-v8a/libwidget.so", Body: []byte{0x7f, 'E', 'L', 'F'}},
	)...)

	assert.True(t, a.HasClasses())
	assert.True(t, a.HasManifest())
	assert.False(t, a.Has("res/"), "directories are not files")
	assert.Equal(t, []string{"libs/okio.jar"}, a.EmbeddedLibs())

	entries := a.Entries()
	require.NotEmpty(t, entries)
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Name, entries[i].Name)
	}

	classes, ok := a.Entry(ClassesJar)
	require.True(t, ok)
	assert.Equal(t, KindClasses, classes.Kind)
	assert.False(t, classes.IsDir)
	assert.NotZero(t, classes.Size)

	res, ok := a.Entry("res/")
	require.True(t, ok)
	assert.True(t, res.IsDir)
}

func TestArchive_OpenEntry(t *testing.T) {
	a := openFixture(t, aartest.Library(t, nil)...)

	_, openErr := a.OpenEntry(ClassesJar)
	require.Error(t, openErr)
	assert.True(t, err.IsCode(openErr, err.CodeNotFound))

	rc, openErr := a.OpenEntry(RTxtFile)
	require.NoError(t, openErr)
	defer rc.Close()
}

func TestClassify(t *testing.T) {
	tests := map[string]Kind{
		"classes.jar":              KindClasses,
		"AndroidManifest.xml":      KindManifest,
		"libs/gson.jar":            KindLib,
		"libs/sub/gson.jar":        KindOther,
		"res/layout/main.xml":      KindResource,
		"assets/fonts/a.ttf":       KindAsset,
		"jni/x86/libfoo.so":        KindNative,
		"R.txt":                    KindMetadata,
		"proguard.txt":             KindMetadata,
		"META-INF/com/android.txt": KindMetadata,
		"lint.jar":                 KindOther,
	}
	for name, want := range tests {
		assert.Equal(t, want, Classify(name), name)
	}
}
