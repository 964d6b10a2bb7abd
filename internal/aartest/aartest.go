// Package aartest builds packaged archive fixtures for tests.
package aartest

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// File is one entry of a fixture archive. A Name ending in "/" is a directory.
type File struct {
	Name string
	Body []byte
}

// fixedTime keeps fixture bytes stable across runs.
var fixedTime = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Zip returns the bytes of a zip archive holding files in order.
func Zip(t testing.TB, files ...File) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		hdr := &zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: fixedTime}
		if len(f.Name) > 0 && f.Name[len(f.Name)-1] == '/' {
			hdr.Method = zip.Store
		}
		fw, err := w.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("aartest: create %s: %v", f.Name, err)
		}
		if len(f.Body) > 0 {
			if _, err := fw.Write(f.Body); err != nil {
				t.Fatalf("aartest: write %s: %v", f.Name, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("aartest: close: %v", err)
	}
	return buf.Bytes()
}

// ClassesJar returns a small but valid jar whose single class entry carries marker.
func ClassesJar(t testing.TB, marker string) []byte {
	t.Helper()
	return Zip(t,
		File{Name: "META-INF/MANIFEST.MF", Body: []byte("Manifest-Version: 1.0\r\n\r\n")},
		File{Name: "com/example/Widget.class", Body: append([]byte{0xCA, 0xFE, 0xBA, 0xBE}, marker...)},
	)
}

// Library returns the standard layout of a library archive with classes.jar
// set to classes. A nil classes produces a resource-only archive.
func Library(t testing.TB, classes []byte, extra ...File) []File {
	t.Helper()
	files := []File{
		{Name: "AndroidManifest.xml", Body: []byte(`<manifest package="com.example.widget"/>`)},
		{Name: "R.txt", Body: []byte("int string app_name 0x7f010001\n")},
		{Name: "res/"},
		{Name: "res/values/values.xml", Body: []byte(`<resources><string name="app_name">Widget</string></resources>`)},
	}
	if classes != nil {
		files = append(files, File{Name: "classes.jar", Body: classes})
	}
	return append(files, extra...)
}

// Write writes a zip of files to dir/name and returns its path.
func Write(t testing.TB, dir, name string, files ...File) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("aartest: mkdir: %v", err)
	}
	if err := os.WriteFile(path, Zip(t, files...), 0644); err != nil {
		t.Fatalf("aartest: write %s: %v", path, err)
	}
	return path
}
