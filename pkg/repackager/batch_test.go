package repackager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/aarjar/internal/aartest"
	"github.com/utkarsh5026/aarjar/pkg/aarpath"
)

func TestRepackageAll_MixedInputs(t *testing.T) {
	src := t.TempDir()
	out := aarpath.OutputDir(t.TempDir())

	alpha := aartest.Write(t, src, "alpha.aar", aartest.Library(t, aartest.ClassesJar(t, "alpha"))...)
	beta := aartest.Write(t, src, "beta.aar", aartest.Library(t, aartest.ClassesJar(t, "beta"))...)
	resOnly := aartest.Write(t, src, "res-only.aar", aartest.Library(t, nil)...)
	broken := filepath.Join(src, "broken.aar")
	require.NoError(t, os.WriteFile(broken, []byte("nope"), 0644))
	missing := filepath.Join(src, "missing.aar")

	r := newRepackager(t, Options{Workers: 2})
	batch, batchErr := r.RepackageAll(context.Background(), []string{alpha, beta, resOnly, broken, missing, alpha}, out)
	require.NoError(t, batchErr)

	require.Len(t, batch.Items, 5, "duplicate inputs are processed once")
	assert.Len(t, batch.Succeeded(), 3)
	assert.Len(t, batch.Failed(), 2)
	assert.Equal(t, []aarpath.AbsolutePath{
		out.Absolute().Join("alpha.jar"),
		out.Absolute().Join("beta.jar"),
	}, batch.Outputs())

	assert.True(t, errors.Is(batch.Items[3].Err, ErrInvalidArchiveFormat))
	assert.True(t, errors.Is(batch.Items[4].Err, ErrInputNotFound))
	assert.Error(t, batch.Err())

	for _, name := range []string{"alpha", "beta"} {
		got, readErr := os.ReadFile(out.Absolute().Join(name + ".jar").String())
		require.NoError(t, readErr)
		assert.Equal(t, aartest.ClassesJar(t, name), got)
	}
}

func TestRepackageAll_Conflict(t *testing.T) {
	root := t.TempDir()
	first := aartest.Write(t, filepath.Join(root, "a"), "widget.aar", aartest.Library(t, []byte("a"))...)
	second := aartest.Write(t, filepath.Join(root, "b"), "widget.aar", aartest.Library(t, []byte("b"))...)
	out := aarpath.OutputDir(filepath.Join(root, "out"))

	batch, batchErr := newRepackager(t, Options{}).RepackageAll(context.Background(), []string{first, second}, out)
	require.Error(t, batchErr)
	assert.Nil(t, batch)
	assert.True(t, errors.Is(batchErr, ErrConflict))

	_, statErr := os.Stat(out.String())
	assert.True(t, os.IsNotExist(statErr), "nothing runs when inputs collide")
}

func TestRepackageAll_NoInputs(t *testing.T) {
	_, batchErr := newRepackager(t, Options{}).RepackageAll(context.Background(), nil, aarpath.OutputDir(t.TempDir()))
	assert.Error(t, batchErr)
}

func TestRepackageAll_CancelledContext(t *testing.T) {
	src := t.TempDir()
	input := aartest.Write(t, src, "widget.aar", aartest.Library(t, []byte("x"))...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch, batchErr := newRepackager(t, Options{Workers: 1}).RepackageAll(ctx, []string{input}, aarpath.OutputDir(t.TempDir()))
	require.NoError(t, batchErr)
	require.Len(t, batch.Items, 1)
	assert.ErrorIs(t, batch.Items[0].Err, context.Canceled)
	assert.Empty(t, batch.Outputs())
}

func TestRepackageAll_ManyInputsConcurrently(t *testing.T) {
	src := t.TempDir()
	out := aarpath.OutputDir(t.TempDir())

	var inputs []string
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		inputs = append(inputs, aartest.Write(t, src, name+".aar", aartest.Library(t, aartest.ClassesJar(t, name))...))
	}

	batch, batchErr := newRepackager(t, Options{Workers: 4}).RepackageAll(context.Background(), inputs, out)
	require.NoError(t, batchErr)
	assert.Empty(t, batch.Failed())
	assert.Len(t, batch.Outputs(), len(inputs))
	assert.NoError(t, batch.Err())
}
