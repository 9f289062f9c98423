package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// script writes an executable shell script and returns its path.
func script(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script editors need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-editor.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0700))
	return path
}

func newTestEditor(t *testing.T, command string) *Editor {
	e := New(command)
	e.Dir = t.TempDir()
	e.Stdin = nil
	e.Stdout = nil
	e.Stderr = nil
	return e
}

func TestEditUnchanged(t *testing.T) {
	e := newTestEditor(t, script(t, "exit 0"))
	got, err := e.Edit(context.Background(), "edit", "keep me\n")
	require.NoError(t, err)
	assert.Equal(t, "keep me\n", got)
}

func TestEditRewrites(t *testing.T) {
	e := newTestEditor(t, script(t, `printf '# New\n\nbody\n' > "$1"`))
	got, err := e.Edit(context.Background(), "comment", "")
	require.NoError(t, err)
	assert.Equal(t, "# New\n\nbody\n", got)
}

func TestEditWithArguments(t *testing.T) {
	// Extra words in the command are passed before the file name.
	e := newTestEditor(t, script(t, `printf '%s' "$1" > "$2"`)+" --wait")
	got, err := e.Edit(context.Background(), "edit", "")
	require.NoError(t, err)
	assert.Equal(t, "--wait", got)
}

func TestEditFailureAborts(t *testing.T) {
	e := newTestEditor(t, script(t, "exit 3"))
	_, err := e.Edit(context.Background(), "edit", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAborted))
}

func TestEditMissingEditor(t *testing.T) {
	e := newTestEditor(t, filepath.Join(t.TempDir(), "no-such-editor"))
	_, err := e.Edit(context.Background(), "edit", "x")
	assert.True(t, errors.Is(err, ErrAborted))
}

func TestEditEmptyCommand(t *testing.T) {
	e := newTestEditor(t, "  ")
	_, err := e.Edit(context.Background(), "edit", "x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrAborted))
}

func TestEditRemovesTempFile(t *testing.T) {
	e := newTestEditor(t, script(t, "exit 0"))
	_, err := e.Edit(context.Background(), "edit", "x")
	require.NoError(t, err)

	entries, err := os.ReadDir(e.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
