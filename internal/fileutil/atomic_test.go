package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "hands.phhs")

	require.NoError(t, WriteFileAtomic(path, []byte("hello world"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	assert.Equal(t, []string{"hands.phhs"}, dirEntries(t, dir))
}

func TestWriteFileAtomicOverwrites(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "hands.phhs")
	require.NoError(t, os.WriteFile(path, []byte("old content"), 0o644))

	require.NoError(t, WriteFileAtomic(path, []byte("new"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestAtomicFileAbortLeavesTargetAlone(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "hands.phhs")
	require.NoError(t, os.WriteFile(path, []byte("previous run"), 0o644))

	f, err := CreateAtomic(path, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("partial")
	require.NoError(t, err)
	f.Abort()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous run", string(data))
	assert.Equal(t, []string{"hands.phhs"}, dirEntries(t, dir))
}

func TestAtomicFileCommitTwice(t *testing.T) {
	t.Parallel()
	f, err := CreateAtomic(filepath.Join(t.TempDir(), "hands.phhs"), 0o600)
	require.NoError(t, err)
	require.NoError(t, f.Commit())
	assert.Error(t, f.Commit())
	f.Abort()
}

func TestCreateAtomicMissingDirectory(t *testing.T) {
	t.Parallel()
	_, err := CreateAtomic(filepath.Join(t.TempDir(), "nope", "hands.phhs"), 0o644)
	assert.Error(t, err)
}
