package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomicLeavesNoTempOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("encoder failed")
	})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteAtomicAndCopy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	require.NoError(t, WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	}))

	dst := filepath.Join(dir, "copy.txt")
	require.NoError(t, os.WriteFile(dst, []byte("a much longer previous content"), 0o644))
	require.NoError(t, CopyFileAtomic(path, dst))

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	ok, err := Exists(dst)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, RemoveIfExists(dst))
	require.NoError(t, RemoveIfExists(dst))
	ok, err = Exists(dst)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteUniqueNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "starcraft_backup_20250101_120000.json")

	write := func(body string) func(w io.Writer) error {
		return func(w io.Writer) error {
			_, err := io.WriteString(w, body)
			return err
		}
	}

	first, err := WriteUnique(path, write("first"))
	require.NoError(t, err)
	second, err := WriteUnique(path, write("second"))
	require.NoError(t, err)
	third, err := WriteUnique(path, write("third"))
	require.NoError(t, err)

	assert.Equal(t, path, first)
	assert.Equal(t, filepath.Join(dir, "starcraft_backup_20250101_120000_1.json"), second)
	assert.Equal(t, filepath.Join(dir, "starcraft_backup_20250101_120000_2.json"), third)

	b, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "first", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
