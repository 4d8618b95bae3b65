package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.yaml")

	t.Run("creates new file", func(t *testing.T) {
		require.NoError(t, WriteFileAtomic(path, []byte("first\n"), 0o644))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "first\n", string(data))
	})

	t.Run("replaces existing file", func(t *testing.T) {
		require.NoError(t, WriteFileAtomic(path, []byte("second\n"), 0o600))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "second\n", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "data.yaml", entries[0].Name())
	})

	t.Run("missing directory fails", func(t *testing.T) {
		err := WriteFileAtomic(filepath.Join(dir, "nope", "data.yaml"), []byte("x"), 0o644)
		assert.Error(t, err)
	})
}

func TestFileLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.lock")

	t.Run("exclusive across locks", func(t *testing.T) {
		first := NewFileLock(path)
		require.NoError(t, first.TryLock())

		second := NewFileLock(path)
		assert.ErrorIs(t, second.TryLock(), ErrLocked)

		require.NoError(t, first.Unlock())
		require.NoError(t, second.TryLock())
		require.NoError(t, second.Unlock())
	})

	t.Run("double acquire on one lock errors", func(t *testing.T) {
		l := NewFileLock(path)
		require.NoError(t, l.TryLock())
		defer l.Unlock()
		assert.Error(t, l.TryLock())
	})

	t.Run("unlock when not held is a no-op", func(t *testing.T) {
		assert.NoError(t, NewFileLock(path).Unlock())
	})
}
