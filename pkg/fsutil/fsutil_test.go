package fsutil_test

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypstyle/pkg/fsutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRead(t *testing.T) {
	t.Parallel()

	t.Run("returns content and state", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "doc.typ", "= Title\n")
		snap, err := fsutil.Read(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, "= Title\n", string(snap.Content))
		assert.Equal(t, path, snap.Path)
		assert.Equal(t, int64(8), snap.Size)
		assert.Equal(t, sha256.Sum256(snap.Content), snap.Hash)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.Read(context.Background(), filepath.Join(t.TempDir(), "nope.typ"))
		require.ErrorIs(t, err, fsutil.ErrFileNotFound)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.Read(context.Background(), t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := fsutil.Read(ctx, "whatever")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSnapshotChanged(t *testing.T) {
	t.Parallel()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		snap, err := fsutil.Read(context.Background(), writeFile(t, t.TempDir(), "a.typ", "abc"))
		require.NoError(t, err)

		changed, err := snap.Changed(context.Background())
		require.NoError(t, err)
		assert.False(t, changed)
		assert.NoError(t, snap.Verify(context.Background()))
	})

	t.Run("same size and time but different content", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.typ", "abc")
		snap, err := fsutil.Read(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("xyz"), 0o644))
		require.NoError(t, os.Chtimes(path, time.Now(), snap.ModTime))

		changed, err := snap.Changed(context.Background())
		require.NoError(t, err)
		assert.True(t, changed)
		assert.ErrorIs(t, snap.Verify(context.Background()), fsutil.ErrFileModified)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.typ", "abc")
		snap, err := fsutil.Read(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		changed, err := snap.Changed(context.Background())
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("nil snapshot", func(t *testing.T) {
		t.Parallel()

		var snap *fsutil.Snapshot
		_, err := snap.Changed(context.Background())
		require.ErrorIs(t, err, fsutil.ErrNilSnapshot)
	})
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("replaces content and keeps mode", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := writeFile(t, dir, "a.typ", "old")
		require.NoError(t, os.Chmod(path, 0o600))

		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("new"), 0o600))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(content))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp file left behind")
	})

	t.Run("creates missing file with default mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "new.typ")
		require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0))

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, fsutil.DefaultFileMode, stat.Mode().Perm())
	})

	t.Run("missing directory fails", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "no", "such", "dir.typ")
		require.Error(t, fsutil.WriteAtomic(context.Background(), path, []byte("x"), 0))
	})
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	t.Run("writes sidecar once", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "a.typ", "original")
		assert.False(t, fsutil.BackupExists(path))

		created, err := fsutil.CreateBackup(context.Background(), path, []byte("original"), 0o600)
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, fsutil.BackupExists(path))

		created, err = fsutil.CreateBackup(context.Background(), path, []byte("changed"), 0o600)
		require.NoError(t, err)
		assert.False(t, created)

		content, err := os.ReadFile(fsutil.BackupPath(path))
		require.NoError(t, err)
		assert.Equal(t, "original", string(content))

		stat, err := os.Stat(fsutil.BackupPath(path))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		path := filepath.Join(t.TempDir(), "a.typ")
		_, err := fsutil.CreateBackup(ctx, path, []byte("x"), 0)
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, fsutil.BackupExists(path))
	})
}
