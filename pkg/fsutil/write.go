package fsutil

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for new files.
const DefaultFileMode os.FileMode = 0o644

// BackupSuffix is appended to a file's path to name its sidecar backup.
const BackupSuffix = ".gotypstyle.bak"

// BackupPath returns the sidecar backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// BackupExists reports whether path has a sidecar backup.
func BackupExists(path string) bool {
	_, err := os.Stat(BackupPath(path))
	return err == nil
}

// WriteAtomic replaces path with content. The content is written to a
// hidden sibling file and renamed over path, so readers see either the old
// or the new file. A zero mode selects DefaultFileMode.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}

	tmpPath, err := writeTemp(path, content, cmp.Or(mode, DefaultFileMode))
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// writeTemp writes content to a new file next to path and returns its
// name. The file is removed again on failure.
func writeTemp(path string, content []byte, mode os.FileMode) (_ string, err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(content); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err = f.Chmod(mode.Perm()); err != nil {
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

// CreateBackup stores original, the content path held before it is
// rewritten, in the sidecar backup. An existing backup is kept, so repeated
// runs preserve the oldest content. It reports whether a backup was
// written.
func CreateBackup(ctx context.Context, path string, original []byte, mode os.FileMode) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	backupPath := BackupPath(path)
	f, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, cmp.Or(mode, DefaultFileMode).Perm())
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	if _, err := f.Write(original); err != nil {
		_ = f.Close()
		_ = os.Remove(backupPath)
		return false, fmt.Errorf("write backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("close backup: %w", err)
	}
	return true, nil
}
