// Package fsutil holds the file primitives used when gotypstyle rewrites
// files in place.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

var (
	ErrNilSnapshot      = errors.New("nil snapshot")
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")

	// ErrFileModified reports that a file changed after it was read.
	ErrFileModified = errors.New("file modified during processing")
)

// Snapshot is a file's content together with the state it was read in.
type Snapshot struct {
	Path    string
	Content []byte
	Mode    os.FileMode
	ModTime time.Time
	Size    int64
	Hash    [sha256.Size]byte
}

// Read takes a snapshot of the regular file at path.
func Read(ctx context.Context, path string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, wrapPathError(path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, wrapPathError(path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, wrapPathError(path, err)
	}

	return &Snapshot{
		Path:    path,
		Content: content,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

func wrapPathError(path string, err error) error {
	var sentinel error
	switch {
	case errors.Is(err, fs.ErrNotExist):
		sentinel = ErrFileNotFound
	case errors.Is(err, fs.ErrPermission):
		sentinel = ErrPermissionDenied
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, path, err)
}

// Changed reports whether the file on disk no longer matches the
// snapshot. Size and modification time are checked before the content is
// hashed again. A file that has disappeared has changed.
func (s *Snapshot) Changed(ctx context.Context) (bool, error) {
	if s == nil {
		return false, ErrNilSnapshot
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("stat %s: %w", s.Path, err)
	}

	stat, err := os.Stat(s.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("stat %s: %w", s.Path, err)
	case stat.Size() != s.Size, !stat.ModTime().Equal(s.ModTime):
		return true, nil
	}

	current, err := os.ReadFile(s.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return sha256.Sum256(current) != s.Hash, nil
}

// Verify returns ErrFileModified when the file no longer matches the
// snapshot.
func (s *Snapshot) Verify(ctx context.Context) error {
	changed, err := s.Changed(ctx)
	if err != nil {
		return err
	}
	if changed {
		return fmt.Errorf("%w: %s", ErrFileModified, s.Path)
	}
	return nil
}
