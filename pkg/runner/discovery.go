package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/langdetect"
)

// Discover expands opts.Paths into a sorted list of distinct absolute file
// paths.
//
// Directories are walked for files with a selected extension, skipping
// hidden entries and vendored trees. Files named explicitly are kept
// whatever their extension. Exclude globs apply to both; include globs
// only filter walked files.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	d := &discovery{
		ctx:        ctx,
		opts:       opts,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		found:      make(map[string]bool),
	}
	for _, input := range opts.effectivePaths() {
		if err := d.input(input); err != nil {
			return nil, err
		}
	}

	files := make([]string, 0, len(d.found))
	for f := range d.found {
		files = append(files, f)
	}
	slices.Sort(files)
	return files, nil
}

type discovery struct {
	ctx        context.Context //nolint:containedctx // lives for one Discover call
	opts       Options
	workDir    string
	extensions []string
	found      map[string]bool
}

func (d *discovery) input(input string) error {
	if err := d.ctx.Err(); err != nil {
		return fmt.Errorf("discovery cancelled: %w", err)
	}

	abs := input
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(d.workDir, abs)
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	switch {
	case err != nil:
		return fmt.Errorf("stat %s: %w", input, err)
	case info.IsDir():
		return d.walk(abs)
	case !matchesAny(d.rel(abs), d.opts.ExcludeGlobs):
		d.found[abs] = true
	}
	return nil
}

func (d *discovery) rel(path string) string {
	if rel, err := filepath.Rel(d.workDir, path); err == nil {
		return rel
	}
	return path
}

func (d *discovery) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := d.ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		switch {
		case errors.Is(err, fs.ErrPermission):
			return nil
		case err != nil:
			return err
		case path == root:
			return nil
		}
		return d.visit(path, entry)
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	return nil
}

func (d *discovery) visit(path string, entry fs.DirEntry) error {
	rel := d.rel(path)
	hidden := strings.HasPrefix(entry.Name(), ".")

	if entry.IsDir() {
		if hidden || langdetect.IsVendored(rel+"/") || matchesAny(rel, d.opts.ExcludeGlobs) {
			return filepath.SkipDir
		}
		return nil
	}
	if hidden {
		return nil
	}

	if entry.Type()&fs.ModeSymlink != 0 {
		// Broken links and unreadable targets are skipped.
		info, err := os.Stat(path)
		if err != nil {
			return nil //nolint:nilerr
		}
		if info.IsDir() {
			if !d.opts.FollowSymlinks {
				return nil
			}
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr
			}
			return d.walk(target)
		}
	}

	if d.selected(path, rel) {
		d.found[path] = true
	}
	return nil
}

func (d *discovery) selected(path, rel string) bool {
	ext := filepath.Ext(path)
	if !slices.ContainsFunc(d.extensions, func(e string) bool { return strings.EqualFold(e, ext) }) {
		return false
	}
	if matchesAny(rel, d.opts.ExcludeGlobs) {
		return false
	}
	return len(d.opts.IncludeGlobs) == 0 || matchesAny(rel, d.opts.IncludeGlobs)
}

func resolveWorkDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	return abs, nil
}
