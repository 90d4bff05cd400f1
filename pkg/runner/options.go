// Package runner formats many files concurrently.
package runner

import "github.com/yaklabco/gotypstyle/pkg/config"

// Options controls a multi-file run.
type Options struct {
	// Paths are files or directories to process. Empty means the working
	// directory.
	Paths []string

	// WorkingDir resolves relative Paths and globs. Empty means the process
	// working directory.
	WorkingDir string

	// Extensions selects files during directory walks (lowercase, with
	// leading dot). Files named explicitly are always processed.
	Extensions []string

	// Markdown adds Markdown files to directory walks.
	Markdown bool

	IncludeGlobs []string
	ExcludeGlobs []string

	// FollowSymlinks traverses directory symlinks.
	FollowSymlinks bool

	// Jobs bounds the worker count. Zero or less means runtime.NumCPU().
	Jobs int
}

// OptionsFromConfig derives run options from configuration.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	return Options{
		Paths:          paths,
		Extensions:     cfg.Extensions,
		Markdown:       cfg.Markdown,
		IncludeGlobs:   cfg.Include,
		ExcludeGlobs:   cfg.Exclude,
		FollowSymlinks: cfg.FollowSymlinks,
		Jobs:           cfg.Jobs,
	}
}

// DefaultExtensions returns the Typst source extensions.
func DefaultExtensions() []string {
	return []string{".typ"}
}

// MarkdownExtensions returns the extensions added in Markdown mode.
func MarkdownExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	if o.Markdown {
		exts = append(append([]string{}, exts...), MarkdownExtensions()...)
	}
	return exts
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
