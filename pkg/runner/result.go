package runner

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/format"
	"github.com/yaklabco/gotypstyle/pkg/typstyle"
)

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *format.Result

	Error error
}

// IsSyntaxError reports whether the file was rejected for syntax errors.
func (o FileOutcome) IsSyntaxError() bool {
	return o.Error != nil && errors.Is(o.Error, typstyle.ErrSyntax)
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int

	// FilesChanged counts files whose formatted text differs.
	FilesChanged int

	// FilesWritten counts files rewritten on disk.
	FilesWritten int

	FilesUnchanged int
	FilesSkipped   int

	// FilesErrored counts every failed file, SyntaxErrors included.
	FilesErrored int
	SyntaxErrors int

	// BlockErrors counts embedded Markdown blocks left unformatted.
	BlockErrors int

	CacheHits int
}

// Result is the outcome of a run. Files are ordered by path.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasChanges reports whether any file needs or received formatting.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && (r.Stats.FilesErrored > 0 || r.Stats.BlockErrors > 0)
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		if outcome.IsSyntaxError() {
			r.Stats.SyntaxErrors++
		}
		return
	}
	if outcome.Result == nil {
		return
	}

	res := outcome.Result
	r.Stats.FilesProcessed++
	r.Stats.BlockErrors += len(res.BlockErrors)
	if res.CacheHit {
		r.Stats.CacheHits++
	}
	switch {
	case res.Skipped:
		r.Stats.FilesSkipped++
	case res.Changed:
		r.Stats.FilesChanged++
		if res.Written {
			r.Stats.FilesWritten++
		}
	default:
		r.Stats.FilesUnchanged++
	}
}

// File statuses reported by FileOutcome.Status.
const (
	StatusSyntaxError     = "syntax error"
	StatusError           = "error"
	StatusSkipped         = "skipped"
	StatusFormatted       = "formatted"
	StatusNeedsFormatting = "needs formatting"
	StatusUnchanged       = "unchanged"
)

// Status returns a short label for the outcome.
func (o FileOutcome) Status() string {
	switch {
	case o.IsSyntaxError():
		return StatusSyntaxError
	case o.Error != nil || o.Result == nil:
		return StatusError
	case o.Result.Skipped:
		return StatusSkipped
	case o.Result.Written:
		return StatusFormatted
	case o.Result.Changed:
		return StatusNeedsFormatting
	default:
		return StatusUnchanged
	}
}

// DisplayPath shortens path relative to workingDir for display. Paths far
// outside workingDir are kept absolute.
func DisplayPath(path, workingDir string) string {
	if workingDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workingDir, path)
	if err != nil || strings.Count(rel, "..") > 2 {
		return path
	}
	return rel
}
