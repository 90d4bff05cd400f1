package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yaklabco/gotypstyle/pkg/runner"
	"github.com/yaklabco/gotypstyle/pkg/typstyle"
)

// jsonSchemaVersion versions the JSON report layout.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON document.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult describes one file.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Status      string           `json:"status"`
	Changed     bool             `json:"changed"`
	Written     bool             `json:"written,omitempty"`
	Additions   int              `json:"additions,omitempty"`
	Deletions   int              `json:"deletions,omitempty"`
	Diff        string           `json:"diff,omitempty"`
	Error       string           `json:"error,omitempty"`
	SyntaxError *JSONSyntaxError `json:"syntaxError,omitempty"`
	BlockErrors []string         `json:"blockErrors,omitempty"`
}

// JSONSyntaxError locates a syntax error.
type JSONSyntaxError struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// JSONSummary holds aggregate counts.
type JSONSummary struct {
	FilesChecked   int `json:"filesChecked"`
	FilesChanged   int `json:"filesChanged"`
	FilesWritten   int `json:"filesWritten"`
	FilesUnchanged int `json:"filesUnchanged"`
	FilesSkipped   int `json:"filesSkipped"`
	FilesErrored   int `json:"filesErrored"`
	SyntaxErrors   int `json:"syntaxErrors"`
	BlockErrors    int `json:"blockErrors"`
}

// JSONReporter writes results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(BuildJSON(result, r.opts.WorkingDir)); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}
	return attention(result, r.opts.Check), nil
}

// BuildJSON converts a run result to its JSON form.
func BuildJSON(result *runner.Result, workingDir string) *JSONOutput {
	out := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return out
	}

	for _, file := range result.Files {
		entry := JSONFileResult{
			Path:   runner.DisplayPath(file.Path, workingDir),
			Status: file.Status(),
		}

		if file.Error != nil {
			entry.Error = file.Error.Error()
			var syntaxErr *typstyle.SyntaxError
			if errors.As(file.Error, &syntaxErr) {
				entry.SyntaxError = &JSONSyntaxError{
					Message: syntaxErr.Message,
					Line:    syntaxErr.Line,
					Column:  syntaxErr.Column,
				}
			}
		}

		if res := file.Result; res != nil {
			entry.Changed = res.Changed
			entry.Written = res.Written
			if res.Diff != nil {
				entry.Additions = res.Diff.Additions
				entry.Deletions = res.Diff.Deletions
				entry.Diff = res.Diff.String()
			}
			for _, blockErr := range res.BlockErrors {
				entry.BlockErrors = append(entry.BlockErrors, blockErr.Error())
			}
		}

		out.Files = append(out.Files, entry)
	}

	stats := result.Stats
	out.Summary = JSONSummary{
		FilesChecked:   stats.FilesDiscovered,
		FilesChanged:   stats.FilesChanged,
		FilesWritten:   stats.FilesWritten,
		FilesUnchanged: stats.FilesUnchanged,
		FilesSkipped:   stats.FilesSkipped,
		FilesErrored:   stats.FilesErrored,
		SyntaxErrors:   stats.SyntaxErrors,
		BlockErrors:    stats.BlockErrors,
	}
	return out
}
