// Package reporter writes the results of a formatting run.
package reporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/config"
	"github.com/yaklabco/gotypstyle/pkg/runner"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Reporter writes a run result.
type Reporter interface {
	// Report writes output for result and returns the number of files
	// that need attention: changed files in check mode and failed files.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Options configures reporters.
type Options struct {
	// Writer receives the report. Nil means os.Stdout.
	Writer io.Writer

	Format config.OutputFormat

	// Color is "auto", "always" or "never".
	Color string

	// Check reports changed files as needing formatting instead of
	// formatted.
	Check bool

	ShowSummary bool

	// Compact disables JSON indentation.
	Compact bool

	// WorkingDir shortens displayed paths. Empty keeps them as given.
	WorkingDir string
}

// DefaultOptions returns the default reporter options.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      config.OutputText,
		Color:       string(config.ColorAuto),
		ShowSummary: true,
	}
}

// ParseFormat parses an output format name. Empty selects text.
func ParseFormat(name string) (config.OutputFormat, error) {
	if name == "" {
		return config.OutputText, nil
	}
	f := config.OutputFormat(strings.ToLower(name))
	if !f.IsValid() {
		return "", fmt.Errorf("unknown format %q; valid formats: text, json, diff, summary, table", name)
	}
	return f, nil
}

// New creates the reporter for opts.Format.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Format == "" {
		opts.Format = config.OutputText
	}

	switch opts.Format {
	case config.OutputText:
		return NewTextReporter(opts), nil
	case config.OutputJSON:
		return NewJSONReporter(opts), nil
	case config.OutputDiff:
		return NewDiffReporter(opts), nil
	case config.OutputSummary:
		return NewSummaryReporter(opts), nil
	case config.OutputTable:
		return NewTableReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// attention counts files a run should fail on.
func attention(result *runner.Result, check bool) int {
	if result == nil {
		return 0
	}
	n := result.Stats.FilesErrored + result.Stats.BlockErrors
	if check {
		n += result.Stats.FilesChanged
	}
	return n
}
