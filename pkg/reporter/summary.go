package reporter

import (
	"context"

	"github.com/yaklabco/gotypstyle/pkg/runner"
)

// SummaryReporter writes only the run statistics.
type SummaryReporter struct {
	console
}

// NewSummaryReporter creates a summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{console: newConsole(opts)}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer r.flush(&err)

	var stats runner.Stats
	if result != nil {
		stats = result.Stats
	}
	r.print(r.styles.FormatSummary(stats))
	return attention(result, r.opts.Check), nil
}

// TableReporter writes a table with a row per processed file.
type TableReporter struct {
	console
}

// NewTableReporter creates a table reporter.
func NewTableReporter(opts Options) *TableReporter {
	return &TableReporter{console: newConsole(opts)}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer r.flush(&err)

	if r.empty(result) {
		return 0, nil
	}
	r.print(r.styles.FileTable(result, r.opts.WorkingDir))
	if r.opts.ShowSummary {
		r.print(r.styles.FormatSummaryOneLine(result.Stats))
	}
	return attention(result, r.opts.Check), nil
}
