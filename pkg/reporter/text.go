package reporter

import (
	"context"
	"errors"

	"github.com/yaklabco/gotypstyle/pkg/runner"
	"github.com/yaklabco/gotypstyle/pkg/typstyle"
)

// TextReporter writes a line for every file that was rewritten, skipped,
// failed, or in check mode needs formatting.
type TextReporter struct {
	console
}

// NewTextReporter creates a text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{console: newConsole(opts)}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer r.flush(&err)

	if r.empty(result) {
		return 0, nil
	}
	for _, file := range result.Files {
		r.file(file)
	}
	if r.opts.ShowSummary {
		r.print(r.styles.FormatSummaryOneLine(result.Stats))
	}
	return attention(result, r.opts.Check), nil
}

func (r *TextReporter) file(file runner.FileOutcome) {
	path := r.path(file)

	var syntaxErr *typstyle.SyntaxError
	switch {
	case errors.As(file.Error, &syntaxErr):
		r.print(r.styles.FormatSyntaxError(path, syntaxErr))
		return
	case file.Error != nil:
		r.print(r.styles.FormatFileError(path, file.Error))
		return
	case file.Result == nil:
		return
	}

	res := file.Result
	for _, blockErr := range res.BlockErrors {
		r.print(r.styles.FormatFileError(path, blockErr))
	}

	status := file.Status()
	if status == runner.StatusFormatted || status == runner.StatusSkipped ||
		(status == runner.StatusNeedsFormatting && r.opts.Check) {
		r.print(r.styles.FormatFileStatus(path, res.Summary(), status == runner.StatusFormatted))
	}
}
