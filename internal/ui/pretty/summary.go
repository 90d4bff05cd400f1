package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + pluralForm
}

// FormatSummaryOneLine renders run statistics on one line, for example
// "2 files need formatting, 1 syntax error (12 files checked)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	checked := s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(stats.FilesDiscovered, "file", "files")))

	var parts []string
	if n := stats.FilesWritten; n > 0 {
		parts = append(parts, s.Success.Render(plural(n, "file", "files")+" formatted"))
	}
	if n := stats.FilesChanged - stats.FilesWritten; n > 0 {
		verb := " need formatting"
		if n == 1 {
			verb = " needs formatting"
		}
		parts = append(parts, s.Warning.Render(plural(n, "file", "files")+verb))
	}
	if n := stats.SyntaxErrors; n > 0 {
		parts = append(parts, s.Error.Render(plural(n, "syntax error", "syntax errors")))
	}
	if n := stats.FilesErrored - stats.SyntaxErrors; n > 0 {
		parts = append(parts, s.Error.Render(plural(n, "file", "files")+" failed"))
	}
	if n := stats.BlockErrors; n > 0 {
		parts = append(parts, s.Error.Render(plural(n, "block", "blocks")+" skipped"))
	}
	if n := stats.FilesSkipped; n > 0 {
		parts = append(parts, s.Warning.Render(plural(n, "file", "files")+" modified during run"))
	}

	if len(parts) == 0 {
		return s.Success.Render("All files formatted") + checked + "\n"
	}
	return strings.Join(parts, ", ") + checked + "\n"
}

// FormatSummary renders run statistics as a block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	b.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row := func(label string, value int, style func(...string) string) {
		fmt.Fprintf(&b, "  %-18s %s\n", label+":", style(strconv.Itoa(value)))
	}

	row("Files checked", stats.FilesDiscovered, s.SummaryValue.Render)
	row("Unchanged", stats.FilesUnchanged, s.SummaryValue.Render)
	if stats.FilesChanged > 0 {
		row("Changed", stats.FilesChanged, s.Warning.Render)
	}
	if stats.FilesWritten > 0 {
		row("Written", stats.FilesWritten, s.Success.Render)
	}
	if stats.FilesSkipped > 0 {
		row("Skipped", stats.FilesSkipped, s.Warning.Render)
	}
	if stats.SyntaxErrors > 0 {
		row("Syntax errors", stats.SyntaxErrors, s.Error.Render)
	}
	if other := stats.FilesErrored - stats.SyntaxErrors; other > 0 {
		row("Other errors", other, s.Error.Render)
	}
	if stats.BlockErrors > 0 {
		row("Blocks skipped", stats.BlockErrors, s.Error.Render)
	}
	if stats.CacheHits > 0 {
		row("Cache hits", stats.CacheHits, s.Dim.Render)
	}

	b.WriteString("\n")
	if stats.FilesErrored == 0 && stats.FilesChanged == stats.FilesWritten && stats.BlockErrors == 0 {
		b.WriteString(s.Success.Render("Formatting passed") + "\n")
	} else {
		b.WriteString(s.Failure.Render("Formatting failed") + "\n")
	}
	return b.String()
}
