package reporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gotypstyle/pkg/diff"
	"github.com/yaklabco/gotypstyle/pkg/runner"
)

// DiffReporter writes a git-style unified diff for every changed file,
// followed by a diffstat line.
type DiffReporter struct {
	console
}

// NewDiffReporter creates a diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{console: newConsole(opts)}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer r.flush(&err)

	if result == nil {
		return 0, nil
	}

	var files, additions, deletions int
	for _, file := range result.Files {
		if file.Error != nil {
			r.print(r.styles.FormatFileError(r.path(file), file.Error))
			continue
		}
		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}
		d := file.Result.Diff
		files++
		additions += d.Additions
		deletions += d.Deletions
		r.diff(r.path(file), d)
	}

	if files > 0 && r.opts.ShowSummary {
		r.diffstat(files, additions, deletions)
	}
	return attention(result, r.opts.Check), nil
}

func (r *DiffReporter) diff(path string, d *diff.Diff) {
	r.println(r.styles.DiffHeader.Render("diff --git a/" + path + " b/" + path))
	r.println(r.styles.DiffRemove.Render("--- a/" + path))
	r.println(r.styles.DiffAdd.Render("+++ b/" + path))

	for _, hunk := range d.Hunks {
		r.println(r.styles.DiffHunk.Render(hunk.Header()))
		for _, line := range hunk.Lines {
			r.println(r.lineStyle(line.Kind).Render(line.Prefix() + line.Content))
		}
	}
	r.println("")
}

func (r *DiffReporter) lineStyle(kind diff.Kind) lipgloss.Style {
	switch kind {
	case diff.Add:
		return r.styles.DiffAdd
	case diff.Remove:
		return r.styles.DiffRemove
	default:
		return r.styles.DiffContext
	}
}

// diffstat mirrors the last line of git diff --stat.
func (r *DiffReporter) diffstat(files, additions, deletions int) {
	parts := []string{count(files, "file") + " changed"}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(count(additions, "insertion")+"(+)"))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(count(deletions, "deletion")+"(-)"))
	}
	r.println(strings.Join(parts, ", "))
}

func count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
