package pretty

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/gotypstyle/pkg/runner"
)

const (
	colFile = iota
	colStatus
	colChanges
)

// FileTable renders one row per processed file with its status and the
// size of its diff. Status cells are colored by outcome.
func (s *Styles) FileTable(result *runner.Result, workingDir string) string {
	statuses := make([]string, len(result.Files))
	rows := make([][]string, len(result.Files))
	for i, file := range result.Files {
		statuses[i] = file.Status()
		rows[i] = []string{runner.DisplayPath(file.Path, workingDir), statuses[i], changeCount(file)}
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.TableBorder).
		Headers("FILE", "STATUS", "CHANGES").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.TableHeader.Padding(0, 1)
			case col == colStatus:
				return s.statusStyle(statuses[row]).Padding(0, 1)
			case col == colChanges:
				return cell.Align(lipgloss.Right)
			default:
				return cell
			}
		})
	return t.Render() + "\n"
}

func (s *Styles) statusStyle(status string) lipgloss.Style {
	switch status {
	case runner.StatusSyntaxError, runner.StatusError:
		return s.Failure
	case runner.StatusNeedsFormatting:
		return s.Warning
	case runner.StatusFormatted:
		return s.Success
	default:
		return s.Dim
	}
}

// changeCount is "+A -D" for a file with a non-empty diff.
func changeCount(file runner.FileOutcome) string {
	if file.Result == nil || file.Result.Diff == nil {
		return ""
	}
	d := file.Result.Diff
	if d.Additions == 0 && d.Deletions == 0 {
		return ""
	}
	return fmt.Sprintf("+%d -%d", d.Additions, d.Deletions)
}
