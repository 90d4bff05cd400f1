package reporter

import (
	"bufio"

	"github.com/yaklabco/gotypstyle/internal/ui/pretty"
	"github.com/yaklabco/gotypstyle/pkg/runner"
)

// console is the state shared by the reporters that write for a person.
type console struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

func newConsole(opts Options) console {
	return console{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// flush writes buffered output, keeping the first error in *errp.
func (c *console) flush(errp *error) {
	if err := c.bw.Flush(); *errp == nil {
		*errp = err
	}
}

func (c *console) print(s string) {
	_, _ = c.bw.WriteString(s)
}

func (c *console) println(s string) {
	c.print(s)
	_ = c.bw.WriteByte('\n')
}

func (c *console) path(file runner.FileOutcome) string {
	return runner.DisplayPath(file.Path, c.opts.WorkingDir)
}

// empty reports whether result has no files, noting so when summaries are
// enabled.
func (c *console) empty(result *runner.Result) bool {
	if result != nil && len(result.Files) > 0 {
		return false
	}
	if c.opts.ShowSummary {
		c.println(c.styles.Dim.Render("No files to format."))
	}
	return true
}
