package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/typstyle"
)

// sourceIndent aligns source context under the error line.
const sourceIndent = "    "

// FormatSyntaxError renders a syntax error as
//
//	path:line:col  error  message
//	    source line
//	      ^
func (s *Styles) FormatSyntaxError(path string, err *typstyle.SyntaxError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s%s  %s  %s\n",
		s.FilePath.Render(path),
		s.Location.Render(fmt.Sprintf(":%d:%d", err.Line, err.Column)),
		s.Error.Render("error"),
		s.Message.Render(err.Message),
	)
	if err.Source != "" {
		b.WriteString(s.FormatSourceContext(err.Source, err.Column))
	}
	return b.String()
}

// FormatSourceContext renders a source line with a caret under column.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var b strings.Builder
	b.WriteString(sourceIndent + s.SourceLine.Render(line) + "\n")
	if column > 0 {
		b.WriteString(sourceIndent + strings.Repeat(" ", column-1) + s.Caret.Render("^") + "\n")
	}
	return b.String()
}

// FormatFileError renders a file that could not be processed.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s\n", s.FilePath.Render(path), s.Error.Render("error: "+err.Error()))
}

// FormatFileStatus renders a one-line status for a file.
func (s *Styles) FormatFileStatus(path, status string, ok bool) string {
	style := s.Warning
	if ok {
		style = s.Success
	}
	return fmt.Sprintf("%s %s\n", s.FilePath.Render(path), style.Render(status))
}
