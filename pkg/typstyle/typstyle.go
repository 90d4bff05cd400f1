// Package typstyle formats Typst documents.
//
// The document is parsed, classified by the attribute store, converted to
// a pretty-printing document and rendered to the configured width. A
// document with syntax errors is never formatted.
package typstyle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gotypstyle/pkg/attr"
	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/pretty"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// ErrSyntax is returned when the document has syntax errors.
var ErrSyntax = errors.New("the document has syntax errors")

// SyntaxError locates the first syntax error of a document. It matches
// ErrSyntax with errors.Is.
type SyntaxError struct {
	Message string
	Offset  int

	// Line and Column are 1-based. Column counts display cells.
	Line   int
	Column int

	// Source is the text of the offending line.
	Source string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %s at line %d, column %d", ErrSyntax, e.Message, e.Line, e.Column)
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func newSyntaxError(src string, bad *syntax.Node) *SyntaxError {
	offset := min(bad.Offset, len(src))
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	end := strings.IndexByte(src[offset:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += offset
	}
	return &SyntaxError{
		Message: bad.Message,
		Offset:  offset,
		Line:    syntax.Line(src, offset),
		Column:  runewidth.StringWidth(src[start:offset]) + 1,
		Source:  src[start:end],
	}
}

// Options configures a Formatter.
type Options struct {
	// MaxWidth is the target line width. Zero selects the default.
	MaxWidth int

	// BlankLinesUpperBound caps runs of blank lines. Negative values
	// select the default.
	BlankLinesUpperBound int
}

// DefaultOptions returns the default formatting options.
func DefaultOptions() Options {
	return Options{
		MaxWidth:             pretty.DefaultMaxWidth,
		BlankLinesUpperBound: pretty.DefaultBlankLinesUpperBound,
	}
}

// Formatter formats documents with fixed options. A Formatter holds no
// per-document state and is safe for concurrent use.
type Formatter struct {
	opts Options
}

// New creates a formatter, filling unset options with defaults.
func New(opts Options) *Formatter {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = pretty.DefaultMaxWidth
	}
	if opts.BlankLinesUpperBound < 0 {
		opts.BlankLinesUpperBound = pretty.DefaultBlankLinesUpperBound
	}
	return &Formatter{opts: opts}
}

// Options returns the formatter's options.
func (f *Formatter) Options() Options {
	return f.opts
}

// FormatContent formats src. It returns a *SyntaxError when src does not
// parse.
func (f *Formatter) FormatContent(src string) (string, error) {
	return f.FormatTree(syntax.Parse(src), src)
}

// FormatTree formats an already parsed document. src is the text root was
// parsed from and is used to locate syntax errors.
func (f *Formatter) FormatTree(root *syntax.Node, src string) (string, error) {
	if bad := root.FirstError(); bad != nil {
		return "", newSyntaxError(src, bad)
	}

	store := attr.New(root)
	printer := pretty.New(pretty.Config{
		MaxWidth:             f.opts.MaxWidth,
		BlankLinesUpperBound: f.opts.BlankLinesUpperBound,
	}, store)
	rendered := doc.Render(printer.Convert(root), f.opts.MaxWidth)
	return StripTrailingWhitespace(rendered), nil
}

// FormatContent formats src with default options.
func FormatContent(src string) (string, error) {
	return New(DefaultOptions()).FormatContent(src)
}

// FormatWithWidth formats src to the given width. A document that does not
// parse is returned unchanged.
func FormatWithWidth(src string, width int) string {
	opts := DefaultOptions()
	opts.MaxWidth = width
	out, err := New(opts).FormatContent(src)
	if err != nil {
		return src
	}
	return out
}

// StripTrailingWhitespace removes spaces and tabs at the end of every line
// and ends the text with exactly one line feed.
func StripTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}
