package doc

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type mode uint8

const (
	modeBreak mode = iota
	modeFlat
)

type command struct {
	indent int
	mode   mode
	doc    Doc
}

type renderer struct {
	width  int
	out    strings.Builder
	col    int
	indent int
	// pending defers indentation until text follows a line break, so empty
	// lines never carry trailing blanks.
	pending bool
}

// Render lays d out within width columns. Widths are measured in terminal
// cells, so wide characters count double.
func Render(d Doc, width int) string {
	r := &renderer{width: width}
	stack := []command{{indent: 0, mode: modeBreak, doc: d}}

	for len(stack) > 0 {
		cmd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch d := cmd.doc.(type) {
		case *textDoc:
			r.text(d)
		case *lineDoc:
			if cmd.mode == modeFlat && d.kind != lineHard {
				if d.kind == lineSpace {
					r.text(space.(*textDoc))
				}
				continue
			}
			r.newline(cmd.indent)
		case *concatDoc:
			for i := len(d.parts) - 1; i >= 0; i-- {
				stack = append(stack, command{indent: cmd.indent, mode: cmd.mode, doc: d.parts[i]})
			}
		case *nestDoc:
			stack = append(stack, command{indent: cmd.indent + d.indent, mode: cmd.mode, doc: d.doc})
		case *groupDoc:
			next := command{indent: cmd.indent, mode: modeFlat, doc: d.doc}
			if d.hard() || (cmd.mode == modeBreak && !r.fits(next, stack)) {
				next.mode = modeBreak
			}
			stack = append(stack, next)
		case *ifBreakDoc:
			chosen := d.flat
			if cmd.mode == modeBreak {
				chosen = d.broken
			}
			stack = append(stack, command{indent: cmd.indent, mode: cmd.mode, doc: chosen})
		}
	}
	return r.out.String()
}

func (r *renderer) text(d *textDoc) {
	if r.pending {
		r.out.WriteString(strings.Repeat(" ", r.indent))
		r.col = r.indent
		r.pending = false
	}
	r.out.WriteString(d.s)
	if d.multiline {
		r.col = runewidth.StringWidth(d.s[strings.LastIndexByte(d.s, '\n')+1:])
		return
	}
	r.col += runewidth.StringWidth(d.s)
}

func (r *renderer) newline(indent int) {
	r.out.WriteByte('\n')
	r.col = 0
	r.indent = indent
	r.pending = true
}

// fits reports whether next, laid out flat, fits on the current line
// together with whatever the remaining commands put before their first
// line break.
func (r *renderer) fits(next command, rest []command) bool {
	remaining := r.width - r.col
	if r.pending {
		remaining = r.width - r.indent
	}
	stack := []command{next}
	restIdx := len(rest)

	for remaining >= 0 {
		if len(stack) == 0 {
			if restIdx == 0 {
				return true
			}
			restIdx--
			stack = append(stack, rest[restIdx])
			continue
		}
		cmd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch d := cmd.doc.(type) {
		case *textDoc:
			if d.multiline {
				remaining -= runewidth.StringWidth(d.s[:strings.IndexByte(d.s, '\n')])
				return remaining >= 0
			}
			remaining -= runewidth.StringWidth(d.s)
		case *lineDoc:
			if cmd.mode == modeBreak || d.kind == lineHard {
				return true
			}
			if d.kind == lineSpace {
				remaining--
			}
		case *concatDoc:
			for i := len(d.parts) - 1; i >= 0; i-- {
				stack = append(stack, command{indent: cmd.indent, mode: cmd.mode, doc: d.parts[i]})
			}
		case *nestDoc:
			stack = append(stack, command{indent: cmd.indent + d.indent, mode: cmd.mode, doc: d.doc})
		case *groupDoc:
			m := cmd.mode
			if d.hard() {
				m = modeBreak
			}
			stack = append(stack, command{indent: cmd.indent, mode: m, doc: d.doc})
		case *ifBreakDoc:
			chosen := d.flat
			if cmd.mode == modeBreak {
				chosen = d.broken
			}
			stack = append(stack, command{indent: cmd.indent, mode: cmd.mode, doc: chosen})
		}
	}
	return false
}
