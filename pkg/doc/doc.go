// Package doc implements a pretty-printing document algebra. A Doc
// describes text together with the places where it may be broken across
// lines; Render picks the layout that fits a target width.
package doc

import (
	"strings"
)

// Doc is a pretty-printing document. Docs are immutable once built.
type Doc interface {
	// hard reports whether the document contains a forced line break,
	// which also forces every enclosing group to break.
	hard() bool
}

type textDoc struct {
	s         string
	multiline bool
}

func (d *textDoc) hard() bool { return d.multiline }

type lineKind uint8

const (
	lineSoft  lineKind = iota // "" when flat
	lineSpace                 // " " when flat
	lineHard                  // always breaks
)

type lineDoc struct {
	kind lineKind
}

func (d *lineDoc) hard() bool { return d.kind == lineHard }

type concatDoc struct {
	parts  []Doc
	forced bool
}

func (d *concatDoc) hard() bool { return d.forced }

type nestDoc struct {
	indent int
	doc    Doc
}

func (d *nestDoc) hard() bool { return d.doc.hard() }

type groupDoc struct {
	doc Doc
}

func (d *groupDoc) hard() bool { return d.doc.hard() }

type ifBreakDoc struct {
	broken Doc
	flat   Doc
}

func (d *ifBreakDoc) hard() bool { return d.flat.hard() }

//nolint:gochecknoglobals // Immutable shared leaves.
var (
	nilDoc   Doc = &concatDoc{}
	softLine Doc = &lineDoc{kind: lineSoft}
	line     Doc = &lineDoc{kind: lineSpace}
	hardLine Doc = &lineDoc{kind: lineHard}
	space    Doc = &textDoc{s: " "}
)

// Nil returns the empty document.
func Nil() Doc { return nilDoc }

// Text returns a literal. Text containing a line feed is emitted verbatim
// without re-indentation and forces enclosing groups to break.
func Text(s string) Doc {
	if s == "" {
		return nilDoc
	}
	if s == " " {
		return space
	}
	return &textDoc{s: s, multiline: strings.Contains(s, "\n")}
}

// Space returns a single space.
func Space() Doc { return space }

// Line is a space when its group is flat and a line break otherwise.
func Line() Doc { return line }

// SoftLine is nothing when its group is flat and a line break otherwise.
func SoftLine() Doc { return softLine }

// HardLine always breaks.
func HardLine() Doc { return hardLine }

// Concat joins documents in sequence.
func Concat(parts ...Doc) Doc {
	out := make([]Doc, 0, len(parts))
	forced := false
	for _, part := range parts {
		if part == nil || IsNil(part) {
			continue
		}
		forced = forced || part.hard()
		out = append(out, part)
	}
	switch len(out) {
	case 0:
		return nilDoc
	case 1:
		return out[0]
	}
	return &concatDoc{parts: out, forced: forced}
}

// Nest indents every line break inside d by indent columns.
func Nest(indent int, d Doc) Doc {
	if IsNil(d) {
		return d
	}
	return &nestDoc{indent: indent, doc: d}
}

// Group lays d out flat when it fits on the current line, broken
// otherwise.
func Group(d Doc) Doc {
	if IsNil(d) {
		return d
	}
	return &groupDoc{doc: d}
}

// IfBreak picks broken when the enclosing group breaks and flat otherwise.
func IfBreak(broken, flat Doc) Doc {
	if broken == nil {
		broken = nilDoc
	}
	if flat == nil {
		flat = nilDoc
	}
	return &ifBreakDoc{broken: broken, flat: flat}
}

// Join places sep between consecutive documents.
func Join(sep Doc, docs []Doc) Doc {
	parts := make([]Doc, 0, 2*len(docs))
	for i, d := range docs {
		if i > 0 {
			parts = append(parts, sep)
		}
		parts = append(parts, d)
	}
	return Concat(parts...)
}

// HardLines returns n consecutive forced line breaks.
func HardLines(n int) Doc {
	parts := make([]Doc, n)
	for i := range parts {
		parts[i] = hardLine
	}
	return Concat(parts...)
}

// IsNil reports whether d renders to nothing in every layout.
func IsNil(d Doc) bool {
	c, ok := d.(*concatDoc)
	return ok && len(c.parts) == 0
}

// HasHardBreak reports whether d always renders across several lines.
func HasHardBreak(d Doc) bool {
	return d.hard()
}

// Enclose wraps d between open and closing.
func Enclose(open string, d Doc, closing string) Doc {
	return Concat(Text(open), d, Text(closing))
}

// Repeat returns s repeated n times as a single text.
func Repeat(s string, n int) Doc {
	if n <= 0 {
		return nilDoc
	}
	return Text(strings.Repeat(s, n))
}
