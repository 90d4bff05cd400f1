// Package edit applies byte-range replacements to a document.
package edit

import (
	"bytes"
	"fmt"
	"sort"
)

// Edit replaces the bytes [Start, End) with NewText.
type Edit struct {
	Start   int
	End     int
	NewText string
}

// RangeError describes an edit outside the content.
type RangeError struct {
	Edit   Edit
	Length int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d] for content of length %d", e.Edit.Start, e.Edit.End, e.Length)
}

// ConflictError describes two overlapping edits.
type ConflictError struct {
	First, Second Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.Start, e.First.End, e.Second.Start, e.Second.End)
}

// Builder accumulates edits against one document.
type Builder struct {
	edits []Edit
}

// Replace adds an edit replacing [start, end) with text.
func (b *Builder) Replace(start, end int, text string) {
	b.edits = append(b.edits, Edit{Start: start, End: end, NewText: text})
}

// Len returns the number of accumulated edits.
func (b *Builder) Len() int {
	return len(b.edits)
}

// Apply applies the accumulated edits to content.
func (b *Builder) Apply(content []byte) ([]byte, error) {
	return Apply(content, b.edits)
}

// Apply validates edits, orders them by position and applies them. Edits
// must lie within content and must not overlap.
func Apply(content []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return content, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(content) {
			return nil, &RangeError{Edit: e, Length: len(content)}
		}
		if i > 0 && e.Start < sorted[i-1].End {
			return nil, &ConflictError{First: sorted[i-1], Second: e}
		}
	}

	var out bytes.Buffer
	out.Grow(len(content))
	cursor := 0
	for _, e := range sorted {
		out.Write(content[cursor:e.Start])
		out.WriteString(e.NewText)
		cursor = e.End
	}
	out.Write(content[cursor:])
	return out.Bytes(), nil
}
