// Package diff computes line-based unified diffs between a document and its
// formatted form.
package diff

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// Kind classifies a diff line.
type Kind int

const (
	Context Kind = iota
	Add
	Remove
)

// Line is one line of a hunk, without its prefix.
type Line struct {
	Kind    Kind
	Content string
}

// Hunk is a contiguous region of change with surrounding context. Starts
// are 1-based line numbers.
type Hunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []Line
}

// Diff is a unified diff of one file.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// Compute returns the diff between original and modified, or nil when the
// two have the same lines.
func Compute(path, original, modified string) *Diff {
	ops := lineOps(splitLines(original), splitLines(modified))

	d := &Diff{Path: path}
	for _, op := range ops {
		switch op.Kind {
		case Add:
			d.Additions++
		case Remove:
			d.Deletions++
		}
	}
	if d.Additions == 0 && d.Deletions == 0 {
		return nil
	}
	d.Hunks = hunks(ops)
	return d
}

// HasChanges reports whether the diff contains any hunks.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff in unified format with ---/+++ headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range d.Hunks {
		b.WriteString(h.Header())
		b.WriteByte('\n')
		for _, line := range h.Lines {
			b.WriteString(line.Prefix())
			b.WriteString(line.Content)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Header returns the "@@ -a,b +c,d @@" line of the hunk.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
}

// Prefix returns the unified diff marker of the line.
func (l Line) Prefix() string {
	switch l.Kind {
	case Add:
		return "+"
	case Remove:
		return "-"
	default:
		return " "
	}
}

// splitLines splits s into lines, dropping the empty string after a final
// line feed.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// lineOps aligns the two line slices through their longest common
// subsequence. Removals are emitted before additions at each change.
func lineOps(a, b []string) []Line {
	// lcs[i][j] is the LCS length of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	ops := make([]Line, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			ops = append(ops, Line{Context, a[i]})
			i++
			j++
		case j == len(b) || (i < len(a) && lcs[i+1][j] >= lcs[i][j+1]):
			ops = append(ops, Line{Remove, a[i]})
			i++
		default:
			ops = append(ops, Line{Add, b[j]})
			j++
		}
	}
	return ops
}

// hunks groups changes that are at most 2*contextLines apart.
func hunks(ops []Line) []Hunk {
	var out []Hunk
	oLine, mLine := 1, 1
	origAt := make([]int, len(ops))
	modAt := make([]int, len(ops))
	for k, op := range ops {
		origAt[k], modAt[k] = oLine, mLine
		if op.Kind != Add {
			oLine++
		}
		if op.Kind != Remove {
			mLine++
		}
	}

	k := 0
	for k < len(ops) {
		if ops[k].Kind == Context {
			k++
			continue
		}

		start := max(0, k-contextLines)
		end := k
		gap := 0
		for end < len(ops) && gap <= 2*contextLines {
			if ops[end].Kind == Context {
				gap++
			} else {
				gap = 0
			}
			end++
		}
		// end overshoots by the trailing run of context; keep contextLines of it.
		end = min(len(ops), end-gap+contextLines)

		h := Hunk{OriginalStart: origAt[start], ModifiedStart: modAt[start]}
		for _, op := range ops[start:end] {
			h.Lines = append(h.Lines, op)
			if op.Kind != Add {
				h.OriginalCount++
			}
			if op.Kind != Remove {
				h.ModifiedCount++
			}
		}
		out = append(out, h)
		k = end
	}
	return out
}
