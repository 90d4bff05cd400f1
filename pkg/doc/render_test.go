package doc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gotypstyle/pkg/doc"
)

func list(items ...string) doc.Doc {
	docs := make([]doc.Doc, len(items))
	for i, item := range items {
		docs[i] = doc.Text(item)
	}
	return doc.Group(doc.Concat(
		doc.Text("("),
		doc.Nest(2, doc.Concat(
			doc.SoftLine(),
			doc.Join(doc.Concat(doc.Text(","), doc.Line()), docs),
			doc.IfBreak(doc.Text(","), doc.Nil()),
		)),
		doc.SoftLine(),
		doc.Text(")"),
	))
}

func TestRenderGroupFitsFlat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "(a, b, c)", doc.Render(list("a", "b", "c"), 80))
}

func TestRenderGroupBreaks(t *testing.T) {
	t.Parallel()

	got := doc.Render(list("alpha", "beta", "gamma"), 10)
	assert.Equal(t, "(\n  alpha,\n  beta,\n  gamma,\n)", got)
}

func TestRenderExactWidthFits(t *testing.T) {
	t.Parallel()

	// "(a, b)" is six columns wide.
	assert.Equal(t, "(a, b)", doc.Render(list("a", "b"), 6))
	assert.Equal(t, "(\n  a,\n  b,\n)", doc.Render(list("a", "b"), 5))
}

func TestRenderTrailingContentCountsTowardsFit(t *testing.T) {
	t.Parallel()

	d := doc.Concat(list("a", "b"), doc.Text(" + something long"))
	assert.Equal(t, "(\n  a,\n  b,\n) + something long", doc.Render(d, 20))
}

func TestRenderHardLineBreaksEnclosingGroup(t *testing.T) {
	t.Parallel()

	d := doc.Group(doc.Concat(doc.Text("a"), doc.Line(), doc.Text("b"), doc.HardLine(), doc.Text("c")))
	assert.Equal(t, "a\nb\nc", doc.Render(d, 80))
	assert.True(t, doc.HasHardBreak(d))
}

func TestRenderMultilineTextIsVerbatim(t *testing.T) {
	t.Parallel()

	d := doc.Nest(4, doc.Concat(
		doc.Text("x"),
		doc.HardLine(),
		doc.Text("line one\nline two"),
		doc.HardLine(),
		doc.Text("y"),
	))
	assert.Equal(t, "x\n    line one\nline two\n    y", doc.Render(d, 80))
}

func TestRenderMultilineTextForcesBreak(t *testing.T) {
	t.Parallel()

	d := doc.Group(doc.Concat(doc.Text("a"), doc.Line(), doc.Text("b\nc")))
	assert.Equal(t, "a\nb\nc", doc.Render(d, 80))
}

func TestRenderBlankLinesCarryNoIndent(t *testing.T) {
	t.Parallel()

	d := doc.Nest(2, doc.Concat(doc.Text("a"), doc.HardLines(2), doc.Text("b")))
	assert.Equal(t, "a\n\n  b", doc.Render(d, 80))
}

func TestRenderWideCharacters(t *testing.T) {
	t.Parallel()

	d := doc.Group(doc.Concat(doc.Text("中文"), doc.Line(), doc.Text("ab")))
	assert.Equal(t, "中文 ab", doc.Render(d, 7))
	assert.Equal(t, "中文\nab", doc.Render(d, 6))
}

func TestRenderIfBreak(t *testing.T) {
	t.Parallel()

	d := doc.Group(doc.Concat(
		doc.IfBreak(doc.Text("("), doc.Nil()),
		doc.SoftLine(),
		doc.Text("body"),
		doc.IfBreak(doc.Text(")"), doc.Nil()),
	))
	assert.Equal(t, "body", doc.Render(d, 80))
	assert.Equal(t, "(\nbody)", doc.Render(d, 3))
}

func TestNilDocs(t *testing.T) {
	t.Parallel()

	assert.True(t, doc.IsNil(doc.Nil()))
	assert.True(t, doc.IsNil(doc.Text("")))
	assert.True(t, doc.IsNil(doc.Concat(doc.Nil(), doc.Nil())))
	assert.True(t, doc.IsNil(doc.Group(doc.Nil())))
	assert.False(t, doc.IsNil(doc.Text("x")))
	assert.Empty(t, doc.Render(doc.Nil(), 80))
}

func TestJoin(t *testing.T) {
	t.Parallel()

	d := doc.Join(doc.Text(", "), []doc.Doc{doc.Text("a"), doc.Text("b"), doc.Text("c")})
	assert.Equal(t, "a, b, c", doc.Render(d, 80))
	assert.True(t, doc.IsNil(doc.Join(doc.Text(", "), nil)))
}

func TestEncloseAndRepeat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[x]", doc.Render(doc.Enclose("[", doc.Text("x"), "]"), 80))
	assert.Equal(t, "'''", doc.Render(doc.Repeat("'", 3), 80))
	assert.True(t, doc.IsNil(doc.Repeat("'", 0)))
}
