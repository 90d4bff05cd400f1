package attr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypstyle/pkg/attr"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

func only(t *testing.T, root *syntax.Node, kind syntax.Kind) *syntax.Node {
	t.Helper()

	nodes := syntax.FindByKind(root, kind)
	require.Len(t, nodes, 1, "expected exactly one %s", kind)
	return nodes[0]
}

func TestMultiline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		kind syntax.Kind
		want bool
	}{
		{"flat args", "#f(a, b)", syntax.KindArgs, false},
		{"broken args", "#f(\n  a,\n  b,\n)", syntax.KindArgs, true},
		{"line break before closing paren", "#f(a, b\n)", syntax.KindArgs, true},
		{"newline only inside content block", "#f(a)[\nx\n]", syntax.KindArgs, false},
		{"newline only inside nested item", "#f(g(\n  x\n))", syntax.KindArgs, false},
		{"broken array", "#(\n  1, 2)", syntax.KindArray, true},
		{"broken dict", "#(a: 1,\n b: 2)", syntax.KindDict, true},
		{"inline equation", "$a + b$", syntax.KindEquation, false},
		{"block equation across lines", "$ a\n  + b $", syntax.KindEquation, true},
		{"code block", "#{\n  1\n}", syntax.KindCodeBlock, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := syntax.Parse(tt.src)
			store := attr.New(root)
			nodes := syntax.FindByKind(root, tt.kind)
			if len(nodes) == 0 {
				assert.False(t, tt.want, "no %s node found", tt.kind)
				return
			}
			assert.Equal(t, tt.want, store.IsMultiline(nodes[0]))
		})
	}
}

func TestSentinelDisablesNextSibling(t *testing.T) {
	t.Parallel()

	src := "// @typstyle off\n#f(a,   b)\n#g(a,   b)\n"
	root := syntax.Parse(src)
	store := attr.New(root)

	calls := syntax.FindByKind(root, syntax.KindFuncCall)
	require.Len(t, calls, 2)
	assert.True(t, store.IsFormatDisabled(calls[0]))
	assert.False(t, store.IsFormatDisabled(calls[1]))

	comment := only(t, root, syntax.KindLineComment)
	assert.True(t, store.IsFormatDisabled(comment))
	assert.False(t, store.IsFormatDisabled(root))
}

func TestSentinelDisablesDescendants(t *testing.T) {
	t.Parallel()

	root := syntax.Parse("/* @typstyle off */ #f(a, [*b*])")
	store := attr.New(root)

	for _, kind := range []syntax.Kind{syntax.KindArgs, syntax.KindContentBlock, syntax.KindStrong} {
		assert.True(t, store.IsFormatDisabled(only(t, root, kind)), kind.String())
	}
}

func TestSentinelInsideCode(t *testing.T) {
	t.Parallel()

	src := "#{\n  let a = 1\n  // @typstyle off\n  let x   =   1\n  let y = 2\n}\n"
	root := syntax.Parse(src)
	store := attr.New(root)

	lets := syntax.FindByKind(root, syntax.KindLetBinding)
	require.Len(t, lets, 3)
	assert.False(t, store.IsFormatDisabled(lets[0]))
	assert.True(t, store.IsFormatDisabled(lets[1]))
	assert.False(t, store.IsFormatDisabled(lets[2]))
	assert.False(t, store.IsFormatDisabled(only(t, root, syntax.KindCodeBlock)))
}

func TestOrdinaryCommentDoesNotDisableContainers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		kind syntax.Kind
	}{
		{"markup", "// note\nText", syntax.KindMarkup},
		{"args", "#f(a, /* c */ b)", syntax.KindArgs},
		{"array", "#(1, // one\n 2)", syntax.KindArray},
		{"dict", "#(a: 1, // c\n b: 2)", syntax.KindDict},
		{"code", "#{\n  1 // c\n  2\n}", syntax.KindCode},
		{"content block", "#[a // c\n b]", syntax.KindContentBlock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := syntax.Parse(tt.src)
			store := attr.New(root)
			for _, node := range syntax.FindByKind(root, tt.kind) {
				assert.False(t, store.IsFormatDisabled(node))
			}
		})
	}
}

func TestCommentInsideExpressionDisablesIt(t *testing.T) {
	t.Parallel()

	root := syntax.Parse("#let x = /* keep */ 1\n#let y = 2")
	store := attr.New(root)

	lets := syntax.FindByKind(root, syntax.KindLetBinding)
	require.Len(t, lets, 2)
	assert.True(t, store.IsFormatDisabled(lets[0]))
	assert.False(t, store.IsFormatDisabled(lets[1]))
}

func TestTwoDimensionalArgsAreDisabled(t *testing.T) {
	t.Parallel()

	root := syntax.Parse("$mat(1, 2; 3, 4) + vec(1, 2)$")
	store := attr.New(root)

	args := syntax.FindByKind(root, syntax.KindArgs)
	require.Len(t, args, 2)
	assert.True(t, store.IsFormatDisabled(args[0]))
	assert.False(t, store.IsFormatDisabled(args[1]))

	calls := syntax.FindByKind(root, syntax.KindFuncCall)
	require.Len(t, calls, 2)
	assert.False(t, store.IsFormatDisabled(calls[0]))
}

func TestCommentedFieldAccessIsUnformattable(t *testing.T) {
	t.Parallel()

	root := syntax.Parse("#{\n  a\n  // step\n  .b\n}\n#a.b.c")
	store := attr.New(root)

	accesses := syntax.FindByKind(root, syntax.KindFieldAccess)
	require.Len(t, accesses, 3)
	assert.True(t, store.IsUnformattable(accesses[0]))
	assert.False(t, store.IsFormatDisabled(accesses[0]))
	assert.False(t, store.IsUnformattable(accesses[1]))
	assert.False(t, store.IsUnformattable(accesses[2]))
}

func TestUnknownNodesReportZeroAttrs(t *testing.T) {
	t.Parallel()

	store := attr.New(syntax.Parse("#f(\n a)"))
	other := syntax.Parse("#f(\n a)\n#g(\n b)")
	calls := syntax.FindByKind(other, syntax.KindFuncCall)
	require.Len(t, calls, 2)

	assert.Equal(t, attr.Attrs{}, store.Get(calls[1]))
	assert.Equal(t, attr.Attrs{}, store.Get(nil))
	assert.Equal(t, attr.Attrs{}, attr.New(nil).Get(calls[0]))
}
