package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotypstyle/pkg/attr"
	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/pretty"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

func render(t *testing.T, root *syntax.Node, cfg pretty.Config) string {
	t.Helper()

	require.False(t, root.Erroneous(), "input has syntax errors: %v", root.FirstError())
	p := pretty.New(cfg, attr.New(root))
	return doc.Render(p.Convert(root), cfg.MaxWidth)
}

func formatMarkup(t *testing.T, src string, width int) string {
	t.Helper()

	cfg := pretty.DefaultConfig()
	cfg.MaxWidth = width
	return render(t, syntax.Parse(src), cfg)
}

func formatCode(t *testing.T, src string) string {
	t.Helper()

	return render(t, syntax.ParseCode(src), pretty.DefaultConfig())
}

func TestFlowSpacing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"let binding", "let   x=1", "let x = 1"},
		{"named arguments", "f(a:1,b:  2)", "f(a: 1, b: 2)"},
		{"spread argument", "f(..  args)", "f(..args)"},
		{"unary minus", "-  x", "-x"},
		{"unary not", "not   x", "not x"},
		{"not in", "a  not  in b", "a not in b"},
		{"binary precedence", "1+2*3", "1 + 2 * 3"},
		{"assignment", "x+=1", "x += 1"},
		{"show rule", "show heading :  it=>it", "show heading: it => it"},
		{"set rule with condition", "set text(red) if  x", "set text(red) if x"},
		{"for loop", "for (k,v) in d {k}", "for (k, v) in d { k }"},
		{"while loop", "while x<3 {x+=1}", "while x < 3 { x += 1 }"},
		{"conditional", "if a {b} else {c}", "if a { b } else { c }"},
		{"destructuring assignment", "(a,b)=(b,a)", "(a, b) = (b, a)"},
		{"context", "context  text.lang", "context text.lang"},
		{"include", "include  \"ch.typ\"", "include \"ch.typ\""},
		{"destructuring let", "let (a,..rest)=arr", "let (a, ..rest) = arr"},
		{"named closure", "let f(x,y)=x*y", "let f(x, y) = x * y"},
		{"anonymous closure", "x=>x+1", "x => x + 1"},
		{"parenthesized params", "(x)=>x", "(x) => x"},
		{"keyed dictionary", "(\"a b\":1)", "(\"a b\": 1)"},
		{"empty dictionary", "(:)", "(:)"},
		{"single element array", "(1,)", "(1,)"},
		{"nested parentheses", "((a))", "((a))"},
		{"empty code block", "{}", "{}"},
		{"loop control", "while true {break}", "while true { break }"},
		{"return", "return  x", "return x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, formatCode(t, tt.src))
		})
	}
}

func TestImports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"items", "import \"a.typ\":a,b  as  c", "import \"a.typ\": a, b as c"},
		{"rename module", "import \"a.typ\" as  m", "import \"a.typ\" as m"},
		{"wildcard", "import \"a.typ\":*", "import \"a.typ\": *"},
		{"parenthesized items", "import \"a.typ\":(a,b)", "import \"a.typ\": (a, b)"},
		{"broken items", "import \"a.typ\": (\n  a,\n  b)", "import \"a.typ\": (\n  a,\n  b,\n)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, formatCode(t, tt.src))
		})
	}
}

func TestMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"heading", "=   Title", "= Title"},
		{"list item", "-   item", "- item"},
		{"enum item", "+ first\n+ second", "+ first\n+ second"},
		{"term item", "/ Term:   desc", "/ Term: desc"},
		{"prose spacing", "Some   *bold*  words", "Some *bold* words"},
		{"prose keeps code verbatim", "see #f(a,b) here", "see #f(a,b) here"},
		{"code line is rebuilt", "#f(a,b)", "#f(a, b)"},
		{"reference with supplement", "@intro[Sec]", "@intro[Sec]"},
		{"list continuation", "- a\n  b\n- c", "- a\n  b\n- c"},
		{"content block reindented", "#[\n    text\n]", "#[\n  text\n]"},
		{"raw block", "```rust\nfn main() {}\n```", "```rust\nfn main() {}\n```"},
		{"statement ends line", "#let x = 1\n#x", "#let x = 1\n#x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, formatMarkup(t, tt.src, 80))
		})
	}
}

func TestParbreakRespectsBound(t *testing.T) {
	t.Parallel()

	src := "a\n\n\n\n\nb"
	for bound, want := range map[int]string{
		0: "a\n\nb",
		1: "a\n\nb",
		2: "a\n\n\nb",
		9: "a\n\n\n\n\nb",
	} {
		cfg := pretty.Config{MaxWidth: 80, BlankLinesUpperBound: bound}
		assert.Equal(t, want, render(t, syntax.Parse(src), cfg), "bound %d", bound)
	}
}

func TestMath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"inline", "$x$", "$x$"},
		{"block", "$ a^2 + b^2 = c^2 $", "$ a^2 + b^2 = c^2 $"},
		{"multiline block", "$\n  x\n$", "$\n  x\n$"},
		{"fraction", "$a/b$", "$a / b$"},
		{"root", "$√x$", "$√x$"},
		{"primes", "$f''$", "$f''$"},
		{"attachments in source order", "$x_1^2$", "$x_1^2$"},
		{"delimited keeps padding", "$( a )$", "$( a )$"},
		{"delimited without padding", "$(a+b)$", "$(a+b)$"},
		{"call arguments", "$vec(a,b)$", "$vec(a, b)$"},
		{"two-dimensional call is verbatim", "$mat(1, 2; 3,4)$", "$mat(1, 2; 3,4)$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, formatMarkup(t, tt.src, 80))
		})
	}
}

func TestCodeBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"single statement folds", "#{ x }", "#{ x }"},
		{"multiline single statement stays broken", "#{\n  x\n}", "#{\n  x\n}"},
		{"blank lines around single statement", "#{\n\n\n  a\n\n\n}", "#{\n  a\n}"},
		{"statements stay on lines", "#{\n  let x = 1\n  x + 2\n}", "#{\n  let x = 1\n  x + 2\n}"},
		{"semicolons split statements", "#{ a; b }", "#{\n  a\n  b\n}"},
		{"leading comment", "#{\n  // lead\n  x\n}", "#{\n  // lead\n  x\n}"},
		{"trailing comment attaches", "#{\n  a // note\n  b\n}", "#{\n  a // note\n  b\n}"},
		{"no leading blank line", "#{\n\n\n  a\n  b\n}", "#{\n  a\n  b\n}"},
		{"blank lines capped", "#{\n  a\n\n\n\n\n  b\n}", "#{\n  a\n\n\n  b\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, formatMarkup(t, tt.src, 80))
		})
	}
}

func TestListLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		width int
		want  string
	}{
		{"fits on one line", "#f(a,b,c)", 80, "#f(a, b, c)"},
		{"breaks when too wide", "#f(alpha, beta, gamma)", 12, "#f(\n  alpha,\n  beta,\n  gamma,\n)"},
		{"empty list stays tight", "#f()", 1, "#f()"},
		{"single argument never breaks", "#f(\n  averyverylongargument\n)", 5, "#f(averyverylongargument)"},
		{"single call argument may break", "#f(g(x, y))", 6, "#f(\n  g(\n    x,\n    y,\n  ),\n)"},
		{"source line breaks are kept", "#f(\n  a, b)", 80, "#f(\n  a,\n  b,\n)"},
		{"comment keeps list broken", "#f(a, // c\n  b)", 80, "#f(\n  a, // c\n  b,\n)"},
		{"standalone comment", "#f(\n  // c\n  a, b)", 80, "#f(\n  // c\n  a,\n  b,\n)"},
		{"trailing content blocks", "#f(a)[x][y]", 80, "#f(a)[x][y]"},
		{"content block only", "#f[x]", 80, "#f[x]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, formatMarkup(t, tt.src, tt.width))
		})
	}
}

func TestTables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"explicit columns align cells",
			"#table(columns: 2, [a], [bbb], [cc], [d])",
			"#table(\n  columns: 2,\n  [a],  [bbb],\n  [cc], [d],\n)",
		},
		{
			"columns inferred from source rows",
			"#grid(\n  [a], [b],\n  [ccc], [d],\n  [e],\n)",
			"#grid(\n  [a],   [b],\n  [ccc], [d],\n  [e],\n)",
		},
		{
			"column array",
			"#table(columns: (1fr, auto), [x], [y])",
			"#table(\n  columns: (1fr, auto),\n  [x], [y],\n)",
		},
		{
			"line elements on their own line",
			"#table(columns: 2, table.header([A], [B]), [a], [b], table.hline(), [c], [d])",
			"#table(\n  columns: 2,\n  table.header([A], [B]),\n  [a], [b],\n  table.hline(),\n  [c], [d],\n)",
		},
		{
			"spanning cell falls back to list layout",
			"#table(columns: 2, table.cell(colspan: 2)[x], [a], [b])",
			"#table(columns: 2, table.cell(colspan: 2)[x], [a], [b])",
		},
		{
			"comments keep the source arrangement",
			"#table(columns: 2, // head\n  [a], [b])",
			"#table(columns: 2, // head\n  [a], [b])",
		},
		{
			"undetermined columns fall back to list layout",
			"#table([a], [b])",
			"#table([a], [b])",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, formatMarkup(t, tt.src, 80))
		})
	}
}

func TestDotChain(t *testing.T) {
	t.Parallel()

	src := "#{\n  a.b.c.d.e.f.g.h\n}"

	narrow := formatMarkup(t, src, 10)
	assert.Equal(t, "#{\n  a\n    .b\n    .c\n    .d\n    .e\n    .f\n    .g\n    .h\n}", narrow)

	assert.Equal(t, "#{\n  a.b.c.d.e.f.g.h\n}", formatMarkup(t, src, 80))
	assert.Equal(t, "#{ a.b.c.d.e.f.g.h }", formatMarkup(t, "#{ a.b.c.d.e.f.g.h }", 80))
}

func TestDotChainWithMethodCalls(t *testing.T) {
	t.Parallel()

	got := formatMarkup(t, "#{\n  items.filter(x => x > 1).map(x => x * 2).sum()\n}", 30)
	assert.Equal(t, "#{\n  items\n    .filter(x => x > 1)\n    .map(x => x * 2)\n    .sum()\n}", got)
}

func TestParenthesizedBreaksLikeOptionalParens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		width int
		want  string
	}{
		{"fits", "#let f = (x + 1)", 80, "#let f = (x + 1)"},
		{"explicit parens break", "#let f = (x + 1)", 10, "#let f = (\n  x + 1\n)"},
		{"optional parens appear", "#let f = x => x + 1", 10, "#let f = x => (\n  x + 1\n)"},
		{"broken parens stay broken", "#let f = x => (\n  x + 1\n)", 10, "#let f = x => (\n  x + 1\n)"},
		{"broken parens refold when wide", "#let f = x => (\n  x + 1\n)", 80, "#let f = x => (x + 1)"},
		{"atom stays tight", "#let f = (x)", 3, "#let f = (x)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, formatMarkup(t, tt.src, tt.width))
		})
	}
}

func TestShortChainStaysOnOneLine(t *testing.T) {
	t.Parallel()

	got := formatMarkup(t, "#{ averylongname.field }", 10)
	assert.Equal(t, "#{\n  averylongname.field\n}", got)
}

func TestFieldAccessInMarkupIsNotFlattened(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#a.b.c.d.e.f", formatMarkup(t, "#a.b.c.d.e.f", 5))
	assert.Equal(t, "$arrow.r.long$", formatMarkup(t, "$arrow.r.long$", 5))
}

func TestUnformattableChainIsVerbatim(t *testing.T) {
	t.Parallel()

	src := "#{\n  a\n  // step\n    .b\n}"
	assert.Equal(t, src, formatMarkup(t, src, 80))
}

func TestDisabledRegionIsVerbatim(t *testing.T) {
	t.Parallel()

	src := "// @typstyle off\n#f(a,   b)\n#g(a,   b)"
	got := formatMarkup(t, src, 80)
	assert.Equal(t, "// @typstyle off\n#f(a,   b)\n#g(a, b)", got)
}

func TestOptionalParensOnBrokenClosureBody(t *testing.T) {
	t.Parallel()

	got := formatCode(t, "let f(x) = aaaaaaaaaa + bbbbbbbbbb + cccccccccc + dddddddddd + eeeeeeeeee + ffffffffff + gggggggggg + hhhhhhhhhh + iiiiii + jjjjjjjjjj")
	require.True(t, strings.HasPrefix(got, "let f(x) = (\n  "), got)
	assert.True(t, strings.HasSuffix(got, "\n)"), got)
}
