package pretty

import (
	"math"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// tableFuncs are the callee names laid out as tables.
//
//nolint:gochecknoglobals // Read-only lookup table.
var tableFuncs = map[string]bool{
	"table": true,
	"grid":  true,
}

// tableLines are element functions that occupy a line of their own
// instead of a cell.
//
//nolint:gochecknoglobals // Read-only lookup table.
var tableLines = map[string]bool{
	"header": true,
	"footer": true,
	"hline":  true,
	"vline":  true,
}

// tableEntry is one argument of a table call: a named argument or line
// element kept on its own line, or a cell.
type tableEntry struct {
	node *syntax.Node
	cell bool
	line int
}

type tableShape struct {
	entries []tableEntry
	columns int
	// asIs is set when comments or blank lines sit between arguments.
	asIs bool
}

// isTableCall reports whether call invokes table or grid, possibly through
// a module path such as std.table.
func isTableCall(call *syntax.Node) bool {
	if len(call.Children) == 0 {
		return false
	}
	return tableFuncs[lastName(call.Children[0])]
}

// lastName returns the identifier an expression names: the identifier
// itself or the last field of a field access.
func lastName(n *syntax.Node) string {
	switch n.Kind {
	case syntax.KindIdent:
		return n.Text
	case syntax.KindFieldAccess:
		if field := n.Children[len(n.Children)-1]; field.Kind == syntax.KindIdent {
			return field.Text
		}
	}
	return ""
}

// analyzeTable determines the column count of a table call. A zero column
// count means the call is laid out as an ordinary argument list.
func (p *Printer) analyzeTable(args *syntax.Node) tableShape {
	var shape tableShape
	line := 0
	inside := false
	explicit := -1

	for _, child := range args.Children {
		switch {
		case child.Kind == syntax.KindLeftParen:
			inside = true
			continue
		case child.Kind == syntax.KindRightParen:
			inside = false
			continue
		case !inside:
			continue
		}

		switch {
		case child.Kind == syntax.KindSpace:
			breaks := strings.Count(child.Text, "\n")
			if breaks > 1 {
				shape.asIs = true
			}
			line += breaks
		case child.Kind.IsComment():
			shape.asIs = true
		case child.Kind == syntax.KindComma:
		case child.Kind == syntax.KindSpread:
			return tableShape{asIs: shape.asIs}
		case child.Kind == syntax.KindNamed:
			if name := child.Children[0]; name.Text == "columns" {
				explicit = columnCount(child)
			}
			shape.entries = append(shape.entries, tableEntry{node: child, line: line})
		case child.Kind == syntax.KindFuncCall && tableLines[lastName(child.Children[0])]:
			shape.entries = append(shape.entries, tableEntry{node: child, line: line})
		default:
			if !p.isPlainCell(child) {
				return tableShape{asIs: shape.asIs}
			}
			shape.entries = append(shape.entries, tableEntry{node: child, cell: true, line: line})
		}
	}
	if shape.asIs {
		return shape
	}

	cells := 0
	for _, entry := range shape.entries {
		if entry.cell {
			cells++
		}
	}
	switch {
	case cells == 0:
	case explicit > 0:
		shape.columns = explicit
	case explicit < 0:
		shape.columns = inferColumns(shape.entries)
	}
	return shape
}

// isPlainCell reports whether a cell fits on one line and spans a single
// column and row.
func (p *Printer) isPlainCell(n *syntax.Node) bool {
	if strings.Contains(n.FullText(), "\n") || p.store.IsFormatDisabled(n) {
		return false
	}
	if n.Kind != syntax.KindFuncCall || lastName(n.Children[0]) != "cell" {
		return true
	}
	args := n.ChildOf(syntax.KindArgs)
	if args == nil {
		return true
	}
	for _, child := range args.Children {
		if child.Kind != syntax.KindNamed {
			continue
		}
		if name := child.Children[0].Text; name == "colspan" || name == "rowspan" {
			return false
		}
	}
	return true
}

// columnCount reads "columns: n" or "columns: (a, b, ...)". It returns
// -1 when the value does not fix the count and 0 when it is invalid.
func columnCount(named *syntax.Node) int {
	exprs := named.Exprs()
	if len(exprs) < 2 {
		return -1
	}
	value := exprs[len(exprs)-1]
	switch value.Kind {
	case syntax.KindInt:
		n, err := strconv.Atoi(value.Text)
		if err != nil || n <= 0 {
			return 0
		}
		return n
	case syntax.KindArray:
		count := 0
		for _, child := range value.Children {
			if !child.Kind.IsTrivia() && child.Kind != syntax.KindLeftParen &&
				child.Kind != syntax.KindRightParen && child.Kind != syntax.KindComma {
				count++
			}
		}
		return count
	default:
		return -1
	}
}

// inferColumns derives the column count from the source layout. Cells
// are grouped by source line; a group followed by cells on a later line
// must be full, while a group ending before a line element or the end of
// the list may be shorter.
func inferColumns(entries []tableEntry) int {
	type group struct {
		count int
		full  bool
	}
	var groups []group
	for i, entry := range entries {
		if !entry.cell {
			continue
		}
		if i > 0 && entries[i-1].cell && entries[i-1].line == entry.line {
			groups[len(groups)-1].count++
		} else {
			groups = append(groups, group{count: 1})
		}
		if next := i + 1; next < len(entries) && entries[next].cell && entries[next].line != entry.line {
			groups[len(groups)-1].full = true
		}
	}
	if len(groups) < 2 {
		return 0
	}

	columns := 0
	for _, g := range groups {
		columns = max(columns, g.count)
	}
	for _, g := range groups {
		if g.full && g.count != columns {
			return 0
		}
	}
	return columns
}

// convertTable renders one argument per line for named arguments and
// line elements and one row per line for cells, padding cells so the
// columns line up.
func (p *Printer) convertTable(shape tableShape) (doc.Doc, bool) {
	texts := make([]string, len(shape.entries))
	widths := make([]int, shape.columns)
	column := 0
	for i, entry := range shape.entries {
		if !entry.cell {
			column = 0
			continue
		}
		text := doc.Render(p.convert(entry.node), math.MaxInt32)
		if strings.Contains(text, "\n") {
			return nil, false
		}
		texts[i] = text
		if w := runewidth.StringWidth(text) + 1; w > widths[column] {
			widths[column] = w
		}
		column = (column + 1) % shape.columns
	}

	var lines []doc.Doc
	var row []string
	var rowColumns []int
	flush := func() {
		if len(row) == 0 {
			return
		}
		var sb strings.Builder
		for i, text := range row {
			sb.WriteString(text)
			sb.WriteByte(',')
			if i < len(row)-1 {
				pad := widths[rowColumns[i]] - runewidth.StringWidth(text) - 1
				sb.WriteString(strings.Repeat(" ", pad+1))
			}
		}
		lines = append(lines, doc.Text(sb.String()))
		row, rowColumns = nil, nil
	}

	column = 0
	for i, entry := range shape.entries {
		if !entry.cell {
			flush()
			column = 0
			lines = append(lines, doc.Concat(p.convert(entry.node), doc.Text(",")))
			continue
		}
		row = append(row, texts[i])
		rowColumns = append(rowColumns, column)
		column++
		if column == shape.columns {
			flush()
			column = 0
		}
	}
	flush()

	return doc.Concat(
		doc.Text("("),
		doc.Nest(indent, doc.Concat(doc.HardLine(), doc.Join(doc.HardLine(), lines))),
		doc.HardLine(),
		doc.Text(")"),
	), true
}
