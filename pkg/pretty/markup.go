package pretty

import (
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// convertMarkup splits markup into lines and converts each. A line that
// holds prose keeps every node's source text; only whitespace between
// nodes is normalized.
func (p *Printer) convertMarkup(n *syntax.Node) doc.Doc {
	defer p.pushMode(ModeMarkup)()
	return p.convertMarkupNodes(n.Children)
}

func (p *Printer) convertMarkupNodes(nodes []*syntax.Node) doc.Doc {
	var parts []doc.Doc
	for _, line := range splitMarkupLines(nodes) {
		parts = append(parts, p.convertMarkupLine(line))
	}
	return doc.Concat(parts...)
}

func (p *Printer) convertMarkupLine(line []*syntax.Node) doc.Doc {
	prose := false
	for _, node := range line {
		if isProse(node) {
			prose = true
			break
		}
	}

	parts := make([]doc.Doc, 0, len(line))
	for _, node := range line {
		switch {
		case node.Kind == syntax.KindSpace || node.Kind == syntax.KindParbreak:
			parts = append(parts, p.convert(node))
		case prose:
			parts = append(parts, verbatim(node))
		case node.Kind.IsExpr():
			parts = append(parts, p.convert(node))
		case node.Kind.IsComment():
			parts = append(parts, p.convert(node))
		default:
			parts = append(parts, doc.Text(trimLineStarts(node.FullText())))
		}
	}
	return doc.Concat(parts...)
}

// splitMarkupLines ends a line after a line feed, a statement, a code
// block, or a block-level raw text or equation.
func splitMarkupLines(nodes []*syntax.Node) [][]*syntax.Node {
	var lines [][]*syntax.Node
	var cur []*syntax.Node
	for _, node := range nodes {
		cur = append(cur, node)
		if endsMarkupLine(node) {
			lines = append(lines, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

func endsMarkupLine(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindSpace, syntax.KindParbreak:
		return strings.Contains(n.Text, "\n")
	case syntax.KindCodeBlock:
		return true
	case syntax.KindRaw:
		return isBlockRaw(n)
	case syntax.KindEquation:
		return isBlockEquation(n)
	default:
		return n.Kind.IsStmt()
	}
}

func isProse(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindText, syntax.KindStrong, syntax.KindEmph:
		return true
	case syntax.KindRaw:
		return !isBlockRaw(n)
	default:
		return false
	}
}

// isBlockRaw reports whether raw text uses three or more backticks.
func isBlockRaw(n *syntax.Node) bool {
	if len(n.Children) == 0 {
		return false
	}
	return len(n.Children[0].Text) >= 3
}

// isBlockEquation reports whether an equation has whitespace just inside
// both dollar signs.
func isBlockEquation(n *syntax.Node) bool {
	if len(n.Children) < 4 {
		return false
	}
	return n.Children[1].Kind == syntax.KindSpace &&
		n.Children[len(n.Children)-2].Kind == syntax.KindSpace
}

// trimLineStarts removes leading blanks from every line of s.
func trimLineStarts(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimLeft(line, " \t")
	}
	return strings.Join(lines, "\n")
}

func (p *Printer) convertSpace(n *syntax.Node) doc.Doc {
	if strings.Contains(n.Text, "\n") {
		return doc.HardLine()
	}
	return doc.Space()
}

// convertParbreak keeps the blank lines of a paragraph break up to the
// configured bound. At least one blank line remains so the paragraphs stay
// separate.
func (p *Printer) convertParbreak(n *syntax.Node) doc.Doc {
	count := max(2, min(strings.Count(n.Text, "\n"), p.cfg.BlankLinesUpperBound+1))
	return doc.HardLines(count)
}

func (p *Printer) convertStrong(n *syntax.Node) doc.Doc {
	return doc.Enclose("*", p.convertBody(n), "*")
}

func (p *Printer) convertEmph(n *syntax.Node) doc.Doc {
	return doc.Enclose("_", p.convertBody(n), "_")
}

// convertBody converts the Markup child of a delimited markup node.
func (p *Printer) convertBody(n *syntax.Node) doc.Doc {
	if body := n.ChildOf(syntax.KindMarkup); body != nil {
		return p.convert(body)
	}
	return doc.Nil()
}

func (p *Printer) convertRaw(n *syntax.Node) doc.Doc {
	parts := make([]doc.Doc, 0, len(n.Children))
	for _, child := range n.Children {
		parts = append(parts, p.convert(child))
	}
	return doc.Concat(parts...)
}

func (p *Printer) convertRawTrimmed(n *syntax.Node) doc.Doc {
	if strings.Contains(n.Text, "\n") {
		return doc.HardLine()
	}
	return doc.Space()
}

func (p *Printer) convertRef(n *syntax.Node) doc.Doc {
	parts := make([]doc.Doc, 0, len(n.Children))
	for _, child := range n.Children {
		parts = append(parts, p.convert(child))
	}
	return doc.Concat(parts...)
}

func (p *Printer) convertHeading(n *syntax.Node) doc.Doc {
	marker := n.ChildOf(syntax.KindHeadingMarker)
	body := p.convertBody(n)
	if doc.IsNil(body) {
		return token(marker)
	}
	return doc.Concat(token(marker), doc.Space(), body)
}

// convertListItem handles list and enum items. Continuation lines of the
// body are indented under the marker.
func (p *Printer) convertListItem(n *syntax.Node) doc.Doc {
	marker := n.Children[0]
	body := p.convertBody(n)
	if doc.IsNil(body) {
		return token(marker)
	}
	return doc.Concat(token(marker), doc.Space(), doc.Nest(indent, body))
}

func (p *Printer) convertTermItem(n *syntax.Node) doc.Doc {
	var bodies []*syntax.Node
	for _, child := range n.Children {
		if child.Kind == syntax.KindMarkup {
			bodies = append(bodies, child)
		}
	}
	parts := []doc.Doc{token(n.Children[0]), doc.Space()}
	if len(bodies) > 0 {
		parts = append(parts, p.convert(bodies[0]))
	}
	parts = append(parts, doc.Text(":"))
	if len(bodies) > 1 {
		if desc := p.convert(bodies[1]); !doc.IsNil(desc) {
			parts = append(parts, doc.Space(), doc.Nest(indent, desc))
		}
	}
	return doc.Concat(parts...)
}

// convertComment keeps comment text. Block comments spanning several
// lines are emitted as they are.
func convertComment(n *syntax.Node) doc.Doc {
	return doc.Text(n.Text)
}
