package pretty

import (
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// convertCodeBlock puts statements on their own lines. A block holding a
// single statement and no comment may fold to "{ x }" unless the source
// already spread it over several lines.
func (p *Printer) convertCodeBlock(n *syntax.Node) doc.Doc {
	defer p.pushMode(ModeCode)()

	var nodes []*syntax.Node
	for _, child := range n.Children {
		switch {
		case child.Kind == syntax.KindCode:
			nodes = append(nodes, child.Children...)
		case child.Kind == syntax.KindSpace || child.Kind.IsComment():
			nodes = append(nodes, child)
		}
	}

	items, comments := p.convertStatements(nodes)
	switch {
	case len(items) == 0:
		return doc.Text("{}")
	case len(items) == 1 && !comments && !p.store.IsMultiline(n):
		return doc.Group(doc.Concat(
			doc.Text("{"),
			doc.Nest(indent, doc.Concat(doc.Line(), items[0])),
			doc.Line(),
			doc.Text("}"),
		))
	}

	body := make([]doc.Doc, 0, 2*len(items))
	for _, item := range items {
		body = append(body, doc.HardLine(), item)
	}
	return doc.Concat(
		doc.Text("{"),
		doc.Nest(indent, doc.Concat(body...)),
		doc.HardLine(),
		doc.Text("}"),
	)
}

// convertCodeRoot converts a standalone code document.
func (p *Printer) convertCodeRoot(n *syntax.Node) doc.Doc {
	items, _ := p.convertStatements(n.Children)
	return doc.Join(doc.HardLine(), items)
}

// convertStatements converts statements and the trivia between them. A
// comment on the line of the previous statement stays attached to it.
// Blank-line runs are capped at the configured bound and never lead the
// result; a nil item stands for a blank line.
func (p *Printer) convertStatements(nodes []*syntax.Node) ([]doc.Doc, bool) {
	for len(nodes) > 0 && nodes[len(nodes)-1].Kind == syntax.KindSpace {
		nodes = nodes[:len(nodes)-1]
	}

	var items []doc.Doc
	comments := false
	canAttach := false
	for _, node := range nodes {
		switch {
		case node.Kind.IsComment():
			comments = true
			comment := p.convert(node)
			if canAttach && len(items) > 0 {
				items[len(items)-1] = doc.Concat(items[len(items)-1], doc.Space(), comment)
			} else {
				items = append(items, comment)
			}
			canAttach = node.Kind == syntax.KindBlockComment
		case node.Kind == syntax.KindSpace:
			breaks := strings.Count(node.Text, "\n")
			if breaks == 0 {
				continue
			}
			canAttach = false
			if len(items) > 0 {
				for range min(breaks-1, p.cfg.BlankLinesUpperBound) {
					items = append(items, doc.Nil())
				}
			}
		case node.Kind.IsExpr():
			items = append(items, p.convert(node))
			canAttach = true
		}
	}
	return items, comments
}

// convertContentBlock nests the markup body. Trailing line breaks stay
// outside the nesting so the closing bracket lines up with the opening
// line.
func (p *Printer) convertContentBlock(n *syntax.Node) doc.Doc {
	body := n.ChildOf(syntax.KindMarkup)
	if body == nil {
		return verbatim(n)
	}
	if p.store.IsFormatDisabled(body) {
		return doc.Enclose("[", verbatim(body), "]")
	}

	defer p.pushMode(ModeMarkup)()

	children := body.Children
	split := len(children)
	for split > 0 && isBlank(children[split-1]) {
		split--
	}
	inner := p.convertMarkupNodes(children[:split])
	tail := p.convertMarkupNodes(children[split:])
	return doc.Concat(doc.Text("["), doc.Nest(indent, doc.Group(inner)), tail, doc.Text("]"))
}

func isBlank(n *syntax.Node) bool {
	return n.Kind == syntax.KindSpace || n.Kind == syntax.KindParbreak
}
