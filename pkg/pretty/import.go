package pretty

import (
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// convertImport renders "import source as name: items". Parenthesized
// item lists go through the list layout.
func (p *Printer) convertImport(n *syntax.Node) doc.Doc {
	parts := make([]doc.Doc, 0, 8)
	afterColon := false
	var items *syntax.Node
	parens, broken := false, false

	for _, child := range n.Children {
		switch {
		case child.Kind == syntax.KindImport:
			parts = append(parts, token(child))
		case child.Kind == syntax.KindAs:
			parts = append(parts, doc.Text(" as"))
		case child.Kind == syntax.KindColon:
			parts = append(parts, doc.Text(":"))
			afterColon = true
		case child.Kind == syntax.KindLeftParen:
			parens = true
		case child.Kind == syntax.KindStar:
			parts = append(parts, doc.Text(" *"))
		case child.Kind == syntax.KindImportItems:
			items = child
		case child.Kind == syntax.KindSpace:
			if parens && strings.Contains(child.Text, "\n") {
				broken = true
			}
		case !afterColon && isOperand(child.Kind):
			parts = append(parts, doc.Space(), p.convert(child))
		}
	}

	if items != nil {
		parts = append(parts, doc.Space())
		if parens {
			parts = append(parts, p.convertParenImportItems(items, broken))
		} else {
			parts = append(parts, p.convert(items))
		}
	}
	return doc.Concat(parts...)
}

// convertImportItems joins unparenthesized items on one line.
func (p *Printer) convertImportItems(n *syntax.Node) doc.Doc {
	var items []doc.Doc
	for _, child := range n.Children {
		if child.Kind == syntax.KindIdent || child.Kind == syntax.KindRenamedImportItem {
			items = append(items, p.convert(child))
		}
	}
	return doc.Join(doc.Text(", "), items)
}

func (p *Printer) convertParenImportItems(n *syntax.Node, broken bool) doc.Doc {
	var items []listItem
	for _, child := range n.Children {
		if child.Kind == syntax.KindIdent || child.Kind == syntax.KindRenamedImportItem {
			items = append(items, listItem{doc: p.convert(child)})
		}
	}
	fold := FoldFit
	if broken || p.store.IsMultiline(n) {
		fold = FoldNever
	}
	return layoutList(items, listStyle{open: "(", close: ")", fold: fold, trailingSep: true})
}

func (p *Printer) convertRenamedImportItem(n *syntax.Node) doc.Doc {
	return p.convertFlow(n, func(child *syntax.Node) (flowItem, bool) {
		if child.Kind == syntax.KindIdent {
			return spaced(token(child)), true
		}
		return flowItem{}, false
	})
}
