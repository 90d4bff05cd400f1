package pretty

import (
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// FoldStyle decides whether a list may be laid out on one line.
type FoldStyle uint8

const (
	// FoldFit puts the list on one line when it fits and one item per
	// line otherwise.
	FoldFit FoldStyle = iota
	// FoldNever always puts one item per line.
	FoldNever
)

// listItem is a converted list element. Comments on a line of their own
// become standalone items; a comment on the same line as an item trails it.
type listItem struct {
	doc        doc.Doc
	trailing   doc.Doc
	standalone bool
	call       bool
}

// listStyle describes the delimiters and separators of a list.
type listStyle struct {
	open, close string
	// empty replaces open+close for a list without items.
	empty string
	fold  FoldStyle
	// trailingSep adds a separator after the last item when broken.
	trailingSep bool
	// singleSep keeps a separator after a sole item, as in "(x,)".
	singleSep bool
}

// layoutList lays out items. An empty list and a list holding one item
// that is not a call never break; otherwise the fold style decides.
func layoutList(items []listItem, style listStyle) doc.Doc {
	values, comments := 0, false
	for _, item := range items {
		if item.standalone || item.trailing != nil {
			comments = true
		}
		if !item.standalone {
			values++
		}
	}

	if !comments {
		switch {
		case len(items) == 0:
			if style.empty != "" {
				return doc.Text(style.empty)
			}
			return doc.Text(style.open + style.close)
		case values == 1 && !items[0].call:
			return doc.Concat(doc.Text(style.open), items[0].doc, sepIf(style.singleSep), doc.Text(style.close))
		}
	}

	if style.fold == FoldNever || comments {
		return layoutBroken(items, style)
	}

	docs := make([]doc.Doc, 0, len(items))
	for _, item := range items {
		docs = append(docs, item.doc)
	}
	return doc.Group(doc.Concat(
		doc.Text(style.open),
		doc.Nest(indent, doc.Concat(
			doc.SoftLine(),
			doc.Join(doc.Concat(doc.Text(","), doc.Line()), docs),
			doc.IfBreak(sepIf(style.trailingSep), sepIf(style.singleSep && values == 1)),
		)),
		doc.SoftLine(),
		doc.Text(style.close),
	))
}

// layoutBroken puts every item on its own line.
func layoutBroken(items []listItem, style listStyle) doc.Doc {
	lastValue := -1
	for i, item := range items {
		if !item.standalone {
			lastValue = i
		}
	}

	body := make([]doc.Doc, 0, 4*len(items))
	for i, item := range items {
		body = append(body, doc.HardLine(), item.doc)
		if !item.standalone && (i != lastValue || style.trailingSep) {
			body = append(body, doc.Text(","))
		}
		if item.trailing != nil {
			body = append(body, doc.Space(), item.trailing)
		}
	}
	return doc.Concat(
		doc.Text(style.open),
		doc.Nest(indent, doc.Concat(body...)),
		doc.HardLine(),
		doc.Text(style.close),
	)
}

func sepIf(cond bool) doc.Doc {
	if cond {
		return doc.Text(",")
	}
	return doc.Nil()
}

// collectListItems converts the items between the parentheses of a list
// node. It reports whether any comment was found.
func (p *Printer) collectListItems(n *syntax.Node) ([]listItem, bool) {
	var items []listItem
	comments := false
	inside := false
	sameLine := false

	for _, child := range n.Children {
		switch {
		case child.Kind == syntax.KindLeftParen:
			inside = true
			continue
		case child.Kind == syntax.KindRightParen:
			return items, comments
		case !inside:
			continue
		}

		switch {
		case child.Kind == syntax.KindSpace:
			if strings.Contains(child.Text, "\n") {
				sameLine = false
			}
		case child.Kind.IsComment():
			comments = true
			comment := convertComment(child)
			if sameLine && len(items) > 0 && !items[len(items)-1].standalone {
				last := &items[len(items)-1]
				if last.trailing == nil {
					last.trailing = comment
				} else {
					last.trailing = doc.Concat(last.trailing, doc.Space(), comment)
				}
				continue
			}
			items = append(items, listItem{doc: comment, standalone: true})
			sameLine = child.Kind == syntax.KindBlockComment
		case child.Kind == syntax.KindComma, child.Kind == syntax.KindColon:
		default:
			items = append(items, listItem{doc: p.convert(child), call: isCall(child)})
			sameLine = true
		}
	}
	return items, comments
}

// isCall reports whether a list element is, or ends in, a call expression.
func isCall(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindFuncCall:
		return true
	case syntax.KindNamed, syntax.KindKeyed, syntax.KindSpread, syntax.KindMath:
		exprs := n.Exprs()
		return len(exprs) > 0 && exprs[len(exprs)-1].Kind == syntax.KindFuncCall
	default:
		return false
	}
}

// foldStyle keeps lists that were broken in the source broken.
func (p *Printer) foldStyle(n *syntax.Node, comments bool) FoldStyle {
	if comments || p.store.IsMultiline(n) {
		return FoldNever
	}
	return FoldFit
}

// convertCollection handles arrays, dictionaries and destructuring
// patterns.
func (p *Printer) convertCollection(n *syntax.Node) doc.Doc {
	items, comments := p.collectListItems(n)
	style := listStyle{
		open:        "(",
		close:       ")",
		fold:        p.foldStyle(n, comments),
		trailingSep: true,
	}
	switch n.Kind {
	case syntax.KindDict:
		style.empty = "(:)"
	case syntax.KindArray:
		style.singleSep = true
	case syntax.KindDestructuring:
		named := n.ChildOf(syntax.KindNamed) != nil
		style.singleSep = !named
	}
	return layoutList(items, style)
}

func (p *Printer) convertParenthesized(n *syntax.Node) doc.Doc {
	for _, child := range n.Children {
		if !isOperand(child.Kind) {
			continue
		}
		inner := p.convert(child)
		if child.Kind != syntax.KindBinary && child.Kind != syntax.KindUnary && !p.store.IsMultiline(n) {
			return doc.Concat(doc.Text("("), inner, doc.Text(")"))
		}
		return doc.Group(doc.Concat(
			doc.Text("("),
			doc.Nest(indent, doc.Concat(doc.SoftLine(), inner)),
			doc.SoftLine(),
			doc.Text(")"),
		))
	}
	return verbatim(n)
}

// convertParams handles parameter lists; a bare identifier parameter of
// an anonymous closure stays bare.
func (p *Printer) convertParams(n *syntax.Node) doc.Doc {
	if !n.HasChild(syntax.KindLeftParen) {
		parts := make([]doc.Doc, 0, 1)
		for _, child := range n.Children {
			if !child.Kind.IsTrivia() {
				parts = append(parts, p.convert(child))
			}
		}
		return doc.Concat(parts...)
	}
	items, comments := p.collectListItems(n)
	return layoutList(items, listStyle{
		open:        "(",
		close:       ")",
		fold:        p.foldStyle(n, comments),
		trailingSep: true,
	})
}

// convertClosure renders "name(params) = body" or "params => body". A
// broken binary or unary body gains parentheses.
func (p *Printer) convertClosure(n *syntax.Node) doc.Doc {
	var name, params, body *syntax.Node
	for _, child := range n.Children {
		switch {
		case child.Kind == syntax.KindParams:
			params = child
		case child.Kind == syntax.KindIdent && params == nil:
			name = child
		case isOperand(child.Kind):
			body = child
		}
	}
	if params == nil || body == nil {
		return verbatim(n)
	}

	parts := make([]doc.Doc, 0, 4)
	if name != nil {
		parts = append(parts, p.convert(name), p.convert(params), doc.Text(" = "))
	} else {
		parts = append(parts, p.convert(params), doc.Text(" => "))
	}
	parts = append(parts, p.convertWithOptionalParens(body))
	return doc.Concat(parts...)
}
