package pretty

import (
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

func (p *Printer) convertFuncCall(n *syntax.Node) doc.Doc {
	if len(n.Children) == 0 {
		return doc.Nil()
	}
	parts := []doc.Doc{p.convert(n.Children[0])}
	if args := n.ChildOf(syntax.KindArgs); args != nil {
		parts = append(parts, p.convertCallArgs(n, args))
	}
	return doc.Concat(parts...)
}

// convertCallArgs converts the argument list of a call. Table and grid
// calls get aligned rows when their shape allows it.
func (p *Printer) convertCallArgs(call, args *syntax.Node) doc.Doc {
	if p.store.IsFormatDisabled(args) {
		return verbatim(args)
	}
	if !args.HasChild(syntax.KindLeftParen) {
		return p.convertTrailingBlocks(args)
	}

	var parens doc.Doc
	if isTableCall(call) {
		switch table := p.analyzeTable(args); {
		case table.asIs:
			parens = p.convertArgsAsIs(args)
		case table.columns > 0:
			if d, ok := p.convertTable(table); ok {
				parens = d
			}
		}
	}
	if parens == nil {
		parens = p.convertParenArgs(args)
	}
	return doc.Group(doc.Concat(parens, p.convertTrailingBlocks(args)))
}

// convertArgs converts an argument list on its own, as in set rules.
func (p *Printer) convertArgs(n *syntax.Node) doc.Doc {
	if !n.HasChild(syntax.KindLeftParen) {
		return p.convertTrailingBlocks(n)
	}
	return doc.Concat(p.convertParenArgs(n), p.convertTrailingBlocks(n))
}

// convertParenArgs lays out the parenthesized part of an argument list.
// Math calls take no trailing comma.
func (p *Printer) convertParenArgs(args *syntax.Node) doc.Doc {
	items, comments := p.collectListItems(args)
	return layoutList(items, listStyle{
		open:        "(",
		close:       ")",
		fold:        p.foldStyle(args, comments),
		trailingSep: p.Mode() != ModeMath,
	})
}

// convertTrailingBlocks converts the content blocks after the closing
// parenthesis.
func (p *Printer) convertTrailingBlocks(args *syntax.Node) doc.Doc {
	var parts []doc.Doc
	closed := !args.HasChild(syntax.KindLeftParen)
	for _, child := range args.Children {
		switch {
		case child.Kind == syntax.KindRightParen:
			closed = true
		case closed && child.Kind == syntax.KindContentBlock:
			parts = append(parts, p.convert(child))
		}
	}
	return doc.Concat(parts...)
}

// convertArgsAsIs keeps the commas, line breaks and comments between
// arguments as written while still converting each argument.
func (p *Printer) convertArgsAsIs(args *syntax.Node) doc.Doc {
	var inner []doc.Doc
	trailingBreaks := 0
	inside := false

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

		trailingBreaks = 0
		switch {
		case child.Kind == syntax.KindComma:
			inner = append(inner, doc.Text(","))
		case child.Kind == syntax.KindSpace:
			if breaks := strings.Count(child.Text, "\n"); breaks > 0 {
				inner = append(inner, doc.HardLines(breaks))
				trailingBreaks = breaks
			} else {
				inner = append(inner, doc.Space())
			}
		case child.Kind.IsComment():
			inner = append(inner, convertComment(child))
		default:
			inner = append(inner, p.convert(child))
		}
	}

	closing := doc.Nil()
	if trailingBreaks > 0 {
		inner = inner[:len(inner)-1]
		closing = doc.HardLines(trailingBreaks)
	}
	return doc.Concat(doc.Text("("), doc.Nest(indent, doc.Concat(inner...)), closing, doc.Text(")"))
}
