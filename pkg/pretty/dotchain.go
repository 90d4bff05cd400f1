package pretty

import (
	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// convertFieldAccess flattens chains such as a.b(x).c into segments. In
// markup and math the access is kept on one line.
func (p *Printer) convertFieldAccess(n *syntax.Node) doc.Doc {
	if p.store.IsUnformattable(n) {
		return verbatim(n)
	}
	if p.Mode() != ModeCode {
		return p.convertPlainFieldAccess(n)
	}

	chain := p.dotChain(n)
	switch len(chain) {
	case 0, 1:
		return p.convertPlainFieldAccess(n)
	case 2:
		return doc.Concat(chain[0], doc.Text("."), chain[1])
	}

	rest := make([]doc.Doc, 0, 2*len(chain))
	for _, segment := range chain[1:] {
		rest = append(rest, doc.SoftLine(), doc.Text("."), segment)
	}
	return doc.Concat(chain[0], doc.Group(doc.Nest(indent, doc.Concat(rest...))))
}

func (p *Printer) convertPlainFieldAccess(n *syntax.Node) doc.Doc {
	parts := make([]doc.Doc, 0, len(n.Children))
	for _, child := range n.Children {
		switch {
		case child.Kind == syntax.KindDot:
			parts = append(parts, doc.Text("."))
		case !child.Kind.IsTrivia():
			parts = append(parts, p.convert(child))
		}
	}
	return doc.Concat(parts...)
}

// dotChain collects the segments of a field access chain: the innermost
// target followed by each field, with method-call arguments attached to
// their field.
func (p *Printer) dotChain(n *syntax.Node) []doc.Doc {
	switch {
	case p.store.IsFormatDisabled(n) || p.store.IsUnformattable(n):
		return []doc.Doc{p.convert(n)}
	case n.Kind == syntax.KindFieldAccess:
		target, field := fieldAccessParts(n)
		if target == nil || field == nil {
			return []doc.Doc{p.convert(n)}
		}
		return append(p.dotChain(target), p.convert(field))
	case n.Kind == syntax.KindFuncCall && len(n.Children) > 0 &&
		n.Children[0].Kind == syntax.KindFieldAccess:
		args := n.ChildOf(syntax.KindArgs)
		chain := p.dotChain(n.Children[0])
		if args != nil && len(chain) > 1 {
			last := len(chain) - 1
			chain[last] = doc.Concat(chain[last], p.convertCallArgs(n, args))
			return chain
		}
	}
	return []doc.Doc{p.convert(n)}
}

// fieldAccessParts returns the target and field of a field access.
func fieldAccessParts(n *syntax.Node) (target, field *syntax.Node) {
	for _, child := range n.Children {
		switch {
		case child.Kind == syntax.KindDot || child.Kind.IsTrivia():
		case target == nil:
			target = child
		default:
			field = child
		}
	}
	return target, field
}
