package pretty

import (
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// convertEquation converts the math body of an equation. Block equations
// keep their body on its own line when the source did so.
func (p *Printer) convertEquation(n *syntax.Node) doc.Doc {
	defer p.pushMode(ModeMath)()

	body := doc.Nil()
	if math := n.ChildOf(syntax.KindMath); math != nil {
		body = p.convert(math)
	}

	if !isBlockEquation(n) {
		return doc.Enclose("$", doc.Nest(indent, body), "$")
	}
	sep := doc.Line()
	if p.store.IsMultiline(n) {
		sep = doc.HardLine()
	}
	return doc.Enclose("$", doc.Concat(doc.Nest(indent, doc.Concat(sep, body)), sep), "$")
}

func (p *Printer) convertMath(n *syntax.Node) doc.Doc {
	parts := make([]doc.Doc, 0, len(n.Children))
	for _, child := range n.Children {
		switch {
		case child.Kind == syntax.KindSpace:
			parts = append(parts, p.convertSpace(child))
		case child.Kind.IsExpr(), child.Kind.IsComment():
			parts = append(parts, p.convert(child))
		default:
			parts = append(parts, token(child))
		}
	}
	return doc.Concat(parts...)
}

// convertMathDelimited keeps inner padding only where the source had it.
func (p *Printer) convertMathDelimited(n *syntax.Node) doc.Doc {
	var open, closing, body *syntax.Node
	padBefore, padAfter := false, false
	for _, child := range n.Children {
		switch {
		case child.Kind == syntax.KindMath:
			body = child
		case child.Kind == syntax.KindSpace:
			if body == nil {
				padBefore = true
			} else {
				padAfter = true
			}
		case open == nil:
			open = child
		default:
			closing = child
		}
	}

	inner := make([]doc.Doc, 0, 3)
	if padBefore {
		inner = append(inner, doc.Space())
	}
	if body != nil {
		inner = append(inner, p.convert(body))
	}
	if padAfter {
		inner = append(inner, doc.Space())
	}

	parts := []doc.Doc{}
	if open != nil {
		parts = append(parts, token(open))
	}
	parts = append(parts, doc.Nest(indent, doc.Concat(inner...)))
	if closing != nil {
		parts = append(parts, token(closing))
	}
	return doc.Concat(parts...)
}

// convertMathAttach emits the base followed by primes and attachments in
// source order.
func (p *Printer) convertMathAttach(n *syntax.Node) doc.Doc {
	parts := make([]doc.Doc, 0, len(n.Children))
	for _, child := range n.Children {
		switch child.Kind {
		case syntax.KindSpace:
		case syntax.KindUnderscore, syntax.KindHat:
			parts = append(parts, token(child))
		default:
			parts = append(parts, p.convert(child))
		}
	}
	return doc.Concat(parts...)
}

func (p *Printer) convertMathPrimes(n *syntax.Node) doc.Doc {
	count := 0
	for _, child := range n.Children {
		if child.Kind == syntax.KindPrime {
			count += strings.Count(child.Text, "'")
		}
	}
	return doc.Repeat("'", count)
}

// convertMathFrac renders "num / denom".
func (p *Printer) convertMathFrac(n *syntax.Node) doc.Doc {
	var operands []*syntax.Node
	for _, child := range n.Children {
		if !child.Kind.IsTrivia() && child.Kind != syntax.KindSlash {
			operands = append(operands, child)
		}
	}
	if len(operands) != 2 {
		return verbatim(n)
	}
	return doc.Concat(p.convert(operands[0]), doc.Text(" / "), p.convert(operands[1]))
}

// convertMathRoot renders the root sign directly followed by the radicand.
func (p *Printer) convertMathRoot(n *syntax.Node) doc.Doc {
	parts := make([]doc.Doc, 0, 2)
	for _, child := range n.Children {
		switch {
		case child.Kind == syntax.KindRoot:
			parts = append(parts, token(child))
		case !child.Kind.IsTrivia():
			parts = append(parts, p.convert(child))
		}
	}
	return doc.Concat(parts...)
}
