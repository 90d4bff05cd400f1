package pretty

import (
	"github.com/yaklabco/gotypstyle/pkg/doc"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// flowItem is one child of a flow-converted node together with whether it
// wants a space before and after it. A space is emitted between two items
// only when both sides ask for it.
type flowItem struct {
	doc         doc.Doc
	spaceBefore bool
	spaceAfter  bool
}

// flowClassifier maps a child to its flow item. ok is false for children
// that emit nothing.
type flowClassifier func(child *syntax.Node) (item flowItem, ok bool)

// spaced surrounds d with spaces.
func spaced(d doc.Doc) flowItem {
	return flowItem{doc: d, spaceBefore: true, spaceAfter: true}
}

// tightSpaced binds d to what precedes it, as the colon in "key: value".
func tightSpaced(d doc.Doc) flowItem {
	return flowItem{doc: d, spaceBefore: false, spaceAfter: true}
}

// spacedTight binds d to what follows it, as the dots in "..rest".
func spacedTight(d doc.Doc) flowItem {
	return flowItem{doc: d, spaceBefore: true, spaceAfter: false}
}

// spacedBefore asks for a leading space only when before is set.
func spacedBefore(d doc.Doc, before bool) flowItem {
	return flowItem{doc: d, spaceBefore: before, spaceAfter: true}
}

// convertFlow walks n's children in source order. Keywords always flow as
// spaced words; every other child goes through classify.
func (p *Printer) convertFlow(n *syntax.Node, classify flowClassifier) doc.Doc {
	parts := make([]doc.Doc, 0, 2*len(n.Children))
	first := true
	spaceAfter := false
	for _, child := range n.Children {
		var item flowItem
		if child.Kind.IsKeyword() {
			item = spaced(token(child))
		} else {
			var ok bool
			if item, ok = classify(child); !ok {
				continue
			}
		}
		if !first && spaceAfter && item.spaceBefore {
			parts = append(parts, doc.Space())
		}
		parts = append(parts, item.doc)
		spaceAfter = item.spaceAfter
		first = false
	}
	return doc.Concat(parts...)
}

// isOperand reports whether a child is converted as a sub-expression in
// flow: expressions, patterns and argument lists.
func isOperand(kind syntax.Kind) bool {
	if kind == syntax.KindSpace || kind == syntax.KindParbreak {
		return false
	}
	switch kind {
	case syntax.KindUnderscore, syntax.KindDestructuring, syntax.KindParams,
		syntax.KindNamed, syntax.KindKeyed, syntax.KindSpread, syntax.KindArgs:
		return true
	}
	return kind.IsExpr()
}

// convertExprFlow spaces keywords and operands, as in "if cond { .. }".
func (p *Printer) convertExprFlow(n *syntax.Node) doc.Doc {
	return p.convertFlow(n, func(child *syntax.Node) (flowItem, bool) {
		if isOperand(child.Kind) {
			return spaced(p.convert(child)), true
		}
		return flowItem{}, false
	})
}

// convertNamed renders "name: value". The space before the value is only
// emitted once the name has been seen.
func (p *Printer) convertNamed(n *syntax.Node) doc.Doc {
	seenName := false
	return p.convertFlow(n, func(child *syntax.Node) (flowItem, bool) {
		switch {
		case child.Kind == syntax.KindColon:
			return tightSpaced(token(child)), true
		case child.Kind == syntax.KindHash:
			return spacedTight(token(child)), true
		case isOperand(child.Kind):
			item := spacedBefore(p.convert(child), seenName)
			seenName = true
			return item, true
		}
		return flowItem{}, false
	})
}

func (p *Printer) convertKeyed(n *syntax.Node) doc.Doc {
	seenKey := false
	return p.convertFlow(n, func(child *syntax.Node) (flowItem, bool) {
		switch {
		case child.Kind == syntax.KindColon:
			return tightSpaced(token(child)), true
		case isOperand(child.Kind):
			item := spacedBefore(p.convert(child), seenKey)
			seenKey = true
			return item, true
		}
		return flowItem{}, false
	})
}

func (p *Printer) convertSpread(n *syntax.Node) doc.Doc {
	return p.convertFlow(n, func(child *syntax.Node) (flowItem, bool) {
		switch {
		case child.Kind == syntax.KindDots:
			return spacedTight(token(child)), true
		case isOperand(child.Kind):
			return tightSpaced(p.convert(child)), true
		}
		return flowItem{}, false
	})
}

// convertUnary binds symbolic operators to their operand; "not" is a
// keyword and stays spaced.
func (p *Printer) convertUnary(n *syntax.Node) doc.Doc {
	wordOp := n.HasChild(syntax.KindNot)
	return p.convertFlow(n, func(child *syntax.Node) (flowItem, bool) {
		switch {
		case child.Kind == syntax.KindPlus || child.Kind == syntax.KindMinus:
			return spacedTight(token(child)), true
		case isOperand(child.Kind):
			if wordOp {
				return spaced(p.convert(child)), true
			}
			return tightSpaced(p.convert(child)), true
		}
		return flowItem{}, false
	})
}

func (p *Printer) convertBinary(n *syntax.Node) doc.Doc {
	return p.convertFlow(n, func(child *syntax.Node) (flowItem, bool) {
		switch {
		case child.Kind.IsBinaryOp():
			return spaced(token(child)), true
		case isOperand(child.Kind):
			return spaced(p.convert(child)), true
		}
		return flowItem{}, false
	})
}

func (p *Printer) convertLetBinding(n *syntax.Node) doc.Doc {
	return p.convertFlow(n, func(child *syntax.Node) (flowItem, bool) {
		switch {
		case child.Kind == syntax.KindEq:
			return spaced(token(child)), true
		case isOperand(child.Kind):
			return spaced(p.convert(child)), true
		}
		return flowItem{}, false
	})
}

func (p *Printer) convertDestructAssignment(n *syntax.Node) doc.Doc {
	return p.convertLetBinding(n)
}

// convertForLoop wraps a broken binary iterable in parentheses.
func (p *Printer) convertForLoop(n *syntax.Node) doc.Doc {
	var iterable *syntax.Node
	if in := n.ChildOf(syntax.KindIn); in != nil {
		for _, child := range n.Children {
			if child.Offset > in.Offset && isOperand(child.Kind) {
				iterable = child
				break
			}
		}
	}
	return p.convertFlow(n, func(child *syntax.Node) (flowItem, bool) {
		switch {
		case !isOperand(child.Kind):
			return flowItem{}, false
		case child == iterable:
			return spaced(p.convertWithOptionalParens(child)), true
		}
		return spaced(p.convert(child)), true
	})
}

// convertSetRule keeps the argument list attached to the target.
func (p *Printer) convertSetRule(n *syntax.Node) doc.Doc {
	return p.convertFlow(n, func(child *syntax.Node) (flowItem, bool) {
		switch {
		case child.Kind == syntax.KindArgs:
			return tightSpaced(p.convert(child)), true
		case isOperand(child.Kind):
			return spaced(p.convert(child)), true
		}
		return flowItem{}, false
	})
}

func (p *Printer) convertShowRule(n *syntax.Node) doc.Doc {
	return p.convertFlow(n, func(child *syntax.Node) (flowItem, bool) {
		switch {
		case child.Kind == syntax.KindColon:
			return tightSpaced(token(child)), true
		case isOperand(child.Kind):
			return spaced(p.convert(child)), true
		}
		return flowItem{}, false
	})
}

// convertWithOptionalParens wraps binary and unary expressions in
// parentheses when their group breaks.
func (p *Printer) convertWithOptionalParens(n *syntax.Node) doc.Doc {
	d := p.convert(n)
	if p.store.IsFormatDisabled(n) || (n.Kind != syntax.KindBinary && n.Kind != syntax.KindUnary) {
		return d
	}
	return doc.Group(doc.Concat(
		doc.IfBreak(doc.Text("("), doc.Nil()),
		doc.Nest(indent, doc.Concat(doc.SoftLine(), d)),
		doc.SoftLine(),
		doc.IfBreak(doc.Text(")"), doc.Nil()),
	))
}
