package syntax

import (
	"strings"
)

// Node is a node of the lossless concrete syntax tree. Leaves carry the
// exact source text they were lexed from; inner nodes carry children.
// Concatenating the text of all leaves in order reproduces the source.
type Node struct {
	// Kind identifies what type of node this is.
	Kind Kind

	// Text holds the source text of a leaf. Empty for inner nodes.
	Text string

	// Children holds the ordered children of an inner node.
	Children []*Node

	// Offset is the byte offset of the node in the source.
	Offset int

	// Message describes the problem for Error nodes.
	Message string

	// index is the pre-order position assigned by Parse.
	index int
}

func newLeaf(kind Kind, text string, offset int) *Node {
	return &Node{Kind: kind, Text: text, Offset: offset, index: -1}
}

func newInner(kind Kind, children []*Node, offset int) *Node {
	if len(children) > 0 {
		offset = children[0].Offset
	}
	return &Node{Kind: kind, Children: children, Offset: offset, index: -1}
}

func newError(text, message string, offset int) *Node {
	return &Node{Kind: KindError, Text: text, Message: message, Offset: offset, index: -1}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Index returns the stable pre-order index of the node within its tree, or
// -1 for nodes that were not produced by Parse.
func (n *Node) Index() int {
	return n.index
}

// Len returns the length of the node's source text in bytes.
func (n *Node) Len() int {
	if n.IsLeaf() {
		return len(n.Text)
	}
	total := 0
	for _, child := range n.Children {
		total += child.Len()
	}
	return total
}

// End returns the byte offset just past the node.
func (n *Node) End() int {
	return n.Offset + n.Len()
}

// FullText reconstructs the exact source text covered by the node.
func (n *Node) FullText() string {
	if n.IsLeaf() {
		return n.Text
	}
	var sb strings.Builder
	sb.Grow(n.Len())
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.IsLeaf() {
		sb.WriteString(n.Text)
		return
	}
	for _, child := range n.Children {
		child.writeText(sb)
	}
}

// Erroneous reports whether the subtree contains an Error node.
func (n *Node) Erroneous() bool {
	return n.FirstError() != nil
}

// FirstError returns the first Error node in source order, or nil.
func (n *Node) FirstError() *Node {
	return FindFirst(n, func(node *Node) bool {
		return node.Kind == KindError
	})
}

// Contains reports whether the node's source text contains substr.
func (n *Node) Contains(substr string) bool {
	if n.IsLeaf() {
		return strings.Contains(n.Text, substr)
	}
	return strings.Contains(n.FullText(), substr)
}

// CountNewlines returns the number of line feeds in the node's text.
func (n *Node) CountNewlines() int {
	return strings.Count(n.FullText(), "\n")
}

// ChildOf returns the first direct child of the given kind, or nil.
func (n *Node) ChildOf(kind Kind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

// HasChild reports whether a direct child of the given kind exists.
func (n *Node) HasChild(kind Kind) bool {
	return n.ChildOf(kind) != nil
}

// Exprs returns the direct children that are expressions, in order.
func (n *Node) Exprs() []*Node {
	var exprs []*Node
	for _, child := range n.Children {
		if child.Kind.IsExpr() && child.Kind != KindSpace && child.Kind != KindParbreak {
			exprs = append(exprs, child)
		}
	}
	return exprs
}

// Line returns the 1-based line of offset within src.
func Line(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return strings.Count(src[:offset], "\n") + 1
}
