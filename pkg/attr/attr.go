// Package attr classifies syntax nodes before formatting. A Store is built
// with one traversal of the tree and then answers every attribute query
// from an index-aligned table.
package attr

import (
	"strings"

	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// DisableSentinel turns formatting off for the next sibling when it
// appears inside a comment.
const DisableSentinel = "@typstyle off"

// Attrs holds the classification of a single node.
type Attrs struct {
	// Multiline is set when the source already breaks the node across
	// lines. For bracketed lists only line breaks between the delimiters
	// and the items count; for other nodes any line feed in the span does.
	Multiline bool

	// FormatDisabled is set for nodes emitted verbatim: nodes following a
	// disable comment, two-dimensional argument lists, nodes holding a
	// comment where the formatter cannot place it, and their descendants.
	FormatDisabled bool

	// Unformattable is set for constructs that cannot be rearranged without
	// changing meaning, such as field access chains interleaved with
	// comments.
	Unformattable bool
}

// Store holds the attributes of every node of one tree.
type Store struct {
	base  int
	attrs []Attrs
}

// New classifies every node under root. root must come from syntax.Parse
// or one of its variants so that nodes carry their pre-order index.
func New(root *syntax.Node) *Store {
	s := &Store{}
	if root == nil || root.Index() < 0 {
		return s
	}
	s.base = root.Index()
	s.attrs = make([]Attrs, syntax.Count(root))

	var disabled []*syntax.Node
	s.visit(root, &disabled)
	for _, node := range disabled {
		s.disable(node)
	}
	return s
}

// Get returns the attributes of n. Nodes outside the tree report zero
// attributes.
func (s *Store) Get(n *syntax.Node) Attrs {
	if n == nil {
		return Attrs{}
	}
	i := n.Index() - s.base
	if i < 0 || i >= len(s.attrs) {
		return Attrs{}
	}
	return s.attrs[i]
}

// IsMultiline reports whether n spans several source lines.
func (s *Store) IsMultiline(n *syntax.Node) bool {
	return s.Get(n).Multiline
}

// IsFormatDisabled reports whether n must be emitted verbatim.
func (s *Store) IsFormatDisabled(n *syntax.Node) bool {
	return s.Get(n).FormatDisabled
}

// IsUnformattable reports whether n cannot be safely rearranged.
func (s *Store) IsUnformattable(n *syntax.Node) bool {
	return s.Get(n).Unformattable
}

func (s *Store) slot(n *syntax.Node) *Attrs {
	return &s.attrs[n.Index()-s.base]
}

// visit fills the attributes of n's subtree bottom-up, collects the roots
// of disabled regions, and reports whether n's span contains a line feed.
func (s *Store) visit(n *syntax.Node, disabled *[]*syntax.Node) bool {
	if n.IsLeaf() {
		newline := strings.Contains(n.Text, "\n")
		s.slot(n).Multiline = newline
		return newline
	}

	newline := false
	gapBreak := false
	hasComment := false
	pendingOff := false

	for _, child := range n.Children {
		childNewline := s.visit(child, disabled)
		newline = newline || childNewline

		switch {
		case child.Kind.IsComment():
			hasComment = true
			if strings.Contains(child.Text, DisableSentinel) {
				pendingOff = true
				*disabled = append(*disabled, child)
			}
			continue
		case child.Kind == syntax.KindSpace:
			gapBreak = gapBreak || childNewline
		}

		switch {
		case child.Kind == syntax.KindArgs && is2DArgs(child):
			*disabled = append(*disabled, child)
		case child.IsLeaf():
		case pendingOff:
			*disabled = append(*disabled, child)
			pendingOff = false
		}
	}

	attrs := s.slot(n)
	if isList(n.Kind) {
		attrs.Multiline = gapBreak
	} else {
		attrs.Multiline = newline
	}
	switch {
	case !hasComment:
	case n.Kind == syntax.KindFieldAccess:
		attrs.Unformattable = true
	case !commentAware(n.Kind):
		*disabled = append(*disabled, n)
	}
	return newline
}

func (s *Store) disable(n *syntax.Node) {
	attrs := s.slot(n)
	if attrs.FormatDisabled {
		return
	}
	attrs.FormatDisabled = true
	for _, child := range n.Children {
		s.disable(child)
	}
}

// is2DArgs reports whether an argument list separates rows with
// semicolons.
func is2DArgs(args *syntax.Node) bool {
	return args.HasChild(syntax.KindSemicolon)
}

// isList reports whether the kind is a bracketed, comma-separated list.
func isList(kind syntax.Kind) bool {
	switch kind {
	case syntax.KindArgs, syntax.KindArray, syntax.KindDict, syntax.KindParams,
		syntax.KindDestructuring, syntax.KindImportItems:
		return true
	default:
		return false
	}
}

// commentAware reports whether the formatter places comments that appear
// directly inside a node of this kind. A comment anywhere else disables
// formatting of the node that holds it.
//
// A comment inside one of these containers never disables the container.
// Treating every kind as comment-unaware would turn any commented body,
// including whole code and content blocks, into verbatim text; the
// sentinel and expression tests in attr_test.go pin the narrower rule.
func commentAware(kind syntax.Kind) bool {
	switch kind {
	case syntax.KindMarkup, syntax.KindContentBlock, syntax.KindCodeBlock, syntax.KindCode,
		syntax.KindArgs, syntax.KindArray, syntax.KindDict, syntax.KindParams,
		syntax.KindDestructuring, syntax.KindMath:
		return true
	default:
		return false
	}
}
