// Package treeviz renders syntax trees for inspection.
package treeviz

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/yaklabco/gotypstyle/pkg/attr"
	"github.com/yaklabco/gotypstyle/pkg/syntax"
)

// maxLabelText truncates leaf text in labels.
const maxLabelText = 24

// Dump writes one line per node, indented by depth:
//
//	Kind [offset] "leaf text" flags
//
// Flags list the attributes set by store. store may be nil.
func Dump(w io.Writer, root *syntax.Node, store *attr.Store) error {
	bw := bufio.NewWriter(w)
	dump(bw, root, store, 0)
	return bw.Flush()
}

func dump(w *bufio.Writer, n *syntax.Node, store *attr.Store, depth int) {
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString(n.Kind.String())
	fmt.Fprintf(w, " [%d]", n.Offset)
	if n.IsLeaf() {
		w.WriteString(" " + strconv.Quote(n.Text))
	}
	if n.Kind == syntax.KindError && n.Message != "" {
		w.WriteString(" (" + n.Message + ")")
	}
	if flags := flags(n, store); len(flags) > 0 {
		w.WriteString(" " + strings.Join(flags, " "))
	}
	w.WriteByte('\n')

	for _, child := range n.Children {
		dump(w, child, store, depth+1)
	}
}

func flags(n *syntax.Node, store *attr.Store) []string {
	if store == nil {
		return nil
	}
	a := store.Get(n)
	var out []string
	if a.Multiline {
		out = append(out, "multiline")
	}
	if a.FormatDisabled {
		out = append(out, "disabled")
	}
	if a.Unformattable {
		out = append(out, "unformattable")
	}
	return out
}

// ToDOT converts a tree to Graphviz DOT. Disabled nodes are shaded and
// unformattable nodes are outlined in red.
func ToDOT(root *syntax.Node, store *attr.Store) string {
	var buf bytes.Buffer
	buf.WriteString("digraph syntax {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\"];\n\n")

	var edges []string

	//nolint:errcheck // the callback never fails
	syntax.Walk(root, func(n *syntax.Node) error {
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(n), strings.Join(nodeAttrs(n, store), ", "))
		for _, child := range n.Children {
			edges = append(edges, fmt.Sprintf("  %s -> %s;\n", nodeID(n), nodeID(child)))
		}
		return nil
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(n *syntax.Node) string {
	return "n" + strconv.Itoa(n.Index())
}

func nodeAttrs(n *syntax.Node, store *attr.Store) []string {
	label := n.Kind.String()
	if n.IsLeaf() {
		text := n.Text
		if len(text) > maxLabelText {
			text = text[:maxLabelText] + "..."
		}
		label += "\n" + strconv.Quote(text)
	}
	attrs := []string{"label=" + strconv.Quote(label)}

	for _, f := range flags(n, store) {
		switch f {
		case "disabled":
			attrs = append(attrs, "fillcolor=lightgrey")
		case "unformattable":
			attrs = append(attrs, "color=red")
		case "multiline":
			attrs = append(attrs, "penwidth=2")
		}
	}
	return attrs
}

// RenderSVG renders DOT to SVG with the embedded Graphviz engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
