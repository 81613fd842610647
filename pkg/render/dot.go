// Package render turns a task graph into Graphviz output: DOT text, or SVG
// and PNG rendered through the embedded Graphviz engine.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/pkoster/tangle/pkg/graph"
)

// Options configures graph rendering.
type Options struct {
	// ShowArchived includes archived nodes in the output.
	ShowArchived bool
	// Detailed includes the node id and kind in labels.
	Detailed bool
}

// ToDOT converts the graph to Graphviz DOT. Every live node becomes a box
// colored by its derived completion state; date nodes are drawn as ellipses
// with their calendar date, pseudo nodes with dashed outlines.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tangle {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Slots() {
		if n == nil || (n.Archived && !opts.ShowArchived) {
			continue
		}
		state, _ := g.State(n.ID)
		attrs := nodeAttrs(n, state, opts.Detailed)
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range g.Slots() {
		if n == nil || (n.Archived && !opts.ShowArchived) {
			continue
		}
		for _, c := range n.Children {
			child, err := g.Node(c)
			if err != nil || (child.Archived && !opts.ShowArchived) {
				continue
			}
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", n.ID, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *graph.Node, state graph.State, detailed bool) []string {
	label := n.Message
	if n.Kind == graph.KindDate {
		label = n.Message + "\n" + n.Date
	}
	if n.Alias != "" {
		label += "\n(" + n.Alias + ")"
	}
	if detailed {
		label += fmt.Sprintf("\n#%d %s", n.ID, n.Kind)
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Kind == graph.KindPseudo:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	case n.Kind == graph.KindDate:
		attrs = append(attrs, "shape=ellipse", "fillcolor=lightblue")
	case state == graph.StateChecked:
		attrs = append(attrs, "fillcolor=palegreen")
	case state == graph.StatePartial:
		attrs = append(attrs, "fillcolor=khaki")
	}
	if n.Archived {
		attrs = append(attrs, "fontcolor=grey")
	}
	return attrs
}

// SVG renders DOT text to SVG bytes.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// PNG renders DOT text to PNG bytes.
func PNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
