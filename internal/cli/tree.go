package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkoster/tangle/pkg/graph"
)

// Tree glyphs. A multi-parent node branches with dots instead of dashes so
// shared nodes stand out in the listing.
const (
	glyphPipe        = " |  "
	glyphBlank       = "    "
	glyphBranch      = " +--"
	glyphMultiBranch = " +.."
)

// treeRenderer writes the traversal feed as an indented tree.
type treeRenderer struct {
	w               io.Writer
	g               *graph.Graph
	agg             graph.AggregateOptions
	showConnections bool

	// open[d] reports whether the ancestor at depth d has more siblings
	// coming, which keeps its pipe visible on deeper lines.
	open []bool
}

func (c *CLI) newTreeRenderer(w io.Writer, g *graph.Graph) *treeRenderer {
	return &treeRenderer{
		w:               w,
		g:               g,
		agg:             c.aggregateOptions(),
		showConnections: c.cfg.Display.ShowConnections,
	}
}

// renderSubtree prints the node itself followed by its descendants.
func (r *treeRenderer) renderSubtree(id graph.NodeID, opts graph.WalkOptions) error {
	n, err := r.g.Node(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.w, r.nodeLine(n, false))
	r.open = r.open[:0]
	return r.g.Walk(id, opts, r.visit)
}

// renderRoots prints every root with its subtree.
func (r *treeRenderer) renderRoots(opts graph.WalkOptions) {
	r.open = r.open[:0]
	r.g.WalkRoots(opts, r.visit)
}

func (r *treeRenderer) visit(v graph.Visit) bool {
	if len(r.open) <= v.Depth {
		r.open = append(r.open, make([]bool, v.Depth+1-len(r.open))...)
	}
	r.open = r.open[:v.Depth+1]
	r.open[v.Depth] = !v.LastSibling

	var b strings.Builder
	for _, o := range r.open[:v.Depth] {
		if o {
			b.WriteString(glyphPipe)
		} else {
			b.WriteString(glyphBlank)
		}
	}
	if v.MultiParent {
		b.WriteString(glyphMultiBranch)
	} else {
		b.WriteString(glyphBranch)
	}

	n, err := r.g.Node(v.ID)
	if err != nil {
		return true
	}
	b.WriteString(r.nodeLine(n, v.CycleRef))
	fmt.Fprintln(r.w, b.String())
	return true
}

// nodeLine formats one node: state icon, message, and decorations.
func (r *treeRenderer) nodeLine(n *graph.Node, cycleRef bool) string {
	state, _ := r.g.StateWith(n.ID, r.agg)

	var b strings.Builder
	b.WriteString(stateIcon(n.Kind, state))
	b.WriteByte(' ')
	if n.Archived {
		b.WriteString(styleArchived.Render(n.Message))
	} else {
		b.WriteString(n.Message)
	}
	if n.Kind == graph.KindDate {
		b.WriteString(" " + StyleDate.Render(n.Date))
	}
	if n.Alias != "" {
		b.WriteString(" " + StyleAlias.Render("("+n.Alias+")"))
	}
	if cycleRef {
		b.WriteString(" " + StyleDim.Render("(cycle)"))
	}
	if r.showConnections {
		tag := fmt.Sprintf("#%d", n.ID)
		if len(n.Parents) > 1 {
			tag += fmt.Sprintf(" ^%d", len(n.Parents))
		}
		b.WriteString(" " + StyleDim.Render(tag))
	}
	return b.String()
}
