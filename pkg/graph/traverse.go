package graph

import "fmt"

// Visit describes one node event emitted by [Graph.Walk]. Rendering layers
// turn the flags into tree glyphs without re-querying the graph.
type Visit struct {
	ID          NodeID
	Depth       int  // 0 at the walk's start node
	LastSibling bool // last child emitted under its parent at this position
	MultiParent bool // node has more than one parent
	CycleRef    bool // node is already on the active ancestor path; not descended into
}

// WalkOptions tunes a traversal.
type WalkOptions struct {
	// MaxDepth bounds the descent; 0 means unbounded. Depth 1 emits only the
	// start node's children.
	MaxDepth int
	// ShowArchived includes archived nodes; otherwise they and their subtrees
	// are skipped entirely.
	ShowArchived bool
}

// WalkFunc receives each visit in depth-first order. Returning false stops
// the walk early.
type WalkFunc func(v Visit) bool

// Walk traverses the subtree under start in depth-first order, emitting the
// children of start (not start itself) and their descendants. Each node is
// emitted once per path that reaches it; a node already on the active
// ancestor path is emitted with CycleRef set and not descended into, so
// cyclic graphs terminate. Diamonds (shared descendants off the active path)
// are expanded per path.
func (g *Graph) Walk(start NodeID, opts WalkOptions, fn WalkFunc) error {
	n, ok := g.lookup(start)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, start)
	}
	path := map[NodeID]bool{start: true}
	g.walkChildren(n, 0, opts, path, fn)
	return nil
}

// WalkRoots traverses every root in ascending id order as if each were the
// child of a synthetic super-root at depth 0.
func (g *Graph) WalkRoots(opts WalkOptions, fn WalkFunc) {
	roots := g.Roots()
	visible := g.filterVisible(roots, opts)
	for i, r := range visible {
		v := Visit{
			ID:          r,
			Depth:       0,
			LastSibling: i == len(visible)-1,
			MultiParent: len(g.nodes[r].Parents) > 1,
		}
		if !fn(v) {
			return
		}
		stopped := false
		g.walkChildren(g.nodes[r], 1, opts, map[NodeID]bool{r: true}, func(v Visit) bool {
			if !fn(v) {
				stopped = true
				return false
			}
			return true
		})
		if stopped {
			return
		}
	}
}

// walkChildren emits n's visible children at the given depth and recurses.
// Returns false if fn stopped the walk.
func (g *Graph) walkChildren(n *Node, depth int, opts WalkOptions, path map[NodeID]bool, fn WalkFunc) bool {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return true
	}
	visible := g.filterVisible(n.Children, opts)
	for i, c := range visible {
		child := g.nodes[c]
		v := Visit{
			ID:          c,
			Depth:       depth,
			LastSibling: i == len(visible)-1,
			MultiParent: len(child.Parents) > 1,
			CycleRef:    path[c],
		}
		if !fn(v) {
			return false
		}
		if v.CycleRef {
			continue
		}
		path[c] = true
		ok := g.walkChildren(child, depth+1, opts, path, fn)
		delete(path, c)
		if !ok {
			return false
		}
	}
	return true
}

func (g *Graph) filterVisible(ids []NodeID, opts WalkOptions) []NodeID {
	out := make([]NodeID, 0, len(ids))
	for _, id := range ids {
		n, ok := g.lookup(id)
		if !ok {
			continue
		}
		if n.Archived && !opts.ShowArchived {
			continue
		}
		out = append(out, id)
	}
	return out
}
