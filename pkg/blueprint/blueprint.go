// Package blueprint extracts reusable subtree templates from the task graph
// and transplants them back in, into the same graph or another one.
//
// A blueprint is a self-contained document: its nodes are renumbered densely
// in depth-first visitation order starting at 0 (the subtree root), internal
// multi-parent edges are preserved, and edges leaving the subtree are cut.
// Aliases and archived flags never travel with a blueprint; they are local to
// the graph they were set in.
package blueprint

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkoster/tangle/pkg/graph"
)

// Version is the blueprint document format version.
const Version = 1

var (
	// ErrInvalid is returned when a blueprint document fails validation
	// before insertion.
	ErrInvalid = errors.New("invalid blueprint")
	// ErrDateCollision is returned by [Insert] when any date node in the
	// blueprint collides with an existing date in the target graph. Nothing
	// is inserted on collision.
	ErrDateCollision = errors.New("blueprint date already present in graph")
)

// Document is a stored blueprint. Node 0 is always the subtree root.
type Document struct {
	ID      uuid.UUID `yaml:"id"`
	Name    string    `yaml:"name"`
	Author  string    `yaml:"author,omitempty"`
	Version int       `yaml:"version"`
	Nodes   []Node    `yaml:"nodes"`
}

// Node is one blueprint entry. IDs are dense: Nodes[i].ID == i.
type Node struct {
	ID       int    `yaml:"id"`
	Message  string `yaml:"message"`
	Kind     string `yaml:"kind"`
	Date     string `yaml:"date,omitempty"`
	Checked  bool   `yaml:"checked,omitempty"`
	Parents  []int  `yaml:"parents,omitempty"`
	Children []int  `yaml:"children,omitempty"`
}

// =============================================================================
// Extraction
// =============================================================================

// Extract captures the subtree reachable from root as a blueprint named name.
// Nodes are renumbered densely in DFS visitation order (root becomes 0);
// edges to nodes outside the subtree are cut, internal edges including
// multi-parent ones are kept. With keep false the original subtree is removed
// from the graph afterwards, following the usual exclusive-reachability rule.
func Extract(g *graph.Graph, root graph.NodeID, name, author string, keep bool) (Document, error) {
	if _, err := g.Node(root); err != nil {
		return Document{}, err
	}

	order := []graph.NodeID{}
	index := map[graph.NodeID]int{}
	var visit func(id graph.NodeID)
	visit = func(id graph.NodeID) {
		if _, seen := index[id]; seen {
			return
		}
		index[id] = len(order)
		order = append(order, id)
		n, _ := g.Node(id)
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)

	d := Document{
		ID:      uuid.New(),
		Name:    name,
		Author:  author,
		Version: Version,
		Nodes:   make([]Node, len(order)),
	}
	for newID, oldID := range order {
		n, _ := g.Node(oldID)
		bn := Node{
			ID:      newID,
			Message: n.Message,
			Kind:    n.Kind.String(),
			Date:    n.Date,
			Checked: n.Checked,
		}
		for _, p := range n.Parents {
			if np, ok := index[p]; ok {
				bn.Parents = append(bn.Parents, np)
			}
		}
		for _, c := range n.Children {
			if nc, ok := index[c]; ok {
				bn.Children = append(bn.Children, nc)
			}
		}
		d.Nodes[newID] = bn
	}

	if !keep {
		if err := g.Remove(root); err != nil {
			return Document{}, err
		}
	}
	return d, nil
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks structural soundness: dense ids, known kinds, symmetric
// adjacency within range, no self-edges or duplicate edges, dates present
// exactly on date nodes.
func (d Document) Validate() error {
	if len(d.Nodes) == 0 {
		return fmt.Errorf("%w: no nodes", ErrInvalid)
	}
	seenDates := map[string]int{}
	for i, n := range d.Nodes {
		if n.ID != i {
			return fmt.Errorf("%w: node at position %d has id %d", ErrInvalid, i, n.ID)
		}
		switch n.Kind {
		case "task", "pseudo", "":
			if n.Date != "" {
				return fmt.Errorf("%w: node %d carries a date but is not a date node", ErrInvalid, i)
			}
		case "date":
			if n.Date == "" {
				return fmt.Errorf("%w: date node %d has no date", ErrInvalid, i)
			}
			if prev, dup := seenDates[n.Date]; dup {
				return fmt.Errorf("%w: nodes %d and %d share date %s", ErrInvalid, prev, i, n.Date)
			}
			seenDates[n.Date] = i
		default:
			return fmt.Errorf("%w: node %d has unknown kind %q", ErrInvalid, i, n.Kind)
		}
		seenChildren := map[int]bool{}
		for _, c := range n.Children {
			if c < 0 || c >= len(d.Nodes) {
				return fmt.Errorf("%w: node %d has out-of-range child %d", ErrInvalid, i, c)
			}
			if c == i {
				return fmt.Errorf("%w: node %d has a self-edge", ErrInvalid, i)
			}
			if seenChildren[c] {
				return fmt.Errorf("%w: duplicate edge %d->%d", ErrInvalid, i, c)
			}
			seenChildren[c] = true
			if !containsInt(d.Nodes[c].Parents, i) {
				return fmt.Errorf("%w: edge %d->%d is one-sided", ErrInvalid, i, c)
			}
		}
		seenParents := map[int]bool{}
		for _, p := range n.Parents {
			if p < 0 || p >= len(d.Nodes) {
				return fmt.Errorf("%w: node %d has out-of-range parent %d", ErrInvalid, i, p)
			}
			if seenParents[p] {
				return fmt.Errorf("%w: duplicate edge %d->%d", ErrInvalid, p, i)
			}
			seenParents[p] = true
			if !containsInt(d.Nodes[p].Children, i) {
				return fmt.Errorf("%w: edge %d->%d is one-sided", ErrInvalid, p, i)
			}
		}
	}
	return nil
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// =============================================================================
// Insertion
// =============================================================================

// Insert transplants the blueprint into g under parent, or as a new root when
// asRoot is set. Every blueprint node gets a fresh appended id; the returned
// id is the transplanted root. The whole insert is validated first — a date
// collision with the target graph aborts before any mutation.
func Insert(g *graph.Graph, d Document, parent graph.NodeID, asRoot bool) (graph.NodeID, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	if !asRoot {
		if _, err := g.Node(parent); err != nil {
			return 0, err
		}
	}
	for _, n := range d.Nodes {
		if n.Kind == "date" {
			if id, ok := g.ResolveDate(n.Date); ok {
				return 0, fmt.Errorf("%w: %s is node %d", ErrDateCollision, n.Date, id)
			}
		}
	}

	ids := make([]graph.NodeID, len(d.Nodes))
	for i, n := range d.Nodes {
		switch n.Kind {
		case "date":
			id, err := g.AddDate(n.Message, n.Date)
			if err != nil {
				return 0, err
			}
			ids[i] = id
		default:
			ids[i] = g.AddRoot(n.Message, n.Kind == "pseudo")
		}
		if n.Checked {
			g.SetChecked(ids[i], true)
		}
	}
	for i, n := range d.Nodes {
		for _, c := range n.Children {
			if err := g.Link(ids[i], ids[c]); err != nil {
				return 0, err
			}
		}
	}
	if !asRoot {
		if err := g.Link(parent, ids[0]); err != nil {
			return 0, err
		}
	}
	return ids[0], nil
}

// ToGraph materializes the blueprint as a standalone graph, with ids matching
// the blueprint's own numbering. The CLI's blueprint editing commands operate
// on this graph with the same handlers used for the main one.
func (d Document) ToGraph() (*graph.Graph, error) {
	g := graph.New()
	if _, err := Insert(g, d, 0, true); err != nil {
		return nil, err
	}
	return g, nil
}

// FromGraph re-extracts a blueprint from a materialized graph, keeping the
// document's identity fields. The graph's node 0 is the blueprint root.
func (d Document) FromGraph(g *graph.Graph) (Document, error) {
	out, err := Extract(g, 0, d.Name, d.Author, true)
	if err != nil {
		return Document{}, err
	}
	out.ID = d.ID
	return out, nil
}
