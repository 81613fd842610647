package graph

import "fmt"

// State is the derived completion state of a node.
type State int

const (
	// StateNone means no countable progress anywhere in the subtree.
	StateNone State = iota
	// StatePartial means some but not all countable descendants are complete.
	StatePartial
	// StateChecked means the node counts as complete.
	StateChecked
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StatePartial:
		return "partial"
	case StateChecked:
		return "checked"
	default:
		return "none"
	}
}

// AggregateOptions tunes completion aggregation.
type AggregateOptions struct {
	// IncludeArchived counts archived children toward a parent's completion.
	// Enabled by default: archiving hides a node from listings but does not
	// change what its parent's progress means.
	IncludeArchived bool
}

// DefaultAggregateOptions returns the options used when none are given.
func DefaultAggregateOptions() AggregateOptions {
	return AggregateOptions{IncludeArchived: true}
}

// State derives the completion state of a node with default options.
func (g *Graph) State(id NodeID) (State, error) {
	return g.StateWith(id, DefaultAggregateOptions())
}

// StateWith derives the completion state of a node.
//
// A leaf reports its stored checked flag. A node with countable children is
// Checked when every one of them is complete, Partial when any of them is
// partial or complete, and None otherwise. Pseudo children never count;
// archived children count per opts. A child whose own derived state is
// Checked counts as complete, and so does a child whose stored flag is set
// even if its subtree disagrees (an explicit check overrides aggregation).
//
// Cycles are cut on the active descent path: a back-edge contributes nothing
// rather than recursing forever.
func (g *Graph) StateWith(id NodeID, opts AggregateOptions) (State, error) {
	if _, ok := g.lookup(id); !ok {
		return StateNone, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return g.stateRecurse(id, opts, map[NodeID]bool{}), nil
}

func (g *Graph) stateRecurse(id NodeID, opts AggregateOptions, path map[NodeID]bool) State {
	n := g.nodes[id]

	countable := make([]NodeID, 0, len(n.Children))
	for _, c := range n.Children {
		child, ok := g.lookup(c)
		if !ok || path[c] {
			continue
		}
		if child.Kind == KindPseudo {
			continue
		}
		if child.Archived && !opts.IncludeArchived {
			continue
		}
		countable = append(countable, c)
	}

	if len(countable) == 0 {
		if n.Checked {
			return StateChecked
		}
		return StateNone
	}

	path[id] = true
	defer delete(path, id)

	complete, touched := 0, 0
	for _, c := range countable {
		s := g.stateRecurse(c, opts, path)
		if s == StateChecked || g.nodes[c].Checked {
			complete++
		}
		if s != StateNone {
			touched++
		}
	}
	switch {
	case complete == len(countable):
		return StateChecked
	case complete > 0 || touched > 0:
		return StatePartial
	default:
		return StateNone
	}
}

// Stats summarizes the live graph for the stats command.
type Stats struct {
	Nodes      int
	Tombstones int
	Roots      int
	Dates      int
	Archived   int
	Aliases    int
	Checked    int // live nodes whose derived state is Checked
}

// ComputeStats walks the table once and derives per-node state with default
// aggregation options.
func (g *Graph) ComputeStats() Stats {
	st := Stats{
		Tombstones: g.TombstoneCount(),
		Roots:      len(g.Roots()),
		Dates:      len(g.dates),
		Aliases:    len(g.aliases),
	}
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		st.Nodes++
		if n.Archived {
			st.Archived++
		}
		if g.stateRecurse(n.ID, DefaultAggregateOptions(), map[NodeID]bool{}) == StateChecked {
			st.Checked++
		}
	}
	return st
}
