package graph

import (
	"fmt"
	"math/rand/v2"
)

// Filter restricts which children a raffle may pick.
type Filter int

const (
	// FilterAll admits every child.
	FilterAll Filter = iota
	// FilterChecked admits only children whose derived completion state is
	// Checked.
	FilterChecked
	// FilterUnchecked admits only children whose derived completion state is
	// not Checked.
	FilterUnchecked
)

// admits reports whether the filter accepts the node. Completion is judged by
// the derived state, so a parent whose whole subtree is done counts as
// checked even when its own flag is unset. Pseudo nodes carry no completion
// and pass every filter.
func (g *Graph) admits(id NodeID, filter Filter) bool {
	if filter == FilterAll {
		return true
	}
	if g.nodes[id].Kind == KindPseudo {
		return true
	}
	checked := g.stateRecurse(id, DefaultAggregateOptions(), map[NodeID]bool{}) == StateChecked
	if filter == FilterChecked {
		return checked
	}
	return !checked
}

// Pick chooses one direct child of parent uniformly at random among those the
// filter admits. Archived and pseudo children are eligible like any other.
// Returns ErrEmptySelection when the filter admits no child. The caller
// provides the rng so tests can seed it.
func (g *Graph) Pick(rng *rand.Rand, parent NodeID, filter Filter) (NodeID, error) {
	p, ok := g.lookup(parent)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrNotFound, parent)
	}

	candidates := make([]NodeID, 0, len(p.Children))
	for _, c := range p.Children {
		if _, ok := g.lookup(c); !ok {
			continue
		}
		if g.admits(c, filter) {
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return 0, fmt.Errorf("%w: node %d", ErrEmptySelection, parent)
	}
	return candidates[rng.IntN(len(candidates))], nil
}

// PickRoot chooses uniformly among the graph's roots under the same filter.
func (g *Graph) PickRoot(rng *rand.Rand, filter Filter) (NodeID, error) {
	candidates := make([]NodeID, 0)
	for _, r := range g.Roots() {
		if g.admits(r, filter) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return 0, fmt.Errorf("%w: roots", ErrEmptySelection)
	}
	return candidates[rng.IntN(len(candidates))], nil
}
