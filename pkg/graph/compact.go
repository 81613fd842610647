package graph

// Compact rebuilds the node table without tombstones and returns the number
// of slots reclaimed. Live nodes are renumbered densely in ascending order of
// their old ids, so relative order survives; adjacency lists and both indexes
// are rewritten to the new ids. All previously issued NodeIDs are invalid
// after compaction.
func (g *Graph) Compact() int {
	reclaimed := g.TombstoneCount()
	if reclaimed == 0 {
		return 0
	}

	remap := make(map[NodeID]NodeID, g.NodeCount())
	next := NodeID(0)
	for _, n := range g.nodes {
		if n != nil {
			remap[n.ID] = next
			next++
		}
	}

	dense := make([]*Node, 0, len(remap))
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		n.ID = remap[n.ID]
		for i, p := range n.Parents {
			n.Parents[i] = remap[p]
		}
		for i, c := range n.Children {
			n.Children[i] = remap[c]
		}
		dense = append(dense, n)
	}
	g.nodes = dense

	for a, id := range g.aliases {
		g.aliases[a] = remap[id]
	}
	for d, id := range g.dates {
		g.dates[d] = remap[id]
	}
	return reclaimed
}
