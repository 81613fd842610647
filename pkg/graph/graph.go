// Package graph implements the node graph engine behind tangle: a persisted
// multigraph of task nodes where a node may have several parents and several
// children, may be anchored to a calendar date, and may be archived or
// excluded from completion accounting.
//
// The graph is an arena: a sparse table mapping NodeID to a node, where a nil
// slot is a tombstone left behind by removal. Tombstones are reclaimed only by
// [Graph.Compact], never by direct allocation, so IDs stay stable between
// compactions. Two auxiliary indexes (alias → id, calendar date → id) are kept
// consistent with the table across every mutation.
//
// Cycles through multiple parents are legal and tolerated by traversal;
// only direct self-edges are structurally forbidden. The graph is not safe
// for concurrent use.
package graph

import (
	"fmt"
	"sort"
)

// Graph owns the sparse node table and the alias and date indexes.
// The zero value is not usable, call [New] or [FromSlots].
type Graph struct {
	nodes   []*Node
	aliases map[string]NodeID
	dates   map[string]NodeID
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		aliases: make(map[string]NodeID),
		dates:   make(map[string]NodeID),
	}
}

// FromSlots reconstructs a graph from a raw node table, including tombstones.
// The indexes are rebuilt from the nodes themselves. Returns ErrCorrupt if the
// table violates any invariant: slot/ID mismatch, an edge referencing a dead
// slot, asymmetric adjacency, a duplicate alias, or a duplicate date.
func FromSlots(slots []*Node) (*Graph, error) {
	g := &Graph{
		nodes:   slots,
		aliases: make(map[string]NodeID),
		dates:   make(map[string]NodeID),
	}

	for i, n := range slots {
		if n == nil {
			continue
		}
		if n.ID != NodeID(i) {
			return nil, fmt.Errorf("%w: slot %d holds node %d", ErrCorrupt, i, n.ID)
		}
		for _, c := range n.Children {
			child, ok := g.lookup(c)
			if !ok {
				return nil, fmt.Errorf("%w: node %d has dead child %d", ErrCorrupt, n.ID, c)
			}
			if !child.HasParent(n.ID) {
				return nil, fmt.Errorf("%w: edge %d->%d is one-sided", ErrCorrupt, n.ID, c)
			}
		}
		for _, p := range n.Parents {
			parent, ok := g.lookup(p)
			if !ok {
				return nil, fmt.Errorf("%w: node %d has dead parent %d", ErrCorrupt, n.ID, p)
			}
			if !parent.HasChild(n.ID) {
				return nil, fmt.Errorf("%w: edge %d->%d is one-sided", ErrCorrupt, p, n.ID)
			}
		}
		if n.Alias != "" {
			if prev, ok := g.aliases[n.Alias]; ok {
				return nil, fmt.Errorf("%w: alias %q bound to both %d and %d", ErrCorrupt, n.Alias, prev, n.ID)
			}
			g.aliases[n.Alias] = n.ID
		}
		if n.Kind == KindDate {
			if prev, ok := g.dates[n.Date]; ok {
				return nil, fmt.Errorf("%w: date %s bound to both %d and %d", ErrCorrupt, n.Date, prev, n.ID)
			}
			g.dates[n.Date] = n.ID
		}
	}
	return g, nil
}

// Slots returns the raw node table including tombstones (nil entries).
// The slice and its nodes belong to the graph; treat them as read-only.
// Persistence uses this to round-trip the table losslessly.
func (g *Graph) Slots() []*Node { return g.nodes }

// =============================================================================
// Lookup
// =============================================================================

func (g *Graph) lookup(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) || g.nodes[id] == nil {
		return nil, false
	}
	return g.nodes[id], true
}

// Node returns the live node with the given id.
// The returned pointer refers to the actual node in the graph; treat it as
// read-only and mutate through Graph methods instead.
func (g *Graph) Node(id NodeID) (*Node, error) {
	n, ok := g.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return n, nil
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int {
	count := 0
	for _, n := range g.nodes {
		if n != nil {
			count++
		}
	}
	return count
}

// SlotCount returns the total table size, live nodes plus tombstones.
func (g *Graph) SlotCount() int { return len(g.nodes) }

// TombstoneCount returns the number of tombstoned slots.
func (g *Graph) TombstoneCount() int { return len(g.nodes) - g.NodeCount() }

// TombstoneRatio returns the fraction of the table occupied by tombstones,
// in [0,1]. An empty table has ratio 0. Auto-compaction compares this against
// the configured threshold after mutating commands.
func (g *Graph) TombstoneRatio() float64 {
	if len(g.nodes) == 0 {
		return 0
	}
	return float64(g.TombstoneCount()) / float64(len(g.nodes))
}

// Roots returns the ids of live non-date nodes with no parents, ascending.
// Date nodes are excluded: they are listed through [Graph.DateNodes] instead.
func (g *Graph) Roots() []NodeID {
	var roots []NodeID
	for _, n := range g.nodes {
		if n != nil && len(n.Parents) == 0 && n.Kind != KindDate {
			roots = append(roots, n.ID)
		}
	}
	return roots
}

// DateNodes returns the ids of all date nodes ordered by calendar date.
func (g *Graph) DateNodes() []NodeID {
	keys := make([]string, 0, len(g.dates))
	for d := range g.dates {
		keys = append(keys, d)
	}
	sort.Strings(keys)
	ids := make([]NodeID, len(keys))
	for i, d := range keys {
		ids[i] = g.dates[d]
	}
	return ids
}

// ArchivedNodes returns the ids of all archived live nodes, ascending.
func (g *Graph) ArchivedNodes() []NodeID {
	var ids []NodeID
	for _, n := range g.nodes {
		if n != nil && n.Archived {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// AliasIndex returns a copy of the alias index.
func (g *Graph) AliasIndex() map[string]NodeID {
	out := make(map[string]NodeID, len(g.aliases))
	for a, id := range g.aliases {
		out[a] = id
	}
	return out
}

// ResolveAlias returns the node bound to alias, if any.
func (g *Graph) ResolveAlias(alias string) (NodeID, bool) {
	id, ok := g.aliases[alias]
	return id, ok
}

// ResolveDate returns the date node for the given calendar date ("2006-01-02"),
// if one exists.
func (g *Graph) ResolveDate(date string) (NodeID, bool) {
	id, ok := g.dates[date]
	return id, ok
}

// =============================================================================
// Insertion
// =============================================================================

func (g *Graph) alloc(message string, kind Kind) *Node {
	n := &Node{
		ID:      NodeID(len(g.nodes)),
		Message: message,
		Kind:    kind,
	}
	g.nodes = append(g.nodes, n)
	return n
}

// AddRoot inserts a parentless node and returns its id.
func (g *Graph) AddRoot(message string, pseudo bool) NodeID {
	kind := KindTask
	if pseudo {
		kind = KindPseudo
	}
	return g.alloc(message, kind).ID
}

// AddChild inserts a node as the last child of parent and returns its id.
func (g *Graph) AddChild(message string, parent NodeID, pseudo bool) (NodeID, error) {
	p, ok := g.lookup(parent)
	if !ok {
		return 0, fmt.Errorf("%w: parent %d", ErrNotFound, parent)
	}
	kind := KindTask
	if pseudo {
		kind = KindPseudo
	}
	n := g.alloc(message, kind)
	p.Children = append(p.Children, n.ID)
	n.Parents = append(n.Parents, parent)
	return n.ID, nil
}

// AddDate inserts a date node for the given calendar date ("2006-01-02").
// Returns ErrDuplicateDate if a node for that date already exists; target the
// existing node directly instead.
func (g *Graph) AddDate(message, date string) (NodeID, error) {
	if id, ok := g.dates[date]; ok {
		return 0, fmt.Errorf("%w: %s is node %d", ErrDuplicateDate, date, id)
	}
	n := g.alloc(message, KindDate)
	n.Date = date
	g.dates[date] = n.ID
	return n.ID, nil
}

// =============================================================================
// Edges
// =============================================================================

// Link adds a parent→child edge, updating both adjacency sides.
// Rejects self-edges and duplicate parallel edges with ErrInvalidEdge.
func (g *Graph) Link(parent, child NodeID) error {
	if parent == child {
		return fmt.Errorf("%w: self-edge on %d", ErrInvalidEdge, parent)
	}
	p, ok := g.lookup(parent)
	if !ok {
		return fmt.Errorf("%w: parent %d", ErrNotFound, parent)
	}
	c, ok := g.lookup(child)
	if !ok {
		return fmt.Errorf("%w: child %d", ErrNotFound, child)
	}
	if p.HasChild(child) {
		return fmt.Errorf("%w: duplicate edge %d->%d", ErrInvalidEdge, parent, child)
	}
	p.Children = append(p.Children, child)
	c.Parents = append(c.Parents, parent)
	return nil
}

// Unlink removes the parent→child edge from both adjacency sides.
// Returns ErrInvalidEdge if no such edge exists.
func (g *Graph) Unlink(parent, child NodeID) error {
	p, ok := g.lookup(parent)
	if !ok {
		return fmt.Errorf("%w: parent %d", ErrNotFound, parent)
	}
	c, ok := g.lookup(child)
	if !ok {
		return fmt.Errorf("%w: child %d", ErrNotFound, child)
	}
	if !p.HasChild(child) {
		return fmt.Errorf("%w: no edge %d->%d", ErrInvalidEdge, parent, child)
	}
	p.Children = removeID(p.Children, child)
	c.Parents = removeID(c.Parents, parent)
	return nil
}

// Move detaches node from all current parents and attaches it as the last
// child of parent. Validated up front, applied all-or-nothing.
func (g *Graph) Move(node, parent NodeID) error {
	if node == parent {
		return fmt.Errorf("%w: self-edge on %d", ErrInvalidEdge, node)
	}
	n, ok := g.lookup(node)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, node)
	}
	p, ok := g.lookup(parent)
	if !ok {
		return fmt.Errorf("%w: parent %d", ErrNotFound, parent)
	}
	for _, old := range n.Parents {
		g.nodes[old].Children = removeID(g.nodes[old].Children, node)
	}
	n.Parents = n.Parents[:0]
	p.Children = append(p.Children, node)
	n.Parents = append(n.Parents, parent)
	return nil
}

// Reorder shifts node by delta positions among parent's children; negative
// delta moves toward the front. The target position is clamped to the sibling
// range, so over-large shifts land at the edge rather than failing.
func (g *Graph) Reorder(node, parent NodeID, delta int) error {
	p, ok := g.lookup(parent)
	if !ok {
		return fmt.Errorf("%w: parent %d", ErrNotFound, parent)
	}
	if _, ok := g.lookup(node); !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, node)
	}
	pos := -1
	for i, c := range p.Children {
		if c == node {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: %d is not a child of %d", ErrInvalidEdge, node, parent)
	}
	target := pos + delta
	if target < 0 {
		target = 0
	}
	if target >= len(p.Children) {
		target = len(p.Children) - 1
	}
	if target == pos {
		return nil
	}
	children := append([]NodeID(nil), p.Children...)
	children = append(children[:pos], children[pos+1:]...)
	rest := append([]NodeID{node}, children[target:]...)
	p.Children = append(children[:target], rest...)
	return nil
}

// =============================================================================
// Removal
// =============================================================================

// Remove detaches id from all parents, then tombstones id together with every
// descendant reachable exclusively through id. A descendant that keeps at
// least one surviving parent outside the removed region stays alive and is
// merely detached from it.
func (g *Graph) Remove(id NodeID) error {
	n, ok := g.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	for _, p := range n.Parents {
		g.nodes[p].Children = removeID(g.nodes[p].Children, id)
	}
	n.Parents = n.Parents[:0]
	g.tombstone(n)
	return nil
}

// tombstone clears n's index entries, nils the slot, detaches its children,
// and recurses into children orphaned by the detachment. Date nodes are never
// cascaded into: they stay alive as empty anchors even with no other parents.
func (g *Graph) tombstone(n *Node) {
	if n.Alias != "" {
		delete(g.aliases, n.Alias)
	}
	if n.Kind == KindDate {
		delete(g.dates, n.Date)
	}
	children := append([]NodeID(nil), n.Children...)
	g.nodes[n.ID] = nil
	for _, c := range children {
		child, ok := g.lookup(c)
		if !ok {
			continue // already gone via another path inside the removed region
		}
		child.Parents = removeID(child.Parents, n.ID)
		if len(child.Parents) == 0 && child.Kind != KindDate {
			g.tombstone(child)
		}
	}
}

// =============================================================================
// Node attributes
// =============================================================================

// SetChecked sets the node's stored checked flag. The effective completion
// state of a node with children is derived by [Graph.State], not stored.
func (g *Graph) SetChecked(id NodeID, checked bool) error {
	n, ok := g.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	n.Checked = checked
	return nil
}

// SetArchived sets the node's archived flag. Archived nodes are hidden from
// default listings but remain fully linked in the graph.
func (g *Graph) SetArchived(id NodeID, archived bool) error {
	n, ok := g.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	n.Archived = archived
	return nil
}

// Rename replaces the node's message.
func (g *Graph) Rename(id NodeID, message string) error {
	n, ok := g.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	n.Message = message
	return nil
}

// SetAlias binds alias to the node, replacing any alias the node had before.
// An empty alias clears the binding. Returns ErrDuplicateAlias if the alias is
// already bound to a different live node.
func (g *Graph) SetAlias(id NodeID, alias string) error {
	n, ok := g.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if alias == "" {
		return g.ClearAlias(id)
	}
	if prev, ok := g.aliases[alias]; ok && prev != id {
		return fmt.Errorf("%w: %q is node %d", ErrDuplicateAlias, alias, prev)
	}
	if n.Alias != "" {
		delete(g.aliases, n.Alias)
	}
	n.Alias = alias
	g.aliases[alias] = id
	return nil
}

// ClearAlias removes the node's alias binding, if any.
func (g *Graph) ClearAlias(id NodeID) error {
	n, ok := g.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if n.Alias != "" {
		delete(g.aliases, n.Alias)
		n.Alias = ""
	}
	return nil
}

// =============================================================================
// Copying
// =============================================================================

// Copy inserts a copy of node from (message, kind, stored checked state) as a
// new child of to, and returns the new id. Aliases, dates and archived flags
// are not copied; a date node copies as a plain task.
func (g *Graph) Copy(from, to NodeID) (NodeID, error) {
	src, ok := g.lookup(from)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrNotFound, from)
	}
	id, err := g.AddChild(src.Message, to, src.Kind == KindPseudo)
	if err != nil {
		return 0, err
	}
	g.nodes[id].Checked = src.Checked
	return id, nil
}

// CopyRecursive copies the whole subtree rooted at from under to. A node
// reached through several internal paths is duplicated per path (the copy is
// a tree); revisits of a node already on the active descent path are skipped
// so cyclic subgraphs terminate.
func (g *Graph) CopyRecursive(from, to NodeID) error {
	return g.copyRecurse(from, to, map[NodeID]bool{})
}

func (g *Graph) copyRecurse(from, to NodeID, path map[NodeID]bool) error {
	if path[from] {
		return nil
	}
	id, err := g.Copy(from, to)
	if err != nil {
		return err
	}
	path[from] = true
	defer delete(path, from)
	src, _ := g.lookup(from)
	for _, c := range append([]NodeID(nil), src.Children...) {
		if err := g.copyRecurse(c, id, path); err != nil {
			return err
		}
	}
	return nil
}
