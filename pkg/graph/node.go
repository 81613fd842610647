package graph

// NodeID identifies a node in the graph. IDs are non-negative and stable for
// the node's lifetime: a removed node leaves a tombstone slot behind, and the
// slot is only reused after [Graph.Compact] renumbers the table.
type NodeID int

// Kind distinguishes the node variants. Completion aggregation and rendering
// switch on the kind explicitly.
type Kind int

const (
	// KindTask is a regular task node with a stored checked flag.
	KindTask Kind = iota
	// KindPseudo marks an organizational container. Pseudo nodes are excluded
	// from completion accounting entirely, though their subtree is still
	// traversed and displayed.
	KindPseudo
	// KindDate anchors a node to one calendar date. At most one date node
	// exists per calendar date.
	KindDate
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindPseudo:
		return "pseudo"
	case KindDate:
		return "date"
	default:
		return "task"
	}
}

// Node is a single entry in the graph. A node may have multiple parents and
// multiple children; children keep insertion order (which is display order),
// parents are an unordered set. Neither side holds duplicates.
//
// Mutate nodes through [Graph] methods only — direct edits bypass the alias
// and date indexes and the adjacency bookkeeping.
type Node struct {
	ID       NodeID
	Message  string
	Kind     Kind
	Date     string // "2006-01-02", set only for KindDate
	Checked  bool   // stored state; effective state is derived, see State
	Archived bool
	Alias    string // optional, unique across live nodes
	Parents  []NodeID
	Children []NodeID
}

// HasParent reports whether p is a parent of the node.
func (n *Node) HasParent(p NodeID) bool {
	for _, id := range n.Parents {
		if id == p {
			return true
		}
	}
	return false
}

// HasChild reports whether c is a child of the node.
func (n *Node) HasChild(c NodeID) bool {
	for _, id := range n.Children {
		if id == c {
			return true
		}
	}
	return false
}

// clone returns a deep copy of the node.
func (n *Node) clone() *Node {
	c := *n
	c.Parents = append([]NodeID(nil), n.Parents...)
	c.Children = append([]NodeID(nil), n.Children...)
	return &c
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
