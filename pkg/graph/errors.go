package graph

import "errors"

var (
	// ErrNotFound is returned when a NodeID does not refer to a live node.
	// Tombstoned slots and out-of-range indices both resolve to this error.
	ErrNotFound = errors.New("no such node")

	// ErrDuplicateAlias is returned by [Graph.SetAlias] when the alias is
	// already bound to a different live node.
	ErrDuplicateAlias = errors.New("alias already in use")

	// ErrDuplicateDate is returned when a date node already exists for the
	// requested calendar date. Date collisions are rejected, never merged.
	ErrDuplicateDate = errors.New("date node already exists")

	// ErrInvalidEdge is returned by [Graph.Link] for a direct self-edge or a
	// duplicate parallel edge, and by [Graph.Unlink] when the edge does not
	// exist.
	ErrInvalidEdge = errors.New("invalid edge")

	// ErrEmptySelection is returned by [Graph.Pick] when the filter leaves no
	// eligible children to choose from.
	ErrEmptySelection = errors.New("no eligible children")

	// ErrCorrupt is returned by [FromSlots] when a loaded node table violates
	// the graph invariants (dangling edges, asymmetric adjacency, stale index
	// entries). A corrupt table is never partially adopted.
	ErrCorrupt = errors.New("corrupt graph")
)
