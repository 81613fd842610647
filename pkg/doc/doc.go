// Package doc persists the task graph as a versioned YAML document.
//
// This package defines the wire format for tangle's graph data and the
// conversion between it and the in-memory [graph.Graph]. The format keeps the
// sparse node table literally: a tombstoned slot serializes as a YAML null,
// so node ids survive save/load without renumbering.
//
// Saves are atomic: the document is written to a temp file in the target
// directory and renamed over the destination, so a crash mid-write never
// leaves a truncated graph behind.
package doc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pkoster/tangle/pkg/graph"
)

// Version is the current document format version. Loading rejects documents
// with a newer version than this.
const Version = 1

// ErrVersion is returned when a document's version is newer than this build
// understands.
var ErrVersion = errors.New("unsupported document version")

// =============================================================================
// Wire types
// =============================================================================

// Doc is the top-level persisted document.
type Doc struct {
	Version int      `yaml:"version" json:"version"`
	Graph   GraphDoc `yaml:"graph" json:"graph"`
}

// GraphDoc is the serialized node table. A nil entry is a tombstone.
type GraphDoc struct {
	Nodes []*NodeDoc `yaml:"nodes" json:"nodes"`
}

// NodeDoc is one serialized node. Kind is a string ("task", "pseudo",
// "date") for readability in hand-inspected files.
type NodeDoc struct {
	ID       int    `yaml:"id" json:"id"`
	Message  string `yaml:"message" json:"message"`
	Kind     string `yaml:"kind" json:"kind"`
	Date     string `yaml:"date,omitempty" json:"date,omitempty"`
	Checked  bool   `yaml:"checked,omitempty" json:"checked,omitempty"`
	Archived bool   `yaml:"archived,omitempty" json:"archived,omitempty"`
	Alias    string `yaml:"alias,omitempty" json:"alias,omitempty"`
	Parents  []int  `yaml:"parents,omitempty" json:"parents,omitempty"`
	Children []int  `yaml:"children,omitempty" json:"children,omitempty"`
}

// =============================================================================
// Graph ↔ Doc conversion
// =============================================================================

// FromGraph converts a graph into its persistable document form.
func FromGraph(g *graph.Graph) Doc {
	slots := g.Slots()
	d := Doc{Version: Version}
	d.Graph.Nodes = make([]*NodeDoc, len(slots))
	for i, n := range slots {
		if n == nil {
			continue
		}
		d.Graph.Nodes[i] = &NodeDoc{
			ID:       int(n.ID),
			Message:  n.Message,
			Kind:     n.Kind.String(),
			Date:     n.Date,
			Checked:  n.Checked,
			Archived: n.Archived,
			Alias:    n.Alias,
			Parents:  toInts(n.Parents),
			Children: toInts(n.Children),
		}
	}
	return d
}

// ToGraph reconstructs the graph, validating structure via graph.FromSlots.
func (d Doc) ToGraph() (*graph.Graph, error) {
	if d.Version > Version {
		return nil, fmt.Errorf("%w: %d (this build reads up to %d)", ErrVersion, d.Version, Version)
	}
	slots := make([]*graph.Node, len(d.Graph.Nodes))
	for i, nd := range d.Graph.Nodes {
		if nd == nil {
			continue
		}
		kind, err := parseKind(nd.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", nd.ID, err)
		}
		slots[i] = &graph.Node{
			ID:       graph.NodeID(nd.ID),
			Message:  nd.Message,
			Kind:     kind,
			Date:     nd.Date,
			Checked:  nd.Checked,
			Archived: nd.Archived,
			Alias:    nd.Alias,
			Parents:  toIDs(nd.Parents),
			Children: toIDs(nd.Children),
		}
	}
	return graph.FromSlots(slots)
}

func parseKind(s string) (graph.Kind, error) {
	switch s {
	case "task", "":
		return graph.KindTask, nil
	case "pseudo":
		return graph.KindPseudo, nil
	case "date":
		return graph.KindDate, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q", graph.ErrCorrupt, s)
	}
}

func toInts(ids []graph.NodeID) []int {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}

func toIDs(ints []int) []graph.NodeID {
	if len(ints) == 0 {
		return nil
	}
	out := make([]graph.NodeID, len(ints))
	for i, v := range ints {
		out[i] = graph.NodeID(v)
	}
	return out
}

// =============================================================================
// File I/O
// =============================================================================

// Load reads the document at path and reconstructs the graph.
// A missing or empty file yields a fresh empty graph; anything else that
// fails to parse or validate is a hard error, never silently replaced.
func Load(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return graph.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return graph.New(), nil
	}

	var d Doc
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	g, err := d.ToGraph()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}

// Save writes the graph to path atomically: marshal, write to a temp file in
// the same directory, fsync, rename. The destination either keeps its old
// content or holds the complete new document.
func Save(g *graph.Graph, path string) error {
	data, err := yaml.Marshal(FromGraph(g))
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}
	return WriteAtomic(path, data)
}

// WriteAtomic writes data to path through a temp file in the same directory
// followed by a rename. Parent directories are created as needed.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// JSON export / import
// =============================================================================

// ExportJSON writes the document as indented JSON, for piping into other
// tools or checking into version control in a diff-friendly form.
func ExportJSON(g *graph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ImportJSON reads a JSON document and reconstructs the graph.
func ImportJSON(r io.Reader) (*graph.Graph, error) {
	var d Doc
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return d.ToGraph()
}

// =============================================================================
// File discovery
// =============================================================================

// FileName is the graph file's base name for both global and local files.
const FileName = ".tangle.yaml"

// GlobalPath returns the per-user graph file, ~/.tangle.yaml.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// LocalPath returns the graph file in the current working directory.
func LocalPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("locate working directory: %w", err)
	}
	return filepath.Join(wd, FileName), nil
}

// Discover picks the graph file to operate on. forceLocal and forceGlobal
// pin the choice; otherwise a local file is used when one exists, falling
// back to the global file.
func Discover(forceLocal, forceGlobal bool) (string, error) {
	if forceLocal {
		return LocalPath()
	}
	if forceGlobal {
		return GlobalPath()
	}
	local, err := LocalPath()
	if err == nil {
		if _, statErr := os.Stat(local); statErr == nil {
			return local, nil
		}
	}
	return GlobalPath()
}
