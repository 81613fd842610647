package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/pkoster/tangle/pkg/graph"
)

func newTestCLI() *CLI {
	return New(os.Stderr, LogInfo)
}

func renderToString(t *testing.T, g *graph.Graph, id graph.NodeID, opts graph.WalkOptions) string {
	t.Helper()
	var buf bytes.Buffer
	r := newTestCLI().newTreeRenderer(&buf, g)
	if err := r.renderSubtree(id, opts); err != nil {
		t.Fatalf("renderSubtree: %v", err)
	}
	return buf.String()
}

func TestTreeGlyphs(t *testing.T) {
	g := graph.New()
	root := g.AddRoot("root", false)
	a, _ := g.AddChild("alpha", root, false)
	if _, err := g.AddChild("deep", a, false); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddChild("beta", root, false); err != nil {
		t.Fatal(err)
	}

	out := renderToString(t, g, root, graph.WalkOptions{})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q, want 4", lines)
	}
	if !strings.Contains(lines[1], glyphBranch+"") || !strings.Contains(lines[1], "alpha") {
		t.Errorf("alpha line = %q", lines[1])
	}
	// alpha has a following sibling, so its child keeps the pipe.
	if !strings.HasPrefix(lines[2], glyphPipe) || !strings.Contains(lines[2], "deep") {
		t.Errorf("deep line = %q, want %q prefix", lines[2], glyphPipe)
	}
	if !strings.Contains(lines[3], "beta") || strings.HasPrefix(lines[3], glyphPipe) {
		t.Errorf("beta line = %q", lines[3])
	}
}

func TestTreeMultiParentGlyph(t *testing.T) {
	g := graph.New()
	root := g.AddRoot("root", false)
	a, _ := g.AddChild("a", root, false)
	b, _ := g.AddChild("b", root, false)
	shared, _ := g.AddChild("shared", a, false)
	if err := g.Link(b, shared); err != nil {
		t.Fatal(err)
	}

	out := renderToString(t, g, root, graph.WalkOptions{})
	if !strings.Contains(out, glyphMultiBranch) {
		t.Errorf("multi-parent branch glyph missing:\n%s", out)
	}
	if strings.Count(out, "shared") != 2 {
		t.Errorf("shared should render once per path:\n%s", out)
	}
}

func TestTreeCycleMarker(t *testing.T) {
	g := graph.New()
	root := g.AddRoot("root", false)
	a, _ := g.AddChild("a", root, false)
	b, _ := g.AddChild("b", a, false)
	if err := g.Link(b, a); err != nil {
		t.Fatal(err)
	}

	out := renderToString(t, g, root, graph.WalkOptions{})
	if !strings.Contains(out, "(cycle)") {
		t.Errorf("cycle marker missing:\n%s", out)
	}
}

func TestTreeStateIconsAndAlias(t *testing.T) {
	g := graph.New()
	root := g.AddRoot("root", false)
	done, _ := g.AddChild("done", root, false)
	g.SetChecked(done, true)
	if _, err := g.AddChild("open", root, false); err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddChild("notes", root, true); err != nil {
		t.Fatal(err)
	}
	if err := g.SetAlias(done, "d"); err != nil {
		t.Fatal(err)
	}

	out := renderToString(t, g, root, graph.WalkOptions{})
	for _, want := range []string{"[x]", "[ ]", "[+]", "[~]", "(d)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTreeHidesArchived(t *testing.T) {
	g := graph.New()
	root := g.AddRoot("root", false)
	old, _ := g.AddChild("old", root, false)
	g.SetArchived(old, true)
	if _, err := g.AddChild("live", root, false); err != nil {
		t.Fatal(err)
	}

	out := renderToString(t, g, root, graph.WalkOptions{})
	if strings.Contains(out, "old") {
		t.Errorf("archived node rendered by default:\n%s", out)
	}
	out = renderToString(t, g, root, graph.WalkOptions{ShowArchived: true})
	if !strings.Contains(out, "old") {
		t.Errorf("archived node missing with ShowArchived:\n%s", out)
	}
}
