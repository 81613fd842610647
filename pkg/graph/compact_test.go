package graph

import "testing"

func TestCompactRenumbersDensely(t *testing.T) {
	g := New()
	a := g.AddRoot("a", false)
	b := g.AddRoot("b", false)
	c, _ := g.AddChild("c", b, false)
	g.SetAlias(c, "leaf")
	d, _ := g.AddDate("day", "2026-04-01")
	if err := g.Link(d, c); err != nil {
		t.Fatal(err)
	}
	if err := g.Remove(a); err != nil {
		t.Fatal(err)
	}

	before := map[string]State{}
	for _, n := range g.Slots() {
		if n != nil {
			s, _ := g.State(n.ID)
			before[n.Message] = s
		}
	}

	reclaimed := g.Compact()
	if reclaimed != 1 {
		t.Fatalf("reclaimed = %d, want 1", reclaimed)
	}
	if g.SlotCount() != g.NodeCount() {
		t.Fatalf("slots %d != nodes %d after compact", g.SlotCount(), g.NodeCount())
	}
	for i, n := range g.Slots() {
		if n == nil {
			t.Fatalf("tombstone survived at slot %d", i)
		}
		if n.ID != NodeID(i) {
			t.Errorf("slot %d holds id %d", i, n.ID)
		}
	}
	checkSymmetry(t, g)

	// Indexes follow the renumbering.
	id, ok := g.ResolveAlias("leaf")
	if !ok {
		t.Fatal("alias lost in compaction")
	}
	if n, _ := g.Node(id); n.Message != "c" {
		t.Errorf("alias resolves to %q, want c", n.Message)
	}
	id, ok = g.ResolveDate("2026-04-01")
	if !ok {
		t.Fatal("date index lost in compaction")
	}
	if n, _ := g.Node(id); n.Kind != KindDate {
		t.Errorf("date index resolves to kind %v", n.Kind)
	}

	// Semantics are untouched: every derived state matches pre-compaction.
	for _, n := range g.Slots() {
		s, _ := g.State(n.ID)
		if s != before[n.Message] {
			t.Errorf("%s: state %v, want %v", n.Message, s, before[n.Message])
		}
	}
}

func TestCompactPreservesRelativeOrder(t *testing.T) {
	g := New()
	var ids []NodeID
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		ids = append(ids, g.AddRoot(m, false))
	}
	g.Remove(ids[1])
	g.Remove(ids[3])

	g.Compact()
	want := []string{"a", "c", "e"}
	for i, n := range g.Slots() {
		if n.Message != want[i] {
			t.Errorf("slot %d = %q, want %q", i, n.Message, want[i])
		}
	}
}

func TestCompactNoop(t *testing.T) {
	g := New()
	g.AddRoot("a", false)
	if got := g.Compact(); got != 0 {
		t.Errorf("Compact on dense table = %d, want 0", got)
	}
	if New().Compact() != 0 {
		t.Error("Compact on empty graph should reclaim nothing")
	}
}

func TestTombstoneRatio(t *testing.T) {
	g := New()
	if r := g.TombstoneRatio(); r != 0 {
		t.Errorf("empty ratio = %v, want 0", r)
	}
	a := g.AddRoot("a", false)
	g.AddRoot("b", false)
	g.AddRoot("c", false)
	g.AddRoot("d", false)
	g.Remove(a)
	if r := g.TombstoneRatio(); r != 0.25 {
		t.Errorf("ratio = %v, want 0.25", r)
	}
	g.Compact()
	if r := g.TombstoneRatio(); r != 0 {
		t.Errorf("post-compact ratio = %v, want 0", r)
	}
}
