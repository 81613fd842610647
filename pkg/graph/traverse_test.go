package graph

import "testing"

func collect(t *testing.T, g *Graph, start NodeID, opts WalkOptions) []Visit {
	t.Helper()
	var out []Visit
	if err := g.Walk(start, opts, func(v Visit) bool {
		out = append(out, v)
		return true
	}); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return out
}

func TestWalkDepthFirstOrder(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	a, _ := g.AddChild("a", root, false)
	a1, _ := g.AddChild("a1", a, false)
	b, _ := g.AddChild("b", root, false)

	got := collect(t, g, root, WalkOptions{})
	wantIDs := []NodeID{a, a1, b}
	wantDepth := []int{0, 1, 0}
	wantLast := []bool{false, true, true}
	if len(got) != len(wantIDs) {
		t.Fatalf("visits = %v, want %d entries", got, len(wantIDs))
	}
	for i, v := range got {
		if v.ID != wantIDs[i] || v.Depth != wantDepth[i] || v.LastSibling != wantLast[i] {
			t.Errorf("visit[%d] = %+v, want id %d depth %d last %v",
				i, v, wantIDs[i], wantDepth[i], wantLast[i])
		}
	}
}

func TestWalkDepthBound(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	a, _ := g.AddChild("a", root, false)
	b, _ := g.AddChild("b", a, false)
	if _, err := g.AddChild("c", b, false); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		depth int
		want  int
	}{
		{1, 1}, // a only
		{2, 2}, // a, b
		{0, 3}, // unbounded
	}
	for _, tt := range tests {
		got := collect(t, g, root, WalkOptions{MaxDepth: tt.depth})
		if len(got) != tt.want {
			t.Errorf("MaxDepth %d: %d visits, want %d", tt.depth, len(got), tt.want)
		}
	}
}

func TestWalkCycleEmitsReference(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	a, _ := g.AddChild("a", root, false)
	b, _ := g.AddChild("b", a, false)
	if err := g.Link(b, a); err != nil {
		t.Fatal(err)
	}

	got := collect(t, g, root, WalkOptions{})
	// root -> a -> b -> a(cycle ref, no descent)
	if len(got) != 3 {
		t.Fatalf("visits = %+v, want 3", got)
	}
	last := got[2]
	if last.ID != a || !last.CycleRef {
		t.Errorf("visit[2] = %+v, want cycle reference to %d", last, a)
	}
	for _, v := range got[:2] {
		if v.CycleRef {
			t.Errorf("visit %+v flagged as cycle ref", v)
		}
	}
}

func TestWalkDiamondExpandedPerPath(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	a, _ := g.AddChild("a", root, false)
	b, _ := g.AddChild("b", root, false)
	shared, _ := g.AddChild("shared", a, false)
	if err := g.Link(b, shared); err != nil {
		t.Fatal(err)
	}

	got := collect(t, g, root, WalkOptions{})
	count := 0
	for _, v := range got {
		if v.ID == shared {
			count++
			if !v.MultiParent {
				t.Errorf("shared visit %+v missing MultiParent", v)
			}
			if v.CycleRef {
				t.Errorf("diamond flagged as cycle: %+v", v)
			}
		}
	}
	if count != 2 {
		t.Errorf("shared emitted %d times, want once per path (2)", count)
	}
}

func TestWalkArchivedHidden(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	old, _ := g.AddChild("old", root, false)
	if _, err := g.AddChild("old-sub", old, false); err != nil {
		t.Fatal(err)
	}
	live, _ := g.AddChild("live", root, false)
	g.SetArchived(old, true)

	got := collect(t, g, root, WalkOptions{})
	if len(got) != 1 || got[0].ID != live {
		t.Fatalf("visits = %+v, want only live child", got)
	}
	if !got[0].LastSibling {
		t.Error("sole visible child not flagged as last sibling")
	}

	got = collect(t, g, root, WalkOptions{ShowArchived: true})
	if len(got) != 3 {
		t.Fatalf("ShowArchived visits = %+v, want 3", got)
	}
}

func TestWalkEarlyStop(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	for _, m := range []string{"a", "b", "c"} {
		if _, err := g.AddChild(m, root, false); err != nil {
			t.Fatal(err)
		}
	}
	n := 0
	g.Walk(root, WalkOptions{}, func(v Visit) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Errorf("visited %d, want stop after 2", n)
	}
}

func TestWalkRoots(t *testing.T) {
	g := New()
	r1 := g.AddRoot("r1", false)
	r2 := g.AddRoot("r2", false)
	c, _ := g.AddChild("c", r2, false)
	if _, err := g.AddDate("day", "2026-02-02"); err != nil {
		t.Fatal(err)
	}

	var got []Visit
	g.WalkRoots(WalkOptions{}, func(v Visit) bool {
		got = append(got, v)
		return true
	})
	wantIDs := []NodeID{r1, r2, c}
	if len(got) != len(wantIDs) {
		t.Fatalf("visits = %+v, want %v (date nodes excluded)", got, wantIDs)
	}
	for i, v := range got {
		if v.ID != wantIDs[i] {
			t.Errorf("visit[%d].ID = %d, want %d", i, v.ID, wantIDs[i])
		}
	}
	if got[0].Depth != 0 {
		t.Errorf("root depth = %d, want 0", got[0].Depth)
	}
	if got[0].LastSibling {
		t.Error("first of two roots flagged last")
	}
	if !got[1].LastSibling {
		t.Error("final root not flagged last")
	}
	if got[2].Depth != 1 {
		t.Errorf("child depth = %d, want 1", got[2].Depth)
	}
}
