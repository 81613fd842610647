package graph

import "testing"

func TestStateLeaf(t *testing.T) {
	g := New()
	a := g.AddRoot("a", false)
	b := g.AddRoot("b", false)
	g.SetChecked(b, true)

	if s, _ := g.State(a); s != StateNone {
		t.Errorf("unchecked leaf = %v, want none", s)
	}
	if s, _ := g.State(b); s != StateChecked {
		t.Errorf("checked leaf = %v, want checked", s)
	}
}

func TestStateAggregation(t *testing.T) {
	// college
	//   thesis
	//     draft   [x]
	//     review  [ ]
	//   exam      [x]
	build := func(t *testing.T) (*Graph, map[string]NodeID) {
		t.Helper()
		g := New()
		ids := map[string]NodeID{}
		ids["college"] = g.AddRoot("college", false)
		add := func(name string, parent string) {
			id, err := g.AddChild(name, ids[parent], false)
			if err != nil {
				t.Fatal(err)
			}
			ids[name] = id
		}
		add("thesis", "college")
		add("draft", "thesis")
		add("review", "thesis")
		add("exam", "college")
		g.SetChecked(ids["draft"], true)
		g.SetChecked(ids["exam"], true)
		return g, ids
	}

	t.Run("partial propagates up", func(t *testing.T) {
		g, ids := build(t)
		if s, _ := g.State(ids["thesis"]); s != StatePartial {
			t.Errorf("thesis = %v, want partial", s)
		}
		if s, _ := g.State(ids["college"]); s != StatePartial {
			t.Errorf("college = %v, want partial", s)
		}
	})

	t.Run("all children complete", func(t *testing.T) {
		g, ids := build(t)
		g.SetChecked(ids["review"], true)
		if s, _ := g.State(ids["thesis"]); s != StateChecked {
			t.Errorf("thesis = %v, want checked", s)
		}
		if s, _ := g.State(ids["college"]); s != StateChecked {
			t.Errorf("college = %v, want checked", s)
		}
	})

	t.Run("stored check overrides subtree", func(t *testing.T) {
		g, ids := build(t)
		// thesis itself marked done even though review is open: the parent
		// trusts the explicit check.
		g.SetChecked(ids["thesis"], true)
		if s, _ := g.State(ids["college"]); s != StateChecked {
			t.Errorf("college = %v, want checked", s)
		}
		// thesis's own derived state still reflects its children.
		if s, _ := g.State(ids["thesis"]); s != StatePartial {
			t.Errorf("thesis = %v, want partial", s)
		}
	})

	t.Run("nothing done", func(t *testing.T) {
		g, ids := build(t)
		g.SetChecked(ids["draft"], false)
		g.SetChecked(ids["exam"], false)
		if s, _ := g.State(ids["college"]); s != StateNone {
			t.Errorf("college = %v, want none", s)
		}
	})
}

func TestStatePseudoChildrenExcluded(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	task, _ := g.AddChild("task", root, false)
	if _, err := g.AddChild("notes", root, true); err != nil {
		t.Fatal(err)
	}
	g.SetChecked(task, true)

	if s, _ := g.State(root); s != StateChecked {
		t.Errorf("root = %v, want checked (pseudo child not countable)", s)
	}
}

func TestStatePseudoOnlyChildren(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	if _, err := g.AddChild("notes", root, true); err != nil {
		t.Fatal(err)
	}
	// With no countable children the node falls back to its stored flag.
	if s, _ := g.State(root); s != StateNone {
		t.Errorf("root = %v, want none", s)
	}
	g.SetChecked(root, true)
	if s, _ := g.State(root); s != StateChecked {
		t.Errorf("checked root = %v, want checked", s)
	}
}

func TestStateArchivedPolicy(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	done, _ := g.AddChild("done", root, false)
	old, _ := g.AddChild("old", root, false)
	g.SetChecked(done, true)
	g.SetArchived(old, true)

	// Default: archived children still count, so root is partial.
	if s, _ := g.State(root); s != StatePartial {
		t.Errorf("default policy: root = %v, want partial", s)
	}
	// Excluding archived leaves only the checked child.
	s, err := g.StateWith(root, AggregateOptions{IncludeArchived: false})
	if err != nil {
		t.Fatal(err)
	}
	if s != StateChecked {
		t.Errorf("exclude-archived policy: root = %v, want checked", s)
	}
}

func TestStateCycleTerminates(t *testing.T) {
	g := New()
	a := g.AddRoot("a", false)
	b, _ := g.AddChild("b", a, false)
	if err := g.Link(b, a); err != nil {
		t.Fatal(err)
	}
	if _, err := g.State(a); err != nil {
		t.Fatalf("State on cyclic graph: %v", err)
	}

	// A checked node inside the cycle still aggregates.
	c, _ := g.AddChild("c", b, false)
	g.SetChecked(c, true)
	s, _ := g.State(a)
	if s == StateNone {
		t.Errorf("a = %v, want progress visible through cycle", s)
	}
}

func TestComputeStats(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	done, _ := g.AddChild("done", root, false)
	g.SetChecked(done, true)
	g.SetAlias(root, "r")
	g.AddDate("day", "2026-01-05")
	gone := g.AddRoot("gone", false)
	g.SetArchived(done, true)
	g.Remove(gone)

	st := g.ComputeStats()
	if st.Nodes != 3 || st.Tombstones != 1 {
		t.Errorf("Nodes/Tombstones = %d/%d, want 3/1", st.Nodes, st.Tombstones)
	}
	if st.Roots != 1 || st.Dates != 1 || st.Aliases != 1 || st.Archived != 1 {
		t.Errorf("Roots/Dates/Aliases/Archived = %d/%d/%d/%d, want 1/1/1/1",
			st.Roots, st.Dates, st.Aliases, st.Archived)
	}
	// done is checked; root aggregates to checked through it.
	if st.Checked != 2 {
		t.Errorf("Checked = %d, want 2", st.Checked)
	}
}
