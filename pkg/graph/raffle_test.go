package graph

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestPickFilters(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	open1, _ := g.AddChild("open1", root, false)
	open2, _ := g.AddChild("open2", root, false)
	done, _ := g.AddChild("done", root, false)
	g.SetChecked(done, true)

	// project's own flag stays unset, but its only leaf is checked, so its
	// derived state is Checked and the filters must treat it as done.
	project, _ := g.AddChild("project", root, false)
	step, _ := g.AddChild("step", project, false)
	g.SetChecked(step, true)

	// Pseudo nodes carry no completion and pass every filter.
	notes, _ := g.AddChild("notes", root, true)

	tests := []struct {
		name    string
		filter  Filter
		allowed map[NodeID]bool
	}{
		{"all", FilterAll, map[NodeID]bool{open1: true, open2: true, done: true, project: true, notes: true}},
		{"checked only", FilterChecked, map[NodeID]bool{done: true, project: true, notes: true}},
		{"unchecked only", FilterUnchecked, map[NodeID]bool{open1: true, open2: true, notes: true}},
	}
	rng := testRand()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 50 {
				id, err := g.Pick(rng, root, tt.filter)
				if err != nil {
					t.Fatalf("Pick: %v", err)
				}
				if !tt.allowed[id] {
					t.Fatalf("picked %d, outside %v", id, tt.allowed)
				}
			}
		})
	}
}

func TestPickEmptySelection(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	open, _ := g.AddChild("open", root, false)

	rng := testRand()
	if _, err := g.Pick(rng, root, FilterChecked); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("no checked children: err = %v, want ErrEmptySelection", err)
	}
	if _, err := g.Pick(rng, open, FilterAll); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("leaf parent: err = %v, want ErrEmptySelection", err)
	}
	if _, err := g.Pick(rng, 99, FilterAll); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing parent: err = %v, want ErrNotFound", err)
	}
}

func TestPickCoversAllCandidates(t *testing.T) {
	g := New()
	root := g.AddRoot("root", false)
	seen := map[NodeID]int{}
	for _, m := range []string{"a", "b", "c", "d"} {
		id, _ := g.AddChild(m, root, false)
		seen[id] = 0
	}

	rng := testRand()
	for range 400 {
		id, err := g.Pick(rng, root, FilterAll)
		if err != nil {
			t.Fatal(err)
		}
		seen[id]++
	}
	// Uniformity smoke check: every candidate shows up a reasonable number
	// of times over 400 draws of 4 options.
	for id, n := range seen {
		if n < 50 {
			t.Errorf("candidate %d drawn %d times of 400", id, n)
		}
	}
}

func TestPickRoot(t *testing.T) {
	g := New()
	r1 := g.AddRoot("r1", false)
	r2 := g.AddRoot("r2", false)
	leaf, _ := g.AddChild("leaf", r2, false)
	g.SetChecked(leaf, true)

	// r2 is complete by aggregation only; both filters must see that.
	rng := testRand()
	id, err := g.PickRoot(rng, FilterUnchecked)
	if err != nil {
		t.Fatalf("PickRoot: %v", err)
	}
	if id != r1 {
		t.Errorf("picked %d, want %d", id, r1)
	}
	id, err = g.PickRoot(rng, FilterChecked)
	if err != nil {
		t.Fatalf("PickRoot: %v", err)
	}
	if id != r2 {
		t.Errorf("picked %d, want %d", id, r2)
	}
	if _, err := New().PickRoot(rng, FilterAll); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("empty graph: err = %v, want ErrEmptySelection", err)
	}
}
