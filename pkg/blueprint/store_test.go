package blueprint

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func sampleDoc(name string) Document {
	return Document{
		ID:      uuid.New(),
		Name:    name,
		Author:  "tester",
		Version: Version,
		Nodes: []Node{
			{ID: 0, Message: "root", Kind: "task", Children: []int{1}},
			{ID: 1, Message: "leaf", Kind: "task", Parents: []int{0}},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	want := sampleDoc("weekly")
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("weekly")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != want.ID || got.Name != want.Name || got.Author != want.Author {
		t.Errorf("header = %+v, want %+v", got, want)
	}
	if len(got.Nodes) != 2 || got.Nodes[1].Message != "leaf" {
		t.Errorf("nodes = %+v", got.Nodes)
	}
}

func TestStoreList(t *testing.T) {
	s := NewStore(t.TempDir())

	names, err := s.List()
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want empty", names)
	}

	for _, n := range []string{"zeta", "alpha"} {
		if err := s.Save(sampleDoc(n)); err != nil {
			t.Fatal(err)
		}
	}
	names, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("names = %v, want sorted [alpha zeta]", names)
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(t.TempDir())
	if err := s.Save(sampleDoc("gone")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load("gone"); !errors.Is(err, ErrNoBlueprint) {
		t.Errorf("Load after delete: %v, want ErrNoBlueprint", err)
	}
	if err := s.Delete("gone"); !errors.Is(err, ErrNoBlueprint) {
		t.Errorf("double delete: %v, want ErrNoBlueprint", err)
	}
}

func TestStoreLoadByPath(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.Save(sampleDoc("direct")); err != nil {
		t.Fatal(err)
	}

	other := NewStore(filepath.Join(dir, "elsewhere"))
	got, err := other.Load(filepath.Join(dir, "direct.yaml"))
	if err != nil {
		t.Fatalf("Load by path: %v", err)
	}
	if got.Name != "direct" {
		t.Errorf("Name = %q", got.Name)
	}
}
