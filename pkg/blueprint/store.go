package blueprint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkoster/tangle/pkg/doc"
)

// ErrNoBlueprint is returned when a named blueprint does not exist in the
// store.
var ErrNoBlueprint = errors.New("no such blueprint")

// Store keeps blueprints as one YAML file per blueprint, <name>.yaml, in a
// single directory. Blueprint files load and save independently of any graph
// file.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created lazily on
// first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file a blueprint name maps to. A name that is already a
// path to an existing .yaml file is used verbatim, so blueprints can be
// loaded from outside the store.
func (s *Store) Path(name string) string {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return filepath.Join(s.dir, name+".yaml")
}

// List returns the names of all stored blueprints, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Load reads a blueprint by name (or by path, see [Store.Path]) and validates
// it before returning.
func (s *Store) Load(name string) (Document, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Document{}, fmt.Errorf("%w: %s", ErrNoBlueprint, name)
	}
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Save writes the blueprint to <dir>/<name>.yaml atomically, overwriting any
// existing blueprint of the same name.
func (s *Store) Save(d Document) error {
	if err := d.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal blueprint %s: %w", d.Name, err)
	}
	return doc.WriteAtomic(filepath.Join(s.dir, d.Name+".yaml"), data)
}

// Delete removes a stored blueprint.
func (s *Store) Delete(name string) error {
	err := os.Remove(filepath.Join(s.dir, name+".yaml"))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNoBlueprint, name)
	}
	return err
}
