package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is the recorded name list of one type.
type Entry struct {
	Package string   `yaml:"package" json:"package"`
	Type    string   `yaml:"type" json:"type"`
	Kind    string   `yaml:"kind" json:"kind"`
	File    string   `yaml:"file,omitempty" json:"file,omitempty"`
	Names   []string `yaml:"names" json:"names"`
}

func (e Entry) Key() string {
	return e.Package + "." + e.Type + "/" + e.Kind
}

// Manifest records the member names of every generated type so that later
// runs can tell when a declaration has drifted.
type Manifest struct {
	Module  string  `yaml:"module,omitempty" json:"module,omitempty"`
	Entries []Entry `yaml:"entries" json:"entries"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// Record stores e, replacing any existing entry for the same package, type
// and kind. Entries are kept sorted by key so the file diffs cleanly.
func (m *Manifest) Record(e Entry) {
	for i := range m.Entries {
		if m.Entries[i].Key() == e.Key() {
			m.Entries[i] = e
			return
		}
	}

	m.Entries = append(m.Entries, e)
	slices.SortFunc(m.Entries, func(a, b Entry) int { return strings.Compare(a.Key(), b.Key()) })
}

// Forget drops every entry recorded for pkg.
func (m *Manifest) Forget(pkg string) {
	m.Entries = slices.DeleteFunc(m.Entries, func(e Entry) bool { return e.Package == pkg })
}

// Lookup returns the entry recorded under key, if present.
func (m *Manifest) Lookup(key string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Key() == key {
			return e, true
		}
	}
	return Entry{}, false
}
