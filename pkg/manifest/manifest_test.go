package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Empty(t, m.Entries)
	require.Empty(t, m.Module)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries: [:"), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "unmarshal manifest")
}

func TestRecordSortsAndReplaces(t *testing.T) {
	m := &Manifest{}
	m.Record(Entry{Package: "example.com/b", Type: "T", Kind: "struct", Names: []string{"X"}})
	m.Record(Entry{Package: "example.com/a", Type: "T", Kind: "struct", Names: []string{"A"}})
	m.Record(Entry{Package: "example.com/a", Type: "T", Kind: "enum", Names: []string{"One"}})
	m.Record(Entry{Package: "example.com/a", Type: "T", Kind: "struct", Names: []string{"A", "B"}})

	keys := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		keys[i] = e.Key()
	}
	require.Equal(t, []string{"example.com/a.T/enum", "example.com/a.T/struct", "example.com/b.T/struct"}, keys)

	e, ok := m.Lookup("example.com/a.T/struct")
	require.True(t, ok)
	require.Equal(t, []string{"A", "B"}, e.Names)

	_, ok = m.Lookup("example.com/c.T/struct")
	require.False(t, ok)
}

func TestForget(t *testing.T) {
	m := &Manifest{}
	m.Record(Entry{Package: "example.com/a", Type: "A", Kind: "struct"})
	m.Record(Entry{Package: "example.com/a", Type: "B", Kind: "enum"})
	m.Record(Entry{Package: "example.com/b", Type: "C", Kind: "struct"})

	m.Forget("example.com/a")
	require.Len(t, m.Entries, 1)
	require.Equal(t, "C", m.Entries[0].Type)

	m.Forget("example.com/unknown")
	require.Len(t, m.Entries, 1)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fieldnames.manifest.yaml")
	m := &Manifest{Module: "example.com/mod"}
	m.Record(Entry{Package: "example.com/mod/p", Type: "Color", Kind: "enum", File: "p/fieldnames_gen.go", Names: []string{"Red", "Blue"}})
	m.Record(Entry{Package: "example.com/mod/p", Type: "Hidden", Kind: "struct", Names: []string{}})
	require.NoError(t, m.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "module: example.com/mod")
	require.Contains(t, string(data), "file: p/fieldnames_gen.go")

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, m, got)
}
