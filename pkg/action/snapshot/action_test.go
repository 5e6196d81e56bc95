package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cmmoran/fieldnames/pkg/parser"
)

const colorSrc = `package colors

//variantnames:derive
type Color int

const (
	Red Color = iota
	Green
)

//fieldnames:derive
type Palette struct {
	Primary   Color
	Secondary Color
}
`

func writeModule(t *testing.T, src string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/colors\n\ngo 1.21\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "colors.go"), []byte(src), 0o644))
	return dir
}

func options(dir string) *parser.Options {
	o := parser.NewOptions()
	o.InDir = dir
	return o
}

func TestRecordListDiff(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}
	dir := writeModule(t, colorSrc)
	manifestPath := filepath.Join(dir, "fieldnames.manifest.yaml")

	changes, err := Diff(options(dir), manifestPath)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	for _, c := range changes {
		require.True(t, c.Added, c.Key)
	}

	m, err := Record(options(dir), manifestPath)
	require.NoError(t, err)
	require.Equal(t, "example.com/colors", m.Module)
	require.Len(t, m.Entries, 2)

	listed, err := List(manifestPath)
	require.NoError(t, err)
	require.Equal(t, m, listed)

	e, ok := listed.Lookup("example.com/colors.Color/enum")
	require.True(t, ok)
	require.Equal(t, []string{"Red", "Green"}, e.Names)
	require.Equal(t, parser.DefaultOutFile, e.File)

	changes, err = Diff(options(dir), manifestPath)
	require.NoError(t, err)
	require.Empty(t, changes)

	// reorder variants, drop the struct, add a new enum
	updated := `package colors

//variantnames:derive
type Color int

const (
	Green Color = iota
	Red
)

//variantnames:derive
type Shade string

const Dark Shade = "dark"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "colors.go"), []byte(updated), 0o644))

	changes, err = Diff(options(dir), manifestPath)
	require.NoError(t, err)
	byKey := make(map[string]Change, len(changes))
	for _, c := range changes {
		byKey[c.Key] = c
	}
	require.Len(t, byKey, 3)
	require.NotEmpty(t, byKey["example.com/colors.Color/enum"].Diff)
	require.True(t, byKey["example.com/colors.Shade/enum"].Added)
	require.True(t, byKey["example.com/colors.Palette/struct"].Removed)

	// recording again replaces the package's entries
	m, err = Record(options(dir), manifestPath)
	require.NoError(t, err)
	require.Len(t, m.Entries, 2)
	_, ok = m.Lookup("example.com/colors.Palette/struct")
	require.False(t, ok)
}

func TestRecordFailsOnDecodeError(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}
	dir := writeModule(t, "package colors\n\n//fieldnames:derive\ntype Unit struct{}\n")
	manifestPath := filepath.Join(dir, "fieldnames.manifest.yaml")

	_, err := Record(options(dir), manifestPath)
	require.ErrorIs(t, err, parser.ErrUnsupportedShape)
	require.NoFileExists(t, manifestPath)
}
