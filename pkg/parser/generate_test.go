package parser

import (
	goparser "go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/fieldnames/internal/model"
)

func render(t *testing.T, lists NameLists, opts ...Option) string {
	t.Helper()
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}
	o.Normalize()
	f := &GeneratedFile{File: Emit("widgets", lists, o)}
	out, err := f.Bytes()
	require.NoError(t, err)
	return string(out)
}

func TestEmit(t *testing.T) {
	lists := NameLists{
		{Type: "Example", Kind: model.KindStruct, Names: []string{"hello", "world"}},
		{
			Type:       "Pair",
			Kind:       model.KindStruct,
			TypeParams: []model.TypeParam{{Name: "K", Constraint: "comparable"}, {Name: "V", Constraint: "any"}},
			Names:      []string{"Key", "Value"},
		},
		{Type: "Color", Kind: model.KindEnum, Names: []string{"Red", "Blue"}},
		{Type: "Hidden", Kind: model.KindStruct, Names: []string{}},
	}

	want := `// Code generated by fieldnames. DO NOT EDIT.

package widgets

// ExampleFieldCount is the number of names returned by Example.FieldNames.
const ExampleFieldCount = 2

// FieldNames returns the names of Example's fields in declaration order.
func (Example) FieldNames() [ExampleFieldCount]string {
	return [ExampleFieldCount]string{"hello", "world"}
}

// PairFieldCount is the number of names returned by Pair.FieldNames.
const PairFieldCount = 2

// FieldNames returns the names of Pair's fields in declaration order.
func (Pair[K, V]) FieldNames() [PairFieldCount]string {
	return [PairFieldCount]string{"Key", "Value"}
}

// ColorVariantCount is the number of names returned by Color.VariantNames.
const ColorVariantCount = 2

// VariantNames returns the names of Color's variants in declaration order.
func (Color) VariantNames() [ColorVariantCount]string {
	return [ColorVariantCount]string{"Red", "Blue"}
}

// HiddenFieldCount is the number of names returned by Hidden.FieldNames.
const HiddenFieldCount = 0

// FieldNames returns the names of Hidden's fields in declaration order.
func (Hidden) FieldNames() [HiddenFieldCount]string {
	return [HiddenFieldCount]string{}
}
`
	got := render(t, lists)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Emit() mismatch (-want +got):\n%s", diff)
	}

	// output must be valid Go on its own
	_, err := goparser.ParseFile(token.NewFileSet(), "fieldnames_gen.go", got, goparser.ParseComments)
	require.NoError(t, err)

	// rendering is deterministic
	require.Equal(t, got, render(t, lists))
}

func TestEmitMethodNames(t *testing.T) {
	lists := NameLists{
		{Type: "Example", Kind: model.KindStruct, Names: []string{"A"}},
		{Type: "Color", Kind: model.KindEnum, Names: []string{"Red"}},
	}
	got := render(t, lists, WithFieldsMethod("Names"), WithVariantsMethod("Values"))
	require.Contains(t, got, "func (Example) Names() [ExampleFieldCount]string {")
	require.Contains(t, got, "func (Color) Values() [ColorVariantCount]string {")
	require.NotContains(t, got, "FieldNames()")
	require.NotContains(t, got, "VariantNames()")
}

func TestEmitQuotesNames(t *testing.T) {
	// names are emitted verbatim as Go string literals
	lists := NameLists{{Type: "T", Kind: model.KindStruct, Names: []string{"Ünïcode", "x"}}}
	got := render(t, lists)
	require.Contains(t, got, `return [TFieldCount]string{"Ünïcode", "x"}`)
}

func TestEmitSingleTypeParam(t *testing.T) {
	lists := NameLists{{
		Type:       "Box",
		Kind:       model.KindStruct,
		TypeParams: []model.TypeParam{{Name: "T", Constraint: "any"}},
		Names:      []string{"Value"},
	}}
	got := render(t, lists)
	require.Contains(t, got, "func (Box[T]) FieldNames() [BoxFieldCount]string {")
}

func TestGenerateFiles(t *testing.T) {
	p, err := New(WithInDir("/src"), WithTestOnly())
	require.NoError(t, err)
	require.Equal(t, DefaultTestOutFile, p.Opts.OutFile)

	p.Lists = NameLists{
		{Type: "A", PkgName: "a", PkgPath: "example.com/a", Dir: "/src/a", Kind: model.KindStruct, Names: []string{"X"}},
		{Type: "B", PkgName: "b", PkgPath: "example.com/b", Dir: "/src/b", Kind: model.KindEnum, Names: []string{"Y"}},
		{Type: "C", PkgName: "a", PkgPath: "example.com/a", Dir: "/src/a", Kind: model.KindEnum, Names: []string{"Z"}},
	}
	files := p.GenerateFiles()
	require.Len(t, files, 2)

	require.Equal(t, filepath.Join("/src/a", DefaultTestOutFile), files[0].Path)
	require.Equal(t, "a", files[0].PkgName)
	require.Len(t, files[0].Lists, 2)
	out, err := files[0].Bytes()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "// "+GeneratedHeader+"\n\npackage a\n"))
	require.Less(t, strings.Index(string(out), "AFieldCount"), strings.Index(string(out), "CVariantCount"))

	require.Equal(t, filepath.Join("/src/b", DefaultTestOutFile), files[1].Path)
	require.Equal(t, "example.com/b", files[1].PkgPath)
}

func TestOrphanedFiles(t *testing.T) {
	root := t.TempDir()
	dirs := map[string]string{
		"live":    "// " + GeneratedHeader + "\n\npackage live\n",
		"orphan":  "// " + GeneratedHeader + "\n\npackage orphan\n",
		"hand":    "package hand\n",
		"nothing": "",
	}
	p, err := New(WithInDir(root))
	require.NoError(t, err)
	for name, content := range dirs {
		dir := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		if content != "" {
			require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultOutFile), []byte(content), 0o644))
		}
		p.Dirs = append(p.Dirs, dir)
	}
	p.Lists = NameLists{{Type: "A", Dir: filepath.Join(root, "live"), Kind: model.KindStruct}}

	got, err := p.OrphanedFiles()
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "orphan", DefaultOutFile)}, got)
}

func TestIsGenerated(t *testing.T) {
	out := render(t, NameLists{{Type: "T", Kind: model.KindStruct, Names: []string{"A"}}})
	require.True(t, IsGenerated([]byte(out)))
	require.False(t, IsGenerated([]byte("package p\n// "+GeneratedHeader+"\n")))
	require.False(t, IsGenerated(nil))
}
