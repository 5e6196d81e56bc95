package snapshot

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/fieldnames/pkg/manifest"
	"github.com/cmmoran/fieldnames/pkg/parser"
)

// Change is a difference between the recorded and the current name list of a
// single type.
type Change struct {
	Key     string
	Added   bool
	Removed bool
	Diff    string // -recorded +current, empty for Added/Removed
}

// Record parses the current declarations and stores their name lists in the
// manifest, replacing whatever was recorded for the parsed packages.
func Record(opts *parser.Options, manifestPath string) (*manifest.Manifest, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	par, entries, err := current(opts)
	if err != nil {
		return nil, err
	}

	mod, err := parser.FindModule(par.Opts.InDir)
	switch {
	case err == nil:
		m.Module = mod.Path
	case errors.Is(err, parser.ErrNoModule):
		slog.With("dir", par.Opts.InDir).Warn("not inside a module, recording absolute paths")
	default:
		return nil, err
	}

	for _, pkg := range packagesOf(entries) {
		m.Forget(pkg)
	}
	for _, e := range entries {
		if mod != nil {
			e.File = mod.Rel(e.File)
		}
		m.Record(e)
	}

	if err := m.Save(manifestPath); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns all entries recorded in the manifest.
func List(manifestPath string) (*manifest.Manifest, error) {
	return manifest.Load(manifestPath)
}

// Diff compares the current name lists with the ones recorded in the
// manifest. Removals are only reported for packages that still have at least
// one generated type.
func Diff(opts *parser.Options, manifestPath string) ([]Change, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	_, entries, err := current(opts)
	if err != nil {
		return nil, err
	}

	var (
		changes []Change
		now     = make(map[string]bool, len(entries))
	)
	for _, e := range entries {
		now[e.Key()] = true
		old, ok := m.Lookup(e.Key())
		if !ok {
			changes = append(changes, Change{Key: e.Key(), Added: true})
			continue
		}
		if diff := cmp.Diff(old.Names, e.Names); diff != "" {
			changes = append(changes, Change{Key: e.Key(), Diff: diff})
		}
	}

	parsed := make(map[string]bool)
	for _, pkg := range packagesOf(entries) {
		parsed[pkg] = true
	}
	for _, old := range m.Entries {
		if parsed[old.Package] && !now[old.Key()] {
			changes = append(changes, Change{Key: old.Key(), Removed: true})
		}
	}

	return changes, nil
}

func current(opts *parser.Options) (*parser.Parser, []manifest.Entry, error) {
	par, err := parser.NewWithOpts(opts)
	if err != nil {
		return nil, nil, err
	}
	if err = par.Parse(); err != nil {
		return nil, nil, err
	}

	entries := make([]manifest.Entry, 0, len(par.Lists))
	for _, l := range par.Lists {
		entries = append(entries, manifest.Entry{
			Package: l.PkgPath,
			Type:    l.Type,
			Kind:    l.Kind.String(),
			File:    filepath.Join(l.Dir, par.Opts.OutFile),
			Names:   l.Names,
		})
	}
	return par, entries, nil
}

func packagesOf(entries []manifest.Entry) []string {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	for _, e := range entries {
		if !seen[e.Package] {
			seen[e.Package] = true
			out = append(out, e.Package)
		}
	}
	return out
}
