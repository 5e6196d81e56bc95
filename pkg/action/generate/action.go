package generate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/fieldnames/pkg/parser"
)

// Drift describes a generated file that does not match what would be
// generated now.
type Drift struct {
	Path     string
	Missing  bool
	Orphaned bool   // generated earlier, but the package no longer has any derived type
	Diff     string // -on disk +expected
}

// Generate parses opts.InDir and writes one file per package. Files generated
// earlier for packages that no longer derive anything are removed. Nothing is
// written or removed when any declaration fails to decode.
func Generate(opts *parser.Options) ([]string, error) {
	files, orphaned, err := render(opts)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", f.path, err)
		}
		slog.With("file", f.path, "types", len(f.lists)).Debug("wrote generated file")
		written = append(written, f.path)
	}
	for _, path := range orphaned {
		if err := os.Remove(path); err != nil {
			return written, fmt.Errorf("remove %s: %w", path, err)
		}
		slog.With("file", path).Info("removed orphaned generated file")
	}
	return written, nil
}

// Check regenerates in memory and compares against the files on disk.
func Check(opts *parser.Options) ([]Drift, error) {
	files, orphaned, err := render(opts)
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, f := range files {
		current, err := os.ReadFile(f.path)
		if errors.Is(err, os.ErrNotExist) {
			drifts = append(drifts, Drift{Path: f.path, Missing: true})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.path, err)
		}
		if diff := cmp.Diff(string(current), string(f.data)); diff != "" {
			drifts = append(drifts, Drift{Path: f.path, Diff: diff})
		}
	}
	for _, path := range orphaned {
		drifts = append(drifts, Drift{Path: path, Orphaned: true})
	}
	return drifts, nil
}

type rendered struct {
	path  string
	data  []byte
	lists parser.NameLists
}

func render(opts *parser.Options) ([]rendered, []string, error) {
	par, err := parser.NewWithOpts(opts)
	if err != nil {
		return nil, nil, err
	}
	if err = par.Parse(); err != nil {
		return nil, nil, err
	}
	orphaned, err := par.OrphanedFiles()
	if err != nil {
		return nil, nil, err
	}

	files := par.GenerateFiles()
	out := make([]rendered, 0, len(files))
	for _, gf := range files {
		data, err := gf.Bytes()
		if err != nil {
			return nil, nil, fmt.Errorf("render %s: %w", gf.Path, err)
		}
		out = append(out, rendered{path: gf.Path, data: data, lists: gf.Lists})
	}
	return out, orphaned, nil
}
