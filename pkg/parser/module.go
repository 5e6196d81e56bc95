package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

var ErrNoModule = errors.New("no go.mod found")

// Module identifies the module that contains the parsed directory.
type Module struct {
	Path string // module path from go.mod
	Dir  string // directory holding go.mod
}

// Rel returns path relative to the module root, falling back to path itself
// when it lies outside the module.
func (m *Module) Rel(path string) string {
	rel, err := filepath.Rel(m.Dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

// FindModule walks up from dir until it finds go.mod and reads its module path.
func FindModule(dir string) (*Module, error) {
	from, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		gomod := filepath.Join(from, "go.mod")
		if data, err := os.ReadFile(gomod); err == nil {
			path := modfile.ModulePath(data)
			if path == "" {
				return nil, fmt.Errorf("%s: missing module directive", gomod)
			}
			return &Module{Path: path, Dir: from}, nil
		}
		parent := filepath.Dir(from)
		if parent == from {
			return nil, fmt.Errorf("%w above %s", ErrNoModule, dir)
		}
		from = parent
	}
}
