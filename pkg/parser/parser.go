package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/tools/go/packages"

	"github.com/cmmoran/fieldnames/internal/model"
)

// extractor describes one of the two generators. Both share Decode, Filter &
// Order and Emit and differ only in which member kind they consume.
type extractor struct {
	Kind        model.Kind
	Namespace   string
	Noun        string // "field", "variant"
	CountSuffix string // appended to the type name for the length constant
}

var extractors = map[model.Kind]extractor{
	model.KindStruct: {Kind: model.KindStruct, Namespace: FieldNamespace, Noun: "field", CountSuffix: "FieldCount"},
	model.KindEnum:   {Kind: model.KindEnum, Namespace: VariantNamespace, Noun: "variant", CountSuffix: "VariantCount"},
}

// Parser holds state/results of a parse run.
type Parser struct {
	Opts Options

	Declarations Declarations
	Lists        NameLists
	Dirs         []string // every loaded package directory, in load order

	seen map[string]bool // every type name encountered, for FieldTypes/VariantTypes validation
}

type Declarations []*model.Declaration

func (x Declarations) Find(name string, kind model.Kind) *model.Declaration {
	for _, d := range x {
		if d.Name == name && d.Kind == kind {
			return d
		}
	}
	return nil
}

type NameLists []*model.NameList

func (x NameLists) Find(name string, kind model.Kind) *model.NameList {
	for _, l := range x {
		if l.Type == name && l.Kind == kind {
			return l
		}
	}
	return nil
}

// ByDir groups lists by package directory, keeping the order in which each
// directory was first seen.
func (x NameLists) ByDir() ([]string, map[string]NameLists) {
	var (
		dirs []string
		out  = make(map[string]NameLists)
	)
	for _, l := range x {
		if _, ok := out[l.Dir]; !ok {
			dirs = append(dirs, l.Dir)
		}
		out[l.Dir] = append(out[l.Dir], l)
	}
	return dirs, out
}

// New executes the parser with opts.
func New(opts ...Option) (*Parser, error) {
	o := NewOptions()
	for _, fn := range opts {
		fn(o)
	}

	return NewWithOpts(o)
}

func NewWithOpts(opts *Options) (*Parser, error) {
	opts.Normalize()

	for _, m := range []string{opts.FieldsMethod, opts.VariantsMethod} {
		if !token.IsIdentifier(m) {
			return nil, fmt.Errorf("invalid method name %q", m)
		}
	}

	p := &Parser{
		Opts:         *opts,
		Declarations: make([]*model.Declaration, 0),
		Lists:        make([]*model.NameList, 0),
		seen:         make(map[string]bool),
	}

	return p, nil
}

func (p *Parser) Parse() error {
	pattern := "."
	if p.Opts.Recursive {
		pattern = "./..."
	}
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax,
		Dir:  p.Opts.InDir,
		Fset: token.NewFileSet(),
	}
	if len(p.Opts.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(p.Opts.Tags, ",")}
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return fmt.Errorf("loading packages in %s: %w", p.Opts.InDir, err)
	}

	var errs error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			// only syntax problems stop us; type errors are irrelevant without type checking
			if e.Kind == packages.ParseError || e.Kind == packages.ListError {
				errs = multierr.Append(errs, fmt.Errorf("package %s: %w", pkg.PkgPath, e))
			}
		}
		if len(pkg.GoFiles) > 0 {
			p.Dirs = append(p.Dirs, filepath.Dir(pkg.GoFiles[0]))
		}
		if src := p.sourceOf(cfg.Fset, pkg); src != nil {
			errs = multierr.Append(errs, p.parseSource(src))
		}
	}

	errs = multierr.Append(errs, p.checkRequested())
	if errs != nil {
		return errs
	}

	b := NewBuilder(p.Declarations)
	p.Lists = b.BuildAll()

	return nil
}

// parseSource decodes the declarations of one already parsed package.
func (p *Parser) parseSource(src *source) error {
	decls, err := p.collectDecls(src)
	p.Declarations = append(p.Declarations, decls...)
	return err
}

func (p *Parser) sourceOf(fset *token.FileSet, pkg *packages.Package) *source {
	if len(pkg.Syntax) == 0 {
		return nil
	}

	type named struct {
		name string
		file *ast.File
	}
	files := make([]named, 0, len(pkg.Syntax))
	for _, f := range pkg.Syntax {
		name := fset.Position(f.Package).Filename
		// never feed our own output back in
		if filepath.Base(name) == p.Opts.OutFile {
			continue
		}
		files = append(files, named{name: name, file: f})
	}
	if len(files) == 0 {
		return nil
	}
	slices.SortFunc(files, func(a, b named) int { return strings.Compare(a.name, b.name) })

	src := &source{
		fset:    fset,
		pkgName: pkg.Name,
		pkgPath: pkg.PkgPath,
		dir:     filepath.Dir(files[0].name),
		files:   make([]*ast.File, len(files)),
	}
	for i, f := range files {
		src.files[i] = f.file
	}
	return src
}

// checkRequested reports FieldTypes / VariantTypes that name no type at all.
func (p *Parser) checkRequested() error {
	var errs error
	for _, names := range [][]string{p.Opts.FieldTypes, p.Opts.VariantTypes} {
		for _, n := range names {
			if !p.seen[n] {
				errs = multierr.Append(errs, &DecodeError{Type: n, Err: ErrTypeNotFound, Detail: "no such type in " + p.Opts.InDir})
			}
		}
	}
	return errs
}
