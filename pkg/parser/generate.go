package parser

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
	"github.com/jinzhu/inflection"

	"github.com/cmmoran/fieldnames/internal/model"
)

const GeneratedHeader = "Code generated by fieldnames. DO NOT EDIT."

// GeneratedFile is the rendered output for a single package.
type GeneratedFile struct {
	Path    string // absolute path the file is written to
	PkgName string
	PkgPath string
	Lists   NameLists
	File    *jen.File
}

func (g *GeneratedFile) Render(w io.Writer) error {
	return g.File.Render(w)
}

func (g *GeneratedFile) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := g.File.Render(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateFiles emits one file per package that has at least one name list.
func (p *Parser) GenerateFiles() []*GeneratedFile {
	dirs, byDir := p.Lists.ByDir()
	out := make([]*GeneratedFile, 0, len(dirs))
	for _, dir := range dirs {
		lists := byDir[dir]
		out = append(out, &GeneratedFile{
			Path:    filepath.Join(dir, p.Opts.OutFile),
			PkgName: lists[0].PkgName,
			PkgPath: lists[0].PkgPath,
			Lists:   lists,
			File:    Emit(lists[0].PkgName, lists, &p.Opts),
		})
	}
	return out
}

// OrphanedFiles returns previously generated files in loaded packages that no
// longer have any name list. Only files starting with GeneratedHeader count.
func (p *Parser) OrphanedFiles() ([]string, error) {
	_, byDir := p.Lists.ByDir()
	var out []string
	for _, dir := range p.Dirs {
		if _, ok := byDir[dir]; ok {
			continue
		}
		path := filepath.Join(dir, p.Opts.OutFile)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if IsGenerated(data) {
			out = append(out, path)
		}
	}
	return out, nil
}

// IsGenerated reports whether data starts with the fieldnames header.
func IsGenerated(data []byte) bool {
	return bytes.HasPrefix(data, []byte("// "+GeneratedHeader+"\n"))
}

// Emit renders the name lists of one package. For a list of type T it
// produces
//
//	const TFieldCount = N
//	func (T[P...]) FieldNames() [TFieldCount]string
//
// The count is an untyped constant so callers can size arrays with it, and the
// method returns the array by value so the list cannot be mutated.
func Emit(pkgName string, lists []*model.NameList, opts *Options) *jen.File {
	f := jen.NewFile(pkgName)
	f.HeaderComment(GeneratedHeader)

	for _, l := range lists {
		emitList(f, l, opts)
	}

	return f
}

func emitList(f *jen.File, l *model.NameList, opts *Options) {
	ex, ok := extractors[l.Kind]
	if !ok {
		return
	}
	method := opts.FieldsMethod
	if l.Kind == model.KindEnum {
		method = opts.VariantsMethod
	}
	count := l.Type + ex.CountSuffix

	f.Commentf("%s is the number of names returned by %s.%s.", count, l.Type, method)
	f.Const().Id(count).Op("=").Lit(len(l.Names))
	f.Line()

	recv := jen.Id(l.Type)
	if len(l.TypeParams) > 0 {
		params := make([]jen.Code, len(l.TypeParams))
		for i, name := range l.TypeParamNames() {
			params[i] = jen.Id(name)
		}
		// constraints live on the type declaration; receivers only echo the names
		recv = jen.Id(l.Type).Types(params...)
	}

	names := make([]jen.Code, len(l.Names))
	for i, n := range l.Names {
		names[i] = jen.Lit(n)
	}

	f.Commentf("%s returns the names of %s's %s in declaration order.", method, l.Type, inflection.Plural(ex.Noun))
	f.Func().Params(recv).Id(method).Params().Index(jen.Id(count)).String().Block(
		jen.Return(jen.Index(jen.Id(count)).String().Values(names...)),
	)
	f.Line()
}
