package parser

import (
	"go/ast"
	"go/token"
	"go/types"
	"slices"

	"go.uber.org/multierr"

	"github.com/cmmoran/fieldnames/internal/model"
)

// source is one loaded package, reduced to what decoding needs.
type source struct {
	fset    *token.FileSet
	pkgName string
	pkgPath string
	dir     string
	files   []*ast.File // ordered by file name
	types   map[string]*ast.TypeSpec
}

// constMember is a constant that belongs to an enum-style type.
type constMember struct {
	name *ast.Ident
	docs []*ast.CommentGroup
}

// collectDecls walks every type declaration of a package in source order and
// decodes the ones requested by directive or by option. Errors are collected
// across declarations rather than stopping at the first one.
func (p *Parser) collectDecls(src *source) ([]*model.Declaration, error) {
	var (
		out    []*model.Declaration
		errs   error
		consts map[string][]constMember
	)
	if src.types == nil {
		src.types = localTypes(src.files)
	}

	for _, file := range src.files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				p.seen[ts.Name.Name] = true
				pos := src.fset.Position(ts.Pos())

				docs := []*ast.CommentGroup{ts.Doc}
				if !gen.Lparen.IsValid() {
					docs = append(docs, gen.Doc)
				}

				kinds, err := p.requestedKinds(ts.Name.Name, docs)
				if err != nil {
					errs = multierr.Append(errs, &DecodeError{Pos: pos, Type: ts.Name.Name, Err: err})
					continue
				}

				for _, kind := range kinds {
					var d *model.Declaration
					switch kind {
					case model.KindStruct:
						d, err = decodeStruct(src, ts, p.Opts.FieldsMethod)
					case model.KindEnum:
						if consts == nil {
							consts = collectConsts(src)
						}
						d, err = decodeEnum(src, ts, consts[ts.Name.Name])
					}
					if err != nil {
						errs = multierr.Append(errs, err)
						continue
					}
					out = append(out, d)
				}
			}
		}
	}

	return out, errs
}

// requestedKinds reports which extractors should run for the named type, from
// its //fieldnames:derive and //variantnames:derive directives or from the
// FieldTypes / VariantTypes options.
func (p *Parser) requestedKinds(name string, docs []*ast.CommentGroup) ([]model.Kind, error) {
	fieldAnn, err := directiveAnnotation(FieldNamespace, typeOptions, docs...)
	if err != nil {
		return nil, err
	}
	variantAnn, err := directiveAnnotation(VariantNamespace, typeOptions, docs...)
	if err != nil {
		return nil, err
	}

	var kinds []model.Kind
	if fieldAnn.has(OptionDerive) || slices.Contains(p.Opts.FieldTypes, name) {
		kinds = append(kinds, model.KindStruct)
	}
	if variantAnn.has(OptionDerive) || slices.Contains(p.Opts.VariantTypes, name) {
		kinds = append(kinds, model.KindEnum)
	}
	return kinds, nil
}

func newDeclaration(src *source, ts *ast.TypeSpec, kind model.Kind) *model.Declaration {
	return &model.Declaration{
		Name:       ts.Name.Name,
		PkgName:    src.pkgName,
		PkgPath:    src.pkgPath,
		Dir:        src.dir,
		Pos:        src.fset.Position(ts.Pos()),
		TypeParams: typeParams(ts),
		Kind:       kind,
	}
}

func typeParams(ts *ast.TypeSpec) []model.TypeParam {
	if ts.TypeParams == nil {
		return nil
	}
	var out []model.TypeParam
	for _, fp := range ts.TypeParams.List {
		constraint := types.ExprString(fp.Type)
		for _, id := range fp.Names {
			out = append(out, model.TypeParam{Name: id.Name, Constraint: constraint})
		}
	}
	return out
}

// decodeStruct accepts only a struct whose every field is named. No field may
// share its name with the generated method.
func decodeStruct(src *source, ts *ast.TypeSpec, method string) (*model.Declaration, error) {
	name := ts.Name.Name
	pos := src.fset.Position(ts.Pos())

	if ts.Assign.IsValid() {
		return nil, decodeErr(pos, name, "", ErrUnsupportedShape, "type alias; field names require a struct with named fields")
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return nil, decodeErr(pos, name, "", ErrUnsupportedShape, "%s; field names require a struct with named fields", shapeOf(ts.Type))
	}
	if st.Fields == nil || len(st.Fields.List) == 0 {
		return nil, decodeErr(pos, name, "", ErrUnsupportedShape, "empty struct; field names require a struct with named fields")
	}

	d := newDeclaration(src, ts, model.KindStruct)

	var errs error
	for _, fld := range st.Fields.List {
		fpos := src.fset.Position(fld.Pos())
		if len(fld.Names) == 0 {
			errs = multierr.Append(errs, decodeErr(fpos, name, embeddedFieldName(fld.Type), ErrMissingMemberName, "embedded field has no name of its own"))
			continue
		}

		tagAnn, err := tagAnnotation(FieldNamespace, memberOptions, fld.Tag)
		if err != nil {
			errs = multierr.Append(errs, &DecodeError{Pos: fpos, Type: name, Member: fld.Names[0].Name, Err: err})
			continue
		}
		dirAnn, err := directiveAnnotation(FieldNamespace, memberOptions, fld.Doc, fld.Comment)
		if err != nil {
			errs = multierr.Append(errs, &DecodeError{Pos: fpos, Type: name, Member: fld.Names[0].Name, Err: err})
			continue
		}
		skip := tagAnn.has(OptionSkip) || dirAnn.has(OptionSkip)

		// X, Y string shares one annotation
		for _, id := range fld.Names {
			if id.Name == method {
				errs = multierr.Append(errs, decodeErr(src.fset.Position(id.Pos()), name, id.Name, ErrUnsupportedShape, "field collides with generated method %s", method))
				continue
			}
			if id.Name == "_" {
				continue
			}
			d.Fields = append(d.Fields, &model.Field{
				Name: id.Name,
				Skip: skip,
				Pos:  src.fset.Position(id.Pos()),
			})
		}
	}
	if errs != nil {
		return nil, errs
	}

	return d, nil
}

// decodeEnum accepts a defined type over a named or basic type. Its variants
// are the package's constants of that type; their values are not inspected.
func decodeEnum(src *source, ts *ast.TypeSpec, members []constMember) (*model.Declaration, error) {
	name := ts.Name.Name
	pos := src.fset.Position(ts.Pos())

	if ts.Assign.IsValid() {
		return nil, decodeErr(pos, name, "", ErrUnsupportedShape, "type alias; variant names require a defined type with constants")
	}
	if shape, ok := enumUnderlying(src, ts.Type); !ok {
		return nil, decodeErr(pos, name, "", ErrUnsupportedShape, "%s; variant names require a defined type with constants", shape)
	}

	d := newDeclaration(src, ts, model.KindEnum)
	d.Variants = make([]*model.Variant, 0, len(members))

	var errs error
	for _, m := range members {
		mpos := src.fset.Position(m.name.Pos())
		ann, err := directiveAnnotation(VariantNamespace, memberOptions, m.docs...)
		if err != nil {
			errs = multierr.Append(errs, &DecodeError{Pos: mpos, Type: name, Member: m.name.Name, Err: err})
			continue
		}
		d.Variants = append(d.Variants, &model.Variant{
			Name: m.name.Name,
			Skip: ann.has(OptionSkip),
			Pos:  mpos,
		})
	}
	if errs != nil {
		return nil, errs
	}

	return d, nil
}

// predeclared interface types; none of them can carry methods
var predeclaredInterfaces = map[string]bool{"any": true, "comparable": true, "error": true}

// enumUnderlying follows local type names until it reaches a predeclared or
// imported type and reports whether that type can be a method receiver with
// constants. Types from other packages are not resolved and are accepted.
func enumUnderlying(src *source, expr ast.Expr) (string, bool) {
	seen := make(map[string]bool)
	for {
		switch t := expr.(type) {
		case *ast.SelectorExpr:
			return "", true
		case *ast.Ident:
			local, ok := src.types[t.Name]
			if !ok {
				if predeclaredInterfaces[t.Name] {
					return "interface " + t.Name, false
				}
				return "", true
			}
			if seen[t.Name] {
				return "cyclic type " + t.Name, false
			}
			seen[t.Name] = true
			if local.TypeParams != nil {
				return "generic type " + t.Name, false
			}
			expr = local.Type
		default:
			return shapeOf(expr), false
		}
	}
}

// localTypes indexes every type declared in the package by name.
func localTypes(files []*ast.File) map[string]*ast.TypeSpec {
	out := make(map[string]*ast.TypeSpec)
	for _, file := range files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					out[ts.Name.Name] = ts
				}
			}
		}
	}
	return out
}

// collectConsts groups the package's constants by their declared type name,
// preserving source order. Implicitly repeated specs inherit the type of the
// previous spec in the same const block, as iota enums rely on.
func collectConsts(src *source) map[string][]constMember {
	out := make(map[string][]constMember)
	for _, file := range src.files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.CONST {
				continue
			}
			lastType := ""
			for _, spec := range gen.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				switch {
				case vs.Type != nil:
					lastType = ""
					if id, ok := vs.Type.(*ast.Ident); ok {
						lastType = id.Name
					}
				case len(vs.Values) > 0:
					// untyped constant
					lastType = ""
				}
				if lastType == "" {
					continue
				}

				docs := []*ast.CommentGroup{vs.Doc, vs.Comment}
				if !gen.Lparen.IsValid() {
					docs = append(docs, gen.Doc)
				}
				for _, id := range vs.Names {
					if id.Name == "_" {
						continue
					}
					out[lastType] = append(out[lastType], constMember{name: id, docs: docs})
				}
			}
		}
	}
	return out
}

// shapeOf describes a type expression for diagnostics.
func shapeOf(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StructType:
		return "struct"
	case *ast.InterfaceType:
		if t.Methods != nil {
			for _, m := range t.Methods.List {
				if len(m.Names) > 0 {
					continue
				}
				switch e := m.Type.(type) {
				case *ast.BinaryExpr:
					if e.Op == token.OR {
						return "union"
					}
				case *ast.UnaryExpr:
					if e.Op == token.TILDE {
						return "union"
					}
				}
			}
		}
		return "interface"
	case *ast.ArrayType:
		if t.Len == nil {
			return "slice"
		}
		return "array"
	case *ast.MapType:
		return "map"
	case *ast.FuncType:
		return "func"
	case *ast.ChanType:
		return "chan"
	case *ast.StarExpr:
		return "pointer"
	case *ast.IndexExpr, *ast.IndexListExpr:
		return "generic instantiation"
	case *ast.Ident, *ast.SelectorExpr:
		return "defined type " + types.ExprString(expr)
	}
	return "unsupported type expression"
}

// embeddedFieldName returns the implicit name of an embedded field, for
// diagnostics only.
func embeddedFieldName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.StarExpr:
		return embeddedFieldName(t.X)
	case *ast.IndexExpr:
		return embeddedFieldName(t.X)
	case *ast.IndexListExpr:
		return embeddedFieldName(t.X)
	}
	return ""
}
