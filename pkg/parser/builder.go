package parser

import (
	"github.com/cmmoran/fieldnames/internal/model"
)

// Member is anything that contributes a name to a NameList.
type Member interface {
	MemberName() string
	Skipped() bool
}

// FilterNames drops skipped members and maps the rest to their names, keeping
// declaration order. Names are neither deduplicated nor normalized. The result
// is never nil.
func FilterNames[M Member](members []M) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m.Skipped() {
			continue
		}
		out = append(out, m.MemberName())
	}
	return out
}

// Builder turns decoded declarations into the name lists that get emitted.
type Builder struct {
	decls Declarations
}

func NewBuilder(decls Declarations) *Builder {
	return &Builder{
		decls: decls,
	}
}

// BuildAll returns one NameList per declaration, in declaration order.
func (b *Builder) BuildAll() NameLists {
	out := make(NameLists, 0, len(b.decls))
	for _, d := range b.decls {
		if l := b.Build(d); l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (b *Builder) Build(d *model.Declaration) *model.NameList {
	if d == nil {
		return nil
	}

	l := &model.NameList{
		Type:       d.Name,
		PkgName:    d.PkgName,
		PkgPath:    d.PkgPath,
		Dir:        d.Dir,
		Kind:       d.Kind,
		TypeParams: append([]model.TypeParam(nil), d.TypeParams...),
	}
	switch d.Kind {
	case model.KindStruct:
		l.Names = FilterNames(d.Fields)
	case model.KindEnum:
		l.Names = FilterNames(d.Variants)
	default:
		return nil
	}
	return l
}
