package model

import (
	"go/token"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindStruct       // type T struct { ... } with named fields
	KindEnum         // type T int, members are the package's constants of type T
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// TypeParam is a single entry of a generic type's parameter list.
type TypeParam struct {
	Name       string // "T"
	Constraint string // "comparable", "~int | ~string", printed verbatim
}

type Field struct {
	Name string // "" for embedded fields
	Skip bool
	Pos  token.Position
}

func (f *Field) MemberName() string { return f.Name }
func (f *Field) Skipped() bool      { return f.Skip }

type Variant struct {
	Name string
	Skip bool
	Pos  token.Position
}

func (v *Variant) MemberName() string { return v.Name }
func (v *Variant) Skipped() bool      { return v.Skip }

// Declaration is a decoded, validated type declaration. Exactly one of Fields
// or Variants is populated, depending on Kind.
type Declaration struct {
	// Identity ------------------------------------------------------------
	Name    string // "Example"
	PkgName string // "widgets"
	PkgPath string // "github.com/you/project/widgets"
	Dir     string // package directory on disk
	Pos     token.Position

	// Generics ------------------------------------------------------------
	TypeParams []TypeParam

	// Members -------------------------------------------------------------
	Kind     Kind
	Fields   []*Field   // only valid when KindStruct
	Variants []*Variant // only valid when KindEnum
}
