package model

// NameList is the ordered member-name list emitted for one declaration.
type NameList struct {
	Type       string
	PkgName    string
	PkgPath    string
	Dir        string
	Kind       Kind
	TypeParams []TypeParam
	Names      []string // source order, skipped members removed
}

// TypeParamNames returns just the parameter names, in declaration order.
func (l *NameList) TypeParamNames() []string {
	out := make([]string, len(l.TypeParams))
	for i, tp := range l.TypeParams {
		out[i] = tp.Name
	}
	return out
}
