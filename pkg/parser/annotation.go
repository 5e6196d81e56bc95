package parser

import (
	"fmt"
	"go/ast"
	"slices"
	"strconv"
	"strings"
)

const (
	FieldNamespace   = "fieldnames"
	VariantNamespace = "variantnames"

	OptionSkip   = "skip"
	OptionDerive = "derive"
)

var (
	memberOptions = []string{OptionSkip}
	typeOptions   = []string{OptionDerive}
)

// annotation is the decoded option set found under one namespace on a single
// member or type. The zero value means "no annotation present".
type annotation struct {
	present bool
	options map[string]bool
}

func (a annotation) has(opt string) bool {
	return a.options[opt]
}

func (a *annotation) merge(opts map[string]bool) {
	a.present = true
	if a.options == nil {
		a.options = make(map[string]bool, len(opts))
	}
	for k := range opts {
		a.options[k] = true
	}
}

// parseOptionList validates a comma separated option list against the closed
// set of allowed options. Options are presence-only flags.
func parseOptionList(ns, raw string, allowed []string) (map[string]bool, error) {
	opts := map[string]bool{}
	if raw == "" {
		return opts, nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
			return nil, fmt.Errorf("%w: empty option in %s %q", ErrMalformedAnnotation, ns, raw)
		case strings.Contains(part, "="):
			name, _, _ := strings.Cut(part, "=")
			if slices.Contains(allowed, name) {
				return nil, fmt.Errorf("%w: %s option %q takes no value", ErrMalformedAnnotation, ns, name)
			}
			return nil, fmt.Errorf("%w: %s option %q", ErrUnknownOption, ns, name)
		case !slices.Contains(allowed, part):
			return nil, fmt.Errorf("%w: %s option %q", ErrUnknownOption, ns, part)
		}
		opts[part] = true
	}
	return opts, nil
}

// directiveAnnotation collects every //ns:options directive in the given
// comment groups. A bare //ns directive counts as present with no options.
func directiveAnnotation(ns string, allowed []string, groups ...*ast.CommentGroup) (annotation, error) {
	var (
		a      annotation
		prefix = "//" + ns
	)
	for _, cg := range groups {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			rest, ok := strings.CutPrefix(c.Text, prefix)
			if !ok {
				continue
			}
			rest = strings.TrimRight(rest, " \t\r")
			if rest == "" {
				a.merge(nil)
				continue
			}
			if rest[0] != ':' {
				// //fieldnamesX or // fieldnames is not ours
				continue
			}
			payload := rest[1:]
			if strings.ContainsAny(payload, " \t") {
				return annotation{}, fmt.Errorf("%w: unexpected text in directive %q", ErrMalformedAnnotation, c.Text)
			}
			opts, err := parseOptionList(ns, payload, allowed)
			if err != nil {
				return annotation{}, err
			}
			a.merge(opts)
		}
	}
	return a, nil
}

// tagAnnotation reads the ns key of a struct field tag literal.
func tagAnnotation(ns string, allowed []string, lit *ast.BasicLit) (annotation, error) {
	if lit == nil {
		return annotation{}, nil
	}
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		return annotation{}, fmt.Errorf("%w: struct tag %s: %v", ErrMalformedAnnotation, lit.Value, err)
	}
	tags, err := structTagToMap(raw)
	if err != nil {
		return annotation{}, err
	}
	val, ok := tags[ns]
	if !ok {
		return annotation{}, nil
	}
	opts, err := parseOptionList(ns, val, allowed)
	if err != nil {
		return annotation{}, err
	}
	var a annotation
	a.merge(opts)
	return a, nil
}

// structTagToMap converts a struct tag into a key/value map. Unlike
// reflect.StructTag.Lookup it reports syntax errors instead of silently
// stopping at the first one.
func structTagToMap(tag string) (map[string]string, error) {
	m := map[string]string{}
	for {
		tag = strings.TrimLeft(tag, " ")
		if tag == "" {
			return m, nil
		}

		i := 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			return nil, fmt.Errorf("%w: bad syntax for struct tag pair in %q", ErrMalformedAnnotation, tag)
		}
		key := tag[:i]
		tag = tag[i+1:]

		// scan quoted value
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			return nil, fmt.Errorf("%w: unterminated value for struct tag key %q", ErrMalformedAnnotation, key)
		}
		val, err := strconv.Unquote(tag[:i+1])
		if err != nil {
			return nil, fmt.Errorf("%w: bad value for struct tag key %q: %v", ErrMalformedAnnotation, key, err)
		}
		m[key] = val
		tag = tag[i+1:]
	}
}
