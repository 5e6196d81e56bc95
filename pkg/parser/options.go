package parser

import (
	"path/filepath"
	"strings"
)

const (
	DefaultOutFile        = "fieldnames_gen.go"
	DefaultTestOutFile    = "fieldnames_gen_test.go"
	DefaultFieldsMethod   = "FieldNames"
	DefaultVariantsMethod = "VariantNames"
)

// Options control parsing and generation.
//
// InDir          – directory (package) to parse
// OutFile        – file name written into every package directory
// Recursive      – parse InDir/... instead of just InDir
// FieldTypes     – struct types to generate field names for, in addition to //fieldnames:derive
// VariantTypes   – enum types to generate variant names for, in addition to //variantnames:derive
// FieldsMethod   – name of the generated method on structs
// VariantsMethod – name of the generated method on enums
// TestOnly       – emit into a _test.go file so the lists only exist in test builds
// Tags           – build tags used when loading packages
type Options struct {
	InDir          string   `json:"in_dir,omitempty" yaml:"in_dir,omitempty" toml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	OutFile        string   `json:"out_file,omitempty" yaml:"out_file,omitempty" toml:"out_file,omitempty" mapstructure:"out_file,omitempty"`
	Recursive      bool     `json:"recursive,omitempty" yaml:"recursive,omitempty" toml:"recursive,omitempty" mapstructure:"recursive,omitempty"`
	FieldTypes     []string `json:"field_types,omitempty" yaml:"field_types,omitempty" toml:"field_types,omitempty" mapstructure:"field_types,omitempty"`
	VariantTypes   []string `json:"variant_types,omitempty" yaml:"variant_types,omitempty" toml:"variant_types,omitempty" mapstructure:"variant_types,omitempty"`
	FieldsMethod   string   `json:"fields_method,omitempty" yaml:"fields_method,omitempty" toml:"fields_method,omitempty" mapstructure:"fields_method,omitempty"`
	VariantsMethod string   `json:"variants_method,omitempty" yaml:"variants_method,omitempty" toml:"variants_method,omitempty" mapstructure:"variants_method,omitempty"`
	TestOnly       bool     `json:"test_only,omitempty" yaml:"test_only,omitempty" toml:"test_only,omitempty" mapstructure:"test_only,omitempty"`
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty" mapstructure:"tags,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		InDir:          ".",
		OutFile:        DefaultOutFile,
		FieldsMethod:   DefaultFieldsMethod,
		VariantsMethod: DefaultVariantsMethod,
	}
}

func (o *Options) Normalize() {
	if len(o.InDir) == 0 {
		o.InDir = "."
	}
	if abs, err := filepath.Abs(o.InDir); err == nil {
		o.InDir = abs
	}
	if len(o.OutFile) == 0 {
		o.OutFile = DefaultOutFile
		if o.TestOnly {
			o.OutFile = DefaultTestOutFile
		}
	}
	if o.TestOnly && !strings.HasSuffix(o.OutFile, "_test.go") {
		o.OutFile = strings.TrimSuffix(o.OutFile, ".go") + "_test.go"
	}
	if len(o.FieldsMethod) == 0 {
		o.FieldsMethod = DefaultFieldsMethod
	}
	if len(o.VariantsMethod) == 0 {
		o.VariantsMethod = DefaultVariantsMethod
	}
	o.FieldTypes = trimNames(o.FieldTypes)
	o.VariantTypes = trimNames(o.VariantTypes)
}

func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInDir(d string) Option          { return func(o *Options) { o.InDir = d } }
func WithOutFile(f string) Option        { return func(o *Options) { o.OutFile = f } }
func WithRecursive() Option              { return func(o *Options) { o.Recursive = true } }
func WithFieldsMethod(m string) Option   { return func(o *Options) { o.FieldsMethod = m } }
func WithVariantsMethod(m string) Option { return func(o *Options) { o.VariantsMethod = m } }
func WithTestOnly() Option               { return func(o *Options) { o.TestOnly = true } }
func WithTags(tags ...string) Option     { return func(o *Options) { o.Tags = append(o.Tags, tags...) } }
func WithFieldTypes(names ...string) Option {
	return func(o *Options) { o.FieldTypes = append(o.FieldTypes, names...) }
}
func WithVariantTypes(names ...string) Option {
	return func(o *Options) { o.VariantTypes = append(o.VariantTypes, names...) }
}
