package cmd

import (
	"fmt"

	"github.com/jinzhu/inflection"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/fieldnames/pkg/parser"
)

// optionFlags maps each generation flag to its viper key under "generate".
var optionFlags = map[string]string{
	"input-directory": "generate.in_dir",
	"output-file":     "generate.out_file",
	"recursive":       "generate.recursive",
	"fields":          "generate.field_types",
	"variants":        "generate.variant_types",
	"fields-method":   "generate.fields_method",
	"variants-method": "generate.variants_method",
	"test-only":       "generate.test_only",
	"tags":            "generate.tags",
}

func addOptionFlags(c *cobra.Command) {
	flags := c.Flags()
	flags.StringP("input-directory", "i", ".", "directory (package) to scan")
	flags.StringP("output-file", "f", parser.DefaultOutFile, "file written into every package that has generated types")
	flags.BoolP("recursive", "r", false, "scan input-directory/... instead of a single package")
	flags.StringSlice("fields", []string{}, "struct types to generate field names for, in addition to //fieldnames:derive")
	flags.StringSlice("variants", []string{}, "enum types to generate variant names for, in addition to //variantnames:derive")
	flags.String("fields-method", parser.DefaultFieldsMethod, "name of the generated method on structs")
	flags.String("variants-method", parser.DefaultVariantsMethod, "name of the generated method on enums")
	flags.Bool("test-only", false, "write a _test.go file so the lists only exist in test builds")
	flags.StringSlice("tags", []string{}, "build tags used when loading packages")

	// bind at run time: several commands share the same keys and viper keeps
	// only the last binding per key
	c.PreRunE = func(c *cobra.Command, _ []string) error {
		for name, key := range optionFlags {
			if err := viper.BindPFlag(key, c.Flags().Lookup(name)); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
		return nil
	}
}

// loadOptions merges config files, environment and flags into parser.Options.
func loadOptions() (*parser.Options, error) {
	var cfg struct {
		Generate parser.Options `mapstructure:"generate"`
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	opts := &cfg.Generate
	opts.Normalize()
	return opts, nil
}

// countOf renders "1 type", "3 types".
func countOf(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %s", n, inflection.Plural(noun))
}
