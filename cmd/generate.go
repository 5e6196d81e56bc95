package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/fieldnames/pkg/action/generate"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
	rootCmd.AddCommand(NewCheckCommand())
}

func NewGenerateCommand() *cobra.Command {
	// generateCmd represents the fieldnames generate command
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate member-name lists",
		Long: `Generate writes fieldnames_gen.go into every package that has a type marked
with //fieldnames:derive or //variantnames:derive, or named by --fields/--variants.`,
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			written, err := generate.Generate(opts)
			if err != nil {
				return err
			}
			slog.With("dir", opts.InDir, "files", written).Info("generated " + countOf(len(written), "file"))
			return nil
		},
	}
	addOptionFlags(generateCmd)

	return generateCmd
}

func NewCheckCommand() *cobra.Command {
	var checkCmd = &cobra.Command{
		Use:   "check",
		Short: "verify generated member-name lists are up to date",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			drifts, err := generate.Check(opts)
			if err != nil {
				return err
			}
			for _, d := range drifts {
				if d.Missing {
					fmt.Fprintf(c.OutOrStdout(), "%s: missing\n", d.Path)
					continue
				}
				if d.Orphaned {
					fmt.Fprintf(c.OutOrStdout(), "%s: no longer generated\n", d.Path)
					continue
				}
				fmt.Fprintf(c.OutOrStdout(), "%s: stale (-on disk +expected):\n%s\n", d.Path, d.Diff)
			}
			if len(drifts) > 0 {
				return fmt.Errorf("%s out of date, run fieldnames generate", countOf(len(drifts), "file"))
			}
			return nil
		},
	}
	addOptionFlags(checkCmd)

	return checkCmd
}
