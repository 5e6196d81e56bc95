package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/fieldnames/pkg/action/snapshot"
)

const defaultManifest = "fieldnames.manifest.yaml"

func init() {
	rootCmd.AddCommand(NewSnapshotCommand())
}

func NewSnapshotCommand() *cobra.Command {
	var manifestPath string

	var snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "record and compare member-name lists over time",
	}
	snapshotCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", defaultManifest, "manifest file")

	var recordCmd = &cobra.Command{
		Use:   "record",
		Short: "record the current member-name lists in the manifest",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			m, err := snapshot.Record(opts, manifestPath)
			if err != nil {
				return err
			}
			slog.With("manifest", manifestPath, "module", m.Module).Info("recorded " + countOf(len(m.Entries), "type"))
			return nil
		},
	}
	addOptionFlags(recordCmd)

	var diffCmd = &cobra.Command{
		Use:   "diff",
		Short: "compare the current member-name lists with the manifest",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions()
			if err != nil {
				return err
			}
			changes, err := snapshot.Diff(opts, manifestPath)
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			for _, ch := range changes {
				switch {
				case ch.Added:
					fmt.Fprintf(out, "+ %s\n", ch.Key)
				case ch.Removed:
					fmt.Fprintf(out, "- %s\n", ch.Key)
				default:
					fmt.Fprintf(out, "~ %s (-recorded +current):\n%s\n", ch.Key, ch.Diff)
				}
			}
			if len(changes) > 0 {
				return fmt.Errorf("%s changed since %s was recorded", countOf(len(changes), "type"), manifestPath)
			}
			return nil
		},
	}
	addOptionFlags(diffCmd)

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "print the recorded member-name lists",
		RunE: func(c *cobra.Command, args []string) error {
			m, err := snapshot.List(manifestPath)
			if err != nil {
				return err
			}
			for _, e := range m.Entries {
				fmt.Fprintf(c.OutOrStdout(), "%s\t%v\n", e.Key(), e.Names)
			}
			return nil
		},
	}

	snapshotCmd.AddCommand(recordCmd, diffCmd, listCmd)

	return snapshotCmd
}
