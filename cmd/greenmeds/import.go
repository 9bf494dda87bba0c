package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazyhaar/greenmeds/pkg/importer"
)

var (
	importSource    string
	importOutputDir string
)

var importCmd = &cobra.Command{
	Use:   "import CATALOG",
	Short: "Convert a catalog into a gob or SQLite snapshot directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if importSource == "" {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available sources:")
			for _, a := range importer.All() {
				fmt.Fprintf(out, "  %-12s  %s\n", a.ID(), a.Description())
			}
			fmt.Fprintln(out, "\nUsage:\n  greenmeds import --source <id> [--output-dir <dir>] [CATALOG]")
			return nil
		}

		a, err := importer.Get(importSource)
		if err != nil {
			return err
		}
		src := cfg.Catalog.Path
		if len(args) == 1 {
			src = args[0]
		}

		sum, err := a.Import(cmd.Context(), src, importOutputDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %d records written to %s (%d data issues)\n",
			sum.Adapter, sum.Records, sum.Output, sum.Issues)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSource, "source", "", "adapter ID (csv-gob, csv-sqlite)")
	importCmd.Flags().StringVar(&importOutputDir, "output-dir", "catalog", "output directory for the snapshot")
	rootCmd.AddCommand(importCmd)
}
