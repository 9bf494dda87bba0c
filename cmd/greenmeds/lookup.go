package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazyhaar/greenmeds/pkg/api"
	"github.com/hazyhaar/greenmeds/pkg/report"
	"github.com/hazyhaar/greenmeds/pkg/resolve"
)

// lookupFlags are shared by lookup and scan.
type lookupFlags struct {
	pick int
	json bool
	out  string
}

func (f *lookupFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.pick, "pick", 0, "report the Nth suggestion when the name is ambiguous")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&f.out, "out", "", "also save the plain report to this file (a directory gets <name>_eco_report.txt)")
}

var lookupOpts lookupFlags

var lookupCmd = &cobra.Command{
	Use:   "lookup NAME...",
	Short: "Look up a medicine by name",
	Long:  "Resolves a possibly misspelled medicine name; dosage (\"500mg\") and form words (\"tablet\", \"SR\") are ignored.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		return runLookup(cmd, svc, strings.Join(args, " "), lookupOpts)
	},
}

func init() {
	lookupOpts.register(lookupCmd)
	rootCmd.AddCommand(lookupCmd)
}

// runLookup resolves input through the lookup endpoint and prints the outcome.
func runLookup(cmd *cobra.Command, svc *api.Service, input string, opts lookupFlags) error {
	eps := svc.Endpoints(zap.L())
	resp, err := eps.Lookup(cmd.Context(), &api.LookupRequest{Input: input, Pick: opts.pick})
	if err != nil {
		return err
	}
	lr := resp.(*api.LookupResponse)
	w := cmd.OutOrStdout()

	if lr.Report != nil && opts.out != "" {
		if err := saveReport(opts.out, *lr.Report); err != nil {
			return err
		}
	}
	if opts.json {
		return report.RenderJSON(w, lr)
	}

	if lr.Report != nil {
		return report.Render(w, *lr.Report)
	}
	switch lr.Resolution.Kind {
	case resolve.Ambiguous:
		printSuggestions(w, lr.Resolution)
	default:
		fmt.Fprintln(w, "No medicine match found. Check the spelling or try another name.")
	}
	return nil
}

func printSuggestions(w io.Writer, res resolve.Resolution) {
	fmt.Fprintln(w, "Couldn't find an exact match, but here are close suggestions:")
	for i, c := range res.Candidates {
		fmt.Fprintf(w, "  %d. %s (%.0f%% similar)\n", i+1, c.Name, c.Similarity*100)
	}
	fmt.Fprintln(w, "Run again with --pick N to see the report for one of them.")
}

// saveReport writes the plain report to path, or into path when it is a
// directory.
func saveReport(path string, rep report.Report) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, report.FileName(rep.Record.Name))
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "create report file")
	}
	defer f.Close()

	if err := report.RenderPlain(f, rep); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "close report file")
	}
	zap.L().Info("report saved", zap.String("path", path))
	return nil
}
