package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazyhaar/greenmeds/pkg/api"
	"github.com/hazyhaar/greenmeds/pkg/report"
	"github.com/hazyhaar/greenmeds/pkg/resolve"
)

var batchJSON bool

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Resolve one medicine name per line (FILE or - for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return eris.Wrap(err, "open batch file")
			}
			defer f.Close()
			in = f
		}
		inputs, err := readInputs(in)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return eris.New("batch file has no names")
		}

		svc, err := newService()
		if err != nil {
			return err
		}
		eps := svc.Endpoints(zap.L())

		var results []api.BatchItem
		for start := 0; start < len(inputs); start += api.MaxBatch {
			end := min(start+api.MaxBatch, len(inputs))
			resp, err := eps.Batch(cmd.Context(), &api.BatchRequest{Inputs: inputs[start:end]})
			if err != nil {
				return err
			}
			results = append(results, resp.(*api.BatchResponse).Results...)
		}

		if batchJSON {
			return report.RenderJSON(cmd.OutOrStdout(), api.BatchResponse{Results: results})
		}
		return displayBatch(cmd.OutOrStdout(), results)
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print the results as JSON")
	rootCmd.AddCommand(batchCmd)
}

// readInputs returns the non-blank lines of r, trimmed.
func readInputs(r io.Reader) ([]string, error) {
	var inputs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			inputs = append(inputs, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "read batch input")
	}
	return inputs, nil
}

func displayBatch(out io.Writer, results []api.BatchItem) error {
	const tabPadding = 2
	w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(w, "Input\tResult\tMedicine\tScore")
	fmt.Fprintln(w, "-----\t------\t--------\t-----")
	for _, item := range results {
		res := item.Resolution
		switch res.Kind {
		case resolve.Exact:
			fmt.Fprintf(w, "%s\t%s\t%s\t%d/100\n", res.Input, res.Kind, res.Record.Name, item.Assessment.Score)
		case resolve.Ambiguous:
			fmt.Fprintf(w, "%s\t%s\t%s\t-\n", res.Input, res.Kind, strings.Join(res.CandidateNames(), ", "))
		default:
			fmt.Fprintf(w, "%s\t%s\t-\t-\n", res.Input, res.Kind)
		}
	}
	return w.Flush()
}
