package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazyhaar/greenmeds/pkg/api"
	"github.com/hazyhaar/greenmeds/pkg/catalog"
	"github.com/hazyhaar/greenmeds/pkg/report"
	"github.com/hazyhaar/greenmeds/pkg/score"
)

var (
	listToxicity string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Explore the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		resp, err := svc.Endpoints(zap.L()).List(cmd.Context(), &api.ListRequest{Toxicity: listToxicity})
		if err != nil {
			return err
		}
		lr := resp.(*api.ListResponse)
		if listJSON {
			return report.RenderJSON(cmd.OutOrStdout(), lr)
		}
		return displayMedicines(cmd.OutOrStdout(), lr.Medicines)
	},
}

func init() {
	listCmd.Flags().StringVar(&listToxicity, "toxicity", "", "only list this toxicity level (Low, Medium, High)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print the records as JSON")
	rootCmd.AddCommand(listCmd)
}

func displayMedicines(out io.Writer, recs []catalog.Record) error {
	const tabPadding = 2
	w := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(w, "Medicine\tToxicity\tCompost\tScore\tDisposal")
	fmt.Fprintln(w, "--------\t--------\t-------\t-----\t--------")
	for _, r := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.Name, r.ToxicityLevel, r.CompostSafe, score.Score(r), r.Disposal)
	}
	fmt.Fprintf(w, "\n%d medicines\n", len(recs))
	return w.Flush()
}
