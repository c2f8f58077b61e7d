package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dyike/QuantHedge/internal/storage"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent hedging cycles from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			out := cmd.OutOrStdout()
			if cfg.JournalPath == "" {
				fmt.Fprintln(out, "Journal is disabled (journal_path is empty).")
				return nil
			}
			j, err := storage.Open(cmd.Context(), cfg.JournalPath)
			if err != nil {
				return err
			}
			defer j.Close()

			recs, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintln(out, "No cycles recorded yet.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWHEN\tSTATUS\tACTION\tTICKER\tQTY\tTRADE")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
					r.ID, humanize.Time(r.CreatedAt), r.Status, r.Action, r.Ticker, r.Quantity, r.TradeStatus)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of cycles to show")
	return cmd
}
