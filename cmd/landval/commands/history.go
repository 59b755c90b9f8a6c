package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past valuations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(); err != nil {
				return err
			}
			if err := appCtx.RefreshHistory(cmd.Context()); err != nil {
				return err
			}
			entries := appCtx.History.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No valuations yet.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWHEN\tCITY\tNEIGHBORHOOD\tPRICE")
			for _, e := range entries {
				when := e.Timestamp
				if t := e.Time(); !t.IsZero() {
					when = humanize.Time(t)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t₹%s\n",
					e.ID, when, e.City, orDash(e.Neighborhood), humanize.FormatFloat("#,###.##", e.PredictedPrice))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many entries")
	return cmd
}
