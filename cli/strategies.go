package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/bridge-planner/optimizer"
)

func (a *app) strategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "Show the planning strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLENGTH\tMIN EFFICIENCY")
			for _, s := range optimizer.Strategies() {
				cfg := s.Config()
				fmt.Fprintf(w, "%s\t%s\t%d-%d days\t%.1f\n", s, s.DisplayName(), cfg.MinLen, cfg.MaxLen, cfg.Threshold)
			}
			return w.Flush()
		},
	}
}
