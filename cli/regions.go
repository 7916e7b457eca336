package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) regionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List or resolve regions",
	}

	list := &cobra.Command{
		Use:   "list [country]",
		Short: "List countries, or the regions of one country",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.dataset()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "COUNTRY\tCODES\tREGIONS\tHOLIDAYS")
				for _, c := range ds.Countries() {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\n",
						c.Name,
						strings.Join(c.Codes, ", "),
						len(c.RegionKeys()),
						c.HolidayCount(),
					)
				}
				return w.Flush()
			}

			c, ok := ds.Country(args[0])
			if !ok {
				return fmt.Errorf("unknown country %q", args[0])
			}
			fmt.Fprintln(out, titleStyle.Render(c.Name))
			for _, key := range c.RegionKeys() {
				fmt.Fprintln(out, "  "+key)
			}
			return nil
		},
	}

	resolve := &cobra.Command{
		Use:   "resolve <country> <region>",
		Short: "Show which region free text resolves to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.dataset()
			if err != nil {
				return err
			}
			if _, ok := ds.Country(args[0]); !ok {
				return fmt.Errorf("unknown country %q", args[0])
			}

			_, provider, err := a.optimizer(cmd)
			if err != nil {
				return err
			}
			key, found := provider.ResolveRegion(args[0], args[1])
			out := cmd.OutOrStdout()
			if !found {
				fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("%q matches no region; federal holidays only", args[1])))
				return nil
			}
			fmt.Fprintf(out, "%s → %s\n", args[1], labelStyle.Render(key))
			return nil
		},
	}

	cmd.AddCommand(list, resolve)
	return cmd
}
