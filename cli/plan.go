package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warp/bridge-planner/calendar"
	"github.com/warp/bridge-planner/export"
	"github.com/warp/bridge-planner/optimizer"
)

type planFlags struct {
	leave          float64
	timeframe      string
	strategy       string
	country        string
	region         string
	partner        bool
	partnerLeave   float64
	partnerCountry string
	partnerRegion  string
	rate           float64
	asJSON         bool
	asICS          bool
}

func (a *app) planCmd() *cobra.Command {
	var f planFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute a vacation plan",
		Long: `Compute the set of breaks that gives the most days off for the leave
budget, using the public holidays of the chosen country and region.`,
		Example: `  planner plan --leave 10 --country "United States" --region calif
  planner plan --leave 24 --country DE --region bavaria --partner --partner-leave 20 --partner-region berlin
  planner plan --leave 15 --timeframe rolling --strategy mini_breaks --ics > breaks.ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlan(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&f.leave, "leave", 0, "leave days available")
	fl.StringVar(&f.timeframe, "timeframe", "", `calendar year ("2025") or "rolling" (default: this year)`)
	fl.StringVar(&f.strategy, "strategy", string(optimizer.StrategyBalanced), "planning strategy, see 'planner strategies'")
	fl.StringVar(&f.country, "country", "", "country name or code")
	fl.StringVar(&f.region, "region", "", "state or region, free text")
	fl.BoolVar(&f.partner, "partner", false, "plan for two people")
	fl.Float64Var(&f.partnerLeave, "partner-leave", 0, "partner's leave days")
	fl.StringVar(&f.partnerCountry, "partner-country", "", "partner's country (default: same as --country)")
	fl.StringVar(&f.partnerRegion, "partner-region", "", "partner's region")
	fl.Float64Var(&f.rate, "rate", 0, "value of one day off (default: optimizer default)")
	fl.BoolVar(&f.asJSON, "json", false, "print the result as JSON")
	fl.BoolVar(&f.asICS, "ics", false, "print the plan as an iCalendar file")
	cmd.MarkFlagsMutuallyExclusive("json", "ics")

	return cmd
}

func (a *app) runPlan(cmd *cobra.Command, f planFlags) error {
	prefs, err := f.preferences()
	if err != nil {
		return err
	}

	opt, _, err := a.optimizer(cmd)
	if err != nil {
		return err
	}
	res, err := opt.Optimize(cmd.Context(), prefs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case f.asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case f.asICS:
		doc, err := export.ICS(res, a.now())
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, doc)
		return err
	default:
		renderPlan(out, res)
		return nil
	}
}

// preferences rejects unknown strategies and timeframes instead of resetting
// them.
func (f planFlags) preferences() (optimizer.Preferences, error) {
	strategy, err := optimizer.ParseStrategy(f.strategy)
	if err != nil {
		return optimizer.Preferences{}, err
	}
	var tf calendar.Timeframe
	if f.timeframe != "" {
		if tf, err = calendar.ParseTimeframe(f.timeframe); err != nil {
			return optimizer.Preferences{}, err
		}
	}
	return optimizer.Preferences{
		LeaveDays:        f.leave,
		Timeframe:        tf,
		Strategy:         strategy,
		Country:          f.country,
		Region:           f.region,
		HasPartner:       f.partner,
		PartnerLeaveDays: f.partnerLeave,
		PartnerCountry:   f.partnerCountry,
		PartnerRegion:    f.partnerRegion,
		DailyRate:        f.rate,
	}, nil
}

// =============================================================================
// RENDERING
// =============================================================================

func renderPlan(w io.Writer, res *optimizer.Result) {
	fmt.Fprintln(w, titleStyle.Render(res.PlanName))
	fmt.Fprintln(w, subtleStyle.Render(fmt.Sprintf("%s  ·  %s", res.Period, res.Strategy.DisplayName())))
	fmt.Fprintln(w)

	if res.Empty() {
		fmt.Fprintln(w, "No breaks found.")
		if res.Suggestion != "" {
			fmt.Fprintln(w, warnStyle.Render(res.Suggestion))
		}
		return
	}

	for _, b := range res.Blocks {
		fmt.Fprintf(w, "%s  %s → %s  %s\n",
			labelStyle.Render(fmt.Sprintf("%-26s", b.Label)),
			b.Start, b.End,
			subtleStyle.Render(blockCost(b)),
		)
		if names := b.HolidayNames(); len(names) > 0 {
			fmt.Fprintf(w, "    %s\n", holidayStyle.Render(strings.Join(names, ", ")))
		}
	}
	fmt.Fprintln(w)

	totals := []string{
		fmt.Sprintf("Days off:   %d", res.TotalDaysOff),
		fmt.Sprintf("Leave used: %d", res.TotalPTOUsed),
	}
	if res.HasPartner {
		totals = append(totals, fmt.Sprintf("Partner:    %d", res.TotalBuddyPTOUsed))
	}
	if res.TotalValue.IsPositive() {
		totals = append(totals, fmt.Sprintf("Value:      %s", res.TotalValue.StringFixed(2)))
	}
	fmt.Fprintln(w, summaryBox.Render(strings.Join(totals, "\n")))
	fmt.Fprintln(w, res.Summary)
}

func blockCost(b optimizer.VacationBlock) string {
	s := fmt.Sprintf("%d days for %d", b.DaysOff, b.PTODaysUsed)
	if b.BuddyPTODaysUsed > 0 {
		s += fmt.Sprintf(" + %d", b.BuddyPTODaysUsed)
	}
	return s
}
