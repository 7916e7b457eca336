package optimizer

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/bridge-planner/calendar"
)

// =============================================================================
// RESULT - One computed plan
// =============================================================================

// Result is immutable once returned: it may be shared through the cache.
type Result struct {
	PlanName          string          `json:"plan_name"`
	TargetYear        int             `json:"target_year"`
	Strategy          Strategy        `json:"strategy"`
	WinningOrdering   Ordering        `json:"winning_ordering,omitempty"`
	Period            calendar.Period `json:"period"`
	HasPartner        bool            `json:"has_partner"`
	Blocks            []VacationBlock `json:"blocks"`
	TotalDaysOff      int             `json:"total_days_off"` // person-days
	TotalPTOUsed      int             `json:"total_pto_used"`
	TotalBuddyPTOUsed int             `json:"total_buddy_pto_used"`
	TotalValue        decimal.Decimal `json:"total_value"`
	Summary           string          `json:"summary"`
	Suggestion        string          `json:"suggestion,omitempty"`
	RescueUsed        bool            `json:"rescue_used"`
	CandidateCount    int             `json:"candidate_count"`
}

// Empty reports whether no block could be selected.
func (r *Result) Empty() bool { return len(r.Blocks) == 0 }

// CalendarDaysOff counts distinct days off, ignoring the partner multiplier.
func (r *Result) CalendarDaysOff() int {
	total := 0
	for _, b := range r.Blocks {
		total += b.DaysOff
	}
	return total
}

// =============================================================================
// PLAN - The pure pipeline over an encoded timeline
// =============================================================================

// PlanInput is everything Plan needs besides the timeline.
type PlanInput struct {
	Preferences Preferences // sanitized
	Weights     ScoreWeights
	DailyRate   decimal.Decimal
}

// Plan generates candidates, falls back to the rescue pass when the strategy
// admits nothing, runs the tournament and materializes the winner.
func Plan(tl *calendar.Timeline, in PlanInput) *Result {
	prefs := in.Preferences
	strategy := prefs.Strategy

	cands := GenerateCandidates(tl, strategy, strategy.Config(), in.Weights, false)
	rescue := false
	if len(cands) == 0 {
		cands = GenerateCandidates(tl, strategy, RescueConfig, in.Weights, true)
		rescue = true
	}
	if prefs.Leave() == 0 {
		cands = preferOwnFree(cands)
	}

	budgets := Budgets{Self: prefs.Leave(), Partner: prefs.PartnerLeave()}
	winner := runTournament(cands, tl.TotalDays, budgets, partyMultiplier(tl.HasPartner))

	blocks := buildBlocks(tl, winner.Picks, in.DailyRate)
	totalValue := decimal.Zero
	for _, b := range blocks {
		totalValue = totalValue.Add(b.Value)
	}

	period := calendar.Period{Start: tl.Start, End: tl.Date(tl.TotalDays - 1)}
	r := &Result{
		PlanName:          planName(strategy, prefs.HasPartner),
		TargetYear:        period.Start.Year(),
		Strategy:          strategy,
		WinningOrdering:   winner.Ordering,
		Period:            period,
		HasPartner:        tl.HasPartner,
		Blocks:            blocks,
		TotalDaysOff:      winner.DaysOff,
		TotalPTOUsed:      winner.PTOUsed,
		TotalBuddyPTOUsed: winner.PartnerUsed,
		TotalValue:        totalValue,
		RescueUsed:        rescue,
		CandidateCount:    len(cands),
	}
	if r.Empty() {
		r.Suggestion = suggestion(prefs)
		r.WinningOrdering = ""
	}
	r.Summary = summary(r)
	return r
}

func planName(s Strategy, partner bool) string {
	if partner {
		return s.DisplayName() + " Plan for Two"
	}
	return s.DisplayName() + " Plan"
}

func summary(r *Result) string {
	if r.Empty() {
		return "No vacation blocks found for " + r.Period.String() + "."
	}
	s := fmt.Sprintf("%d block%s, %d days off for %d leave day%s",
		len(r.Blocks), plural(len(r.Blocks)),
		r.TotalDaysOff, r.TotalPTOUsed, plural(r.TotalPTOUsed))
	if r.HasPartner {
		s += fmt.Sprintf(" (partner: %d)", r.TotalBuddyPTOUsed)
	}
	if r.TotalValue.IsPositive() {
		s += ", worth " + r.TotalValue.StringFixed(2)
	}
	return s + "."
}

// suggestion explains an empty result. The checks go from the most to the
// least fundamental missing input.
func suggestion(p Preferences) string {
	switch {
	case p.Country == "":
		return "Select a country so public holidays can be included in your plan."
	case p.Leave() == 0:
		return "You have no leave days. Only breaks that need no leave are possible; add leave days to unlock bridges."
	default:
		cfg := p.Strategy.Config()
		return fmt.Sprintf("%d leave day%s is too few for the %s strategy (blocks of %d-%d days). Add leave days or try the %s strategy.",
			p.Leave(), plural(p.Leave()), p.Strategy.DisplayName(), cfg.MinLen, cfg.MaxLen,
			StrategyLongWeekends.DisplayName())
	}
}
