package optimizer

import (
	"fmt"
	"math"
	"strings"

	"github.com/warp/bridge-planner/calendar"
)

// MaxDays bounds every day-count input.
const MaxDays = 365

// maxDailyRate keeps the monetary estimate within sane bounds.
const maxDailyRate = 100000

// Preferences is what the planner UI collects. Numbers are float64 so that
// NaN and infinities from loosely typed clients can be coerced instead of
// rejected.
type Preferences struct {
	LeaveDays        float64            `json:"leave_days"`
	Timeframe        calendar.Timeframe `json:"timeframe"`
	Strategy         Strategy           `json:"strategy"`
	Country          string             `json:"country"`
	Region           string             `json:"region"`
	HasPartner       bool               `json:"has_partner"`
	PartnerLeaveDays float64            `json:"partner_leave_days"`
	PartnerCountry   string             `json:"partner_country"`
	PartnerRegion    string             `json:"partner_region"`

	// DailyRate values one recovered day. Zero means the optimizer default.
	DailyRate float64 `json:"daily_rate,omitempty"`
}

// Sanitize never fails: bad values are clamped or reset.
//   - day counts: non-finite → 0, clamped to [0, 365], truncated to whole days
//   - strings: trimmed
//   - partner fields: zeroed without a partner; an empty partner country
//     means the partner shares the user's country and region
//   - unknown strategy → Balanced; unknown timeframe → calendar year,
//     out-of-range year → current year
func (p Preferences) Sanitize() Preferences {
	out := Preferences{
		LeaveDays:  clampDays(p.LeaveDays),
		Timeframe:  sanitizeTimeframe(p.Timeframe),
		Strategy:   p.Strategy,
		Country:    strings.TrimSpace(p.Country),
		Region:     strings.TrimSpace(p.Region),
		HasPartner: p.HasPartner,
		DailyRate:  sanitizeRate(p.DailyRate),
	}
	if !out.Strategy.Valid() {
		out.Strategy = StrategyBalanced
	}
	if out.HasPartner {
		out.PartnerLeaveDays = clampDays(p.PartnerLeaveDays)
		out.PartnerCountry = strings.TrimSpace(p.PartnerCountry)
		out.PartnerRegion = strings.TrimSpace(p.PartnerRegion)
		if out.PartnerCountry == "" {
			out.PartnerCountry = out.Country
			out.PartnerRegion = out.Region
		}
	}
	return out
}

// Leave returns the own budget as whole days.
func (p Preferences) Leave() int { return int(clampDays(p.LeaveDays)) }

// PartnerLeave returns the partner budget, 0 without a partner.
func (p Preferences) PartnerLeave() int {
	if !p.HasPartner {
		return 0
	}
	return int(clampDays(p.PartnerLeaveDays))
}

// CacheKey identifies a sanitized request over a resolved period. Fields are
// written in a fixed order, so two equal preference values always produce the
// same key no matter how the client ordered its JSON.
func (p Preferences) CacheKey(period calendar.Period) string {
	return fmt.Sprintf("v1|%s|%s|%d|%s|%q|%q|%t|%d|%q|%q|%g",
		period.Start, period.End,
		p.Leave(), p.Strategy,
		strings.ToLower(p.Country), strings.ToLower(p.Region),
		p.HasPartner, p.PartnerLeave(),
		strings.ToLower(p.PartnerCountry), strings.ToLower(p.PartnerRegion),
		p.DailyRate,
	)
}

func clampDays(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > MaxDays {
		return MaxDays
	}
	return math.Floor(v)
}

func sanitizeRate(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return math.Min(v, maxDailyRate)
}

func sanitizeTimeframe(tf calendar.Timeframe) calendar.Timeframe {
	if tf.Type == calendar.TimeframeRolling {
		return calendar.Rolling12Months()
	}
	if tf.Year < 1900 || tf.Year > 9999 {
		return calendar.Timeframe{Type: calendar.TimeframeCalendarYear}
	}
	return calendar.CalendarYear(tf.Year)
}
