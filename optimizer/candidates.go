package optimizer

import (
	"time"

	"github.com/warp/bridge-planner/calendar"
)

// FreeEfficiency stands in for days-off/leave when a window costs nothing.
const FreeEfficiency = 100.0

// thresholdEpsilon absorbs float error in "efficiency >= threshold".
const thresholdEpsilon = 1e-9

// =============================================================================
// CANDIDATE - A scored window [Start, Start+Len)
// =============================================================================

// Candidate is ephemeral: generated, sorted, consumed, discarded.
type Candidate struct {
	Start       int
	Len         int
	Cost        int
	PartnerCost int
	Efficiency  float64
	Score       float64
}

func (c Candidate) End() int          { return c.Start + c.Len }
func (c Candidate) CombinedCost() int { return c.Cost + c.PartnerCost }

// =============================================================================
// SCORE WEIGHTS
// =============================================================================

// ScoreWeights are the tuned bonuses of the desirability score. Only the
// relative order of the resulting scores matters. Keep
// FreeForBoth > FreeForOne > holiday bonuses > strategy bonuses > weekday bonuses.
type ScoreWeights struct {
	FreeForBoth          float64
	FreeWithHoliday      float64
	FreeForOne           float64
	LongWeekendShort     float64
	ExtendedLong         float64
	StartsFriday         float64
	EndsSundayOrMonday   float64
	SoloThresholdPenalty float64
}

func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		FreeForBoth:          5000,
		FreeWithHoliday:      1000,
		FreeForOne:           500,
		LongWeekendShort:     50,
		ExtendedLong:         40,
		StartsFriday:         20,
		EndsSundayOrMonday:   15,
		SoloThresholdPenalty: 0.2,
	}
}

// =============================================================================
// GENERATION
// =============================================================================

// GenerateCandidates enumerates every window of cfg.MinLen..cfg.MaxLen days
// that fits the timeline and keeps the admissible ones.
//
// A window is admissible when it costs nothing, or when its efficiency reaches
// the threshold. Without a partner the threshold is raised by
// w.SoloThresholdPenalty, except on the rescue pass.
//
// Work is O(TotalDays × MaxLen); each window is O(1) via prefix sums.
func GenerateCandidates(tl *calendar.Timeline, strategy Strategy, cfg StrategyConfig, w ScoreWeights, rescue bool) []Candidate {
	multiplier := partyMultiplier(tl.HasPartner)
	threshold := cfg.Threshold
	if !tl.HasPartner && !rescue {
		threshold += w.SoloThresholdPenalty
	}

	var out []Candidate
	for i := 0; i < tl.TotalDays; i++ {
		for n := cfg.MinLen; n <= cfg.MaxLen && i+n <= tl.TotalDays; n++ {
			cost := tl.Cost(i, n)
			partnerCost := 0
			if tl.HasPartner {
				partnerCost = tl.PartnerCost(i, n)
			}
			combined := cost + partnerCost

			efficiency := FreeEfficiency
			if combined > 0 {
				efficiency = float64(n*multiplier) / float64(max(1, combined))
				if efficiency+thresholdEpsilon < threshold {
					continue
				}
			}

			c := Candidate{
				Start:       i,
				Len:         n,
				Cost:        cost,
				PartnerCost: partnerCost,
				Efficiency:  efficiency,
			}
			c.Score = w.score(tl, strategy, c)
			out = append(out, c)
		}
	}
	return out
}

// score is a heuristic desirability, not a normalized utility.
func (w ScoreWeights) score(tl *calendar.Timeline, strategy Strategy, c Candidate) float64 {
	holidayBonus := tl.HolidayBonus(c.Start, c.Len)
	jointBonus := tl.JointBonus(c.Start, c.Len)

	s := c.Efficiency*c.Efficiency + c.Efficiency*5 + float64(holidayBonus+jointBonus)

	switch {
	case c.CombinedCost() == 0:
		s += w.FreeForBoth
		if holidayBonus > 0 {
			s += w.FreeWithHoliday
		}
	case tl.HasPartner && (c.Cost == 0) != (c.PartnerCost == 0):
		s += w.FreeForOne
	}

	if strategy == StrategyLongWeekends && c.Len <= 5 {
		s += w.LongWeekendShort
	}
	if strategy == StrategyExtended && c.Len >= 9 {
		s += w.ExtendedLong
	}
	if tl.Weekday(c.Start) == time.Friday {
		s += w.StartsFriday
	}
	if last := tl.Weekday(c.End() - 1); last == time.Sunday || last == time.Monday {
		s += w.EndsSundayOrMonday
	}
	return s
}

// preferOwnFree keeps only windows that cost the user nothing, when any exist.
func preferOwnFree(cands []Candidate) []Candidate {
	var free []Candidate
	for _, c := range cands {
		if c.Cost == 0 {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return cands
	}
	return free
}

func partyMultiplier(hasPartner bool) int {
	if hasPartner {
		return 2
	}
	return 1
}
