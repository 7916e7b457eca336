/*
Package optimizer computes vacation plans: non-overlapping date ranges that
maximize days off per leave day spent.

PURPOSE:
  Given leave budgets (one person or two), a holiday calendar and a
  strategy, pick up to MaxBlocks windows that fit both budgets and never
  overlap. The result is a heuristic, not a global optimum.

PIPELINE:
  1. Preferences.Sanitize()            clamp and normalize input
  2. calendar.Encode()                 flags + prefix sums, O(days)
  3. GenerateCandidates()              every admissible window, scored
  4. rescue pass                       relaxed config when (3) is empty
  5. tournament                        greedy selection under 3 orderings
  6. buildBlocks()                     dates, holidays, labels, value
  7. Result cache                      keyed by the sanitized preferences

FILES:
  - strategy.go:    Strategy configurations (this file)
  - preferences.go: Input sanitization and cache key
  - candidates.go:  Candidate generation and scoring
  - selector.go:    Greedy interval selection and the tournament
  - block.go:       VacationBlock and labeling
  - result.go:      Result, summary and empty-result suggestions
  - optimizer.go:   The cached service wrapper

SEE ALSO:
  - calendar/timeline.go: Prefix sums consumed here
  - holidays/provider.go: Holiday lookups injected here
*/
package optimizer

import (
	"fmt"
	"strings"
)

// =============================================================================
// STRATEGY - The "vibe" the user picked
// =============================================================================

type Strategy string

const (
	StrategyLongWeekends Strategy = "long_weekends"
	StrategyMiniBreaks   Strategy = "mini_breaks"
	StrategyWeekLong     Strategy = "week_long"
	StrategyExtended     Strategy = "extended"
	StrategyBalanced     Strategy = "balanced"
)

// StrategyConfig bounds window length and the admission threshold.
type StrategyConfig struct {
	MinLen    int     `json:"min_len"`
	MaxLen    int     `json:"max_len"`
	Threshold float64 `json:"threshold"`
}

var strategyConfigs = map[Strategy]StrategyConfig{
	StrategyLongWeekends: {MinLen: 3, MaxLen: 6, Threshold: 2.0},
	StrategyMiniBreaks:   {MinLen: 3, MaxLen: 9, Threshold: 1.5},
	StrategyWeekLong:     {MinLen: 5, MaxLen: 12, Threshold: 1.8},
	StrategyExtended:     {MinLen: 9, MaxLen: 25, Threshold: 1.2},
	StrategyBalanced:     {MinLen: 3, MaxLen: 18, Threshold: 1.4},
}

// RescueConfig is used when the primary pass admits nothing.
var RescueConfig = StrategyConfig{MinLen: 2, MaxLen: 6, Threshold: 0.0}

var strategyNames = map[Strategy]string{
	StrategyLongWeekends: "Long Weekends",
	StrategyMiniBreaks:   "Mini Breaks",
	StrategyWeekLong:     "Week-long",
	StrategyExtended:     "Extended",
	StrategyBalanced:     "Balanced",
}

// Strategies lists every strategy in display order.
func Strategies() []Strategy {
	return []Strategy{
		StrategyLongWeekends,
		StrategyMiniBreaks,
		StrategyWeekLong,
		StrategyExtended,
		StrategyBalanced,
	}
}

func (s Strategy) Valid() bool {
	_, ok := strategyConfigs[s]
	return ok
}

// Config returns the strategy bounds, Balanced for unknown strategies.
func (s Strategy) Config() StrategyConfig {
	if cfg, ok := strategyConfigs[s]; ok {
		return cfg
	}
	return strategyConfigs[StrategyBalanced]
}

func (s Strategy) DisplayName() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return strategyNames[StrategyBalanced]
}

// ParseStrategy accepts identifiers and display names ("long-weekends",
// "Long Weekends", "LongWeekends").
func ParseStrategy(s string) (Strategy, error) {
	key := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '_' {
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))

	for _, st := range Strategies() {
		if strings.ReplaceAll(string(st), "_", "") == key {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}
