package optimizer

import (
	"sort"
)

// MaxBlocks caps how many blocks one plan may contain.
const MaxBlocks = 40

// =============================================================================
// ORDERINGS - Candidate consumption orders for the tournament
// =============================================================================

type Ordering string

const (
	OrderBalanced   Ordering = "balanced"
	OrderDuration   Ordering = "duration"
	OrderEfficiency Ordering = "efficiency"
)

type ordering struct {
	name Ordering
	less func(a, b *Candidate) bool
}

// Tournament order doubles as the tie-break order: earlier entries win ties.
var tournament = []ordering{
	{OrderBalanced, func(a, b *Candidate) bool { return a.Score > b.Score }},
	{OrderDuration, func(a, b *Candidate) bool {
		if a.Len != b.Len {
			return a.Len > b.Len
		}
		return a.Score > b.Score
	}},
	{OrderEfficiency, func(a, b *Candidate) bool { return a.Efficiency > b.Efficiency }},
}

// =============================================================================
// GREEDY SELECTION
// =============================================================================

// Budgets are the two independent leave-day pools.
type Budgets struct {
	Self    int
	Partner int
}

// Selection is the outcome of one greedy run.
type Selection struct {
	Ordering    Ordering
	Picks       []Candidate // sorted by start
	DaysOff     int         // person-days: window length × party multiplier
	PTOUsed     int
	PartnerUsed int
}

// selectGreedy walks cands in the given order and commits every candidate
// that fits: fewer than MaxBlocks picked, both budgets cover it, and none of
// its days is taken. It is first-fit over a heuristic order, not an exact
// weighted interval scheduler.
func selectGreedy(cands []Candidate, totalDays int, budgets Budgets, multiplier int, ord ordering) Selection {
	sorted := make([]Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool { return ord.less(&sorted[i], &sorted[j]) })

	occupied := make([]bool, totalDays)
	remaining := budgets
	sel := Selection{Ordering: ord.name}

	for _, c := range sorted {
		if len(sel.Picks) >= MaxBlocks {
			break
		}
		if c.Cost > remaining.Self || c.PartnerCost > remaining.Partner {
			continue
		}
		if overlaps(occupied, c) {
			continue
		}

		remaining.Self -= c.Cost
		remaining.Partner -= c.PartnerCost
		for d := c.Start; d < c.End(); d++ {
			occupied[d] = true
		}
		sel.Picks = append(sel.Picks, c)
		sel.DaysOff += c.Len * multiplier
		sel.PTOUsed += c.Cost
		sel.PartnerUsed += c.PartnerCost
	}

	sort.Slice(sel.Picks, func(i, j int) bool { return sel.Picks[i].Start < sel.Picks[j].Start })
	return sel
}

func overlaps(occupied []bool, c Candidate) bool {
	for d := c.Start; d < c.End(); d++ {
		if occupied[d] {
			return true
		}
	}
	return false
}

// runTournament runs the greedy selector once per ordering and keeps the run
// with the most days off. Ties keep the earlier ordering.
func runTournament(cands []Candidate, totalDays int, budgets Budgets, multiplier int) Selection {
	var best Selection
	for i, ord := range tournament {
		sel := selectGreedy(cands, totalDays, budgets, multiplier, ord)
		if i == 0 || sel.DaysOff > best.DaysOff {
			best = sel
		}
	}
	return best
}
