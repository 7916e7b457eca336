package optimizer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/bridge-planner/calendar"
)

// =============================================================================
// VACATION BLOCK - The final output unit
// =============================================================================

// VacationBlock is created once by the selector and never mutated.
type VacationBlock struct {
	Start            calendar.Date       `json:"start_date"`
	End              calendar.Date       `json:"end_date"`
	DaysOff          int                 `json:"days_off"`
	PTODaysUsed      int                 `json:"pto_days_used"`
	BuddyPTODaysUsed int                 `json:"buddy_pto_days_used"`
	Holidays         []calendar.NamedDay `json:"holidays"`
	Label            string              `json:"label"`
	Efficiency       float64             `json:"efficiency"`
	Value            decimal.Decimal     `json:"value"`
}

// Period returns the inclusive date range of the block.
func (b VacationBlock) Period() calendar.Period {
	return calendar.Period{Start: b.Start, End: b.End}
}

// HolidayNames lists holiday names without dates.
func (b VacationBlock) HolidayNames() []string {
	names := make([]string, len(b.Holidays))
	for i, h := range b.Holidays {
		names[i] = h.Name
	}
	return names
}

// Description is the human-readable summary used by calendar exports.
func (b VacationBlock) Description() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d days off for %d leave day%s", b.DaysOff, b.PTODaysUsed, plural(b.PTODaysUsed))
	if b.BuddyPTODaysUsed > 0 {
		fmt.Fprintf(&sb, " (partner: %d)", b.BuddyPTODaysUsed)
	}
	sb.WriteString(".")
	if len(b.Holidays) > 0 {
		sb.WriteString(" Includes ")
		for i, h := range b.Holidays {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(h.String())
		}
		sb.WriteString(".")
	}
	return sb.String()
}

// =============================================================================
// LABELS
// =============================================================================

const (
	megaBridgeEfficiency  = 3.5
	megaBridgeMinDays     = 9
	superBridgeEfficiency = 2.5
)

// label names a block after the first holiday it touches, or by its length.
func label(holidays []calendar.NamedDay, days int, efficiency float64) string {
	if len(holidays) > 0 {
		name := holidays[0].Name
		switch {
		case efficiency >= megaBridgeEfficiency && days >= megaBridgeMinDays:
			return name + " Mega Bridge"
		case efficiency >= superBridgeEfficiency:
			return name + " Super Bridge"
		default:
			return name + " Break"
		}
	}

	switch {
	case days <= 4:
		return "Long Weekend"
	case days <= 6:
		return "Mini-Getaway"
	case days <= 9:
		return "Week-Long Recharge"
	default:
		return "Extended Vacation"
	}
}

// buildBlocks hydrates selected candidates into blocks. picks must already be
// sorted by start.
func buildBlocks(tl *calendar.Timeline, picks []Candidate, dailyRate decimal.Decimal) []VacationBlock {
	blocks := make([]VacationBlock, 0, len(picks))
	for _, c := range picks {
		holidays := tl.HolidaysIn(c.Start, c.Len)
		blocks = append(blocks, VacationBlock{
			Start:            tl.Date(c.Start),
			End:              tl.Date(c.End() - 1),
			DaysOff:          c.Len,
			PTODaysUsed:      c.Cost,
			BuddyPTODaysUsed: c.PartnerCost,
			Holidays:         holidays,
			Label:            label(holidays, c.Len, c.Efficiency),
			Efficiency:       c.Efficiency,
			Value:            decimal.NewFromInt(int64(c.Len - c.Cost)).Mul(dailyRate),
		})
	}
	return blocks
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
