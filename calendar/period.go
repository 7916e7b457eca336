package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// PERIOD - Inclusive date range the optimizer plans over
// =============================================================================

// Period is the inclusive range [Start, End].
type Period struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Len returns the number of days in the period, 0 when malformed.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Validate rejects periods that end before they start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return fmt.Errorf("%w: %s", ErrInvalidPeriod, p)
	}
	return nil
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// TIMEFRAME - What the user picked in the planner
// =============================================================================

type TimeframeType string

const (
	TimeframeCalendarYear TimeframeType = "calendar_year"     // Jan 1 - Dec 31 of Year
	TimeframeRolling      TimeframeType = "rolling_12_months" // [today, today+365)
)

// RollingDays is the length of a rolling timeframe.
const RollingDays = 365

type Timeframe struct {
	Type TimeframeType `json:"type"`
	Year int           `json:"year,omitempty"`
}

// CalendarYear is the Jan 1 - Dec 31 timeframe of year.
func CalendarYear(year int) Timeframe {
	return Timeframe{Type: TimeframeCalendarYear, Year: year}
}

// Rolling12Months starts on the day the plan is computed.
func Rolling12Months() Timeframe {
	return Timeframe{Type: TimeframeRolling}
}

// Resolve turns the timeframe into concrete dates.
func (tf Timeframe) Resolve(today Date) Period {
	switch tf.Type {
	case TimeframeRolling:
		return Period{Start: today, End: today.AddDays(RollingDays - 1)}
	default:
		year := tf.Year
		if year == 0 {
			year = today.Year()
		}
		return Period{Start: StartOfYear(year), End: EndOfYear(year)}
	}
}

func (tf Timeframe) String() string {
	if tf.Type == TimeframeRolling {
		return "rolling"
	}
	return strconv.Itoa(tf.Year)
}

// ParseTimeframe accepts "rolling" (or "rolling_12_months") and a four digit year.
func ParseTimeframe(s string) (Timeframe, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "rolling", string(TimeframeRolling), "rolling12months":
		return Rolling12Months(), nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1900 || year > 9999 {
		return Timeframe{}, fmt.Errorf("invalid timeframe %q: use a year like 2025 or \"rolling\"", s)
	}
	return CalendarYear(year), nil
}
