/*
Package calendar turns a date range and holiday lookups into the dense
per-day state the optimizer scans.

PURPOSE:
  The optimizer evaluates every contiguous window of a timeline, which is an
  O(days × maxLen) scan. To keep each window O(1), this package encodes the
  timeline once into flag arrays and running prefix sums.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: A calendar day at UTC midnight, formatted as YYYY-MM-DD
  - NamedDay: A date paired with a holiday name

KEY CONCEPTS ELSEWHERE:
  - period.go:   Period and Timeframe (calendar year / rolling 12 months)
  - timeline.go: Encode() and the prefix-sum Timeline
  - pool.go:     StringPool for interned holiday names

SEE ALSO:
  - optimizer/candidates.go: Consumes Timeline prefix sums
*/
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the only wire format for dates in this system.
const DateLayout = "2006-01-02"

// =============================================================================
// DATE - A calendar day (no time of day, always UTC)
// =============================================================================

type Date struct {
	t time.Time
}

// NewDate builds a Date. Out-of-range values normalize the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar day in the time's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &InvalidDateError{Value: s, Err: err}
	}
	return Date{t: t}, nil
}

// MustParseDate panics on malformed input. Intended for tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Comparison
func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return !d.After(o) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.Before(o) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// MarshalText keeps dates as plain YYYY-MM-DD strings in JSON.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// NAMED DAY - A holiday on a specific date
// =============================================================================

type NamedDay struct {
	Date Date   `json:"date"`
	Name string `json:"name"`
}

func (n NamedDay) String() string {
	return fmt.Sprintf("%s (%s)", n.Name, n.Date)
}

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to Date) int { return int(to.t.Sub(from.t).Hours() / 24) }
func StartOfYear(year int) Date     { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date       { return NewDate(year, time.December, 31) }

// IsLeapYear follows the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month m of year.
func DaysInMonth(year int, m time.Month) int {
	switch m {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}
