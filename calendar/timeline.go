package calendar

import "time"

// =============================================================================
// DAY FLAGS - Per-day classification
// =============================================================================

type DayFlags uint8

const (
	FlagWeekend DayFlags = 1 << iota
	FlagHoliday
	FlagPartnerHoliday
)

func (f DayFlags) Has(flag DayFlags) bool { return f&flag != 0 }

// HolidayLookup maps "YYYY-MM-DD" to a holiday name.
type HolidayLookup map[string]string

// Score contributions written into the prefix arrays.
const (
	HolidayPoints = 20 // a holiday for either party
	JointPoints   = 30 // a holiday for both parties on the same day
)

// =============================================================================
// TIMELINE - Dense encoded calendar with prefix sums
// =============================================================================

// Timeline is scratch state owned by a single optimization run.
//
// Every prefix array has length TotalDays+1 and prefix[k] is the cumulative
// value over days [0, k), so any window [i, i+n) costs prefix[i+n]-prefix[i].
type Timeline struct {
	Start        Date
	TotalDays    int
	StartWeekday int
	HasPartner   bool

	Flags              []DayFlags
	HolidayName        []int32
	PartnerHolidayName []int32
	Names              *StringPool

	PTOCost        []int32
	PartnerPTOCost []int32
	HolidayScore   []int32
	JointScore     []int32
}

// Encode builds the timeline for period in one pass.
// A nil partner lookup means there is no partner; an empty one means a partner
// with no holidays.
func Encode(period Period, own, partner HolidayLookup) (*Timeline, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	n := period.Len()
	tl := &Timeline{
		Start:              period.Start,
		TotalDays:          n,
		StartWeekday:       int(period.Start.Weekday()),
		HasPartner:         partner != nil,
		Flags:              make([]DayFlags, n),
		HolidayName:        make([]int32, n),
		PartnerHolidayName: make([]int32, n),
		Names:              NewStringPool(),
		PTOCost:            make([]int32, n+1),
		PartnerPTOCost:     make([]int32, n+1),
		HolidayScore:       make([]int32, n+1),
		JointScore:         make([]int32, n+1),
	}

	cur := newCursor(period.Start)
	var pto, partnerPTO, holidayScore, jointScore int32

	for i := 0; i < n; i++ {
		key := cur.key()
		var flags DayFlags

		dow := (tl.StartWeekday + i) % 7
		if dow == int(time.Sunday) || dow == int(time.Saturday) {
			flags |= FlagWeekend
		}
		if name, ok := own[key]; ok {
			flags |= FlagHoliday
			tl.HolidayName[i] = tl.Names.Intern(name)
		}
		if name, ok := partner[key]; ok {
			flags |= FlagPartnerHoliday
			tl.PartnerHolidayName[i] = tl.Names.Intern(name)
		}
		tl.Flags[i] = flags

		weekend := flags.Has(FlagWeekend)
		if !weekend && !flags.Has(FlagHoliday) {
			pto++
		}
		if tl.HasPartner && !weekend && !flags.Has(FlagPartnerHoliday) {
			partnerPTO++
		}
		if flags.Has(FlagHoliday) || flags.Has(FlagPartnerHoliday) {
			holidayScore += HolidayPoints
		}
		if flags.Has(FlagHoliday) && flags.Has(FlagPartnerHoliday) {
			jointScore += JointPoints
		}

		tl.PTOCost[i+1] = pto
		tl.PartnerPTOCost[i+1] = partnerPTO
		tl.HolidayScore[i+1] = holidayScore
		tl.JointScore[i+1] = jointScore

		cur.next()
	}

	return tl, nil
}

// Weekday of day i, derived rather than stored.
func (tl *Timeline) Weekday(i int) time.Weekday {
	return time.Weekday((tl.StartWeekday + i) % 7)
}

// Date of day i. Allocates a time value, so keep it out of the scan loop.
func (tl *Timeline) Date(i int) Date {
	return tl.Start.AddDays(i)
}

// Window queries over [i, i+n).
func (tl *Timeline) Cost(i, n int) int         { return int(tl.PTOCost[i+n] - tl.PTOCost[i]) }
func (tl *Timeline) PartnerCost(i, n int) int  { return int(tl.PartnerPTOCost[i+n] - tl.PartnerPTOCost[i]) }
func (tl *Timeline) HolidayBonus(i, n int) int { return int(tl.HolidayScore[i+n] - tl.HolidayScore[i]) }
func (tl *Timeline) JointBonus(i, n int) int   { return int(tl.JointScore[i+n] - tl.JointScore[i]) }

// HolidaysIn lists the named holidays in [i, i+n) in date order. When both
// parties observe a holiday under different names, both are listed.
func (tl *Timeline) HolidaysIn(i, n int) []NamedDay {
	var out []NamedDay
	for d := i; d < i+n && d < tl.TotalDays; d++ {
		own := tl.HolidayName[d]
		partner := tl.PartnerHolidayName[d]
		if own == 0 && partner == 0 {
			continue
		}
		date := tl.Date(d)
		if own != 0 {
			out = append(out, NamedDay{Date: date, Name: tl.Names.Name(own)})
		}
		if partner != 0 && partner != own {
			out = append(out, NamedDay{Date: date, Name: tl.Names.Name(partner)})
		}
	}
	return out
}

// =============================================================================
// CURSOR - Manual y/m/d advancement (no time.Time per day)
// =============================================================================

type cursor struct {
	year  int
	month time.Month
	day   int
	buf   [10]byte
}

func newCursor(d Date) *cursor {
	return &cursor{year: d.Year(), month: d.Month(), day: d.Day()}
}

func (c *cursor) next() {
	c.day++
	if c.day > DaysInMonth(c.year, c.month) {
		c.day = 1
		c.month++
		if c.month > time.December {
			c.month = time.January
			c.year++
		}
	}
}

// key formats the cursor as YYYY-MM-DD.
func (c *cursor) key() string {
	y := c.year
	c.buf[0] = byte('0' + y/1000%10)
	c.buf[1] = byte('0' + y/100%10)
	c.buf[2] = byte('0' + y/10%10)
	c.buf[3] = byte('0' + y%10)
	c.buf[4] = '-'
	c.buf[5] = byte('0' + int(c.month)/10)
	c.buf[6] = byte('0' + int(c.month)%10)
	c.buf[7] = '-'
	c.buf[8] = byte('0' + c.day/10)
	c.buf[9] = byte('0' + c.day%10)
	return string(c.buf[:])
}
