/*
Package export turns a plan into calendar events.

Each vacation block becomes one all-day event. Dates are plain YYYY-MM-DD
strings with an inclusive End; ICS and Google Calendar use an exclusive end
date, so the day after End is written there.
*/
package export

import (
	"fmt"
	"net/url"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/warp/bridge-planner/calendar"
	"github.com/warp/bridge-planner/optimizer"
)

// Event is one exported block.
type Event struct {
	Title       string   `json:"title"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Description string   `json:"description"`
	Holidays    []string `json:"holidays"`
}

// Events returns one event per block, in block order.
func Events(r *optimizer.Result) []Event {
	if r == nil {
		return nil
	}
	events := make([]Event, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		events = append(events, Event{
			Title:       b.Label,
			Start:       b.Start.String(),
			End:         b.End.String(),
			Description: b.Description(),
			Holidays:    b.HolidayNames(),
		})
	}
	return events
}

// =============================================================================
// ICS
// =============================================================================

const (
	icsDate = "20060102"
	prodID  = "-//bridge-planner//EN"
)

// ICS renders r as an iCalendar document. stamp becomes DTSTAMP and seeds
// nothing else, so the output is deterministic for a given result.
func ICS(r *optimizer.Result, stamp time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	if r != nil {
		cal.SetXWRCalName(r.PlanName)
	}

	for i, ev := range Events(r) {
		start, err := calendar.ParseDate(ev.Start)
		if err != nil {
			return "", fmt.Errorf("event %d: %w", i, err)
		}
		end, err := calendar.ParseDate(ev.End)
		if err != nil {
			return "", fmt.Errorf("event %d: %w", i, err)
		}

		vevent := cal.AddEvent(fmt.Sprintf("%s-%d@bridge-planner", start.Time().Format(icsDate), i))
		vevent.SetDtStampTime(stamp)
		vevent.SetAllDayStartAt(start.Time())
		vevent.SetAllDayEndAt(end.AddDays(1).Time())
		vevent.SetSummary(ev.Title)
		vevent.SetDescription(ev.Description)
		vevent.SetTimeTransparency(ics.TransparencyTransparent)
	}

	return cal.Serialize(), nil
}

// =============================================================================
// GOOGLE CALENDAR
// =============================================================================

const googleCalendarBase = "https://calendar.google.com/calendar/render"

// GoogleCalendarURL returns a link that opens a prefilled all-day event.
func GoogleCalendarURL(ev Event) (string, error) {
	start, err := calendar.ParseDate(ev.Start)
	if err != nil {
		return "", err
	}
	end, err := calendar.ParseDate(ev.End)
	if err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", ev.Title)
	q.Set("dates", start.Time().Format(icsDate)+"/"+end.AddDays(1).Time().Format(icsDate))
	q.Set("details", ev.Description)
	return googleCalendarBase + "?" + q.Encode(), nil
}
