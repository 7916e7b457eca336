/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the optimizer's types from the external API contract, allowing:
  - Loosely typed input (timeframe and strategy as free strings)
  - Field renaming without breaking clients

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Plans:
    PlanRequest, PlanDTO, PlanSummaryDTO, EventDTO

  Reference data:
    CountryDTO, ResolveDTO, HolidayDTO, StrategyDTO

  Scenarios:
    ScenarioDTO

  Operations:
    StatsDTO, ErrorResponse

VALIDATION:
  There is none in the usual sense. Bad input is sanitized, never rejected:
  unknown strategies fall back to balanced, unparseable timeframes to the
  current calendar year, out-of-range numbers are clamped.

SEE ALSO:
  - handlers.go: Uses these types
  - optimizer/preferences.go: Sanitize
*/
package api

import (
	"time"

	"github.com/warp/bridge-planner/calendar"
	"github.com/warp/bridge-planner/export"
	"github.com/warp/bridge-planner/holidays"
	"github.com/warp/bridge-planner/optimizer"
)

// =============================================================================
// PLAN TYPES
// =============================================================================

// PlanRequest is the body of POST /api/plans.
type PlanRequest struct {
	LeaveDays        float64 `json:"leave_days"`
	Timeframe        string  `json:"timeframe"` // "2025" or "rolling"
	Strategy         string  `json:"strategy"`
	Country          string  `json:"country"`
	Region           string  `json:"region"`
	HasPartner       bool    `json:"has_partner"`
	PartnerLeaveDays float64 `json:"partner_leave_days"`
	PartnerCountry   string  `json:"partner_country"`
	PartnerRegion    string  `json:"partner_region"`
	DailyRate        float64 `json:"daily_rate"`
}

// Preferences converts the request. Unparseable fields are left for
// Sanitize to reset.
func (r PlanRequest) Preferences() optimizer.Preferences {
	tf, _ := calendar.ParseTimeframe(r.Timeframe)
	strategy, err := optimizer.ParseStrategy(r.Strategy)
	if err != nil {
		strategy = optimizer.StrategyBalanced
	}
	return optimizer.Preferences{
		LeaveDays:        r.LeaveDays,
		Timeframe:        tf,
		Strategy:         strategy,
		Country:          r.Country,
		Region:           r.Region,
		HasPartner:       r.HasPartner,
		PartnerLeaveDays: r.PartnerLeaveDays,
		PartnerCountry:   r.PartnerCountry,
		PartnerRegion:    r.PartnerRegion,
		DailyRate:        r.DailyRate,
	}.Sanitize()
}

// PlanDTO is a stored plan with its full result.
type PlanDTO struct {
	ID          string                `json:"id"`
	CreatedAt   string                `json:"created_at"`
	Preferences optimizer.Preferences `json:"preferences"`
	Result      *optimizer.Result     `json:"result"`
}

// PlanSummaryDTO is a plan in list responses.
type PlanSummaryDTO struct {
	ID           string `json:"id"`
	CreatedAt    string `json:"created_at"`
	PlanName     string `json:"plan_name"`
	Period       string `json:"period"`
	Blocks       int    `json:"blocks"`
	TotalDaysOff int    `json:"total_days_off"`
	TotalPTOUsed int    `json:"total_pto_used"`
}

// EventDTO is an exported block plus a ready-made calendar link.
type EventDTO struct {
	export.Event
	GoogleCalendarURL string `json:"google_calendar_url"`
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

type CountryDTO struct {
	Name         string   `json:"name"`
	Codes        []string `json:"codes"`
	Regions      []string `json:"regions"`
	HolidayCount int      `json:"holiday_count"`
}

type ResolveDTO struct {
	Country string `json:"country"`
	Input   string `json:"input"`
	Region  string `json:"region,omitempty"`
	Found   bool   `json:"found"`
}

type HolidayDTO struct {
	Date    string `json:"date"`
	Name    string `json:"name"`
	Weekday string `json:"weekday"`
}

type StrategyDTO struct {
	ID        optimizer.Strategy `json:"id"`
	Name      string             `json:"name"`
	MinLen    int                `json:"min_len"`
	MaxLen    int                `json:"max_len"`
	Threshold float64            `json:"threshold"`
}

// ScenarioDTO is a canned request for demos.
type ScenarioDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Request     PlanRequest `json:"request"`
}

// =============================================================================
// OPERATIONS
// =============================================================================

type StatsDTO struct {
	Optimizer optimizer.Stats        `json:"optimizer"`
	Holidays  holidays.ProviderStats `json:"holidays"`
	Worker    WorkerStats            `json:"worker"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toCountryDTO(c *holidays.Country) CountryDTO {
	regions := c.RegionKeys()
	if regions == nil {
		regions = []string{}
	}
	return CountryDTO{
		Name:         c.Name,
		Codes:        c.Codes,
		Regions:      regions,
		HolidayCount: c.HolidayCount(),
	}
}

func toPlanSummaryDTO(id string, createdAt time.Time, r *optimizer.Result) PlanSummaryDTO {
	return PlanSummaryDTO{
		ID:           id,
		CreatedAt:    createdAt.Format(time.RFC3339),
		PlanName:     r.PlanName,
		Period:       r.Period.String(),
		Blocks:       len(r.Blocks),
		TotalDaysOff: r.TotalDaysOff,
		TotalPTOUsed: r.TotalPTOUsed,
	}
}
