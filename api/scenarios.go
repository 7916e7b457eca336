/*
scenarios.go - Demo scenarios for testing and demonstrations

PURPOSE:

	Provides canned plan requests that show off specific behaviour of the
	optimizer without the caller having to know the dataset.

AVAILABLE SCENARIOS:

	us-long-weekends: Ten days spent on short bridges around US holidays
	de-couple:        Bavarian and Berlin partners planning together
	zero-leave:       No leave at all, only free holiday weekends
	uk-extended:      Long trips for a Scottish employee
	rolling-year:     Next twelve months from today

HOW SCENARIOS WORK:
 1. Look up the scenario by ID
 2. Submit its PlanRequest exactly like POST /api/plans
 3. Store and return the plan

USAGE VIA API:

	POST /api/scenarios/zero-leave/run

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description and request

SEE ALSO:
  - handlers.go: CreatePlan
  - holidays/data/holidays.toml: Countries and regions available
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "us-long-weekends",
		Name:        "US Long Weekends",
		Description: "Ten leave days spent on three to six day bridges",
		Request: PlanRequest{
			LeaveDays: 10,
			Timeframe: "2025",
			Strategy:  "long_weekends",
			Country:   "United States",
		},
	},
	{
		ID:          "de-couple",
		Name:        "German Couple",
		Description: "Partners in Bavaria and Berlin aligning their leave",
		Request: PlanRequest{
			LeaveDays:        24,
			Timeframe:        "2025",
			Strategy:         "balanced",
			Country:          "Germany",
			Region:           "Bavaria",
			HasPartner:       true,
			PartnerLeaveDays: 20,
			PartnerCountry:   "Germany",
			PartnerRegion:    "Berlin",
		},
	},
	{
		ID:          "zero-leave",
		Name:        "Zero Leave",
		Description: "No leave days, only holiday weekends that cost nothing",
		Request: PlanRequest{
			Timeframe: "2025",
			Strategy:  "balanced",
			Country:   "United States",
			Region:    "California",
		},
	},
	{
		ID:          "uk-extended",
		Name:        "Scottish Extended Trips",
		Description: "Long trips around Scottish bank holidays",
		Request: PlanRequest{
			LeaveDays: 25,
			Timeframe: "2025",
			Strategy:  "extended",
			Country:   "UK",
			Region:    "Scotland",
			DailyRate: 320,
		},
	},
	{
		ID:          "rolling-year",
		Name:        "Next Twelve Months",
		Description: "Mini breaks over a rolling year starting today",
		Request: PlanRequest{
			LeaveDays: 15,
			Timeframe: "rolling",
			Strategy:  "mini_breaks",
			Country:   "United States",
			Region:    "NY",
		},
	},
}

func findScenario(id string) (ScenarioDTO, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return ScenarioDTO{}, false
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// RunScenario computes and stores the scenario's plan.
// POST /api/scenarios/{id}/run
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	s, ok := findScenario(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "scenario not found", nil)
		return
	}

	h.Logger.WithField("scenario", s.ID).Info("running scenario")
	h.computeAndStore(r.Context(), w, s.Request)
}
