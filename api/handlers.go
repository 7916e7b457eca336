/*
handlers.go - HTTP API handlers for the vacation planner

PURPOSE:
  Exposes the optimizer, the holiday dataset and stored plans via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  optimizer (through the worker pool) and the store.

ENDPOINTS:
  Plans:
    POST   /api/plans                    Compute and store a plan
    GET    /api/plans                    List stored plans (?limit=)
    GET    /api/plans/{id}               Get a stored plan
    GET    /api/plans/{id}/events        Calendar events with links
    GET    /api/plans/{id}/calendar.ics  ICS download

  Reference data:
    GET    /api/countries                Countries and region keys
    GET    /api/regions/resolve          ?country=&region=
    GET    /api/holidays                 ?country=&region=&year=
    GET    /api/strategies               Strategy table

  Scenarios:
    GET    /api/scenarios                Canned requests
    POST   /api/scenarios/{id}/run       Compute a canned request

  Operations:
    GET    /api/stats                    Cache, scan and worker counters

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Plan persistence
  - Holidays: Dataset, region resolver and memoized holiday maps
  - Optimizer: Cached optimization service
  - Worker: Pool the plan endpoints submit to

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed JSON, missing required query parameters
  - 404: Unknown plan or scenario
  - 503: Client gave up or the worker pool is stopped
  - 500: "could not generate a plan" and storage errors

SEE ALSO:
  - dto.go: Request/response data structures
  - worker.go: Background computation
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/warp/bridge-planner/calendar"
	"github.com/warp/bridge-planner/export"
	"github.com/warp/bridge-planner/holidays"
	"github.com/warp/bridge-planner/optimizer"
	"github.com/warp/bridge-planner/store/sqlite"
)

const defaultPlanLimit = 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Holidays  *holidays.Provider
	Optimizer *optimizer.Optimizer
	Worker    *PlanWorker
	Logger    logrus.FieldLogger

	now func() time.Time
	seq atomic.Int64 // keeps plan IDs unique within one clock tick
}

// NewHandler creates a new handler. The worker must be started by the caller.
func NewHandler(store *sqlite.Store, provider *holidays.Provider, opt *optimizer.Optimizer, worker *PlanWorker, logger logrus.FieldLogger) *Handler {
	return &Handler{
		Store:     store,
		Holidays:  provider,
		Optimizer: opt,
		Worker:    worker,
		Logger:    logger,
		now:       time.Now,
	}
}

// =============================================================================
// PLAN ENDPOINTS
// =============================================================================

// CreatePlan computes a plan and stores it.
// POST /api/plans
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", err)
		return
	}
	h.computeAndStore(r.Context(), w, req)
}

func (h *Handler) computeAndStore(ctx context.Context, w http.ResponseWriter, req PlanRequest) {
	prefs := req.Preferences()

	res, err := h.Worker.Submit(ctx, prefs)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "request cancelled", err)
		case errors.Is(err, ErrWorkerStopped):
			writeError(w, http.StatusServiceUnavailable, "planner is shutting down", err)
		default:
			h.Logger.WithError(err).Error("plan computation failed")
			writeError(w, http.StatusInternalServerError, optimizer.ErrPlanFailed.Error(), nil)
		}
		return
	}

	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode preferences", err)
		return
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode result", err)
		return
	}

	createdAt := h.now()
	record := sqlite.PlanRecord{
		ID:              fmt.Sprintf("plan-%d-%d", createdAt.UnixNano(), h.seq.Add(1)),
		CacheKey:        prefs.CacheKey(res.Period),
		PreferencesJSON: string(prefsJSON),
		ResultJSON:      string(resultJSON),
		CreatedAt:       createdAt,
	}
	if err := h.Store.SavePlan(ctx, record); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save plan", err)
		return
	}

	h.Logger.WithFields(logrus.Fields{
		"plan_id": record.ID,
		"blocks":  len(res.Blocks),
		"days":    res.TotalDaysOff,
	}).Info("plan created")

	writeJSON(w, http.StatusCreated, PlanDTO{
		ID:          record.ID,
		CreatedAt:   record.CreatedAt.Format(time.RFC3339),
		Preferences: prefs,
		Result:      res,
	})
}

// ListPlans returns stored plans, newest first.
// GET /api/plans?limit=20
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	limit := defaultPlanLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	records, err := h.Store.ListPlans(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list plans", err)
		return
	}

	dtos := make([]PlanSummaryDTO, 0, len(records))
	for _, rec := range records {
		var res optimizer.Result
		if err := json.Unmarshal([]byte(rec.ResultJSON), &res); err != nil {
			h.Logger.WithError(err).WithField("plan_id", rec.ID).Warn("skipping unreadable plan")
			continue
		}
		dtos = append(dtos, toPlanSummaryDTO(rec.ID, rec.CreatedAt, &res))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPlan returns a stored plan.
// GET /api/plans/{id}
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadPlan(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// GetPlanEvents returns one calendar event per block.
// GET /api/plans/{id}/events
func (h *Handler) GetPlanEvents(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadPlan(w, r)
	if !ok {
		return
	}

	events := export.Events(plan.Result)
	dtos := make([]EventDTO, 0, len(events))
	for _, ev := range events {
		link, err := export.GoogleCalendarURL(ev)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build calendar link", err)
			return
		}
		dtos = append(dtos, EventDTO{Event: ev, GoogleCalendarURL: link})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPlanICS downloads the plan as an iCalendar file.
// GET /api/plans/{id}/calendar.ics
func (h *Handler) GetPlanICS(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.loadPlan(w, r)
	if !ok {
		return
	}

	doc, err := export.ICS(plan.Result, h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render calendar", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", plan.ID+".ics"))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

func (h *Handler) loadPlan(w http.ResponseWriter, r *http.Request) (*PlanDTO, bool) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetPlan(r.Context(), id)
	if errors.Is(err, sqlite.ErrPlanNotFound) {
		writeError(w, http.StatusNotFound, "plan not found", nil)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load plan", err)
		return nil, false
	}

	plan := &PlanDTO{ID: rec.ID, CreatedAt: rec.CreatedAt.Format(time.RFC3339)}
	if err := json.Unmarshal([]byte(rec.PreferencesJSON), &plan.Preferences); err != nil {
		writeError(w, http.StatusInternalServerError, "stored preferences are unreadable", err)
		return nil, false
	}
	if err := json.Unmarshal([]byte(rec.ResultJSON), &plan.Result); err != nil {
		writeError(w, http.StatusInternalServerError, "stored result is unreadable", err)
		return nil, false
	}
	return plan, true
}

// =============================================================================
// REFERENCE DATA ENDPOINTS
// =============================================================================

// ListCountries returns every country with its region keys.
// GET /api/countries
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries := h.Holidays.Dataset().Countries()
	dtos := make([]CountryDTO, len(countries))
	for i, c := range countries {
		dtos[i] = toCountryDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResolveRegion maps free text to a canonical region key.
// GET /api/regions/resolve?country=United%20States&region=calif
func (h *Handler) ResolveRegion(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	country, input := q.Get("country"), q.Get("region")
	if country == "" {
		writeError(w, http.StatusBadRequest, "country is required", nil)
		return
	}

	key, found := h.Holidays.ResolveRegion(country, input)
	writeJSON(w, http.StatusOK, ResolveDTO{Country: country, Input: input, Region: key, Found: found})
}

// ListHolidays returns the merged federal and regional holidays of a year.
// GET /api/holidays?country=Germany&region=bavaria&year=2025
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	country := q.Get("country")
	if country == "" {
		writeError(w, http.StatusBadRequest, "country is required", nil)
		return
	}

	year := h.now().Year()
	if s := q.Get("year"); s != "" {
		tf, err := calendar.ParseTimeframe(s)
		if err != nil || tf.Type != calendar.TimeframeCalendarYear {
			writeError(w, http.StatusBadRequest, "invalid year", err)
			return
		}
		year = tf.Year
	}

	lookup := h.Holidays.Holidays(country, q.Get("region"), year, year)
	dtos := make([]HolidayDTO, 0, len(lookup))
	for date, name := range lookup {
		d, err := calendar.ParseDate(date)
		if err != nil {
			continue
		}
		dtos = append(dtos, HolidayDTO{Date: date, Name: name, Weekday: d.Weekday().String()})
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Date < dtos[j].Date })
	writeJSON(w, http.StatusOK, dtos)
}

// ListStrategies returns the strategy table.
// GET /api/strategies
func (h *Handler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	strategies := optimizer.Strategies()
	dtos := make([]StrategyDTO, len(strategies))
	for i, s := range strategies {
		cfg := s.Config()
		dtos[i] = StrategyDTO{
			ID:        s,
			Name:      s.DisplayName(),
			MinLen:    cfg.MinLen,
			MaxLen:    cfg.MaxLen,
			Threshold: cfg.Threshold,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// OPERATIONS
// =============================================================================

// GetStats reports cache, scan and worker counters.
// GET /api/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsDTO{
		Optimizer: h.Optimizer.Stats(),
		Holidays:  h.Holidays.Stats(),
		Worker:    h.Worker.Stats(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
