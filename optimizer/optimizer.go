package optimizer

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/warp/bridge-planner/cache"
	"github.com/warp/bridge-planner/calendar"
)

// DefaultDailyRate values one recovered day when neither the request nor the
// optimizer configuration sets a rate.
const DefaultDailyRate = 250

// HolidaySource is the pre-fetched holiday lookup. Implementations must not
// block on I/O.
type HolidaySource interface {
	Holidays(country, region string, startYear, endYear int) calendar.HolidayLookup
}

// =============================================================================
// OPTIMIZER - Cached service around Plan
// =============================================================================

// Optimizer is safe for concurrent use. Each call owns its timeline; only the
// result cache is shared.
type Optimizer struct {
	holidays  HolidaySource
	results   *cache.Memo[*Result]
	clock     func() time.Time
	weights   ScoreWeights
	dailyRate decimal.Decimal
	logger    logrus.FieldLogger

	scans atomic.Int64
}

type Option func(*Optimizer)

// WithClock fixes "today" for rolling timeframes and default years.
func WithClock(clock func() time.Time) Option {
	return func(o *Optimizer) { o.clock = clock }
}

func WithWeights(w ScoreWeights) Option {
	return func(o *Optimizer) { o.weights = w }
}

// WithDailyRate sets the rate used when a request carries none.
func WithDailyRate(rate decimal.Decimal) Option {
	return func(o *Optimizer) {
		if rate.IsPositive() {
			o.dailyRate = rate
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Optimizer) { o.logger = l }
}

// WithCacheSize bounds the result cache.
func WithCacheSize(size int) Option {
	return func(o *Optimizer) { o.results = cache.MustNew[*Result](size) }
}

func New(source HolidaySource, opts ...Option) (*Optimizer, error) {
	if source == nil {
		return nil, ErrNoHolidaySource
	}
	o := &Optimizer{
		holidays:  source,
		clock:     time.Now,
		weights:   DefaultWeights(),
		dailyRate: decimal.NewFromInt(DefaultDailyRate),
		logger:    discardLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.results == nil {
		o.results = cache.MustNew[*Result](cache.DefaultSize)
	}
	return o, nil
}

// Optimize sanitizes prefs and returns the plan, from the cache when an equal
// request was already computed. The returned Result is shared and must not be
// modified.
//
// The computation itself does not observe ctx: it is bounded and short. ctx
// is only checked before work starts.
func (o *Optimizer) Optimize(ctx context.Context, prefs Preferences) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := prefs.Sanitize()
	period := p.Timeframe.Resolve(calendar.DateOf(o.clock()))
	key := p.CacheKey(period)

	res, cached, err := o.results.GetOrCompute(key, func() (*Result, error) {
		return o.compute(p, period)
	})
	if err != nil {
		return nil, err
	}

	if cached {
		o.logger.WithField("key", key).Debug("plan served from cache")
	}
	return res, nil
}

// compute runs one uncached optimization. Panics are turned into a PlanError
// so that the caller never sees a half-built result.
func (o *Optimizer) compute(p Preferences, period calendar.Period) (res *Result, err error) {
	stage := "holidays"
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, &PlanError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	started := time.Now()
	sy, ey := period.Start.Year(), period.End.Year()

	own := o.holidays.Holidays(p.Country, p.Region, sy, ey)
	var partner calendar.HolidayLookup
	if p.HasPartner {
		partner = o.holidays.Holidays(p.PartnerCountry, p.PartnerRegion, sy, ey)
		if partner == nil {
			partner = calendar.HolidayLookup{}
		}
	}

	stage = "encode"
	tl, err := calendar.Encode(period, own, partner)
	if err != nil {
		return nil, &PlanError{Stage: stage, Err: err}
	}

	stage = "select"
	rate := o.dailyRate
	if p.DailyRate > 0 {
		rate = decimal.NewFromFloat(p.DailyRate)
	}
	o.scans.Add(1)
	res = Plan(tl, PlanInput{Preferences: p, Weights: o.weights, DailyRate: rate})

	o.logger.WithFields(logrus.Fields{
		"strategy":   p.Strategy,
		"days":       tl.TotalDays,
		"candidates": res.CandidateCount,
		"ordering":   res.WinningOrdering,
		"blocks":     len(res.Blocks),
		"rescue":     res.RescueUsed,
		"elapsed_ms": time.Since(started).Milliseconds(),
	}).Debug("plan computed")

	return res, nil
}

// Stats exposes how often the full scan ran and the result cache counters.
type Stats struct {
	Scans   int64       `json:"scans"`
	Results cache.Stats `json:"results"`
}

func (o *Optimizer) Stats() Stats {
	return Stats{Scans: o.scans.Load(), Results: o.results.Stats()}
}

// Purge drops every cached result, e.g. after the holiday dataset changed.
func (o *Optimizer) Purge() {
	o.results.Purge()
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
