package optimizer_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bridge-planner/calendar"
	"github.com/warp/bridge-planner/holidays"
	"github.com/warp/bridge-planner/optimizer"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var fixedNow = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func newTestOptimizer(t *testing.T, opts ...optimizer.Option) *optimizer.Optimizer {
	t.Helper()
	provider := holidays.NewProvider(holidays.Default(), 64)
	opts = append([]optimizer.Option{optimizer.WithClock(func() time.Time { return fixedNow })}, opts...)
	o, err := optimizer.New(provider, opts...)
	require.NoError(t, err)
	return o
}

func usPrefs(leave float64, strategy optimizer.Strategy) optimizer.Preferences {
	return optimizer.Preferences{
		LeaveDays: leave,
		Timeframe: calendar.CalendarYear(2025),
		Strategy:  strategy,
		Country:   "United States",
	}
}

func assertNoOverlap(t *testing.T, blocks []optimizer.VacationBlock) {
	t.Helper()
	for i := 1; i < len(blocks); i++ {
		assert.True(t, blocks[i-1].End.Before(blocks[i].Start),
			"block %d %s overlaps or is out of order with %s", i, blocks[i].Period(), blocks[i-1].Period())
	}
}

type panickingSource struct{}

func (panickingSource) Holidays(string, string, int, int) calendar.HolidayLookup {
	panic("dataset corrupted")
}

// =============================================================================
// INVARIANTS
// =============================================================================

func TestOptimize_InvariantsHoldForEveryStrategy(t *testing.T) {
	o := newTestOptimizer(t)

	for _, strategy := range optimizer.Strategies() {
		for _, partner := range []bool{false, true} {
			name := string(strategy)
			if partner {
				name += "/partner"
			}
			t.Run(name, func(t *testing.T) {
				prefs := usPrefs(10, strategy)
				prefs.HasPartner = partner
				prefs.PartnerLeaveDays = 7

				res, err := o.Optimize(context.Background(), prefs)
				require.NoError(t, err)
				require.NotEmpty(t, res.Blocks)
				assert.LessOrEqual(t, len(res.Blocks), optimizer.MaxBlocks)

				assertNoOverlap(t, res.Blocks)

				pto, buddy := 0, 0
				for _, b := range res.Blocks {
					pto += b.PTODaysUsed
					buddy += b.BuddyPTODaysUsed
					assert.Equal(t, calendar.DaysBetween(b.Start, b.End)+1, b.DaysOff)
					assert.True(t, res.Period.Contains(b.Start))
					assert.True(t, res.Period.Contains(b.End))
				}
				assert.LessOrEqual(t, pto, 10)
				assert.Equal(t, pto, res.TotalPTOUsed)
				assert.Equal(t, buddy, res.TotalBuddyPTOUsed)
				if partner {
					assert.LessOrEqual(t, buddy, 7)
					assert.Equal(t, res.CalendarDaysOff()*2, res.TotalDaysOff)
				} else {
					assert.Zero(t, buddy)
					assert.Equal(t, res.CalendarDaysOff(), res.TotalDaysOff)
				}
			})
		}
	}
}

func TestOptimize_LongWeekendsStayShortAndEfficient(t *testing.T) {
	o := newTestOptimizer(t)

	res, err := o.Optimize(context.Background(), usPrefs(10, optimizer.StrategyLongWeekends))
	require.NoError(t, err)
	require.False(t, res.RescueUsed)
	require.NotEmpty(t, res.Blocks)

	for _, b := range res.Blocks {
		assert.LessOrEqual(t, b.DaysOff, 6, b.Label)
		assert.GreaterOrEqual(t, b.Efficiency, 2.0, b.Label)
	}
}

func TestOptimize_ZeroLeaveStillFindsFreeBreaks(t *testing.T) {
	o := newTestOptimizer(t)

	// GIVEN: No leave days, but US holidays that touch weekends
	res, err := o.Optimize(context.Background(), usPrefs(0, optimizer.StrategyBalanced))
	require.NoError(t, err)

	// THEN: At least one free block spans a holiday plus the weekend
	require.NotEmpty(t, res.Blocks)
	assert.Zero(t, res.TotalPTOUsed)

	var memorial *optimizer.VacationBlock
	for i := range res.Blocks {
		b := res.Blocks[i]
		assert.Zero(t, b.PTODaysUsed)
		if b.Period().Contains(calendar.MustParseDate("2025-05-26")) {
			memorial = &res.Blocks[i]
		}
	}
	require.NotNil(t, memorial, "Memorial Day weekend should be picked")
	assert.True(t, memorial.Start.IsWeekend())
	assert.Contains(t, memorial.HolidayNames(), "Memorial Day")
	assert.Equal(t, "Memorial Day Super Bridge", memorial.Label)
}

func TestOptimize_PartnerModeDoublesGain(t *testing.T) {
	o := newTestOptimizer(t)

	solo, err := o.Optimize(context.Background(), usPrefs(10, optimizer.StrategyBalanced))
	require.NoError(t, err)

	duo := usPrefs(10, optimizer.StrategyBalanced)
	duo.HasPartner = true
	duo.PartnerLeaveDays = 10
	paired, err := o.Optimize(context.Background(), duo)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, paired.TotalDaysOff, solo.TotalDaysOff)
	assert.True(t, paired.HasPartner)
	assert.Contains(t, paired.PlanName, "for Two")
}

// =============================================================================
// EMPTY RESULTS
// =============================================================================

func TestOptimize_EmptyResultSuggestions(t *testing.T) {
	o := newTestOptimizer(t)

	tests := []struct {
		name  string
		prefs optimizer.Preferences
		want  string
	}{
		{
			name:  "no country",
			prefs: optimizer.Preferences{Timeframe: calendar.CalendarYear(2025)},
			want:  "Select a country",
		},
		{
			name: "country with no holidays and no leave",
			prefs: optimizer.Preferences{
				Timeframe: calendar.CalendarYear(2025),
				Country:   "Atlantis",
			},
			want: "no leave days",
		},
		{
			name: "too few days for the strategy",
			prefs: optimizer.Preferences{
				LeaveDays: 2,
				Timeframe: calendar.CalendarYear(2025),
				Strategy:  optimizer.StrategyExtended,
				Country:   "Atlantis",
			},
			want: "too few for the Extended strategy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := o.Optimize(context.Background(), tt.prefs)
			require.NoError(t, err)
			assert.Empty(t, res.Blocks)
			assert.True(t, res.Empty())
			assert.Contains(t, res.Suggestion, tt.want)
			assert.Zero(t, res.TotalDaysOff)
			assert.True(t, res.TotalValue.IsZero())
		})
	}
}

// =============================================================================
// CACHING
// =============================================================================

func TestOptimize_IdenticalRequestsHitTheCache(t *testing.T) {
	o := newTestOptimizer(t)

	first, err := o.Optimize(context.Background(), usPrefs(12, optimizer.StrategyWeekLong))
	require.NoError(t, err)

	// WHEN: The same request arrives with cosmetic differences
	again := usPrefs(12.7, optimizer.StrategyWeekLong)
	again.Country = "  United States "
	again.PartnerLeaveDays = 30 // ignored without a partner
	second, err := o.Optimize(context.Background(), again)
	require.NoError(t, err)

	// THEN: The cached result is returned and the scan ran once
	assert.Same(t, first, second)
	stats := o.Stats()
	assert.Equal(t, int64(1), stats.Scans)
	assert.Equal(t, int64(1), stats.Results.Hits)

	o.Purge()
	_, err = o.Optimize(context.Background(), again)
	require.NoError(t, err)
	assert.Equal(t, int64(2), o.Stats().Scans)
}

func TestOptimize_RollingTimeframeStartsToday(t *testing.T) {
	o := newTestOptimizer(t)

	prefs := usPrefs(10, optimizer.StrategyBalanced)
	prefs.Timeframe = calendar.Rolling12Months()
	res, err := o.Optimize(context.Background(), prefs)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-03", res.Period.Start.String())
	assert.Equal(t, calendar.RollingDays, res.Period.Len())
	assertNoOverlap(t, res.Blocks)
}

// =============================================================================
// ERRORS
// =============================================================================

func TestNew_RequiresHolidaySource(t *testing.T) {
	_, err := optimizer.New(nil)
	assert.ErrorIs(t, err, optimizer.ErrNoHolidaySource)
}

func TestOptimize_FailuresAreAllOrNothing(t *testing.T) {
	o, err := optimizer.New(panickingSource{})
	require.NoError(t, err)

	res, err := o.Optimize(context.Background(), usPrefs(10, optimizer.StrategyBalanced))

	assert.Nil(t, res)
	assert.ErrorIs(t, err, optimizer.ErrPlanFailed)
	var planErr *optimizer.PlanError
	require.True(t, errors.As(err, &planErr))
	assert.Equal(t, "holidays", planErr.Stage)
	assert.Zero(t, o.Stats().Results.Size, "failures are not cached")
}

func TestOptimize_CancelledContext(t *testing.T) {
	o := newTestOptimizer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Optimize(ctx, usPrefs(10, optimizer.StrategyBalanced))
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// PLAN
// =============================================================================

func TestPlan_RescuePassWhenStrategyAdmitsNothing(t *testing.T) {
	// GIVEN: A single working week with no holidays
	period := calendar.Period{Start: calendar.MustParseDate("2025-06-02"), End: calendar.MustParseDate("2025-06-06")}
	tl, err := calendar.Encode(period, nil, nil)
	require.NoError(t, err)

	prefs := optimizer.Preferences{LeaveDays: 2, Strategy: optimizer.StrategyBalanced, Country: "Nowhere"}.Sanitize()

	// WHEN: Planning with a strategy whose windows are all too expensive
	res := optimizer.Plan(tl, optimizer.PlanInput{
		Preferences: prefs,
		Weights:     optimizer.DefaultWeights(),
		DailyRate:   decimal.NewFromInt(100),
	})

	// THEN: The relaxed pass finds a two-day block
	assert.True(t, res.RescueUsed)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, 2, res.Blocks[0].DaysOff)
	assert.Equal(t, 2, res.TotalPTOUsed)
	assert.Equal(t, "Long Weekend", res.Blocks[0].Label)
	assert.True(t, res.TotalValue.IsZero(), "no free days recovered")
}

func TestPlan_ValueCountsRecoveredDays(t *testing.T) {
	o := newTestOptimizer(t, optimizer.WithDailyRate(decimal.NewFromInt(300)))

	res, err := o.Optimize(context.Background(), usPrefs(10, optimizer.StrategyBalanced))
	require.NoError(t, err)

	total := decimal.Zero
	for _, b := range res.Blocks {
		want := decimal.NewFromInt(int64((b.DaysOff - b.PTODaysUsed) * 300))
		assert.True(t, want.Equal(b.Value), "%s: %s != %s", b.Label, want, b.Value)
		total = total.Add(b.Value)
	}
	assert.True(t, total.Equal(res.TotalValue))
	assert.Contains(t, res.Summary, "worth")
}

// =============================================================================
// PREFERENCES
// =============================================================================

func TestPreferences_Sanitize(t *testing.T) {
	tests := []struct {
		name  string
		in    optimizer.Preferences
		check func(t *testing.T, p optimizer.Preferences)
	}{
		{
			name: "non-finite leave becomes zero",
			in:   optimizer.Preferences{LeaveDays: math.NaN(), HasPartner: true, PartnerLeaveDays: math.Inf(1)},
			check: func(t *testing.T, p optimizer.Preferences) {
				assert.Zero(t, p.LeaveDays)
				assert.Zero(t, p.PartnerLeaveDays)
			},
		},
		{
			name: "leave is clamped and truncated",
			in:   optimizer.Preferences{LeaveDays: 900, HasPartner: true, PartnerLeaveDays: 4.9},
			check: func(t *testing.T, p optimizer.Preferences) {
				assert.Equal(t, 365, p.Leave())
				assert.Equal(t, 4, p.PartnerLeave())
			},
		},
		{
			name: "negative leave becomes zero",
			in:   optimizer.Preferences{LeaveDays: -3},
			check: func(t *testing.T, p optimizer.Preferences) {
				assert.Zero(t, p.Leave())
			},
		},
		{
			name: "partner fields dropped without a partner",
			in:   optimizer.Preferences{PartnerLeaveDays: 10, PartnerCountry: "Germany", PartnerRegion: "Bayern"},
			check: func(t *testing.T, p optimizer.Preferences) {
				assert.Zero(t, p.PartnerLeave())
				assert.Empty(t, p.PartnerCountry)
				assert.Empty(t, p.PartnerRegion)
			},
		},
		{
			name: "partner inherits location",
			in:   optimizer.Preferences{Country: " Germany ", Region: "Berlin ", HasPartner: true},
			check: func(t *testing.T, p optimizer.Preferences) {
				assert.Equal(t, "Germany", p.PartnerCountry)
				assert.Equal(t, "Berlin", p.PartnerRegion)
			},
		},
		{
			name: "unknown strategy falls back to balanced",
			in:   optimizer.Preferences{Strategy: "yolo"},
			check: func(t *testing.T, p optimizer.Preferences) {
				assert.Equal(t, optimizer.StrategyBalanced, p.Strategy)
			},
		},
		{
			name: "out of range year uses the current year",
			in:   optimizer.Preferences{Timeframe: calendar.CalendarYear(12)},
			check: func(t *testing.T, p optimizer.Preferences) {
				assert.Equal(t, calendar.TimeframeCalendarYear, p.Timeframe.Type)
				assert.Zero(t, p.Timeframe.Year)
			},
		},
		{
			name: "bad daily rate means default",
			in:   optimizer.Preferences{DailyRate: math.Inf(-1)},
			check: func(t *testing.T, p optimizer.Preferences) {
				assert.Zero(t, p.DailyRate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.in.Sanitize())
		})
	}
}

func TestPreferences_CacheKeyIgnoresCosmetics(t *testing.T) {
	period := calendar.CalendarYear(2025).Resolve(calendar.DateOf(fixedNow))

	a := optimizer.Preferences{LeaveDays: 10, Country: "Germany", Region: "Bayern"}.Sanitize()
	b := optimizer.Preferences{LeaveDays: 10.4, Country: "germany ", Region: " BAYERN"}.Sanitize()
	c := optimizer.Preferences{LeaveDays: 11, Country: "Germany", Region: "Bayern"}.Sanitize()

	assert.Equal(t, a.CacheKey(period), b.CacheKey(period))
	assert.NotEqual(t, a.CacheKey(period), c.CacheKey(period))
}

func TestParseStrategy(t *testing.T) {
	for _, in := range []string{"long_weekends", "Long Weekends", "long-weekends", "LongWeekends"} {
		got, err := optimizer.ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, optimizer.StrategyLongWeekends, got)
	}

	_, err := optimizer.ParseStrategy("sabbatical")
	assert.Error(t, err)
}
