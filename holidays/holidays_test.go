package holidays_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bridge-planner/holidays"
)

// =============================================================================
// DATASET
// =============================================================================

func TestDefault_LoadsEmbeddedDataset(t *testing.T) {
	ds := holidays.Default()

	us, ok := ds.Country("United States")
	require.True(t, ok)
	assert.Equal(t, []string{"california", "massachusetts", "new york"}, us.RegionKeys())
	assert.Equal(t, "Independence Day", us.Federal["2025-07-04"])

	byCode, ok := ds.Country("USA")
	require.True(t, ok)
	assert.Same(t, us, byCode)

	names := make([]string, 0)
	for _, c := range ds.Countries() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Germany", "United Kingdom", "United States"}, names)
}

func TestLoadTOML_RejectsMalformedDates(t *testing.T) {
	_, err := holidays.LoadTOML(strings.NewReader(`
[[country]]
name = "Nowhere"

  [[country.holiday]]
  date = "2025-02-30"
  name = "Impossible Day"
`))
	assert.Error(t, err)
}

func TestDataset_LookupFiltersYearsAndMergesRegion(t *testing.T) {
	ds := holidays.Default()

	federal := ds.Lookup("United States", "", 2025, 2025)
	assert.Len(t, federal, 11)

	withState := ds.Lookup("United States", "california", 2025, 2025)
	assert.Len(t, withState, 13)
	assert.Equal(t, "César Chávez Day", withState["2025-03-31"])

	twoYears := ds.Lookup("United States", "", 2025, 2026)
	assert.Len(t, twoYears, 22)

	assert.Empty(t, ds.Lookup("Atlantis", "", 2025, 2025))
}

// =============================================================================
// REGION RESOLVER
// =============================================================================

func TestResolver_Stages(t *testing.T) {
	r := holidays.NewResolver(holidays.Default(), 64)

	tests := []struct {
		name    string
		country string
		input   string
		want    string
		found   bool
	}{
		{"alias raw", "United States", "CA", "california", true},
		{"alias normalized", "United States", " N.Y. ", "new york", true},
		{"exact normalized", "United States", "New-York", "new york", true},
		{"prefix", "United States", "Massa", "massachusetts", true},
		{"substring", "United States", "york", "new york", true},
		{"edit distance", "United States", "Massachusets", "massachusetts", true},
		{"edit distance on short input", "Germany", "brln", "berlin", true},
		{"edit distance counts runes", "Germany", "Berlín", "berlin", true},
		{"too far", "United States", "Texas", "", false},
		{"empty input", "United States", "", "", false},
		{"unknown country", "Atlantis", "California", "", false},
		{"country by code", "DE", "Bavaria", "bayern", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := r.Resolve(tt.country, tt.input)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_MultiWordAliasMatchesAnySpelling(t *testing.T) {
	// GIVEN: An alias with spaces
	ds := holidays.NewDataset()
	ds.AddAlias("United States", "New York City", "new york")
	r := holidays.NewResolver(ds, 16)

	// WHEN/THEN: Punctuated, squashed and raw spellings all resolve
	for _, input := range []string{"new york city", "New-York-City", "newyorkcity", "New York City."} {
		got, found := r.Resolve("United States", input)
		assert.True(t, found, input)
		assert.Equal(t, "new york", got, input)
	}
}

func TestResolver_CachesNegativeResults(t *testing.T) {
	r := holidays.NewResolver(holidays.Default(), 64)

	// GIVEN: A region that does not resolve
	_, found := r.Resolve("United States", "Texas")
	require.False(t, found)

	// WHEN: Resolving it again
	_, found = r.Resolve("United States", "Texas")

	// THEN: Same answer, served from the cache
	assert.False(t, found)
	stats := r.Stats()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Hits)
}

// =============================================================================
// PROVIDER
// =============================================================================

func TestProvider_MemoizesHolidayMaps(t *testing.T) {
	p := holidays.NewProvider(holidays.Default(), 16)

	first := p.Holidays("United States", "calif", 2025, 2025)
	second := p.Holidays("united states", "California", 2025, 2025)

	assert.Equal(t, first, second)
	assert.Len(t, first, 13)
	assert.Equal(t, int64(1), p.Stats().Holidays.Hits, "both inputs resolve to the same key")
}

func TestProvider_UnresolvedRegionFallsBackToFederal(t *testing.T) {
	p := holidays.NewProvider(holidays.Default(), 16)

	got := p.Holidays("Germany", "Atlantis", 2025, 2025)
	assert.Len(t, got, 9)
	assert.True(t, p.HasCountry("germany"))
	assert.False(t, p.HasCountry(""))
}
