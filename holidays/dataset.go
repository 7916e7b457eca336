/*
Package holidays is the in-memory public-holiday dataset and the lookup
service the optimizer is given.

PURPOSE:
  The optimizer never fetches holidays. It receives a lookup function
  (country, region, year range) → {"YYYY-MM-DD": name}. This package owns
  the static dataset behind that function, the fuzzy region resolver and
  the memoized holiday maps.

KEY CONCEPTS:
  - Dataset:  Countries keyed by normalized name (plus country codes)
  - Country:  Federal holidays, per-region holidays and a region alias map
  - Resolver: Free text → canonical region key (resolver.go)
  - Provider: Memoized Lookup() used by the optimizer (provider.go)

DATA SOURCES:
  - data/holidays.toml, embedded (Default)
  - any TOML file with the same layout (LoadFile)
  - store/sqlite (ImportDataset / LoadDataset)

UNKNOWN INPUT:
  An unknown country or unresolvable region is not an error. Lookups return
  an empty map and the optimizer plans around weekends only.
*/
package holidays

import (
	"sort"
	"strings"
	"unicode"

	"github.com/warp/bridge-planner/calendar"
)

// =============================================================================
// COUNTRY
// =============================================================================

type Country struct {
	Name    string
	Codes   []string
	Federal calendar.HolidayLookup
	Regions map[string]calendar.HolidayLookup
	Aliases map[string]string // alias (raw lowercase and normalized) → region key
	regions []string          // sorted region keys
}

func newCountry(name string) *Country {
	return &Country{
		Name:    name,
		Federal: make(calendar.HolidayLookup),
		Regions: make(map[string]calendar.HolidayLookup),
		Aliases: make(map[string]string),
	}
}

// RegionKeys returns the canonical region keys in sorted order.
func (c *Country) RegionKeys() []string {
	return c.regions
}

func (c *Country) addRegion(key string) calendar.HolidayLookup {
	if m, ok := c.Regions[key]; ok {
		return m
	}
	m := make(calendar.HolidayLookup)
	c.Regions[key] = m
	i := sort.SearchStrings(c.regions, key)
	c.regions = append(c.regions, "")
	copy(c.regions[i+1:], c.regions[i:])
	c.regions[i] = key
	return m
}

// HolidayCount counts federal and regional entries.
func (c *Country) HolidayCount() int {
	n := len(c.Federal)
	for _, m := range c.Regions {
		n += len(m)
	}
	return n
}

// =============================================================================
// DATASET
// =============================================================================

type Dataset struct {
	countries map[string]*Country
	codes     map[string]string // normalized code → normalized name
}

func NewDataset() *Dataset {
	return &Dataset{
		countries: make(map[string]*Country),
		codes:     make(map[string]string),
	}
}

// Country finds a country by name or code, ignoring case and punctuation.
func (d *Dataset) Country(name string) (*Country, bool) {
	key := Normalize(name)
	if key == "" {
		return nil, false
	}
	if c, ok := d.countries[key]; ok {
		return c, true
	}
	if full, ok := d.codes[key]; ok {
		return d.countries[full], true
	}
	return nil, false
}

// Countries returns all countries sorted by display name.
func (d *Dataset) Countries() []*Country {
	out := make([]*Country, 0, len(d.countries))
	for _, c := range d.countries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddCountry registers a country (idempotent) and returns it.
func (d *Dataset) AddCountry(name string, codes ...string) *Country {
	key := Normalize(name)
	c, ok := d.countries[key]
	if !ok {
		c = newCountry(strings.TrimSpace(name))
		d.countries[key] = c
	}
	for _, code := range codes {
		nc := Normalize(code)
		if nc == "" || nc == key {
			continue
		}
		if _, exists := d.codes[nc]; !exists {
			c.Codes = append(c.Codes, strings.ToLower(strings.TrimSpace(code)))
		}
		d.codes[nc] = key
	}
	return c
}

// AddHoliday records a holiday. An empty region means federal.
func (d *Dataset) AddHoliday(country, region string, date calendar.Date, name string) {
	c := d.AddCountry(country)
	region = canonicalRegion(region)
	if region == "" {
		c.Federal[date.String()] = name
		return
	}
	c.addRegion(region)[date.String()] = name
}

// AddRegion registers a region with no holidays of its own yet.
func (d *Dataset) AddRegion(country, region string) {
	if region = canonicalRegion(region); region != "" {
		d.AddCountry(country).addRegion(region)
	}
}

// AddAlias maps an alternative spelling to a canonical region key.
func (d *Dataset) AddAlias(country, alias, region string) {
	c := d.AddCountry(country)
	region = canonicalRegion(region)
	if region == "" {
		return
	}
	c.addRegion(region)
	if raw := strings.ToLower(strings.TrimSpace(alias)); raw != "" {
		c.Aliases[raw] = region
	}
	if norm := Normalize(alias); norm != "" {
		c.Aliases[norm] = region
	}
}

// Lookup merges federal and regional holidays for the inclusive year range.
// region must already be a canonical key (or empty).
func (d *Dataset) Lookup(country, region string, startYear, endYear int) calendar.HolidayLookup {
	out := make(calendar.HolidayLookup)
	c, ok := d.Country(country)
	if !ok {
		return out
	}
	copyYears(out, c.Federal, startYear, endYear)
	if region != "" {
		copyYears(out, c.Regions[region], startYear, endYear)
	}
	return out
}

func copyYears(dst, src calendar.HolidayLookup, startYear, endYear int) {
	for date, name := range src {
		y := yearOf(date)
		if y >= startYear && y <= endYear {
			dst[date] = name
		}
	}
}

// yearOf reads the year from a YYYY-MM-DD key without parsing a time.
func yearOf(key string) int {
	if len(key) < 4 {
		return 0
	}
	y := 0
	for _, r := range key[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		y = y*10 + int(r-'0')
	}
	return y
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// Normalize lowercases and strips everything that is not a letter or digit.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func canonicalRegion(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
