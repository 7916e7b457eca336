package holidays

import (
	"fmt"

	"github.com/warp/bridge-planner/cache"
	"github.com/warp/bridge-planner/calendar"
)

// Provider is the holiday lookup service handed to the optimizer.
//
// Returned maps are shared through the memo and must be treated as read-only.
type Provider struct {
	data     *Dataset
	resolver *Resolver
	maps     *cache.Memo[calendar.HolidayLookup]
}

func NewProvider(data *Dataset, cacheSize int) *Provider {
	return &Provider{
		data:     data,
		resolver: NewResolver(data, cacheSize),
		maps:     cache.MustNew[calendar.HolidayLookup](cacheSize),
	}
}

// Holidays returns {"YYYY-MM-DD": name} for the country, the resolved region
// (federal only when the region does not resolve) and the inclusive year range.
func (p *Provider) Holidays(country, region string, startYear, endYear int) calendar.HolidayLookup {
	regionKey, _ := p.resolver.Resolve(country, region)
	key := fmt.Sprintf("%s|%s|%d|%d", Normalize(country), regionKey, startYear, endYear)

	m, _, _ := p.maps.GetOrCompute(key, func() (calendar.HolidayLookup, error) {
		return p.data.Lookup(country, regionKey, startYear, endYear), nil
	})
	return m
}

// ResolveRegion exposes the resolver for the API and CLI.
func (p *Provider) ResolveRegion(country, region string) (string, bool) {
	return p.resolver.Resolve(country, region)
}

// HasCountry reports whether the dataset knows the country.
func (p *Provider) HasCountry(country string) bool {
	_, ok := p.data.Country(country)
	return ok
}

func (p *Provider) Dataset() *Dataset {
	return p.data
}

// ProviderStats groups the two memo caches.
type ProviderStats struct {
	Regions  cache.Stats `json:"regions"`
	Holidays cache.Stats `json:"holidays"`
}

func (p *Provider) Stats() ProviderStats {
	return ProviderStats{Regions: p.resolver.Stats(), Holidays: p.maps.Stats()}
}
