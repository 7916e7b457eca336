package holidays

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/warp/bridge-planner/cache"
)

// =============================================================================
// REGION RESOLVER - Free text → canonical region key
// =============================================================================
//
// Resolution order, first match wins:
//   1. alias map (raw lowercase, then normalized)
//   2. exact normalized key
//   3. prefix of a normalized key
//   4. substring of a normalized key
//   5. closest key by edit distance, within 2 edits for inputs of at most
//      4 characters and within 3 otherwise
//
// Keys are visited in sorted order, so ties go to the first sorted key.

// Resolution is a cached answer, negatives included.
type Resolution struct {
	Key   string
	Found bool
}

type Resolver struct {
	data *Dataset
	memo *cache.Memo[Resolution]
}

func NewResolver(data *Dataset, cacheSize int) *Resolver {
	return &Resolver{
		data: data,
		memo: cache.MustNew[Resolution](cacheSize),
	}
}

// Resolve returns the canonical region key for input within country.
// Not finding a region is a normal outcome; callers fall back to federal holidays.
func (r *Resolver) Resolve(country, input string) (string, bool) {
	res, _, _ := r.memo.GetOrCompute(country+"\x1f"+input, func() (Resolution, error) {
		return r.resolve(country, input), nil
	})
	return res.Key, res.Found
}

func (r *Resolver) Stats() cache.Stats {
	return r.memo.Stats()
}

func (r *Resolver) resolve(country, input string) Resolution {
	c, ok := r.data.Country(country)
	if !ok {
		return Resolution{}
	}

	raw := strings.ToLower(strings.TrimSpace(input))
	norm := Normalize(input)
	if norm == "" {
		return Resolution{}
	}

	if key, ok := c.Aliases[raw]; ok {
		return Resolution{Key: key, Found: true}
	}
	if key, ok := c.Aliases[norm]; ok {
		return Resolution{Key: key, Found: true}
	}

	keys := c.RegionKeys()
	normKeys := make([]string, len(keys))
	for i, k := range keys {
		normKeys[i] = Normalize(k)
	}

	for i, nk := range normKeys {
		if nk == norm {
			return Resolution{Key: keys[i], Found: true}
		}
	}
	for i, nk := range normKeys {
		if strings.HasPrefix(nk, norm) {
			return Resolution{Key: keys[i], Found: true}
		}
	}
	for i, nk := range normKeys {
		if strings.Contains(nk, norm) {
			return Resolution{Key: keys[i], Found: true}
		}
	}

	limit := 3
	if len([]rune(norm)) <= 4 {
		limit = 2
	}
	best, bestDist := -1, limit+1
	for i, nk := range normKeys {
		if d := levenshtein.ComputeDistance(norm, nk); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return Resolution{Key: keys[best], Found: true}
	}
	return Resolution{}
}
