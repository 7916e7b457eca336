package cache_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/bridge-planner/cache"
)

func TestMemo_EvictsLeastRecentlyUsed(t *testing.T) {
	// GIVEN: A memo with room for two entries
	m, err := cache.New[int](2)
	require.NoError(t, err)

	m.Add("a", 1)
	m.Add("b", 2)

	// WHEN: "a" is read (promoted) and a third key is inserted
	_, ok := m.Get("a")
	require.True(t, ok)
	m.Add("c", 3)

	// THEN: "b" was the LRU entry and is gone
	assert.True(t, m.Contains("a"))
	assert.False(t, m.Contains("b"))
	assert.True(t, m.Contains("c"))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, int64(1), m.Stats().Evictions)
}

func TestMemo_GetOrComputeCachesValues(t *testing.T) {
	m := cache.MustNew[string](4)
	calls := 0
	compute := func() (string, error) {
		calls++
		return "value", nil
	}

	v, cached, err := m.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.False(t, cached)

	v, cached, err = m.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.True(t, cached)

	assert.Equal(t, 1, calls)
	stats := m.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestMemo_ErrorsAreNotCached(t *testing.T) {
	m := cache.MustNew[int](4)
	boom := errors.New("boom")

	_, _, err := m.GetOrCompute("k", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, m.Contains("k"))

	v, _, err := m.GetOrCompute("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestMemo_ConcurrentMissesComputeOnce(t *testing.T) {
	m := cache.MustNew[int](4)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := m.GetOrCompute("k", func() (int, error) {
				calls.Add(1)
				<-release
				return 42, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}

	close(release)
	wg.Wait()

	// Callers that arrive after the first computation finished hit the cache,
	// callers that overlapped it share its result.
	assert.LessOrEqual(t, calls.Load(), int32(8))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	assert.True(t, m.Contains("k"))
}

func TestMemo_NonPositiveSizeUsesDefault(t *testing.T) {
	m, err := cache.New[int](0)
	require.NoError(t, err)
	for i := 0; i < cache.DefaultSize+1; i++ {
		m.Add(string(rune('a'+i%26))+string(rune('A'+i/26)), i)
	}
	assert.Equal(t, cache.DefaultSize, m.Len())
}
