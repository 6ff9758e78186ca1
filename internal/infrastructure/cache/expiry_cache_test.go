package cache

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/metrics"
	"github.com/juaai/jua/internal/infrastructure/persistence"
	"github.com/juaai/jua/internal/infrastructure/storage"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type forecast struct {
	City  string  `json:"city"`
	TempC float64 `json:"temp_c"`
}

func newTestCache(t *testing.T) (*Cache[forecast], *fakeClock, *storage.MemoryStore) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	store := storage.NewMemoryStore()
	c := New[forecast](persistence.NewAdapter(store, nil), "weather", WithClock(clock))
	return c, clock, store
}

func TestCacheEntryLivesUntilTTL(t *testing.T) {
	c, clock, _ := newTestCache(t)
	require.True(t, c.Set("Nairobi", forecast{City: "Nairobi", TempC: 24}, 30))

	clock.Advance(29*time.Minute + 59*time.Second)
	got, ok := c.Get("Nairobi")
	require.True(t, ok)
	assert.Equal(t, forecast{City: "Nairobi", TempC: 24}, got)

	clock.Advance(time.Second)
	_, ok = c.Get("Nairobi")
	assert.False(t, ok, "entry must be absent once now reaches expiresAt")
}

func TestCacheEvictsExpiredEntryOnRead(t *testing.T) {
	c, clock, store := newTestCache(t)
	require.True(t, c.Set("Kisumu", forecast{City: "Kisumu"}, 1))

	clock.Advance(2 * time.Minute)
	_, ok := c.Get("Kisumu")
	require.False(t, ok)

	_, present, err := store.Get("cache_weather:Kisumu")
	require.NoError(t, err)
	assert.False(t, present, "expired entry should be removed from storage")
}

func TestCacheSetOverwrites(t *testing.T) {
	c, _, _ := newTestCache(t)
	require.True(t, c.Set("Nakuru", forecast{TempC: 18}, 10))
	require.True(t, c.Set("Nakuru", forecast{TempC: 21}, 10))

	got, ok := c.Get("Nakuru")
	require.True(t, ok)
	assert.Equal(t, 21.0, got.TempC)
}

func TestCacheRejectsNonPositiveTTL(t *testing.T) {
	c, _, _ := newTestCache(t)
	assert.False(t, c.Set("Eldoret", forecast{}, 0))
	assert.False(t, c.Set("Eldoret", forecast{}, -5))
	_, ok := c.Get("Eldoret")
	assert.False(t, ok)
}

func TestCacheTreatsCorruptEntryAsMiss(t *testing.T) {
	c, _, store := newTestCache(t)
	require.NoError(t, store.Set("cache_weather:Mombasa", []byte(`{"data":"oops"`)))

	_, ok := c.Get("Mombasa")
	assert.False(t, ok)
}

func TestCacheKeysAndClearAreScoped(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	adapter := persistence.NewAdapter(storage.NewMemoryStore(), nil)
	weather := New[forecast](adapter, "weather", WithClock(clock))
	tips := New[[]string](adapter, "tips", WithClock(clock))

	require.True(t, weather.Set("Nairobi", forecast{}, 5))
	require.True(t, weather.Set("Thika", forecast{}, 5))
	require.True(t, tips.Set("sw", []string{"Panda mapema"}, 5))

	assert.Equal(t, []string{"Nairobi", "Thika"}, weather.Keys())
	require.True(t, weather.Clear())
	assert.Empty(t, weather.Keys())
	assert.Equal(t, []string{"sw"}, tips.Keys())

	clock.Advance(10 * time.Minute)
	infos := Inspect(adapter, clock.Now())
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Expired)

	require.True(t, ClearAll(adapter))
	assert.Empty(t, Inspect(adapter, clock.Now()))
}

func TestCacheKeysSkipExpiredEntries(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	adapter := persistence.NewAdapter(storage.NewMemoryStore(), nil)
	c := New[forecast](adapter, "weather", WithClock(clock))

	require.True(t, c.Set("Nairobi", forecast{}, 5))
	require.True(t, c.Set("Thika", forecast{}, 30))

	clock.Advance(10 * time.Minute)
	assert.Equal(t, []string{"Thika"}, c.Keys())
	assert.Equal(t, []string{domain.NamespaceCachePrefix + "weather:Thika"}, adapter.Namespaces(domain.NamespaceCachePrefix))
}

func TestCacheRecordsHitsAndMisses(t *testing.T) {
	rec := metrics.NewRecorder(prometheus.NewRegistry())
	adapter := persistence.NewAdapter(storage.NewMemoryStore(), nil)
	c := New[forecast](adapter, "weather", WithMetrics(rec))

	_, _ = c.Get("Nairobi")
	c.Set("Nairobi", forecast{}, 5)
	_, ok := c.Get("Nairobi")
	assert.True(t, ok)
}
