package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformCache_HitOnRepeatedQuery(t *testing.T) {
	t.Parallel()
	env := DefaultValidationConfig()
	cache := NewTransformCache(DefaultCacheConfig(), env)

	v := ViewState{FitScale: 1, ZoomFactor: 1, WidgetWidth: 500, WidgetHeight: 500, DisplayWidth: 500, DisplayHeight: 500}

	_, hit, err := cache.GetOrCreate(v, env)
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = cache.GetOrCreate(v, env)
	require.NoError(t, err)
	assert.True(t, hit)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestTransformCache_QuantizationCollapsesNearbyStates(t *testing.T) {
	t.Parallel()
	env := DefaultValidationConfig()
	cache := NewTransformCache(DefaultCacheConfig(), env)

	base := ViewState{FitScale: 1, ZoomFactor: 1, WidgetWidth: 500, WidgetHeight: 500, DisplayWidth: 500, DisplayHeight: 500}
	jittered := base
	jittered.OffsetX = 0.001 // well within 0.1px quantization

	_, hit1, err := cache.GetOrCreate(base, env)
	require.NoError(t, err)
	assert.False(t, hit1)

	_, hit2, err := cache.GetOrCreate(jittered, env)
	require.NoError(t, err)
	assert.True(t, hit2)
}

func TestTransformCache_MissesOnWidgetResizeWithFixedOffset(t *testing.T) {
	t.Parallel()
	env := DefaultValidationConfig()
	cache := NewTransformCache(DefaultCacheConfig(), env)

	// ZoomFactor != 1 so the centering offset actually depends on widget
	// size (the identity-mapping fast path in calculateCenterOffset would
	// otherwise mask the bug this guards against).
	resized := ViewState{FitScale: 1, ZoomFactor: 2, WidgetWidth: 500, WidgetHeight: 500, DisplayWidth: 500, DisplayHeight: 500}
	_, hit1, err := cache.GetOrCreate(resized, env)
	require.NoError(t, err)
	assert.False(t, hit1)

	resized.WidgetWidth = 800
	resized.WidgetHeight = 800
	_, hit2, err := cache.GetOrCreate(resized, env)
	require.NoError(t, err)
	assert.False(t, hit2, "a widget resize must change the centering offset and miss the cache")

	stats := cache.Stats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestTransformCache_BypassesOnConfigMismatch(t *testing.T) {
	t.Parallel()
	env := DefaultValidationConfig()
	cache := NewTransformCache(DefaultCacheConfig(), env)

	v := ViewState{FitScale: 1, ZoomFactor: 1, WidgetWidth: 500, WidgetHeight: 500, DisplayWidth: 500, DisplayHeight: 500}
	nonDefault := env
	nonDefault.Strict = true

	_, hit, err := cache.GetOrCreate(v, nonDefault)
	require.NoError(t, err)
	assert.False(t, hit)

	stats := cache.Stats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses, "bypassed lookups should not touch hit/miss counters")
}

func TestTransformCache_EvictsOldestBeyondMaxSize(t *testing.T) {
	t.Parallel()
	env := DefaultValidationConfig()
	cache := NewTransformCache(CacheConfig{MaxSize: 2, QuantizationPrecision: 0.1}, env)

	for i := 0; i < 3; i++ {
		v := ViewState{FitScale: 1, ZoomFactor: 1, WidgetWidth: 500, WidgetHeight: 500, DisplayWidth: 500, DisplayHeight: 500, OffsetX: float64(i * 10)}
		_, _, err := cache.GetOrCreate(v, env)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, cache.Stats().Size)
}

func TestTransformCache_Clear(t *testing.T) {
	t.Parallel()
	env := DefaultValidationConfig()
	cache := NewTransformCache(DefaultCacheConfig(), env)
	v := ViewState{FitScale: 1, ZoomFactor: 1, WidgetWidth: 500, WidgetHeight: 500, DisplayWidth: 500, DisplayHeight: 500}
	cache.GetOrCreate(v, env)

	cache.Clear()
	stats := cache.Stats()
	assert.Equal(t, 0, stats.Size)
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
}
