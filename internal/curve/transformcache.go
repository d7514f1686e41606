package curve

import (
	"container/list"
	"sync"
)

// DefaultCacheSize is the default bound on TransformCache entries.
const DefaultCacheSize = 512

// transformCacheKey is the 15-tuple that fully determines a Transform's
// output: twelve quantized ViewState-derived parameters plus the three
// ValidationConfig fields that influence construction. Any field that
// affects DataToScreen/ScreenToData output must live here, or a cache hit
// could return a stale Transform for a changed input.
type transformCacheKey struct {
	scale                float64
	centerX, centerY     float64
	panX, panY           float64
	manualX, manualY     float64
	flipY                bool
	displayHeight        float64
	imageScaleX          float64
	imageScaleY          float64
	scaleToImage         bool
	enableFullValidation bool
	maxCoordinate        float64
	maxScale             float64
}

// CacheConfig controls TransformCache sizing and quantization.
type CacheConfig struct {
	MaxSize               int
	QuantizationPrecision float64
}

// DefaultCacheConfig returns the documented defaults: 512 entries,
// 0.1px quantization.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{MaxSize: DefaultCacheSize, QuantizationPrecision: 0.1}
}

// TransformCache is a bounded LRU mapping quantized ViewState+
// ValidationConfig tuples to constructed Transforms. It is the only
// process-wide mutable resource in the core; a single mutex guards
// lookup and insert, and callers should not hold it across any blocking
// work of their own.
type TransformCache struct {
	mu      sync.Mutex
	cfg     CacheConfig
	envCfg  ValidationConfig
	entries map[transformCacheKey]*list.Element
	order   *list.List // front = most recently used

	hits, misses int64
}

type cacheEntry struct {
	key       transformCacheKey
	transform Transform
}

// NewTransformCache builds a cache bounded by cfg and comparing incoming
// ValidationConfigs against envDefault to decide when to bypass.
func NewTransformCache(cfg CacheConfig, envDefault ValidationConfig) *TransformCache {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultCacheSize
	}
	if cfg.QuantizationPrecision <= 0 {
		cfg.QuantizationPrecision = 0.1
	}
	return &TransformCache{
		cfg:     cfg,
		envCfg:  envDefault,
		entries: make(map[transformCacheKey]*list.Element),
		order:   list.New(),
	}
}

func keyFor(q QuantizedViewState, cfg ValidationConfig, imageScaleX, imageScaleY float64) transformCacheKey {
	effectiveScale := q.FitScale * q.ZoomFactor
	centerX, centerY := calculateCenterOffsetDims(float64(q.WidgetWidth), float64(q.WidgetHeight), q.DisplayWidth, q.DisplayHeight, effectiveScale, q.ScaleToImage, q.FlipYAxis)

	return transformCacheKey{
		scale:                effectiveScale,
		centerX:              centerX,
		centerY:              centerY,
		panX:                 q.OffsetX,
		panY:                 q.OffsetY,
		manualX:              q.ManualXOffset,
		manualY:              q.ManualYOffset,
		flipY:                q.FlipYAxis,
		displayHeight:        q.DisplayHeight,
		imageScaleX:          imageScaleX,
		imageScaleY:          imageScaleY,
		scaleToImage:         q.ScaleToImage,
		enableFullValidation: cfg.Strict,
		maxCoordinate:        cfg.MaxCoordinate,
		maxScale:             cfg.MaxScale,
	}
}

// isDefaultConfig reports whether cfg matches the cache's configured
// environment default exactly; a mismatch forces a bypass per §4.7.
func (c *TransformCache) isDefaultConfig(cfg ValidationConfig) bool {
	return cfg == c.envCfg
}

// GetOrCreate looks up (or constructs and inserts) the Transform for v
// under cfg. Returns the transform, whether it was a cache hit, and any
// construction error.
func (c *TransformCache) GetOrCreate(v ViewState, cfg ValidationConfig) (Transform, bool, error) {
	if !c.isDefaultConfig(cfg) {
		t, err := NewTransform(v, cfg)
		return t, false, err
	}

	imageScaleX, imageScaleY := 1.0, 1.0
	if v.ScaleToImage {
		if v.ImageWidth > 0 {
			imageScaleX = v.DisplayWidth / float64(v.ImageWidth)
		}
		if v.ImageHeight > 0 {
			imageScaleY = v.DisplayHeight / float64(v.ImageHeight)
		}
	}
	q := v.QuantizedForCache(c.cfg.QuantizationPrecision)
	key := keyFor(q, cfg, imageScaleX, imageScaleY)

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		c.hits++
		t := el.Value.(*cacheEntry).transform
		c.mu.Unlock()
		return t, true, nil
	}
	c.misses++
	c.mu.Unlock()

	t, err := NewTransform(v, cfg)
	if err != nil {
		return Transform{}, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry).transform, true, nil
	}
	el := c.order.PushFront(&cacheEntry{key: key, transform: t})
	c.entries[key] = el
	for c.order.Len() > c.cfg.MaxSize {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
	return t, false, nil
}

// Clear empties the cache and resets hit/miss counters. Callers must
// invoke this whenever quantization precision or the environment default
// ValidationConfig changes.
func (c *TransformCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[transformCacheKey]*list.Element)
	c.order.Init()
	c.hits = 0
	c.misses = 0
}

// CacheStats reports the cache's observable counters.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Size    int
	MaxSize int
	HitRate float64
}

// Stats returns a snapshot of the cache's counters.
func (c *TransformCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return CacheStats{
		Hits:    c.hits,
		Misses:  c.misses,
		Size:    c.order.Len(),
		MaxSize: c.cfg.MaxSize,
		HitRate: rate,
	}
}
