package config

import (
	"fmt"
	"os"
	"strconv"
)

// RuntimeConfig holds the core's startup configuration, read once from
// the process environment. Every field is a pointer so "unset" is
// distinguishable from "set to the zero value"; the Get* accessors
// supply the documented default for an unset field.
type RuntimeConfig struct {
	FullValidation *bool    `env:"CURVE_EDITOR_FULL_VALIDATION"`
	MaxCoordinate  *float64 `env:"CURVE_EDITOR_MAX_COORDINATE"`
	MinScale       *float64 `env:"CURVE_EDITOR_MIN_SCALE"`
	MaxScale       *float64 `env:"CURVE_EDITOR_MAX_SCALE"`

	CacheSize      *int     `env:"CURVE_EDITOR_CACHE_SIZE"`
	Precision      *float64 `env:"CURVE_EDITOR_PRECISION"`
	ZoomPrecision  *float64 `env:"CURVE_EDITOR_ZOOM_PRECISION"`

	MetadataAwareData *bool `env:"USE_METADATA_AWARE_DATA"`
}

// Helper functions to create pointers.
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyRuntimeConfig returns a RuntimeConfig with all fields unset.
func EmptyRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{}
}

// LoadRuntimeConfig reads RuntimeConfig from the process environment.
// Every variable is optional; a missing or unparseable value leaves the
// corresponding field unset rather than failing the load, so a typo in
// one variable doesn't prevent startup.
func LoadRuntimeConfig() *RuntimeConfig {
	cfg := EmptyRuntimeConfig()

	if v, ok := lookupBool("CURVE_EDITOR_FULL_VALIDATION"); ok {
		cfg.FullValidation = ptrBool(v)
	}
	if v, ok := lookupFloat("CURVE_EDITOR_MAX_COORDINATE"); ok {
		cfg.MaxCoordinate = ptrFloat64(v)
	}
	if v, ok := lookupFloat("CURVE_EDITOR_MIN_SCALE"); ok {
		cfg.MinScale = ptrFloat64(v)
	}
	if v, ok := lookupFloat("CURVE_EDITOR_MAX_SCALE"); ok {
		cfg.MaxScale = ptrFloat64(v)
	}
	if v, ok := lookupInt("CURVE_EDITOR_CACHE_SIZE"); ok {
		cfg.CacheSize = ptrInt(v)
	}
	if v, ok := lookupFloat("CURVE_EDITOR_PRECISION"); ok {
		cfg.Precision = ptrFloat64(v)
	}
	if v, ok := lookupFloat("CURVE_EDITOR_ZOOM_PRECISION"); ok {
		cfg.ZoomPrecision = ptrFloat64(v)
	}
	if v, ok := lookupBool("USE_METADATA_AWARE_DATA"); ok {
		cfg.MetadataAwareData = ptrBool(v)
	}

	return cfg
}

func lookupBool(name string) (bool, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func lookupFloat(name string) (float64, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func lookupInt(name string) (int, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Validate checks that any set values fall within sane bounds.
func (c *RuntimeConfig) Validate() error {
	if c.MaxCoordinate != nil && *c.MaxCoordinate <= 0 {
		return fmt.Errorf("CURVE_EDITOR_MAX_COORDINATE must be positive, got %v", *c.MaxCoordinate)
	}
	if c.MinScale != nil && *c.MinScale <= 0 {
		return fmt.Errorf("CURVE_EDITOR_MIN_SCALE must be positive, got %v", *c.MinScale)
	}
	if c.MaxScale != nil && c.MinScale != nil && *c.MaxScale <= *c.MinScale {
		return fmt.Errorf("CURVE_EDITOR_MAX_SCALE (%v) must exceed CURVE_EDITOR_MIN_SCALE (%v)", *c.MaxScale, *c.MinScale)
	}
	if c.CacheSize != nil && *c.CacheSize <= 0 {
		return fmt.Errorf("CURVE_EDITOR_CACHE_SIZE must be positive, got %d", *c.CacheSize)
	}
	if c.Precision != nil && *c.Precision <= 0 {
		return fmt.Errorf("CURVE_EDITOR_PRECISION must be positive, got %v", *c.Precision)
	}
	return nil
}

// GetFullValidation returns the full_validation value, or false
// (graceful mode) when it is unset. The default is the same for debug
// and release builds.
func (c *RuntimeConfig) GetFullValidation() bool {
	if c.FullValidation == nil {
		return false
	}
	return *c.FullValidation
}

// GetMaxCoordinate returns max_coordinate or its documented default.
func (c *RuntimeConfig) GetMaxCoordinate() float64 {
	if c.MaxCoordinate == nil {
		return 1e12
	}
	return *c.MaxCoordinate
}

// GetMinScale returns min_scale or its documented default.
func (c *RuntimeConfig) GetMinScale() float64 {
	if c.MinScale == nil {
		return 1e-10
	}
	return *c.MinScale
}

// GetMaxScale returns max_scale or its documented default.
func (c *RuntimeConfig) GetMaxScale() float64 {
	if c.MaxScale == nil {
		return 1e10
	}
	return *c.MaxScale
}

// GetCacheSize returns cache_size or its documented default.
func (c *RuntimeConfig) GetCacheSize() int {
	if c.CacheSize == nil {
		return 512
	}
	return *c.CacheSize
}

// GetPrecision returns the cache quantization precision or its
// documented default (0.1px).
func (c *RuntimeConfig) GetPrecision() float64 {
	if c.Precision == nil {
		return 0.1
	}
	return *c.Precision
}

// GetZoomPrecision returns the zoom/fit-scale quantization precision or
// its default (precision/100).
func (c *RuntimeConfig) GetZoomPrecision() float64 {
	if c.ZoomPrecision == nil {
		return c.GetPrecision() / 100
	}
	return *c.ZoomPrecision
}

// GetMetadataAwareData returns use_metadata_aware_data or its default
// (true: the modern, metadata-aware loader path).
func (c *RuntimeConfig) GetMetadataAwareData() bool {
	if c.MetadataAwareData == nil {
		return true
	}
	return *c.MetadataAwareData
}

// ToValidationBounds projects the subset of RuntimeConfig that governs
// ValidationConfig (max_coordinate, min_scale, max_scale, strict mode).
func (c *RuntimeConfig) ToValidationBounds() (strict bool, maxCoordinate, minScale, maxScale float64) {
	return c.GetFullValidation(), c.GetMaxCoordinate(), c.GetMinScale(), c.GetMaxScale()
}
