package curve

import (
	"math"

	"curveeditor.dev/core/internal/config"
	"curveeditor.dev/core/internal/monitoring"
)

// ValidationConfig controls how the transform pipeline reacts to
// out-of-range or non-finite inputs. Strict mode fails loudly (useful in
// tests and development); graceful mode clamps and logs (required so a
// malformed tracking file never crashes the UI). The mode is fixed at
// startup: flipping it at runtime would change transform outputs for an
// identical ViewState, which is why TransformCache keys on it.
type ValidationConfig struct {
	Strict        bool
	MaxCoordinate float64
	MinScale      float64
	MaxScale      float64
	MaxOffset     float64
	MaxDisplay    float64
}

// DefaultValidationConfig returns the documented numeric bounds with
// graceful mode, the default for every build type.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		Strict:        false,
		MaxCoordinate: 1e12,
		MinScale:      1e-10,
		MaxScale:      1e10,
		MaxOffset:     1e9,
		MaxDisplay:    1e6,
	}
}

// ValidationConfigFromEnvironment builds a ValidationConfig from the
// process environment (via config.LoadRuntimeConfig), starting from the
// graceful default and applying CURVE_EDITOR_FULL_VALIDATION /
// CURVE_EDITOR_MAX_COORDINATE / CURVE_EDITOR_MIN_SCALE /
// CURVE_EDITOR_MAX_SCALE overrides.
func ValidationConfigFromEnvironment() ValidationConfig {
	return ValidationConfigFromRuntime(config.LoadRuntimeConfig())
}

// ValidationConfigFromRuntime builds a ValidationConfig from an already
// loaded RuntimeConfig, so callers that parse the environment once at
// startup (to also size the TransformCache, see config.RuntimeConfig)
// don't need to parse it again here.
func ValidationConfigFromRuntime(rc *config.RuntimeConfig) ValidationConfig {
	cfg := DefaultValidationConfig()
	cfg.Strict = rc.GetFullValidation()
	cfg.MaxCoordinate = rc.GetMaxCoordinate()
	cfg.MinScale = rc.GetMinScale()
	cfg.MaxScale = rc.GetMaxScale()
	return cfg
}

// ValidateFinite returns v if finite, else def (graceful substitution) or
// an error (strict mode).
func (c ValidationConfig) ValidateFinite(v, def float64) (float64, error) {
	if !math.IsInf(v, 0) && !math.IsNaN(v) {
		return v, nil
	}
	if c.Strict {
		return 0, &InvalidCoordinateError{X: v, Max: c.MaxCoordinate}
	}
	monitoring.Logf("curve: replacing non-finite value %v with default %v", v, def)
	return def, nil
}

// ValidateScale rejects non-finite and non-positive inputs, then bounds v
// to [min, max]. Strict mode returns an error for a rejected or
// out-of-range value; graceful mode substitutes def for a rejected value
// and clamps an out-of-range one.
func (c ValidationConfig) ValidateScale(v, min, max, def float64) (float64, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) || v <= 0 {
		if c.Strict {
			return 0, &InvalidCoordinateError{X: v, Max: max}
		}
		monitoring.Logf("curve: replacing invalid scale %v with default %v", v, def)
		v = def
	}
	if v < min {
		if c.Strict {
			return 0, &NonInvertibleError{ScaleX: v, ScaleY: v}
		}
		return min, nil
	}
	if v > max {
		if c.Strict {
			return 0, &InvalidCoordinateError{X: v, Max: max}
		}
		return max, nil
	}
	return v, nil
}

// ValidatePoint replaces any non-finite coordinate with 0 in graceful
// mode, or fails in strict mode.
func (c ValidationConfig) ValidatePoint(x, y float64) (float64, float64, error) {
	xOK := !math.IsInf(x, 0) && !math.IsNaN(x)
	yOK := !math.IsInf(y, 0) && !math.IsNaN(y)
	if xOK && yOK {
		return x, y, nil
	}
	if c.Strict {
		return 0, 0, &InvalidCoordinateError{X: x, Y: y, Max: c.MaxCoordinate}
	}
	if !xOK {
		monitoring.Logf("curve: replacing non-finite x=%v with 0", x)
		x = 0
	}
	if !yOK {
		monitoring.Logf("curve: replacing non-finite y=%v with 0", y)
		y = 0
	}
	return x, y, nil
}

// ValidateCoordinateMagnitude checks |x|,|y| against MaxCoordinate.
// Strict mode fails over the limit; graceful mode clamps.
func (c ValidationConfig) ValidateCoordinateMagnitude(x, y float64) (float64, float64, error) {
	over := math.Abs(x) > c.MaxCoordinate || math.Abs(y) > c.MaxCoordinate
	if !over {
		return x, y, nil
	}
	if c.Strict {
		return 0, 0, &InvalidCoordinateError{X: x, Y: y, Max: c.MaxCoordinate}
	}
	monitoring.Logf("curve: clamping coordinate (%v, %v) to magnitude %v", x, y, c.MaxCoordinate)
	return clampMagnitude(x, c.MaxCoordinate), clampMagnitude(y, c.MaxCoordinate), nil
}

func clampMagnitude(v, max float64) float64 {
	if v > max {
		return max
	}
	if v < -max {
		return -max
	}
	return v
}
