package curve

import (
	"hash/fnv"
	"math"
	"strconv"
)

// Transform is an immutable, pre-computed mapping between data space and
// screen space, derived from a validated ViewState. Every field needed by
// DataToScreen/ScreenToData is computed once at construction so repeated
// point conversions are pure arithmetic.
type Transform struct {
	CombinedScaleX  float64
	CombinedScaleY  float64
	CombinedOffsetX float64
	CombinedOffsetY float64
	FlipY           bool
	DisplayHeight   float64
	MaxCoordinate   float64
	Strict          bool
	StabilityHash   uint64
}

// calculateCenterOffset implements §4.6 step 2: direct pixel mapping
// when the view is unscaled, unflipped, and not scaled to image;
// otherwise center the (possibly scaled) display rect in the widget.
func calculateCenterOffset(v ViewState, effectiveScale float64) (float64, float64) {
	return calculateCenterOffsetDims(float64(v.WidgetWidth), float64(v.WidgetHeight), v.DisplayWidth, v.DisplayHeight, effectiveScale, v.ScaleToImage, v.FlipYAxis)
}

// calculateCenterOffsetDims is calculateCenterOffset's dimension-only
// form, usable from a QuantizedViewState without reconstructing a
// ViewState.
func calculateCenterOffsetDims(widgetW, widgetH, displayW, displayH, effectiveScale float64, scaleToImage, flipY bool) (float64, float64) {
	if effectiveScale == 1 && !scaleToImage && !flipY {
		return 0, 0
	}
	centerX := (widgetW - displayW*effectiveScale) / 2
	centerY := (widgetH - displayH*effectiveScale) / 2
	return centerX, centerY
}

// NewTransform derives a Transform from a validated ViewState and the
// ValidationConfig governing failure behavior for scale underflow.
func NewTransform(v ViewState, cfg ValidationConfig) (Transform, error) {
	effectiveScale := v.FitScale * v.ZoomFactor

	centerX, centerY := calculateCenterOffset(v, effectiveScale)

	imageScaleX, imageScaleY := 1.0, 1.0
	if v.ScaleToImage {
		if v.ImageWidth > 0 {
			imageScaleX = v.DisplayWidth / float64(v.ImageWidth)
		}
		if v.ImageHeight > 0 {
			imageScaleY = v.DisplayHeight / float64(v.ImageHeight)
		}
		if math.IsNaN(imageScaleX) || math.IsInf(imageScaleX, 0) {
			imageScaleX = 1.0
		}
		if math.IsNaN(imageScaleY) || math.IsInf(imageScaleY, 0) {
			imageScaleY = 1.0
		}
	}

	combinedScaleX := effectiveScale * imageScaleX
	combinedScaleY := effectiveScale * imageScaleY
	combinedOffsetX := centerX + v.OffsetX + v.ManualXOffset
	combinedOffsetY := centerY + v.OffsetY + v.ManualYOffset

	var err error
	combinedScaleX, err = validateCombinedScale(cfg, combinedScaleX)
	if err != nil {
		return Transform{}, err
	}
	combinedScaleY, err = validateCombinedScale(cfg, combinedScaleY)
	if err != nil {
		return Transform{}, err
	}

	t := Transform{
		CombinedScaleX:  combinedScaleX,
		CombinedScaleY:  combinedScaleY,
		CombinedOffsetX: combinedOffsetX,
		CombinedOffsetY: combinedOffsetY,
		FlipY:           v.FlipYAxis,
		DisplayHeight:   v.DisplayHeight,
		MaxCoordinate:   cfg.MaxCoordinate,
		Strict:          cfg.Strict,
	}
	t.StabilityHash = computeStabilityHash(t)
	return t, nil
}

func validateCombinedScale(cfg ValidationConfig, scale float64) (float64, error) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		if cfg.Strict {
			return 0, &NonInvertibleError{ScaleX: scale, ScaleY: scale}
		}
		return cfg.MinScale, nil
	}
	if math.Abs(scale) < MinScaleValue {
		if cfg.Strict {
			return 0, &NonInvertibleError{ScaleX: scale, ScaleY: scale}
		}
		if scale < 0 {
			return -MinScaleValue, nil
		}
		return MinScaleValue, nil
	}
	return scale, nil
}

func computeStabilityHash(t Transform) uint64 {
	h := fnv.New64a()
	for _, f := range []float64{t.CombinedScaleX, t.CombinedScaleY, t.CombinedOffsetX, t.CombinedOffsetY, t.DisplayHeight} {
		h.Write([]byte(strconv.FormatFloat(f, 'g', -1, 64)))
	}
	if t.FlipY {
		h.Write([]byte{1})
	}
	return h.Sum64()
}

// DataToScreen converts one data-space point to screen space.
func (t Transform) DataToScreen(x, y float64, cfg ValidationConfig) (float64, float64, error) {
	x, y, err := cfg.ValidatePoint(x, y)
	if err != nil {
		return 0, 0, err
	}
	x, y, err = cfg.ValidateCoordinateMagnitude(x, y)
	if err != nil {
		return 0, 0, err
	}

	if t.FlipY && t.DisplayHeight > 0 {
		y = t.DisplayHeight - y
	}
	x *= t.CombinedScaleX
	y *= t.CombinedScaleY
	x += t.CombinedOffsetX
	y += t.CombinedOffsetY
	return x, y, nil
}

// ScreenToData is the exact algebraic inverse of DataToScreen.
func (t Transform) ScreenToData(x, y float64, cfg ValidationConfig) (float64, float64, error) {
	x, y, err := cfg.ValidatePoint(x, y)
	if err != nil {
		return 0, 0, err
	}

	if math.Abs(t.CombinedScaleX) < MinScaleValue || math.Abs(t.CombinedScaleY) < MinScaleValue {
		return 0, 0, &NonInvertibleError{ScaleX: t.CombinedScaleX, ScaleY: t.CombinedScaleY}
	}

	x -= t.CombinedOffsetX
	y -= t.CombinedOffsetY
	x /= t.CombinedScaleX
	y /= t.CombinedScaleY
	if t.FlipY && t.DisplayHeight > 0 {
		y = t.DisplayHeight - y
	}
	return x, y, nil
}

// DataToScreenBatch applies DataToScreen to each (x,y) pair in points.
// Rows are plain (x,y) pairs; there is no frame column to carry through.
func (t Transform) DataToScreenBatch(points [][2]float64, cfg ValidationConfig) ([][2]float64, error) {
	out := make([][2]float64, len(points))
	for i, p := range points {
		x, y, err := t.DataToScreen(p[0], p[1], cfg)
		if err != nil {
			return nil, err
		}
		out[i] = [2]float64{x, y}
	}
	return out, nil
}

// ScreenToDataBatch applies ScreenToData to each (x,y) pair in points.
func (t Transform) ScreenToDataBatch(points [][2]float64, cfg ValidationConfig) ([][2]float64, error) {
	out := make([][2]float64, len(points))
	for i, p := range points {
		x, y, err := t.ScreenToData(p[0], p[1], cfg)
		if err != nil {
			return nil, err
		}
		out[i] = [2]float64{x, y}
	}
	return out, nil
}
