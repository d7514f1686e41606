package curve

import "math"

// MinScaleValue is the floor applied to zoom after quantization.
const MinScaleValue = 1e-10

// ViewState is an immutable snapshot of everything a Transform needs:
// display/widget/image dimensions, zoom and fit scale, pan, and the two
// axis-specific switches (scale_to_image, flip_y_axis). Updates produce a
// new value via WithUpdates; nothing about a ViewState mutates in place.
type ViewState struct {
	DisplayWidth  float64
	DisplayHeight float64
	WidgetWidth   int
	WidgetHeight  int
	ImageWidth    int
	ImageHeight   int
	ZoomFactor    float64
	FitScale      float64
	OffsetX       float64
	OffsetY       float64
	ManualXOffset float64
	ManualYOffset float64
	ScaleToImage  bool
	FlipYAxis     bool
}

// NewViewState builds a ViewState, applying the given ValidationConfig to
// its numeric fields (dimensions clamped/rejected per mode; scales
// bounded to [MinScale, MaxScale]).
func NewViewState(v ViewState, cfg ValidationConfig) (ViewState, error) {
	out := v
	var err error

	if out.DisplayWidth, err = validateNonNegative(cfg, out.DisplayWidth); err != nil {
		return ViewState{}, err
	}
	if out.DisplayHeight, err = validateNonNegative(cfg, out.DisplayHeight); err != nil {
		return ViewState{}, err
	}
	if out.ZoomFactor, err = cfg.ValidateScale(out.ZoomFactor, cfg.MinScale, cfg.MaxScale, 1.0); err != nil {
		return ViewState{}, err
	}
	if out.FitScale, err = cfg.ValidateScale(out.FitScale, cfg.MinScale, cfg.MaxScale, 1.0); err != nil {
		return ViewState{}, err
	}
	if out.OffsetX, err = cfg.ValidateFinite(out.OffsetX, 0); err != nil {
		return ViewState{}, err
	}
	if out.OffsetY, err = cfg.ValidateFinite(out.OffsetY, 0); err != nil {
		return ViewState{}, err
	}
	if out.ManualXOffset, err = cfg.ValidateFinite(out.ManualXOffset, 0); err != nil {
		return ViewState{}, err
	}
	if out.ManualYOffset, err = cfg.ValidateFinite(out.ManualYOffset, 0); err != nil {
		return ViewState{}, err
	}
	return out, nil
}

func validateNonNegative(cfg ValidationConfig, v float64) (float64, error) {
	v, err := cfg.ValidateFinite(v, 0)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		if cfg.Strict {
			return 0, &InvalidCoordinateError{X: v, Max: cfg.MaxCoordinate}
		}
		return 0, nil
	}
	return v, nil
}

// NewViewStateFromWidget builds a ViewState from widget dimensions plus
// coordinate metadata and the remaining user-controlled state, computing
// fit_scale to letterbox the metadata's reference image inside the
// widget.
func NewViewStateFromWidget(widgetW, widgetH int, md CoordinateMetadata, zoom float64, panX, panY float64, scaleToImage, flipY bool, cfg ValidationConfig) (ViewState, error) {
	fit := 1.0
	if widgetW > 0 && widgetH > 0 && md.Width > 0 && md.Height > 0 {
		fitX := float64(widgetW) / float64(md.Width)
		fitY := float64(widgetH) / float64(md.Height)
		fit = math.Min(fitX, fitY)
	}
	return NewViewState(ViewState{
		DisplayWidth:  float64(md.Width),
		DisplayHeight: float64(md.Height),
		WidgetWidth:   widgetW,
		WidgetHeight:  widgetH,
		ImageWidth:    md.Width,
		ImageHeight:   md.Height,
		ZoomFactor:    zoom,
		FitScale:      fit,
		OffsetX:       panX,
		OffsetY:       panY,
		ScaleToImage:  scaleToImage,
		FlipYAxis:     flipY,
	}, cfg)
}

// ViewStateUpdate carries optional field overrides for WithUpdates; a nil
// pointer leaves the corresponding field unchanged.
type ViewStateUpdate struct {
	DisplayWidth  *float64
	DisplayHeight *float64
	WidgetWidth   *int
	WidgetHeight  *int
	ImageWidth    *int
	ImageHeight   *int
	ZoomFactor    *float64
	FitScale      *float64
	OffsetX       *float64
	OffsetY       *float64
	ManualXOffset *float64
	ManualYOffset *float64
	ScaleToImage  *bool
	FlipYAxis     *bool
}

// WithUpdates returns a new ViewState with the given fields overridden,
// re-validated against cfg.
func (v ViewState) WithUpdates(u ViewStateUpdate, cfg ValidationConfig) (ViewState, error) {
	out := v
	if u.DisplayWidth != nil {
		out.DisplayWidth = *u.DisplayWidth
	}
	if u.DisplayHeight != nil {
		out.DisplayHeight = *u.DisplayHeight
	}
	if u.WidgetWidth != nil {
		out.WidgetWidth = *u.WidgetWidth
	}
	if u.WidgetHeight != nil {
		out.WidgetHeight = *u.WidgetHeight
	}
	if u.ImageWidth != nil {
		out.ImageWidth = *u.ImageWidth
	}
	if u.ImageHeight != nil {
		out.ImageHeight = *u.ImageHeight
	}
	if u.ZoomFactor != nil {
		out.ZoomFactor = *u.ZoomFactor
	}
	if u.FitScale != nil {
		out.FitScale = *u.FitScale
	}
	if u.OffsetX != nil {
		out.OffsetX = *u.OffsetX
	}
	if u.OffsetY != nil {
		out.OffsetY = *u.OffsetY
	}
	if u.ManualXOffset != nil {
		out.ManualXOffset = *u.ManualXOffset
	}
	if u.ManualYOffset != nil {
		out.ManualYOffset = *u.ManualYOffset
	}
	if u.ScaleToImage != nil {
		out.ScaleToImage = *u.ScaleToImage
	}
	if u.FlipYAxis != nil {
		out.FlipYAxis = *u.FlipYAxis
	}
	return NewViewState(out, cfg)
}

// QuantizedViewState is the rounded projection of a ViewState used as a
// TransformCache key. Integer and boolean fields pass through unchanged;
// floats are rounded to precision (pixels), and zoom/fit_scale to a finer
// precision/100.
type QuantizedViewState struct {
	DisplayWidth  float64
	DisplayHeight float64
	WidgetWidth   int
	WidgetHeight  int
	ImageWidth    int
	ImageHeight   int
	ZoomFactor    float64
	FitScale      float64
	OffsetX       float64
	OffsetY       float64
	ManualXOffset float64
	ManualYOffset float64
	ScaleToImage  bool
	FlipYAxis     bool
}

// QuantizedForCache rounds this ViewState's float fields to precision
// (default 0.1 pixels when precision <= 0), with zoom and fit_scale
// quantized at precision/100. Non-finite inputs map to 0; zoom is
// clamped to MinScaleValue after rounding, but only if finite.
func (v ViewState) QuantizedForCache(precision float64) QuantizedViewState {
	if precision <= 0 {
		precision = 0.1
	}
	fine := precision / 100

	return QuantizedViewState{
		DisplayWidth:  quantize(v.DisplayWidth, precision),
		DisplayHeight: quantize(v.DisplayHeight, precision),
		WidgetWidth:   v.WidgetWidth,
		WidgetHeight:  v.WidgetHeight,
		ImageWidth:    v.ImageWidth,
		ImageHeight:   v.ImageHeight,
		ZoomFactor:    quantizeScale(v.ZoomFactor, fine),
		FitScale:      quantizeScale(v.FitScale, fine),
		OffsetX:       quantize(v.OffsetX, precision),
		OffsetY:       quantize(v.OffsetY, precision),
		ManualXOffset: quantize(v.ManualXOffset, precision),
		ManualYOffset: quantize(v.ManualYOffset, precision),
		ScaleToImage:  v.ScaleToImage,
		FlipYAxis:     v.FlipYAxis,
	}
}

func quantize(v, precision float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v/precision) * precision
}

func quantizeScale(v, precision float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	q := math.Round(v/precision) * precision
	if q < MinScaleValue {
		q = MinScaleValue
	}
	return q
}
