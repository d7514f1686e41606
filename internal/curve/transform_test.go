package curve

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTransform(t *testing.T, v ViewState, cfg ValidationConfig) Transform {
	t.Helper()
	tr, err := NewTransform(v, cfg)
	require.NoError(t, err)
	return tr
}

func TestTransform_DirectPixelMapping(t *testing.T) {
	t.Parallel()
	cfg := DefaultValidationConfig()
	v := ViewState{FitScale: 1, ZoomFactor: 1, WidgetWidth: 500, WidgetHeight: 500, DisplayWidth: 500, DisplayHeight: 500}
	tr := buildTransform(t, v, cfg)

	x, y, err := tr.DataToScreen(100, 200, cfg)
	require.NoError(t, err)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 200.0, y)
}

func TestTransform_CentersScaledContent(t *testing.T) {
	t.Parallel()
	cfg := DefaultValidationConfig()
	v := ViewState{FitScale: 0.5, ZoomFactor: 1, WidgetWidth: 1000, WidgetHeight: 1000, DisplayWidth: 1000, DisplayHeight: 1000}
	tr := buildTransform(t, v, cfg)

	// widget(1000) - display(1000)*0.5 = 500, /2 = 250 offset on each axis.
	assert.InDelta(t, 250.0, tr.CombinedOffsetX, 1e-9)
	assert.InDelta(t, 250.0, tr.CombinedOffsetY, 1e-9)
}

func TestTransform_RoundtripWithinTolerance(t *testing.T) {
	t.Parallel()
	cfg := DefaultValidationConfig()
	v := ViewState{
		FitScale: 0.73, ZoomFactor: 1.4,
		WidgetWidth: 1280, WidgetHeight: 720,
		DisplayWidth: 1920, DisplayHeight: 1080,
		OffsetX: 12, OffsetY: -8, ManualXOffset: 3, ManualYOffset: 5,
		FlipYAxis: true,
	}
	tr := buildTransform(t, v, cfg)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		x := rng.Float64()*2000 - 500
		y := rng.Float64()*2000 - 500

		sx, sy, err := tr.DataToScreen(x, y, cfg)
		require.NoError(t, err)
		dx, dy, err := tr.ScreenToData(sx, sy, cfg)
		require.NoError(t, err)

		assert.InDelta(t, x, dx, 1e-6)
		assert.InDelta(t, y, dy, 1e-6)
	}
}

func TestTransform_StrictRejectsUnderflow(t *testing.T) {
	t.Parallel()
	cfg := DefaultValidationConfig()
	cfg.Strict = true
	v := ViewState{FitScale: 1e-15, ZoomFactor: 1e-15, WidgetWidth: 10, WidgetHeight: 10, DisplayWidth: 10, DisplayHeight: 10}
	_, err := NewTransform(v, cfg)
	assert.Error(t, err)
	var nie *NonInvertibleError
	assert.ErrorAs(t, err, &nie)
}

func TestTransform_GracefulClampsUnderflow(t *testing.T) {
	t.Parallel()
	cfg := DefaultValidationConfig()
	v := ViewState{FitScale: 1e-15, ZoomFactor: 1e-15, WidgetWidth: 10, WidgetHeight: 10, DisplayWidth: 10, DisplayHeight: 10}
	tr, err := NewTransform(v, cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, tr.CombinedScaleX, MinScaleValue)
}

func TestTransform_ScaleToImage(t *testing.T) {
	t.Parallel()
	cfg := DefaultValidationConfig()
	v := ViewState{
		FitScale: 1, ZoomFactor: 1,
		WidgetWidth: 1000, WidgetHeight: 1000,
		DisplayWidth: 1000, DisplayHeight: 1000,
		ImageWidth: 500, ImageHeight: 250,
		ScaleToImage: true,
	}
	tr := buildTransform(t, v, cfg)
	assert.InDelta(t, 2.0, tr.CombinedScaleX, 1e-9)
	assert.InDelta(t, 4.0, tr.CombinedScaleY, 1e-9)
}

func TestTransform_BatchMatchesScalar(t *testing.T) {
	t.Parallel()
	cfg := DefaultValidationConfig()
	v := ViewState{FitScale: 1.2, ZoomFactor: 0.8, WidgetWidth: 800, WidgetHeight: 600, DisplayWidth: 800, DisplayHeight: 600}
	tr := buildTransform(t, v, cfg)

	points := [][2]float64{{0, 0}, {10, 20}, {-5, 100}}
	out, err := tr.DataToScreenBatch(points, cfg)
	require.NoError(t, err)

	for i, p := range points {
		sx, sy, err := tr.DataToScreen(p[0], p[1], cfg)
		require.NoError(t, err)
		assert.Equal(t, sx, out[i][0])
		assert.Equal(t, sy, out[i][1])
	}
}
