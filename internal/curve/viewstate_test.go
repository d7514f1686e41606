package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViewState_GracefulClampsScale(t *testing.T) {
	t.Parallel()
	cfg := DefaultValidationConfig()
	v, err := NewViewState(ViewState{ZoomFactor: 1e20, FitScale: 1}, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.MaxScale, v.ZoomFactor)
}

func TestNewViewState_StrictRejectsBadScale(t *testing.T) {
	t.Parallel()
	cfg := DefaultValidationConfig()
	cfg.Strict = true
	_, err := NewViewState(ViewState{ZoomFactor: -1, FitScale: 1}, cfg)
	assert.Error(t, err)
}

func TestViewState_WithUpdates(t *testing.T) {
	t.Parallel()
	cfg := DefaultValidationConfig()
	v, err := NewViewState(ViewState{ZoomFactor: 1, FitScale: 1, OffsetX: 5}, cfg)
	require.NoError(t, err)

	newZoom := 2.0
	v2, err := v.WithUpdates(ViewStateUpdate{ZoomFactor: &newZoom}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v2.ZoomFactor)
	assert.Equal(t, 5.0, v2.OffsetX)
	assert.Equal(t, 1.0, v.ZoomFactor, "original unchanged")
}

func TestViewState_QuantizedForCache(t *testing.T) {
	t.Parallel()
	v := ViewState{OffsetX: 10.03, OffsetY: 10.07, ZoomFactor: 1.00049, FitScale: 1, WidgetWidth: 800}
	q := v.QuantizedForCache(0.1)

	assert.InDelta(t, 10.0, q.OffsetX, 1e-9)
	assert.InDelta(t, 10.1, q.OffsetY, 1e-9)
	assert.Equal(t, 800, q.WidgetWidth)
}

func TestViewState_QuantizedForCache_NonFiniteMapsToZero(t *testing.T) {
	t.Parallel()
	v := ViewState{OffsetX: math.NaN(), FitScale: 1}
	q := v.QuantizedForCache(0.1)
	assert.Equal(t, 0.0, q.OffsetX)
}

func TestViewState_QuantizedForCache_ZoomFloorsAtMinScale(t *testing.T) {
	t.Parallel()
	v := ViewState{ZoomFactor: 0, FitScale: 0}
	q := v.QuantizedForCache(0.1)
	assert.GreaterOrEqual(t, q.ZoomFactor, MinScaleValue)
	assert.GreaterOrEqual(t, q.FitScale, MinScaleValue)
}

func TestNewViewStateFromWidget_FitsContent(t *testing.T) {
	t.Parallel()
	cfg := DefaultValidationConfig()
	md := CoordinateMetadata{Width: 1920, Height: 1080, UnitScale: 1, PixelAspectRatio: 1}
	v, err := NewViewStateFromWidget(960, 540, md, 1.0, 0, 0, false, false, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v.FitScale, 1e-9)
}
