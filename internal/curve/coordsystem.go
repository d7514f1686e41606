package curve

import "fmt"

// CoordinateSystem identifies the convention a curve's raw coordinates
// were produced under.
type CoordinateSystem string

const (
	SystemQtScreen         CoordinateSystem = "qt_screen"
	SystemThreeDEqualizer  CoordinateSystem = "three_de_equalizer"
	SystemMaya             CoordinateSystem = "maya"
	SystemNuke             CoordinateSystem = "nuke"
	SystemOpenGL           CoordinateSystem = "opengl"
	SystemCurveEditorInner CoordinateSystem = "curve_editor_internal"
)

// CoordinateOrigin identifies where (0,0) sits in a coordinate system.
type CoordinateOrigin string

const (
	OriginTopLeft    CoordinateOrigin = "top_left"
	OriginBottomLeft CoordinateOrigin = "bottom_left"
	OriginCenter     CoordinateOrigin = "center"
)

// CoordinateMetadata describes one coordinate convention: where its
// origin sits, what image it was measured against, and how to convert
// its points into the canonical top-left pixel system and back.
type CoordinateMetadata struct {
	System                    CoordinateSystem
	Origin                    CoordinateOrigin
	Width                     int
	Height                    int
	UnitScale                 float64 // default 1.0
	PixelAspectRatio          float64 // default 1.0
	UsesNormalizedCoordinates bool
}

// NewCoordinateMetadata builds metadata with the default unit scale and
// pixel aspect ratio, validating the required invariants.
func NewCoordinateMetadata(system CoordinateSystem, origin CoordinateOrigin, width, height int) (CoordinateMetadata, error) {
	m := CoordinateMetadata{
		System:           system,
		Origin:           origin,
		Width:            width,
		Height:           height,
		UnitScale:        1.0,
		PixelAspectRatio: 1.0,
	}
	return m, m.Validate()
}

// Validate checks the invariants width>0, height>0, unit_scale>0,
// pixel_aspect_ratio>0.
func (m CoordinateMetadata) Validate() error {
	if m.Width <= 0 {
		return &InvalidInputError{Context: "coordinate_metadata", Detail: fmt.Sprintf("width must be > 0, got %d", m.Width)}
	}
	if m.Height <= 0 {
		return &InvalidInputError{Context: "coordinate_metadata", Detail: fmt.Sprintf("height must be > 0, got %d", m.Height)}
	}
	if m.UnitScale <= 0 {
		return &InvalidInputError{Context: "coordinate_metadata", Detail: fmt.Sprintf("unit_scale must be > 0, got %v", m.UnitScale)}
	}
	if m.PixelAspectRatio <= 0 {
		return &InvalidInputError{Context: "coordinate_metadata", Detail: fmt.Sprintf("pixel_aspect_ratio must be > 0, got %v", m.PixelAspectRatio)}
	}
	return nil
}

// NeedsYFlipForQt is true iff this system's origin is bottom-left.
func (m CoordinateMetadata) NeedsYFlipForQt() bool {
	return m.Origin == OriginBottomLeft
}

// DenormalizeCoordinates multiplies (x,y) by (width,height) when this
// metadata's coordinates are normalized to [0,1]; otherwise it is the
// identity.
func (m CoordinateMetadata) DenormalizeCoordinates(x, y float64) (float64, float64) {
	if !m.UsesNormalizedCoordinates {
		return x, y
	}
	return x * float64(m.Width), y * float64(m.Height)
}

// NormalizeCoordinates divides (x,y) by (width,height) when this
// metadata's coordinates are normalized to [0,1]; otherwise it is the
// identity.
func (m CoordinateMetadata) NormalizeCoordinates(x, y float64) (float64, float64) {
	if !m.UsesNormalizedCoordinates {
		return x, y
	}
	nx, ny := 0.0, 0.0
	if m.Width > 0 {
		nx = x / float64(m.Width)
	}
	if m.Height > 0 {
		ny = y / float64(m.Height)
	}
	return nx, ny
}

// ToNormalized converts (x,y) from this coordinate system into the
// canonical top-left pixel space.
func (m CoordinateMetadata) ToNormalized(x, y float64) (float64, float64) {
	if m.PixelAspectRatio != 1.0 {
		x *= m.PixelAspectRatio
	}
	x *= m.UnitScale
	y *= m.UnitScale

	switch m.Origin {
	case OriginBottomLeft:
		y = float64(m.Height) - y
	case OriginCenter:
		x += float64(m.Width) / 2
		y = float64(m.Height)/2 - y
	case OriginTopLeft:
		// pass through
	}
	return x, y
}

// FromNormalized is the exact inverse of ToNormalized.
func (m CoordinateMetadata) FromNormalized(x, y float64) (float64, float64) {
	switch m.Origin {
	case OriginBottomLeft:
		y = float64(m.Height) - y
	case OriginCenter:
		x -= float64(m.Width) / 2
		y = float64(m.Height)/2 - y
	case OriginTopLeft:
		// pass through
	}

	if m.UnitScale != 0 {
		x /= m.UnitScale
		y /= m.UnitScale
	}
	if m.PixelAspectRatio != 0 {
		x /= m.PixelAspectRatio
	}
	return x, y
}

// DefaultMetadataFor returns the documented default metadata for a
// coordinate system when no dimensions could be extracted (§4.3).
func DefaultMetadataFor(system CoordinateSystem) CoordinateMetadata {
	switch system {
	case SystemThreeDEqualizer:
		return CoordinateMetadata{System: system, Origin: OriginBottomLeft, Width: 1280, Height: 720, UnitScale: 1, PixelAspectRatio: 1}
	case SystemNuke:
		return CoordinateMetadata{System: system, Origin: OriginBottomLeft, Width: 1920, Height: 1080, UnitScale: 1, PixelAspectRatio: 1}
	case SystemMaya:
		return CoordinateMetadata{System: system, Origin: OriginCenter, Width: 1920, Height: 1080, UnitScale: 1, PixelAspectRatio: 1}
	default:
		return CoordinateMetadata{System: SystemQtScreen, Origin: OriginTopLeft, Width: 1920, Height: 1080, UnitScale: 1, PixelAspectRatio: 1}
	}
}
