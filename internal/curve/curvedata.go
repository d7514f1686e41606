package curve

// CurveDataWithMetadata pairs a raw curve with the coordinate metadata it
// was measured under, and tracks whether it has been normalized into the
// canonical top-left pixel space.
type CurveDataWithMetadata struct {
	Points       Curve
	Metadata     CoordinateMetadata
	IsNormalized bool
}

// NewCurveDataWithMetadata wraps points with metadata, unnormalized.
func NewCurveDataWithMetadata(points Curve, metadata CoordinateMetadata) CurveDataWithMetadata {
	return CurveDataWithMetadata{Points: points.Clone(), Metadata: metadata}
}

// ToNormalized returns a copy of this curve data converted into the
// canonical top-left pixel space, retagged with metadata describing that
// space. A curve that is already normalized is returned unchanged.
func (c CurveDataWithMetadata) ToNormalized() CurveDataWithMetadata {
	if c.IsNormalized {
		return c
	}
	out := make(Curve, len(c.Points))
	for i, p := range c.Points {
		nx, ny := c.Metadata.ToNormalized(p.X, p.Y)
		out[i] = Point{Frame: p.Frame, X: nx, Y: ny, Status: p.Status}
	}
	normalizedMeta := CoordinateMetadata{
		System:           SystemCurveEditorInner,
		Origin:           OriginTopLeft,
		Width:            c.Metadata.Width,
		Height:           c.Metadata.Height,
		UnitScale:        c.Metadata.UnitScale,
		PixelAspectRatio: c.Metadata.PixelAspectRatio,
	}
	return CurveDataWithMetadata{Points: out, Metadata: normalizedMeta, IsNormalized: true}
}

// FromNormalized returns a copy of this (already normalized) curve data
// converted into target's coordinate system and retagged with target. It
// is an error to call this on data that was never normalized.
func (c CurveDataWithMetadata) FromNormalized(target CoordinateMetadata) (CurveDataWithMetadata, error) {
	if !c.IsNormalized {
		return CurveDataWithMetadata{}, &NotNormalizedError{}
	}
	out := make(Curve, len(c.Points))
	for i, p := range c.Points {
		nx, ny := target.FromNormalized(p.X, p.Y)
		out[i] = Point{Frame: p.Frame, X: nx, Y: ny, Status: p.Status}
	}
	return CurveDataWithMetadata{Points: out, Metadata: target, IsNormalized: false}, nil
}

// Bounds delegates to the wrapped curve's Bounds.
func (c CurveDataWithMetadata) Bounds() (minX, minY, maxX, maxY float64) {
	return c.Points.Bounds()
}

// PointAtFrame delegates to the wrapped curve's PointAtFrame.
func (c CurveDataWithMetadata) PointAtFrame(frame int) (Point, bool) {
	return c.Points.PointAtFrame(frame)
}
