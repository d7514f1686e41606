package curve

import "sort"

// PointStatus is the role a point plays within a curve.
type PointStatus string

const (
	StatusKeyframe     PointStatus = "keyframe"
	StatusInterpolated PointStatus = "interpolated"
	StatusTracked      PointStatus = "tracked"
	StatusEndframe     PointStatus = "endframe"
	StatusNormal       PointStatus = "normal"
)

// Point is a single sample of a tracking curve at a given frame.
type Point struct {
	Frame  int
	X      float64
	Y      float64
	Status PointStatus
}

// NewPointFromLegacyTuple builds a Point from the legacy 3-tuple form
// (frame, x, y) with no status, defaulting status to StatusNormal as
// required for data entering the pipeline without an explicit status.
func NewPointFromLegacyTuple(frame int, x, y float64) Point {
	return Point{Frame: frame, X: x, Y: y, Status: StatusNormal}
}

// NewPointFromLegacyBool builds a Point from the legacy boolean-status
// form where true means interpolated and false means keyframe.
func NewPointFromLegacyBool(frame int, x, y float64, interpolated bool) Point {
	status := StatusKeyframe
	if interpolated {
		status = StatusInterpolated
	}
	return Point{Frame: frame, X: x, Y: y, Status: status}
}

// Curve is an ordered sequence of points, sorted by frame and unique by
// frame within the curve.
type Curve []Point

// Clone returns a deep copy of the curve so callers can mutate it freely.
func (c Curve) Clone() Curve {
	out := make(Curve, len(c))
	copy(out, c)
	return out
}

// SortByFrame sorts the curve in place by ascending frame number.
func (c Curve) SortByFrame() {
	sort.Slice(c, func(i, j int) bool { return c[i].Frame < c[j].Frame })
}

// IndexAtFrame returns the index of the first point at the given frame
// using a linear scan, and false if no such point exists. A Curve value
// itself does not prevent duplicate frames; CurveStore.AddPoint rejects
// them.
func (c Curve) IndexAtFrame(frame int) (int, bool) {
	for i, p := range c {
		if p.Frame == frame {
			return i, true
		}
	}
	return 0, false
}

// PointAtFrame returns the point at the given frame, if present.
func (c Curve) PointAtFrame(frame int) (Point, bool) {
	i, ok := c.IndexAtFrame(frame)
	if !ok {
		return Point{}, false
	}
	return c[i], true
}

// Bounds returns the (minX, minY, maxX, maxY) bounding box of the curve.
// An empty curve yields the zero box.
func (c Curve) Bounds() (minX, minY, maxX, maxY float64) {
	if len(c) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = c[0].X, c[0].Y
	maxX, maxY = c[0].X, c[0].Y
	for _, p := range c[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minX, minY, maxX, maxY
}

// FrameRange returns the (min, max) frame numbers present in the curve,
// and false if the curve is empty.
func (c Curve) FrameRange() (min, max int, ok bool) {
	if len(c) == 0 {
		return 0, 0, false
	}
	min, max = c[0].Frame, c[0].Frame
	for _, p := range c[1:] {
		if p.Frame < min {
			min = p.Frame
		}
		if p.Frame > max {
			max = p.Frame
		}
	}
	return min, max, true
}

// TrackingDirection describes which way a curve's tracker ran.
type TrackingDirection string

const (
	TrackingForward         TrackingDirection = "fw"
	TrackingBackward        TrackingDirection = "bw"
	TrackingForwardBackward TrackingDirection = "fw+bw"
)

// CurveMeta is the per-curve metadata carried by a named curve set,
// independent of the curve's CoordinateMetadata.
type CurveMeta struct {
	Visible           bool
	Color             string // optional hex string, "" if unset
	TrackingDirection TrackingDirection
}
