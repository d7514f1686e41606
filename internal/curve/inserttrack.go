package curve

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Gap is a contiguous, fillable run of missing or in-gap frames in a
// target curve, bounded by the neighboring frames that anchor it.
type Gap struct {
	Start, End    int
	LowerNeighbor int
	UpperNeighbor int
	StatusBased   bool
}

// FindGapAroundFrame locates the gap (data-absence or status-based)
// containing focusFrame in target. Returns false if focusFrame is not in
// a gap, or if the gap is open-ended (unfillable).
func FindGapAroundFrame(target Curve, focusFrame int) (Gap, bool) {
	sorted := target.Clone()
	sorted.SortByFrame()

	if gap, ok := findStatusGap(sorted, focusFrame); ok {
		return gap, true
	}
	return findAbsenceGap(sorted, focusFrame)
}

// findStatusGap implements the status-based gap: the region strictly
// between an endframe point and the next keyframe point, regardless of
// data density inside.
func findStatusGap(sorted Curve, focusFrame int) (Gap, bool) {
	for i := 0; i < len(sorted); i++ {
		if sorted[i].Status != StatusEndframe {
			continue
		}
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Status == StatusKeyframe {
				lo, hi := sorted[i].Frame, sorted[j].Frame
				if focusFrame > lo && focusFrame < hi {
					return Gap{Start: lo + 1, End: hi - 1, LowerNeighbor: lo, UpperNeighbor: hi, StatusBased: true}, true
				}
				break
			}
		}
	}
	return Gap{}, false
}

// findAbsenceGap implements the pure data-absence gap between the
// nearest present frames straddling focusFrame. An open-ended gap (no
// upper neighbor) is reported as not-found, matching the "returns None"
// contract in the algorithm description.
func findAbsenceGap(sorted Curve, focusFrame int) (Gap, bool) {
	if _, ok := sorted.PointAtFrame(focusFrame); ok {
		return Gap{}, false
	}

	lowerNeighbor := -1
	upperNeighbor := -1
	for _, p := range sorted {
		if p.Frame < focusFrame && p.Frame > lowerNeighbor {
			lowerNeighbor = p.Frame
		}
		if p.Frame > focusFrame && (upperNeighbor == -1 || p.Frame < upperNeighbor) {
			upperNeighbor = p.Frame
		}
	}
	if lowerNeighbor == -1 || upperNeighbor == -1 {
		return Gap{}, false
	}
	return Gap{Start: lowerNeighbor + 1, End: upperNeighbor - 1, LowerNeighbor: lowerNeighbor, UpperNeighbor: upperNeighbor}, true
}

// FindOverlapFrames partitions the frames present in both target and
// donor, excluding the gap interval [gap.Start, gap.End], into frames
// before and after the gap.
func FindOverlapFrames(target, donor Curve, gap Gap) (before, after []int) {
	donorFrames := make(map[int]bool, len(donor))
	for _, p := range donor {
		donorFrames[p.Frame] = true
	}
	for _, p := range target {
		if !donorFrames[p.Frame] {
			continue
		}
		if p.Frame >= gap.Start && p.Frame <= gap.End {
			continue
		}
		if p.Frame < gap.Start {
			before = append(before, p.Frame)
		} else {
			after = append(after, p.Frame)
		}
	}
	sort.Ints(before)
	sort.Ints(after)
	return before, after
}

// CalculateOffset computes the mean (target[f] - donor[f]) across the
// given overlap frames, element-wise on x and y. Zero overlaps yields
// (0, 0).
func CalculateOffset(target, donor Curve, frames []int) (offsetX, offsetY float64) {
	if len(frames) == 0 {
		return 0, 0
	}
	dx := make([]float64, 0, len(frames))
	dy := make([]float64, 0, len(frames))
	for _, f := range frames {
		tp, ok1 := target.PointAtFrame(f)
		dp, ok2 := donor.PointAtFrame(f)
		if !ok1 || !ok2 {
			continue
		}
		dx = append(dx, tp.X-dp.X)
		dy = append(dy, tp.Y-dp.Y)
	}
	if len(dx) == 0 {
		return 0, 0
	}
	return stat.Mean(dx, nil), stat.Mean(dy, nil)
}

// FillGapWithSource fills gap frames present in donor with a constant
// offset (donor + offset), inserting into target. The first filled
// frame becomes a keyframe (it starts a new active segment); subsequent
// filled frames are tracked. Points outside the gap are untouched.
func FillGapWithSource(target, donor Curve, gap Gap, offsetX, offsetY float64) Curve {
	out := target.Clone()
	out.SortByFrame()

	first := true
	for frame := gap.Start; frame <= gap.End; frame++ {
		dp, ok := donor.PointAtFrame(frame)
		if !ok {
			continue
		}
		status := StatusTracked
		if first {
			status = StatusKeyframe
			first = false
		}
		out = upsertPoint(out, Point{Frame: frame, X: dp.X + offsetX, Y: dp.Y + offsetY, Status: status})
	}
	out.SortByFrame()
	return out
}

// upsertPoint inserts p, replacing any existing point at the same frame.
func upsertPoint(c Curve, p Point) Curve {
	if i, ok := c.IndexAtFrame(p.Frame); ok {
		c[i] = p
		return c
	}
	return append(c, p)
}

// overlapOffset pairs an overlap frame with the offset computed from
// that single frame (target - donor at that frame).
type overlapOffset struct {
	frame        int
	offsetX, offsetY float64
}

// DeformCurveWithInterpolatedOffset fills the gap using a per-frame
// offset linearly interpolated between enclosing overlap pairs (the 3DE
// deformCurve formula). Requires at least 2 overlap frames total.
func DeformCurveWithInterpolatedOffset(target, donor Curve, gap Gap, before, after []int) (Curve, error) {
	var overlaps []overlapOffset
	for _, f := range before {
		tp, _ := target.PointAtFrame(f)
		dp, _ := donor.PointAtFrame(f)
		overlaps = append(overlaps, overlapOffset{frame: f, offsetX: tp.X - dp.X, offsetY: tp.Y - dp.Y})
	}
	for _, f := range after {
		tp, _ := target.PointAtFrame(f)
		dp, _ := donor.PointAtFrame(f)
		overlaps = append(overlaps, overlapOffset{frame: f, offsetX: tp.X - dp.X, offsetY: tp.Y - dp.Y})
	}
	sort.Slice(overlaps, func(i, j int) bool { return overlaps[i].frame < overlaps[j].frame })

	if len(overlaps) < 2 {
		return nil, &InsufficientOverlapError{Have: len(overlaps), Need: 2}
	}

	out := target.Clone()
	out.SortByFrame()

	first := true
	for frame := gap.Start; frame <= gap.End; frame++ {
		dp, ok := donor.PointAtFrame(frame)
		if !ok {
			continue
		}
		f0, f1, ok := enclosingPair(overlaps, frame)
		if !ok {
			continue
		}
		t := 0.0
		if f1.frame != f0.frame {
			t = float64(frame-f0.frame) / float64(f1.frame-f0.frame)
		}
		offsetX := f0.offsetX + t*(f1.offsetX-f0.offsetX)
		offsetY := f0.offsetY + t*(f1.offsetY-f0.offsetY)

		status := StatusTracked
		if first {
			status = StatusKeyframe
			first = false
		}
		out = upsertPoint(out, Point{Frame: frame, X: dp.X + offsetX, Y: dp.Y + offsetY, Status: status})
	}
	out.SortByFrame()
	return out, nil
}

// enclosingPair finds the overlap pair (f0, f1) whose frames bracket
// frame, splitting the full overlap set into consecutive segments when
// there are 3 or more overlaps.
func enclosingPair(overlaps []overlapOffset, frame int) (overlapOffset, overlapOffset, bool) {
	for i := 0; i < len(overlaps)-1; i++ {
		if overlaps[i].frame <= frame && frame <= overlaps[i+1].frame {
			return overlaps[i], overlaps[i+1], true
		}
	}
	return overlapOffset{}, overlapOffset{}, false
}

// AverageMultipleSources fills each gap frame as the mean of (donor_i +
// offset_i) across all donors, emitting a frame only if every donor has
// data at it.
func AverageMultipleSources(target Curve, donors []Curve, offsets [][2]float64, gap Gap) (Curve, error) {
	if len(donors) == 0 || len(donors) != len(offsets) {
		return nil, &InvalidInputError{Context: "average_multiple_sources", Detail: "donors and offsets must be equal-length and non-empty"}
	}

	out := target.Clone()
	out.SortByFrame()

	first := true
	for frame := gap.Start; frame <= gap.End; frame++ {
		xs := make([]float64, 0, len(donors))
		ys := make([]float64, 0, len(donors))
		complete := true
		for i, d := range donors {
			dp, ok := d.PointAtFrame(frame)
			if !ok {
				complete = false
				break
			}
			xs = append(xs, dp.X+offsets[i][0])
			ys = append(ys, dp.Y+offsets[i][1])
		}
		if !complete {
			continue
		}
		status := StatusTracked
		if first {
			status = StatusKeyframe
			first = false
		}
		out = upsertPoint(out, Point{Frame: frame, X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil), Status: status})
	}
	out.SortByFrame()
	return out, nil
}

// CreateAveragedCurve produces a new curve at the intersection of the
// given sources' frame sets, with each point the per-frame mean. An
// empty intersection yields an empty curve (not an error): the caller
// decides whether that is actionable.
func CreateAveragedCurve(sources []Curve) (Curve, error) {
	if len(sources) == 0 {
		return nil, &NoCommonFramesError{}
	}

	common := make(map[int]bool)
	for _, p := range sources[0] {
		common[p.Frame] = true
	}
	for _, s := range sources[1:] {
		frames := make(map[int]bool, len(s))
		for _, p := range s {
			frames[p.Frame] = true
		}
		for f := range common {
			if !frames[f] {
				delete(common, f)
			}
		}
	}

	frames := make([]int, 0, len(common))
	for f := range common {
		frames = append(frames, f)
	}
	sort.Ints(frames)

	out := make(Curve, 0, len(frames))
	for _, f := range frames {
		xs := make([]float64, len(sources))
		ys := make([]float64, len(sources))
		for i, s := range sources {
			p, _ := s.PointAtFrame(f)
			xs[i], ys[i] = p.X, p.Y
		}
		out = append(out, Point{Frame: f, X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil), Status: StatusInterpolated})
	}
	return out, nil
}

// InterpolateGap linearly interpolates across gap between its two
// enclosing target points, when no donor is available. Filled points are
// marked interpolated; boundary points keep their original status. If
// either boundary is missing, target is returned unchanged.
func InterpolateGap(target Curve, gap Gap) Curve {
	lower, lok := target.PointAtFrame(gap.LowerNeighbor)
	upper, uok := target.PointAtFrame(gap.UpperNeighbor)
	if !lok || !uok {
		return target.Clone()
	}

	out := target.Clone()
	out.SortByFrame()
	span := float64(gap.UpperNeighbor - gap.LowerNeighbor)
	for frame := gap.Start; frame <= gap.End; frame++ {
		t := float64(frame-gap.LowerNeighbor) / span
		x := lower.X + t*(upper.X-lower.X)
		y := lower.Y + t*(upper.Y-lower.Y)
		out = upsertPoint(out, Point{Frame: frame, X: x, Y: y, Status: StatusInterpolated})
	}
	out.SortByFrame()
	return out
}
