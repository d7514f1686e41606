package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindGapAroundFrame_AbsenceGap(t *testing.T) {
	t.Parallel()
	target := Curve{
		{Frame: 1, X: 0, Y: 0, Status: StatusKeyframe},
		{Frame: 10, X: 10, Y: 10, Status: StatusKeyframe},
	}
	gap, ok := FindGapAroundFrame(target, 5)
	require.True(t, ok)
	assert.Equal(t, 2, gap.Start)
	assert.Equal(t, 9, gap.End)
	assert.Equal(t, 1, gap.LowerNeighbor)
	assert.Equal(t, 10, gap.UpperNeighbor)
}

func TestFindGapAroundFrame_OpenEndedIsUnfillable(t *testing.T) {
	t.Parallel()
	target := Curve{{Frame: 1, X: 0, Y: 0, Status: StatusKeyframe}}
	_, ok := FindGapAroundFrame(target, 5)
	assert.False(t, ok)
}

func TestFindGapAroundFrame_StatusBasedGap(t *testing.T) {
	t.Parallel()
	target := Curve{
		{Frame: 1, X: 0, Y: 0, Status: StatusEndframe},
		{Frame: 5, X: 2, Y: 2, Status: StatusTracked}, // in-gap despite having data
		{Frame: 10, X: 10, Y: 10, Status: StatusKeyframe},
	}
	gap, ok := FindGapAroundFrame(target, 5)
	require.True(t, ok)
	assert.True(t, gap.StatusBased)
	assert.Equal(t, 2, gap.Start)
	assert.Equal(t, 9, gap.End)
}

func TestFindOverlapFrames_PartitionsBeforeAndAfter(t *testing.T) {
	t.Parallel()
	target := Curve{
		{Frame: 1, X: 0, Y: 0},
		{Frame: 2, X: 1, Y: 1},
		{Frame: 10, X: 10, Y: 10},
		{Frame: 11, X: 11, Y: 11},
	}
	donor := Curve{
		{Frame: 1, X: 0, Y: 0},
		{Frame: 2, X: 1, Y: 1},
		{Frame: 10, X: 10, Y: 10},
		{Frame: 11, X: 11, Y: 11},
	}
	gap := Gap{Start: 3, End: 9}
	before, after := FindOverlapFrames(target, donor, gap)
	assert.Equal(t, []int{1, 2}, before)
	assert.Equal(t, []int{10, 11}, after)
}

func TestCalculateOffset_MeanOfDifferences(t *testing.T) {
	t.Parallel()
	target := Curve{{Frame: 1, X: 10, Y: 20}, {Frame: 2, X: 12, Y: 24}}
	donor := Curve{{Frame: 1, X: 5, Y: 5}, {Frame: 2, X: 5, Y: 5}}
	ox, oy := CalculateOffset(target, donor, []int{1, 2})
	assert.InDelta(t, 6.0, ox, 1e-9) // mean(10-5, 12-5) = mean(5,7) = 6
	assert.InDelta(t, 17.0, oy, 1e-9)
}

func TestCalculateOffset_ZeroOverlapsYieldsZero(t *testing.T) {
	t.Parallel()
	ox, oy := CalculateOffset(Curve{}, Curve{}, nil)
	assert.Equal(t, 0.0, ox)
	assert.Equal(t, 0.0, oy)
}

func TestFillGapWithSource_ConstantOffsetAndStatusPolicy(t *testing.T) {
	t.Parallel()
	target := Curve{
		{Frame: 1, X: 0, Y: 0, Status: StatusKeyframe},
		{Frame: 5, X: 100, Y: 100, Status: StatusKeyframe}, // outside donor's range, untouched
	}
	donor := Curve{
		{Frame: 2, X: 20, Y: 20},
		{Frame: 3, X: 30, Y: 30},
		{Frame: 4, X: 40, Y: 40},
	}
	gap := Gap{Start: 2, End: 4, LowerNeighbor: 1, UpperNeighbor: 5}

	filled := FillGapWithSource(target, donor, gap, 1, 1)

	p2, ok := filled.PointAtFrame(2)
	require.True(t, ok)
	assert.Equal(t, 21.0, p2.X)
	assert.Equal(t, StatusKeyframe, p2.Status, "first filled frame starts a new segment")

	p3, ok := filled.PointAtFrame(3)
	require.True(t, ok)
	assert.Equal(t, StatusTracked, p3.Status)

	p4, ok := filled.PointAtFrame(4)
	require.True(t, ok)
	assert.Equal(t, StatusTracked, p4.Status)

	p5, ok := filled.PointAtFrame(5)
	require.True(t, ok)
	assert.Equal(t, 100.0, p5.X, "point outside the gap is untouched")
}

func TestDeformCurveWithInterpolatedOffset_LinearBlend(t *testing.T) {
	t.Parallel()
	// Two overlap frames with offsets (0,0) at f=1 and (0,10) at f=10; donor
	// supplies every gap frame with y=f-1 so filled.y = donor.y + offset(f).
	target := Curve{
		{Frame: 1, X: 0, Y: 0, Status: StatusKeyframe},
		{Frame: 10, X: 0, Y: 19, Status: StatusKeyframe},
	}
	donor := Curve{}
	for f := 1; f <= 10; f++ {
		donor = append(donor, Point{Frame: f, X: 0, Y: float64(f - 1)})
	}
	gap := Gap{Start: 2, End: 9, LowerNeighbor: 1, UpperNeighbor: 10}
	before, after := FindOverlapFrames(target, donor, gap)

	filled, err := DeformCurveWithInterpolatedOffset(target, donor, gap, before, after)
	require.NoError(t, err)

	p5, ok := filled.PointAtFrame(5)
	require.True(t, ok)
	// offset(5) = 0 + (5-1)/(10-1) * (10-0) = 40/9 ≈ 4.444; donor(5).y = 4.
	assert.InDelta(t, 4.0+40.0/9.0, p5.Y, 1e-3)
}

func TestDeformCurveWithInterpolatedOffset_InsufficientOverlap(t *testing.T) {
	t.Parallel()
	target := Curve{{Frame: 1, X: 0, Y: 0}}
	donor := Curve{{Frame: 1, X: 0, Y: 0}, {Frame: 5, X: 1, Y: 1}}
	gap := Gap{Start: 2, End: 4, LowerNeighbor: 1, UpperNeighbor: 5}
	before, after := FindOverlapFrames(target, donor, gap)

	_, err := DeformCurveWithInterpolatedOffset(target, donor, gap, before, after)
	var ioe *InsufficientOverlapError
	assert.ErrorAs(t, err, &ioe)
}

func TestAverageMultipleSources_RestrictsToCommonFrames(t *testing.T) {
	t.Parallel()
	target := Curve{{Frame: 2, X: 0, Y: 0, Status: StatusKeyframe}, {Frame: 5, X: 0, Y: 0, Status: StatusKeyframe}}
	donor1 := Curve{{Frame: 3, X: 100, Y: 200}, {Frame: 4, X: 101, Y: 201}}
	donor2 := Curve{{Frame: 3, X: 110, Y: 210}}
	gap := Gap{Start: 3, End: 4, LowerNeighbor: 2, UpperNeighbor: 5}

	filled, err := AverageMultipleSources(target, []Curve{donor1, donor2}, [][2]float64{{0, 0}, {0, 0}}, gap)
	require.NoError(t, err)

	p3, ok := filled.PointAtFrame(3)
	require.True(t, ok)
	assert.Equal(t, 105.0, p3.X)
	assert.Equal(t, 205.0, p3.Y)

	_, ok = filled.PointAtFrame(4)
	assert.False(t, ok, "frame 4 absent from donor2 must be skipped")
}

func TestCreateAveragedCurve_IntersectionOfFrames(t *testing.T) {
	t.Parallel()
	a := Curve{{Frame: 1, X: 0, Y: 0}, {Frame: 2, X: 2, Y: 2}}
	b := Curve{{Frame: 1, X: 10, Y: 10}, {Frame: 3, X: 30, Y: 30}}

	avg, err := CreateAveragedCurve([]Curve{a, b})
	require.NoError(t, err)
	require.Len(t, avg, 1)
	assert.Equal(t, 1, avg[0].Frame)
	assert.Equal(t, 5.0, avg[0].X)
	assert.Equal(t, 5.0, avg[0].Y)
}

func TestCreateAveragedCurve_EmptyIntersectionYieldsEmptyCurve(t *testing.T) {
	t.Parallel()
	a := Curve{{Frame: 1, X: 0, Y: 0}}
	b := Curve{{Frame: 2, X: 0, Y: 0}}
	avg, err := CreateAveragedCurve([]Curve{a, b})
	require.NoError(t, err)
	assert.Empty(t, avg)
}

func TestInterpolateGap_LinearBetweenBoundaries(t *testing.T) {
	t.Parallel()
	target := Curve{
		{Frame: 1, X: 0, Y: 0, Status: StatusKeyframe},
		{Frame: 5, X: 40, Y: 80, Status: StatusKeyframe},
	}
	gap := Gap{Start: 2, End: 4, LowerNeighbor: 1, UpperNeighbor: 5}

	filled := InterpolateGap(target, gap)

	p2, ok := filled.PointAtFrame(2)
	require.True(t, ok)
	assert.InDelta(t, 10.0, p2.X, 1e-9)
	assert.InDelta(t, 20.0, p2.Y, 1e-9)
	assert.Equal(t, StatusInterpolated, p2.Status)

	p1, ok := filled.PointAtFrame(1)
	require.True(t, ok)
	assert.Equal(t, StatusKeyframe, p1.Status, "boundary status preserved")
}

func TestInterpolateGap_MissingBoundaryReturnsUnchanged(t *testing.T) {
	t.Parallel()
	target := Curve{{Frame: 1, X: 0, Y: 0, Status: StatusKeyframe}}
	gap := Gap{Start: 2, End: 4, LowerNeighbor: 1, UpperNeighbor: 5}
	filled := InterpolateGap(target, gap)
	assert.Equal(t, target, filled)
}
