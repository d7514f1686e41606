package trackio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curveeditor.dev/core/internal/curve"
)

func TestReadCSV_CommaWithHeader(t *testing.T) {
	t.Parallel()
	input := "frame,x,y,status\n1,10,20,keyframe\n2,11,21,tracked\n"
	c, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, c, 2)
	assert.Equal(t, curve.StatusKeyframe, c[0].Status)
}

func TestReadCSV_NoHeaderDetectedByLeadingNumber(t *testing.T) {
	t.Parallel()
	input := "1,10,20\n2,11,21\n"
	c, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, c, 2)
}

func TestReadCSV_TabDelimited(t *testing.T) {
	t.Parallel()
	input := "frame\tx\ty\n1\t10\t20\n"
	c, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, 10.0, c[0].X)
}

func TestReadCSV_SemicolonDelimited(t *testing.T) {
	t.Parallel()
	input := "1;10;20\n2;11;21\n"
	c, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, c, 2)
}

func TestReadCSV_SkipsShortRows(t *testing.T) {
	t.Parallel()
	input := "1,10,20\n2,11\n3,12,22\n"
	c, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, c, 2, "the 2-field row is skipped")
}

func TestWriteCSV_RoundTrips(t *testing.T) {
	t.Parallel()
	c := curve.Curve{{Frame: 1, X: 2, Y: 3, Status: curve.StatusKeyframe}}
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, c))

	out, err := ReadCSV(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2.0, out[0].X)
	assert.Equal(t, curve.StatusKeyframe, out[0].Status)
}
