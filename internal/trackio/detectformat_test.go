package trackio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat_ByExtension(t *testing.T) {
	t.Parallel()
	assert.Equal(t, FormatJSON, DetectFormat("track.json", ""))
	assert.Equal(t, FormatCSV, DetectFormat("track.csv", ""))
	assert.Equal(t, FormatMultiPoint, DetectFormat("track.2dt", ""))
	assert.Equal(t, FormatMultiPoint, DetectFormat("track.3de", ""))
}

func TestDetectFormat_ContentSniffing_JSON(t *testing.T) {
	t.Parallel()
	assert.Equal(t, FormatJSON, DetectFormat("track.dat", `{"points":[]}`))
	assert.Equal(t, FormatJSON, DetectFormat("track.dat", `[1,2,3]`))
}

func TestDetectFormat_ContentSniffing_CSV(t *testing.T) {
	t.Parallel()
	assert.Equal(t, FormatCSV, DetectFormat("track.dat", "frame,x,y\n1,2,3\n"))
}

func TestDetectFormat_DisambiguatesSingleVsMultiPoint(t *testing.T) {
	t.Parallel()
	single := "1\n0\n0\n2\n1 10 20\n2 11 21\n"
	assert.Equal(t, FormatSingleCurve, DetectFormat("track.dat", single))

	multi := "1\npointA\n0\n2\n1 10 20\n2 11 21\n"
	assert.Equal(t, FormatMultiPoint, DetectFormat("track.dat", multi))
}

func TestDetectFormat_EmptyContentIsUnknown(t *testing.T) {
	t.Parallel()
	assert.Equal(t, FormatUnknown, DetectFormat("track.dat", "   "))
}
