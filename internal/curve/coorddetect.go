package curve

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// CoordinateDetector infers a CoordinateMetadata from a tracking file's
// path and, optionally, its content.
type CoordinateDetector struct{}

var (
	pattern3DE          = regexp.MustCompile(`(?i)(3DEqualizer|3DE|2DTrack|SDPX|IMAGE)`)
	patternDimensions   = regexp.MustCompile(`(?is)(?:IMAGE|RESOLUTION|SIZE|DIM).*?(\d{3,4})\s*[xX,]\s*(\d{3,4})`)
	patternWidthHeight  = regexp.MustCompile(`(?is)(?:WIDTH|W)\s*[:=]\s*(\d+).*?(?:HEIGHT|H)\s*[:=]\s*(\d+)`)
)

var extensionSystem = map[string]CoordinateSystem{
	".2dt": SystemThreeDEqualizer,
	".3de": SystemThreeDEqualizer,
	".nk":  SystemNuke,
	".ma":  SystemMaya,
	".mb":  SystemMaya,
	// .txt, .json, .csv require content; they fall through to Qt default.
}

// maxSniffBytes bounds how much of a file we read for content-based
// detection (§4.3: "up to 1 KiB of content").
const maxSniffBytes = 1024

// DetectFromFile infers coordinate metadata from a file path and
// optional content. If content is nil and the file exists on disk, up
// to 1 KiB is read for sniffing.
func (CoordinateDetector) DetectFromFile(path string, content *string) CoordinateMetadata {
	var c string
	if content != nil {
		c = *content
	} else if data, err := readHead(path, maxSniffBytes); err == nil {
		c = data
	}

	system := CoordinateSystem("")
	if c != "" {
		system = detectSystemFromContent(c)
	}
	if system == "" {
		system = detectSystemFromPath(path)
	}

	width, height, haveDims := extractDimensions(c)

	usesNormalized := false
	if system == SystemThreeDEqualizer && c != "" {
		usesNormalized = hasNormalizedCoordinates(c)
	}

	var m CoordinateMetadata
	switch system {
	case SystemThreeDEqualizer:
		m = CoordinateMetadata{System: system, Origin: OriginBottomLeft, Width: 1280, Height: 720, UnitScale: 1, PixelAspectRatio: 1, UsesNormalizedCoordinates: usesNormalized}
	case SystemNuke:
		m = CoordinateMetadata{System: system, Origin: OriginBottomLeft, Width: 1920, Height: 1080, UnitScale: 1, PixelAspectRatio: 1}
	case SystemMaya:
		m = CoordinateMetadata{System: system, Origin: OriginCenter, Width: 1920, Height: 1080, UnitScale: 1, PixelAspectRatio: 1}
	default:
		m = CoordinateMetadata{System: SystemQtScreen, Origin: OriginTopLeft, Width: 1920, Height: 1080, UnitScale: 1, PixelAspectRatio: 1}
	}
	if haveDims {
		m.Width, m.Height = width, height
	}
	return m
}

func readHead(path string, n int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	buf := make([]byte, n)
	read, err := f.Read(buf)
	if err != nil && read == 0 {
		return "", err
	}
	return string(buf[:read]), nil
}

func detectSystemFromPath(path string) CoordinateSystem {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(base, "2dtrack"), strings.Contains(base, "3dequalizer"), strings.Contains(base, "3de"):
		return SystemThreeDEqualizer
	case strings.Contains(base, "nuke"):
		return SystemNuke
	case strings.Contains(base, "maya"):
		return SystemMaya
	}

	ext := strings.ToLower(filepath.Ext(path))
	if sys, ok := extensionSystem[ext]; ok {
		return sys
	}
	return ""
}

func detectSystemFromContent(content string) CoordinateSystem {
	if pattern3DE.MatchString(content) {
		return SystemThreeDEqualizer
	}

	lines := strings.Split(content, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	for _, line := range lines {
		l := strings.ToLower(line)
		switch {
		case strings.Contains(l, "3dequalizer"), strings.Contains(l, "2dtrack"), strings.Contains(l, "sdpx"):
			return SystemThreeDEqualizer
		case strings.Contains(l, "nuke"), strings.Contains(l, "foundry"):
			return SystemNuke
		case strings.Contains(l, "maya"), strings.Contains(l, "autodesk"):
			return SystemMaya
		}
	}

	if has3DEStructure(content) {
		return SystemThreeDEqualizer
	}
	if looksLike3DEData(content) {
		return SystemThreeDEqualizer
	}
	return ""
}

// has3DEStructure implements the 3DE structural match (§4.3 step 2):
// version, name, small int, frame count, then a parseable data line.
func has3DEStructure(content string) bool {
	lines := splitNonEmptyPreserving(content)
	if len(lines) < 5 {
		return false
	}

	version, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil || version < 0 || version > 100 {
		return false
	}
	if strings.TrimSpace(lines[1]) == "" {
		return false
	}
	identifier, err := strconv.Atoi(strings.TrimSpace(lines[2]))
	if err != nil || identifier < 0 || identifier > 1000 {
		return false
	}
	frameCount, err := strconv.Atoi(strings.TrimSpace(lines[3]))
	if err != nil || frameCount <= 0 || frameCount > 10000 {
		return false
	}

	parts := strings.Fields(lines[4])
	if len(parts) < 3 {
		return false
	}
	frame, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.ParseFloat(parts[1], 64)
	y, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	return frame > 0 && x >= 0 && x <= 10000 && y >= 0 && y <= 10000
}

// splitNonEmptyPreserving mirrors Python's content.strip().split("\n"):
// trim the whole content, then split on newlines without dropping blank
// interior lines (only the structural check cares about line positions).
func splitNonEmptyPreserving(content string) []string {
	return strings.Split(strings.TrimSpace(content), "\n")
}

type dataLine struct {
	frame int
	x, y  float64
}

func parseDataLines(content string) []dataLine {
	var out []dataLine
	for _, raw := range strings.Split(strings.TrimSpace(content), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}
		frame, err1 := strconv.Atoi(parts[0])
		x, err2 := strconv.ParseFloat(parts[1], 64)
		y, err3 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		out = append(out, dataLine{frame, x, y})
	}
	return out
}

// looksLike3DEData implements the data-shape heuristic (§4.3 step 3):
// sequential frames from 1, coordinates in [0,2000] or [0,1].
func looksLike3DEData(content string) bool {
	lines := parseDataLines(content)
	if len(lines) < 2 {
		return false
	}

	minFrame, maxFrame := lines[0].frame, lines[0].frame
	minX, maxX := lines[0].x, lines[0].x
	minY, maxY := lines[0].y, lines[0].y
	for _, l := range lines[1:] {
		if l.frame < minFrame {
			minFrame = l.frame
		}
		if l.frame > maxFrame {
			maxFrame = l.frame
		}
		if l.x < minX {
			minX = l.x
		}
		if l.x > maxX {
			maxX = l.x
		}
		if l.y < minY {
			minY = l.y
		}
		if l.y > maxY {
			maxY = l.y
		}
	}

	if minFrame != 1 || maxFrame-minFrame != len(lines)-1 {
		return false
	}
	if minX >= 0 && maxX <= 2000 && minY >= 0 && maxY <= 2000 {
		return true
	}
	if minX >= 0 && maxX <= 1 && minY >= 0 && maxY <= 1 {
		return true
	}
	return false
}

// hasNormalizedCoordinates implements §4.3's normalized-coordinate
// detection for 3DE content: all values in [0, 1.001] and either axis
// has range > 1e-4 (a single point always counts).
func hasNormalizedCoordinates(content string) bool {
	lines := parseDataLines(content)
	if len(lines) < 1 {
		return false
	}

	minX, maxX := lines[0].x, lines[0].x
	minY, maxY := lines[0].y, lines[0].y
	for _, l := range lines[1:] {
		if l.x < minX {
			minX = l.x
		}
		if l.x > maxX {
			maxX = l.x
		}
		if l.y < minY {
			minY = l.y
		}
		if l.y > maxY {
			maxY = l.y
		}
	}

	if minX < 0 || maxX > 1.001 || minY < 0 || maxY > 1.001 {
		return false
	}
	if len(lines) == 1 {
		return true
	}
	xRange := maxX - minX
	yRange := maxY - minY
	return xRange > 1e-4 || yRange > 1e-4
}

var commonResolutions = [][2]int{
	{1280, 720},
	{1920, 1080},
	{2560, 1440},
	{3840, 2160},
	{640, 480},
	{1024, 768},
}

// extractDimensions implements §4.3's dimension extraction: explicit
// markers, then WIDTH/HEIGHT, then inference from the data range.
func extractDimensions(content string) (width, height int, ok bool) {
	if content == "" {
		return 0, 0, false
	}

	if m := patternDimensions.FindStringSubmatch(content); m != nil {
		w, err1 := strconv.Atoi(m[1])
		h, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil && w >= 100 && w <= 8000 && h >= 100 && h <= 8000 {
			return w, h, true
		}
	}
	if m := patternWidthHeight.FindStringSubmatch(content); m != nil {
		w, err1 := strconv.Atoi(m[1])
		h, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil && w >= 100 && w <= 8000 && h >= 100 && h <= 8000 {
			return w, h, true
		}
	}
	return inferDimensionsFromData(content)
}

func inferDimensionsFromData(content string) (width, height int, ok bool) {
	lines := parseDataLines(content)
	if len(lines) == 0 {
		return 0, 0, false
	}

	maxX, maxY := lines[0].x, lines[0].y
	for _, l := range lines[1:] {
		if l.x > maxX {
			maxX = l.x
		}
		if l.y > maxY {
			maxY = l.y
		}
	}

	for _, res := range commonResolutions {
		w, h := float64(res[0]), float64(res[1])
		if maxX <= w*1.1 && maxY <= h*1.1 {
			return res[0], res[1], true
		}
	}

	w := int((maxX+9)/10) * 10
	h := int((maxY+9)/10) * 10
	if w >= 100 && w <= 8000 && h >= 100 && h <= 8000 {
		return w, h, true
	}
	return 0, 0, false
}
