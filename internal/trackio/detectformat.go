package trackio

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Format identifies which parser a tracking file's content or extension
// selects.
type Format int

const (
	FormatUnknown Format = iota
	FormatMultiPoint
	FormatSingleCurve
	FormatJSON
	FormatCSV
)

// DetectFormat picks a parser by file extension first, falling back to
// sniffing the first non-empty line of content. `.nk`/`.ma`/`.mb` are
// identified for coordinate-metadata purposes only (§6.1) and have no
// dedicated parser here.
func DetectFormat(path string, content string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	case ".2dt", ".3de":
		return FormatMultiPoint
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}

	firstLine, _, _ := strings.Cut(trimmed, "\n")
	if strings.ContainsAny(firstLine, ",\t;") {
		return FormatCSV
	}

	// Both ASCII forms start with an integer header line and put their
	// first point row on line 5; the second line tells them apart: the
	// single-curve header has an integer identifier there, the multi-point
	// header has the first trajectory's point name.
	lines := strings.Split(trimmed, "\n")
	if len(lines) >= 5 && looksLikeDataRow(lines[4]) {
		if _, err := strconv.Atoi(strings.TrimSpace(lines[1])); err == nil {
			return FormatSingleCurve
		}
	}
	return FormatMultiPoint
}

// looksLikeDataRow reports whether line has the shape of a `frame x y
// [status]` row rather than a single scalar header line.
func looksLikeDataRow(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return false
	}
	_, err := strconv.Atoi(fields[0])
	return err == nil
}
