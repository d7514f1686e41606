package trackio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"curveeditor.dev/core/internal/curve"
	"curveeditor.dev/core/internal/monitoring"
)

var csvDelimiters = []rune{',', '\t', ';'}

// sniffDelimiter picks the candidate delimiter (comma, tab, semicolon)
// that splits the sample line into the most fields; ties go to the
// earlier candidate, and comma is returned when none splits the line.
func sniffDelimiter(sample string) rune {
	best := rune(',')
	bestFields := 1
	for _, d := range csvDelimiters {
		n := len(strings.Split(sample, string(d)))
		if n > bestFields {
			bestFields = n
			best = d
		}
	}
	return best
}

// ReadCSV auto-detects the delimiter among `,`, tab, `;` and an optional
// header row (present iff the first field of the first row does not
// parse as a number), then reads `frame, x, y, [status]` columns.
func ReadCSV(r io.Reader) (curve.Curve, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("trackio: reading csv file: %w", err)
	}
	text := string(raw)
	firstLine, _, _ := strings.Cut(text, "\n")
	delim := sniffDelimiter(firstLine)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("trackio: parsing csv file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	if _, err := strconv.ParseFloat(strings.TrimSpace(records[0][0]), 64); err != nil {
		records = records[1:] // header row
	}

	out := make(curve.Curve, 0, len(records))
	for _, rec := range records {
		if len(rec) < 3 {
			monitoring.Logf("trackio: skipping short csv row %v", rec)
			continue
		}
		frame, err1 := strconv.Atoi(strings.TrimSpace(rec[0]))
		x, err2 := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		y, err3 := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			monitoring.Logf("trackio: skipping non-numeric csv row %v", rec)
			continue
		}
		status := curve.StatusNormal
		if len(rec) >= 4 {
			if parsed := parseStatus(strings.TrimSpace(rec[3])); parsed != "" {
				status = parsed
			}
		}
		out = append(out, curve.Point{Frame: frame, X: x, Y: y, Status: status})
	}
	return out, nil
}

// WriteCSV writes c as comma-delimited `frame,x,y,status` rows with a
// header.
func WriteCSV(w io.Writer, c curve.Curve) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	if err := cw.Write([]string{"frame", "x", "y", "status"}); err != nil {
		return fmt.Errorf("trackio: writing csv file: %w", err)
	}
	for _, p := range c {
		row := []string{
			strconv.Itoa(p.Frame),
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
			string(p.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("trackio: writing csv file: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("trackio: flushing csv file: %w", err)
	}
	return bw.Flush()
}
