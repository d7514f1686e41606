package trackio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"curveeditor.dev/core/internal/curve"
	"curveeditor.dev/core/internal/monitoring"
)

// ReadMultiPoint parses the multi-point 2D track format (§6.1): a point
// count, then per point a name, an ignored identifier, a frame count,
// and that many `frame x y [status]` rows. Malformed rows are logged and
// skipped; the trajectory continues with the remaining rows.
func ReadMultiPoint(r io.Reader) ([]NamedCurve, error) {
	lines, err := readSignificantLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &curve.InvalidInputError{Context: "multipoint", Detail: "empty file"}
	}

	pointCount, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, &curve.InvalidInputError{Context: "multipoint", Detail: fmt.Sprintf("bad point count %q", lines[0])}
	}

	var out []NamedCurve
	idx := 1
	for p := 0; p < pointCount && idx < len(lines); p++ {
		name := strings.TrimSpace(lines[idx])
		idx++
		if idx >= len(lines) {
			break
		}
		idx++ // identifier, ignored
		if idx >= len(lines) {
			break
		}
		frameCount, err := strconv.Atoi(strings.TrimSpace(lines[idx]))
		idx++
		if err != nil {
			monitoring.Logf("trackio: skipping point %q: bad frame count", name)
			continue
		}

		rows := make([]string, 0, frameCount)
		for k := 0; k < frameCount && idx < len(lines); k++ {
			rows = append(rows, lines[idx])
			idx++
		}

		data := parseRows(rows)
		out = append(out, NamedCurve{Name: name, Data: data})
	}
	return out, nil
}

func parseRows(rows []string) curve.Curve {
	out := make(curve.Curve, 0, len(rows))
	for i, row := range rows {
		fields := strings.Fields(row)
		if len(fields) < 3 {
			monitoring.Logf("trackio: skipping malformed row %q", row)
			continue
		}
		frame, err1 := strconv.Atoi(fields[0])
		x, err2 := strconv.ParseFloat(fields[1], 64)
		y, err3 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			monitoring.Logf("trackio: skipping non-numeric row %q", row)
			continue
		}
		status := curve.PointStatus("")
		if len(fields) >= 4 {
			status = parseStatus(fields[3])
		}
		if status == "" {
			status = inferStatus(i, len(rows))
		}
		out = append(out, curve.Point{Frame: frame, X: x, Y: y, Status: status})
	}
	return out
}

// readSignificantLines reads every line from r, trimming whitespace and
// dropping blank lines and `#`-prefixed comments.
func readSignificantLines(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("trackio: reading multipoint file: %w", err)
	}
	return out, nil
}

// WriteMultiPoint writes curves in the multi-point format.
func WriteMultiPoint(w io.Writer, curves []NamedCurve) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, len(curves)); err != nil {
		return fmt.Errorf("trackio: writing multipoint file: %w", err)
	}
	for i, nc := range curves {
		fmt.Fprintln(bw, nc.Name)
		fmt.Fprintln(bw, i)
		fmt.Fprintln(bw, len(nc.Data))
		for _, p := range nc.Data {
			fmt.Fprintf(bw, "%d %g %g %s\n", p.Frame, p.X, p.Y, p.Status)
		}
	}
	return bw.Flush()
}
