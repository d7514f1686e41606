package trackio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"curveeditor.dev/core/internal/curve"
)

// ReadSingleCurve parses the simplified single-curve 2D track format
// (§6.1): version, two ignored ids, a frame count, then that many
// `frame x y [status]` rows.
func ReadSingleCurve(r io.Reader) (curve.Curve, error) {
	lines, err := readSignificantLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) < 4 {
		return nil, &curve.InvalidInputError{Context: "singlecurve", Detail: "file too short for header"}
	}

	frameCount, err := strconv.Atoi(strings.TrimSpace(lines[3]))
	if err != nil {
		return nil, &curve.InvalidInputError{Context: "singlecurve", Detail: fmt.Sprintf("bad frame count %q", lines[3])}
	}

	rows := lines[4:]
	if len(rows) > frameCount {
		rows = rows[:frameCount]
	}
	return parseRows(rows), nil
}

// WriteSingleCurve writes c in the simplified single-curve format, using
// version 1 and placeholder identifiers.
func WriteSingleCurve(w io.Writer, c curve.Curve) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, 1)
	fmt.Fprintln(bw, 0)
	fmt.Fprintln(bw, 0)
	fmt.Fprintln(bw, len(c))
	for _, p := range c {
		fmt.Fprintf(bw, "%d %g %g %s\n", p.Frame, p.X, p.Y, p.Status)
	}
	return bw.Flush()
}
