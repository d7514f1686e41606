package trackio

import (
	"encoding/json"
	"fmt"
	"io"

	"curveeditor.dev/core/internal/curve"
	"curveeditor.dev/core/internal/monitoring"
)

// JSONMetadata is the optional metadata block accepted (and always
// written) alongside a curve's points in the object JSON shape.
type JSONMetadata struct {
	Label      string `json:"label,omitempty"`
	Color      string `json:"color,omitempty"`
	Version    int    `json:"version,omitempty"`
	PointCount int    `json:"point_count"`
}

// jsonPointObject is the object form of one point: {frame, x, y, status?}.
type jsonPointObject struct {
	Frame  int     `json:"frame"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Status string  `json:"status,omitempty"`
}

type jsonDocument struct {
	Metadata *JSONMetadata     `json:"metadata"`
	Points   []json.RawMessage `json:"points"`
}

// ReadJSON parses either accepted JSON shape (§6.1): a bare array of
// point objects/tuples, or an object with a metadata block and a points
// array.
func ReadJSON(r io.Reader) (curve.Curve, *JSONMetadata, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("trackio: reading json file: %w", err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(raw, &doc); err == nil && doc.Points != nil {
		pts, err := parseJSONPoints(doc.Points)
		if err != nil {
			return nil, nil, err
		}
		return pts, doc.Metadata, nil
	}

	var rawPoints []json.RawMessage
	if err := json.Unmarshal(raw, &rawPoints); err != nil {
		return nil, nil, fmt.Errorf("trackio: unrecognized json shape: %w", err)
	}
	pts, err := parseJSONPoints(rawPoints)
	if err != nil {
		return nil, nil, err
	}
	return pts, nil, nil
}

func parseJSONPoints(raw []json.RawMessage) (curve.Curve, error) {
	out := make(curve.Curve, 0, len(raw))
	for _, r := range raw {
		p, err := parseJSONPoint(r)
		if err != nil {
			monitoring.Logf("trackio: skipping malformed json point: %v", err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func parseJSONPoint(raw json.RawMessage) (curve.Point, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(raw, &tuple); err == nil {
		return parseJSONTuple(tuple)
	}

	var obj jsonPointObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return curve.Point{}, &curve.InvalidInputError{Context: "json", Detail: "point is neither an object nor a tuple"}
	}
	status := parseStatus(obj.Status)
	if status == "" {
		status = curve.StatusNormal
	}
	return curve.Point{Frame: obj.Frame, X: obj.X, Y: obj.Y, Status: status}, nil
}

func parseJSONTuple(tuple []json.RawMessage) (curve.Point, error) {
	if len(tuple) < 3 {
		return curve.Point{}, &curve.InvalidInputError{Context: "json", Detail: "tuple point needs at least [frame, x, y]"}
	}
	var frame int
	var x, y float64
	if err := json.Unmarshal(tuple[0], &frame); err != nil {
		return curve.Point{}, &curve.InvalidInputError{Context: "json", Detail: "tuple frame not an integer"}
	}
	if err := json.Unmarshal(tuple[1], &x); err != nil {
		return curve.Point{}, &curve.InvalidInputError{Context: "json", Detail: "tuple x not a number"}
	}
	if err := json.Unmarshal(tuple[2], &y); err != nil {
		return curve.Point{}, &curve.InvalidInputError{Context: "json", Detail: "tuple y not a number"}
	}
	status := curve.StatusNormal
	if len(tuple) >= 4 {
		var s string
		if err := json.Unmarshal(tuple[3], &s); err == nil {
			if parsed := parseStatus(s); parsed != "" {
				status = parsed
			}
		}
	}
	return curve.Point{Frame: frame, X: x, Y: y, Status: status}, nil
}

// WriteJSON writes c in the object save shape: a metadata block (with
// point_count filled in) plus a points array of {frame, x, y, status}
// objects.
func WriteJSON(w io.Writer, c curve.Curve, md JSONMetadata) error {
	md.PointCount = len(c)
	points := make([]jsonPointObject, len(c))
	for i, p := range c {
		points[i] = jsonPointObject{Frame: p.Frame, X: p.X, Y: p.Y, Status: string(p.Status)}
	}
	doc := struct {
		Metadata JSONMetadata      `json:"metadata"`
		Points   []jsonPointObject `json:"points"`
	}{Metadata: md, Points: points}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("trackio: writing json file: %w", err)
	}
	return nil
}
