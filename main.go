package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"curveeditor.dev/core/internal/config"
	"curveeditor.dev/core/internal/curve"
	"curveeditor.dev/core/internal/fsutil"
	"curveeditor.dev/core/internal/monitoring"
	"curveeditor.dev/core/internal/trackio"
	"curveeditor.dev/core/internal/version"
)

var (
	inPath    = flag.String("in", "", "tracking curve file to load (required)")
	outPath   = flag.String("out", "", "write the (possibly transformed) curve here; defaults to stdout")
	outFormat = flag.String("out-format", "json", "output format: json, csv, singlecurve")
	normalize = flag.Bool("normalize", false, "convert the loaded curve into the canonical top-left pixel space before writing")
	donorPath = flag.String("donor", "", "a second tracking file to pull gap-fill data from, around -fill-frame")
	fillFrame = flag.Int("fill-frame", -1, "a frame known to sit inside a gap in -in; triggers insert-track gap filling against -donor")
	curveName = flag.String("curve", "", "curve name to read from a multi-point -in file (defaults to the first one)")
	imagesDir = flag.String("images", "", "scan this directory for a background image sequence and report what was found")
	showVer   = flag.Bool("version", false, "print version information and exit")
)

// Main is a small command-line driver over the core transform and
// gap-filling pipeline: load a tracking file, optionally fill a gap from
// a donor trajectory or normalize its coordinates, then write the result
// back out in one of the accepted formats. UI frontends wire the same
// packages directly; this exists to exercise the library end to end.
func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("curveeditor %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *imagesDir != "" {
		seq, err := curve.ScanImageSequence(fsutil.OSFileSystem{}, *imagesDir)
		if err != nil {
			log.Fatalf("failed to scan %s: %v", *imagesDir, err)
		}
		monitoring.Logf("main: found %d images in %s", seq.Total, seq.Directory)
	}

	if *inPath == "" {
		log.Fatal("-in is required")
	}

	rc := config.LoadRuntimeConfig()
	if err := rc.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	vcfg := curve.ValidationConfigFromRuntime(rc)

	data, meta, err := loadCurve(*inPath, *curveName, vcfg)
	if err != nil {
		log.Fatalf("failed to load %s: %v", *inPath, err)
	}
	monitoring.Logf("main: loaded %d points from %s (system=%s)", len(data.Points), *inPath, meta.System)

	if *fillFrame >= 0 {
		data.Points, err = fillGap(data.Points, *donorPath, *fillFrame, vcfg)
		if err != nil {
			log.Fatalf("gap fill failed: %v", err)
		}
	}

	if *normalize {
		data = data.ToNormalized()
		monitoring.Logf("main: normalized curve into canonical pixel space")
	}

	if err := writeCurve(data.Points, *outPath, *outFormat); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}
}

// loadCurve reads a tracking file, auto-detecting its format and
// coordinate system, and returns it wrapped with metadata.
func loadCurve(path, name string, vcfg curve.ValidationConfig) (curve.CurveDataWithMetadata, curve.CoordinateMetadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return curve.CurveDataWithMetadata{}, curve.CoordinateMetadata{}, err
	}
	content := string(raw)

	meta := (curve.CoordinateDetector{}).DetectFromFile(path, &content)

	format := trackio.DetectFormat(path, content)
	var c curve.Curve
	switch format {
	case trackio.FormatJSON:
		c, _, err = trackio.ReadJSON(strings.NewReader(content))
	case trackio.FormatCSV:
		c, err = trackio.ReadCSV(strings.NewReader(content))
	case trackio.FormatSingleCurve:
		c, err = trackio.ReadSingleCurve(strings.NewReader(content))
	case trackio.FormatMultiPoint:
		var named []trackio.NamedCurve
		named, err = trackio.ReadMultiPoint(strings.NewReader(content))
		if err == nil {
			c, err = selectNamedCurve(named, name)
		}
	default:
		return curve.CurveDataWithMetadata{}, meta, &curve.InvalidInputError{Context: "main", Detail: fmt.Sprintf("could not detect a format for %s", path)}
	}
	if err != nil {
		return curve.CurveDataWithMetadata{}, meta, err
	}

	for i, p := range c {
		x, y, perr := vcfg.ValidatePoint(p.X, p.Y)
		if perr != nil {
			return curve.CurveDataWithMetadata{}, meta, perr
		}
		c[i].X, c[i].Y = x, y
	}

	return curve.NewCurveDataWithMetadata(c, meta), meta, nil
}

func selectNamedCurve(named []trackio.NamedCurve, name string) (curve.Curve, error) {
	if len(named) == 0 {
		return nil, &curve.InvalidInputError{Context: "main", Detail: "multi-point file has no trajectories"}
	}
	if name == "" {
		return named[0].Data, nil
	}
	for _, nc := range named {
		if nc.Name == name {
			return nc.Data, nil
		}
	}
	return nil, &curve.InvalidInputError{Context: "main", Detail: fmt.Sprintf("no curve named %q in file", name)}
}

// fillGap loads a donor trajectory, locates the gap in target around
// focusFrame, and fills it, preferring an interpolated-offset deformation
// over a constant offset when enough overlap exists on both sides.
func fillGap(target curve.Curve, donorPath string, focusFrame int, vcfg curve.ValidationConfig) (curve.Curve, error) {
	if donorPath == "" {
		return nil, &curve.InvalidInputError{Context: "main", Detail: "-donor is required with -fill-frame"}
	}
	donorData, _, err := loadCurve(donorPath, "", vcfg)
	if err != nil {
		return nil, err
	}

	gap, ok := curve.FindGapAroundFrame(target, focusFrame)
	if !ok {
		return nil, &curve.InvalidInputError{Context: "main", Detail: fmt.Sprintf("no fillable gap around frame %d", focusFrame)}
	}

	before, after := curve.FindOverlapFrames(target, donorData.Points, gap)
	if len(before) >= 1 && len(after) >= 1 {
		filled, derr := curve.DeformCurveWithInterpolatedOffset(target, donorData.Points, gap, before, after)
		if derr == nil {
			monitoring.Logf("main: filled gap [%d,%d] with interpolated offset from %s", gap.Start, gap.End, donorPath)
			return filled, nil
		}
		monitoring.Logf("main: interpolated fill unavailable (%v), falling back to constant offset", derr)
	}

	overlap := append(append([]int{}, before...), after...)
	ox, oy := curve.CalculateOffset(target, donorData.Points, overlap)
	monitoring.Logf("main: filled gap [%d,%d] with constant offset (%.3f, %.3f) from %s", gap.Start, gap.End, ox, oy, donorPath)
	return curve.FillGapWithSource(target, donorData.Points, gap, ox, oy), nil
}

func writeCurve(c curve.Curve, path, format string) error {
	w := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch strings.ToLower(format) {
	case "json":
		return trackio.WriteJSON(w, c, trackio.JSONMetadata{Label: filepath.Base(path)})
	case "csv":
		return trackio.WriteCSV(w, c)
	case "singlecurve":
		return trackio.WriteSingleCurve(w, c)
	default:
		return &curve.InvalidInputError{Context: "main", Detail: fmt.Sprintf("unknown output format %q", format)}
	}
}
