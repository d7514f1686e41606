package curve

import (
	"github.com/google/uuid"

	"curveeditor.dev/core/internal/monitoring"
)

// MultiCurveStoreListener receives collapsed notifications from a
// MultiCurveStore. CurvesChanged and SelectionStateChanged fire once per
// batch (or once per unbatched mutation); FrameChanged fires
// synchronously and in FIFO order for every SetFrame call, matching the
// no-queued-buildup requirement for frame playback.
type MultiCurveStoreListener interface {
	CurvesChanged()
	SelectionStateChanged()
	FrameChanged(frame int)
}

// NopMultiCurveStoreListener implements MultiCurveStoreListener with
// no-ops.
type NopMultiCurveStoreListener struct{}

func (NopMultiCurveStoreListener) CurvesChanged()          {}
func (NopMultiCurveStoreListener) SelectionStateChanged()  {}
func (NopMultiCurveStoreListener) FrameChanged(int)        {}

// ImageSequence describes the image-sequence context a MultiCurveStore
// tracks alongside curve data (directory, file list, total count).
type ImageSequence struct {
	Directory string
	Files     []string
	Total     int
}

// MultiCurveStore (aka ApplicationState) owns every named curve in a
// session: its data, per-curve metadata, the active/selected curve
// names, the current playback frame, and image-sequence context.
type MultiCurveStore struct {
	curves       map[string]Curve
	metadata     map[string]CurveMeta
	selected     map[string]bool
	active       string
	currentFrame int
	images       ImageSequence

	batchDepth  int
	curvesDirty bool
	selDirty    bool
	batchID     string

	listeners []MultiCurveStoreListener
}

// NewMultiCurveStore returns an empty MultiCurveStore.
func NewMultiCurveStore() *MultiCurveStore {
	return &MultiCurveStore{
		curves:   make(map[string]Curve),
		metadata: make(map[string]CurveMeta),
		selected: make(map[string]bool),
	}
}

// AddListener registers a listener for collapsed notifications.
func (s *MultiCurveStore) AddListener(l MultiCurveStoreListener) {
	s.listeners = append(s.listeners, l)
}

// SetCurveData sets (or replaces) the named curve's data, optionally
// attaching metadata. If the curve is new, it defaults to visible
// metadata with no tracking direction recorded.
func (s *MultiCurveStore) SetCurveData(name string, data Curve, metadata *CurveMeta) {
	s.curves[name] = data.Clone()
	if metadata != nil {
		s.metadata[name] = *metadata
	} else if _, ok := s.metadata[name]; !ok {
		s.metadata[name] = CurveMeta{Visible: true}
	}
	s.markCurvesDirty()
}

// GetCurveData returns a copy of the named curve's data.
func (s *MultiCurveStore) GetCurveData(name string) (Curve, bool) {
	c, ok := s.curves[name]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// DeleteCurve removes a named curve and its metadata, clearing it from
// selection and, if it was active, clearing active_curve too.
func (s *MultiCurveStore) DeleteCurve(name string) {
	delete(s.curves, name)
	delete(s.metadata, name)
	delete(s.selected, name)
	if s.active == name {
		s.active = ""
	}
	s.markCurvesDirty()
	s.markSelectionDirty()
}

// GetAllCurveNames returns every curve name currently tracked.
func (s *MultiCurveStore) GetAllCurveNames() []string {
	out := make([]string, 0, len(s.curves))
	for name := range s.curves {
		out = append(out, name)
	}
	return out
}

// SetActiveCurve sets the active curve name, or clears it when name is
// nil. It is a logic error to activate a name absent from the curve map;
// such a call is ignored (invariant: active_curve, if present, is always
// a key of the curve map).
func (s *MultiCurveStore) SetActiveCurve(name *string) {
	if name == nil {
		s.active = ""
		s.markSelectionDirty()
		return
	}
	if _, ok := s.curves[*name]; !ok {
		monitoring.Logf("curve: ignoring SetActiveCurve(%q): no such curve", *name)
		return
	}
	s.active = *name
	s.markSelectionDirty()
}

// ActiveCurve returns the active curve's name, or false if none is set.
func (s *MultiCurveStore) ActiveCurve() (string, bool) {
	if s.active == "" {
		return "", false
	}
	return s.active, true
}

// SetSelectedCurves replaces the selected-curves set, dropping any name
// absent from the curve map (selected-curves is always a subset of the
// keys).
func (s *MultiCurveStore) SetSelectedCurves(names map[string]bool) {
	next := make(map[string]bool, len(names))
	for name := range names {
		if _, ok := s.curves[name]; ok {
			next[name] = true
		}
	}
	s.selected = next
	s.markSelectionDirty()
}

// SelectedCurves returns a copy of the selected-curves set.
func (s *MultiCurveStore) SelectedCurves() map[string]bool {
	out := make(map[string]bool, len(s.selected))
	for k := range s.selected {
		out[k] = true
	}
	return out
}

// SetCurveVisibility toggles a curve's visibility metadata.
func (s *MultiCurveStore) SetCurveVisibility(name string, visible bool) {
	md := s.metadata[name]
	md.Visible = visible
	s.metadata[name] = md
	s.markCurvesDirty()
}

// SetCurveMetadata replaces a curve's full metadata.
func (s *MultiCurveStore) SetCurveMetadata(name string, md CurveMeta) {
	s.metadata[name] = md
	s.markCurvesDirty()
}

// GetCurveMetadata returns the named curve's metadata.
func (s *MultiCurveStore) GetCurveMetadata(name string) (CurveMeta, bool) {
	md, ok := s.metadata[name]
	return md, ok
}

// SetFrame updates the current playback frame, dispatching FrameChanged
// synchronously to every listener in registration order. Frame changes
// are never batched or coalesced: queued delivery here would reintroduce
// the playback lag batching is meant to avoid elsewhere.
func (s *MultiCurveStore) SetFrame(frame int) {
	monitoring.Default.FramesSeen.Add(1)
	s.currentFrame = frame
	for _, l := range s.listeners {
		l.FrameChanged(frame)
	}
}

// CurrentFrame returns the current playback frame.
func (s *MultiCurveStore) CurrentFrame() int {
	return s.currentFrame
}

// SetImageSequence replaces the image-sequence context.
func (s *MultiCurveStore) SetImageSequence(seq ImageSequence) {
	s.images = seq
}

// ImageSequence returns the current image-sequence context.
func (s *MultiCurveStore) ImageSequence() ImageSequence {
	return s.images
}

func (s *MultiCurveStore) markCurvesDirty() {
	if s.batchDepth > 0 {
		s.curvesDirty = true
		return
	}
	for _, l := range s.listeners {
		l.CurvesChanged()
	}
}

func (s *MultiCurveStore) markSelectionDirty() {
	if s.batchDepth > 0 {
		s.selDirty = true
		return
	}
	for _, l := range s.listeners {
		l.SelectionStateChanged()
	}
}

// BeginBatch opens a batch scope; CurvesChanged/SelectionStateChanged
// notifications are suppressed until the matching EndBatch. Returns a
// batch identifier (used only for diagnostic logging, not correctness).
func (s *MultiCurveStore) BeginBatch() string {
	if s.batchDepth == 0 {
		s.batchID = uuid.NewString()
		s.curvesDirty = false
		s.selDirty = false
	}
	s.batchDepth++
	return s.batchID
}

// EndBatch closes a batch scope opened by BeginBatch, emitting at most
// one CurvesChanged and one SelectionStateChanged once the outermost
// batch closes.
func (s *MultiCurveStore) EndBatch() {
	if s.batchDepth == 0 {
		return
	}
	s.batchDepth--
	if s.batchDepth > 0 {
		return
	}
	curvesDirty, selDirty := s.curvesDirty, s.selDirty
	s.curvesDirty, s.selDirty = false, false
	monitoring.Logf("curve: batch %s closed (curves_changed=%v selection_changed=%v)", s.batchID, curvesDirty, selDirty)
	if curvesDirty {
		for _, l := range s.listeners {
			l.CurvesChanged()
		}
	}
	if selDirty {
		for _, l := range s.listeners {
			l.SelectionStateChanged()
		}
	}
}
