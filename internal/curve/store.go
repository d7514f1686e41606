package curve

import "curveeditor.dev/core/internal/monitoring"

// undoStackCap bounds the undo/redo history retained per CurveStore.
const undoStackCap = 50

// CurveStoreListener receives semantic notifications from a CurveStore.
// Each method is a no-op hook; callers implement only the ones they care
// about by embedding NopCurveStoreListener.
type CurveStoreListener interface {
	DataChanged()
	PointAdded(index int, p Point)
	PointUpdated(index int, x, y float64)
	PointRemoved(index int)
	PointStatusChanged(index int, status PointStatus)
	SelectionChanged(selected map[int]bool)
	BatchOperationStarted()
	BatchOperationEnded()
}

// NopCurveStoreListener implements CurveStoreListener with no-ops; embed
// it and override only the notifications a consumer needs.
type NopCurveStoreListener struct{}

func (NopCurveStoreListener) DataChanged() {}
func (NopCurveStoreListener) PointAdded(int, Point) {}
func (NopCurveStoreListener) PointUpdated(int, float64, float64) {}
func (NopCurveStoreListener) PointRemoved(int) {}
func (NopCurveStoreListener) PointStatusChanged(int, PointStatus) {}
func (NopCurveStoreListener) SelectionChanged(map[int]bool) {}
func (NopCurveStoreListener) BatchOperationStarted() {}
func (NopCurveStoreListener) BatchOperationEnded() {}

// CurveStore owns a single Curve, its selection set, and an undo/redo
// history. Mutations snapshot the prior state onto the undo stack
// (unless a batch is open) and emit semantic notifications to registered
// listeners.
type CurveStore struct {
	data      Curve
	selection map[int]bool

	undoStack [][]Point
	redoStack [][]Point

	inBatch      bool
	batchPending bool

	listeners []CurveStoreListener
}

// NewCurveStore returns an empty CurveStore.
func NewCurveStore() *CurveStore {
	return &CurveStore{selection: make(map[int]bool)}
}

// AddListener registers a listener for semantic notifications.
func (s *CurveStore) AddListener(l CurveStoreListener) {
	s.listeners = append(s.listeners, l)
}

func (s *CurveStore) notifyDataChanged() {
	if s.inBatch {
		s.batchPending = true
		return
	}
	for _, l := range s.listeners {
		l.DataChanged()
	}
}

// GetData returns a copy of the current curve.
func (s *CurveStore) GetData() Curve {
	return s.data.Clone()
}

// GetPoint returns the point at index i.
func (s *CurveStore) GetPoint(i int) (Point, bool) {
	if i < 0 || i >= len(s.data) {
		return Point{}, false
	}
	return s.data[i], true
}

// PointCount returns the number of points in the curve.
func (s *CurveStore) PointCount() int {
	return len(s.data)
}

func (s *CurveStore) snapshot() {
	if s.inBatch {
		return
	}
	monitoring.Default.Mutations.Add(1)
	s.undoStack = append(s.undoStack, s.data.Clone())
	if len(s.undoStack) > undoStackCap {
		s.undoStack = s.undoStack[1:]
	}
	s.redoStack = nil
}

// structurallyEquivalent reports whether two curves have the same
// length and, index by index, the same frame and (x,y); status may
// differ.
func structurallyEquivalent(a, b Curve) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Frame != b[i].Frame || a[i].X != b[i].X || a[i].Y != b[i].Y {
			return false
		}
	}
	return true
}

// SetData replaces the store's curve. Selection is cleared unless
// preserveSelectionOnSync is true and newData is structurally equivalent
// to the current data (same length, same frame/x/y per index).
func (s *CurveStore) SetData(newData Curve, preserveSelectionOnSync bool) {
	s.snapshot()
	equiv := structurallyEquivalent(s.data, newData)
	s.data = newData.Clone()
	if !(preserveSelectionOnSync && equiv) {
		s.selection = make(map[int]bool)
	}
	s.notifyDataChanged()
}

// AddPoint appends p (defaulting an unset status to keyframe) and
// returns its index. A point whose frame is already present is rejected:
// the store is left unchanged and -1 is returned.
func (s *CurveStore) AddPoint(p Point) int {
	if _, exists := s.data.IndexAtFrame(p.Frame); exists {
		return -1
	}
	s.snapshot()
	if p.Status == "" {
		p.Status = StatusKeyframe
	}
	s.data = append(s.data, p)
	idx := len(s.data) - 1
	if s.inBatch {
		s.batchPending = true
	} else {
		for _, l := range s.listeners {
			l.PointAdded(idx, p)
		}
	}
	return idx
}

// UpdatePoint replaces the x,y of point i, preserving frame and status.
func (s *CurveStore) UpdatePoint(i int, x, y float64) bool {
	if i < 0 || i >= len(s.data) {
		return false
	}
	s.snapshot()
	s.data[i].X, s.data[i].Y = x, y
	if s.inBatch {
		s.batchPending = true
	} else {
		for _, l := range s.listeners {
			l.PointUpdated(i, x, y)
		}
	}
	return true
}

// RemovePoint deletes point i and shifts selection indices above it down
// by one.
func (s *CurveStore) RemovePoint(i int) bool {
	if i < 0 || i >= len(s.data) {
		return false
	}
	s.snapshot()
	s.data = append(s.data[:i], s.data[i+1:]...)

	newSel := make(map[int]bool, len(s.selection))
	for idx := range s.selection {
		switch {
		case idx == i:
			// dropped
		case idx > i:
			newSel[idx-1] = true
		default:
			newSel[idx] = true
		}
	}
	s.selection = newSel

	if s.inBatch {
		s.batchPending = true
	} else {
		for _, l := range s.listeners {
			l.PointRemoved(i)
		}
	}
	return true
}

// SetPointStatus replaces the status of point i only.
func (s *CurveStore) SetPointStatus(i int, status PointStatus) bool {
	if i < 0 || i >= len(s.data) {
		return false
	}
	s.snapshot()
	s.data[i].Status = status
	if s.inBatch {
		s.batchPending = true
	} else {
		for _, l := range s.listeners {
			l.PointStatusChanged(i, status)
		}
	}
	return true
}

func (s *CurveStore) notifySelectionChanged() {
	if s.inBatch {
		s.batchPending = true
		return
	}
	snap := make(map[int]bool, len(s.selection))
	for k := range s.selection {
		snap[k] = true
	}
	for _, l := range s.listeners {
		l.SelectionChanged(snap)
	}
}

// Select selects index i. When add is true, toggles i's membership
// instead of replacing the selection.
func (s *CurveStore) Select(i int, add bool) {
	if add {
		if s.selection[i] {
			delete(s.selection, i)
		} else {
			s.selection[i] = true
		}
	} else {
		s.selection = map[int]bool{i: true}
	}
	s.notifySelectionChanged()
}

// Deselect removes i from the selection.
func (s *CurveStore) Deselect(i int) {
	delete(s.selection, i)
	s.notifySelectionChanged()
}

// SelectRange selects all indices in [a, b] inclusive, regardless of
// ordering between a and b.
func (s *CurveStore) SelectRange(a, b int) {
	if a > b {
		a, b = b, a
	}
	s.selection = make(map[int]bool)
	for i := a; i <= b; i++ {
		s.selection[i] = true
	}
	s.notifySelectionChanged()
}

// ClearSelection empties the selection set.
func (s *CurveStore) ClearSelection() {
	s.selection = make(map[int]bool)
	s.notifySelectionChanged()
}

// SelectAll selects every point index.
func (s *CurveStore) SelectAll() {
	s.selection = make(map[int]bool, len(s.data))
	for i := range s.data {
		s.selection[i] = true
	}
	s.notifySelectionChanged()
}

// Selection returns a copy of the current selection set.
func (s *CurveStore) Selection() map[int]bool {
	out := make(map[int]bool, len(s.selection))
	for k := range s.selection {
		out[k] = true
	}
	return out
}

// BeginBatchOperation suppresses per-operation notifications until
// EndBatchOperation, snapshotting once up front.
func (s *CurveStore) BeginBatchOperation() {
	monitoring.Default.Batches.Add(1)
	s.snapshotForBatch()
	s.inBatch = true
	s.batchPending = false
	for _, l := range s.listeners {
		l.BatchOperationStarted()
	}
}

func (s *CurveStore) snapshotForBatch() {
	s.undoStack = append(s.undoStack, s.data.Clone())
	if len(s.undoStack) > undoStackCap {
		s.undoStack = s.undoStack[1:]
	}
	s.redoStack = nil
}

// EndBatchOperation restores normal notification mode and emits a single
// DataChanged if any mutation occurred during the batch.
func (s *CurveStore) EndBatchOperation() {
	s.inBatch = false
	pending := s.batchPending
	s.batchPending = false
	for _, l := range s.listeners {
		l.BatchOperationEnded()
	}
	if pending {
		for _, l := range s.listeners {
			l.DataChanged()
		}
	}
}

// Undo pops the prior state off the undo stack, pushing the current
// state onto redo.
func (s *CurveStore) Undo() bool {
	if len(s.undoStack) == 0 {
		return false
	}
	monitoring.Default.Undos.Add(1)
	s.redoStack = append(s.redoStack, s.data.Clone())
	if len(s.redoStack) > undoStackCap {
		s.redoStack = s.redoStack[1:]
	}
	prior := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.data = prior
	s.notifyDataChanged()
	return true
}

// Redo is the inverse of Undo.
func (s *CurveStore) Redo() bool {
	if len(s.redoStack) == 0 {
		return false
	}
	monitoring.Default.Redos.Add(1)
	s.undoStack = append(s.undoStack, s.data.Clone())
	if len(s.undoStack) > undoStackCap {
		s.undoStack = s.undoStack[1:]
	}
	next := s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.data = next
	s.notifyDataChanged()
	return true
}

// GetFrameRange returns the curve's frame bounds.
func (s *CurveStore) GetFrameRange() (min, max int, ok bool) {
	return s.data.FrameRange()
}

// GetPointsAtFrame returns all points at the given frame. AddPoint
// rejects duplicate frames, but SetData does not check for them, so more
// than one point can be returned.
func (s *CurveStore) GetPointsAtFrame(frame int) []Point {
	var out []Point
	for _, p := range s.data {
		if p.Frame == frame {
			out = append(out, p)
		}
	}
	return out
}

// Clear empties the curve and selection, snapshotting first.
func (s *CurveStore) Clear() {
	s.snapshot()
	s.data = nil
	s.selection = make(map[int]bool)
	s.notifyDataChanged()
}
