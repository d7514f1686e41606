package monitoring

import "sync/atomic"

// Counters aggregates cheap, lock-free counts of mutation and history
// events across the core. It carries no labels or histograms; it exists
// so a host application can poll Default.Snapshot() for a log line or a
// status-bar tooltip without the core taking a dependency on a metrics
// backend.
type Counters struct {
	Mutations  atomic.Int64
	Undos      atomic.Int64
	Redos      atomic.Int64
	Batches    atomic.Int64
	FramesSeen atomic.Int64
}

// Default is the process-wide counter set used by CurveStore and
// MultiCurveStore. Tests that need isolation should construct their own
// Counters and call its methods directly instead of asserting on Default.
var Default Counters

// Snapshot is a point-in-time copy of Counters, safe to log or compare.
type Snapshot struct {
	Mutations  int64
	Undos      int64
	Redos      int64
	Batches    int64
	FramesSeen int64
}

// Snapshot returns the current counter values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Mutations:  c.Mutations.Load(),
		Undos:      c.Undos.Load(),
		Redos:      c.Redos.Load(),
		Batches:    c.Batches.Load(),
		FramesSeen: c.FramesSeen.Load(),
	}
}

// Reset zeroes all counters.
func (c *Counters) Reset() {
	c.Mutations.Store(0)
	c.Undos.Store(0)
	c.Redos.Store(0)
	c.Batches.Store(0)
	c.FramesSeen.Store(0)
}
