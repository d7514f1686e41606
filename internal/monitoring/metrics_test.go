package monitoring

import "testing"

func TestCounters_SnapshotReflectsIncrements(t *testing.T) {
	var c Counters
	c.Mutations.Add(3)
	c.Undos.Add(1)
	c.Redos.Add(2)
	c.Batches.Add(1)
	c.FramesSeen.Add(10)

	snap := c.Snapshot()
	if snap.Mutations != 3 {
		t.Errorf("Mutations = %d, want 3", snap.Mutations)
	}
	if snap.Undos != 1 {
		t.Errorf("Undos = %d, want 1", snap.Undos)
	}
	if snap.Redos != 2 {
		t.Errorf("Redos = %d, want 2", snap.Redos)
	}
	if snap.Batches != 1 {
		t.Errorf("Batches = %d, want 1", snap.Batches)
	}
	if snap.FramesSeen != 10 {
		t.Errorf("FramesSeen = %d, want 10", snap.FramesSeen)
	}
}

func TestCounters_Reset(t *testing.T) {
	var c Counters
	c.Mutations.Add(5)
	c.Reset()
	if snap := c.Snapshot(); snap.Mutations != 0 {
		t.Errorf("Mutations after Reset = %d, want 0", snap.Mutations)
	}
}
