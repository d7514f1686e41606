package curve

import "sync/atomic"

// LoadRequest is the input to a file-loader job: a tracking file, an
// image-sequence directory, or both.
type LoadRequest struct {
	TrackingFile string
	ImageDir     string
}

// LoadEventKind tags a LoadEvent's payload.
type LoadEventKind int

const (
	LoadEventProgress LoadEventKind = iota
	LoadEventTrackingData
	LoadEventImages
	LoadEventError
)

// LoadEvent is one message pushed by a Loader while it services a job.
// Exactly one of its payload fields is meaningful, selected by Kind.
type LoadEvent struct {
	Kind LoadEventKind

	// LoadEventProgress
	Percent int
	Message string

	// LoadEventTrackingData
	TrackingData CurveDataWithMetadata

	// LoadEventImages
	ImageDir   string
	ImageFiles []string

	// LoadEventError
	Err error
}

// Loader is the contract the core expects from a background file-loading
// worker (§5: "External file loader"). The core never implements this
// itself — it is a producer the UI domain wires up, reading tracking
// files and image-sequence directories off the core's single-threaded
// path. Events is pushed to at loader discretion: zero or more Progress
// events, then exactly one of TrackingData, Images, or Error, then the
// channel closes.
type Loader interface {
	// Start begins servicing req, first cancelling and joining any job
	// already in flight on this Loader (only one job runs at a time per
	// instance). The returned channel is closed when the job ends, by
	// cancellation or completion.
	Start(req LoadRequest) <-chan LoadEvent

	// Cancel requests cooperative cancellation of the in-flight job. The
	// loader checks its stop flag between units of work — and, for a
	// multi-point trajectory, between frames — so Cancel should take
	// effect within about 100ms of the next check-point. A cancelled job
	// delivers no TrackingData/Images event, only channel closure.
	Cancel()
}

// StopFlag is a cooperative cancellation token a Loader implementation
// can share with its worker goroutine: the worker polls Stopped()
// between units of work instead of being interrupted asynchronously.
type StopFlag struct {
	stopped atomic.Bool
}

// Stop requests cancellation. Safe to call from any goroutine, any
// number of times.
func (f *StopFlag) Stop() {
	f.stopped.Store(true)
}

// Stopped reports whether Stop has been called.
func (f *StopFlag) Stopped() bool {
	return f.stopped.Load()
}

// Reset clears the flag so the same StopFlag can back a new job.
func (f *StopFlag) Reset() {
	f.stopped.Store(false)
}
