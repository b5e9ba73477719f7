package service

import (
	"sync"
	"time"

	"github.com/airsig/airsig-go/internal/core/domain"
)

// ============================================================================
// Recorder - Gesture Capture Buffer
// ============================================================================

// Recording capture policy.
const (
	// MinPointSpacing is the minimum interval between accepted points.
	// Denser input is dropped so device sampling rate does not skew the
	// signature.
	MinPointSpacing = 30 * time.Millisecond

	// InactivityTimeout auto-stops a recording when no point arrives for
	// this long.
	InactivityTimeout = 1500 * time.Millisecond

	// MaxRecordingDuration is the hard cap on a single recording.
	MaxRecordingDuration = 10 * time.Second
)

// RecorderState is the lifecycle state of a Recorder.
type RecorderState string

const (
	RecorderIdle      RecorderState = "idle"
	RecorderRecording RecorderState = "recording"
	RecorderDone      RecorderState = "done"
)

// Recorder accumulates a gesture path from a device input stream and
// enforces the capture policy: point spacing, inactivity auto-stop, and
// a hard duration cap.
//
// Recorder is safe for concurrent use; input events and the auto-stop
// timer may arrive on different goroutines.
type Recorder struct {
	mu     sync.Mutex
	state  RecorderState
	points domain.PathSample

	startedAt  int64
	lastAccept int64

	// onStop receives the captured path when the recording ends, on the
	// goroutine that triggered the stop.
	onStop func(domain.PathSample)

	now func() time.Time
}

// NewRecorder creates an idle Recorder. onStop is invoked exactly once
// per recording, with the captured path; a cancelled recording never
// invokes it.
func NewRecorder(onStop func(domain.PathSample)) *Recorder {
	return &Recorder{
		state:  RecorderIdle,
		onStop: onStop,
		now:    time.Now,
	}
}

// NewRecorderWithClock creates a Recorder driven by an explicit clock.
// Replay tools use this to run the capture policy over pre-timestamped
// points instead of wall time.
func NewRecorderWithClock(onStop func(domain.PathSample), now func() time.Time) *Recorder {
	r := NewRecorder(onStop)
	r.now = now
	return r
}

// State returns the current lifecycle state.
func (r *Recorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start begins a new recording. Starting while already recording is an
// invalid transition.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == RecorderRecording {
		return domain.ErrInvalidTransition.WithDetails("recorder is already recording")
	}

	now := r.now().UnixMilli()
	r.state = RecorderRecording
	r.points = nil
	r.startedAt = now
	r.lastAccept = 0
	return nil
}

// AddPoint offers an input point to the recording. Points arriving
// within MinPointSpacing of the previous accepted point are dropped.
// A point past the hard cap or the inactivity window stops the recording
// instead of extending it.
//
// The returned bool reports whether the point was accepted.
func (r *Recorder) AddPoint(x, y float64) bool {
	r.mu.Lock()

	if r.state != RecorderRecording {
		r.mu.Unlock()
		return false
	}

	now := r.now().UnixMilli()

	if now-r.startedAt >= MaxRecordingDuration.Milliseconds() {
		r.stopLocked()
		return false
	}
	if r.lastAccept != 0 && now-r.lastAccept >= InactivityTimeout.Milliseconds() {
		r.stopLocked()
		return false
	}
	if r.lastAccept != 0 && now-r.lastAccept < MinPointSpacing.Milliseconds() {
		r.mu.Unlock()
		return false
	}

	r.points = append(r.points, domain.Point{X: x, Y: y, Timestamp: now})
	r.lastAccept = now
	r.mu.Unlock()
	return true
}

// Tick lets a timer goroutine drive the auto-stop policy between input
// events. It stops the recording when the inactivity window or the hard
// cap has lapsed, and reports whether the recording is still live.
func (r *Recorder) Tick() bool {
	r.mu.Lock()

	if r.state != RecorderRecording {
		r.mu.Unlock()
		return false
	}

	now := r.now().UnixMilli()
	lapsed := now-r.startedAt >= MaxRecordingDuration.Milliseconds()
	if !lapsed && r.lastAccept != 0 {
		lapsed = now-r.lastAccept >= InactivityTimeout.Milliseconds()
	}
	if lapsed {
		r.stopLocked()
		return false
	}

	r.mu.Unlock()
	return true
}

// Stop ends the recording and delivers the captured path to the onStop
// callback. Stopping an idle recorder is a no-op.
func (r *Recorder) Stop() {
	r.mu.Lock()
	if r.state != RecorderRecording {
		r.mu.Unlock()
		return
	}
	r.stopLocked()
}

// Cancel discards the recording without delivering the path.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = RecorderIdle
	r.points = nil
	r.startedAt = 0
	r.lastAccept = 0
}

// Reset returns a done recorder to idle so it can record again.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == RecorderRecording {
		return
	}
	r.state = RecorderIdle
	r.points = nil
	r.startedAt = 0
	r.lastAccept = 0
}

// Points returns a copy of the points captured so far.
func (r *Recorder) Points() domain.PathSample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.points.Clone()
}

// stopLocked finalizes the recording. The caller must hold r.mu; the
// lock is released before the callback runs so the callback may use the
// recorder.
func (r *Recorder) stopLocked() {
	captured := r.points.Clone()
	r.state = RecorderDone
	r.points = nil
	fn := r.onStop
	r.mu.Unlock()

	if fn != nil {
		fn(captured)
	}
}
