package domain

import (
	"sync/atomic"
	"time"
)

// RunState holds the instant of the last successful collection run.
// It answers "is this monitor itself alive" independently of what the
// monitored backups look like. The single slot is written once per
// successful run and may be read concurrently by a liveness probe;
// readers always see either the old or the new value, never a torn one.
type RunState struct {
	lastSuccess atomic.Int64 // unix nanoseconds, 0 = never ran
}

// MarkSuccess records a completed run at the given instant.
func (s *RunState) MarkSuccess(t time.Time) {
	s.lastSuccess.Store(t.UnixNano())
}

// LastSuccess returns the last successful run instant. ok is false
// when no run has completed yet.
func (s *RunState) LastSuccess() (t time.Time, ok bool) {
	ns := s.lastSuccess.Load()
	if ns == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, ns), true
}

// MinutesSince returns the minutes elapsed between the last successful
// run and now. ok is false when no run has completed yet.
func (s *RunState) MinutesSince(now time.Time) (minutes float64, ok bool) {
	last, ok := s.LastSuccess()
	if !ok {
		return 0, false
	}
	return now.Sub(last).Minutes(), true
}

// Alive reports whether the monitor completed a run within the given
// liveness threshold.
func (s *RunState) Alive(now time.Time, threshold time.Duration) bool {
	last, ok := s.LastSuccess()
	if !ok {
		return false
	}
	return now.Sub(last) < threshold
}
