// Package testutil provides deterministic stand-ins for time and randomness.
package testutil

import (
	"sort"
	"time"

	"mastersol/internal/domain"
)

type pendingTimer struct {
	id  domain.TimerHandle
	at  time.Duration
	seq uint64
	fn  func()
}

// ManualScheduler is a domain.Scheduler driven by a virtual clock.
// Nothing runs until Advance is called.
type ManualScheduler struct {
	now     time.Duration
	seq     uint64
	nextID  domain.TimerHandle
	pending []*pendingTimer
}

// NewManualScheduler creates a scheduler whose clock starts at zero
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule queues fn to run once Advance reaches delay from now
func (s *ManualScheduler) Schedule(delay time.Duration, fn func()) domain.TimerHandle {
	s.nextID++
	s.seq++
	s.pending = append(s.pending, &pendingTimer{id: s.nextID, at: s.now + delay, seq: s.seq, fn: fn})
	return s.nextID
}

// Cancel drops a pending timer; unknown handles are ignored
func (s *ManualScheduler) Cancel(h domain.TimerHandle) {
	for i, p := range s.pending {
		if p.id == h {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Advance moves the clock forward by d, running every callback that falls due
// in timestamp order (ties in scheduling order).
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.Cancel(next.id)
		s.now = next.at
		next.fn()
	}
	s.now = target
}

func (s *ManualScheduler) nextDue(target time.Duration) *pendingTimer {
	if len(s.pending) == 0 {
		return nil
	}
	sorted := make([]*pendingTimer, len(s.pending))
	copy(sorted, s.pending)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].at != sorted[j].at {
			return sorted[i].at < sorted[j].at
		}
		return sorted[i].seq < sorted[j].seq
	})
	if sorted[0].at > target {
		return nil
	}
	return sorted[0]
}

// Now returns the virtual time elapsed since creation
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of callbacks waiting to run
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// NextDelay returns how long until the earliest pending callback, or false if none
func (s *ManualScheduler) NextDelay() (time.Duration, bool) {
	next := s.nextDue(1<<62 - 1)
	if next == nil {
		return 0, false
	}
	return next.at - s.now, true
}

// Do runs fn inline, standing in for an event loop command
func (s *ManualScheduler) Do(fn func()) error {
	fn()
	return nil
}

// Close drops every pending callback
func (s *ManualScheduler) Close() {
	s.pending = nil
}
