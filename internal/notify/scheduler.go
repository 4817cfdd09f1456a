// Package notify schedules short-lived UI work: toast dismissal and
// simulated processing delays. Every timer belongs to a Scheduler and dies
// with it.
package notify

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer the scheduler needs
type Timer interface {
	Stop() bool
}

// Clock abstracts time so tests can advance it by hand
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock is the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scheduler runs delayed callbacks and cancels whatever is still pending on Close
type Scheduler struct {
	mu     sync.Mutex
	clock  Clock
	next   uint64
	timers map[uint64]Timer
	closed bool
}

// NewScheduler creates a Scheduler; a nil clock means the system clock
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock, timers: make(map[uint64]Timer)}
}

// Now reports the scheduler's current time
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// After runs fn once d has elapsed unless cancelled first.
// Scheduling on a closed scheduler does nothing.
func (s *Scheduler) After(d time.Duration, fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return func() {}
	}

	s.next++
	id := s.next
	s.timers[id] = s.clock.AfterFunc(d, func() {
		if s.take(id) {
			fn()
		}
	})

	return func() {
		s.mu.Lock()
		t, ok := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()
		if ok {
			t.Stop()
		}
	}
}

// take removes a timer that is about to fire; false means it was cancelled
func (s *Scheduler) take(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	return true
}

// Pending counts callbacks that have neither fired nor been cancelled
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close stops every pending timer
func (s *Scheduler) Close() {
	s.mu.Lock()
	timers := s.timers
	s.timers = make(map[uint64]Timer)
	s.closed = true
	s.mu.Unlock()

	for _, t := range timers {
		t.Stop()
	}
}
