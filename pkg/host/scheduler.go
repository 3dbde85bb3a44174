package host

import (
	"sync"
	"time"
)

// DefaultFrameBudget is the time slice after which ShouldYield reports true.
const DefaultFrameBudget = 5 * time.Millisecond

// TimeScheduler implements Scheduler on top of the time package.
type TimeScheduler struct {
	start  time.Time
	budget time.Duration

	mu         sync.Mutex
	next       CallbackID
	timers     map[CallbackID]*time.Timer
	sliceStart time.Time
}

// NewTimeScheduler creates a scheduler with the given frame budget. A
// non-positive budget uses DefaultFrameBudget.
func NewTimeScheduler(budget time.Duration) *TimeScheduler {
	if budget <= 0 {
		budget = DefaultFrameBudget
	}
	now := time.Now()
	return &TimeScheduler{
		start:      now,
		budget:     budget,
		timers:     make(map[CallbackID]*time.Timer),
		sliceStart: now,
	}
}

// Now implements Scheduler.
func (s *TimeScheduler) Now() time.Duration {
	return time.Since(s.start)
}

// ScheduleCallback implements Scheduler.
func (s *TimeScheduler) ScheduleCallback(delay time.Duration, fn func()) CallbackID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := s.next
	s.timers[id] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		_, live := s.timers[id]
		delete(s.timers, id)
		s.mu.Unlock()
		if live {
			fn()
		}
	})
	return id
}

// CancelCallback implements Scheduler.
func (s *TimeScheduler) CancelCallback(id CallbackID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// ShouldYield implements Scheduler. It reports true once per elapsed
// budget: a true result starts the next slice.
func (s *TimeScheduler) ShouldYield() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Since(s.sliceStart) < s.budget {
		return false
	}
	s.sliceStart = time.Now()
	return true
}

// ResetSlice starts a new time slice.
func (s *TimeScheduler) ResetSlice() {
	s.mu.Lock()
	s.sliceStart = time.Now()
	s.mu.Unlock()
}

// Pending returns the number of callbacks that have not run yet.
func (s *TimeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
