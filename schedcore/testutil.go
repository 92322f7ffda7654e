package schedcore

import (
	"sort"
	"sync"
	"time"
)

// NoopStats is a StatsProvider that drops every registration, for tests
// that construct a Scheduler but don't assert on RESERVATIONS_CACHE_SIZE_STAT.
type NoopStats struct{}

// MakeGauge implements StatsProvider by discarding the supplier.
func (NoopStats) MakeGauge(name string, supplier func() float64) {}

// ManualClock is a Clock test double whose Now() only changes when Advance
// is called, grounded on armadaproject-armada's util.DummyClock.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a ManualClock starting at now.
func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to an absolute time.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type manualItem struct {
	deadline  time.Time
	fn        func()
	cancelled bool
}

func (h *manualItem) Cancel() bool {
	if h.cancelled {
		return false
	}
	h.cancelled = true
	return true
}

// ManualScheduler is a Scheduler test double that never fires on its own:
// pending work is inspected and run explicitly via FireReady, the same role
// Aurora's manually-driven ScheduledExecutorService double plays in
// TaskSchedulerTest.java. It lets tests assert "exactly this callback is
// scheduled at exactly this deadline" instead of sleeping.
type ManualScheduler struct {
	mu    sync.Mutex
	items []*manualItem
}

// NewManualScheduler returns an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Start is a no-op; ManualScheduler has no background goroutine.
func (s *ManualScheduler) Start() {}

// Stop is a no-op; ManualScheduler has no background goroutine.
func (s *ManualScheduler) Stop() {}

// ScheduleAt records fn as pending at deadline.
func (s *ManualScheduler) ScheduleAt(deadline time.Time, fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &manualItem{deadline: deadline, fn: fn}
	s.items = append(s.items, item)
	return item
}

// Pending returns the number of scheduled, uncancelled, unfired items.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, it := range s.items {
		if !it.cancelled {
			n++
		}
	}
	return n
}

// FireReady runs, in deadline order, every uncancelled item whose deadline
// is not after now, removing each as it fires. It returns the number of
// callbacks actually run.
func (s *ManualScheduler) FireReady(now time.Time) int {
	s.mu.Lock()
	var ready []*manualItem
	var rest []*manualItem
	for _, it := range s.items {
		if !it.cancelled && !it.deadline.After(now) {
			ready = append(ready, it)
		} else if !it.cancelled {
			rest = append(rest, it)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool {
		return ready[i].deadline.Before(ready[j].deadline)
	})
	s.items = rest
	s.mu.Unlock()

	for _, it := range ready {
		it.fn()
	}
	return len(ready)
}

// FireNext runs the single earliest uncancelled item regardless of its
// deadline, as if the clock had been advanced to exactly that deadline.
// Returns false if there was nothing pending.
func (s *ManualScheduler) FireNext() bool {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return false
	}

	best := 0
	for i, it := range s.items {
		if it.cancelled {
			continue
		}
		if s.items[best].cancelled || it.deadline.Before(s.items[best].deadline) {
			best = i
		}
	}
	if s.items[best].cancelled {
		s.mu.Unlock()
		return false
	}

	item := s.items[best]
	s.items = append(s.items[:best], s.items[best+1:]...)
	s.mu.Unlock()

	item.fn()
	return true
}
