package taskscheduler

import "github.com/uber-go/tally"

// Metrics holds the counters and gauges taskscheduler emits, registered
// against a SubScope the way offerpool.Metrics does. reservationCacheSize
// records the reservation count after each attempt that falls through to the
// Preemptor; the RESERVATIONS_CACHE_SIZE_STAT gauge is registered separately,
// through the StatsProvider passed to New.
type Metrics struct {
	scheduleAttempts tally.Counter
	scheduleSuccess  tally.Counter
	scheduleTryLater tally.Counter
	launchFailures   tally.Counter
	reservationCacheSize tally.Gauge
}

// NewMetrics builds a Metrics from a parent scope.
func NewMetrics(scope tally.Scope) *Metrics {
	s := scope.SubScope("task_scheduler")
	return &Metrics{
		scheduleAttempts:     s.Counter("schedule_attempts"),
		scheduleSuccess:      s.Counter("schedule_success"),
		scheduleTryLater:     s.Counter("schedule_try_later"),
		launchFailures:       s.Counter("launch_failures"),
		reservationCacheSize: s.Gauge("reservation_cache_size"),
	}
}
