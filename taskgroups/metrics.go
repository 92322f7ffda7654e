package taskgroups

import "github.com/uber-go/tally"

// Metrics holds the counters and gauges taskgroups emits, registered
// against a SubScope the way goalstate.Metrics does.
type Metrics struct {
	groupsActive   tally.Gauge
	attemptsFired  tally.Counter
	tasksPlaced    tally.Counter
	tasksDeferred  tally.Counter
	rateLimitWait  tally.Timer
}

// NewMetrics builds a Metrics from a parent scope.
func NewMetrics(scope tally.Scope) *Metrics {
	s := scope.SubScope("task_groups")
	return &Metrics{
		groupsActive:  s.Gauge("groups_active"),
		attemptsFired: s.Counter("attempts_fired"),
		tasksPlaced:   s.Counter("tasks_placed"),
		tasksDeferred: s.Counter("tasks_deferred"),
		rateLimitWait: s.Timer("rate_limit_wait"),
	}
}
