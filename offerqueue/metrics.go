package offerqueue

import (
	"github.com/uber-go/tally"
)

// Metrics holds the counters and gauges offerqueue emits, registered
// against a SubScope the way offerpool.Metrics and goalstate.Metrics do.
type Metrics struct {
	offersHeld    tally.Gauge
	offersAdded   tally.Counter
	offersDeclined tally.Counter
	offersLaunched tally.Counter
	slaveCollisions tally.Counter
}

// NewMetrics builds a Metrics from a parent scope.
func NewMetrics(scope tally.Scope) *Metrics {
	s := scope.SubScope("offer_queue")
	return &Metrics{
		offersHeld:      s.Gauge("offers_held"),
		offersAdded:     s.Counter("offers_added"),
		offersDeclined:  s.Counter("offers_declined"),
		offersLaunched:  s.Counter("offers_launched"),
		slaveCollisions: s.Counter("slave_collisions"),
	}
}
