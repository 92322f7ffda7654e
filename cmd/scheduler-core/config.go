package main

import (
	"time"

	"github.com/jasonlai/aurora/common/logging"
	"github.com/jasonlai/aurora/common/metrics"
	"github.com/jasonlai/aurora/schedcore"
	"github.com/jasonlai/aurora/taskgroups"

	"golang.org/x/time/rate"
)

// Config holds everything scheduler-core needs to boot, merged from one or
// more YAML files via common/config.Parse.
type Config struct {
	Metrics metrics.Config       `yaml:"metrics"`
	Sentry  logging.SentryConfig `yaml:"sentry"`

	// SchedulerWorkers is the size of the dispatch pool backing the shared
	// schedcore.Scheduler.
	SchedulerWorkers int `yaml:"scheduler_workers" validate:"min=1"`

	// OfferReturnDelay is how long a held offer sits before it is declined,
	// absent a match. Passed to offerIngest.run, which feeds synthetic
	// offers through offerqueue.Queue.AddOffer at this return delay.
	OfferReturnDelay time.Duration `yaml:"offer_return_delay"`

	// SyntheticHosts is the round-robin host pool offerIngest synthesizes
	// offers for, standing in for a real Mesos offer stream.
	SyntheticHosts []schedcore.HostID `yaml:"synthetic_hosts" validate:"nonzero"`

	// ReservationDuration is how long a preemptor-granted reservation holds
	// a slave for a task before it lapses.
	ReservationDuration time.Duration `yaml:"reservation_duration"`

	// FirstScheduleDelayMs and RateLimit/RateBurst configure TaskGroups, per
	// spec §4.2's defaults (1ms, 100/sec).
	FirstScheduleDelayMs int        `yaml:"first_schedule_delay_ms"`
	RateLimit            rate.Limit `yaml:"rate_limit"`
	RateBurst            int        `yaml:"rate_burst"`

	// BackoffInitial, BackoffMax and BackoffMultiplier configure the
	// truncated-exponential retry penalty shared by every group.
	BackoffInitial    time.Duration `yaml:"backoff_initial"`
	BackoffMax        time.Duration `yaml:"backoff_max"`
	BackoffMultiplier float64       `yaml:"backoff_multiplier"`
}

func (c *Config) taskGroupsConfig() taskgroups.Config {
	return taskgroups.Config{
		FirstScheduleDelay: time.Duration(c.FirstScheduleDelayMs) * time.Millisecond,
		RateLimit:          c.RateLimit,
		RateBurst:          c.RateBurst,
	}
}
