// Package taskgroups implements TaskGroups (spec §4.2): one scheduling
// group per group key, each driving its own exponential-backoff retry
// timer against a shared global rate limiter.
package taskgroups

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jasonlai/aurora/schedcore"
)

// Placer is the subset of TaskScheduler that TaskGroups' attempt loop
// drives. Defined here rather than imported from taskscheduler to avoid an
// import cycle (taskscheduler calls back into TaskGroups' EventSink);
// *taskscheduler.Scheduler satisfies this structurally.
type Placer interface {
	Schedule(ctx context.Context, taskID schedcore.TaskID) (schedcore.ScheduleStatus, error)
}

// Groups is the TaskGroups interface of spec §4.2.
type Groups interface {
	schedcore.EventSink

	// Initialize replays tasks observed in PENDING state at process
	// startup, scheduling each through RescheduleCalculator.StartupScheduleDelay
	// rather than firstScheduleDelay, per spec §12.
	Initialize(ctx context.Context, tasks []schedcore.Task)
	// NumGroups returns the number of live groups, for tests and
	// diagnostics.
	NumGroups() int
}

// groups is the concrete Groups implementation.
type groups struct {
	mu    sync.Mutex
	byKey map[schedcore.GroupKey]*group

	placer         Placer
	sched          schedcore.Scheduler
	clock          schedcore.Clock
	backoff        schedcore.BackoffStrategy
	rescheduleCalc schedcore.RescheduleCalculator
	limiter        *rate.Limiter

	firstScheduleDelay time.Duration
	mtx                *Metrics
}

// Config holds the constants TaskGroups needs beyond its collaborators.
type Config struct {
	// FirstScheduleDelay is the delay before the first attempt of a group
	// whose membership changed via a live transition (spec default 1ms).
	FirstScheduleDelay time.Duration
	// RateLimit is the global attempts/sec across all groups (spec
	// default 100).
	RateLimit rate.Limit
	// RateBurst is the token bucket burst size.
	RateBurst int
}

// New returns a new Groups.
func New(
	cfg Config,
	placer Placer,
	sched schedcore.Scheduler,
	clock schedcore.Clock,
	backoff schedcore.BackoffStrategy,
	rescheduleCalc schedcore.RescheduleCalculator,
	mtx *Metrics,
) Groups {
	return &groups{
		byKey:              make(map[schedcore.GroupKey]*group),
		placer:             placer,
		sched:              sched,
		clock:              clock,
		backoff:            backoff,
		rescheduleCalc:     rescheduleCalc,
		limiter:            rate.NewLimiter(cfg.RateLimit, cfg.RateBurst),
		firstScheduleDelay: cfg.FirstScheduleDelay,
		mtx:                mtx,
	}
}

func (g *groups) getOrCreateLocked(key schedcore.GroupKey) *group {
	grp, ok := g.byKey[key]
	if !ok {
		grp = newGroup(key)
		g.byKey[key] = grp
		g.mtx.groupsActive.Update(float64(len(g.byKey)))
	}
	return grp
}

// armLocked schedules a first/retry attempt for grp after delay if one is
// not already scheduled, preserving invariant G1. Must be called with g.mu
// held.
func (g *groups) armLocked(grp *group, delay time.Duration) {
	if grp.retryScheduled {
		return
	}
	grp.retryScheduled = true
	if grp.penalty == 0 {
		// Seeds the delay this first attempt actually fires at as the
		// "previous" value runAttempt passes to backoff.Calculate, so the
		// first re-arm computes Calculate(firstScheduleDelay), not
		// Calculate(0).
		grp.penalty = delay
	}
	key := grp.key
	grp.handle = g.sched.ScheduleAt(g.clock.Now().Add(delay), func() {
		g.runAttempt(key)
	})
}

func (g *groups) TaskChangedState(ctx context.Context, change schedcore.TaskStateChange) {
	task := change.Task

	g.mu.Lock()
	defer g.mu.Unlock()

	if task.Status == schedcore.TaskPending {
		grp := g.getOrCreateLocked(task.GroupKey)
		grp.addMember(task.ID)

		delay := g.firstScheduleDelay
		if change.Initialized {
			delay = g.rescheduleCalc.StartupScheduleDelay(task)
		}
		g.armLocked(grp, delay)
		return
	}

	if change.From == schedcore.TaskPending {
		grp, ok := g.byKey[task.GroupKey]
		if !ok {
			return
		}
		grp.removeMember(task.ID)
		g.disposeIfDeadLocked(grp)
	}
}

func (g *groups) TasksDeleted(ctx context.Context, deleted schedcore.TasksDeleted) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, id := range deleted.TaskIDs {
		for _, grp := range g.byKey {
			if grp.hasMember(id) {
				grp.removeMember(id)
				g.disposeIfDeadLocked(grp)
				break
			}
		}
	}
}

// disposeIfDeadLocked collects a group with no members and no outstanding
// retry. A group with an outstanding retry is left for runAttempt to
// dispose of when it fires and finds no members left. Must be called with
// g.mu held.
func (g *groups) disposeIfDeadLocked(grp *group) {
	if grp.empty() && !grp.retryScheduled {
		delete(g.byKey, grp.key)
		g.mtx.groupsActive.Update(float64(len(g.byKey)))
	}
}

func (g *groups) Initialize(ctx context.Context, tasks []schedcore.Task) {
	for _, t := range tasks {
		if t.Status != schedcore.TaskPending {
			continue
		}
		g.TaskChangedState(ctx, schedcore.TaskStateChange{Task: t, Initialized: true})
	}
}

// runAttempt is the attempt loop of spec §4.2, invoked when a group's
// scheduled retry fires.
func (g *groups) runAttempt(key schedcore.GroupKey) {
	ctx := context.Background()
	g.mtx.attemptsFired.Inc(1)

	waitStart := g.clock.Now()
	if err := g.limiter.Wait(ctx); err != nil {
		log.WithError(err).WithField("group", key).Warn("rate limiter wait failed")
		return
	}
	g.mtx.rateLimitWait.Record(g.clock.Now().Sub(waitStart))

	g.mu.Lock()
	grp, ok := g.byKey[key]
	if !ok {
		g.mu.Unlock()
		return
	}
	// Cleared on attempt entry: this is what makes armLocked re-arm the
	// group on the next state change or at the end of this attempt,
	// preserving G1.
	grp.retryScheduled = false
	members := grp.members()
	previous := grp.penalty
	g.mu.Unlock()

	// Each fire attempts at most one member, regardless of outcome: a group
	// with many pending members must not starve its siblings' timers by
	// draining itself in a single fire.
	if len(members) > 0 {
		taskID := members[0]
		status, err := g.placer.Schedule(ctx, taskID)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"group": key,
				"task":  taskID,
			}).Error("unexpected error scheduling task")
		} else if status == schedcore.ScheduleTryLater {
			g.mtx.tasksDeferred.Inc(1)
		} else {
			g.mtx.tasksPlaced.Inc(1)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	grp, ok = g.byKey[key]
	if !ok {
		return
	}
	if grp.empty() {
		delete(g.byKey, key)
		g.mtx.groupsActive.Update(float64(len(g.byKey)))
		return
	}

	// Per spec §12, the group re-arms whenever members remain after a fire —
	// whether this fire's one attempt succeeded, deferred, or errored — so
	// the rest are attempted on the next fire rather than waiting for a
	// fresh external event.
	next := g.backoff.Calculate(previous)
	grp.penalty = next
	g.armLocked(grp, next)
}

func (g *groups) NumGroups() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.byKey)
}
