// Package taskscheduler implements TaskScheduler (spec §4.3): the
// placement engine invoked by TaskGroups for a single task id.
package taskscheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jasonlai/aurora/offerqueue"
	"github.com/jasonlai/aurora/schedcore"
)

// LaunchFailedMsg is the reason recorded on the PENDING->LOST transition
// when a launch fails after the Assigner accepted an offer, carried over
// from Aurora's TaskSchedulerImpl.LAUNCH_FAILED_MSG per spec §12.
const LaunchFailedMsg = schedcore.LaunchFailedMsg

// Scheduler is the TaskScheduler of spec §4.3.
type Scheduler struct {
	storage   schedcore.Storage
	offers    offerqueue.Queue
	assigner  schedcore.Assigner
	preemptor schedcore.Preemptor
	sink      schedcore.EventSink
	clock     schedcore.Clock

	reservationDuration time.Duration
	mtx                 *Metrics
}

// New returns a new Scheduler and registers RESERVATIONS_CACHE_SIZE_STAT
// against stats, per spec §6.
func New(
	storage schedcore.Storage,
	offers offerqueue.Queue,
	assigner schedcore.Assigner,
	preemptor schedcore.Preemptor,
	sink schedcore.EventSink,
	clock schedcore.Clock,
	reservationDuration time.Duration,
	stats schedcore.StatsProvider,
	mtx *Metrics,
) *Scheduler {
	s := &Scheduler{
		storage:             storage,
		offers:              offers,
		assigner:            assigner,
		preemptor:           preemptor,
		sink:                sink,
		clock:               clock,
		reservationDuration: reservationDuration,
		mtx:                 mtx,
	}
	if stats != nil {
		stats.MakeGauge("RESERVATIONS_CACHE_SIZE_STAT", func() float64 {
			return float64(offers.ReservationCount())
		})
	}
	return s
}

// Schedule attempts to place taskID on one of the currently held offers.
func (s *Scheduler) Schedule(ctx context.Context, taskID schedcore.TaskID) (schedcore.ScheduleStatus, error) {
	s.mtx.scheduleAttempts.Inc(1)

	task, ok, err := s.storage.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, schedcore.ErrTransient) {
			s.mtx.scheduleTryLater.Inc(1)
			return schedcore.ScheduleTryLater, nil
		}
		return 0, errors.Wrapf(err, "read task %s", taskID)
	}
	if !ok || task.Status != schedcore.TaskPending {
		// Missing-task short-circuit (spec §12): the task was deleted or
		// moved on before this attempt ran. Nothing further to do.
		s.mtx.scheduleSuccess.Inc(1)
		return schedcore.ScheduleSuccess, nil
	}

	aggregate, err := s.buildAggregate(ctx, task)
	if err != nil {
		if errors.Is(err, schedcore.ErrTransient) {
			s.mtx.scheduleTryLater.Inc(1)
			return schedcore.ScheduleTryLater, nil
		}
		return 0, errors.Wrapf(err, "build attribute aggregate for %s", taskID)
	}

	assigned := false
	launched, launchErr := s.offers.LaunchFirst(ctx, taskID, func(ctx context.Context, offer schedcore.HostOffer) (schedcore.TaskInfo, bool, error) {
		plan, ok, err := s.tryAssign(ctx, offer, task, aggregate)
		assigned = assigned || ok
		return plan, ok, err
	})
	if launchErr != nil {
		if !launched {
			// The error came from the assigner, not the driver.
			if errors.Is(launchErr, schedcore.ErrTransient) {
				s.mtx.scheduleTryLater.Inc(1)
				return schedcore.ScheduleTryLater, nil
			}
			return 0, errors.Wrapf(launchErr, "assign task %s", taskID)
		}

		// Launch failed after the assigner accepted an offer (spec §7,
		// scenario DriverNotReady): the offer is already consumed, so
		// transition the task to LOST and treat the attempt as complete.
		s.mtx.launchFailures.Inc(1)
		if err := s.storage.TransitionToLost(ctx, taskID, LaunchFailedMsg); err != nil {
			log.WithError(err).WithField("task", taskID).Error("failed to transition task to LOST after launch failure")
		}
		s.publish(ctx, task, schedcore.TaskLost, schedcore.TaskPending)
		s.mtx.scheduleSuccess.Inc(1)
		return schedcore.ScheduleSuccess, nil
	}
	// ASSIGNED is published only once LaunchFirst returned without a launch
	// error, so a failed launch reports the single PENDING->LOST change above.
	if assigned {
		s.publish(ctx, task, schedcore.TaskAssigned, schedcore.TaskPending)
	}
	if launched {
		s.mtx.scheduleSuccess.Inc(1)
		return schedcore.ScheduleSuccess, nil
	}

	// No offer matched; ask the preemptor for a slot to reserve.
	slaveID, found, err := s.preemptor.FindPreemptionSlotFor(ctx, taskID, aggregate)
	if err != nil {
		log.WithError(err).WithField("task", taskID).Warn("preemptor lookup failed")
	} else if found {
		s.offers.Reserve(taskID, slaveID, s.clock.Now().Add(s.reservationDuration))
	}
	s.mtx.reservationCacheSize.Update(float64(s.offers.ReservationCount()))
	s.mtx.scheduleTryLater.Inc(1)
	return schedcore.ScheduleTryLater, nil
}

// tryAssign is the Acceptor passed to OfferQueue.LaunchFirst: it asks the
// Assigner, and on a match commits the PENDING->ASSIGNED storage transition
// before returning the plan, so OfferQueue's driver.LaunchTask call happens
// only once the transition is durable.
func (s *Scheduler) tryAssign(
	ctx context.Context,
	offer schedcore.HostOffer,
	task schedcore.Task,
	aggregate schedcore.AttributeAggregate,
) (schedcore.TaskInfo, bool, error) {
	plan, ok, err := s.assigner.MaybeAssign(ctx, offer, task, aggregate)
	if err != nil || !ok {
		return schedcore.TaskInfo{}, false, err
	}

	committed, err := s.storage.TransitionPendingToAssigned(ctx, task.ID, offer.SlaveID)
	if err != nil {
		return schedcore.TaskInfo{}, false, errors.Wrapf(err, "commit assignment for %s", task.ID)
	}
	if !committed {
		// Lost the race: something else moved the task out of PENDING
		// between the read at the top of Schedule and this transaction.
		return schedcore.TaskInfo{}, false, nil
	}

	return plan, true, nil
}

func (s *Scheduler) buildAggregate(ctx context.Context, task schedcore.Task) (schedcore.AttributeAggregate, error) {
	running, err := s.storage.RunningTasks(ctx, task.JobKey)
	if err != nil {
		return schedcore.AttributeAggregate{}, err
	}
	return schedcore.AttributeAggregate{JobKey: task.JobKey, RunningTasks: running}, nil
}

func (s *Scheduler) publish(ctx context.Context, task schedcore.Task, newStatus, from schedcore.TaskStatus) {
	if s.sink == nil {
		return
	}
	task.Status = newStatus
	s.sink.TaskChangedState(ctx, schedcore.TaskStateChange{Task: task, From: from})
}

// OnTasksDeleted clears any reservation held for each deleted task. Of the
// reservation cache's other removal paths, OfferQueue handles consumption
// (LaunchFirst) and expiry (purged lazily on access); a task that leaves
// PENDING through a transition this Scheduler did not make keeps its
// reservation until it expires.
func (s *Scheduler) OnTasksDeleted(ctx context.Context, deleted schedcore.TasksDeleted) {
	for _, id := range deleted.TaskIDs {
		s.offers.ClearReservation(id)
	}
}
