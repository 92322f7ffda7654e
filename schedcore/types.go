// Package schedcore holds the types and external collaborator interfaces
// shared by offerqueue, taskgroups and taskscheduler: the data model of the
// two-level scheduler core, independent of any one component's internals.
package schedcore

import "time"

// MaintenanceMode is the lifecycle tag of a host as reported by the
// MaintenanceController. Ordering matters: offers are visited in ascending
// preference order NONE < SCHEDULED < DRAINING < DRAINED.
type MaintenanceMode int

const (
	// MaintenanceNone is a host with no maintenance scheduled.
	MaintenanceNone MaintenanceMode = iota
	// MaintenanceScheduled is a host with maintenance scheduled but not
	// yet underway.
	MaintenanceScheduled
	// MaintenanceDraining is a host being drained of tasks ahead of
	// maintenance.
	MaintenanceDraining
	// MaintenanceDrained is a host that has finished draining.
	MaintenanceDrained
)

// String renders the maintenance mode for logging.
func (m MaintenanceMode) String() string {
	switch m {
	case MaintenanceNone:
		return "NONE"
	case MaintenanceScheduled:
		return "SCHEDULED"
	case MaintenanceDraining:
		return "DRAINING"
	case MaintenanceDrained:
		return "DRAINED"
	default:
		return "UNKNOWN"
	}
}

// TaskID uniquely identifies a task across its lifetime.
type TaskID string

// OfferID uniquely identifies a single resource offer.
type OfferID string

// SlaveID identifies a worker host instance to the resource manager.
type SlaveID string

// HostID identifies a worker host to the maintenance controller. Distinct
// from SlaveID because a host may be re-registered under a new slave id
// across restarts while keeping the same host id.
type HostID string

// TaskStatus is the subset of the task state machine this core observes or
// drives.
type TaskStatus int

const (
	// TaskInit is the status of a task before it is first considered for
	// scheduling.
	TaskInit TaskStatus = iota
	// TaskPending is a task waiting to be matched against an offer.
	TaskPending
	// TaskAssigned is a task that has been matched to an offer and whose
	// launch has been requested.
	TaskAssigned
	// TaskRunning, TaskFinished and TaskKilled are driven by collaborators
	// outside this core; they are observed here only insofar as they are
	// not PENDING.
	TaskRunning
	TaskFinished
	TaskKilled
	// TaskLost is the status assigned when a launch fails.
	TaskLost
)

// ResourceVector is opaque to this core; the Assigner interprets it.
type ResourceVector interface{}

// HostOffer is a resource offer tagged with the current maintenance mode of
// its source host, as held in OfferQueue.
type HostOffer struct {
	OfferID    OfferID
	HostID     HostID
	SlaveID    SlaveID
	Resources  ResourceVector
	Mode       MaintenanceMode
	ReceivedAt time.Time
}

// Reservation is a soft binding of a pending task to a specific slave for a
// bounded time, produced by the Preemptor.
type Reservation struct {
	TaskID  TaskID
	SlaveID SlaveID
	Expiry  time.Time
}

// Expired reports whether the reservation's expiry has passed as of now.
func (r Reservation) Expired(now time.Time) bool {
	return !now.Before(r.Expiry)
}

// GroupKey identifies the equivalence class of fungible pending tasks a
// TaskGroup schedules together. Derived from role/environment/job and the
// task's resource/constraint shape; opaque to TaskGroups itself.
type GroupKey string

// Task is the projection of stored task state this core needs to schedule
// it. The full task record lives in Storage; this is the slice TaskGroups
// and TaskScheduler act on.
type Task struct {
	ID        TaskID
	GroupKey  GroupKey
	JobKey    string
	Status    TaskStatus
	Resources ResourceVector

	// AssignedSlaveID is the slave the task was placed on, persisted by
	// Storage.TransitionPendingToAssigned in the same transaction as the
	// PENDING->ASSIGNED status change. Empty until assigned.
	AssignedSlaveID SlaveID
}

// TaskInfo is the launch plan an Assigner produces for a (offer, task) pair
// that fits: everything the driver needs to actually launch the task on the
// chosen offer.
type TaskInfo struct {
	TaskID    TaskID
	OfferID   OfferID
	Resources ResourceVector
}

// AttributeAggregate summarizes the other running tasks of a task's job, for
// use by the Assigner in anti-affinity and similar constraint checks. Its
// contents are opaque to this core beyond the job key they are keyed by.
type AttributeAggregate struct {
	JobKey       string
	RunningTasks []Task
}

// ScheduleStatus is the result of a single TaskScheduler.Schedule attempt.
type ScheduleStatus int

const (
	// ScheduleSuccess means the task was placed, or no longer needs
	// placing (e.g. it was deleted or already left PENDING).
	ScheduleSuccess ScheduleStatus = iota
	// ScheduleTryLater means no offer fit and the attempt should be
	// retried after backoff.
	ScheduleTryLater
)

// LaunchFailedMsg is the reason recorded on the PENDING->LOST transition
// when a launch fails after the Assigner accepted an offer.
const LaunchFailedMsg = "Launch failed"

// TaskStateChange is delivered on the event bus when a task's status
// changes, or when a task already in its current status is observed at
// startup (From is zero value in that case; see Initialized).
type TaskStateChange struct {
	Task Task
	From TaskStatus
	// Initialized is true when this change represents a task observed at
	// process startup rather than a live transition.
	Initialized bool
}

// TasksDeleted is delivered on the event bus when tasks are removed from
// storage.
type TasksDeleted struct {
	TaskIDs []TaskID
}

// HostMaintenanceStateChange is delivered on the event bus when a host's
// maintenance mode changes.
type HostMaintenanceStateChange struct {
	HostID HostID
	Mode   MaintenanceMode
}
