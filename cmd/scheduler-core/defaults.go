package main

import (
	"context"
	"time"

	"github.com/jasonlai/aurora/common/backoff"
	"github.com/jasonlai/aurora/schedcore"
)

// noopDriver accepts every launch and decline without talking to a real
// cluster, standing in for the out-of-scope resource-manager driver.
type noopDriver struct{}

func (noopDriver) LaunchTask(ctx context.Context, offerID schedcore.OfferID, info schedcore.TaskInfo) error {
	return nil
}

func (noopDriver) DeclineOffer(ctx context.Context, offerID schedcore.OfferID) error {
	return nil
}

// alwaysAvailable reports every host as free of maintenance.
type alwaysAvailable struct{}

func (alwaysAvailable) GetMode(ctx context.Context, host schedcore.HostID) (schedcore.MaintenanceMode, error) {
	return schedcore.MaintenanceNone, nil
}

// rejectAll never matches an offer to a task, standing in for the
// out-of-scope resource-fit and constraint Assigner.
type rejectAll struct{}

func (rejectAll) MaybeAssign(ctx context.Context, offer schedcore.HostOffer, task schedcore.Task, aggregate schedcore.AttributeAggregate) (schedcore.TaskInfo, bool, error) {
	return schedcore.TaskInfo{}, false, nil
}

// noPreemption never finds a slot to reserve, standing in for the
// out-of-scope Preemptor.
type noPreemption struct{}

func (noPreemption) FindPreemptionSlotFor(ctx context.Context, taskID schedcore.TaskID, aggregate schedcore.AttributeAggregate) (schedcore.SlaveID, bool, error) {
	return "", false, nil
}

// zeroStartupDelay schedules startup-observed PENDING tasks immediately.
type zeroStartupDelay struct{}

func (zeroStartupDelay) StartupScheduleDelay(task schedcore.Task) time.Duration {
	return 0
}

func backoffFromConfig(cfg Config) *backoff.Policy {
	return backoff.NewPolicy(cfg.BackoffInitial, cfg.BackoffMax, cfg.BackoffMultiplier)
}
