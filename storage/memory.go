// Package storage provides an in-memory schedcore.Storage, standing in for
// the mutative transactional task store spec §1 places out of scope. It
// plays the same role Aurora's MemStorage test double plays in
// TaskSchedulerTest.java: just enough of a task store to drive
// TaskScheduler's tests, not a production backend.
package storage

import (
	"context"
	"sync"

	"github.com/jasonlai/aurora/schedcore"
)

// Memory is a sync.RWMutex-guarded map implementation of schedcore.Storage,
// grounded on the locking idiom pkg/hostmgr/offer/offerpool.offerPool uses
// for its in-memory host offer index.
type Memory struct {
	mu    sync.RWMutex
	tasks map[schedcore.TaskID]schedcore.Task
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{tasks: make(map[schedcore.TaskID]schedcore.Task)}
}

// Put inserts or replaces a task, for test setup.
func (m *Memory) Put(task schedcore.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = task
}

// Delete removes a task, for test setup and the TasksDeleted path.
func (m *Memory) Delete(id schedcore.TaskID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
}

// GetTask implements schedcore.Storage.
func (m *Memory) GetTask(ctx context.Context, id schedcore.TaskID) (schedcore.Task, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	return task, ok, nil
}

// RunningTasks implements schedcore.Storage.
func (m *Memory) RunningTasks(ctx context.Context, jobKey string) ([]schedcore.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []schedcore.Task
	for _, t := range m.tasks {
		if t.JobKey == jobKey && t.Status == schedcore.TaskRunning {
			out = append(out, t)
		}
	}
	return out, nil
}

// PendingTasks returns every task currently PENDING, for replaying the
// startup backlog through Groups.Initialize (spec §12).
func (m *Memory) PendingTasks() []schedcore.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []schedcore.Task
	for _, t := range m.tasks {
		if t.Status == schedcore.TaskPending {
			out = append(out, t)
		}
	}
	return out
}

// TransitionPendingToAssigned implements schedcore.Storage.
func (m *Memory) TransitionPendingToAssigned(ctx context.Context, id schedcore.TaskID, slaveID schedcore.SlaveID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || task.Status != schedcore.TaskPending {
		return false, nil
	}
	task.Status = schedcore.TaskAssigned
	task.AssignedSlaveID = slaveID
	m.tasks[id] = task
	return true, nil
}

// TransitionToLost implements schedcore.Storage. The reason is accepted for
// interface-compatibility with the spec but not retained; a real store
// would persist it alongside the task record.
func (m *Memory) TransitionToLost(ctx context.Context, id schedcore.TaskID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil
	}
	task.Status = schedcore.TaskLost
	m.tasks[id] = task
	return nil
}
