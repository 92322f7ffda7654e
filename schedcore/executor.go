package schedcore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/uber-go/tally"

	"github.com/jasonlai/aurora/common/async"
	deadlinequeue "github.com/jasonlai/aurora/common/deadline_queue"
)

// Handle is a cancellable scheduled work item, returned by Scheduler.ScheduleAt.
// Cancellation is best-effort: a racing fire finds nothing registered and is
// a no-op, so callers must still re-check their own preconditions (offer
// still held, group still non-empty) at the top of the callback.
type Handle interface {
	// Cancel discards the scheduled callback if it has not already fired.
	// Returns false if it already fired or was already cancelled.
	Cancel() bool
}

// Scheduler is the shared scheduled executor of spec §5: a single logical
// timeline driving all time-based work (offer decline timers and group
// retry timers). Components never construct their own timers; they hold a
// Scheduler and a Clock.
type Scheduler interface {
	Start()
	Stop()
	// ScheduleAt schedules fn to run at deadline and returns a Handle that
	// can cancel it before it fires.
	ScheduleAt(deadline time.Time, fn func()) Handle
}

type realHandle struct {
	id string
	ex *RealScheduler
}

func (h *realHandle) Cancel() bool {
	return h.ex.cancel(h.id)
}

// RealScheduler is the production Scheduler: a deadline-ordered heap
// (common/deadline_queue) whose fires are dispatched onto a bounded worker
// pool (common/async). Grounded on pkg/common/goalstate.Engine's wiring of
// the same two packages, simplified: this scheduler has no entity map or
// action list, just deadline -> callback.
type RealScheduler struct {
	mu        sync.Mutex
	callbacks map[string]func()
	nextID    uint64

	queue    deadlinequeue.DeadlineQueue
	pool     *async.Pool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler returns a new RealScheduler with the given number of dispatch
// workers, instrumented against scope.
func NewScheduler(numWorkers int, scope tally.Scope) *RealScheduler {
	return &RealScheduler{
		callbacks: make(map[string]func()),
		queue:     deadlinequeue.NewDeadlineQueue(deadlinequeue.NewQueueMetrics(scope)),
		pool:      async.NewPool(async.PoolOptions{MaxWorkers: numWorkers}),
		stopChan:  make(chan struct{}),
	}
}

// Start begins dispatching fired items onto the worker pool. The pool's own
// workers are already running by the time NewScheduler returns (async.Pool
// starts its goroutines in NewPool), so Start only needs to start the
// dispatch loop that feeds it.
func (e *RealScheduler) Start() {
	e.wg.Add(1)
	go e.dispatch()
}

// Stop halts dispatching and drains in-flight callbacks.
func (e *RealScheduler) Stop() {
	close(e.stopChan)
	e.wg.Wait()
	e.pool.Stop()
}

func (e *RealScheduler) dispatch() {
	defer e.wg.Done()
	for {
		item := e.queue.Dequeue(e.stopChan)
		if item == nil {
			return
		}
		id := item.(*deadlinequeue.Item).GetString()
		e.pool.Enqueue(async.JobFunc(func(ctx context.Context) {
			e.run(id)
		}))
	}
}

func (e *RealScheduler) run(id string) {
	e.mu.Lock()
	fn, ok := e.callbacks[id]
	if ok {
		delete(e.callbacks, id)
	}
	e.mu.Unlock()

	if ok {
		fn()
	}
}

func (e *RealScheduler) cancel(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.callbacks[id]; !ok {
		return false
	}
	delete(e.callbacks, id)
	return true
}

// ScheduleAt schedules fn to run at deadline.
func (e *RealScheduler) ScheduleAt(deadline time.Time, fn func()) Handle {
	id := fmt.Sprintf("%d", atomic.AddUint64(&e.nextID, 1))

	e.mu.Lock()
	e.callbacks[id] = fn
	e.mu.Unlock()

	item := deadlinequeue.NewItem(id)
	e.queue.Enqueue(item, deadline)

	return &realHandle{id: id, ex: e}
}
