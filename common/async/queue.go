package async

import (
	"container/list"
	"context"
	"sync"
)

// Job is a unit of work submitted to a Pool.
type Job interface {
	// Run executes the job. Run is called on one of the pool's workers.
	Run(ctx context.Context)
}

// JobFunc adapts a plain function to the Job interface, the way
// http.HandlerFunc adapts a function to http.Handler.
type JobFunc func(ctx context.Context)

// Run calls f(ctx).
func (f JobFunc) Run(ctx context.Context) { f(ctx) }

// Queue is an unbounded FIFO of Jobs, used internally by Pool to hold work
// that has been accepted but not yet picked up by a worker.
type Queue struct {
	sync.Mutex
	// TODO: Consider using circular buffer, if memory overhead can be lowered.
	list *list.List

	// enqueueSignal is added to after a successful enqueue. By having a buffer
	// size of 1, it's guaranteed that the job is processed.
	enqueueSignal  chan struct{}
	dequeueChannel chan Job
}

// NewQueue returns a new, empty Queue.
func NewQueue() *Queue {
	q := &Queue{
		list:           list.New(),
		enqueueSignal:  make(chan struct{}, 1),
		dequeueChannel: make(chan Job),
	}
	go q.run()
	return q
}

// Enqueue adds job to the back of the queue. Enqueue never blocks.
func (q *Queue) Enqueue(job Job) {
	q.Lock()
	q.list.PushBack(job)
	q.Unlock()

	// Try signal a new items is available.
	select {
	case q.enqueueSignal <- struct{}{}:
	default:
	}
}

// DequeueChannel returns the channel workers read jobs from.
func (q *Queue) DequeueChannel() <-chan Job {
	return q.dequeueChannel
}

func (q *Queue) run() {
	for {
		q.Lock()

		f := q.list.Front()
		if f == nil {
			q.Unlock()

			// Wait for jobs to be enqueued before continuing.
			<-q.enqueueSignal
			continue
		}

		q.list.Remove(f)
		q.Unlock()

		q.dequeueChannel <- f.Value.(Job)
	}
}
