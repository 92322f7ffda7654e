// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package deadlinequeue

import "time"

// QueueItem is the interface that must be implemented by anything stored in
// a DeadlineQueue. Index and SetIndex let container/heap maintain the item's
// position without a linear scan on Remove/Fix.
type QueueItem interface {
	// Index returns the item's current position in the heap, or -1 if it is
	// not currently in the heap.
	Index() int
	// SetIndex is called by the heap implementation to record the item's
	// current position.
	SetIndex(v int)
	// Deadline returns the time at which the item should be dequeued, or
	// the zero time if the item is not scheduled.
	Deadline() time.Time
	// SetDeadline records the item's deadline.
	SetDeadline(deadline time.Time)
	// IsScheduled reports whether the item currently has a non-zero
	// deadline.
	IsScheduled() bool
}

// priorityQueue implements container/heap.Interface over a slice of
// QueueItems, ordered by ascending deadline. The earliest deadline is
// always at index 0.
type priorityQueue []QueueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].Deadline().Before(pq[j].Deadline())
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].SetIndex(i)
	pq[j].SetIndex(j)
}

func (pq *priorityQueue) Push(x interface{}) {
	item := x.(QueueItem)
	item.SetIndex(len(*pq))
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.SetIndex(-1)
	*pq = old[:n-1]
	return item
}

// NextDeadline returns the deadline of the item at the front of the queue.
// The caller must ensure the queue is non-empty.
func (pq priorityQueue) NextDeadline() time.Time {
	return pq[0].Deadline()
}

// Item is a concrete, ready-to-use QueueItem that carries an opaque string
// payload. It is what schedcore.RealScheduler enqueues, one per scheduled
// callback id.
type Item struct {
	value    string
	index    int
	deadline time.Time
}

// NewItem returns a new Item wrapping the given value, not yet scheduled.
func NewItem(value string) *Item {
	return &Item{
		value: value,
		index: -1,
	}
}

// GetString returns the item's payload.
func (i *Item) GetString() string { return i.value }

// Index returns the item's current heap position, or -1 if unscheduled.
func (i *Item) Index() int { return i.index }

// SetIndex records the item's current heap position.
func (i *Item) SetIndex(v int) { i.index = v }

// Deadline returns the item's current deadline, or the zero time if
// unscheduled.
func (i *Item) Deadline() time.Time { return i.deadline }

// SetDeadline records the item's deadline.
func (i *Item) SetDeadline(deadline time.Time) { i.deadline = deadline }

// IsScheduled reports whether the item currently has a non-zero deadline.
func (i *Item) IsScheduled() bool { return !i.deadline.IsZero() }
