// SPDX-License-Identifier: Unlicense OR MIT

package wsi

import (
	"sync"

	"glwin.dev/io/event"
)

// Queue is a FIFO of events, safe for concurrent use. The zero value
// is an empty queue.
type Queue struct {
	mu     sync.Mutex
	events []event.Event
}

// Push appends e to the queue.
func (q *Queue) Push(e event.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
}

// Pop removes and returns the oldest event.
func (q *Queue) Pop() (event.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil, false
	}
	e := q.events[0]
	q.events[0] = nil
	q.events = q.events[1:]
	if len(q.events) == 0 {
		q.events = nil
	}
	return e, true
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
