package notifications

import (
	"sync"

	"github.com/ef-ds/deque"

	"github.com/covenantnet/covenant-go/model/covenant"
)

// EventQueue is a concurrency-safe FIFO queue of events with a maximum
// capacity. Events pushed beyond capacity are rejected, never silently
// reordered or overwritten.
type EventQueue struct {
	mu          sync.Mutex
	queue       deque.Deque
	maxCapacity int
}

func NewEventQueue(maxCapacity int) *EventQueue {
	q := &EventQueue{
		maxCapacity: maxCapacity,
	}
	return q
}

// Push appends the event to the tail of the queue. It returns false if the
// queue is at capacity.
func (q *EventQueue) Push(event *covenant.Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.queue.Len() >= q.maxCapacity {
		return false
	}
	q.queue.PushBack(event)
	return true
}

// Pop removes and returns the queue's head event. If the queue is empty,
// (nil, false) is returned.
func (q *EventQueue) Pop() (*covenant.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	element, ok := q.queue.PopFront()
	if !ok {
		return nil, false
	}
	return element.(*covenant.Event), true
}

// Len returns the current length of the queue.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.queue.Len()
}
