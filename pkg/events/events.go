// Package events is a small in-process queue of booking lifecycle
// events. The server drains it into the audit log; a deployment with a
// broker would publish the same events instead.
package events

import (
	"sync"
	"time"
)

const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
	PaymentPaid      = "payment.paid"
)

type Event struct {
	Type         string
	BookingUid   string
	WarehouseUid string
	ActorUid     string
	OccurredAt   time.Time
}

type Queue struct {
	mu    sync.Mutex
	items []Event
}

func NewQueue() *Queue {
	return &Queue{items: make([]Event, 0)}
}

func (q *Queue) Publish(ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, ev)
}

// Dequeue pops the oldest event, if any.
func (q *Queue) Dequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Event{}, false
	}
	ev := q.items[0]
	q.items = q.items[1:]
	return ev, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
