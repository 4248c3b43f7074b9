// Package events carries inbound requests from asynchronous sources (MQTT
// callbacks, key presses) to the control loop, which drains them once per
// tick. Nothing outside the loop touches controller state directly.
package events

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Kind identifies an inbound event.
type Kind int

const (
	// DoorChanged latches the door state.
	DoorChanged Kind = iota
	// DistanceQuery asks for the cached distance to be republished.
	DistanceQuery
)

func (k Kind) String() string {
	switch k {
	case DoorChanged:
		return "door"
	case DistanceQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Event is one inbound request.
type Event struct {
	Kind   Kind
	Open   bool   // DoorChanged only
	Source string // topic or "keyboard"
}

// Door returns a DoorChanged event.
func Door(open bool, source string) Event {
	return Event{Kind: DoorChanged, Open: open, Source: source}
}

// Query returns a DistanceQuery event.
func Query(source string) Event {
	return Event{Kind: DistanceQuery, Source: source}
}

// Queue is a bounded, lossy multi-producer single-consumer queue.
type Queue struct {
	ch      chan Event
	dropped uint64
}

// NewQueue creates a queue holding at most size pending events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 16
	}
	return &Queue{ch: make(chan Event, size)}
}

// Push enqueues e without blocking. It returns false and counts a drop when
// the queue is full. Safe to call from any goroutine.
func (q *Queue) Push(e Event) bool {
	select {
	case q.ch <- e:
		return true
	default:
		atomic.AddUint64(&q.dropped, 1)
		logrus.WithFields(logrus.Fields{"kind": e.Kind, "source": e.Source}).Warn("event queue full, dropping event")
		return false
	}
}

// Drain returns every pending event in arrival order without blocking.
func (q *Queue) Drain() []Event {
	var out []Event
	for {
		select {
		case e := <-q.ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

// Dropped returns how many events were rejected because the queue was full.
func (q *Queue) Dropped() uint64 {
	return atomic.LoadUint64(&q.dropped)
}
