package ecs

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/collision"
)

// ContactEventKind identifies a change in a body's contact state.
type ContactEventKind string

const (
	ContactLanded     ContactEventKind = "landed"
	ContactLeftFloor  ContactEventKind = "left_floor"
	ContactHitWall    ContactEventKind = "hit_wall"
	ContactHitCeiling ContactEventKind = "hit_ceiling"
)

// ContactEvent is emitted when a kinematic body's floor, wall or ceiling
// state changes during a step.
type ContactEvent struct {
	Entity   Entity
	Kind     ContactEventKind
	Normal   cp.Vector
	Collider collision.Object
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []ContactEvent
}

func (q *EventQueue) Push(evt ContactEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []ContactEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	q.items = q.items[:0]
}
