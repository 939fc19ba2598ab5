package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const EventGoalReached = "goal_reached"

// GoalReachedEvent is emitted when a goal seeker arrives and picks anew.
type GoalReachedEvent struct {
	Entity Entity
	Count  int
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
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
