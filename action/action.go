package action

import (
	"github.com/google/uuid"
)

// Action is a unit of game work requested by the AI. Actions are owned by
// the Manager they are scheduled on and are dropped once complete or
// displaced by an interrupting action.
type Action interface {
	// Priority orders the queue; higher runs first.
	Priority() float64
	// Act performs one tick of work.
	Act()
	IsComplete() bool
	// CanInterrupt reports whether this action may displace the active set.
	CanInterrupt() bool
	// CanDoBoth reports whether this action can run alongside other. The
	// manager asks both ways; both must agree.
	CanDoBoth(other Action) bool
}

// Identified actions carry an identity used in logs.
type Identified interface {
	ActionID() uuid.UUID
	ActionName() string
}

// Base supplies identity, a priority and the default behaviour: do
// nothing, complete immediately, never interrupt, run alone.
type Base struct {
	id       uuid.UUID
	name     string
	priority float64
}

func NewBase(name string, priority float64) Base {
	return Base{id: uuid.New(), name: name, priority: priority}
}

func (b *Base) Priority() float64 {
	return b.priority
}

func (b *Base) SetPriority(p float64) {
	b.priority = p
}

func (b *Base) ActionID() uuid.UUID {
	return b.id
}

func (b *Base) ActionName() string {
	return b.name
}

func (b *Base) Act() {}

func (b *Base) IsComplete() bool {
	return true
}

func (b *Base) CanInterrupt() bool {
	return false
}

func (b *Base) CanDoBoth(other Action) bool {
	return false
}
