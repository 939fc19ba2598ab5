package action

import (
	"errors"
)

var ErrEmptyCompound = errors.New("action: compound needs at least one sub-action")

type compound struct {
	Base
	subActions []Action
}

// SubActions returns the sub-actions still held.
func (c *compound) SubActions() []Action {
	return append([]Action(nil), c.subActions...)
}

// CanDoBoth is true only if every sub-action can run alongside other.
func (c *compound) CanDoBoth(other Action) bool {
	for _, a := range c.subActions {
		if !a.CanDoBoth(other) {
			return false
		}
	}
	return true
}

func newCompound(name string, priority float64, subs []Action) (compound, error) {
	if len(subs) == 0 {
		return compound{}, ErrEmptyCompound
	}
	for _, s := range subs {
		if s == nil {
			return compound{}, ErrNilAction
		}
	}
	return compound{Base: NewBase(name, priority), subActions: append([]Action(nil), subs...)}, nil
}

// Combination runs all of its sub-actions together and completes when
// every one of them has.
type Combination struct {
	compound
}

func NewCombination(name string, priority float64, subs ...Action) (*Combination, error) {
	c, err := newCompound(name, priority, subs)
	if err != nil {
		return nil, err
	}
	return &Combination{compound: c}, nil
}

func (c *Combination) CanInterrupt() bool {
	for _, a := range c.subActions {
		if a.CanInterrupt() {
			return true
		}
	}
	return false
}

func (c *Combination) IsComplete() bool {
	for _, a := range c.subActions {
		if !a.IsComplete() {
			return false
		}
	}
	return true
}

// Act ticks every sub-action that is not yet complete.
func (c *Combination) Act() {
	for _, a := range c.subActions {
		if !a.IsComplete() {
			a.Act()
		}
	}
}

// Sequence runs its sub-actions one after another, dropping each as it
// completes.
type Sequence struct {
	compound
}

func NewSequence(name string, priority float64, subs ...Action) (*Sequence, error) {
	c, err := newCompound(name, priority, subs)
	if err != nil {
		return nil, err
	}
	return &Sequence{compound: c}, nil
}

// CanInterrupt defers to the current sub-action.
func (s *Sequence) CanInterrupt() bool {
	if len(s.subActions) == 0 {
		return false
	}
	return s.subActions[0].CanInterrupt()
}

func (s *Sequence) IsComplete() bool {
	return len(s.subActions) == 0
}

func (s *Sequence) Act() {
	if len(s.subActions) == 0 {
		return
	}
	head := s.subActions[0]
	head.Act()
	if head.IsComplete() {
		s.subActions[0] = nil
		s.subActions = s.subActions[1:]
	}
}
