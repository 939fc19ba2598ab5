package pipeline

import (
	"github.com/milk9111/aicore/steering"
)

// Path is the trajectory an actuator plans towards a goal. Concrete types
// belong to the actuator that created them.
type Path interface {
	Character() *steering.Kinematic
	Goal() Goal
	// MaxPriority bounds how far ahead constraints need to look.
	MaxPriority() float64
}

// BasicPath is a straight line from the character to the goal position.
type BasicPath struct {
	character *steering.Kinematic
	goal      Goal
}

func (p *BasicPath) Character() *steering.Kinematic {
	return p.character
}

func (p *BasicPath) Goal() Goal {
	return p.goal
}

// Set points the path at goal for character.
func (p *BasicPath) Set(character *steering.Kinematic, goal Goal) {
	p.character = character
	p.goal = goal
}

// MaxPriority is the distance still to travel, or zero without a position
// goal.
func (p *BasicPath) MaxPriority() float64 {
	if p == nil || p.character == nil || !p.goal.PositionSet {
		return 0
	}
	return p.character.Position.Distance(p.goal.Position)
}
