package pipeline

import (
	"github.com/milk9111/aicore/steering"
)

// Targeter says what the character wants, ignoring obstacles.
type Targeter interface {
	Goal() Goal
}

// Decomposer rewrites a goal, typically into a nearer sub-goal.
type Decomposer interface {
	Decompose(goal Goal) Goal
}

// Constraint vets a path. WillViolate returns how soon the path breaks the
// constraint (smaller is sooner) or common.RealMax when it does not; it
// never needs to report anything at or beyond maxPriority. Suggest is only
// called straight after a reported violation on the same path.
type Constraint interface {
	WillViolate(path Path, maxPriority float64) float64
	Suggest(path Path) Goal
}

// Actuator turns goals into paths and paths into steering.
type Actuator interface {
	CreatePath() Path
	UpdatePath(path Path, goal Goal)
	Steering(out *steering.SteeringOutput, path Path)
}

// Component is embedded by pipeline parts that need to reach the pipe they
// are registered with.
type Component struct {
	pipe           *SteeringPipe
	suggestionUsed bool
}

// Pipe returns the owning pipe, or nil before registration.
func (c *Component) Pipe() *SteeringPipe {
	return c.pipe
}

// Character is a shortcut for Pipe().Character().
func (c *Component) Character() *steering.Kinematic {
	if c == nil || c.pipe == nil {
		return nil
	}
	return c.pipe.character
}

// SuggestionUsed reports whether this constraint's suggestion was taken
// during the last tick.
func (c *Component) SuggestionUsed() bool {
	return c.suggestionUsed
}

func (c *Component) bind(p *SteeringPipe) {
	c.pipe = p
}

func (c *Component) setSuggestionUsed(v bool) {
	c.suggestionUsed = v
}

type binder interface {
	bind(p *SteeringPipe)
}

type suggestionMarker interface {
	setSuggestionUsed(v bool)
}
