package pipeline

import (
	"github.com/milk9111/aicore/steering"
)

// BasicActuator plans straight lines and seeks along them.
type BasicActuator struct {
	Component
	MaxAcceleration float64
}

func NewBasicActuator(maxAcceleration float64) *BasicActuator {
	return &BasicActuator{MaxAcceleration: maxAcceleration}
}

func (a *BasicActuator) CreatePath() Path {
	return &BasicPath{}
}

func (a *BasicActuator) UpdatePath(path Path, goal Goal) {
	bp, ok := path.(*BasicPath)
	if !ok {
		return
	}
	bp.Set(a.Character(), goal)
}

// Steering seeks the goal position, or requests nothing when the goal has
// no position.
func (a *BasicActuator) Steering(out *steering.SteeringOutput, path Path) {
	if out == nil {
		return
	}
	out.Clear()
	if path == nil || !path.Goal().PositionSet {
		return
	}
	seek := steering.Seek{
		Character:       path.Character(),
		Target:          path.Goal().Position,
		MaxAcceleration: a.MaxAcceleration,
	}
	seek.GetSteering(out)
}
