package pipeline

import (
	"errors"

	"github.com/milk9111/aicore/geom"
)

// ErrGoalConflict is returned when two goals set the same channel.
var ErrGoalConflict = errors.New("pipeline: goals set the same channel")

// Goal is a sparse description of what the character wants. Each channel is
// only meaningful when its Set flag is true.
type Goal struct {
	Position    geom.Vector3
	PositionSet bool

	Orientation    float64
	OrientationSet bool

	Velocity    geom.Vector3
	VelocitySet bool

	Rotation    float64
	RotationSet bool
}

// PositionGoal returns a goal with only the position channel set.
func PositionGoal(p geom.Vector3) Goal {
	return Goal{Position: p, PositionSet: true}
}

// Clear unsets every channel.
func (g *Goal) Clear() {
	*g = Goal{}
}

// IsEmpty reports whether no channel is set.
func (g Goal) IsEmpty() bool {
	return !g.PositionSet && !g.OrientationSet && !g.VelocitySet && !g.RotationSet
}

func (g *Goal) SetPosition(p geom.Vector3) {
	g.Position = p
	g.PositionSet = true
}

func (g *Goal) SetOrientation(o float64) {
	g.Orientation = o
	g.OrientationSet = true
}

func (g *Goal) SetVelocity(v geom.Vector3) {
	g.Velocity = v
	g.VelocitySet = true
}

func (g *Goal) SetRotation(r float64) {
	g.Rotation = r
	g.RotationSet = true
}

// CanMerge reports whether other sets only channels g leaves unset.
func (g Goal) CanMerge(other Goal) bool {
	return !(g.PositionSet && other.PositionSet ||
		g.OrientationSet && other.OrientationSet ||
		g.VelocitySet && other.VelocitySet ||
		g.RotationSet && other.RotationSet)
}

// Merge copies the channels set in other into g. Overlapping channels are
// rejected with ErrGoalConflict and g is left unchanged.
func (g *Goal) Merge(other Goal) error {
	if !g.CanMerge(other) {
		return ErrGoalConflict
	}
	if other.PositionSet {
		g.SetPosition(other.Position)
	}
	if other.OrientationSet {
		g.SetOrientation(other.Orientation)
	}
	if other.VelocitySet {
		g.SetVelocity(other.Velocity)
	}
	if other.RotationSet {
		g.SetRotation(other.Rotation)
	}
	return nil
}
