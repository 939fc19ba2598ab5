package system

import (
	"github.com/milk9111/aicore/ecs"
	"github.com/milk9111/aicore/ecs/component"
)

// SteeringSystem ticks every steering pipe and moves its character.
type SteeringSystem struct {
	Dt float64
}

func NewSteeringSystem(dt float64) *SteeringSystem {
	return &SteeringSystem{Dt: dt}
}

func (s *SteeringSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.Dt <= 0 {
		return
	}
	ecs.ForEach(w, component.SteeringComponent.Kind(), func(_ ecs.Entity, st *component.Steering) {
		k := st.Character
		if k == nil || st.Pipe == nil {
			return
		}
		st.Pipe.GetSteering(&st.Last)

		k.IntegrateDrag(st.Last, st.Drag, s.Dt)
		k.SetOrientationFromVelocity()
		if st.MaxSpeed > 0 {
			k.TrimMaxSpeed(st.MaxSpeed)
		}
		if st.WorldSize > 0 {
			k.Position.X = wrap(k.Position.X, st.WorldSize)
			k.Position.Z = wrap(k.Position.Z, st.WorldSize)
		}
	})
}

func wrap(v, size float64) float64 {
	if v < -size {
		return size
	}
	if v > size {
		return -size
	}
	return v
}
