package steering

import "github.com/milk9111/aicore/geom"

// Seek accelerates at full strength towards Target.
type Seek struct {
	Character       *Kinematic
	Target          geom.Vector3
	MaxAcceleration float64
}

func (s *Seek) GetSteering(out *SteeringOutput) {
	if out == nil {
		return
	}
	out.Clear()
	if s == nil || s.Character == nil {
		return
	}
	out.Linear = seekLinear(s.Character.Position, s.Target, s.MaxAcceleration)
}

// Flee accelerates at full strength away from Target.
type Flee struct {
	Character       *Kinematic
	Target          geom.Vector3
	MaxAcceleration float64
}

func (f *Flee) GetSteering(out *SteeringOutput) {
	if out == nil {
		return
	}
	out.Clear()
	if f == nil || f.Character == nil {
		return
	}
	out.Linear = seekLinear(f.Target, f.Character.Position, f.MaxAcceleration)
}

func seekLinear(from, to geom.Vector3, maxAccel float64) geom.Vector3 {
	dir := to.Sub(from)
	if dir.SquareMagnitude() <= 0 {
		return geom.Vector3{}
	}
	return dir.Unit().Scale(maxAccel)
}
