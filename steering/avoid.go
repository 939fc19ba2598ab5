package steering

import "github.com/milk9111/aicore/geom"

// AvoidSphere steers around a single obstacle lying along the current
// velocity. It produces nothing when the way ahead is clear.
type AvoidSphere struct {
	Character       *Kinematic
	Obstacle        geom.Sphere
	AvoidMargin     float64
	MaxLookahead    float64
	MaxAcceleration float64
}

func (a *AvoidSphere) GetSteering(out *SteeringOutput) {
	if out == nil {
		return
	}
	out.Clear()
	if a == nil || a.Character == nil {
		return
	}
	target, _, ok := ClosestApproach(a.Character.Position, a.Character.Velocity, a.Obstacle, a.AvoidMargin, a.MaxLookahead)
	if !ok {
		return
	}
	out.Linear = seekLinear(a.Character.Position, target, a.MaxAcceleration)
}

// ClosestApproach tests travel from origin along direction against obstacle.
// When the line passes within radius+margin of the centre, ahead of origin
// and nearer than lookahead, it returns the avoidance point on the grown
// sphere and the distance along the line to the point of closest approach.
func ClosestApproach(origin, direction geom.Vector3, obstacle geom.Sphere, margin, lookahead float64) (geom.Vector3, float64, bool) {
	if direction.SquareMagnitude() <= 0 {
		return geom.Vector3{}, 0, false
	}
	normal := direction.Unit()
	toObstacle := obstacle.Position.Sub(origin)

	along := toObstacle.Dot(normal)
	distSq := toObstacle.SquareMagnitude() - along*along

	radius := obstacle.Radius + margin
	if distSq >= radius*radius {
		return geom.Vector3{}, 0, false
	}
	if along <= 0 || along >= lookahead {
		return geom.Vector3{}, 0, false
	}

	closest := origin.Add(normal.Scale(along))
	away := closest.Sub(obstacle.Position)
	if away.SquareMagnitude() == 0 {
		// Dead centre: any perpendicular on the ground plane will do.
		away = geom.V3(-normal.Z, 0, normal.X)
		if away.SquareMagnitude() == 0 {
			away = geom.V3(1, 0, 0)
		}
	}
	return obstacle.Position.Add(away.Unit().Scale(radius)), along, true
}
