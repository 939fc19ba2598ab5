package steering

import (
	"math"

	"github.com/milk9111/aicore/common"
	"github.com/milk9111/aicore/geom"
)

// SteeringOutput is the requested linear and angular acceleration.
type SteeringOutput struct {
	Linear  geom.Vector3
	Angular float64
}

// Clear zeroes the output.
func (o *SteeringOutput) Clear() {
	if o == nil {
		return
	}
	*o = SteeringOutput{}
}

// IsZero reports whether the output requests nothing.
func (o SteeringOutput) IsZero() bool {
	return o.Linear.IsZero() && o.Angular == 0
}

// Kinematic is the movement state of a character.
type Kinematic struct {
	Position    geom.Vector3
	Orientation float64
	Velocity    geom.Vector3
	Rotation    float64
}

// Integrate moves the character by its current velocity for duration
// seconds, then applies steer to the velocity.
func (k *Kinematic) Integrate(steer SteeringOutput, duration float64) {
	if k == nil {
		return
	}
	k.move(duration)
	k.Velocity = k.Velocity.Add(steer.Linear.Scale(duration))
	k.Rotation += steer.Angular * duration
}

// IntegrateDrag is Integrate with velocity damping. drag is the fraction of
// velocity kept per second; rotation is damped twice as hard.
func (k *Kinematic) IntegrateDrag(steer SteeringOutput, drag, duration float64) {
	if k == nil {
		return
	}
	k.move(duration)
	d := math.Pow(drag, duration)
	k.Velocity = k.Velocity.Scale(d)
	k.Rotation *= d * d
	k.Velocity = k.Velocity.Add(steer.Linear.Scale(duration))
	k.Rotation += steer.Angular * duration
}

func (k *Kinematic) move(duration float64) {
	k.Position = k.Position.Add(k.Velocity.Scale(duration))
	k.Orientation = common.WrapAngle(k.Orientation + k.Rotation*duration)
}

// TrimMaxSpeed clamps the speed to maxSpeed.
func (k *Kinematic) TrimMaxSpeed(maxSpeed float64) {
	if k == nil {
		return
	}
	if k.Velocity.SquareMagnitude() > maxSpeed*maxSpeed {
		k.Velocity = k.Velocity.Unit().Scale(maxSpeed)
	}
}

// SetOrientationFromVelocity faces the character along its velocity. A
// stationary character keeps its orientation.
func (k *Kinematic) SetOrientationFromVelocity() {
	if k == nil || k.Velocity.SquareMagnitude() == 0 {
		return
	}
	k.Orientation = math.Atan2(k.Velocity.X, k.Velocity.Z)
}

// OrientationVector is the unit facing vector on the ground plane.
func (k Kinematic) OrientationVector() geom.Vector3 {
	return geom.V3(math.Sin(k.Orientation), 0, math.Cos(k.Orientation))
}
