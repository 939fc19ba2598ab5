package steering

import (
	"math"
	"math/rand"

	"github.com/milk9111/aicore/common"
	"github.com/milk9111/aicore/geom"
)

// Wander seeks a target that drifts randomly around a circle of radius
// Volatility centred on the character.
type Wander struct {
	Character       *Kinematic
	MaxAcceleration float64
	Volatility      float64
	TurnSpeed       float64

	rng    *rand.Rand
	target geom.Vector3
	primed bool
}

func NewWander(character *Kinematic, maxAccel, volatility, turnSpeed float64, rng *rand.Rand) *Wander {
	return &Wander{
		Character:       character,
		MaxAcceleration: maxAccel,
		Volatility:      volatility,
		TurnSpeed:       turnSpeed,
		rng:             rng,
	}
}

// Target returns the current wander target.
func (w *Wander) Target() geom.Vector3 {
	return w.target
}

func (w *Wander) GetSteering(out *SteeringOutput) {
	if out == nil {
		return
	}
	out.Clear()
	if w == nil || w.Character == nil {
		return
	}
	pos := w.Character.Position
	if !w.primed {
		w.target = pos
		w.target.X += w.Volatility
		w.primed = true
	}

	offset := w.target.Sub(pos)
	angle := 0.0
	if offset.X*offset.X+offset.Z*offset.Z > 0 {
		angle = math.Atan2(offset.Z, offset.X)
	}

	w.target = pos
	w.target.X += w.Volatility * math.Cos(angle)
	w.target.Z += w.Volatility * math.Sin(angle)
	w.target.X += common.RandomBinomial(w.rng, w.TurnSpeed)
	w.target.Z += common.RandomBinomial(w.rng, w.TurnSpeed)

	out.Linear = seekLinear(pos, w.target, w.MaxAcceleration)
}
