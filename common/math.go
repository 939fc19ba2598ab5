package common

import (
	"math"
	"math/rand"
)

// RealMax is the largest representable value. Priorities use it as the
// "nothing found" sentinel.
const RealMax = math.MaxFloat64

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapAngle maps an angle into [0, 2pi).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	return a
}

// RandomReal returns a value in [0, max).
func RandomReal(rng *rand.Rand, max float64) float64 {
	if rng == nil {
		return rand.Float64() * max
	}
	return rng.Float64() * max
}

// RandomBinomial returns a value in (-max, max) weighted towards zero.
func RandomBinomial(rng *rand.Rand, max float64) float64 {
	return RandomReal(rng, max) - RandomReal(rng, max)
}
