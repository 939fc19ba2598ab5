package geom

// Sphere is a spherical obstacle.
type Sphere struct {
	Position Vector3
	Radius   float64
}

// Contains reports whether p lies inside the sphere grown by margin.
func (s Sphere) Contains(p Vector3, margin float64) bool {
	r := s.Radius + margin
	return p.Sub(s.Position).SquareMagnitude() < r*r
}
