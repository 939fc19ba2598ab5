package geom

import "math"

// Vector3 is a 3D vector. The ground plane is x/z; y is up.
type Vector3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vector3) Scale(f float64) Vector3 {
	return Vector3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// Dot returns the scalar product.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the vector product.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) SquareMagnitude() float64 {
	return v.Dot(v)
}

func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.SquareMagnitude())
}

// Unit returns v scaled to length one. The zero vector stays zero.
func (v Vector3) Unit() Vector3 {
	m := v.Magnitude()
	if m <= 0 {
		return v
	}
	return v.Scale(1 / m)
}

func (v Vector3) Distance(o Vector3) float64 {
	return v.Sub(o).Magnitude()
}

func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
