package pipeline

import (
	"math"
	"slices"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/aicore/geom"
)

// maxSweep is the longest look-ahead the index accepts. Longer sweeps fall
// back to testing every sphere.
const maxSweep = 1e9

// sphereIndex projects spheres onto the x/z plane as static chipmunk circles.
// Projection never lengthens a distance, so a sphere the 3D path passes
// within margin of has a circle box touching the segment's box grown by
// margin. Query results are a superset of the exact test.
type sphereIndex struct {
	space *cp.Space
	seen  map[int]bool
}

func newSphereIndex(spheres []geom.Sphere) *sphereIndex {
	space := cp.NewSpace()
	for i, s := range spheres {
		shape := cp.NewCircle(space.StaticBody, s.Radius, groundVector(s.Position))
		shape.UserData = i
		space.AddShape(shape)
	}
	return &sphereIndex{space: space, seen: make(map[int]bool)}
}

// query appends to out the indices of spheres that may lie within margin of
// the segment from start to end.
func (idx *sphereIndex) query(start, end geom.Vector3, margin float64, out []int) []int {
	if idx == nil || idx.space == nil {
		return out
	}
	clear(idx.seen)

	idx.space.BBQuery(sweepBB(groundVector(start), groundVector(end), margin), cp.SHAPE_FILTER_ALL,
		func(shape *cp.Shape, data interface{}) {
			i, ok := shape.UserData.(int)
			if !ok || idx.seen[i] {
				return
			}
			idx.seen[i] = true
			out = append(out, i)
		}, nil)
	slices.Sort(out)
	return out
}

// sweepBB bounds the segment from a to b grown by margin on every side.
func sweepBB(a, b cp.Vector, margin float64) cp.BB {
	return cp.BB{
		L: math.Min(a.X, b.X) - margin,
		B: math.Min(a.Y, b.Y) - margin,
		R: math.Max(a.X, b.X) + margin,
		T: math.Max(a.Y, b.Y) + margin,
	}
}

func groundVector(v geom.Vector3) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}
