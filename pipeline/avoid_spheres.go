package pipeline

import (
	"github.com/milk9111/aicore/common"
	"github.com/milk9111/aicore/geom"
	"github.com/milk9111/aicore/steering"
)

// AvoidSpheresConstraint keeps straight paths AvoidMargin clear of a set of
// spherical obstacles.
type AvoidSpheresConstraint struct {
	Component
	AvoidMargin float64

	obstacles  []geom.Sphere
	index      *sphereIndex
	suggestion Goal
	candidates []int
}

func NewAvoidSpheresConstraint(margin float64, obstacles ...geom.Sphere) *AvoidSpheresConstraint {
	return &AvoidSpheresConstraint{
		AvoidMargin: margin,
		obstacles:   append([]geom.Sphere(nil), obstacles...),
	}
}

func (c *AvoidSpheresConstraint) Obstacles() []geom.Sphere {
	return c.obstacles
}

// SetObstacles replaces the obstacle set and rebuilds the broadphase if it
// is enabled.
func (c *AvoidSpheresConstraint) SetObstacles(obstacles []geom.Sphere) {
	c.obstacles = append(c.obstacles[:0], obstacles...)
	if c.index != nil {
		c.index = newSphereIndex(c.obstacles)
	}
}

// EnableBroadphase indexes the obstacles on the ground plane so only those
// near the path are tested exactly.
func (c *AvoidSpheresConstraint) EnableBroadphase() {
	c.index = newSphereIndex(c.obstacles)
}

func (c *AvoidSpheresConstraint) BroadphaseEnabled() bool {
	return c.index != nil
}

// WillViolate returns the distance along the path to the closest approach
// of the nearest obstacle the path passes through, or common.RealMax.
func (c *AvoidSpheresConstraint) WillViolate(path Path, maxPriority float64) float64 {
	if path == nil {
		return common.RealMax
	}
	goal := path.Goal()
	character := path.Character()
	if !goal.PositionSet || character == nil {
		return common.RealMax
	}
	direction := goal.Position.Sub(character.Position)
	if direction.SquareMagnitude() <= 0 {
		return common.RealMax
	}

	priority := common.RealMax
	check := func(o geom.Sphere) {
		limit := maxPriority
		if priority < limit {
			limit = priority
		}
		if p, ok := c.violation(character, direction, o, limit); ok && p < priority {
			priority = p
		}
	}

	if c.index != nil && maxPriority < maxSweep {
		end := character.Position.Add(direction.Unit().Scale(maxPriority))
		c.candidates = c.index.query(character.Position, end, c.AvoidMargin, c.candidates[:0])
		for _, i := range c.candidates {
			check(c.obstacles[i])
		}
		return priority
	}
	for _, o := range c.obstacles {
		check(o)
	}
	return priority
}

func (c *AvoidSpheresConstraint) violation(character *steering.Kinematic, direction geom.Vector3, o geom.Sphere, limit float64) (float64, bool) {
	point, along, ok := steering.ClosestApproach(character.Position, direction, o, c.AvoidMargin, limit)
	if !ok {
		return 0, false
	}
	c.suggestion = PositionGoal(point)
	return along, true
}

// Suggest returns the avoidance point found by the last WillViolate.
func (c *AvoidSpheresConstraint) Suggest(path Path) Goal {
	return c.suggestion
}
