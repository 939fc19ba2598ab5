package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/aicore/geom"
	"github.com/milk9111/aicore/steering"
)

func walledGrid(gapAt int) *Grid {
	g := NewGrid(geom.V3(0, 0, 0), 1, 10, 10)
	for y := 0; y < 10; y++ {
		if y == gapAt {
			continue
		}
		g.SetBlocked(Cell{X: 5, Y: y}, true)
	}
	return g
}

func TestGridFindPath(t *testing.T) {
	cases := []struct {
		name   string
		gap    int
		budget int
		found  bool
	}{
		{"through_gap", 9, 1000, true},
		{"sealed", -1, 1000, false},
		{"budget_exhausted", 9, 3, false},
	}
	start, goal := Cell{X: 1, Y: 1}, Cell{X: 8, Y: 1}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := walledGrid(c.gap)
			path := g.FindPath(start, goal, c.budget)
			if !c.found {
				assert.Nil(t, path)
				return
			}
			require.NotEmpty(t, path)
			assert.Equal(t, start, path[0])
			assert.Equal(t, goal, path[len(path)-1])

			passedGap := false
			for i, cell := range path {
				assert.False(t, g.Blocked(cell), "cell %v blocked", cell)
				if cell.X == 5 && cell.Y == c.gap {
					passedGap = true
				}
				if i > 0 {
					dx := cell.X - path[i-1].X
					dy := cell.Y - path[i-1].Y
					assert.LessOrEqual(t, dx*dx+dy*dy, 2)
				}
			}
			assert.True(t, passedGap)
		})
	}
}

func TestGridBlockSpheres(t *testing.T) {
	g := NewGrid(geom.V3(0, 0, 0), 1, 10, 10)
	g.BlockSpheres([]geom.Sphere{{Position: geom.V3(5, 0, 5), Radius: 1}}, 0)
	assert.True(t, g.Blocked(Cell{X: 4, Y: 4}))
	assert.True(t, g.Blocked(Cell{X: 5, Y: 5}))
	assert.False(t, g.Blocked(Cell{X: 2, Y: 2}))
	assert.True(t, g.Blocked(Cell{X: -1, Y: 0}))
}

func TestGridDecomposer(t *testing.T) {
	g := walledGrid(9)
	character := &steering.Kinematic{Position: g.Center(Cell{X: 1, Y: 1})}
	d := NewGridDecomposer(g)
	tg := NewFixedGoalTargeter(PositionGoal(g.Center(Cell{X: 8, Y: 1})))

	p, err := NewSteeringPipe(character, NewBasicActuator(1), WithTargeters(tg), WithDecomposers(d))
	require.NoError(t, err)

	var out steering.SteeringOutput
	p.GetSteering(&out)

	route := d.Route()
	require.Greater(t, len(route), 2)
	assert.Equal(t, g.Center(route[1]), p.Goal().Position)

	t.Run("adjacent_passthrough", func(t *testing.T) {
		goal := PositionGoal(g.Center(Cell{X: 2, Y: 2}))
		assert.Equal(t, goal, d.Decompose(goal))
	})
	t.Run("no_position_passthrough", func(t *testing.T) {
		goal := Goal{Rotation: 1, RotationSet: true}
		assert.Equal(t, goal, d.Decompose(goal))
	})
	t.Run("unreachable_passthrough", func(t *testing.T) {
		sealed := NewGridDecomposer(walledGrid(-1))
		p.AddDecomposer(sealed)
		goal := PositionGoal(g.Center(Cell{X: 8, Y: 8}))
		assert.Equal(t, goal, sealed.Decompose(goal))
	})
}
