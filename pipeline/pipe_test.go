package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/aicore/common"
	"github.com/milk9111/aicore/geom"
	"github.com/milk9111/aicore/steering"
)

// stubbornConstraint always reports a violation half way along the path.
type stubbornConstraint struct {
	Component
	calls    int
	suggests int
}

func (c *stubbornConstraint) WillViolate(path Path, maxPriority float64) float64 {
	c.calls++
	return path.MaxPriority() / 2
}

func (c *stubbornConstraint) Suggest(path Path) Goal {
	c.suggests++
	return path.Goal()
}

// onceConstraint reports one violation and redirects to detour.
type onceConstraint struct {
	Component
	detour Goal
	fired  bool
}

func (c *onceConstraint) WillViolate(path Path, maxPriority float64) float64 {
	if c.fired {
		return common.RealMax
	}
	return 1
}

func (c *onceConstraint) Suggest(path Path) Goal {
	c.fired = true
	return c.detour
}

type recordingDecomposer struct {
	Component
	name  string
	trace *[]string
	apply func(Goal) Goal
}

func (d *recordingDecomposer) Decompose(g Goal) Goal {
	*d.trace = append(*d.trace, d.name)
	if d.apply != nil {
		return d.apply(g)
	}
	return g
}

func newTestPipe(t *testing.T, goal geom.Vector3, opts ...Option) (*SteeringPipe, *steering.Kinematic) {
	t.Helper()
	character := &steering.Kinematic{}
	opts = append([]Option{WithTargeters(NewFixedGoalTargeter(PositionGoal(goal)))}, opts...)
	p, err := NewSteeringPipe(character, NewBasicActuator(10), opts...)
	require.NoError(t, err)
	return p, character
}

func TestNewSteeringPipeConfigErrors(t *testing.T) {
	cases := []struct {
		name      string
		character *steering.Kinematic
		actuator  Actuator
		opts      []Option
		want      error
	}{
		{"nil_actuator", &steering.Kinematic{}, nil, nil, ErrNilActuator},
		{"nil_character", nil, NewBasicActuator(1), nil, ErrNilCharacter},
		{"zero_steps", &steering.Kinematic{}, NewBasicActuator(1), []Option{WithConstraintSteps(0)}, ErrInvalidConstraintSteps},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := NewSteeringPipe(c.character, c.actuator, c.opts...)
			require.ErrorIs(t, err, c.want)
			assert.Nil(t, p)
		})
	}
}

func TestPipeConvergesWithoutConstraints(t *testing.T) {
	p, _ := newTestPipe(t, geom.V3(10, 0, 0))

	var out steering.SteeringOutput
	p.GetSteering(&out)

	stats := p.Stats()
	assert.True(t, stats.Converged)
	assert.Equal(t, 1, stats.Iterations)
	assert.Equal(t, 0, stats.Fallbacks)
	assert.InDelta(t, 10, out.Linear.X, 1e-9)
	assert.InDelta(t, 0, out.Linear.Z, 1e-9)

	require.NotNil(t, p.Path())
	assert.Equal(t, geom.V3(10, 0, 0), p.Path().Goal().Position)
}

func TestPipeBoundedIterationUsesFallback(t *testing.T) {
	stubborn := &stubbornConstraint{}
	fallbackCalls := 0
	fallback := steering.BehaviourFunc(func(out *steering.SteeringOutput) {
		fallbackCalls++
		out.Linear = geom.V3(1, 2, 3)
	})

	p, _ := newTestPipe(t, geom.V3(10, 0, 0),
		WithConstraints(stubborn),
		WithConstraintSteps(7),
		WithFallback(fallback),
	)

	var out steering.SteeringOutput
	p.GetSteering(&out)

	assert.Equal(t, 7, stubborn.calls)
	assert.Equal(t, 7, stubborn.suggests)
	assert.Equal(t, 1, fallbackCalls)
	assert.Equal(t, geom.V3(1, 2, 3), out.Linear)

	stats := p.Stats()
	assert.False(t, stats.Converged)
	assert.Equal(t, 7, stats.Iterations)
	assert.Equal(t, 1, stats.Fallbacks)
	assert.True(t, stubborn.SuggestionUsed())
	assert.True(t, p.SuggestionUsed(0))
}

func TestPipeWithoutFallbackClearsOutput(t *testing.T) {
	p, _ := newTestPipe(t, geom.V3(10, 0, 0),
		WithConstraints(&stubbornConstraint{}),
		WithConstraintSteps(3),
	)
	out := steering.SteeringOutput{Linear: geom.V3(5, 5, 5), Angular: 1}
	p.GetSteering(&out)
	assert.True(t, out.IsZero())
}

func TestPipeFollowsSuggestion(t *testing.T) {
	detour := PositionGoal(geom.V3(0, 0, 10))
	c := &onceConstraint{detour: detour}
	p, _ := newTestPipe(t, geom.V3(10, 0, 0), WithConstraints(c))

	var out steering.SteeringOutput
	p.GetSteering(&out)

	assert.True(t, p.Stats().Converged)
	assert.Equal(t, 2, p.Stats().Iterations)
	assert.InDelta(t, 10, out.Linear.Z, 1e-9)
	assert.Equal(t, detour, p.Goal())
	assert.True(t, c.SuggestionUsed())

	// The flag survives the clean final iteration, and is reset only at
	// the start of the next tick.
	p.GetSteering(&out)
	assert.False(t, c.SuggestionUsed())
	assert.False(t, p.AnySuggestionUsed())
}

func TestPipeNearestViolationWins(t *testing.T) {
	far := &fixedViolation{priority: 6, detour: PositionGoal(geom.V3(0, 0, -1))}
	near := &fixedViolation{priority: 2, detour: PositionGoal(geom.V3(0, 0, 1))}
	p, _ := newTestPipe(t, geom.V3(10, 0, 0), WithConstraints(far, near), WithConstraintSteps(1))

	var out steering.SteeringOutput
	p.GetSteering(&out)

	assert.Equal(t, 1, near.suggests)
	assert.Equal(t, 0, far.suggests)
	// The near constraint saw the far one's value as its bound.
	assert.Equal(t, 6.0, near.lastMax)
	assert.False(t, p.SuggestionUsed(0))
	assert.True(t, p.SuggestionUsed(1))
}

type fixedViolation struct {
	priority float64
	detour   Goal
	suggests int
	lastMax  float64
}

func (c *fixedViolation) WillViolate(path Path, maxPriority float64) float64 {
	c.lastMax = maxPriority
	return c.priority
}

func (c *fixedViolation) Suggest(path Path) Goal {
	c.suggests++
	return c.detour
}

func TestPipeTargeterConflictSkipped(t *testing.T) {
	character := &steering.Kinematic{}
	first := NewFixedGoalTargeter(PositionGoal(geom.V3(10, 0, 0)))
	second := NewFixedGoalTargeter(PositionGoal(geom.V3(-10, 0, 0)))
	spin := NewFixedGoalTargeter(Goal{Rotation: 1, RotationSet: true})

	p, err := NewSteeringPipe(character, NewBasicActuator(1), WithTargeters(first, second, spin))
	require.NoError(t, err)

	var out steering.SteeringOutput
	p.GetSteering(&out)

	g := p.Goal()
	assert.Equal(t, geom.V3(10, 0, 0), g.Position)
	assert.True(t, g.RotationSet)
	assert.Equal(t, 1.0, g.Rotation)
}

func TestPipeDecomposersRunInOrder(t *testing.T) {
	var trace []string
	shift := func(dz float64) func(Goal) Goal {
		return func(g Goal) Goal {
			g.Position.Z += dz
			return g
		}
	}
	a := &recordingDecomposer{name: "a", trace: &trace, apply: shift(1)}
	b := &recordingDecomposer{name: "b", trace: &trace, apply: func(g Goal) Goal {
		g.Position.Z *= 10
		return g
	}}
	p, _ := newTestPipe(t, geom.V3(10, 0, 0), WithDecomposers(a, b))

	var out steering.SteeringOutput
	p.GetSteering(&out)

	assert.Equal(t, []string{"a", "b"}, trace)
	assert.Equal(t, 10.0, p.Goal().Position.Z)
}

func TestRegisterComponentsBindsPipe(t *testing.T) {
	tg := NewFixedGoalTargeter(Goal{})
	act := NewBasicActuator(1)
	c := NewAvoidSpheresConstraint(1)
	character := &steering.Kinematic{}

	p, err := NewSteeringPipe(character, act, WithTargeters(tg), WithConstraints(c))
	require.NoError(t, err)

	assert.Same(t, p, tg.Pipe())
	assert.Same(t, p, act.Pipe())
	assert.Same(t, p, c.Pipe())
	assert.Same(t, character, act.Character())

	d := NewGridDecomposer(nil)
	p.AddDecomposer(d)
	assert.Same(t, p, d.Pipe())
}

func TestSetActuatorDropsPath(t *testing.T) {
	p, _ := newTestPipe(t, geom.V3(1, 0, 0))
	var out steering.SteeringOutput
	p.GetSteering(&out)
	require.NotNil(t, p.Path())

	require.ErrorIs(t, p.SetActuator(nil), ErrNilActuator)
	require.NotNil(t, p.Path())

	require.NoError(t, p.SetActuator(NewBasicActuator(2)))
	assert.Nil(t, p.Path())

	p.GetSteering(&out)
	assert.InDelta(t, 2, out.Linear.X, 1e-9)
}

func TestPathIsReusedAcrossTicks(t *testing.T) {
	p, character := newTestPipe(t, geom.V3(10, 0, 0))
	var out steering.SteeringOutput
	p.GetSteering(&out)
	first := p.Path()

	character.Position = geom.V3(4, 0, 0)
	p.GetSteering(&out)
	assert.Same(t, first, p.Path())
	assert.InDelta(t, 6, p.Path().MaxPriority(), 1e-9)
}
