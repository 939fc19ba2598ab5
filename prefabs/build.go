package prefabs

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/milk9111/aicore/common"
	"github.com/milk9111/aicore/geom"
	"github.com/milk9111/aicore/pipeline"
	"github.com/milk9111/aicore/steering"
)

const (
	defaultWorldSize       = 50
	defaultAvoidMargin     = 2
	defaultMaxAcceleration = 50
	defaultVolatility      = 20
	defaultTurnSpeed       = 2

	// goalClearance keeps random goals this far outside obstacles.
	goalClearance   = 2
	maxGoalAttempts = 1000
)

const (
	FallbackWander = "wander"
	FallbackNone   = "none"
)

var ErrInvalidScene = errors.New("prefabs: invalid scene")

type BuildOption func(o *buildOptions)

type buildOptions struct {
	logger *zap.Logger
	rng    *rand.Rand
}

func WithLogger(l *zap.Logger) BuildOption {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRand sets the source for random placement and wandering.
func WithRand(rng *rand.Rand) BuildOption {
	return func(o *buildOptions) {
		o.rng = rng
	}
}

// Scene is a character wired into a steering pipe over an obstacle field.
type Scene struct {
	Name      string
	WorldSize float64

	Character  *steering.Kinematic
	Pipe       *pipeline.SteeringPipe
	Targeter   *pipeline.FixedGoalTargeter
	Avoid      *pipeline.AvoidSpheresConstraint
	Decomposer *pipeline.GridDecomposer
	Wander     *steering.Wander
	Obstacles  []geom.Sphere

	rng *rand.Rand
}

// BuildScene validates spec and assembles its pipeline. Zero values take
// the defaults of the obstacle scene.
func BuildScene(spec SceneSpec, opts ...BuildOption) (*Scene, error) {
	o := buildOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(1))
	}

	s := &Scene{Name: spec.Name, WorldSize: spec.WorldSize, rng: o.rng}
	if s.WorldSize == 0 {
		s.WorldSize = defaultWorldSize
	}
	if s.WorldSize < 0 {
		return nil, fmt.Errorf("%w: world_size %v", ErrInvalidScene, spec.WorldSize)
	}

	character, err := buildKinematic(spec.Character)
	if err != nil {
		return nil, fmt.Errorf("prefabs: scene %q character: %w", spec.Name, err)
	}
	s.Character = character

	s.Obstacles, err = s.buildObstacles(spec)
	if err != nil {
		return nil, fmt.Errorf("prefabs: scene %q: %w", spec.Name, err)
	}

	margin := orDefault(spec.AvoidMargin, defaultAvoidMargin)
	accel := orDefault(spec.MaxAcceleration, defaultMaxAcceleration)

	s.Targeter = pipeline.NewFixedGoalTargeter(pipeline.Goal{})
	s.Avoid = pipeline.NewAvoidSpheresConstraint(margin, s.Obstacles...)
	if spec.Broadphase {
		s.Avoid.EnableBroadphase()
	}

	pipeOpts := []pipeline.Option{
		pipeline.WithLogger(o.logger),
		pipeline.WithTargeters(s.Targeter),
		pipeline.WithConstraints(s.Avoid),
	}
	if spec.ConstraintSteps != 0 {
		pipeOpts = append(pipeOpts, pipeline.WithConstraintSteps(spec.ConstraintSteps))
	}

	switch spec.Fallback {
	case "", FallbackWander:
		s.Wander = steering.NewWander(character, accel,
			orDefault(spec.Wander.Volatility, defaultVolatility),
			orDefault(spec.Wander.TurnSpeed, defaultTurnSpeed),
			o.rng)
		pipeOpts = append(pipeOpts, pipeline.WithFallback(s.Wander))
	case FallbackNone:
	default:
		return nil, fmt.Errorf("%w: unknown fallback %q", ErrInvalidScene, spec.Fallback)
	}

	if spec.Grid != nil {
		if spec.Grid.CellSize <= 0 {
			return nil, fmt.Errorf("%w: grid cell_size must be positive", ErrInvalidScene)
		}
		n := int(math.Ceil(2 * s.WorldSize / spec.Grid.CellSize))
		grid := pipeline.NewGrid(geom.V3(-s.WorldSize, 0, -s.WorldSize), spec.Grid.CellSize, n, n)
		grid.BlockSpheres(s.Obstacles, margin)
		s.Decomposer = pipeline.NewGridDecomposer(grid)
		if spec.Grid.Budget > 0 {
			s.Decomposer.Budget = spec.Grid.Budget
		}
		pipeOpts = append(pipeOpts, pipeline.WithDecomposers(s.Decomposer))
	}

	s.Pipe, err = pipeline.NewSteeringPipe(character, pipeline.NewBasicActuator(accel), pipeOpts...)
	if err != nil {
		return nil, fmt.Errorf("prefabs: scene %q pipe: %w", spec.Name, err)
	}

	if len(spec.Goal) > 0 {
		g, err := spec.Goal.Vector()
		if err != nil {
			return nil, fmt.Errorf("prefabs: scene %q goal: %w", spec.Name, err)
		}
		s.SetGoal(g)
	} else {
		s.NewRandomGoal()
	}

	o.logger.Debug("prefabs: scene built",
		zap.String("name", spec.Name),
		zap.Int("obstacles", len(s.Obstacles)),
		zap.Bool("broadphase", spec.Broadphase),
		zap.Bool("grid", s.Decomposer != nil),
	)
	return s, nil
}

// LoadScene loads and builds the named scene file.
func LoadScene(filename string, opts ...BuildOption) (*Scene, error) {
	spec, err := LoadSceneSpec(filename)
	if err != nil {
		return nil, err
	}
	return BuildScene(spec, opts...)
}

func buildKinematic(spec KinematicSpec) (*steering.Kinematic, error) {
	pos, err := spec.Position.Vector()
	if err != nil {
		return nil, err
	}
	vel, err := spec.Velocity.Vector()
	if err != nil {
		return nil, err
	}
	return &steering.Kinematic{Position: pos, Velocity: vel, Orientation: spec.Orientation}, nil
}

func (s *Scene) buildObstacles(spec SceneSpec) ([]geom.Sphere, error) {
	out := make([]geom.Sphere, 0, len(spec.Obstacles))
	for i, o := range spec.Obstacles {
		if o.Radius <= 0 {
			return nil, fmt.Errorf("%w: obstacle %d radius %v", ErrInvalidScene, i, o.Radius)
		}
		p, err := o.Position.Vector()
		if err != nil {
			return nil, fmt.Errorf("obstacle %d: %w", i, err)
		}
		out = append(out, geom.Sphere{Position: p, Radius: o.Radius})
	}

	r := spec.RandomObstacles
	if r == nil || r.Count <= 0 {
		return out, nil
	}
	if r.MinRadius <= 0 || r.MaxRadius < r.MinRadius {
		return nil, fmt.Errorf("%w: random obstacle radii [%v, %v]", ErrInvalidScene, r.MinRadius, r.MaxRadius)
	}
	rng := s.rng
	if r.Seed != 0 {
		rng = rand.New(rand.NewSource(r.Seed))
	}
	// Obstacles keep a 4 unit border clear of the world edge.
	span := 2*s.WorldSize - 8
	if span < 0 {
		span = 0
	}
	for i := 0; i < r.Count; i++ {
		out = append(out, geom.Sphere{
			Position: geom.V3(
				-s.WorldSize+4+common.RandomReal(rng, span),
				0,
				-s.WorldSize+4+common.RandomReal(rng, span),
			),
			Radius: r.MinRadius + common.RandomReal(rng, r.MaxRadius-r.MinRadius),
		})
	}
	return out, nil
}

// SetGoal points the targeter at p.
func (s *Scene) SetGoal(p geom.Vector3) {
	s.Targeter.SetGoal(pipeline.PositionGoal(p))
}

// RandomGoal picks a point in the world clear of every obstacle.
func (s *Scene) RandomGoal() geom.Vector3 {
	var p geom.Vector3
	for attempt := 0; attempt < maxGoalAttempts; attempt++ {
		p = geom.V3(
			common.RandomBinomial(s.rng, s.WorldSize),
			0,
			common.RandomBinomial(s.rng, s.WorldSize),
		)
		if s.clearOfObstacles(p) {
			return p
		}
	}
	return p
}

// NewRandomGoal sets and returns a fresh random goal.
func (s *Scene) NewRandomGoal() geom.Vector3 {
	p := s.RandomGoal()
	s.SetGoal(p)
	return p
}

func (s *Scene) clearOfObstacles(p geom.Vector3) bool {
	for _, o := range s.Obstacles {
		if o.Contains(p, goalClearance) {
			return false
		}
	}
	return true
}

const (
	StatusHonouring = "Honouring Constraint"
	StatusHeading   = "Heading for goal"
	StatusRouting   = "Following route"
	StatusWandering = "Wandering"
)

// Status describes what the pipe did on its last tick.
func (s *Scene) Status() string {
	if s.Avoid.SuggestionUsed() {
		return StatusHonouring
	}
	path := s.Pipe.Path()
	if path == nil {
		return StatusWandering
	}
	goal := s.Targeter.Goal()
	if path.Goal().PositionSet && path.Goal().Position == goal.Position {
		return StatusHeading
	}
	if s.Pipe.Stats().Converged {
		return StatusRouting
	}
	return StatusWandering
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
