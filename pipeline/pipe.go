package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/milk9111/aicore/steering"
)

// DefaultConstraintSteps is the negotiation budget of a new pipe.
const DefaultConstraintSteps = 100

var (
	ErrNilActuator            = errors.New("pipeline: actuator is nil")
	ErrNilCharacter           = errors.New("pipeline: character is nil")
	ErrInvalidConstraintSteps = errors.New("pipeline: constraint steps must be positive")
)

// PipeStats describes what the pipe did.
type PipeStats struct {
	Ticks      int
	Iterations int
	Converged  bool
	Fallbacks  int
}

// SteeringPipe reconciles targeters, decomposers, constraints and one
// actuator into a single steering output per tick.
type SteeringPipe struct {
	character *steering.Kinematic

	targeters   []Targeter
	decomposers []Decomposer
	constraints []Constraint
	used        []bool
	actuator    Actuator
	fallback    steering.Behaviour

	constraintSteps int
	path            Path
	goal            Goal

	stats  PipeStats
	logger *zap.Logger
}

// Option configures a SteeringPipe.
type Option func(p *SteeringPipe) error

func WithConstraintSteps(n int) Option {
	return func(p *SteeringPipe) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidConstraintSteps, n)
		}
		p.constraintSteps = n
		return nil
	}
}

// WithFallback sets the behaviour used when negotiation does not converge.
func WithFallback(b steering.Behaviour) Option {
	return func(p *SteeringPipe) error {
		p.fallback = b
		return nil
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *SteeringPipe) error {
		if l != nil {
			p.logger = l
		}
		return nil
	}
}

func WithTargeters(ts ...Targeter) Option {
	return func(p *SteeringPipe) error {
		p.targeters = append(p.targeters, ts...)
		return nil
	}
}

func WithDecomposers(ds ...Decomposer) Option {
	return func(p *SteeringPipe) error {
		p.decomposers = append(p.decomposers, ds...)
		return nil
	}
}

func WithConstraints(cs ...Constraint) Option {
	return func(p *SteeringPipe) error {
		p.constraints = append(p.constraints, cs...)
		p.used = append(p.used, make([]bool, len(cs))...)
		return nil
	}
}

// NewSteeringPipe builds a pipe steering character through actuator.
func NewSteeringPipe(character *steering.Kinematic, actuator Actuator, opts ...Option) (*SteeringPipe, error) {
	if character == nil {
		return nil, ErrNilCharacter
	}
	if actuator == nil {
		return nil, ErrNilActuator
	}
	p := &SteeringPipe{
		character:       character,
		actuator:        actuator,
		constraintSteps: DefaultConstraintSteps,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.RegisterComponents()
	return p, nil
}

// Character returns the steered character.
func (p *SteeringPipe) Character() *steering.Kinematic {
	return p.character
}

// Path returns the last computed path, or nil before the first tick.
func (p *SteeringPipe) Path() Path {
	return p.path
}

// Goal returns the goal the last path was planned for.
func (p *SteeringPipe) Goal() Goal {
	return p.goal
}

func (p *SteeringPipe) Stats() PipeStats {
	return p.stats
}

func (p *SteeringPipe) ConstraintSteps() int {
	return p.constraintSteps
}

func (p *SteeringPipe) Constraints() []Constraint {
	return append([]Constraint(nil), p.constraints...)
}

// SuggestionUsed reports whether the i-th constraint redirected the goal
// during the last tick.
func (p *SteeringPipe) SuggestionUsed(i int) bool {
	if i < 0 || i >= len(p.used) {
		return false
	}
	return p.used[i]
}

// AnySuggestionUsed reports whether any constraint redirected the goal
// during the last tick.
func (p *SteeringPipe) AnySuggestionUsed() bool {
	for _, u := range p.used {
		if u {
			return true
		}
	}
	return false
}

func (p *SteeringPipe) AddTargeter(t Targeter) {
	if t == nil {
		return
	}
	p.targeters = append(p.targeters, t)
	p.RegisterComponents()
}

func (p *SteeringPipe) AddDecomposer(d Decomposer) {
	if d == nil {
		return
	}
	p.decomposers = append(p.decomposers, d)
	p.RegisterComponents()
}

func (p *SteeringPipe) AddConstraint(c Constraint) {
	if c == nil {
		return
	}
	p.constraints = append(p.constraints, c)
	p.used = append(p.used, false)
	p.RegisterComponents()
}

// SetActuator swaps the actuator. The cached path belongs to the old
// actuator and is dropped.
func (p *SteeringPipe) SetActuator(a Actuator) error {
	if a == nil {
		return ErrNilActuator
	}
	p.actuator = a
	p.path = nil
	p.RegisterComponents()
	return nil
}

func (p *SteeringPipe) SetFallback(b steering.Behaviour) {
	p.fallback = b
}

func (p *SteeringPipe) SetConstraintSteps(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidConstraintSteps, n)
	}
	p.constraintSteps = n
	return nil
}

// RegisterComponents hands every registered part a reference back to this
// pipe. It is safe to call any number of times.
func (p *SteeringPipe) RegisterComponents() {
	for _, t := range p.targeters {
		bindTo(t, p)
	}
	for _, d := range p.decomposers {
		bindTo(d, p)
	}
	for _, c := range p.constraints {
		bindTo(c, p)
	}
	bindTo(p.actuator, p)
}

func bindTo(v any, p *SteeringPipe) {
	if b, ok := v.(binder); ok {
		b.bind(p)
	}
}

// GetSteering runs one tick of the pipe and writes the result into out.
func (p *SteeringPipe) GetSteering(out *steering.SteeringOutput) {
	if p == nil || out == nil {
		return
	}
	p.stats.Ticks++
	p.stats.Converged = false
	p.stats.Iterations = 0

	var goal Goal
	for i, t := range p.targeters {
		g := t.Goal()
		if err := goal.Merge(g); err != nil {
			p.logger.Debug("pipeline: targeter goal dropped",
				zap.Int("targeter", i),
				zap.Error(err),
			)
		}
	}

	for _, d := range p.decomposers {
		goal = d.Decompose(goal)
	}

	if p.path == nil {
		p.path = p.actuator.CreatePath()
	}

	for i := 0; i < p.constraintSteps; i++ {
		p.stats.Iterations = i + 1
		p.actuator.UpdatePath(p.path, goal)
		p.goal = goal

		maxViolation := p.path.MaxPriority()
		shortest := maxViolation
		winner := -1
		for ci, c := range p.constraints {
			if i == 0 {
				p.markSuggestion(ci, false)
			}
			v := c.WillViolate(p.path, shortest)
			if v > 0 && v < shortest {
				shortest = v
				winner = ci
			}
		}

		if winner >= 0 && shortest < maxViolation {
			goal = p.constraints[winner].Suggest(p.path)
			p.markSuggestion(winner, true)
			continue
		}

		p.actuator.Steering(out, p.path)
		p.stats.Converged = true
		return
	}

	p.stats.Fallbacks++
	p.logger.Debug("pipeline: constraints did not converge",
		zap.Int("steps", p.constraintSteps),
		zap.Bool("fallback", p.fallback != nil),
	)
	if p.fallback != nil {
		p.fallback.GetSteering(out)
		return
	}
	out.Clear()
}

func (p *SteeringPipe) markSuggestion(i int, v bool) {
	p.used[i] = v
	if m, ok := p.constraints[i].(suggestionMarker); ok {
		m.setSuggestionUsed(v)
	}
}
