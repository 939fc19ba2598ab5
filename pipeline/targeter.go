package pipeline

import (
	"github.com/milk9111/aicore/steering"
)

// FixedGoalTargeter always asks for the same goal.
type FixedGoalTargeter struct {
	Component
	goal Goal
}

func NewFixedGoalTargeter(goal Goal) *FixedGoalTargeter {
	return &FixedGoalTargeter{goal: goal}
}

func (t *FixedGoalTargeter) Goal() Goal {
	return t.goal
}

// SetGoal replaces the goal returned from now on.
func (t *FixedGoalTargeter) SetGoal(g Goal) {
	t.goal = g
}

// ChaseTargeter targets another character, optionally predicting where it
// will be Lookahead seconds from now.
type ChaseTargeter struct {
	Component
	Target      *steering.Kinematic
	Lookahead   float64
	MatchSpeeds bool
}

func (t *ChaseTargeter) Goal() Goal {
	var g Goal
	if t == nil || t.Target == nil {
		return g
	}
	g.SetPosition(t.Target.Position.Add(t.Target.Velocity.Scale(t.Lookahead)))
	if t.MatchSpeeds {
		g.SetVelocity(t.Target.Velocity)
	}
	return g
}
