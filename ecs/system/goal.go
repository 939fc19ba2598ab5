package system

import (
	"github.com/milk9111/aicore/ecs"
	"github.com/milk9111/aicore/ecs/component"
	"github.com/milk9111/aicore/pipeline"
)

// GoalSystem picks a new goal for seekers that reached theirs.
type GoalSystem struct{}

func NewGoalSystem() *GoalSystem {
	return &GoalSystem{}
}

func (s *GoalSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.SteeringComponent.Kind(), component.GoalSeekerComponent.Kind(),
		func(e ecs.Entity, st *component.Steering, g *component.GoalSeeker) {
			if !g.Auto || g.Targeter == nil || g.Pick == nil || st.Character == nil {
				return
			}
			goal := g.Targeter.Goal()
			if !goal.PositionSet {
				g.Targeter.SetGoal(pipeline.PositionGoal(g.Pick()))
				return
			}
			if st.Character.Position.Distance(goal.Position) >= g.Reach {
				return
			}
			g.Reached++
			g.Targeter.SetGoal(pipeline.PositionGoal(g.Pick()))
			w.Events().Push(ecs.Event{
				Type: ecs.EventGoalReached,
				Data: ecs.GoalReachedEvent{Entity: e, Count: g.Reached},
			})
		})
}
