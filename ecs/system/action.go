package system

import (
	"github.com/milk9111/aicore/ecs"
	"github.com/milk9111/aicore/ecs/component"
)

// ActionSystem executes every actor's action manager once per tick.
type ActionSystem struct{}

func NewActionSystem() *ActionSystem {
	return &ActionSystem{}
}

func (s *ActionSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.ActorComponent.Kind(), func(_ ecs.Entity, a *component.Actor) {
		if a.Manager != nil {
			a.Manager.Execute()
		}
	})
}
