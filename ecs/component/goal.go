package component

import (
	"github.com/milk9111/aicore/geom"
	"github.com/milk9111/aicore/pipeline"
)

// GoalSeeker picks a fresh goal when the character gets close to the
// current one.
type GoalSeeker struct {
	Targeter *pipeline.FixedGoalTargeter
	Auto     bool
	Reach    float64
	Pick     func() geom.Vector3
	Reached  int
}

var GoalSeekerComponent = NewComponent[GoalSeeker]()
