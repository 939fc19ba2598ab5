package component

import (
	"github.com/milk9111/aicore/pipeline"
	"github.com/milk9111/aicore/steering"
)

// Steering moves a character with a steering pipe.
type Steering struct {
	Character *steering.Kinematic
	Pipe      *pipeline.SteeringPipe

	// Drag is the fraction of velocity kept per second.
	Drag     float64
	MaxSpeed float64
	// WorldSize wraps the character to [-WorldSize, WorldSize] on x and z.
	// Zero disables wrapping.
	WorldSize float64

	// Last is the output of the most recent tick.
	Last steering.SteeringOutput
}

var SteeringComponent = NewComponent[Steering]()
