package steering

// Behaviour produces steering for a character each tick.
type Behaviour interface {
	GetSteering(out *SteeringOutput)
}

// BehaviourFunc adapts a function to Behaviour.
type BehaviourFunc func(out *SteeringOutput)

func (f BehaviourFunc) GetSteering(out *SteeringOutput) {
	f(out)
}
