package steering

// Weighted pairs a behaviour with its blend weight.
type Weighted struct {
	Behaviour Behaviour
	Weight    float64
}

// BlendedSteering returns the weighted mean of its behaviours.
type BlendedSteering struct {
	Behaviours []Weighted
}

func (b *BlendedSteering) GetSteering(out *SteeringOutput) {
	if out == nil {
		return
	}
	out.Clear()
	if b == nil {
		return
	}
	var tmp SteeringOutput
	total := 0.0
	for _, bw := range b.Behaviours {
		if bw.Behaviour == nil {
			continue
		}
		bw.Behaviour.GetSteering(&tmp)
		out.Linear = out.Linear.Add(tmp.Linear.Scale(bw.Weight))
		out.Angular += tmp.Angular * bw.Weight
		total += bw.Weight
	}
	if total > 0 {
		out.Linear = out.Linear.Scale(1 / total)
		out.Angular /= total
	}
}

// PrioritySteering returns the output of the first behaviour whose result
// exceeds Epsilon.
type PrioritySteering struct {
	Behaviours []Behaviour
	Epsilon    float64
}

func (p *PrioritySteering) GetSteering(out *SteeringOutput) {
	if out == nil {
		return
	}
	out.Clear()
	if p == nil {
		return
	}
	eps := p.Epsilon * p.Epsilon
	for _, b := range p.Behaviours {
		if b == nil {
			continue
		}
		b.GetSteering(out)
		if out.Linear.SquareMagnitude() > eps || out.Angular*out.Angular > eps {
			return
		}
	}
}
