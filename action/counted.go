package action

// Tagged actions name the resources they use. Two tagged actions sharing no
// tag can run together.
type Tagged interface {
	Tags() []string
}

// CountedAction completes after a fixed number of ticks.
type CountedAction struct {
	Base
	Remaining int
	Interrupt bool
	tags      []string

	// OnAct, when set, is called at the end of every tick.
	OnAct func(a *CountedAction)
}

func NewCountedAction(name string, priority float64, count int, interrupt bool, tags ...string) *CountedAction {
	return &CountedAction{
		Base:      NewBase(name, priority),
		Remaining: count,
		Interrupt: interrupt,
		tags:      tags,
	}
}

func (a *CountedAction) Act() {
	a.Remaining--
	if a.OnAct != nil {
		a.OnAct(a)
	}
}

func (a *CountedAction) IsComplete() bool {
	return a.Remaining <= 0
}

func (a *CountedAction) CanInterrupt() bool {
	return a.Interrupt
}

func (a *CountedAction) Tags() []string {
	return a.tags
}

// CanDoBoth is true when other is tagged, both sides have tags and none
// are shared.
func (a *CountedAction) CanDoBoth(other Action) bool {
	return tagsDisjoint(a.tags, other)
}

func tagsDisjoint(tags []string, other Action) bool {
	t, ok := other.(Tagged)
	if !ok || len(tags) == 0 {
		return false
	}
	theirs := t.Tags()
	if len(theirs) == 0 {
		return false
	}
	for _, mine := range tags {
		for _, tag := range theirs {
			if mine == tag {
				return false
			}
		}
	}
	return true
}
