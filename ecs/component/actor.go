package component

import "github.com/milk9111/aicore/action"

// Actor owns an action manager executed once per tick.
type Actor struct {
	Manager *action.Manager
}

var ActorComponent = NewComponent[Actor]()
