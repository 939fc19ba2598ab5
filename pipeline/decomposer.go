package pipeline

// DefaultSearchBudget bounds the cells a GridDecomposer expands per tick.
const DefaultSearchBudget = 4096

// GridDecomposer breaks a distant position goal into the next waypoint of
// an A* route across a Grid. Goals it cannot route are passed through.
type GridDecomposer struct {
	Component
	Grid   *Grid
	Budget int

	route []Cell
}

func NewGridDecomposer(grid *Grid) *GridDecomposer {
	return &GridDecomposer{Grid: grid, Budget: DefaultSearchBudget}
}

// Route returns the cells of the last planned route.
func (d *GridDecomposer) Route() []Cell {
	return d.route
}

func (d *GridDecomposer) Decompose(goal Goal) Goal {
	d.route = d.route[:0]
	character := d.Character()
	if d.Grid == nil || character == nil || !goal.PositionSet {
		return goal
	}
	start, ok := d.Grid.CellAt(character.Position)
	if !ok {
		return goal
	}
	end, ok := d.Grid.CellAt(goal.Position)
	if !ok || start == end {
		return goal
	}
	budget := d.Budget
	if budget <= 0 {
		budget = DefaultSearchBudget
	}
	route := d.Grid.FindPath(start, end, budget)
	if len(route) < 3 {
		// Adjacent cells, or no route at all.
		d.route = append(d.route, route...)
		return goal
	}
	d.route = append(d.route, route...)

	next := d.Grid.Center(route[1])
	next.Y = goal.Position.Y
	sub := goal
	sub.Position = next
	return sub
}
