package pipeline

import (
	"container/heap"
	"math"

	"github.com/milk9111/aicore/geom"
)

// Cell is a grid coordinate.
type Cell struct {
	X, Y int
}

// Grid is a walkability grid laid over the x/z plane. Cell (0,0) has its
// minimum corner at Origin.
type Grid struct {
	Origin   geom.Vector3
	CellSize float64
	Width    int
	Height   int

	blocked []bool
}

func NewGrid(origin geom.Vector3, cellSize float64, width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		Origin:   origin,
		CellSize: cellSize,
		Width:    width,
		Height:   height,
		blocked:  make([]bool, width*height),
	}
}

func (g *Grid) InBounds(c Cell) bool {
	return g != nil && c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

func (g *Grid) Blocked(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.blocked[c.Y*g.Width+c.X]
}

func (g *Grid) SetBlocked(c Cell, blocked bool) {
	if !g.InBounds(c) {
		return
	}
	g.blocked[c.Y*g.Width+c.X] = blocked
}

// BlockSpheres marks every cell whose centre lies within radius+margin of a
// sphere centre.
func (g *Grid) BlockSpheres(spheres []geom.Sphere, margin float64) {
	if g == nil {
		return
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Center(Cell{X: x, Y: y})
			for _, s := range spheres {
				dx := c.X - s.Position.X
				dz := c.Z - s.Position.Z
				r := s.Radius + margin
				if dx*dx+dz*dz < r*r {
					g.blocked[y*g.Width+x] = true
					break
				}
			}
		}
	}
}

// CellAt returns the cell containing p.
func (g *Grid) CellAt(p geom.Vector3) (Cell, bool) {
	if g == nil || g.CellSize <= 0 {
		return Cell{}, false
	}
	c := Cell{
		X: int(math.Floor((p.X - g.Origin.X) / g.CellSize)),
		Y: int(math.Floor((p.Z - g.Origin.Z) / g.CellSize)),
	}
	return c, g.InBounds(c)
}

// Center returns the world position of the middle of c at the origin height.
func (g *Grid) Center(c Cell) geom.Vector3 {
	return geom.V3(
		g.Origin.X+(float64(c.X)+0.5)*g.CellSize,
		g.Origin.Y,
		g.Origin.Z+(float64(c.Y)+0.5)*g.CellSize,
	)
}

var gridDirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath runs A* from start to goal over unblocked cells, moving in eight
// directions without cutting corners. It gives up after expanding maxNodes
// cells. The result includes both ends, or is nil when no path was found.
func (g *Grid) FindPath(start, goal Cell, maxNodes int) []Cell {
	if !g.InBounds(start) || g.Blocked(goal) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}

	open := &cellHeap{}
	heap.Push(open, &cellNode{c: start, f: octile(start, goal)})
	came := make(map[Cell]Cell)
	gScore := map[Cell]float64{start: 0}
	closed := make(map[Cell]bool)

	expanded := 0
	for open.Len() > 0 && expanded < maxNodes {
		cur := heap.Pop(open).(*cellNode)
		if closed[cur.c] {
			continue
		}
		if cur.c == goal {
			return rebuildPath(came, start, goal)
		}
		closed[cur.c] = true
		expanded++

		for _, d := range gridDirs {
			n := Cell{X: cur.c.X + d[0], Y: cur.c.Y + d[1]}
			if g.Blocked(n) || closed[n] {
				continue
			}
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				if g.Blocked(Cell{X: cur.c.X + d[0], Y: cur.c.Y}) || g.Blocked(Cell{X: cur.c.X, Y: cur.c.Y + d[1]}) {
					continue
				}
				cost = math.Sqrt2
			}
			tentative := gScore[cur.c] + cost
			if old, ok := gScore[n]; ok && tentative >= old {
				continue
			}
			gScore[n] = tentative
			came[n] = cur.c
			heap.Push(open, &cellNode{c: n, f: tentative + octile(n, goal)})
		}
	}
	return nil
}

func rebuildPath(came map[Cell]Cell, start, goal Cell) []Cell {
	path := []Cell{goal}
	for cur := goal; cur != start; {
		prev, ok := came[cur]
		if !ok {
			return nil
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func octile(a, b Cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

type cellNode struct {
	c Cell
	f float64
}

type cellHeap []*cellNode

func (h cellHeap) Len() int           { return len(h) }
func (h cellHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h cellHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *cellHeap) Push(x any)        { *h = append(*h, x.(*cellNode)) }
func (h *cellHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
