package nav

import (
	"container/heap"
	"math"

	"github.com/udisondev/zombieai/internal/model"
)

// FindPath plans a route from start to end with A* over grid cells.
//
// Returns PathInvalid when start is not on walkable floor. When the end cell
// is blocked or cannot be reached, the route leads to the explored cell
// closest to it and the status is PathPartial. Corners exclude the start
// point; a complete route ends exactly at end.
func (g *Grid) FindPath(start, end model.Vec3) model.Path {
	sx, sz := g.CellOf(start)
	ex, ez := g.CellOf(end)

	if !g.Walkable(sx, sz) {
		return model.Path{Status: model.PathInvalid}
	}

	// Same cell: already there
	if sx == ex && sz == ez {
		return model.Path{Status: model.PathComplete, Corners: []model.Vec3{end}}
	}

	goal, reached := g.astar(sx, sz, ex, ez)
	if goal == nil {
		return model.Path{Status: model.PathInvalid}
	}

	cells := make([][2]int, 0, 32)
	for n := goal; n != nil; n = n.parent {
		cells = append(cells, [2]int{n.x, n.z})
	}
	// Reverse (A* builds path backward)
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}

	cells = g.smoothPath(cells)

	corners := make([]model.Vec3, 0, len(cells))
	for _, c := range cells[1:] {
		corners = append(corners, g.Center(c[0], c[1]))
	}

	status := model.PathPartial
	if reached {
		status = model.PathComplete
		if len(corners) > 0 {
			corners[len(corners)-1] = end
		} else {
			corners = append(corners, end)
		}
	}
	if len(corners) == 0 {
		// Start cell is the closest we can get.
		corners = append(corners, g.Center(sx, sz))
	}

	return model.Path{Status: status, Corners: corners}
}

// smoothPath removes intermediate cells that can be skipped by a straight
// walk. Up to 3 passes.
func (g *Grid) smoothPath(path [][2]int) [][2]int {
	for range 3 {
		if len(path) <= 2 {
			return path
		}

		changed := false
		smoothed := make([][2]int, 0, len(path))
		smoothed = append(smoothed, path[0])

		for i := 1; i < len(path)-1; i++ {
			prev := smoothed[len(smoothed)-1]
			next := path[i+1]

			if g.CanMoveTo(prev[0], prev[1], next[0], next[1]) {
				changed = true
				continue
			}
			smoothed = append(smoothed, path[i])
		}
		smoothed = append(smoothed, path[len(path)-1])
		path = smoothed

		if !changed {
			break
		}
	}
	return path
}

// gridNode represents a node in the A* search graph.
type gridNode struct {
	x, z   int
	parent *gridNode
	gCost  float64 // Actual cost from start
	hCost  float64 // Heuristic cost to target
	fCost  float64 // gCost + hCost
	index  int     // heap index
}

// astar searches from (sx, sz) toward (tx, tz). It returns the goal node and
// true when the target was reached, otherwise the explored node closest to
// the target and false. Returns nil only when nothing was explored.
func (g *Grid) astar(sx, sz, tx, tz int) (*gridNode, bool) {
	start := &gridNode{x: sx, z: sz}
	start.hCost = heuristic(sx, sz, tx, tz)
	start.fCost = start.hCost

	openList := &nodeHeap{}
	heap.Init(openList)
	heap.Push(openList, start)

	closed := make(map[nodeKey]struct{}, 256)
	best := start

	for range MaxPathfindIterations {
		if openList.Len() == 0 {
			break
		}

		current := heap.Pop(openList).(*gridNode)

		if current.x == tx && current.z == tz {
			return current, true
		}

		key := nodeKey{current.x, current.z}
		if _, exists := closed[key]; exists {
			continue
		}
		closed[key] = struct{}{}

		if current.hCost < best.hCost {
			best = current
		}

		g.expandNeighbors(current, tx, tz, openList, closed)
	}

	return best, false
}

// expandNeighbors adds walkable adjacent cells to the open list.
// Diagonals require both adjacent cardinals to be walkable (no corner cut).
func (g *Grid) expandNeighbors(current *gridNode, tx, tz int, openList *nodeHeap, closed map[nodeKey]struct{}) {
	// N, E, S, W
	cardinals := [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	var open [4]bool

	for i, d := range cardinals {
		nx, nz := current.x+d[0], current.z+d[1]
		if !g.Walkable(nx, nz) {
			continue
		}
		open[i] = true
		g.pushNode(current, nx, nz, WeightCardinal, tx, tz, openList, closed)
	}

	diagonals := [4]struct {
		dx, dz     int
		adj1, adj2 int
	}{
		{1, -1, 0, 1},  // NE
		{1, 1, 1, 2},   // SE
		{-1, 1, 2, 3},  // SW
		{-1, -1, 3, 0}, // NW
	}

	for _, d := range diagonals {
		if !open[d.adj1] || !open[d.adj2] {
			continue
		}
		nx, nz := current.x+d.dx, current.z+d.dz
		if !g.Walkable(nx, nz) {
			continue
		}
		g.pushNode(current, nx, nz, WeightDiagonal, tx, tz, openList, closed)
	}
}

func (g *Grid) pushNode(parent *gridNode, x, z int, weight float64, tx, tz int, openList *nodeHeap, closed map[nodeKey]struct{}) {
	if _, exists := closed[nodeKey{x, z}]; exists {
		return
	}
	node := &gridNode{
		x: x, z: z,
		parent: parent,
		gCost:  parent.gCost + weight,
		hCost:  heuristic(x, z, tx, tz),
	}
	node.fCost = node.gCost + node.hCost
	heap.Push(openList, node)
}

// heuristic is the Euclidean cell distance.
func heuristic(x, z, tx, tz int) float64 {
	dx := float64(x - tx)
	dz := float64(z - tz)
	return math.Sqrt(dx*dx + dz*dz)
}

// nodeKey uniquely identifies a cell for the closed set.
type nodeKey struct {
	x, z int
}

// nodeHeap implements container/heap for the A* open list (min-heap by fCost).
type nodeHeap []*gridNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].fCost < h[j].fCost }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *nodeHeap) Push(x any)        { n := x.(*gridNode); n.index = len(*h); *h = append(*h, n) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil // GC
	node.index = -1
	*h = old[:n-1]
	return node
}
