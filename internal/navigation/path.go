package navigation

import (
	"github.com/zyedidia/generic/queue"

	"github.com/samdwyer/cellcrawl/internal/geom"
)

// Pathfinder plans a tile path over an occupancy grid. Implementations may
// return a path that stops short of goal; callers validate with ReachesGoal.
type Pathfinder interface {
	FindPath(grid *Grid, start, goal geom.Point) []geom.Point
}

// PathfinderFunc adapts a function to the Pathfinder interface.
type PathfinderFunc func(grid *Grid, start, goal geom.Point) []geom.Point

// FindPath calls f.
func (f PathfinderFunc) FindPath(grid *Grid, start, goal geom.Point) []geom.Point {
	return f(grid, start, goal)
}

// ReachesGoal returns true if path leads somewhere and ends at goal.
func ReachesGoal(path []geom.Point, goal geom.Point) bool {
	return len(path) > 1 && path[len(path)-1] == goal
}

// RequestPath asks pf for a path and discards it unless it reaches goal.
// Start and goal are clamped into the grid first.
func RequestPath(pf Pathfinder, grid *Grid, start, goal geom.Point) ([]geom.Point, bool) {
	start, goal = grid.Clamp(start), grid.Clamp(goal)
	path := pf.FindPath(grid, start, goal)
	if !ReachesGoal(path, goal) {
		return nil, false
	}
	return path, true
}

// BreadthFirst is a 4-connected breadth first search. The start tile may be
// blocked (movers occupy their own tile). When goal cannot be reached it
// returns the path to the reached tile closest to goal.
var BreadthFirst = PathfinderFunc(breadthFirst)

func breadthFirst(grid *Grid, start, goal geom.Point) []geom.Point {
	if !grid.InBounds(start) {
		return nil
	}

	came := map[geom.Point]geom.Point{start: start}
	best, bestDist := start, manhattan(start, goal)

	q := queue.New[geom.Point]()
	q.Enqueue(start)
	for !q.Empty() {
		p := q.Dequeue()
		if p == goal {
			best = p
			break
		}
		if d := manhattan(p, goal); d < bestDist {
			best, bestDist = p, d
		}

		for _, dir := range geom.Directions() {
			n := p.Step(dir)
			if _, seen := came[n]; seen || !grid.IsFree(n) {
				continue
			}
			came[n] = p
			q.Enqueue(n)
		}
	}

	var path []geom.Point
	for p := best; ; p = came[p] {
		path = append(path, p)
		if p == start {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func manhattan(a, b geom.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
