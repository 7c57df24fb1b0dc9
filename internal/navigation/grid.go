// Package navigation maintains the occupancy grid enemies path over and the
// pathfinding contract they use.
package navigation

import "github.com/samdwyer/cellcrawl/internal/geom"

// Occupancy values.
const (
	Free    byte = 0
	Blocked byte = 127
)

// Walls reports which tiles are permanently solid. *catalog.CellType implements it.
type Walls interface {
	Solid(x, y int) bool
}

// Grid is the occupancy of the active cell, one byte per tile.
type Grid struct {
	width, height int
	cells         []byte
	static        []bool // walls and containers; never cleared by movers
}

// NewGrid creates an all-free grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]byte, width*height),
		static: make([]bool, width*height),
	}
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// InBounds returns true if p lies inside the grid.
func (g *Grid) InBounds(p geom.Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Clamp moves p into the grid.
func (g *Grid) Clamp(p geom.Point) geom.Point {
	return p.Clamp(g.width, g.height)
}

// At returns the occupancy at p. Tiles outside the grid are blocked.
func (g *Grid) At(p geom.Point) byte {
	if !g.InBounds(p) {
		return Blocked
	}
	return g.cells[p.X+p.Y*g.width]
}

// IsFree returns true if p is inside the grid and unoccupied.
func (g *Grid) IsFree(p geom.Point) bool {
	return g.At(p) == Free
}

// Reset frees every tile, walls included.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = Free
		g.static[i] = false
	}
}

// MarkWalls resets the grid and blocks every solid tile for good.
func (g *Grid) MarkWalls(walls Walls) {
	g.Reset()
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if walls.Solid(x, y) {
				g.MarkStatic(geom.Point{X: x, Y: y})
			}
		}
	}
}

// MarkStatic blocks p until the next MarkWalls or Reset.
func (g *Grid) MarkStatic(p geom.Point) {
	if !g.InBounds(p) {
		return
	}
	i := p.X + p.Y*g.width
	g.cells[i] = Blocked
	g.static[i] = true
}

// block marks a dynamic occupant.
func (g *Grid) block(p geom.Point) {
	if g.InBounds(p) {
		g.cells[p.X+p.Y*g.width] = Blocked
	}
}

// release frees a dynamic occupant unless the tile is static.
func (g *Grid) release(p geom.Point) {
	if !g.InBounds(p) {
		return
	}
	i := p.X + p.Y*g.width
	if !g.static[i] {
		g.cells[i] = Free
	}
}

// BlockedCount returns how many tiles are blocked.
func (g *Grid) BlockedCount() int {
	n := 0
	for _, c := range g.cells {
		if c != Free {
			n++
		}
	}
	return n
}
