package navigation

import "github.com/samdwyer/cellcrawl/internal/geom"

// Mover is anything that occupies a tile while it lives. *entity.Enemy implements it.
type Mover interface {
	Tile(tileSize float64) geom.Point
	Alive() bool
}

// Blockers keeps the tiles of the active cell's movers marked on a grid.
// It remembers what it marked so the next update can clear it.
type Blockers struct {
	grid     *Grid
	tileSize float64
	marked   map[Mover]geom.Point
}

// NewBlockers creates a tracker for grid.
func NewBlockers(grid *Grid, tileSize float64) *Blockers {
	return &Blockers{grid: grid, tileSize: tileSize, marked: make(map[Mover]geom.Point)}
}

// Update clears every tile marked last frame, then marks the current tile of
// each living mover. Dead and absent movers are forgotten.
func (b *Blockers) Update(movers []Mover) {
	for _, p := range b.marked {
		b.grid.release(p)
	}
	clear(b.marked)

	for _, m := range movers {
		if m == nil || !m.Alive() {
			continue
		}
		p := b.grid.Clamp(m.Tile(b.tileSize))
		b.grid.block(p)
		b.marked[m] = p
	}
}

// Forget drops all remembered tiles without touching the grid. Used after the
// grid has been rebuilt for another cell.
func (b *Blockers) Forget() {
	clear(b.marked)
}

// Len returns how many movers are currently marked.
func (b *Blockers) Len() int { return len(b.marked) }
