// Package world holds the level graph: concrete cells placed on an integer
// map and linked through their template connectors.
package world

import (
	"github.com/samdwyer/cellcrawl/internal/catalog"
	"github.com/samdwyer/cellcrawl/internal/entity"
	"github.com/samdwyer/cellcrawl/internal/geom"
)

// CellID indexes a cell in its graph.
type CellID int

// NoCell marks a missing neighbor.
const NoCell CellID = -1

// Cell is one placed instance of a template plus the occupants it owns.
type Cell struct {
	ID     CellID
	Type   *catalog.CellType
	MapPos geom.Point

	Enemies    []*entity.Enemy
	Containers []*entity.Container
	Lights     []*entity.LightSource

	neighbors [geom.NumDirections]CellID
	visible   bool
}

func newCell(id CellID, t *catalog.CellType, pos geom.Point) *Cell {
	c := &Cell{ID: id, Type: t, MapPos: pos}
	for i := range c.neighbors {
		c.neighbors[i] = NoCell
	}
	return c
}

// Neighbor returns the cell linked on edge d, or NoCell.
func (c *Cell) Neighbor(d geom.Direction) CellID {
	if !d.IsValid() {
		return NoCell
	}
	return c.neighbors[d]
}

// HasNeighbor returns true if edge d is linked.
func (c *Cell) HasNeighbor(d geom.Direction) bool {
	return c.Neighbor(d) != NoCell
}

// NumNeighbors returns the number of linked edges.
func (c *Cell) NumNeighbors() int {
	n := 0
	for _, id := range c.neighbors {
		if id != NoCell {
			n++
		}
	}
	return n
}

// Visible returns true while the cell is the active one.
func (c *Cell) Visible() bool { return c.visible }

// SetVisible shows or hides the cell and propagates to every occupant:
// living enemies resume or suspend, static lights switch on or off.
func (c *Cell) SetVisible(v bool) {
	c.visible = v
	for _, e := range c.Enemies {
		e.SetVisible(v && e.Alive())
	}
	for _, ct := range c.Containers {
		ct.SetVisible(v)
	}
	for _, l := range c.Lights {
		l.Enabled = v
	}
}

// PruneDead drops dead enemies for good and returns how many were removed.
func (c *Cell) PruneDead() int {
	alive := c.Enemies[:0]
	removed := 0
	for _, e := range c.Enemies {
		if e.Alive() {
			alive = append(alive, e)
		} else {
			removed++
		}
	}
	for i := len(alive); i < len(c.Enemies); i++ {
		c.Enemies[i] = nil
	}
	c.Enemies = alive
	return removed
}

// LivingEnemies returns the enemies with health left.
func (c *Cell) LivingEnemies() []*entity.Enemy {
	var out []*entity.Enemy
	for _, e := range c.Enemies {
		if e.Alive() {
			out = append(out, e)
		}
	}
	return out
}
