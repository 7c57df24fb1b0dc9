package world

import (
	"fmt"

	"github.com/samdwyer/cellcrawl/internal/catalog"
	"github.com/samdwyer/cellcrawl/internal/geom"
)

// Graph is the assembled level: a flat arena of cells addressed by CellID,
// indexed by map position.
type Graph struct {
	cells []*Cell
	byPos map[geom.Point]CellID
	root  CellID
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{byPos: make(map[geom.Point]CellID), root: NoCell}
}

// Add places a new cell of type t at pos and returns it.
// The first cell added becomes the root.
func (g *Graph) Add(t *catalog.CellType, pos geom.Point) *Cell {
	id := CellID(len(g.cells))
	c := newCell(id, t, pos)
	g.cells = append(g.cells, c)
	g.byPos[pos] = id
	if g.root == NoCell {
		g.root = id
	}
	return c
}

// Link connects a on edge d to b on the opposite edge.
func (g *Graph) Link(a CellID, d geom.Direction, b CellID) {
	g.cells[a].neighbors[d] = b
	g.cells[b].neighbors[d.Opposite()] = a
}

// Cell returns the cell with the given id, or nil.
func (g *Graph) Cell(id CellID) *Cell {
	if id < 0 || int(id) >= len(g.cells) {
		return nil
	}
	return g.cells[id]
}

// At returns the cell at map position pos, or nil.
func (g *Graph) At(pos geom.Point) *Cell {
	id, ok := g.byPos[pos]
	if !ok {
		return nil
	}
	return g.cells[id]
}

// Root returns the starting cell, or nil for an empty graph.
func (g *Graph) Root() *Cell { return g.Cell(g.root) }

// Cells returns every cell in creation order.
func (g *Graph) Cells() []*Cell { return g.cells }

// Len returns the number of cells.
func (g *Graph) Len() int { return len(g.cells) }

// Exits returns the cells whose template holds the level exit.
func (g *Graph) Exits() []*Cell {
	var exits []*Cell
	for _, c := range g.cells {
		if c.Type.HasExit() {
			exits = append(exits, c)
		}
	}
	return exits
}

// Validate checks that every link is backed by connectors on both sides,
// points back, and joins map-adjacent cells.
func (g *Graph) Validate() error {
	for _, c := range g.cells {
		for _, d := range geom.Directions() {
			nid := c.neighbors[d]
			if nid == NoCell {
				continue
			}
			n := g.Cell(nid)
			switch {
			case n == nil:
				return fmt.Errorf("cell %d %s: dangling neighbor %d", c.ID, d, nid)
			case !c.Type.HasConnection(d):
				return fmt.Errorf("cell %d: linked %s without a %s connector", c.ID, d, d)
			case !n.Type.HasConnection(d.Opposite()):
				return fmt.Errorf("cell %d: neighbor %d lacks a %s connector", c.ID, nid, d.Opposite())
			case n.neighbors[d.Opposite()] != c.ID:
				return fmt.Errorf("cell %d %s: neighbor %d does not link back", c.ID, d, nid)
			case n.MapPos != c.MapPos.Step(d):
				return fmt.Errorf("cell %d %s: neighbor %d at %v is not adjacent", c.ID, d, nid, n.MapPos)
			}
		}
	}
	return nil
}
