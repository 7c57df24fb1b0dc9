package entity

import "github.com/samdwyer/cellcrawl/internal/geom"

// Container is a chest placed by a template. Striking it opens it once.
type Container struct {
	X, Y   float64 // Center position in world units
	W, H   float64
	Items  int
	Open   bool
	Looted bool

	visible bool
}

// NewContainer creates a closed, hidden container holding items.
func NewContainer(x, y float64, items int) *Container {
	return &Container{X: x, Y: y, W: 64, H: 64, Items: items}
}

// Tile returns the grid tile under the container.
func (c *Container) Tile(tileSize float64) geom.Point {
	return geom.Point{X: int(c.X / tileSize), Y: int(c.Y / tileSize)}
}

// Visible returns true if the container is shown.
func (c *Container) Visible() bool { return c.visible }

// SetVisible shows or hides the container.
func (c *Container) SetVisible(v bool) { c.visible = v }

// Loot opens the container and returns the number of items dropped.
// A looted container yields nothing.
func (c *Container) Loot() int {
	if c.Looted {
		return 0
	}
	c.Open = true
	c.Looted = true
	return c.Items
}
