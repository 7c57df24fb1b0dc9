// Package lighting computes the per-tile light field of the active cell.
//
// Every recompute resets the field to ambient, seeds the tile under each
// enabled light and floods outward, losing a fixed attenuation per step and
// stopping at solid tiles. A smoothing pass then derives the four corner
// values of every tile for the renderer.
package lighting

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/zyedidia/generic/queue"

	"github.com/samdwyer/cellcrawl/internal/entity"
)

// Walls reports which tiles block light. *catalog.CellType implements it.
type Walls interface {
	Solid(x, y int) bool
}

// Value is the light on one tile: a color plus its intensity in [0,1].
type Value struct {
	colorful.Color
	A float64
}

// Corners holds the smoothed light at the four vertices of a tile.
type Corners struct {
	TopLeft, TopRight, BottomLeft, BottomRight Value
}

// Field is the light buffer of one cell. It is owned by the level and
// handed to the renderer by reference.
type Field struct {
	width, height int
	tileSize      float64
	ambient       Value
	attenuation   float64

	values  []Value
	corners []Corners
	walls   Walls
}

// NewField creates a width×height field filled with ambient light.
func NewField(width, height int, tileSize float64, ambient colorful.Color, ambientIntensity, attenuation float64) *Field {
	f := &Field{
		width:       width,
		height:      height,
		tileSize:    tileSize,
		ambient:     Value{Color: ambient, A: ambientIntensity},
		attenuation: attenuation,
		values:      make([]Value, width*height),
		corners:     make([]Corners, width*height),
	}
	f.Reset()
	f.smooth()
	return f
}

// Width returns the field width in tiles.
func (f *Field) Width() int { return f.width }

// Height returns the field height in tiles.
func (f *Field) Height() int { return f.height }

// Ambient returns the unlit value.
func (f *Field) Ambient() Value { return f.ambient }

// Reset fills every tile with ambient light.
func (f *Field) Reset() {
	for i := range f.values {
		f.values[i] = f.ambient
	}
}

// Recompute rebuilds the field from the enabled lights. walls may be nil
// for an open floor.
func (f *Field) Recompute(lights []*entity.LightSource, walls Walls) {
	f.walls = walls
	f.Reset()

	for _, l := range lights {
		if l == nil || !l.Enabled {
			continue
		}
		x, y := f.tileAt(l.X, l.Y)
		v := Value{Color: l.Color, A: l.Intensity}
		if i := x + y*f.width; f.values[i].A < v.A {
			f.values[i] = v
		}
		f.spreadLight(x, y, v)
	}

	f.smooth()
}

// spread is one pending step of the flood.
type spread struct {
	x, y int
	v    Value
}

// spreadLight floods v outward from (x,y) in rings. A tile is brightened
// when the arriving value beats it, then every walkable neighbour that is
// darker than the attenuated value by more than one further attenuation
// step is queued with that value. Rings arrive in distance order, so each
// tile keeps the value of its shortest route.
func (f *Field) spreadLight(x, y int, v Value) {
	q := queue.New[spread]()
	q.Enqueue(spread{x: x, y: y, v: v})

	for !q.Empty() {
		s := q.Dequeue()
		if s.v.A <= 0 || !f.inBounds(s.x, s.y) {
			continue
		}

		cur := &f.values[s.x+s.y*f.width]
		if cur.A < s.v.A {
			*cur = Value{Color: cur.Color.BlendRgb(s.v.Color, 0.5), A: math.Max(cur.A, s.v.A)}
		}

		next := Value{Color: s.v.Color, A: s.v.A - f.attenuation}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := s.x+dx, s.y+dy
				if !f.inBounds(nx, ny) || f.solid(nx, ny) {
					continue
				}
				if f.values[nx+ny*f.width].A < next.A-f.attenuation {
					q.Enqueue(spread{x: nx, y: ny, v: next})
				}
			}
		}
	}
}

// smooth derives the corner values: each corner is the average of the four
// tiles sharing it, with out-of-bounds tiles replaced by the tile itself.
func (f *Field) smooth() {
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			self := f.values[x+y*f.width]
			at := func(dx, dy int) Value {
				nx, ny := x+dx, y+dy
				if !f.inBounds(nx, ny) {
					return self
				}
				return f.values[nx+ny*f.width]
			}

			f.corners[x+y*f.width] = Corners{
				TopLeft:     average(self, at(-1, -1), at(-1, 0), at(0, -1)),
				TopRight:    average(self, at(1, -1), at(1, 0), at(0, -1)),
				BottomLeft:  average(self, at(-1, 1), at(-1, 0), at(0, 1)),
				BottomRight: average(self, at(1, 1), at(1, 0), at(0, 1)),
			}
		}
	}
}

// Mean returns the average of the four corners.
func (c Corners) Mean() Value {
	return average(c.TopLeft, c.TopRight, c.BottomLeft, c.BottomRight)
}

func average(vs ...Value) Value {
	var out Value
	for _, v := range vs {
		out.R += v.R
		out.G += v.G
		out.B += v.B
		out.A += v.A
	}
	n := float64(len(vs))
	out.R /= n
	out.G /= n
	out.B /= n
	out.A /= n
	return out
}

// At returns the light of tile (x,y), clamped into the field.
func (f *Field) At(x, y int) Value {
	x, y = f.clamp(x, y)
	return f.values[x+y*f.width]
}

// CornersAt returns the smoothed vertex values of tile (x,y), clamped into the field.
func (f *Field) CornersAt(x, y int) Corners {
	x, y = f.clamp(x, y)
	return f.corners[x+y*f.width]
}

// IntensityAt returns the light intensity under a world position.
func (f *Field) IntensityAt(worldX, worldY float64) float64 {
	x, y := f.tileAt(worldX, worldY)
	return f.values[x+y*f.width].A
}

func (f *Field) tileAt(worldX, worldY float64) (int, int) {
	return f.clamp(int(math.Floor(worldX/f.tileSize)), int(math.Floor(worldY/f.tileSize)))
}

func (f *Field) clamp(x, y int) (int, int) {
	return min(max(x, 0), f.width-1), min(max(y, 0), f.height-1)
}

func (f *Field) inBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

func (f *Field) solid(x, y int) bool {
	return f.walls != nil && f.walls.Solid(x, y)
}
