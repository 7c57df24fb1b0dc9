// Package geom provides the small value types shared by the world, lighting and
// navigation packages: cardinal directions, integer grid points and boxes.
package geom

// Direction is one of the four cell edges a room can connect on.
type Direction int

const (
	Top Direction = iota
	Bottom
	Left
	Right
)

// NumDirections is the number of cardinal directions.
const NumDirections = 4

// Directions returns all directions in index order.
func Directions() []Direction {
	return []Direction{Top, Bottom, Left, Right}
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// IsValid returns true if d is one of the four cardinal directions.
func (d Direction) IsValid() bool {
	return d >= Top && d <= Right
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	default:
		return d
	}
}

// Delta returns the map offset of one step in this direction.
// Y grows downwards, so Top is -1.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Top:
		return 0, -1
	case Bottom:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Point is an integer grid coordinate.
type Point struct {
	X, Y int
}

// Step returns the point one step away in direction d.
func (p Point) Step(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Clamp returns p limited to [0,width) x [0,height).
func (p Point) Clamp(width, height int) Point {
	if p.X >= width {
		p.X = width - 1
	}
	if p.Y >= height {
		p.Y = height - 1
	}
	if p.X < 0 {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = 0
	}
	return p
}

// Box is an axis-aligned rectangle; X,Y is the top-left corner.
type Box struct {
	X, Y, W, H float64
}

// Overlaps returns true if a centered w×h rectangle at (x,y) touches the box.
func (b Box) Overlaps(x, y, w, h float64) bool {
	w2 := w * 0.5
	h2 := h * 0.5
	return x+w2 >= b.X && x-w2 <= b.X+b.W &&
		y+h2 >= b.Y && y-h2 <= b.Y+b.H
}

// Contains returns true if the point lies inside the box.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.W && y >= b.Y && y <= b.Y+b.H
}
