package lighting

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/cellcrawl/internal/entity"
)

const tileSize = 64.0

var black = colorful.Color{}

// wallSet is a Walls stub keyed by tile.
type wallSet map[[2]int]bool

func (w wallSet) Solid(x, y int) bool { return w[[2]int{x, y}] }

// lightAt places a light on the center of tile (x,y).
func lightAt(x, y int, c colorful.Color, intensity float64) *entity.LightSource {
	l := entity.NewLightSource(entity.LightTorch, float64(x)*tileSize+tileSize/2, float64(y)*tileSize+tileSize/2, c, intensity)
	l.Enabled = true
	return l
}

func chebyshev(ax, ay, bx, by int) int {
	return max(abs(ax-bx), abs(ay-by))
}

func manhattan(ax, ay, bx, by int) int {
	return abs(ax-bx) + abs(ay-by)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestLightDecaysWithDistance(t *testing.T) {
	f := NewField(11, 11, tileSize, black, 0, 0.2)
	f.Recompute([]*entity.LightSource{lightAt(5, 5, colorful.Color{R: 1, G: 1, B: 1}, 0.9)}, nil)

	// Rings of the 8-neighbour flood. A ring is only entered while the
	// attenuated value beats the dark tile by another full step.
	rings := []float64{0.9, 0.7, 0.5, 0.3, 0, 0}
	for y := 0; y < 11; y++ {
		for x := 0; x < 11; x++ {
			d := chebyshev(x, y, 5, 5)
			got := f.At(x, y).A
			assert.InDelta(t, rings[d], got, 1e-9, "tile (%d,%d) ring %d", x, y, d)

			bound := math.Max(0.9-0.2*float64(manhattan(x, y, 5, 5)), 0)
			if d == manhattan(x, y, 5, 5) {
				assert.LessOrEqual(t, got, bound+1e-9, "tile (%d,%d) exceeds the decay bound", x, y)
			}
		}
	}
}

func TestOpenFloorScenario(t *testing.T) {
	f := NewField(5, 5, tileSize, colorful.Color{R: 0.48, G: 0.62, B: 0.69}, 0.2, 0.2)
	f.Recompute([]*entity.LightSource{lightAt(0, 0, colorful.Color{R: 0.9, G: 0.55, B: 0.1}, 0.9)}, nil)

	assert.InDelta(t, 0.9, f.At(0, 0).A, 1e-9)
	assert.InDelta(t, 0.7, f.At(1, 1).A, 1e-9)
	assert.InDelta(t, 0.5, f.At(2, 0).A, 1e-9)
	assert.InDelta(t, 0.5, f.At(2, 2).A, 1e-9)

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if manhattan(x, y, 0, 0) >= 5 {
				assert.InDelta(t, 0.2, f.At(x, y).A, 1e-9, "tile (%d,%d) should stay ambient", x, y)
			}
		}
	}
	assert.InDelta(t, 0.2, f.At(3, 0).A, 1e-9, "the third ring stays ambient")
}

func TestLaterRingDoesNotShadowNearerOne(t *testing.T) {
	f := NewField(3, 3, tileSize, black, 0, 0.2)
	f.Recompute([]*entity.LightSource{lightAt(1, 1, colorful.Color{R: 1}, 0.9)}, nil)

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x == 1 && y == 1 {
				continue
			}
			assert.InDelta(t, 0.7, f.At(x, y).A, 1e-9, "tile (%d,%d)", x, y)
		}
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	lights := []*entity.LightSource{
		lightAt(1, 1, colorful.Color{R: 1}, 0.9),
		lightAt(6, 3, colorful.Color{G: 1}, 1.0),
		lightAt(3, 2, colorful.Color{B: 1}, 0.9),
	}
	walls := wallSet{{4, 1}: true, {4, 2}: true, {4, 3}: true}

	f := NewField(8, 5, tileSize, colorful.Color{R: 0.48, G: 0.62, B: 0.69}, 0.2, 0.2)
	f.Recompute(lights, walls)
	values := append([]Value(nil), f.values...)
	corners := append([]Corners(nil), f.corners...)

	f.Recompute(lights, walls)
	require.Equal(t, values, f.values)
	require.Equal(t, corners, f.corners)
}

func TestWallsBlockLight(t *testing.T) {
	f := NewField(5, 1, tileSize, black, 0, 0.2)
	f.Recompute([]*entity.LightSource{lightAt(0, 0, colorful.Color{R: 1}, 0.9)}, wallSet{{2, 0}: true})

	assert.InDelta(t, 0.7, f.At(1, 0).A, 1e-9)
	assert.Zero(t, f.At(2, 0).A, "the wall itself stays dark")
	assert.Zero(t, f.At(3, 0).A)
	assert.Zero(t, f.At(4, 0).A)
}

func TestColorsAreAveraged(t *testing.T) {
	f := NewField(2, 1, tileSize, black, 0, 0.2)
	f.Recompute([]*entity.LightSource{lightAt(0, 0, colorful.Color{R: 1}, 0.9)}, nil)

	src := f.At(0, 0)
	assert.InDelta(t, 1.0, src.R, 1e-9, "source tile takes the light color")

	n := f.At(1, 0)
	assert.InDelta(t, 0.5, n.R, 1e-9, "neighbour blends with ambient")
	assert.InDelta(t, 0.7, n.A, 1e-9)
}

func TestDisabledLightsAreIgnored(t *testing.T) {
	f := NewField(3, 3, tileSize, black, 0.2, 0.2)
	l := lightAt(1, 1, colorful.Color{R: 1}, 0.9)
	l.Enabled = false
	f.Recompute([]*entity.LightSource{l, nil}, nil)

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, f.Ambient(), f.At(x, y))
		}
	}
}

func TestSourcesOutsideAreClamped(t *testing.T) {
	f := NewField(4, 4, tileSize, black, 0, 0.2)
	l := entity.NewLightSource(entity.LightOrb, -500, 10_000, colorful.Color{G: 1}, 1.0)
	l.Enabled = true
	f.Recompute([]*entity.LightSource{l}, nil)

	assert.InDelta(t, 1.0, f.At(0, 3).A, 1e-9)
}

func TestCorners(t *testing.T) {
	f := NewField(2, 1, tileSize, black, 0, 0.2)
	f.Recompute([]*entity.LightSource{lightAt(0, 0, colorful.Color{R: 1}, 0.9)}, nil)

	c := f.CornersAt(0, 0)
	assert.InDelta(t, 0.9, c.TopLeft.A, 1e-9)
	assert.InDelta(t, 0.9, c.BottomLeft.A, 1e-9)
	assert.InDelta(t, 0.85, c.TopRight.A, 1e-9)
	assert.InDelta(t, 0.85, c.BottomRight.A, 1e-9)

	c = f.CornersAt(1, 0)
	assert.InDelta(t, 0.75, c.TopLeft.A, 1e-9)
	assert.InDelta(t, 0.7, c.TopRight.A, 1e-9)
}

func TestIntensityAt(t *testing.T) {
	f := NewField(4, 4, tileSize, black, 0, 0.2)
	f.Recompute([]*entity.LightSource{lightAt(1, 1, colorful.Color{R: 1}, 0.9)}, nil)

	assert.InDelta(t, 0.9, f.IntensityAt(100, 100), 1e-9)
	assert.InDelta(t, 0.7, f.IntensityAt(-50, -50), 1e-9, "clamped to tile (0,0)")
	assert.InDelta(t, 0.5, f.IntensityAt(3*tileSize+10, 3*tileSize+10), 1e-9)
}

func TestThrottle(t *testing.T) {
	th := Throttle{Every: 3}

	var got []bool
	for i := 0; i < 7; i++ {
		got = append(got, th.Ready())
	}
	assert.Equal(t, []bool{true, false, false, true, false, false, true}, got)

	th.MarkDirty()
	assert.True(t, th.Ready(), "dirty forces the next frame")
	assert.False(t, th.Ready())

	var every Throttle
	assert.True(t, every.Ready())
	assert.True(t, every.Ready())
}
