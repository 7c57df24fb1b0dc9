package entity

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// LightKind identifies what emits a light.
type LightKind int

const (
	LightTorch LightKind = iota
	LightCampfire
	LightOrb
	LightPlayer
)

// String returns the light kind name.
func (k LightKind) String() string {
	switch k {
	case LightTorch:
		return "torch"
	case LightCampfire:
		return "campfire"
	case LightOrb:
		return "orb"
	case LightPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// Static returns true for lights owned by a cell for the whole level.
func (k LightKind) Static() bool {
	return k == LightTorch || k == LightCampfire
}

// LightSource is anything that seeds the light field.
type LightSource struct {
	Kind      LightKind
	X, Y      float64 // Center position in world units
	Color     colorful.Color
	Intensity float64
	Enabled   bool
}

// NewLightSource creates a disabled light; cells enable lights on activation.
func NewLightSource(kind LightKind, x, y float64, color colorful.Color, intensity float64) *LightSource {
	return &LightSource{Kind: kind, X: x, Y: y, Color: color, Intensity: intensity}
}

// OrbColor is the green of experience orbs.
var OrbColor = colorful.Color{R: 0, G: 1, B: 0}

const (
	orbPullRange   = 128.0
	orbPickupRange = 8.0
	orbMaxSpeed    = 3.7
)

// Orb is a transient experience pickup dropped by a dying enemy. It glows
// until picked up or until its cell is deactivated.
type Orb struct {
	Light    *LightSource
	Value    int
	PickedUp bool

	pulling bool
	speed   float64
}

// NewOrb creates an enabled orb worth value xp at (x,y).
func NewOrb(x, y float64, value int, intensity float64) *Orb {
	light := NewLightSource(LightOrb, x, y, OrbColor, intensity)
	light.Enabled = true
	return &Orb{Light: light, Value: value}
}

// Position returns the orb's center.
func (o *Orb) Position() (float64, float64) {
	return o.Light.X, o.Light.Y
}

// Update drifts the orb towards a nearby player and reports whether it was
// collected this frame.
func (o *Orb) Update(px, py float64) bool {
	if o.PickedUp {
		return false
	}

	x, y := o.Light.X, o.Light.Y
	if !o.pulling {
		if math.Abs(px-x) <= orbPullRange && math.Abs(py-y) <= orbPullRange {
			o.pulling = true
			o.speed = 0.05
		}
		return false
	}

	dx := px - x
	dy := py - y
	if ln := math.Hypot(dx, dy); ln > 0 {
		o.Light.X += dx / ln * o.speed
		o.Light.Y += dy / ln * o.speed
	}
	if o.speed < orbMaxSpeed {
		o.speed = math.Min(o.speed*2, orbMaxSpeed)
	}

	if math.Abs(px-o.Light.X) <= orbPickupRange && math.Abs(py-o.Light.Y) <= orbPickupRange {
		o.PickedUp = true
		o.Light.Enabled = false
		return true
	}
	return false
}
