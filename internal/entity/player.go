package entity

import (
	"math"

	"github.com/samdwyer/cellcrawl/internal/combat"
	"github.com/samdwyer/cellcrawl/internal/geom"
)

// Player is the single adventurer walking the level.
type Player struct {
	X, Y   float64 // Center position in world units, relative to the active cell
	Symbol rune    // Display symbol
	Facing geom.Direction

	Health    int
	MaxHealth int
	Strength  int
	Agility   int

	Depth       int // Dungeon depth, scales xp rewards
	XPLevel     int
	XP          int
	XPUntilNext int
}

// NewPlayer creates a new player at the given position.
func NewPlayer(x, y float64, depth int) *Player {
	return &Player{
		X:           x,
		Y:           y,
		Symbol:      '@',
		Facing:      geom.Bottom,
		Health:      107,
		MaxHealth:   107,
		Strength:    5,
		Agility:     5,
		Depth:       depth,
		XPUntilNext: 100,
	}
}

// Move updates the player position by the given delta and turns to face it.
func (p *Player) Move(dx, dy float64) {
	p.X += dx
	p.Y += dy
	switch {
	case math.Abs(dx) > math.Abs(dy) && dx < 0:
		p.Facing = geom.Left
	case math.Abs(dx) > math.Abs(dy):
		p.Facing = geom.Right
	case dy < 0:
		p.Facing = geom.Top
	case dy > 0:
		p.Facing = geom.Bottom
	}
}

// Position returns the current coordinates.
func (p *Player) Position() (float64, float64) {
	return p.X, p.Y
}

// Tile returns the grid tile under the player's center.
func (p *Player) Tile(tileSize float64) geom.Point {
	return geom.Point{X: int(math.Floor(p.X / tileSize)), Y: int(math.Floor(p.Y / tileSize))}
}

// StrikeBox returns the 64×64 area in front of the player a swing covers.
func (p *Player) StrikeBox(tileSize float64) geom.Box {
	dx, dy := p.Facing.Delta()
	cx := p.X + float64(dx)*tileSize
	cy := p.Y + float64(dy)*tileSize
	return geom.Box{X: cx - tileSize/2, Y: cy - tileSize/2, W: tileSize, H: tileSize}
}

// AddXP adds experience and levels up when the threshold is reached.
// It returns true on a level-up.
func (p *Player) AddXP(amount int) bool {
	p.XP += amount
	if p.XP < p.XPUntilNext {
		return false
	}

	p.XP = 0
	p.XPLevel++
	p.XPUntilNext += p.XPUntilNext
	p.MaxHealth = int(float64(p.MaxHealth) * 1.3)
	p.Strength = int(float64(p.Strength) * 1.2)
	p.Agility = int(float64(p.Agility) * 1.2)
	return true
}

// OrbValue returns the xp an orb is worth at the player's depth.
func (p *Player) OrbValue() int {
	return 5 * p.Depth
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetName returns the player's name.
func (p *Player) GetName() string { return "You" }

// IsAlive returns true if the player has health remaining.
func (p *Player) IsAlive() bool { return p.Health > 0 }

// GetHealth returns current health.
func (p *Player) GetHealth() int { return p.Health }

// GetStrength returns the strength stat.
func (p *Player) GetStrength() int { return p.Strength }

// GetAgility returns the agility stat.
func (p *Player) GetAgility() int { return p.Agility }

// TakeDamage reduces health and returns actual damage taken.
func (p *Player) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > p.Health {
		actual = p.Health
	}
	p.Health -= actual
	return actual
}

// Ensure Player implements combat.Combatant
var _ combat.Combatant = (*Player)(nil)
