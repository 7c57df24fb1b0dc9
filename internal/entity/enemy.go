// Package entity provides the occupants of a cell: enemies, containers,
// light sources and the player.
package entity

import (
	"math"
	"math/rand"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/samdwyer/cellcrawl/internal/combat"
	"github.com/samdwyer/cellcrawl/internal/gamedata"
	"github.com/samdwyer/cellcrawl/internal/geom"
)

// hitFrames is how long an enemy shrugs off further hits after taking one.
const hitFrames = 14

// Enemy represents a hostile creature placed in a cell.
type Enemy struct {
	ID     uuid.UUID
	Def    *gamedata.EnemyDef // Kind definition (stat factors, speeds)
	Name   string             // Display name (e.g., "Stone Goblin")
	Symbol rune               // Display symbol
	X, Y   float64            // Center position in world units, relative to the cell origin
	W, H   float64            // Size in world units

	Strength  int
	Agility   int
	Health    int
	MaxHealth int

	// Chase state, kept while the cell is inactive.
	Path       []geom.Point
	PathIndex  int
	Traversing bool

	// Attack state
	Attacking     bool
	Facing        geom.Direction
	attackTimeout int
	windup        float64
	hitCooldown   int

	visible   bool
	suspended bool
}

// LevelFactor returns the stat scale for a dungeon depth.
func LevelFactor(depth int) int {
	lf := int(float64(depth) * 1.5)
	if lf < 1 {
		lf = 1
	}
	return lf
}

// NewEnemy creates a hidden, suspended enemy of kind def at (x,y) with stats
// scaled by depth. rng is consumed for strength, agility and health in that order.
func NewEnemy(def *gamedata.EnemyDef, x, y float64, depth int, rng *rand.Rand) *Enemy {
	lf := LevelFactor(depth)

	strength := int(float64(rng.Intn(lf)) + float64(lf*10)*def.StrengthFactor)
	agility := int(float64(rng.Intn(lf)) + float64(lf*4)*def.AgilityFactor)
	health := int(100 + float64(rng.Intn(lf))*def.HealthFactor)

	return &Enemy{
		ID:        uuid.New(),
		Def:       def,
		Name:      def.Name,
		Symbol:    def.GlyphRune(),
		X:         x,
		Y:         y,
		W:         80,
		H:         80,
		Strength:  strength,
		Agility:   agility,
		Health:    health,
		MaxHealth: health,
		Facing:    geom.Bottom,
		suspended: true,
	}
}

// Position returns the enemy's center.
func (e *Enemy) Position() (float64, float64) {
	return e.X, e.Y
}

// Tile returns the grid tile under the enemy's center.
func (e *Enemy) Tile(tileSize float64) geom.Point {
	return geom.Point{X: int(math.Floor(e.X / tileSize)), Y: int(math.Floor(e.Y / tileSize))}
}

// Alive returns true while the enemy has health left.
func (e *Enemy) Alive() bool { return e.Health > 0 }

// Visible returns true if the enemy is shown.
func (e *Enemy) Visible() bool { return e.visible }

// Suspended returns true if the enemy is excluded from simulation.
func (e *Enemy) Suspended() bool { return e.suspended }

// SetVisible shows and resumes the enemy, or hides and suspends it.
func (e *Enemy) SetVisible(v bool) {
	e.visible = v
	e.suspended = !v
}

// Color returns the tcell color for this enemy.
func (e *Enemy) Color() tcell.Color {
	if e.Def != nil {
		return e.Def.TCellColor()
	}
	return tcell.ColorPurple
}

// CanBeHit returns false while the enemy is still reeling from the last hit.
func (e *Enemy) CanBeHit() bool { return e.hitCooldown == 0 }

// MarkHit starts the hit cooldown.
func (e *Enemy) MarkHit() { e.hitCooldown = hitFrames }

// TryAttack starts winding up an attack towards facing if the enemy is rested.
func (e *Enemy) TryAttack(facing geom.Direction) bool {
	if e.attackTimeout > 0 || e.Attacking || !e.Alive() {
		return false
	}
	e.Attacking = true
	e.Facing = facing
	e.windup = 0
	if e.Def != nil {
		e.attackTimeout = e.Def.AttackTimeout
	}
	return true
}

// Tick advances timers by one frame. It returns true on the frame a wound-up
// attack lands.
func (e *Enemy) Tick() bool {
	if e.hitCooldown > 0 {
		e.hitCooldown--
	}
	if !e.Alive() {
		e.Attacking = false
		return false
	}

	if !e.Attacking {
		if e.attackTimeout > 0 {
			e.attackTimeout--
		}
		return false
	}

	if e.windup < 1 {
		speed := 0.01
		if e.Def != nil {
			speed = e.Def.AttackSpeed
		}
		e.windup += speed
		return false
	}

	e.windup = 0
	e.Attacking = false
	return true
}

// AttackArea returns the box an attack in the current facing covers.
func (e *Enemy) AttackArea() geom.Box {
	switch e.Facing {
	case geom.Left:
		return geom.Box{X: e.X - 128 - 32, Y: e.Y - 24, W: 128, H: 48}
	case geom.Right:
		return geom.Box{X: e.X + 32, Y: e.Y - 24, W: 128, H: 48}
	case geom.Top:
		return geom.Box{X: e.X - 24, Y: e.Y - 128 - 32, W: 48, H: 128}
	default:
		return geom.Box{X: e.X - 24, Y: e.Y + 32, W: 48, H: 128}
	}
}

// MoveTowards steps the enemy at its walking speed towards (x,y) and returns
// the remaining distance.
func (e *Enemy) MoveTowards(x, y float64) float64 {
	dx := x - e.X
	dy := y - e.Y
	ln := math.Hypot(dx, dy)
	speed := 1.0
	if e.Def != nil {
		speed = e.Def.WalkSpeed
	}
	if ln <= speed {
		e.X, e.Y = x, y
		return 0
	}
	e.X += dx / ln * speed
	e.Y += dy / ln * speed
	return math.Hypot(x-e.X, y-e.Y)
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetName returns the enemy's name.
func (e *Enemy) GetName() string { return e.Name }

// IsAlive returns true if the enemy has health remaining.
func (e *Enemy) IsAlive() bool { return e.Alive() }

// GetHealth returns current health.
func (e *Enemy) GetHealth() int { return e.Health }

// GetStrength returns the strength stat.
func (e *Enemy) GetStrength() int { return e.Strength }

// GetAgility returns the agility stat.
func (e *Enemy) GetAgility() int { return e.Agility }

// TakeDamage reduces health and returns actual damage taken.
func (e *Enemy) TakeDamage(amount int) int {
	if amount <= 0 || e.Health <= 0 {
		return 0
	}
	actual := amount
	if actual > e.Health {
		actual = e.Health
	}
	e.Health -= actual
	return actual
}

// Ensure Enemy implements combat.Combatant
var _ combat.Combatant = (*Enemy)(nil)
