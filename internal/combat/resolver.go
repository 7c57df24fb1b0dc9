// Package combat resolves real-time strikes between the player and enemies.
package combat

import (
	"fmt"
	"math/rand"
)

// Combatant is the interface for any entity that can trade blows.
// Both the player and enemies implement this interface.
type Combatant interface {
	// Identity
	GetName() string
	IsAlive() bool

	// Stats
	GetHealth() int
	GetStrength() int
	GetAgility() int

	// Mutations
	TakeDamage(amount int) int // Returns actual damage taken
}

// Profile tunes one side's strike formula:
//
//	damage = strength * Multiplier * (roll + RollBonus)
//	crit chance = clamp(AttackerCrit*agility - DefenderCrit*defender agility, 0, 1)
//	crit damage *= rng.Intn(4) + CritBase
type Profile struct {
	Multiplier   float64
	RollBonus    float64
	AttackerCrit float64
	DefenderCrit float64
	CritBase     float64
	MinDamage    int
}

// PlayerStrike is the player's melee swing.
var PlayerStrike = Profile{
	Multiplier:   1.5,
	AttackerCrit: 0.05,
	DefenderCrit: 0.005,
	CritBase:     1.5,
}

// EnemyStrike is an enemy's charged attack. It always lands at least one point.
var EnemyStrike = Profile{
	Multiplier:   3.0,
	RollBonus:    0.1,
	AttackerCrit: 0.075,
	DefenderCrit: 0.005,
	CritBase:     2.0,
	MinDamage:    1,
}

// Result contains the outcome of one strike.
type Result struct {
	Damage  int  // Damage actually removed from the target
	Crit    bool // True if the strike was a critical hit
	Killed  bool // True if the target died from this strike
	Message string
}

// CritChance returns the probability in [0,1] that attacker crits target.
func (p Profile) CritChance(attacker, target Combatant) float64 {
	chance := p.AttackerCrit*float64(attacker.GetAgility()) - p.DefenderCrit*float64(target.GetAgility())
	if chance < 0 {
		return 0
	}
	if chance > 1 {
		return 1
	}
	return chance
}

// Strike rolls damage from attacker against target and applies it.
// rng is consumed as: crit roll, damage roll, then the crit multiplier when critting.
func Strike(rng *rand.Rand, p Profile, attacker, target Combatant) Result {
	if !attacker.IsAlive() || !target.IsAlive() {
		return Result{Message: "no strike"}
	}

	crit := rng.Float64() < p.CritChance(attacker, target)
	damage := float64(attacker.GetStrength()) * p.Multiplier * (rng.Float64() + p.RollBonus)
	if crit {
		damage *= float64(rng.Intn(4)) + p.CritBase
	}

	amount := int(damage)
	if amount < p.MinDamage {
		amount = p.MinDamage
	}

	actual := target.TakeDamage(amount)
	result := Result{
		Damage: actual,
		Crit:   crit,
		Killed: !target.IsAlive(),
	}

	switch {
	case result.Killed:
		result.Message = fmt.Sprintf("%s slays %s!", attacker.GetName(), target.GetName())
	case crit:
		result.Message = fmt.Sprintf("%s crits %s for %d!", attacker.GetName(), target.GetName(), actual)
	default:
		result.Message = fmt.Sprintf("%s hits %s for %d.", attacker.GetName(), target.GetName(), actual)
	}
	return result
}
