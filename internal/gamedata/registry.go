package gamedata

import (
	"errors"
	"math/rand"
)

// EnemyRegistry holds loaded enemy definitions and provides spawning utilities.
type EnemyRegistry struct {
	enemies []EnemyDef
}

// NewEnemyRegistry creates a registry from loaded enemy definitions.
func NewEnemyRegistry(enemies []EnemyDef) *EnemyRegistry {
	return &EnemyRegistry{enemies: enemies}
}

// LoadEnemyRegistry loads and creates a registry from the embedded enemies.json.
func LoadEnemyRegistry() (*EnemyRegistry, error) {
	enemies, err := LoadEnemies()
	if err != nil {
		return nil, err
	}
	if len(enemies) == 0 {
		return nil, errors.New("no enemies loaded from enemies.json")
	}
	return NewEnemyRegistry(enemies), nil
}

// MustLoadEnemyRegistry loads a registry, panicking on error.
func MustLoadEnemyRegistry() *EnemyRegistry {
	registry, err := LoadEnemyRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnRandom selects a random enemy definition using weighted probability.
// Enemies with higher spawnWeight are more likely to be selected.
// A non-empty allowed list restricts the pick to those IDs; unknown IDs are
// ignored, and if none match the whole registry is used.
func (r *EnemyRegistry) SpawnRandom(rng *rand.Rand, allowed ...string) *EnemyDef {
	candidates := r.filter(allowed)
	if len(candidates) == 0 {
		candidates = r.indices()
	}

	total := 0
	for _, i := range candidates {
		total += r.enemies[i].SpawnWeight
	}
	if total <= 0 {
		return nil
	}

	// Pick a random value in the total weight range
	roll := rng.Intn(total)

	// Find which enemy this roll corresponds to
	cumulative := 0
	for _, i := range candidates {
		cumulative += r.enemies[i].SpawnWeight
		if roll < cumulative {
			return &r.enemies[i]
		}
	}

	// Fallback (shouldn't happen)
	return &r.enemies[candidates[0]]
}

func (r *EnemyRegistry) indices() []int {
	all := make([]int, len(r.enemies))
	for i := range r.enemies {
		all[i] = i
	}
	return all
}

func (r *EnemyRegistry) filter(ids []string) []int {
	var out []int
	for i := range r.enemies {
		for _, id := range ids {
			if r.enemies[i].ID == id {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// GetByID returns the enemy definition with the given ID, or nil if not found.
func (r *EnemyRegistry) GetByID(id string) *EnemyDef {
	for i := range r.enemies {
		if r.enemies[i].ID == id {
			return &r.enemies[i]
		}
	}
	return nil
}

// Count returns the number of enemy types in the registry.
func (r *EnemyRegistry) Count() int {
	return len(r.enemies)
}
