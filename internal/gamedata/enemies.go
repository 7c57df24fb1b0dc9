package gamedata

import "github.com/gdamore/tcell/v2"

// EnemyDef defines an enemy kind loaded from JSON.
type EnemyDef struct {
	ID          string `json:"id"`          // Unique identifier (e.g., "stone_goblin")
	Name        string `json:"name"`        // Display name (e.g., "Stone Goblin")
	Glyph       string `json:"glyph"`       // Single character for rendering (e.g., "g")
	Color       string `json:"color"`       // Hex color code (e.g., "#00FF00")
	SpawnWeight int    `json:"spawnWeight"` // Relative spawn frequency (higher = more common)

	// Stat factors applied to the level-scaled base stats.
	StrengthFactor float64 `json:"strengthFactor"`
	HealthFactor   float64 `json:"healthFactor"`
	AgilityFactor  float64 `json:"agilityFactor"`

	WalkSpeed     float64 `json:"walkSpeed"`     // World units per frame
	AttackSpeed   float64 `json:"attackSpeed"`   // Wind-up progress per frame
	AttackTimeout int     `json:"attackTimeout"` // Frames between attacks
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EnemyDef) GlyphRune() rune {
	if len(e.Glyph) == 0 {
		return '?'
	}
	return rune(e.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (e *EnemyDef) TCellColor() tcell.Color {
	c, err := ParseHexColor(e.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return TCell(c)
}

// EnemiesFile represents the structure of enemies.json.
type EnemiesFile struct {
	Enemies []EnemyDef `json:"enemies"`
}

// LoadEnemies loads enemy definitions from the embedded enemies.json file.
func LoadEnemies() ([]EnemyDef, error) {
	file, err := LoadEmbedded[EnemiesFile]("enemies.json")
	if err != nil {
		return nil, err
	}
	return file.Enemies, nil
}

// MustLoadEnemies loads enemy definitions, panicking on error.
func MustLoadEnemies() []EnemyDef {
	enemies, err := LoadEnemies()
	if err != nil {
		panic(err)
	}
	return enemies
}
