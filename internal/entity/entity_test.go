package entity

import (
	"math/rand"
	"testing"

	"github.com/samdwyer/cellcrawl/internal/gamedata"
	"github.com/samdwyer/cellcrawl/internal/geom"
)

func TestNewEnemyStats(t *testing.T) {
	registry := gamedata.MustLoadEnemyRegistry()

	tests := []struct {
		id          string
		depth       int
		minStrength int
		maxStrength int
	}{
		// depth 1: level factor 1, Intn(1) is always 0
		{"stone_goblin", 1, 7, 7},
		{"stone_ogre", 1, 20, 20},
		{"stone_rat", 1, 5, 5},
		// depth 2: level factor 3, roll in [0,3)
		{"stone_ogre", 2, 60, 62},
	}

	for _, tt := range tests {
		rng := rand.New(rand.NewSource(1))
		def := registry.GetByID(tt.id)
		e := NewEnemy(def, 100, 100, tt.depth, rng)

		if e.Strength < tt.minStrength || e.Strength > tt.maxStrength {
			t.Errorf("%s depth %d: Strength = %d, want [%d,%d]", tt.id, tt.depth, e.Strength, tt.minStrength, tt.maxStrength)
		}
		if tt.depth == 1 && e.Health != 100 {
			t.Errorf("%s depth 1: Health = %d, want 100", tt.id, e.Health)
		}
		if e.MaxHealth != e.Health {
			t.Errorf("%s: MaxHealth = %d, want %d", tt.id, e.MaxHealth, e.Health)
		}
		if e.Visible() || !e.Suspended() {
			t.Errorf("%s: new enemy should start hidden and suspended", tt.id)
		}
	}
}

func TestLevelFactor(t *testing.T) {
	tests := []struct {
		depth, want int
	}{
		{0, 1},
		{1, 1},
		{2, 3},
		{3, 4},
		{10, 15},
	}
	for _, tt := range tests {
		if got := LevelFactor(tt.depth); got != tt.want {
			t.Errorf("LevelFactor(%d) = %d, want %d", tt.depth, got, tt.want)
		}
	}
}

func TestEnemyVisibility(t *testing.T) {
	def := gamedata.MustLoadEnemyRegistry().GetByID("stone_rat")
	e := NewEnemy(def, 0, 0, 1, rand.New(rand.NewSource(1)))

	e.SetVisible(true)
	if !e.Visible() || e.Suspended() {
		t.Error("SetVisible(true) should show and resume")
	}
	e.SetVisible(false)
	if e.Visible() || !e.Suspended() {
		t.Error("SetVisible(false) should hide and suspend")
	}
}

func TestEnemyAttackCycle(t *testing.T) {
	def := &gamedata.EnemyDef{Name: "Test", AttackSpeed: 0.5, AttackTimeout: 3, WalkSpeed: 1}
	e := &Enemy{Def: def, Name: "Test", Health: 10}

	if !e.TryAttack(geom.Left) {
		t.Fatal("TryAttack() = false on a rested enemy")
	}
	if e.TryAttack(geom.Left) {
		t.Error("TryAttack() while attacking should fail")
	}

	// Wind-up of 0.5 per frame: two frames to charge, the third lands
	landed := []bool{e.Tick(), e.Tick(), e.Tick()}
	if landed[0] || landed[1] || !landed[2] {
		t.Errorf("Tick() sequence = %v, want [false false true]", landed)
	}
	if e.Attacking {
		t.Error("Attacking should reset after the attack lands")
	}

	// Timeout of 3 frames before the next attack
	if e.TryAttack(geom.Left) {
		t.Error("TryAttack() during timeout should fail")
	}
	e.Tick()
	e.Tick()
	e.Tick()
	if !e.TryAttack(geom.Left) {
		t.Error("TryAttack() after timeout should succeed")
	}
}

func TestEnemyAttackArea(t *testing.T) {
	e := &Enemy{X: 500, Y: 300}

	tests := []struct {
		facing geom.Direction
		hitX   float64
		hitY   float64
	}{
		{geom.Left, 400, 300},
		{geom.Right, 600, 300},
		{geom.Top, 500, 200},
		{geom.Bottom, 500, 400},
	}

	for _, tt := range tests {
		e.Facing = tt.facing
		area := e.AttackArea()
		if !area.Overlaps(tt.hitX, tt.hitY, 24, 24) {
			t.Errorf("AttackArea(%s) = %+v should reach (%v,%v)", tt.facing, area, tt.hitX, tt.hitY)
		}
		if area.Overlaps(e.X-tt.hitX+e.X, e.Y-tt.hitY+e.Y, 24, 24) {
			t.Errorf("AttackArea(%s) should not reach behind the enemy", tt.facing)
		}
	}
}

func TestEnemyMoveTowards(t *testing.T) {
	e := &Enemy{Def: &gamedata.EnemyDef{WalkSpeed: 2}, X: 0, Y: 0}

	remaining := e.MoveTowards(10, 0)
	if e.X != 2 || e.Y != 0 {
		t.Errorf("position = (%v,%v), want (2,0)", e.X, e.Y)
	}
	if remaining != 8 {
		t.Errorf("MoveTowards() = %v, want 8", remaining)
	}

	e.X = 9
	if got := e.MoveTowards(10, 0); got != 0 || e.X != 10 {
		t.Errorf("MoveTowards() near target = %v at x=%v, want 0 at 10", got, e.X)
	}
}

func TestEnemyHitCooldown(t *testing.T) {
	e := &Enemy{Health: 10}
	if !e.CanBeHit() {
		t.Fatal("fresh enemy should be hittable")
	}
	e.MarkHit()
	if e.CanBeHit() {
		t.Error("enemy should be immune right after a hit")
	}
	for i := 0; i < hitFrames; i++ {
		e.Tick()
	}
	if !e.CanBeHit() {
		t.Error("enemy should be hittable after the cooldown")
	}
}

func TestPlayerMoveAndFacing(t *testing.T) {
	p := NewPlayer(100, 100, 1)

	tests := []struct {
		dx, dy float64
		want   geom.Direction
	}{
		{-4, 0, geom.Left},
		{4, 1, geom.Right},
		{0, -4, geom.Top},
		{1, 4, geom.Bottom},
	}

	for _, tt := range tests {
		p.Move(tt.dx, tt.dy)
		if p.Facing != tt.want {
			t.Errorf("Move(%v,%v) facing = %s, want %s", tt.dx, tt.dy, p.Facing, tt.want)
		}
	}
}

func TestPlayerStrikeBox(t *testing.T) {
	p := NewPlayer(320, 320, 1)
	p.Facing = geom.Right

	box := p.StrikeBox(64)
	if !box.Contains(384, 320) {
		t.Errorf("StrikeBox() = %+v should cover the tile to the right", box)
	}
	if box.Contains(256, 320) {
		t.Errorf("StrikeBox() = %+v should not cover the tile to the left", box)
	}
}

func TestPlayerAddXP(t *testing.T) {
	p := NewPlayer(0, 0, 2)

	if p.OrbValue() != 10 {
		t.Errorf("OrbValue() = %d, want 10", p.OrbValue())
	}
	if p.AddXP(50) {
		t.Error("AddXP(50) should not level up")
	}
	if !p.AddXP(50) {
		t.Fatal("AddXP to 100 should level up")
	}
	if p.XPLevel != 1 || p.XP != 0 || p.XPUntilNext != 200 {
		t.Errorf("after level up: level=%d xp=%d next=%d, want 1 0 200", p.XPLevel, p.XP, p.XPUntilNext)
	}
	if p.Strength != 6 {
		t.Errorf("Strength = %d, want 6", p.Strength)
	}
}

func TestContainerLoot(t *testing.T) {
	c := NewContainer(64, 64, 3)
	if got := c.Loot(); got != 3 {
		t.Errorf("Loot() = %d, want 3", got)
	}
	if !c.Open || !c.Looted {
		t.Error("container should be open and looted")
	}
	if got := c.Loot(); got != 0 {
		t.Errorf("second Loot() = %d, want 0", got)
	}
}

func TestOrbPickup(t *testing.T) {
	orb := NewOrb(100, 100, 5, 1.0)

	// Out of range: nothing happens
	if orb.Update(400, 400) {
		t.Fatal("orb picked up from out of range")
	}

	picked := false
	for i := 0; i < 200 && !picked; i++ {
		picked = orb.Update(150, 100)
	}
	if !picked {
		t.Fatal("orb was never picked up by a nearby player")
	}
	if orb.Light.Enabled {
		t.Error("picked up orb should stop glowing")
	}
	if orb.Update(150, 100) {
		t.Error("orb should not be picked up twice")
	}
}

func TestLightKind(t *testing.T) {
	if !LightTorch.Static() || !LightCampfire.Static() {
		t.Error("torches and campfires are static")
	}
	if LightOrb.Static() || LightPlayer.Static() {
		t.Error("orbs and the player light are not static")
	}
	if LightOrb.String() != "orb" {
		t.Errorf("LightOrb.String() = %q", LightOrb.String())
	}
}
