package level

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cellcrawl/internal/combat"
	"github.com/samdwyer/cellcrawl/internal/entity"
	"github.com/samdwyer/cellcrawl/internal/geom"
	"github.com/samdwyer/cellcrawl/internal/navigation"
	"github.com/samdwyer/cellcrawl/internal/telemetry"
)

const (
	playerSize = 40.0
	hitSize    = 64.0 // enemies and containers are hit within ±32 of their center

	attackReach  = 2    // tiles along a row or column
	arrivalRange = 4.0  // world units from a path tile's center
	replanAfter  = 3    // path tiles followed before planning again
	orbScatter   = 32.0 // world units around a dying enemy
	maxOrbDrop   = 5
)

// Update advances the active cell by one frame.
func (l *Level) Update(ctx context.Context) {
	if l.active == nil {
		return
	}

	if l.throttle.Ready() {
		l.recomputeLight(ctx)
	}

	enemies := l.active.Enemies
	movers := make([]navigation.Mover, 0, len(enemies))
	for _, e := range enemies {
		movers = append(movers, e)
	}
	l.blockers.Update(movers)
	l.metrics.SetBlockedTiles(l.grid.BlockedCount())

	for _, e := range enemies {
		if e.Suspended() {
			continue
		}
		l.updateEnemy(e)
	}

	l.updateOrbs()
}

func (l *Level) updateEnemy(e *entity.Enemy) {
	if e.Tick() && l.Player.IsAlive() {
		area := e.AttackArea()
		if area.Overlaps(l.Player.X, l.Player.Y, playerSize, playerSize) {
			res := combat.Strike(l.rng, combat.EnemyStrike, e, l.Player)
			l.say(res.Message)
		}
	}

	if !e.Alive() {
		l.bury(e)
		return
	}

	et, pt := e.Tile(l.tileSize), l.Player.Tile(l.tileSize)
	switch {
	case et.X == pt.X && abs(pt.Y-et.Y) <= attackReach:
		if pt.Y < et.Y {
			e.TryAttack(geom.Top)
		} else {
			e.TryAttack(geom.Bottom)
		}
	case et.Y == pt.Y && abs(pt.X-et.X) <= attackReach:
		if pt.X < et.X {
			e.TryAttack(geom.Left)
		} else {
			e.TryAttack(geom.Right)
		}
	}

	// Enemies stand still while winding up.
	if e.Attacking {
		return
	}
	l.chase(e)
}

// chase plans a path to the player when idle and follows at most a few
// tiles of it before planning again.
func (l *Level) chase(e *entity.Enemy) {
	ts := l.tileSize

	if !e.Traversing {
		if math.Hypot(l.Player.X-e.X, l.Player.Y-e.Y) <= ts/2 {
			return
		}
		goal := l.Player.Tile(ts)
		if !l.grid.InBounds(goal) {
			return
		}
		path, ok := navigation.RequestPath(l.pathfinder, l.grid, e.Tile(ts), goal)
		if !ok {
			return
		}
		e.Path, e.PathIndex, e.Traversing = path, 0, true
		return
	}

	if e.PathIndex >= len(e.Path) {
		e.Traversing = false
		return
	}

	target := e.Path[e.PathIndex]
	tx := float64(target.X)*ts + ts/2
	ty := float64(target.Y)*ts + ts/2
	if e.MoveTowards(tx, ty) <= arrivalRange {
		e.PathIndex++
		if e.PathIndex >= len(e.Path)-1 {
			e.Traversing = false
		}
	} else if e.PathIndex >= replanAfter {
		e.Traversing = false
	}
}

// bury drops the orbs of a dead enemy that is still shown and hides it.
// Later calls for the same enemy do nothing.
func (l *Level) bury(e *entity.Enemy) {
	if e.Alive() || !e.Visible() {
		return
	}
	l.dropOrbs(e.X, e.Y)
	e.SetVisible(false)
}

// dropOrbs scatters one to five xp orbs around (x,y), kept inside the cell.
func (l *Level) dropOrbs(x, y float64) {
	n := l.rng.Intn(maxOrbDrop) + 1
	l.spawnOrbs(x, y, n)
}

func (l *Level) spawnOrbs(x, y float64, n int) {
	w, h := l.Bounds()
	maxX, maxY := w-l.tileSize, h-l.tileSize

	for i := 0; i < n; i++ {
		ox := x + math.Trunc(math.Sin(l.rng.Float64()*math.Pi*2)*orbScatter)
		oy := y + math.Trunc(math.Cos(l.rng.Float64()*math.Pi*2)*orbScatter)
		ox = math.Min(math.Max(ox, 0), maxX)
		oy = math.Min(math.Max(oy, 0), maxY)
		l.orbs = append(l.orbs, entity.NewOrb(ox, oy, l.Player.OrbValue(), l.cfg.Lighting.OrbIntensity))
	}
}

func (l *Level) updateOrbs() {
	kept := l.orbs[:0]
	for _, o := range l.orbs {
		if o.Update(l.Player.X, l.Player.Y) {
			if l.Player.AddXP(o.Value) {
				l.say(fmt.Sprintf("You reach level %d!", l.Player.XPLevel))
			}
			continue
		}
		kept = append(kept, o)
	}
	for i := len(kept); i < len(l.orbs); i++ {
		l.orbs[i] = nil
	}
	l.orbs = kept
}

func (l *Level) recomputeLight(ctx context.Context) {
	tracer := telemetry.Tracer("lighting")
	_, span := tracer.Start(ctx, "lighting.recompute")
	defer span.End()

	start := time.Now()
	lights := l.lights()
	l.light.Recompute(lights, l.active.Type)
	elapsed := time.Since(start)

	l.metrics.LightRecomputed(elapsed)
	span.SetAttributes(
		attribute.Int("lights", len(lights)),
		attribute.Int64("duration_us", elapsed.Microseconds()),
	)
}

// MovePlayer moves the player by (dx,dy) unless a wall is in the way.
// Walking past a cell edge switches to the neighbor on that side; without
// one the player stays put. It returns true when the active cell changed.
func (l *Level) MovePlayer(ctx context.Context, dx, dy float64) bool {
	if l.active == nil || !l.Player.IsAlive() {
		return false
	}

	nx, ny := l.Player.X+dx, l.Player.Y+dy
	if l.Collides(nx, ny, playerSize, playerSize) {
		return false
	}

	w, h := l.Bounds()
	var (
		d     geom.Direction
		cross bool
	)
	switch {
	case nx < 0:
		d, cross = geom.Left, true
	case nx > w:
		d, cross = geom.Right, true
	case ny < 0:
		d, cross = geom.Top, true
	case ny > h:
		d, cross = geom.Bottom, true
	}

	l.Player.Move(dx, dy)
	if !cross {
		return false
	}
	if !l.SwitchCell(ctx, d) {
		l.Player.X, l.Player.Y = nx-dx, ny-dy
		return false
	}
	return true
}

// Strike swings the player's weapon. The first hittable enemy whose body
// overlaps the swing takes the blow; every closed container in reach opens.
func (l *Level) Strike() (combat.Result, bool) {
	if l.active == nil || !l.Player.IsAlive() {
		return combat.Result{}, false
	}
	box := l.Player.StrikeBox(l.tileSize)

	for _, c := range l.active.Containers {
		if c.Looted || !box.Overlaps(c.X, c.Y, hitSize, hitSize) {
			continue
		}
		items := c.Loot()
		l.spawnOrbs(c.X, c.Y, items)
		l.say(fmt.Sprintf("You open a chest. %d orbs spill out.", items))
	}

	for _, e := range l.active.Enemies {
		if !e.Alive() || !e.Visible() || !e.CanBeHit() {
			continue
		}
		if !box.Overlaps(e.X, e.Y, hitSize, hitSize) {
			continue
		}
		res := combat.Strike(l.rng, combat.PlayerStrike, l.Player, e)
		e.MarkHit()
		l.say(res.Message)
		if res.Killed {
			l.bury(e)
		}
		return res, true
	}
	return combat.Result{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
