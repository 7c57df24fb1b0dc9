package level

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/cellcrawl/internal/geom"
	"github.com/samdwyer/cellcrawl/internal/telemetry"
	"github.com/samdwyer/cellcrawl/internal/world"
)

// edgeInset is how far inside the new cell the player lands after crossing.
const edgeInset = 10.0

// Activate makes cell id the active cell. The previous cell's occupants are
// hidden and suspended and its orbs are destroyed; dead enemies of the new
// cell are pruned before the living ones are revealed.
func (l *Level) Activate(ctx context.Context, id world.CellID) bool {
	next := l.graph.Cell(id)
	if next == nil {
		return false
	}

	tracer := telemetry.Tracer("level")
	_, span := tracer.Start(ctx, "level.activate")
	defer span.End()

	if l.active != nil {
		l.active.SetVisible(false)
		for _, o := range l.orbs {
			o.Light.Enabled = false
		}
		l.orbs = nil
	}

	l.active = next
	pruned := next.PruneDead()

	l.grid.MarkWalls(next.Type)
	for _, c := range next.Containers {
		l.grid.MarkStatic(c.Tile(l.tileSize))
	}
	l.blockers.Forget()

	l.collision = next.Type.CollisionBoxes(l.tileSize)
	if l.sink != nil {
		l.sink.SetBlockers(l.collision)
	}

	next.SetVisible(true)
	l.throttle.MarkDirty()
	l.metrics.SetBlockedTiles(l.grid.BlockedCount())

	span.SetAttributes(
		attribute.Int("cell.id", int(next.ID)),
		attribute.String("cell.type", next.Type.Name()),
		attribute.Int("cell.enemies", len(next.Enemies)),
		attribute.Int("cell.pruned", pruned),
		attribute.Int("cell.collision_boxes", len(l.collision)),
	)

	l.log.WithFields(logrus.Fields{
		"cell":    next.ID,
		"type":    next.Type.Name(),
		"map_x":   next.MapPos.X,
		"map_y":   next.MapPos.Y,
		"enemies": len(next.Enemies),
		"pruned":  pruned,
	}).Debug("cell activated")

	return true
}

// SwitchCell moves the active cell to its neighbor in direction d and places
// the player just inside the edge it entered through. Without a neighbor in
// d nothing changes and it returns false.
func (l *Level) SwitchCell(ctx context.Context, d geom.Direction) bool {
	if l.active == nil {
		return false
	}
	id := l.active.Neighbor(d)
	if id == world.NoCell {
		return false
	}

	if !l.Activate(ctx, id) {
		return false
	}
	l.metrics.CellSwitched()

	w, h := l.Bounds()
	switch d {
	case geom.Left:
		l.Player.X = w - edgeInset
	case geom.Right:
		l.Player.X = edgeInset
	case geom.Top:
		l.Player.Y = h - edgeInset
	case geom.Bottom:
		l.Player.Y = edgeInset
	}
	l.say("You enter " + l.active.Type.Name() + ".")
	return true
}
