// Package level owns the assembled graph at play time: it tracks the active
// cell, streams occupants in and out as the player crosses cell edges, and
// keeps the light field, occupancy grid and collision boxes of the active
// cell current.
package level

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/cellcrawl/internal/catalog"
	"github.com/samdwyer/cellcrawl/internal/config"
	"github.com/samdwyer/cellcrawl/internal/entity"
	"github.com/samdwyer/cellcrawl/internal/gamedata"
	"github.com/samdwyer/cellcrawl/internal/geom"
	"github.com/samdwyer/cellcrawl/internal/lighting"
	"github.com/samdwyer/cellcrawl/internal/logging"
	"github.com/samdwyer/cellcrawl/internal/metrics"
	"github.com/samdwyer/cellcrawl/internal/navigation"
	"github.com/samdwyer/cellcrawl/internal/world"
)

// ErrEmptyGraph is returned when a level is built from a graph without cells.
var ErrEmptyGraph = errors.New("level graph has no cells")

// Renderer draws the active cell. The level never issues draw calls itself.
type Renderer interface {
	DrawCell(cell *world.Cell, layers []catalog.Layer)
	DrawLight(field *lighting.Field)
}

// CollisionSink receives the collision boxes of the active cell.
type CollisionSink interface {
	SetBlockers(boxes []geom.Box)
}

const (
	maxMessages = 5

	// Fallback light color for torches with an unparsable color value.
	defaultTorchColor = "#E68C1A"
)

// Level is one generated floor of the dungeon.
type Level struct {
	graph  *world.Graph
	active *world.Cell
	cfg    config.Config
	rng    *rand.Rand

	// Player is the single adventurer; its position is relative to the active cell.
	Player      *entity.Player
	playerLight *entity.LightSource
	orbs        []*entity.Orb

	width, height int
	tileSize      float64

	light    *lighting.Field
	throttle lighting.Throttle

	grid       *navigation.Grid
	blockers   *navigation.Blockers
	pathfinder navigation.Pathfinder

	collision []geom.Box
	sink      CollisionSink
	metrics   *metrics.Metrics

	messages []string
	log      *logrus.Entry
}

// New creates a level over graph and populates every cell from its
// template. Nothing is active until Activate is called.
func New(graph *world.Graph, cfg config.Config, enemies *gamedata.EnemyRegistry, rng *rand.Rand) (*Level, error) {
	root := graph.Root()
	if root == nil {
		return nil, ErrEmptyGraph
	}

	ambient, err := gamedata.ParseHexColor(cfg.Lighting.AmbientColor)
	if err != nil {
		return nil, fmt.Errorf("ambient color: %w", err)
	}

	width, height := root.Type.Size()
	l := &Level{
		graph:      graph,
		cfg:        cfg,
		rng:        rng,
		width:      width,
		height:     height,
		tileSize:   cfg.TileSize,
		light:      lighting.NewField(width, height, cfg.TileSize, ambient, cfg.Lighting.AmbientIntensity, cfg.Lighting.Attenuation),
		throttle:   lighting.Throttle{Every: cfg.Lighting.ThrottleFrames},
		grid:       navigation.NewGrid(width, height),
		pathfinder: navigation.BreadthFirst,
		log:        logging.For("level"),
	}
	l.blockers = navigation.NewBlockers(l.grid, l.tileSize)

	px, py := l.Bounds()
	l.Player = entity.NewPlayer(px/2, py/2, cfg.Depth)
	l.playerLight = entity.NewLightSource(entity.LightPlayer, l.Player.X, l.Player.Y, ambient, cfg.Lighting.PlayerIntensity)
	l.playerLight.Enabled = true

	populated := 0
	for _, c := range graph.Cells() {
		populated += l.populate(c, enemies)
	}

	l.log.WithFields(logrus.Fields{
		"cells":     graph.Len(),
		"occupants": populated,
		"depth":     cfg.Depth,
	}).Info("level populated")

	return l, nil
}

// populate creates the hidden, suspended occupants of c from its template's
// entity metadata and returns how many were created.
func (l *Level) populate(c *world.Cell, enemies *gamedata.EnemyRegistry) int {
	t := c.Type

	for _, s := range t.Spawns(catalog.SpawnEnemy) {
		def := enemies.SpawnRandom(l.rng, splitIDs(s.Value)...)
		if def == nil {
			continue
		}
		e := entity.NewEnemy(def, s.X, s.Y, l.cfg.Depth, l.rng)
		e.SetVisible(false)
		c.Enemies = append(c.Enemies, e)
	}

	for _, s := range t.Spawns(catalog.SpawnContainer) {
		items, err := strconv.Atoi(strings.TrimSpace(s.Value))
		if err != nil || items < 0 {
			items = 1
		}
		c.Containers = append(c.Containers, entity.NewContainer(s.X, s.Y, items))
	}

	for _, s := range t.Spawns(catalog.SpawnTorch) {
		c.Lights = append(c.Lights, l.staticLight(entity.LightTorch, s))
	}
	for _, s := range t.Spawns(catalog.SpawnCampfire) {
		c.Lights = append(c.Lights, l.staticLight(entity.LightCampfire, s))
	}

	return len(c.Enemies) + len(c.Containers) + len(c.Lights)
}

func (l *Level) staticLight(kind entity.LightKind, s catalog.Spawn) *entity.LightSource {
	color, err := gamedata.ParseHexColor(s.Value)
	if err != nil {
		l.log.WithFields(logrus.Fields{
			"entity": s.Entity,
			"value":  s.Value,
		}).Warn("bad light color, using default")
		color = gamedata.MustParseHexColor(defaultTorchColor)
	}
	return entity.NewLightSource(kind, s.X, s.Y, color, l.cfg.Lighting.TorchIntensity)
}

func splitIDs(value string) []string {
	var ids []string
	for _, id := range strings.Split(value, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// SetCollisionSink registers the physics collaborator. It receives the
// boxes of the current cell immediately when one is active.
func (l *Level) SetCollisionSink(sink CollisionSink) {
	l.sink = sink
	if sink != nil && l.active != nil {
		sink.SetBlockers(l.collision)
	}
}

// SetPathfinder replaces the default breadth first pathfinder.
func (l *Level) SetPathfinder(pf navigation.Pathfinder) {
	if pf == nil {
		pf = navigation.BreadthFirst
	}
	l.pathfinder = pf
}

// SetMetrics attaches prometheus collectors.
func (l *Level) SetMetrics(m *metrics.Metrics) { l.metrics = m }

// Graph returns the level graph.
func (l *Level) Graph() *world.Graph { return l.graph }

// Active returns the active cell, or nil before the first activation.
func (l *Level) Active() *world.Cell { return l.active }

// Light returns the light field of the active cell.
func (l *Level) Light() *lighting.Field { return l.light }

// Occupancy returns the navigation grid of the active cell.
func (l *Level) Occupancy() *navigation.Grid { return l.grid }

// Orbs returns the xp orbs lying in the active cell.
func (l *Level) Orbs() []*entity.Orb { return l.orbs }

// CollisionBoxes returns the solid boxes of the active cell.
func (l *Level) CollisionBoxes() []geom.Box { return l.collision }

// Bounds returns the world size of one cell.
func (l *Level) Bounds() (float64, float64) {
	return float64(l.width) * l.tileSize, float64(l.height) * l.tileSize
}

// TileSize returns the world size of one tile.
func (l *Level) TileSize() float64 { return l.tileSize }

// Collides returns true if a centered w×h rectangle at (x,y) touches a wall
// of the active cell.
func (l *Level) Collides(x, y, w, h float64) bool {
	for _, b := range l.collision {
		if b.Overlaps(x, y, w, h) {
			return true
		}
	}
	return false
}

// LightIntensityAt returns the light under a world position of the active cell.
func (l *Level) LightIntensityAt(x, y float64) float64 {
	return l.light.IntensityAt(x, y)
}

// Draw hands the active cell and its light to r.
func (l *Level) Draw(r Renderer) {
	if l.active == nil {
		return
	}
	r.DrawCell(l.active, l.active.Type.Layers())
	r.DrawLight(l.light)
}

// Messages returns the most recent event messages, oldest first.
func (l *Level) Messages() []string { return l.messages }

func (l *Level) say(msg string) {
	l.messages = append(l.messages, msg)
	if len(l.messages) > maxMessages {
		l.messages = l.messages[len(l.messages)-maxMessages:]
	}
}

// lights returns every light of the active cell that may seed the field.
func (l *Level) lights() []*entity.LightSource {
	out := make([]*entity.LightSource, 0, len(l.active.Lights)+len(l.orbs)+1)
	out = append(out, l.active.Lights...)
	for _, o := range l.orbs {
		out = append(out, o.Light)
	}
	l.playerLight.X, l.playerLight.Y = l.Player.Position()
	return append(out, l.playerLight)
}
