// Package catalog loads the authored room templates ("cell types") a level is
// assembled from.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/cellcrawl/internal/gamedata"
	"github.com/samdwyer/cellcrawl/internal/geom"
	"github.com/samdwyer/cellcrawl/internal/logging"
)

// Fatal configuration errors.
var (
	ErrTemplateDirMissing = errors.New("template directory does not exist")
	ErrMapCount           = errors.New("cell must only include a single map")
	ErrMapSize            = errors.New("cell map has the wrong size")
)

// Layer metadata tags.
const (
	tagConnectionPrefix = "hasconnection"
	tagLevelExit        = "levelExit"
	tagCollision        = "hasCollision"
)

// Entity metadata tags understood by the level population.
const (
	SpawnEnemy     = "enemy"
	SpawnContainer = "container"
	SpawnTorch     = "torch"
	SpawnCampfire  = "campfire"
)

// Tile is one layer cell: which tileset image it shows, if any.
type Tile struct {
	ImageX, ImageY int
	Set            bool
}

// Layer is a decoded tile layer, in authored order.
type Layer struct {
	Name      string
	Collision bool
	Width     int
	Height    int
	tiles     []Tile
}

// At returns the tile at (x,y). Out of bounds returns an unset tile.
func (l Layer) At(x, y int) Tile {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return Tile{}
	}
	return l.tiles[x+y*l.Width]
}

// Spawn is one entity instance tagged for population.
type Spawn struct {
	Entity string // entity group name in the template
	Tag    string
	Value  string
	X, Y   float64
	W, H   float64
}

// CellType is an immutable room template. Many cells share one CellType.
type CellType struct {
	id          uuid.UUID
	name        string
	width       int
	height      int
	tileWidth   float64
	tileHeight  float64
	connections [geom.NumDirections]bool
	hasExit     bool
	solid       []bool
	layers      []Layer
	spawns      []Spawn
}

// NewCellType builds a template from a decoded scene, checking it holds exactly
// one map of width × height tiles.
func NewCellType(name string, scene Scene, width, height int) (*CellType, error) {
	if len(scene.Maps) != 1 {
		return nil, fmt.Errorf("%s: %w (found %d)", name, ErrMapCount, len(scene.Maps))
	}

	m := scene.Maps[0]
	if m.TileNumX != width || m.TileNumY != height {
		return nil, fmt.Errorf("%s: %w: must be %dx%d but is %dx%d",
			name, ErrMapSize, width, height, m.TileNumX, m.TileNumY)
	}

	t := &CellType{
		id:         uuid.New(),
		name:       name,
		width:      width,
		height:     height,
		tileWidth:  m.TileWidth,
		tileHeight: m.TileHeight,
		solid:      make([]bool, width*height),
	}

	for _, ld := range m.Layers {
		layer := Layer{
			Name:   ld.Name,
			Width:  width,
			Height: height,
			tiles:  make([]Tile, width*height),
		}

		for _, md := range ld.Metadata {
			switch {
			case md.Name == tagLevelExit:
				t.hasExit = true
			case md.Name == tagCollision:
				layer.Collision = true
			default:
				if d, ok := parseConnection(md.Name); ok {
					t.connections[d] = true
				}
			}
		}

		for _, group := range ld.TileGroups {
			for _, index := range group.TileIndices {
				if index < 0 || index >= width*height {
					continue
				}
				layer.tiles[index] = Tile{ImageX: group.ImageX, ImageY: group.ImageY, Set: true}
				if layer.Collision {
					t.solid[index] = true
				}
			}
		}

		t.layers = append(t.layers, layer)
	}

	// Entity groups are visited by name so population order is stable.
	names := make([]string, 0, len(scene.Entities))
	for n := range scene.Entities {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		def := scene.Entities[n]
		for _, md := range def.Metadata {
			for _, inst := range def.Instances {
				t.spawns = append(t.spawns, Spawn{
					Entity: n,
					Tag:    md.Name,
					Value:  md.Value,
					X:      inst.PosX,
					Y:      inst.PosY,
					W:      inst.Width,
					H:      inst.Height,
				})
			}
		}
	}

	return t, nil
}

// parseConnection maps a hasConnection* tag to its direction.
func parseConnection(tag string) (geom.Direction, bool) {
	lower := strings.ToLower(tag)
	if !strings.HasPrefix(lower, tagConnectionPrefix) {
		return 0, false
	}
	rest := strings.TrimPrefix(lower, tagConnectionPrefix)
	switch {
	case strings.Contains(rest, "left"):
		return geom.Left, true
	case strings.Contains(rest, "right"):
		return geom.Right, true
	case strings.Contains(rest, "top"):
		return geom.Top, true
	case strings.Contains(rest, "bot"):
		return geom.Bottom, true
	}
	return 0, false
}

// ID returns the template's unique identity.
func (t *CellType) ID() uuid.UUID { return t.id }

// Name returns the template file name without extension.
func (t *CellType) Name() string { return t.name }

// Size returns the template size in tiles.
func (t *CellType) Size() (int, int) { return t.width, t.height }

// HasConnection returns true if the template has an opening on edge d.
func (t *CellType) HasConnection(d geom.Direction) bool {
	if !d.IsValid() {
		return false
	}
	return t.connections[d]
}

// Connections returns the open edges in direction index order.
func (t *CellType) Connections() []geom.Direction {
	var dirs []geom.Direction
	for _, d := range geom.Directions() {
		if t.connections[d] {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// NumConnections returns the number of open edges.
func (t *CellType) NumConnections() int {
	n := 0
	for _, c := range t.connections {
		if c {
			n++
		}
	}
	return n
}

// IsDeadEnd returns true if the template has exactly one connector.
func (t *CellType) IsDeadEnd() bool { return t.NumConnections() == 1 }

// IsHub returns true if the template opens on all four edges.
func (t *CellType) IsHub() bool { return t.NumConnections() == geom.NumDirections }

// HasExit returns true if the template contains the level exit.
func (t *CellType) HasExit() bool { return t.hasExit }

// Solid returns true if (x,y) is covered by a collision layer.
// Out of bounds counts as solid.
func (t *CellType) Solid(x, y int) bool {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return true
	}
	return t.solid[x+y*t.width]
}

// SolidMask returns a copy of the per-tile solidity, indexed x + y*width.
func (t *CellType) SolidMask() []bool {
	mask := make([]bool, len(t.solid))
	copy(mask, t.solid)
	return mask
}

// CollisionTiles returns every solid tile in row-major order.
func (t *CellType) CollisionTiles() []geom.Point {
	var tiles []geom.Point
	for i, s := range t.solid {
		if s {
			tiles = append(tiles, geom.Point{X: i % t.width, Y: i / t.width})
		}
	}
	return tiles
}

// CollisionBoxes returns one tileSize box per solid tile.
func (t *CellType) CollisionBoxes(tileSize float64) []geom.Box {
	tiles := t.CollisionTiles()
	boxes := make([]geom.Box, 0, len(tiles))
	for _, p := range tiles {
		boxes = append(boxes, geom.Box{
			X: float64(p.X) * tileSize,
			Y: float64(p.Y) * tileSize,
			W: tileSize,
			H: tileSize,
		})
	}
	return boxes
}

// Layers returns the decoded tile layers for rendering.
func (t *CellType) Layers() []Layer { return t.layers }

// Spawns returns every entity instance carrying metadata tag.
func (t *CellType) Spawns(tag string) []Spawn {
	var out []Spawn
	for _, s := range t.spawns {
		if s.Tag == tag {
			out = append(out, s)
		}
	}
	return out
}

// String returns the template name and its connectors, e.g. "hub_cavern[TBLR]".
func (t *CellType) String() string {
	var sb strings.Builder
	sb.WriteString(t.name)
	sb.WriteByte('[')
	for _, d := range t.Connections() {
		sb.WriteByte(strings.ToUpper(d.String())[0])
	}
	sb.WriteByte(']')
	return sb.String()
}

// Catalog is the set of loaded templates, in file name order.
type Catalog struct {
	width, height int
	types         []*CellType
}

// New creates a catalog from already built templates.
func New(width, height int, types ...*CellType) *Catalog {
	return &Catalog{width: width, height: height, types: types}
}

// LoadDir loads every *.json template in dir. Sub-directories are skipped.
func LoadDir(dir string, width, height int) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrTemplateDirMissing, dir)
	}
	return Load(os.DirFS(dir), width, height)
}

// Load reads every *.json template at the root of fsys.
func Load(fsys fs.FS, width, height int) (*Catalog, error) {
	log := logging.For("catalog")

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateDirMissing, err)
	}

	cat := &Catalog{width: width, height: height}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}

		scene, err := gamedata.Load[Scene](fsys, entry.Name())
		if err != nil {
			return nil, err
		}

		t, err := NewCellType(strings.TrimSuffix(entry.Name(), ".json"), scene, width, height)
		if err != nil {
			return nil, err
		}

		log.WithFields(logrus.Fields{
			"template": t.Name(),
			"exit":     t.HasExit(),
			"solid":    len(t.CollisionTiles()),
		}).Debugf("loaded template %s", t)

		cat.types = append(cat.types, t)
	}

	return cat, nil
}

// MustLoad loads a catalog, panicking on error.
// Use this for the embedded templates, which must be valid.
func MustLoad(fsys fs.FS, width, height int) *Catalog {
	cat, err := Load(fsys, width, height)
	if err != nil {
		panic(err)
	}
	return cat
}

// Types returns all templates in file name order.
func (c *Catalog) Types() []*CellType { return c.types }

// Len returns the number of templates.
func (c *Catalog) Len() int { return len(c.types) }

// CellSize returns the required template size in tiles.
func (c *Catalog) CellSize() (int, int) { return c.width, c.height }

// Hub returns the first template with all four connectors, or nil.
func (c *Catalog) Hub() *CellType {
	for _, t := range c.types {
		if t.IsHub() {
			return t
		}
	}
	return nil
}

// ByName returns the template with the given name, or nil.
func (c *Catalog) ByName(name string) *CellType {
	for _, t := range c.types {
		if t.name == name {
			return t
		}
	}
	return nil
}
