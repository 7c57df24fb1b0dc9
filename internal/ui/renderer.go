package ui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/cellcrawl/internal/catalog"
	"github.com/samdwyer/cellcrawl/internal/entity"
	"github.com/samdwyer/cellcrawl/internal/gamedata"
	"github.com/samdwyer/cellcrawl/internal/level"
	"github.com/samdwyer/cellcrawl/internal/lighting"
	"github.com/samdwyer/cellcrawl/internal/world"
)

const exitLayer = "stairs"

var (
	colorWall      = gamedata.MustParseHexColor("#9A9A9A")
	colorFloor     = gamedata.MustParseHexColor("#5A5A5A")
	colorExit      = gamedata.MustParseHexColor("#E0D070")
	colorContainer = gamedata.MustParseHexColor("#C89B3C")
)

// Renderer draws the active cell of a level, one terminal cell per tile,
// shaded by the light field.
type Renderer struct {
	screen *Screen

	cell   *world.Cell
	layers []catalog.Layer
}

// Ensure Renderer implements level.Renderer
var _ level.Renderer = (*Renderer)(nil)

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the level, its occupants and the status lines to the screen.
func (r *Renderer) Render(lv *level.Level) {
	r.screen.Clear()

	lv.Draw(r)
	r.drawOccupants(lv)
	r.drawStatus(lv)

	r.screen.Show()
}

// DrawCell remembers the tile layers to draw once the light is known.
func (r *Renderer) DrawCell(cell *world.Cell, layers []catalog.Layer) {
	r.cell = cell
	r.layers = layers
}

// DrawLight draws the remembered tiles shaded by the smoothed light.
func (r *Renderer) DrawLight(field *lighting.Field) {
	if r.cell == nil {
		return
	}
	w, h := r.cell.Type.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ch, base, ok := r.tileGlyph(x, y)
			if !ok {
				continue
			}
			light := field.CornersAt(x, y).Mean()
			r.screen.SetContent(x, y, ch, tcell.StyleDefault.Foreground(shade(base, light)))
		}
	}
}

// tileGlyph returns the glyph of the topmost set layer at (x,y).
func (r *Renderer) tileGlyph(x, y int) (rune, colorful.Color, bool) {
	var (
		ch   rune
		base colorful.Color
		ok   bool
	)
	for _, layer := range r.layers {
		if !layer.At(x, y).Set {
			continue
		}
		switch {
		case layer.Collision:
			ch, base = '#', colorWall
		case layer.Name == exitLayer:
			ch, base = '>', colorExit
		default:
			ch, base = '.', colorFloor
		}
		ok = true
	}
	return ch, base, ok
}

// shade tints base towards the light color and scales it by intensity.
func shade(base colorful.Color, v lighting.Value) tcell.Color {
	lit := base.BlendRgb(v.Color, 0.35)
	k := 0.25 + 0.75*math.Min(math.Max(v.A, 0), 1)
	return gamedata.TCell(colorful.Color{R: lit.R * k, G: lit.G * k, B: lit.B * k})
}

func (r *Renderer) drawOccupants(lv *level.Level) {
	cell := lv.Active()
	if cell == nil {
		return
	}
	ts := lv.TileSize()
	at := func(x, y float64) (int, int) {
		return int(math.Floor(x / ts)), int(math.Floor(y / ts))
	}

	for _, l := range cell.Lights {
		if !l.Enabled {
			continue
		}
		x, y := at(l.X, l.Y)
		ch := '!'
		if l.Kind == entity.LightCampfire {
			ch = '&'
		}
		r.screen.SetContent(x, y, ch, tcell.StyleDefault.Foreground(gamedata.TCell(l.Color)).Bold(true))
	}

	for _, c := range cell.Containers {
		if !c.Visible() {
			continue
		}
		x, y := at(c.X, c.Y)
		ch := '='
		if c.Looted {
			ch = '_'
		}
		r.screen.SetContent(x, y, ch, tcell.StyleDefault.Foreground(gamedata.TCell(colorContainer)))
	}

	for _, o := range lv.Orbs() {
		x, y := at(o.Position())
		r.screen.SetContent(x, y, '*', tcell.StyleDefault.Foreground(gamedata.TCell(entity.OrbColor)))
	}

	for _, e := range cell.Enemies {
		if !e.Visible() {
			continue
		}
		x, y := at(e.X, e.Y)
		style := tcell.StyleDefault.Foreground(e.Color())
		if lv.LightIntensityAt(e.X, e.Y) < lv.Light().Ambient().A+0.05 {
			style = style.Dim(true)
		}
		if e.Attacking {
			style = style.Reverse(true)
		}
		r.screen.SetContent(x, y, e.Symbol, style)
	}

	p := lv.Player
	x, y := at(p.X, p.Y)
	r.screen.SetContent(x, y, p.Symbol, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
}

func (r *Renderer) drawStatus(lv *level.Level) {
	cell := lv.Active()
	if cell == nil {
		return
	}
	_, h := cell.Type.Size()
	p := lv.Player

	status := fmt.Sprintf("HP %d/%d  STR %d  AGI %d  LVL %d  XP %d/%d  %s (%d,%d)",
		p.Health, p.MaxHealth, p.Strength, p.Agility, p.XPLevel, p.XP, p.XPUntilNext,
		cell.Type.Name(), cell.MapPos.X, cell.MapPos.Y)
	r.RenderMessage(status, h+1)

	for i, msg := range lv.Messages() {
		r.RenderMessage(msg, h+3+i)
	}
	if !p.IsAlive() {
		r.RenderMessage("You died. Press q to quit.", h+3+len(lv.Messages()))
	}
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}
