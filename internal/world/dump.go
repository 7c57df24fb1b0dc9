package world

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/samdwyer/cellcrawl/internal/geom"
)

var (
	colorRoot  = color.Style{color.FgGreen, color.OpBold}
	colorExit  = color.Style{color.FgRed, color.OpBold}
	colorCell  = color.Style{color.FgGray}
	colorLabel = color.Style{color.FgBlue}
)

// connectorGlyphs maps a top|bottom|left|right bit mask to a box drawing rune.
var connectorGlyphs = [16]rune{
	'·', '╵', '╷', '│', '╴', '┘', '┐', '┤',
	'╶', '└', '┌', '├', '─', '┴', '┬', '┼',
}

func glyph(c *Cell) rune {
	mask := 0
	for i, d := range geom.Directions() {
		if c.HasNeighbor(d) {
			mask |= 1 << i
		}
	}
	return connectorGlyphs[mask]
}

// Dump writes an ASCII map of the graph followed by one line per cell.
// The root is green, exits are red.
func (g *Graph) Dump(w io.Writer) error {
	if g.Len() == 0 {
		_, err := fmt.Fprintln(w, "(empty level)")
		return err
	}

	minP, maxP := g.cells[0].MapPos, g.cells[0].MapPos
	for _, c := range g.cells {
		minP.X = min(minP.X, c.MapPos.X)
		minP.Y = min(minP.Y, c.MapPos.Y)
		maxP.X = max(maxP.X, c.MapPos.X)
		maxP.Y = max(maxP.Y, c.MapPos.Y)
	}

	var sb strings.Builder
	for y := minP.Y; y <= maxP.Y; y++ {
		for x := minP.X; x <= maxP.X; x++ {
			c := g.At(geom.Point{X: x, Y: y})
			switch {
			case c == nil:
				sb.WriteRune(' ')
			case c.ID == g.root:
				sb.WriteString(colorRoot.Sprint(string(glyph(c))))
			case c.Type.HasExit():
				sb.WriteString(colorExit.Sprint(string(glyph(c))))
			default:
				sb.WriteString(colorCell.Sprint(string(glyph(c))))
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	for _, c := range g.cells {
		var links []string
		for _, d := range geom.Directions() {
			if n := c.Neighbor(d); n != NoCell {
				links = append(links, fmt.Sprintf("%s=%d", d, n))
			}
		}
		fmt.Fprintf(&sb, "%s %-24s (%d,%d) %s\n",
			colorLabel.Sprintf("#%02d", c.ID), c.Type, c.MapPos.X, c.MapPos.Y, strings.Join(links, " "))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
