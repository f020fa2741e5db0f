package engine

import (
	"math"
	"unicode/utf8"

	"github.com/vovakirdan/arena-survival/internal/core"
)

// Shading runes for area shapes.
const (
	runeZone     = '░'
	runeZoneWarn = '·'
	runeRing     = '▒'
	runeBlast    = '*'
)

// Rasterize paints a draw list into dst, scaling the arena to the screen.
// Each cell samples the arena at its centre.
func Rasterize(dst *core.Screen, cmds []DrawCmd, arena core.Bounds) {
	cols, rows := dst.Width(), dst.Height()
	if cols == 0 || rows == 0 || arena.W <= 0 || arena.H <= 0 {
		return
	}
	sx := arena.W / float64(cols)
	sy := arena.H / float64(rows)
	cellR := math.Max(sx, sy) / 2

	toCell := func(p core.Vec2) (int, int) {
		return int(math.Floor(p.X / sx)), int(math.Floor(p.Y / sy))
	}
	cellCentre := func(x, y int) core.Vec2 {
		return core.V((float64(x)+0.5)*sx, (float64(y)+0.5)*sy)
	}

	for _, c := range cmds {
		switch c.Kind {
		case DrawDisc, DrawRing:
			inner := c.Inner
			if c.Kind == DrawRing && c.Radius-inner < 2*cellR {
				inner = c.Radius - 2*cellR
			}
			fill := runeZone
			switch {
			case c.Kind == DrawRing:
				fill = runeRing
			case c.Dim && c.Color == core.ColorOrange:
				fill = runeBlast
			case c.Dim:
				fill = runeZoneWarn
			}
			x0, y0 := toCell(c.Pos.Sub(core.V(c.Radius, c.Radius)))
			x1, y1 := toCell(c.Pos.Add(core.V(c.Radius, c.Radius)))
			x0, y0 = core.Clamp(x0, 0, cols-1), core.Clamp(y0, 0, rows-1)
			x1, y1 = core.Clamp(x1, 0, cols-1), core.Clamp(y1, 0, rows-1)
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					d := core.Dist(cellCentre(x, y), c.Pos)
					if d <= c.Radius && d >= inner {
						dst.SetColored(x, y, fill, c.Color)
					}
				}
			}
		case DrawGlyph:
			r, _ := utf8.DecodeRuneInString(c.Glyph)
			if r == utf8.RuneError {
				r = '?'
			}
			x, y := toCell(c.Pos)
			color := c.Color
			if c.Dim {
				color = core.ColorGray
			}
			dst.SetColored(x, y, r, color)
		case DrawLabel:
			x, y := toCell(c.Pos)
			dst.DrawText(x, y, c.Text, c.Color)
		case DrawBanner:
			drawBanner(dst, rows/3, c.Text, c.Color)
		}
	}
}

// drawBanner centres text on row y inside a cleared, framed panel. The
// frame is dropped when the screen is too small to hold it.
func drawBanner(dst *core.Screen, y int, text string, color core.Color) {
	w := utf8.RuneCountInString(text) + 4
	if w > dst.Width() || y < 1 || y+1 >= dst.Height() {
		dst.DrawTextCentered(y, text, color)
		return
	}
	panel := core.NewRect((dst.Width()-w)/2, y-1, w, 3)
	dst.DrawRect(panel, ' ')
	dst.DrawBox(panel, color)
	dst.DrawTextCentered(y, text, color)
}
