package viz

import (
	"math"

	"github.com/san-kum/trisolaris/internal/view"
)

// PixelsPerDot is how many screen pixels one Braille dot covers. A 110x40
// cell canvas then spans roughly the default 1100x800 viewport.
const PixelsPerDot = 5.0

const (
	glowScale = 0.4
	glowAlpha = 0.35
	starDim   = 0.35
)

// Rasterize draws stars, then each item's trail, glow, disc and label, in
// the given (back to front) order.
func Rasterize(c *Canvas, stars []view.Star, items []view.DrawItem, theme Theme) {
	bg := string(theme.Background)
	starColor := string(theme.Star)

	for _, s := range stars {
		alpha := s.Brightness
		if alpha < starDim {
			alpha = starDim
		}
		c.Set(dot(s.X), dot(s.Y), Blend(starColor, bg, alpha))
	}

	for _, it := range items {
		if len(it.Trail) > 1 {
			color := Blend(it.Color, bg, it.TrailAlpha)
			width := int(math.Round(it.TrailWidth / PixelsPerDot))
			for i := 1; i < len(it.Trail); i++ {
				a, b := it.Trail[i-1], it.Trail[i]
				c.DrawThickLine(dot(a.X), dot(a.Y), dot(b.X), dot(b.Y), width, color)
			}
		}

		cx, cy := dot(it.Center.X), dot(it.Center.Y)
		r := int(math.Round(it.Radius / PixelsPerDot))
		if glow := int(math.Round(it.Glow * glowScale / PixelsPerDot)); glow > 0 {
			c.Ring(cx, cy, r, r+glow, Blend(it.Color, bg, glowAlpha))
		}
		c.FillCircle(cx, cy, r, it.Color)

		if it.Label != "" {
			col := (cx+r)/2 + 1
			row := (cy - r) / 4
			c.Text(col, row, it.Label, string(theme.Muted))
		}
	}
}

func dot(px float64) int {
	return int(math.Floor(px / PixelsPerDot))
}
