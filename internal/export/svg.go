package export

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/view"
)

const background = "#000000"

// FrameSVG writes one rendered frame: starfield, then the depth-sorted draw
// items with their trails, glow and labels, then the two HUD lines.
func FrameSVG(w io.Writer, width, height float64, stars []view.Star, items []view.DrawItem, hud [2]string) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<defs><filter id="glow" x="-50%%" y="-50%%" width="200%%" height="200%%"><feGaussianBlur stdDeviation="6"/></filter></defs>
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	sb.WriteString(`<g fill="#ffffff">` + "\n")
	for _, s := range stars {
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f" fill-opacity="%.2f"/>`+"\n", s.X, s.Y, s.Size/2, s.Brightness))
	}
	sb.WriteString("</g>\n")

	for _, it := range items {
		if len(it.Trail) > 1 {
			sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-opacity="%.2f" stroke-width="%.2f" stroke-linejoin="round" d="`,
				it.Color, it.TrailAlpha, it.TrailWidth))
			for i, p := range it.Trail {
				cmd := " L"
				if i == 0 {
					cmd = "M"
				}
				sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", cmd, p.X, p.Y))
			}
			sb.WriteString(`"/>` + "\n")
		}

		if it.Glow > 0 {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="0.6" filter="url(#glow)"/>`+"\n",
				it.Center.X, it.Center.Y, it.Radius+it.Glow/4, it.Color))
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", it.Center.X, it.Center.Y, it.Radius, it.Color))

		if it.Label != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="#ffffff" fill-opacity="0.7" font-family="monospace" font-size="10">%s</text>`+"\n",
				it.Center.X+it.Radius+5, it.Center.Y, html.EscapeString(it.Label)))
		}
	}

	for i, line := range hud {
		sb.WriteString(fmt.Sprintf(`<text x="10" y="%d" fill="#ffffff" fill-opacity="0.5" font-family="monospace" font-size="12">%s</text>`+"\n",
			20+i*16, html.EscapeString(line)))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// TrajectorySVG plots recorded tracks fitted to the image with 10% padding.
// colors[i] strokes tracks[i]; tracks with fewer than two points are skipped.
func TrajectorySVG(w io.Writer, tracks [][]dynamo.Vec2, colors []string, width, height int) error {
	first := true
	var minX, maxX, minY, maxY float64
	for _, tr := range tracks {
		for _, p := range tr {
			if !p.IsFinite() {
				continue
			}
			if first {
				minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
				first = false
				continue
			}
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))

	for i, tr := range tracks {
		if len(tr) < 2 {
			continue
		}
		color := "#ffffff"
		if i < len(colors) {
			color = colors[i]
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, color))
		started := false
		for _, p := range tr {
			if !p.IsFinite() {
				continue
			}
			x := (p.X - minX) / rangeX * float64(width)
			y := (p.Y - minY) / rangeY * float64(height)
			if !started {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				started = true
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(`"/>` + "\n")
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
