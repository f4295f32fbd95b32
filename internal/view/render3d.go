package view

import (
	"math"
	"sort"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

const (
	planetGlow       = 5.0
	sunGlow          = 30.0
	planetTrailAlpha = 0.5
	sunTrailAlpha    = 0.3
	labelMinZoom     = 0.2
)

// Projected is a screen-space point with its depth key.
type Projected struct {
	X, Y  float64
	Depth float64
}

// Project maps a world point on the z=0 physics plane to screen space: yaw
// about the view axis, pitch tilting the plane, then orthographic scale and
// screen-space pan. Depth is kept for sorting only.
func Project(cam Camera, cx, cy, x, y float64) Projected {
	cosYaw, sinYaw := math.Cos(cam.Yaw), math.Sin(cam.Yaw)
	x1 := x*cosYaw - y*sinYaw
	y1 := x*sinYaw + y*cosYaw

	cosPitch, sinPitch := math.Cos(cam.Pitch), math.Sin(cam.Pitch)
	y2 := y1 * cosPitch
	z2 := y1 * sinPitch

	return Projected{
		X:     cx + cam.Pan.X + x1*cam.Zoom,
		Y:     cy + cam.Pan.Y + y2*cam.Zoom,
		Depth: z2,
	}
}

// DrawItem is one body's draw instructions, trail first then disc.
type DrawItem struct {
	ID         string
	Color      string
	IsPlanet   bool
	Center     Projected
	Radius     float64
	Glow       float64
	Trail      []Projected
	TrailAlpha float64
	TrailWidth float64
	Label      string
}

// BuildFrame projects bodies and their trails and orders them back to front.
// Bodies with non-finite positions are skipped.
func BuildFrame(cam Camera, bodies dynamo.Bodies, width, height float64) []DrawItem {
	// Scenario positions already include the center, so the default view
	// draws the system around (width, height). Pan brings it into view.
	cx, cy := width/2, height/2
	items := make([]DrawItem, 0, len(bodies))

	for _, b := range bodies {
		if !b.Position.IsFinite() {
			continue
		}
		item := DrawItem{
			ID:       b.ID,
			Color:    b.Color,
			IsPlanet: b.IsPlanet,
			Center:   Project(cam, cx, cy, b.Position.X, b.Position.Y),
			Radius:   b.Radius * cam.Zoom,
		}

		lineWidth := 2.0
		item.Glow, item.TrailAlpha = sunGlow, sunTrailAlpha
		if b.IsPlanet {
			lineWidth = 1
			item.Glow, item.TrailAlpha = planetGlow, planetTrailAlpha
		}
		item.TrailWidth = lineWidth / math.Pow(cam.Zoom, 0.2)

		if len(b.Trail) > 1 {
			item.Trail = make([]Projected, len(b.Trail))
			for i, p := range b.Trail {
				item.Trail[i] = Project(cam, cx, cy, p.X, p.Y)
			}
		}
		if !b.IsPlanet && cam.Zoom > labelMinZoom {
			item.Label = b.ID
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Center.Depth < items[j].Center.Depth
	})
	return items
}
