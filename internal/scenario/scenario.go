// Package scenario builds the initial body sets for the named presets.
package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

type Preset string

const (
	StableFigure8   Preset = "Stable Figure-8"
	ChaoticRandom   Preset = "Chaotic Random"
	Hierarchical    Preset = "Hierarchical"
	CollisionCourse Preset = "Collision Course"
)

const (
	PlanetID     = "trisolaris"
	PlanetMass   = 10.0
	PlanetRadius = 5.0
	PlanetColor  = "#38bdf8"
)

var sunColors = [3]string{"#fbbf24", "#f87171", "#a78bfa"}

// SunColor is the display color of the i-th sun (zero-based), cycling past
// the third.
func SunColor(i int) string {
	return sunColors[i%len(sunColors)]
}

var slugs = map[string]Preset{
	"figure8":      StableFigure8,
	"random":       ChaoticRandom,
	"hierarchical": Hierarchical,
	"collision":    CollisionCourse,
}

// All lists the presets in menu order.
func All() []Preset {
	return []Preset{StableFigure8, ChaoticRandom, Hierarchical, CollisionCourse}
}

// Slug returns the short CLI name of p.
func (p Preset) Slug() string {
	for s, preset := range slugs {
		if preset == p {
			return s
		}
	}
	return strings.ToLower(strings.ReplaceAll(string(p), " ", "-"))
}

// Parse resolves a display name or slug, case-insensitively.
func Parse(name string) (Preset, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if p, ok := slugs[n]; ok {
		return p, nil
	}
	for _, p := range All() {
		if strings.ToLower(string(p)) == n {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", dynamo.ErrUnknownPreset, name)
}

func sun(idx int, x, y, vx, vy, mass float64) dynamo.Body {
	return dynamo.Body{
		ID:       fmt.Sprintf("sun%d", idx+1),
		Position: dynamo.Vec2{X: x, Y: y},
		Velocity: dynamo.Vec2{X: vx, Y: vy},
		Mass:     mass,
		Radius:   math.Sqrt(mass) * 2,
		Color:    SunColor(idx),
		Trail:    make(dynamo.Trail, 0, dynamo.MaxTrailLength),
	}
}

func planet(x, y, vx, vy float64) dynamo.Body {
	return dynamo.Body{
		ID:       PlanetID,
		Position: dynamo.Vec2{X: x, Y: y},
		Velocity: dynamo.Vec2{X: vx, Y: vy},
		Mass:     PlanetMass,
		Radius:   PlanetRadius,
		Color:    PlanetColor,
		IsPlanet: true,
		Trail:    make(dynamo.Trail, 0, dynamo.MaxTrailLength),
	}
}

// Generate builds the four-body set for preset, centered on the canvas.
// Unrecognized presets fall back to ChaoticRandom, which draws from rng; a
// nil rng gets a time-seeded source.
func Generate(preset Preset, width, height float64, rng *rand.Rand) dynamo.Bodies {
	cx, cy := width/2, height/2

	switch preset {
	case StableFigure8:
		const (
			px, py = 97.000436, 24.308753
			vx, vy = 0.4662036850, 0.4323657300
		)
		return dynamo.Bodies{
			sun(0, cx+px, cy-py, vx, vy, 1000),
			sun(1, cx-px, cy+py, vx, vy, 1000),
			sun(2, cx, cy, -2*vx, -2*vy, 1000),
			planet(cx+50, cy+50, 0.5, 0.5),
		}

	case Hierarchical:
		return dynamo.Bodies{
			sun(0, cx, cy, 0, 0, 5000),
			sun(1, cx+300, cy, 0, 3.5, 500),
			sun(2, cx+350, cy, 0, 5.5, 50),
			planet(cx+360, cy, 0, 6.0),
		}

	case CollisionCourse:
		return dynamo.Bodies{
			sun(0, cx-200, cy, 1.5, 0, 1500),
			sun(1, cx+200, cy, -1.5, 0, 1500),
			sun(2, cx, cy-200, 0, 1.5, 1500),
			planet(cx+10, cy+10, 0, 0),
		}

	default:
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		// centered offset in [-span/2, span/2]
		off := func(span float64) float64 { return (rng.Float64() - 0.5) * span }

		bodies := make(dynamo.Bodies, 0, 4)
		for i := 0; i < 3; i++ {
			x, y := cx+off(300), cy+off(300)
			vx, vy := off(1), off(1)
			mass := 800 + rng.Float64()*400
			bodies = append(bodies, sun(i, x, y, vx, vy, mass))
		}
		return append(bodies, planet(cx, cy, off(2), off(2)))
	}
}
