package metrics

import (
	"github.com/san-kum/trisolaris/internal/dynamo"
)

const historyCapacity = 600

// PlanetDistance records the planet's distance to the suns' barycenter.
type PlanetDistance struct {
	name    string
	last    float64
	history []float64
}

func NewPlanetDistance() *PlanetDistance {
	return &PlanetDistance{
		name:    "planet_distance",
		history: make([]float64, 0, historyCapacity),
	}
}

func (p *PlanetDistance) Name() string { return p.name }

func (p *PlanetDistance) Observe(bodies dynamo.Bodies) {
	d, ok := planetDistance(bodies)
	if !ok {
		return
	}
	p.last = d
	p.history = append(p.history, d)
	if len(p.history) > historyCapacity {
		p.history = p.history[1:]
	}
}

func (p *PlanetDistance) Value() float64 { return p.last }

// History returns a copy of the recent distances, oldest first.
func (p *PlanetDistance) History() []float64 {
	out := make([]float64, len(p.history))
	copy(out, p.history)
	return out
}

func (p *PlanetDistance) Reset() {
	p.last = 0
	p.history = p.history[:0]
}

func planetDistance(bodies dynamo.Bodies) (float64, bool) {
	planet, ok := bodies.Planet()
	if !ok || !planet.Position.IsFinite() {
		return 0, false
	}
	suns := bodies.Suns()
	if len(suns) == 0 {
		return 0, false
	}
	return planet.Position.Sub(suns.Barycenter()).Len(), true
}
