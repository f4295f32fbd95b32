package dynamo

import (
	"math"
)

// MaxTrailLength is the number of historical positions a body keeps.
const MaxTrailLength = 150

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64         { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Trail is an oldest-first position history capped at MaxTrailLength.
type Trail []Vec2

// Push appends p and evicts the oldest entries once the cap is exceeded.
func (t Trail) Push(p Vec2) Trail {
	t = append(t, p)
	if over := len(t) - MaxTrailLength; over > 0 {
		t = append(t[:0], t[over:]...)
	}
	return t
}

// Clone copies the trail. An over-long trail keeps only its newest
// MaxTrailLength points.
func (t Trail) Clone() Trail {
	if t == nil {
		return nil
	}
	if over := len(t) - MaxTrailLength; over > 0 {
		t = t[over:]
	}
	c := make(Trail, len(t), MaxTrailLength)
	copy(c, t)
	return c
}

type Body struct {
	ID       string  `json:"id"`
	Position Vec2    `json:"position"`
	Velocity Vec2    `json:"velocity"`
	Mass     float64 `json:"mass"`
	Radius   float64 `json:"radius"`
	Color    string  `json:"color"`
	IsPlanet bool    `json:"isPlanet"`
	Trail    Trail   `json:"trail"`
}

func (b Body) Clone() Body {
	b.Trail = b.Trail.Clone()
	return b
}

// Bodies is an ordered simulation set. Order matters only for iteration.
type Bodies []Body

// Clone returns a deep copy; trails are independently owned.
func (bs Bodies) Clone() Bodies {
	if bs == nil {
		return nil
	}
	c := make(Bodies, len(bs))
	for i, b := range bs {
		c[i] = b.Clone()
	}
	return c
}

// Planet returns the first body flagged IsPlanet.
func (bs Bodies) Planet() (Body, bool) {
	for _, b := range bs {
		if b.IsPlanet {
			return b, true
		}
	}
	return Body{}, false
}

func (bs Bodies) Suns() Bodies {
	suns := make(Bodies, 0, len(bs))
	for _, b := range bs {
		if !b.IsPlanet {
			suns = append(suns, b)
		}
	}
	return suns
}

// IsValid reports whether every position and velocity is finite.
func (bs Bodies) IsValid() bool {
	for _, b := range bs {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return false
		}
	}
	return true
}

func (bs Bodies) Momentum() Vec2 {
	var p Vec2
	for _, b := range bs {
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	return p
}

// Barycenter is the mass-weighted mean position.
func (bs Bodies) Barycenter() Vec2 {
	var sum Vec2
	total := 0.0
	for _, b := range bs {
		sum = sum.Add(b.Position.Scale(b.Mass))
		total += b.Mass
	}
	if total == 0 {
		return Vec2{}
	}
	return sum.Scale(1 / total)
}

// Energy returns kinetic plus potential energy, using the same softened
// denominator as the force law.
func (bs Bodies) Energy(g, softening float64) float64 {
	ke, pe := 0.0, 0.0
	for i := range bs {
		v := bs[i].Velocity
		ke += 0.5 * bs[i].Mass * v.Dot(v)
		for j := i + 1; j < len(bs); j++ {
			d := bs[j].Position.Sub(bs[i].Position)
			pe -= g * bs[i].Mass * bs[j].Mass / math.Sqrt(d.Dot(d)+softening)
		}
	}
	return ke + pe
}
