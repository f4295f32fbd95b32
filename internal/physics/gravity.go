package physics

import (
	"math"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

// Integrator binds the force-law parameters for repeated stepping.
type Integrator struct {
	G         float64
	Softening float64
	Sampler   TrailSampler
}

func (in Integrator) Step(bodies dynamo.Bodies, dt float64) dynamo.Bodies {
	return Step(bodies, in.G, in.Softening, dt, in.Sampler)
}

// Step returns the set advanced by dt. The input is never mutated.
//
// Force magnitude is softened, F = G*mi*mj/(r²+softening), but the direction
// uses the raw distance r. This asymmetry is reproduced on purpose because the
// preset trajectories depend on it; it also means two coincident bodies yield
// NaN. Neither case is trapped here.
func Step(bodies dynamo.Bodies, g, softening, dt float64, sampler TrailSampler) dynamo.Bodies {
	next := bodies.Clone()
	if sampler == nil {
		sampler = Never
	}

	buf := accelPool.Get(len(next))
	defer accelPool.Put(buf)
	acc := *buf
	for i := range next {
		fx, fy := 0.0, 0.0
		for j := range next {
			if i == j {
				continue
			}
			dx := next[j].Position.X - next[i].Position.X
			dy := next[j].Position.Y - next[i].Position.Y
			r2 := dx*dx + dy*dy
			r := math.Sqrt(r2)

			f := g * next[i].Mass * next[j].Mass / (r2 + softening)
			fx += f * dx / r
			fy += f * dy / r
		}
		acc[i] = dynamo.Vec2{X: fx / next[i].Mass, Y: fy / next[i].Mass}
	}

	for i := range next {
		next[i].Velocity.X += acc[i].X * dt
		next[i].Velocity.Y += acc[i].Y * dt
	}

	for i := range next {
		b := &next[i]
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
		if sampler.Sample() {
			b.Trail = b.Trail.Push(b.Position)
		}
	}

	return next
}
