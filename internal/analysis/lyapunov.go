package analysis

import (
	"math"

	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/physics"
)

// LyapunovExponent estimates the largest Lyapunov exponent of a body set by
// trajectory separation. A positive value indicates chaos.
//
// Algorithm:
// 1. Run the set and a copy whose planet is displaced by perturbation
// 2. After each step measure their phase-space separation δ
// 3. Accumulate ln(δ/δ0), then pull the copy back to distance δ0
// 4. λ ≈ Σ ln(δ/δ0) / (steps * dt)
//
// It stops early once either set goes non-finite. The result is 0 when no
// step could be measured.
func LyapunovExponent(integ physics.Integrator, bodies dynamo.Bodies, dt float64, steps int, perturbation float64) float64 {
	if len(bodies) == 0 || perturbation <= 0 {
		return 0
	}
	integ.Sampler = physics.Never

	x := stripTrails(bodies)
	xp := stripTrails(bodies)
	idx := planetIndex(xp)
	xp[idx].Position.X += perturbation

	d0 := perturbation
	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		x = integ.Step(x, dt)
		xp = integ.Step(xp, dt)
		if !x.IsValid() || !xp.IsValid() {
			break
		}

		sep := separation(x, xp)
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		scale := d0 / sep
		for j := range xp {
			xp[j].Position = x[j].Position.Add(xp[j].Position.Sub(x[j].Position).Scale(scale))
			xp[j].Velocity = x[j].Velocity.Add(xp[j].Velocity.Sub(x[j].Velocity).Scale(scale))
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}

func separation(a, b dynamo.Bodies) float64 {
	sum := 0.0
	for i := range a {
		dp := b[i].Position.Sub(a[i].Position)
		dv := b[i].Velocity.Sub(a[i].Velocity)
		sum += dp.Dot(dp) + dv.Dot(dv)
	}
	return math.Sqrt(sum)
}

// planetIndex falls back to the first body when there is no planet.
func planetIndex(bodies dynamo.Bodies) int {
	for i, b := range bodies {
		if b.IsPlanet {
			return i
		}
	}
	return 0
}

func stripTrails(bodies dynamo.Bodies) dynamo.Bodies {
	out := bodies.Clone()
	for i := range out {
		out[i].Trail = nil
	}
	return out
}
