// Package physics advances a [dynamo.Bodies] set under mutual gravity.
//
// [Step] is an all-pairs semi-implicit Euler integrator: every velocity is
// updated from the pre-step positions, then every position moves with the new
// velocity. Energy is not conserved; drift is accepted.
//
//	integ := physics.Integrator{G: 1.5, Softening: 1000, Sampler: physics.NewRandomSampler(rng)}
//	bodies = integ.Step(bodies, 0.1)
//
// Trail recording is stochastic and goes through a [TrailSampler] so tests can
// pin it with [Always] or [Never].
package physics
