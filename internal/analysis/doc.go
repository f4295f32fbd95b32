// Package analysis characterizes a run after the fact.
//
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [PowerSpectrum] and [DominantPeriod]: spectral view of a scalar series,
//     such as the planet's distance to the suns
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(integ, bodies, dt, 2000, 1e-3)
//	if lambda > 0 {
//	    // the sky is chaotic
//	}
package analysis
