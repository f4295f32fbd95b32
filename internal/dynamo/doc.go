// Package dynamo provides the core data model of the three-sun simulation.
//
// The package defines the plain records shared by every other component:
//
//   - [Vec2]: world-space coordinate or displacement
//   - [Body]: a sun or the planet, with rendering metadata and a [Trail]
//   - [Trail]: bounded position history with FIFO eviction
//   - [Bodies]: an ordered simulation set
//
// # Ownership
//
// A Bodies value handed to an observer must be a [Bodies.Clone]. The integrator
// never mutates its input, so the working set can be replaced wholesale each tick.
package dynamo
