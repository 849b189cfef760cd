// Package dynamo provides the core primitives of the particle simulator.
//
// The package defines the value types and interfaces shared by every
// other package:
//
//   - [Vec2]: 2D floating-point vector
//   - [Material]: closed set of particle kinds with per-kind [Properties]
//   - [Particle]: per-particle state (Verlet position pair, life, burning)
//   - [Integrator]: advances a single particle by one sub-step
//   - [World], [Metric], [Observer]: read-only view used by metrics and drivers
//   - [Rand]: injectable random source for probabilistic material reactions
//
// # Example
//
//	p := dynamo.NewParticle(100, 50, dynamo.Sand, false)
//	p.ApplyForce(dynamo.Vec2{Y: 1500 * p.Mass})
//
// # Thread Safety
//
// Particles are plain values owned by a single solver. Nothing in this
// package is safe for concurrent mutation.
package dynamo
