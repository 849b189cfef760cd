// Package physics implements the particle engine.
//
// A [Solver] owns the live particles, the static obstacles and a
// [SpatialGrid]. Each call to [Solver.Update] splits the frame into
// fixed sub-steps and runs, in order:
//
//   - gravity (negative mass lifts gases) and random gas drift
//   - the optional attractor
//   - floor and wall containment
//   - collision: grid rebuild, obstacle pass, pairwise pass with
//     material reactions
//   - Verlet integration, sleep detection and culling
//
// Obstacles come in two shapes, [Circle] and [Rect], both satisfying
// [Obstacle].
//
// # Material Reactions
//
// Water quenches fire (20% of the time turning into steam), fire sets
// sand alight, and burning sand has a 0.5% chance per contact to ignite
// its neighbour. All draws go through the solver's [dynamo.Rand].
package physics
