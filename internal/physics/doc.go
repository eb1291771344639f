// Package physics implements the per-step pipeline of the hard-disk gas:
//
//   - [ResolveCollisions]: pairwise elastic impulses along the line of centers
//   - [ResolveBoundaries]: wall clamping and reflection
//   - [Integrate]: explicit position update from velocities
//
// All three mutate a [particle.System] in place and must run in that order
// within a step so that reflected and impulse-adjusted velocities are the
// ones integrated.
//
// # Collision order
//
// [SerialCollider] scans pairs (i, j), i < j, in ascending order and applies
// each impulse immediately, so a particle touching several neighbours sees
// the impulses of earlier pairs. Resolution of three or more simultaneous
// contacts therefore depends on index order. This is a known approximation
// and is kept as is; there is no second pass within a step.
//
// [ParallelCollider] computes every impulse from the velocities at the start
// of the scan and sums them. Both agree exactly for isolated pairs.
package physics
