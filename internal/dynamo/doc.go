// Package dynamo provides the geometric primitives shared by the particle
// simulator.
//
// The package defines the small value types every other package builds on:
//
//   - [Vec2]: 2D vector used for positions and velocities
//   - [Bounds]: axis-aligned simulation box
//   - [ParallelFor]: chunked worker helper for per-index passes
//
// and the domain errors returned across package boundaries
// ([ErrInvalidConfiguration], [ErrReleased], ...).
//
// # Example
//
//	b := dynamo.UnitBox()
//	v := dynamo.Vec2{X: 0.01}
//	p := dynamo.Vec2{X: 0.5, Y: 0.5}.Add(v.Scale(dt))
//
// # Thread Safety
//
// All types are plain values. [ParallelFor] callers are responsible for
// making sure each index range touches disjoint memory.
package dynamo
