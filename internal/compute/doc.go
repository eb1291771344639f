// Package compute provides the data-parallel kernels behind the parallel
// collision resolver.
//
// The CPU backend splits the pair scan across goroutines. Every worker
// accumulates velocity deltas into its own buffer and the buffers are
// reduced after all workers finish, so no particle index is written by two
// goroutines:
//
//	backend := compute.GetBackend()
//	dv := make([]dynamo.Vec2, n)
//	hits := backend.PairImpulses(pos, vel, radii, dv)
//
// Impulses are computed from the velocities at the start of the scan, which
// differs from the in-place serial scan only when a particle touches more
// than one neighbour in the same step.
package compute
