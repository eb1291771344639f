package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/partsim/internal/compute"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/particle"
)

// Collider resolves particle-particle contacts for one step and returns the
// number of impulses it applied.
type Collider interface {
	Name() string
	Resolve(s *particle.System) int
}

// ResolveCollisions applies the equal-mass elastic impulse to every
// overlapping pair that is approaching along its line of centers. Pairs are
// visited once each in ascending (i, j) order and velocities are updated in
// place. Coincident centers are skipped. Positions are never corrected.
func ResolveCollisions(s *particle.System) int {
	pos, vel, radii := s.Positions, s.Velocities, s.Radii
	n := len(radii)
	hits := 0

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			nx := pos[i].X - pos[j].X
			ny := pos[i].Y - pos[j].Y
			d2 := nx*nx + ny*ny
			d := math.Sqrt(d2)
			if d <= 0 {
				continue
			}
			if d >= radii[i]+radii[j] {
				continue
			}

			// only approaching pairs; separating ones were already resolved
			dot := (vel[i].X-vel[j].X)*nx + (vel[i].Y-vel[j].Y)*ny
			if dot < 0 {
				q := dot / d2
				vel[i].X -= q * nx
				vel[i].Y -= q * ny
				vel[j].X += q * nx
				vel[j].Y += q * ny
				hits++
			}
		}
	}

	return hits
}

type SerialCollider struct{}

func NewSerialCollider() *SerialCollider { return &SerialCollider{} }

func (c *SerialCollider) Name() string                   { return "serial" }
func (c *SerialCollider) Resolve(s *particle.System) int { return ResolveCollisions(s) }

// ParallelCollider sums impulses computed against the velocities at the
// start of the scan. Below MinCount particles it defers to the serial scan.
type ParallelCollider struct {
	MinCount int
	backend  compute.Backend
	dv       []dynamo.Vec2
}

// DefaultParallelMinCount is the particle count below which the parallel
// collider runs the serial scan.
const DefaultParallelMinCount = 128

// NewParallelCollider uses the active compute backend when backend is nil.
func NewParallelCollider(backend compute.Backend) *ParallelCollider {
	if backend == nil {
		backend = compute.GetBackend()
	}
	return &ParallelCollider{MinCount: DefaultParallelMinCount, backend: backend}
}

func (c *ParallelCollider) Name() string { return "parallel" }

func (c *ParallelCollider) Resolve(s *particle.System) int {
	n := s.Count()
	if n < c.MinCount {
		return ResolveCollisions(s)
	}

	if cap(c.dv) < n {
		c.dv = make([]dynamo.Vec2, n)
	}
	dv := c.dv[:n]
	for i := range dv {
		dv[i] = dynamo.Vec2{}
	}

	hits := c.backend.PairImpulses(s.Positions, s.Velocities, s.Radii, dv)
	for i := range dv {
		s.Velocities[i] = s.Velocities[i].Add(dv[i])
	}
	return hits
}

var colliders = map[string]func(workers int) Collider{
	"serial":   func(int) Collider { return NewSerialCollider() },
	"parallel": func(workers int) Collider { return NewParallelCollider(compute.NewCPUBackend(workers)) },
}

// NewCollider returns the collider registered under name.
func NewCollider(name string, workers int) (Collider, error) {
	fn, ok := colliders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownCollider, name, ListColliders())
	}
	return fn(workers), nil
}

func ListColliders() []string {
	names := make([]string, 0, len(colliders))
	for name := range colliders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
