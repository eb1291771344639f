package sim

import (
	"math/rand"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/seed"
)

// Handle exposes one particle system to an external driver loop that calls
// Step and reads positions between steps. Each handle owns its own system;
// there is no shared instance.
type Handle struct {
	sim *Simulator
}

// Create allocates a system of count particles in the unit box and seeds it
// uniformly from seedVal.
func Create(count int, rMin, rMax, speed float64, seedVal int64) (*Handle, error) {
	sys, err := particle.New(particle.Params{
		Count:     count,
		RadiusMin: rMin,
		RadiusMax: rMax,
		Speed:     speed,
		Bounds:    dynamo.UnitBox(),
	})
	if err != nil {
		return nil, err
	}
	seed.Uniform(sys, rand.New(rand.NewSource(seedVal)))
	return &Handle{sim: New(sys, nil)}, nil
}

// Step runs one Collision → Boundary → Integrate pass with the derived dt.
func (h *Handle) Step() error {
	if h.sim == nil {
		return dynamo.ErrReleased
	}
	h.sim.Step(0)
	return nil
}

// Positions appends the current positions to dst.
func (h *Handle) Positions(dst []dynamo.Vec2) ([]dynamo.Vec2, error) {
	if h.sim == nil {
		return dst, dynamo.ErrReleased
	}
	return append(dst, h.sim.sys.Positions...), nil
}

// Radii appends the particle radii to dst.
func (h *Handle) Radii(dst []float64) ([]float64, error) {
	if h.sim == nil {
		return dst, dynamo.ErrReleased
	}
	return append(dst, h.sim.sys.Radii...), nil
}

// Destroy releases the system. Calling it twice is harmless.
func (h *Handle) Destroy() {
	if h.sim == nil {
		return
	}
	h.sim.sys.Release()
	h.sim = nil
}
