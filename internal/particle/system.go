// Package particle holds the particle system state: parallel position,
// velocity and radius slices plus the box and the parameters used to derive
// a safe timestep.
package particle

import (
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
)

// Params describes a particle system at creation time. Speed, RadiusMin and
// RadiusMax only drive seeding and the timestep derivation; they are not
// enforced once the system runs.
type Params struct {
	Count     int
	RadiusMin float64
	RadiusMax float64
	Speed     float64
	Bounds    dynamo.Bounds
	// Dt overrides the derived timestep when positive.
	Dt float64
}

func (p Params) Validate() error {
	if p.Count <= 0 {
		return dynamo.Invalidf("particle count must be positive, got %d", p.Count)
	}
	if !finite(p.RadiusMin) || !finite(p.RadiusMax) || p.RadiusMin <= 0 || p.RadiusMax <= 0 {
		return dynamo.Invalidf("radius bounds must be positive, got [%g, %g]", p.RadiusMin, p.RadiusMax)
	}
	if p.RadiusMin > p.RadiusMax {
		return dynamo.Invalidf("radius_min (%g) exceeds radius_max (%g)", p.RadiusMin, p.RadiusMax)
	}
	if !finite(p.Speed) || p.Speed < 0 {
		return dynamo.Invalidf("speed must be non-negative, got %g", p.Speed)
	}
	if !finite(p.Dt) || p.Dt < 0 {
		return dynamo.Invalidf("dt must be non-negative, got %g", p.Dt)
	}
	return p.Bounds.Validate()
}

// System owns the state of every particle. Index i denotes the same particle
// for the whole lifetime of the system.
type System struct {
	Positions  []dynamo.Vec2
	Velocities []dynamo.Vec2
	Radii      []float64
	Bounds     dynamo.Bounds

	params   Params
	released bool
}

// New validates p and allocates zeroed positions and velocities. Radii start
// at RadiusMin so every particle has a positive radius before seeding.
func New(p Params) (*System, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	radii := make([]float64, p.Count)
	for i := range radii {
		radii[i] = p.RadiusMin
	}

	return &System{
		Positions:  make([]dynamo.Vec2, p.Count),
		Velocities: make([]dynamo.Vec2, p.Count),
		Radii:      radii,
		Bounds:     p.Bounds,
		params:     p,
	}, nil
}

func (s *System) Count() int     { return len(s.Radii) }
func (s *System) Params() Params { return s.params }
func (s *System) Released() bool { return s.released }

// RecommendedDt is the largest step for which no particle moves more than a
// third of the smallest radius.
func (s *System) RecommendedDt() float64 {
	return RecommendedDt(s.params.RadiusMin, s.params.Speed)
}

// Dt returns the override from Params when set, otherwise RecommendedDt.
func (s *System) Dt() float64 {
	if s.params.Dt > 0 {
		return s.params.Dt
	}
	return s.RecommendedDt()
}

// RecommendedDt returns rMin/(3*speed). With zero speed nothing moves, so
// rMin itself is returned.
func RecommendedDt(rMin, speed float64) float64 {
	if speed <= 0 {
		return rMin
	}
	return rMin / (3 * speed)
}

// Release drops all particle storage. The system must not be stepped again.
func (s *System) Release() {
	s.Positions = nil
	s.Velocities = nil
	s.Radii = nil
	s.released = true
}

func (s *System) Clone() *System {
	c := &System{
		Positions:  make([]dynamo.Vec2, len(s.Positions)),
		Velocities: make([]dynamo.Vec2, len(s.Velocities)),
		Radii:      make([]float64, len(s.Radii)),
		Bounds:     s.Bounds,
		params:     s.params,
		released:   s.released,
	}
	copy(c.Positions, s.Positions)
	copy(c.Velocities, s.Velocities)
	copy(c.Radii, s.Radii)
	return c
}

// KineticEnergy returns sum(|v|^2)/2 over all particles (unit mass).
func (s *System) KineticEnergy() float64 {
	return 0.5 * s.SpeedSquaredSum()
}

func (s *System) SpeedSquaredSum() float64 {
	sum := 0.0
	for _, v := range s.Velocities {
		sum += v.Norm2()
	}
	return sum
}

func (s *System) Momentum() dynamo.Vec2 {
	var p dynamo.Vec2
	for _, v := range s.Velocities {
		p = p.Add(v)
	}
	return p
}

// Contained reports whether every disk lies fully inside the box.
func (s *System) Contained() bool {
	for i, p := range s.Positions {
		if !s.Bounds.ContainsDisk(p, s.Radii[i]) {
			return false
		}
	}
	return true
}

// Validate returns ErrInvalidState if any position or velocity is NaN/Inf.
func (s *System) Validate() error {
	if s.released {
		return dynamo.ErrReleased
	}
	for i := range s.Positions {
		if !s.Positions[i].IsValid() || !s.Velocities[i].IsValid() {
			return dynamo.ErrInvalidState
		}
	}
	return nil
}

// Speeds appends |v| of every particle to dst.
func (s *System) Speeds(dst []float64) []float64 {
	for _, v := range s.Velocities {
		dst = append(dst, v.Norm())
	}
	return dst
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
