// Package seed populates freshly allocated particle systems.
package seed

import (
	"math"
	"math/rand"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/particle"
)

// Uniform draws every radius uniformly from [RadiusMin, RadiusMax], places
// each center uniformly so the whole disk is inside the box, and assigns a
// velocity of magnitude Speed in a uniformly random direction. Overlaps
// between particles are allowed; the first collision pass separates them.
func Uniform(s *particle.System, rng *rand.Rand) {
	p := s.Params()
	b := s.Bounds

	for i := 0; i < s.Count(); i++ {
		r := p.RadiusMin + rng.Float64()*(p.RadiusMax-p.RadiusMin)
		r = fitRadius(r, b)
		s.Radii[i] = r

		s.Positions[i] = dynamo.Vec2{
			X: b.XMin + r + rng.Float64()*(b.Width()-2*r),
			Y: b.YMin + r + rng.Float64()*(b.Height()-2*r),
		}

		sin, cos := math.Sincos(rng.Float64() * 2 * math.Pi)
		s.Velocities[i] = dynamo.Vec2{X: p.Speed * cos, Y: p.Speed * sin}
	}
}

// Lattice places particles on the smallest square grid that holds them, all
// with radius RadiusMin, and gives them speed Speed with directions spread
// evenly around the circle. The result does not depend on any random source.
// A radius wider than half a grid cell is shrunk to fit the cell.
func Lattice(s *particle.System) {
	p := s.Params()
	b := s.Bounds
	n := s.Count()

	cols, rows := latticeGrid(n)
	cw := b.Width() / float64(cols)
	ch := b.Height() / float64(rows)
	r := math.Min(fitRadius(p.RadiusMin, b), math.Min(cw, ch)/2)

	for i := 0; i < n; i++ {
		s.Radii[i] = r
		s.Positions[i] = dynamo.Vec2{
			X: b.XMin + (float64(i%cols)+0.5)*cw,
			Y: b.YMin + (float64(i/cols)+0.5)*ch,
		}
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		s.Velocities[i] = dynamo.Vec2{X: p.Speed * cos, Y: p.Speed * sin}
	}
}

// LatticeCell returns the shorter side of a grid cell when n particles are
// laid out in b by Lattice. Disks wider than this cannot be placed unchanged.
func LatticeCell(n int, b dynamo.Bounds) float64 {
	cols, rows := latticeGrid(n)
	return math.Min(b.Width()/float64(cols), b.Height()/float64(rows))
}

func latticeGrid(n int) (cols, rows int) {
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return cols, rows
}

// Place sets particle i explicitly.
func Place(s *particle.System, i int, pos, vel dynamo.Vec2, r float64) {
	s.Positions[i] = pos
	s.Velocities[i] = vel
	s.Radii[i] = r
}

// fitRadius shrinks r so a disk still fits in the box.
func fitRadius(r float64, b dynamo.Bounds) float64 {
	half := math.Min(b.Width(), b.Height()) / 2
	if r > half {
		return half
	}
	return r
}
