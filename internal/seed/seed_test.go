package seed

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/particle"
)

func newSystem(t *testing.T, n int, b dynamo.Bounds) *particle.System {
	t.Helper()
	s, err := particle.New(particle.Params{
		Count: n, RadiusMin: 0.035, RadiusMax: 0.085, Speed: 0.009, Bounds: b,
	})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	return s
}

func TestUniform(t *testing.T) {
	boxes := []dynamo.Bounds{
		dynamo.UnitBox(),
		{XMin: -2, XMax: 3, YMin: 10, YMax: 10.5},
	}

	for _, b := range boxes {
		t.Run(b.String(), func(t *testing.T) {
			s := newSystem(t, 500, b)
			Uniform(s, rand.New(rand.NewSource(1)))

			for i := 0; i < s.Count(); i++ {
				r := s.Radii[i]
				if r < 0.035 || r > 0.085 {
					t.Fatalf("radius %d out of range: %f", i, r)
				}
				if !b.ContainsDisk(s.Positions[i], r) {
					t.Fatalf("particle %d not inside box: pos=%v r=%f", i, s.Positions[i], r)
				}
				if speed := s.Velocities[i].Norm(); math.Abs(speed-0.009) > 1e-12 {
					t.Fatalf("particle %d speed = %v, want 0.009", i, speed)
				}
			}
		})
	}
}

func TestUniform_Deterministic(t *testing.T) {
	a := newSystem(t, 50, dynamo.UnitBox())
	b := newSystem(t, 50, dynamo.UnitBox())

	Uniform(a, rand.New(rand.NewSource(99)))
	Uniform(b, rand.New(rand.NewSource(99)))

	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] || a.Velocities[i] != b.Velocities[i] || a.Radii[i] != b.Radii[i] {
			t.Fatalf("particle %d differs between runs with the same seed", i)
		}
	}
}

func TestUniform_DirectionsSpread(t *testing.T) {
	s := newSystem(t, 4000, dynamo.UnitBox())
	Uniform(s, rand.New(rand.NewSource(3)))

	var quadrants [4]int
	for _, v := range s.Velocities {
		q := 0
		if v.X < 0 {
			q++
		}
		if v.Y < 0 {
			q += 2
		}
		quadrants[q]++
	}
	for q, c := range quadrants {
		if c < 800 || c > 1200 {
			t.Errorf("quadrant %d has %d of 4000 velocities", q, c)
		}
	}
}

func TestLattice(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		rMin, rMax float64
		bounds     dynamo.Bounds
	}{
		{"sparse", 10, 0.05, 0.08, dynamo.UnitBox()},
		{"dense shrinks radius", 100, 0.06, 0.06, dynamo.UnitBox()},
		{"wide box", 16, 0.2, 0.2, dynamo.Bounds{XMin: 0, XMax: 2, YMin: 0, YMax: 1}},
		{"single", 1, 0.3, 0.3, dynamo.UnitBox()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := particle.New(particle.Params{
				Count: tt.count, RadiusMin: tt.rMin, RadiusMax: tt.rMax, Speed: 0.02, Bounds: tt.bounds,
			})
			if err != nil {
				t.Fatal(err)
			}
			Lattice(s)

			crossing := 0
			for i := 0; i < s.Count(); i++ {
				if !s.Bounds.ContainsDisk(s.Positions[i], s.Radii[i]) {
					crossing++
				}
				if s.Radii[i] > tt.rMin {
					t.Errorf("particle %d radius %v exceeds RadiusMin %v", i, s.Radii[i], tt.rMin)
				}
			}
			if crossing > 0 {
				t.Errorf("%d/%d disks cross a wall", crossing, s.Count())
			}
			for i := 0; i < s.Count(); i++ {
				for j := i + 1; j < s.Count(); j++ {
					if d := s.Positions[i].Sub(s.Positions[j]).Norm(); d < s.Radii[i]+s.Radii[j]-1e-12 {
						t.Errorf("particles %d and %d overlap (d=%f)", i, j, d)
					}
				}
			}
			if p := s.Momentum(); s.Count() > 1 && p.Norm() > 1e-12 {
				t.Errorf("evenly spread directions should cancel, got momentum %v", p)
			}
		})
	}
}

func TestLatticeCell(t *testing.T) {
	if got := LatticeCell(100, dynamo.UnitBox()); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("LatticeCell(100) = %v, want 0.1", got)
	}
	b := dynamo.Bounds{XMin: 0, XMax: 2, YMin: 0, YMax: 1}
	if got := LatticeCell(16, b); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("LatticeCell(16, 2x1) = %v, want 0.25", got)
	}
}

func TestFitRadius(t *testing.T) {
	b := dynamo.Bounds{XMin: 0, XMax: 1, YMin: 0, YMax: 0.1}
	if got := fitRadius(0.2, b); got != 0.05 {
		t.Errorf("fitRadius(0.2) = %v, want 0.05", got)
	}
	if got := fitRadius(0.01, b); got != 0.01 {
		t.Errorf("fitRadius(0.01) = %v, want 0.01", got)
	}
}
