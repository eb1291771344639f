package physics_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/compute"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/physics"
)

const tol = 1e-12

func newSystem(n int, rMin, speed float64) *particle.System {
	s, err := particle.New(particle.Params{
		Count:     n,
		RadiusMin: rMin,
		RadiusMax: rMin,
		Speed:     speed,
		Bounds:    dynamo.UnitBox(),
	})
	Expect(err).NotTo(HaveOccurred())
	return s
}

func twoParticles(p0, p1, v0, v1 dynamo.Vec2, r float64) *particle.System {
	s := newSystem(2, r, 0.01)
	s.Positions[0], s.Positions[1] = p0, p1
	s.Velocities[0], s.Velocities[1] = v0, v1
	return s
}

// randomGas places n particles on a jittered grid with random velocities.
func randomGas(n int, r float64, rng *rand.Rand) *particle.System {
	s := newSystem(n, r, 0.01)
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	cell := 1.0 / float64(cols)
	for i := 0; i < n; i++ {
		s.Positions[i] = dynamo.Vec2{
			X: (float64(i%cols) + 0.5 + 0.6*(rng.Float64()-0.5)) * cell,
			Y: (float64(i/cols) + 0.5 + 0.6*(rng.Float64()-0.5)) * cell,
		}
		angle := rng.Float64() * 2 * math.Pi
		s.Velocities[i] = dynamo.Vec2{X: 0.01 * math.Cos(angle), Y: 0.01 * math.Sin(angle)}
	}
	return s
}

func step(s *particle.System, c physics.Collider) {
	c.Resolve(s)
	physics.ResolveBoundaries(s)
	physics.Integrate(s, 0)
}

var _ = Describe("ResolveCollisions", func() {
	It("reverses a head-on collision along x", func() {
		s := twoParticles(
			dynamo.Vec2{X: 0.4, Y: 0.5}, dynamo.Vec2{X: 0.415, Y: 0.5},
			dynamo.Vec2{X: 0.01}, dynamo.Vec2{X: -0.01},
			0.01,
		)

		Expect(physics.ResolveCollisions(s)).To(Equal(1))
		Expect(s.Velocities[0].X).To(BeNumerically("~", -0.01, tol))
		Expect(s.Velocities[0].Y).To(BeNumerically("~", 0, tol))
		Expect(s.Velocities[1].X).To(BeNumerically("~", 0.01, tol))
		Expect(s.Velocities[1].Y).To(BeNumerically("~", 0, tol))
	})

	It("conserves the sum of squared speeds for an oblique collision", func() {
		s := twoParticles(
			dynamo.Vec2{X: 0.5, Y: 0.5}, dynamo.Vec2{X: 0.51, Y: 0.512},
			dynamo.Vec2{X: 0.02, Y: 0.003}, dynamo.Vec2{X: -0.004, Y: -0.011},
			0.01,
		)
		before := s.SpeedSquaredSum()
		momentum := s.Momentum()

		Expect(physics.ResolveCollisions(s)).To(Equal(1))
		Expect(s.SpeedSquaredSum()).To(BeNumerically("~", before, tol))
		Expect(s.Momentum().X).To(BeNumerically("~", momentum.X, tol))
		Expect(s.Momentum().Y).To(BeNumerically("~", momentum.Y, tol))
	})

	It("leaves separating particles untouched even when overlapping", func() {
		v0, v1 := dynamo.Vec2{X: -0.01, Y: 0.002}, dynamo.Vec2{X: 0.01, Y: 0.001}
		s := twoParticles(dynamo.Vec2{X: 0.4, Y: 0.5}, dynamo.Vec2{X: 0.415, Y: 0.5}, v0, v1, 0.01)

		Expect(physics.ResolveCollisions(s)).To(Equal(0))
		Expect(s.Velocities[0]).To(Equal(v0))
		Expect(s.Velocities[1]).To(Equal(v1))
	})

	It("skips coincident centers without changing velocities", func() {
		v0, v1 := dynamo.Vec2{X: 0.01}, dynamo.Vec2{X: -0.01}
		s := twoParticles(dynamo.Vec2{X: 0.5, Y: 0.5}, dynamo.Vec2{X: 0.5, Y: 0.5}, v0, v1, 0.01)

		Expect(func() { physics.ResolveCollisions(s) }).NotTo(Panic())
		Expect(s.Velocities[0]).To(Equal(v0))
		Expect(s.Velocities[1]).To(Equal(v1))
	})

	It("ignores pairs that only touch", func() {
		v0, v1 := dynamo.Vec2{X: 0.01}, dynamo.Vec2{X: -0.01}
		s := twoParticles(dynamo.Vec2{X: 0.25, Y: 0.5}, dynamo.Vec2{X: 0.75, Y: 0.5}, v0, v1, 0.25)

		Expect(physics.ResolveCollisions(s)).To(Equal(0))
		Expect(s.Velocities[0]).To(Equal(v0))
	})

	It("resolves a three-body row in ascending index order", func() {
		s := newSystem(3, 0.01, 0.01)
		s.Positions[0] = dynamo.Vec2{X: 0.40, Y: 0.5}
		s.Positions[1] = dynamo.Vec2{X: 0.415, Y: 0.5}
		s.Positions[2] = dynamo.Vec2{X: 0.43, Y: 0.5}
		s.Velocities[0] = dynamo.Vec2{X: 0.01}
		s.Velocities[2] = dynamo.Vec2{X: -0.01}

		// (0,1) swaps 0 and 1, then (1,2) swaps 1 and 2; (0,2) is out of reach
		Expect(physics.ResolveCollisions(s)).To(Equal(2))
		Expect(s.Velocities[0].X).To(BeNumerically("~", 0, tol))
		Expect(s.Velocities[1].X).To(BeNumerically("~", -0.01, tol))
		Expect(s.Velocities[2].X).To(BeNumerically("~", 0.01, tol))
	})
})

var _ = Describe("ResolveBoundaries", func() {
	It("clamps onto x_min and flips vx", func() {
		s := newSystem(1, 0.01, 0.01)
		s.Positions[0] = dynamo.Vec2{X: 0.005, Y: 0.5}
		s.Velocities[0] = dynamo.Vec2{X: -0.01, Y: 0.003}

		Expect(physics.ResolveBoundaries(s)).To(Equal(1))
		Expect(s.Positions[0].X).To(BeNumerically("~", 0.01, tol))
		Expect(s.Velocities[0].X).To(BeNumerically(">", 0))
		Expect(s.Velocities[0].Y).To(Equal(0.003))
	})

	It("corrects both axes in a corner", func() {
		s := newSystem(1, 0.02, 0.01)
		s.Positions[0] = dynamo.Vec2{X: 0.995, Y: 1.01}
		s.Velocities[0] = dynamo.Vec2{X: 0.01, Y: 0.02}

		Expect(physics.ResolveBoundaries(s)).To(Equal(2))
		Expect(s.Positions[0].X).To(BeNumerically("~", 0.98, tol))
		Expect(s.Positions[0].Y).To(BeNumerically("~", 0.98, tol))
		Expect(s.Velocities[0]).To(Equal(dynamo.Vec2{X: -0.01, Y: -0.02}))
	})

	It("contains every particle after a pass", func() {
		rng := rand.New(rand.NewSource(7))
		s := newSystem(200, 0.01, 0.01)
		for i := range s.Positions {
			s.Positions[i] = dynamo.Vec2{X: rng.Float64()*1.4 - 0.2, Y: rng.Float64()*1.4 - 0.2}
		}

		physics.ResolveBoundaries(s)
		for i, p := range s.Positions {
			r := s.Radii[i]
			Expect(p.X - r).To(BeNumerically(">=", s.Bounds.XMin-tol))
			Expect(p.X + r).To(BeNumerically("<=", s.Bounds.XMax+tol))
			Expect(p.Y - r).To(BeNumerically(">=", s.Bounds.YMin-tol))
			Expect(p.Y + r).To(BeNumerically("<=", s.Bounds.YMax+tol))
		}
	})

	It("matches the serial pass when run in parallel", func() {
		rng := rand.New(rand.NewSource(11))
		s := newSystem(2000, 0.005, 0.01)
		for i := range s.Positions {
			s.Positions[i] = dynamo.Vec2{X: rng.Float64()*1.2 - 0.1, Y: rng.Float64()*1.2 - 0.1}
			s.Velocities[i] = dynamo.Vec2{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}
		}
		c := s.Clone()

		Expect(physics.ResolveBoundariesParallel(c, 4)).To(Equal(physics.ResolveBoundaries(s)))
		Expect(c.Positions).To(Equal(s.Positions))
		Expect(c.Velocities).To(Equal(s.Velocities))
	})
})

var _ = Describe("Integrate", func() {
	It("uses the derived timestep when none is supplied", func() {
		s := newSystem(1, 0.03, 0.01)
		s.Positions[0] = dynamo.Vec2{X: 0.5, Y: 0.5}
		s.Velocities[0] = dynamo.Vec2{X: 0.01, Y: -0.02}

		physics.Integrate(s, 0)
		Expect(s.Positions[0].X).To(BeNumerically("~", 0.51, tol))
		Expect(s.Positions[0].Y).To(BeNumerically("~", 0.48, tol))
	})

	It("uses an explicit timestep", func() {
		s := newSystem(1, 0.03, 0.01)
		s.Positions[0] = dynamo.Vec2{X: 0.5, Y: 0.5}
		s.Velocities[0] = dynamo.Vec2{X: 0.01}

		physics.Integrate(s, 2)
		Expect(s.Positions[0].X).To(BeNumerically("~", 0.52, tol))
	})

	It("matches the serial update when run in parallel", func() {
		s := randomGas(1500, 0.004, rand.New(rand.NewSource(3)))
		c := s.Clone()

		physics.Integrate(s, 0.5)
		physics.IntegrateParallel(c, 0.5, 4)
		Expect(c.Positions).To(Equal(s.Positions))
	})
})

var _ = Describe("Step pipeline", func() {
	It("is deterministic", func() {
		a := randomGas(60, 0.03, rand.New(rand.NewSource(42)))
		b := a.Clone()
		collider := physics.NewSerialCollider()

		for i := 0; i < 500; i++ {
			step(a, collider)
			step(b, collider)
		}
		Expect(b.Positions).To(Equal(a.Positions))
		Expect(b.Velocities).To(Equal(a.Velocities))
	})

	It("keeps kinetic energy constant and disks inside the box", func() {
		s := randomGas(40, 0.02, rand.New(rand.NewSource(5)))
		e0 := s.KineticEnergy()
		collider := physics.NewSerialCollider()

		for i := 0; i < 1000; i++ {
			collider.Resolve(s)
			physics.ResolveBoundaries(s)
			Expect(s.Contained()).To(BeTrue())
			physics.Integrate(s, 0)
		}
		Expect(s.KineticEnergy()).To(BeNumerically("~", e0, 1e-12))
	})
})

var _ = Describe("ParallelCollider", func() {
	It("matches the serial result for isolated pairs", func() {
		s := newSystem(200, 0.001, 0.01)
		for i := 0; i < 100; i++ {
			y := 0.005 + float64(i)*0.0099
			s.Positions[2*i] = dynamo.Vec2{X: 0.3, Y: y}
			s.Positions[2*i+1] = dynamo.Vec2{X: 0.3015, Y: y + 0.0005}
			s.Velocities[2*i] = dynamo.Vec2{X: 0.01, Y: 0.001 * float64(i%3)}
			s.Velocities[2*i+1] = dynamo.Vec2{X: -0.01}
		}
		c := s.Clone()

		collider := physics.NewParallelCollider(compute.NewCPUBackend(4))
		collider.MinCount = 0

		Expect(collider.Resolve(c)).To(Equal(physics.ResolveCollisions(s)))
		for i := range s.Velocities {
			Expect(c.Velocities[i].X).To(BeNumerically("~", s.Velocities[i].X, tol))
			Expect(c.Velocities[i].Y).To(BeNumerically("~", s.Velocities[i].Y, tol))
		}
	})

	It("keeps a dilute gas contained with its energy", func() {
		s := randomGas(400, 0.004, rand.New(rand.NewSource(9)))
		e0 := s.SpeedSquaredSum()
		collider := physics.NewParallelCollider(compute.NewCPUBackend(4))
		collider.MinCount = 0

		for i := 0; i < 50; i++ {
			step(s, collider)
		}
		physics.ResolveBoundaries(s)
		Expect(s.Contained()).To(BeTrue())
		Expect(s.SpeedSquaredSum()).To(BeNumerically("~", e0, e0*1e-2))
	})
})

var _ = Describe("NewCollider", func() {
	It("builds registered colliders", func() {
		for _, name := range physics.ListColliders() {
			c, err := physics.NewCollider(name, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name()).To(Equal(name))
		}
	})

	It("rejects unknown names", func() {
		_, err := physics.NewCollider("octree", 0)
		Expect(err).To(MatchError(dynamo.ErrUnknownCollider))
	})
})
