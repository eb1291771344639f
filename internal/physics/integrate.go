package physics

import (
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/particle"
)

// Integrate advances every position by velocity*dt. A non-positive dt means
// the system's own timestep.
func Integrate(s *particle.System, dt float64) {
	if dt <= 0 {
		dt = s.Dt()
	}
	integrateRange(s, dt, 0, s.Count())
}

// IntegrateParallel is Integrate split across workers. Each index is
// independent, so no synchronisation beyond the final wait is needed.
func IntegrateParallel(s *particle.System, dt float64, workers int) {
	if dt <= 0 {
		dt = s.Dt()
	}
	dynamo.ParallelFor(s.Count(), dynamo.Workers(workers), parallelMinChunk, func(start, end int) {
		integrateRange(s, dt, start, end)
	})
}

func integrateRange(s *particle.System, dt float64, start, end int) {
	pos, vel := s.Positions, s.Velocities
	for i := start; i < end; i++ {
		pos[i].X += vel[i].X * dt
		pos[i].Y += vel[i].Y * dt
	}
}
