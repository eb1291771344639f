package physics

import (
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/particle"
)

// parallelMinChunk is the smallest index range handed to a worker by the
// per-particle passes.
const parallelMinChunk = 256

// ResolveBoundaries clamps every disk that crossed a wall back onto it and
// negates the velocity component normal to that wall. X and Y are handled
// independently, so a particle in a corner is corrected on both axes. It
// returns the number of wall contacts.
func ResolveBoundaries(s *particle.System) int {
	return boundaryRange(s, 0, s.Count())
}

// ResolveBoundariesParallel is ResolveBoundaries split across workers.
func ResolveBoundariesParallel(s *particle.System, workers int) int {
	w := dynamo.Workers(workers)
	counts := make([]int, s.Count()/parallelMinChunk+1)
	dynamo.ParallelFor(s.Count(), w, parallelMinChunk, func(start, end int) {
		counts[start/parallelMinChunk] += boundaryRange(s, start, end)
	})

	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}

func boundaryRange(s *particle.System, start, end int) int {
	b := s.Bounds
	pos, vel, radii := s.Positions, s.Velocities, s.Radii
	hits := 0

	for i := start; i < end; i++ {
		r := radii[i]

		if pos[i].X-r < b.XMin {
			pos[i].X = b.XMin + r
			vel[i].X = -vel[i].X
			hits++
		} else if pos[i].X+r > b.XMax {
			pos[i].X = b.XMax - r
			vel[i].X = -vel[i].X
			hits++
		}

		if pos[i].Y-r < b.YMin {
			pos[i].Y = b.YMin + r
			vel[i].Y = -vel[i].Y
			hits++
		} else if pos[i].Y+r > b.YMax {
			pos[i].Y = b.YMax - r
			vel[i].Y = -vel[i].Y
			hits++
		}
	}

	return hits
}
