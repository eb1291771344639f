package analysis

import "github.com/san-kum/partsim/internal/sim"

type Point struct{ X, Y float64 }

// ParticlePath collects the position of particle idx from every frame that
// contains it.
func ParticlePath(frames []sim.Snapshot, idx int) []Point {
	if idx < 0 {
		return nil
	}

	points := make([]Point, 0, len(frames))
	for _, f := range frames {
		if idx >= len(f.Positions) {
			continue
		}
		p := f.Positions[idx]
		points = append(points, Point{X: p.X, Y: p.Y})
	}
	return points
}

// Displacement returns the net distance squared each particle moved between
// the first and last frame, averaged over particles.
func Displacement(frames []sim.Snapshot) float64 {
	if len(frames) < 2 {
		return 0
	}
	first, last := frames[0], frames[len(frames)-1]
	n := len(first.Positions)
	if n == 0 || len(last.Positions) != n {
		return 0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += last.Positions[i].Sub(first.Positions[i]).Norm2()
	}
	return sum / float64(n)
}
