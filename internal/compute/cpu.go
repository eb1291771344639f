package compute

import (
	"math"
	"sync"

	"github.com/san-kum/partsim/internal/dynamo"
)

// serialThreshold is the particle count below which goroutine fan-out costs
// more than the scan itself.
const serialThreshold = 64

type CPUBackend struct {
	workers int
}

// NewCPUBackend creates a backend with the given number of workers; zero or
// negative means one per CPU.
func NewCPUBackend(workers int) *CPUBackend {
	return &CPUBackend{
		workers: dynamo.Workers(workers),
	}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) PairImpulses(pos, vel []dynamo.Vec2, radii []float64, dv []dynamo.Vec2) int {
	n := len(radii)
	if n < serialThreshold || c.workers <= 1 {
		return pairRows(pos, vel, radii, dv, 0, 1)
	}
	return c.pairParallel(pos, vel, radii, dv)
}

func (c *CPUBackend) pairParallel(pos, vel []dynamo.Vec2, radii []float64, dv []dynamo.Vec2) int {
	n := len(radii)
	workers := c.workers
	if workers > n {
		workers = n
	}

	local := make([][]dynamo.Vec2, workers)
	hits := make([]int, workers)
	for w := range local {
		local[w] = make([]dynamo.Vec2, n)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			// rows are interleaved so the triangular pair space balances
			hits[worker] = pairRows(pos, vel, radii, local[worker], worker, workers)
		}(w)
	}

	wg.Wait()

	total := 0
	for w := 0; w < workers; w++ {
		total += hits[w]
		for i := 0; i < n; i++ {
			dv[i] = dv[i].Add(local[w][i])
		}
	}
	return total
}

// pairRows scans rows first, first+stride, ... against every higher index.
func pairRows(pos, vel []dynamo.Vec2, radii []float64, dv []dynamo.Vec2, first, stride int) int {
	n := len(radii)
	hits := 0

	for i := first; i < n; i += stride {
		for j := i + 1; j < n; j++ {
			nx := pos[i].X - pos[j].X
			ny := pos[i].Y - pos[j].Y
			d2 := nx*nx + ny*ny
			d := math.Sqrt(d2)
			if d <= 0 || d >= radii[i]+radii[j] {
				continue
			}

			dot := (vel[i].X-vel[j].X)*nx + (vel[i].Y-vel[j].Y)*ny
			if dot < 0 {
				q := dot / d2
				dv[i].X -= q * nx
				dv[i].Y -= q * ny
				dv[j].X += q * nx
				dv[j].Y += q * ny
				hits++
			}
		}
	}

	return hits
}
