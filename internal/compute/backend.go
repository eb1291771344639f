package compute

import "github.com/san-kum/partsim/internal/dynamo"

type Backend interface {
	Name() string
	Available() bool
	// PairImpulses adds the elastic impulse of every approaching overlapping
	// pair to dv and returns the number of impulses.
	PairImpulses(pos, vel []dynamo.Vec2, radii []float64, dv []dynamo.Vec2) int
	Cleanup()
}

var activeBackend Backend = NewCPUBackend(0)

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}
