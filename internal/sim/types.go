package sim

import (
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/particle"
)

// StepStats summarises one Collision → Boundary → Integrate pass.
type StepStats struct {
	Step       int
	Time       float64
	Dt         float64
	Collisions int
	WallHits   int
}

// Frame is a view of the system after a step. The slices alias the live
// system and are only valid for the duration of Recorder.Record.
type Frame struct {
	Step       int
	Time       float64
	Positions  []dynamo.Vec2
	Velocities []dynamo.Vec2
	Radii      []float64
}

// Recorder receives frames for the trajectory.
type Recorder interface {
	Record(f Frame) error
}

type Metric interface {
	Name() string
	Observe(s *particle.System, st StepStats)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *particle.System, st StepStats)
}

type Config struct {
	Steps int
	// Dt overrides the system timestep when positive.
	Dt float64
	// RecordEvery emits a frame every n steps; step 0 is always recorded.
	RecordEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Steps:         1000,
		RecordEvery:   1,
		ValidateState: true,
	}
}

type Result struct {
	Steps       int
	Time        float64
	Dt          float64
	Collisions  int
	WallHits    int
	Metrics     map[string]float64
	EnergyDrift float64
	// Energy and CollisionSeries hold one entry per completed step.
	Energy          []float64
	CollisionSeries []float64
	Warnings        []string
}
