package sim

import "github.com/san-kum/partsim/internal/dynamo"

// Snapshot is an owned copy of a Frame.
type Snapshot struct {
	Step      int
	Time      float64
	Positions []dynamo.Vec2
	Radii     []float64
}

// MemoryRecorder keeps a copy of every frame it receives.
type MemoryRecorder struct {
	Frames []Snapshot
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{Frames: make([]Snapshot, 0)}
}

func (m *MemoryRecorder) Record(f Frame) error {
	snap := Snapshot{
		Step:      f.Step,
		Time:      f.Time,
		Positions: make([]dynamo.Vec2, len(f.Positions)),
		Radii:     make([]float64, len(f.Radii)),
	}
	copy(snap.Positions, f.Positions)
	copy(snap.Radii, f.Radii)
	m.Frames = append(m.Frames, snap)
	return nil
}

// MultiRecorder fans a frame out to several recorders, stopping at the first
// error.
type MultiRecorder []Recorder

func (mr MultiRecorder) Record(f Frame) error {
	for _, r := range mr {
		if err := r.Record(f); err != nil {
			return err
		}
	}
	return nil
}
