package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

type ExportFrame struct {
	Step      int          `json:"step"`
	Time      float64      `json:"time"`
	Positions [][2]float64 `json:"positions"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Bounds dynamo.Bounds `json:"bounds"`
	Radii  []float64     `json:"radii"`
	Frames []ExportFrame `json:"frames"`
}

// ExportJSON writes a run and its trajectory as a single JSON document.
// Radii are constant over a run, so they are taken from the first frame.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.Snapshot) error {
	data := ExportData{
		Run:    *meta,
		Bounds: meta.Bounds,
		Radii:  []float64{},
		Frames: make([]ExportFrame, len(frames)),
	}
	if len(frames) > 0 {
		data.Radii = frames[0].Radii
	}

	for i, f := range frames {
		pos := make([][2]float64, len(f.Positions))
		for j, p := range f.Positions {
			pos[j] = [2]float64{p.X, p.Y}
		}
		data.Frames[i] = ExportFrame{Step: f.Step, Time: f.Time, Positions: pos}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
