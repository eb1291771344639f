package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

var trajectoryHeader = []string{"step", "time", "particle", "x", "y", "radius"}

// TrajectoryWriter appends frames as CSV rows, one row per particle per
// frame. It implements sim.Recorder.
type TrajectoryWriter struct {
	w      *csv.Writer
	closer io.Closer
	frames int
	row    []string
}

func NewTrajectoryWriter(w io.Writer) (*TrajectoryWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(trajectoryHeader); err != nil {
		return nil, err
	}
	return &TrajectoryWriter{w: cw, row: make([]string, len(trajectoryHeader))}, nil
}

func (t *TrajectoryWriter) Record(f sim.Frame) error {
	step := strconv.Itoa(f.Step)
	tm := strconv.FormatFloat(f.Time, 'g', -1, 64)

	for i, p := range f.Positions {
		t.row[0] = step
		t.row[1] = tm
		t.row[2] = strconv.Itoa(i)
		t.row[3] = strconv.FormatFloat(p.X, 'g', -1, 64)
		t.row[4] = strconv.FormatFloat(p.Y, 'g', -1, 64)
		t.row[5] = strconv.FormatFloat(f.Radii[i], 'g', -1, 64)
		if err := t.w.Write(t.row); err != nil {
			return err
		}
	}
	t.frames++

	t.w.Flush()
	return t.w.Error()
}

func (t *TrajectoryWriter) Frames() int { return t.frames }

func (t *TrajectoryWriter) Close() error {
	t.w.Flush()
	err := t.w.Error()
	if t.closer != nil {
		if cerr := t.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ReadTrajectory parses CSV written by TrajectoryWriter back into frames.
func ReadTrajectory(r io.Reader) ([]sim.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(trajectoryHeader)
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return []sim.Snapshot{}, nil
		}
		return nil, err
	}

	frames := make([]sim.Snapshot, 0)
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("trajectory line %d: %w", line, err)
		}
		// time, x, y, radius
		var vals [4]float64
		for k, col := range [4]int{1, 3, 4, 5} {
			if vals[k], err = strconv.ParseFloat(record[col], 64); err != nil {
				return nil, fmt.Errorf("trajectory line %d: %w", line, err)
			}
		}

		if len(frames) == 0 || frames[len(frames)-1].Step != step {
			frames = append(frames, sim.Snapshot{Step: step, Time: vals[0]})
		}
		last := &frames[len(frames)-1]
		last.Positions = append(last.Positions, dynamo.Vec2{X: vals[1], Y: vals[2]})
		last.Radii = append(last.Radii, vals[3])
	}

	return frames, nil
}
