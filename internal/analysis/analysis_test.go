package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/sim"
)

func TestSpeedHistogram(t *testing.T) {
	h := SpeedHistogram([]float64{0, 0.5, 1, 1, 2}, 4)

	if h.Max != 2 || h.Width() != 0.5 {
		t.Fatalf("unexpected range: max=%v width=%v", h.Max, h.Width())
	}
	want := []float64{1, 1, 2, 1}
	for i := range want {
		if h.Counts[i] != want[i] {
			t.Errorf("bin %d = %v, want %v", i, h.Counts[i], want[i])
		}
	}
}

func TestSpeedHistogram_Degenerate(t *testing.T) {
	if h := SpeedHistogram(nil, 5); len(h.Counts) != 5 {
		t.Errorf("expected 5 empty bins, got %d", len(h.Counts))
	}

	h := SpeedHistogram([]float64{0, 0, 0}, 0)
	if len(h.Counts) != 1 || h.Counts[0] != 3 {
		t.Errorf("all-zero speeds should land in one bin, got %v", h.Counts)
	}
}

func TestRayleighScale(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sigma := 0.3
	speeds := make([]float64, 50000)
	for i := range speeds {
		speeds[i] = math.Hypot(rng.NormFloat64()*sigma, rng.NormFloat64()*sigma)
	}

	if got := RayleighScale(speeds); math.Abs(got-sigma) > 0.01 {
		t.Errorf("RayleighScale = %v, want ~%v", got, sigma)
	}

	h := SpeedHistogram(speeds, 10)
	expected := h.Expected(sigma, len(speeds))
	total := 0.0
	for i := range expected {
		total += expected[i]
		if diff := math.Abs(expected[i] - h.Counts[i]); diff > 0.05*float64(len(speeds)) {
			t.Errorf("bin %d: expected %.0f, got %.0f", i, expected[i], h.Counts[i])
		}
	}
	if total > float64(len(speeds)) {
		t.Errorf("expected counts exceed sample size: %v", total)
	}
}

func TestRayleighPDF(t *testing.T) {
	if RayleighPDF(-1, 1) != 0 || RayleighPDF(1, 0) != 0 {
		t.Error("PDF should be zero outside its domain")
	}
	// mode of Rayleigh is sigma
	if RayleighPDF(1, 1) <= RayleighPDF(0.8, 1) || RayleighPDF(1, 1) <= RayleighPDF(1.2, 1) {
		t.Error("PDF should peak at sigma")
	}
}

func TestMeanFreeSteps(t *testing.T) {
	if got := MeanFreeSteps(100, 50, 10); got != 10 {
		t.Errorf("MeanFreeSteps = %v, want 10", got)
	}
	if !math.IsInf(MeanFreeSteps(100, 0, 10), 1) {
		t.Error("expected +Inf without collisions")
	}
}

func TestParticlePath(t *testing.T) {
	frames := []sim.Snapshot{
		{Positions: []dynamo.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}},
		{Positions: []dynamo.Vec2{{X: 0.5, Y: 0}, {X: 1, Y: 2}}},
	}

	path := ParticlePath(frames, 1)
	if len(path) != 2 || path[1] != (Point{X: 1, Y: 2}) {
		t.Errorf("unexpected path: %v", path)
	}
	if ParticlePath(frames, 5) == nil || len(ParticlePath(frames, 5)) != 0 {
		t.Error("out-of-range index should give an empty path")
	}

	if got := Displacement(frames); math.Abs(got-0.625) > 1e-12 {
		t.Errorf("Displacement = %v, want 0.625", got)
	}
}
