package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Count = 12
	cfg.RadiusMin = 0.02
	cfg.RadiusMax = 0.03
	cfg.Speed = 0.01
	cfg.Steps = 50
	cfg.Seed = 7
	return cfg
}

func TestExperiment_Run(t *testing.T) {
	e := New(smallConfig())

	if _, err := e.Run(context.Background()); err == nil {
		t.Fatal("expected error before Setup")
	}
	if err := e.Setup(); err != nil {
		t.Fatal(err)
	}

	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 50 {
		t.Errorf("steps = %d, want 50", res.Steps)
	}
	for _, name := range []string{"energy", "energy_drift", "containment", "collision_rate"} {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %q", name)
		}
	}
	if res.Metrics["containment"] != 1 {
		t.Errorf("containment = %v, want 1", res.Metrics["containment"])
	}
}

func TestExperiment_Build(t *testing.T) {
	e := New(smallConfig())

	a, err := e.Build(3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Build(3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.System().Positions {
		if a.System().Positions[i] != b.System().Positions[i] {
			t.Fatalf("same seed gave different positions at %d", i)
		}
	}

	c, _ := e.Build(4)
	if c.System().Positions[0] == a.System().Positions[0] {
		t.Error("different seeds should give different layouts")
	}
}

func TestExperiment_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"zero count", func(c *config.Config) { c.Count = 0 }, dynamo.ErrInvalidConfiguration},
		{"bad collider", func(c *config.Config) { c.Collider = "octree" }, dynamo.ErrUnknownCollider},
		{"bad layout", func(c *config.Config) { c.Layout = "spiral" }, dynamo.ErrInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.mutate(cfg)
			if err := New(cfg).Setup(); !errors.Is(err, tt.want) {
				t.Errorf("Setup() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExperiment_Ensemble(t *testing.T) {
	cfg := smallConfig()
	cfg.Collider = "parallel"
	cfg.Workers = 2

	results, err := New(cfg).Ensemble(context.Background(), 3, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Steps != cfg.Steps {
			t.Errorf("run %d: steps = %d", i, r.Steps)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	names := r.ListLayouts()
	if len(names) != 2 || names[0] != config.LayoutLattice || names[1] != config.LayoutUniform {
		t.Errorf("unexpected layouts: %v", names)
	}
	if _, err := r.GetLayout("spiral"); err == nil {
		t.Error("expected error for unknown layout")
	}
}
