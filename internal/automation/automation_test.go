package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/partsim/internal/config"
)

const scenarioYAML = `
name: warmup
description: two short runs
steps:
  - name: sparse
    preset: sparse
    config:
      steps: 20
      seed: 1
  - config:
      count: 10
      radius_min: 0.02
      radius_max: 0.02
      steps: 15
      seed: 2
      layout: lattice
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "warmup" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}

	cfg, err := sc.Steps[0].Resolve()
	if err != nil {
		t.Fatal(err)
	}
	// preset fields survive, only listed ones change
	if cfg.Count != 20 || cfg.RadiusMin != 0.015 || cfg.Steps != 20 {
		t.Errorf("unexpected merged config: %+v", cfg)
	}

	if _, err := ParseScenario([]byte("name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	results, err := RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Name != "sparse" || results[1].Name != "step2" {
		t.Errorf("unexpected names: %q %q", results[0].Name, results[1].Name)
	}
	if results[1].Result.Steps != 15 || results[1].Config.Layout != config.LayoutLattice {
		t.Errorf("unexpected second step: %+v", results[1].Config)
	}
}

func TestRunScenario_StopsOnError(t *testing.T) {
	sc := &Scenario{Name: "bad", Steps: []ScenarioStep{{Preset: "nope"}}}
	results, err := RunScenario(context.Background(), sc)
	if err == nil || len(results) != 0 {
		t.Errorf("expected error and no results, got %v, %d", err, len(results))
	}
}

func TestRunSweep(t *testing.T) {
	base := config.DefaultConfig()
	base.Count = 10
	base.RadiusMin, base.RadiusMax = 0.02, 0.02
	base.Steps = 20
	base.Seed = 3

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base: base, ParamName: "count", ParamMin: 5, ParamMax: 15, NumSteps: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{5, 10, 15}
	for i, r := range results {
		if r.ParamValue != want[i] {
			t.Errorf("step %d: value = %v, want %v", i, r.ParamValue, want[i])
		}
	}
	if base.Count != 10 {
		t.Error("sweep must not modify the base config")
	}

	if _, err := RunSweep(context.Background(), &ParameterSweep{Base: base, ParamName: "mass", NumSteps: 2}); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestSweepParams(t *testing.T) {
	got := SweepParams()
	want := []string{"count", "dt", "radius", "speed"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}
