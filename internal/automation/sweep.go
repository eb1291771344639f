package automation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/experiment"
)

var sweepParams = map[string]func(*config.Config, float64){
	"count":  func(c *config.Config, v float64) { c.Count = int(v) },
	"speed":  func(c *config.Config, v float64) { c.Speed = v },
	"radius": func(c *config.Config, v float64) { c.RadiusMin, c.RadiusMax = v, v },
	"dt":     func(c *config.Config, v float64) { c.Dt = v },
}

func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParameterSweep runs the base configuration across evenly spaced values of
// one parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue    float64
	Collisions    int
	WallHits      int
	CollisionRate float64
	MeanFreeSteps float64
	EnergyDrift   float64
	Warnings      int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	set, ok := sweepParams[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter: %s (available: %v)", sweep.ParamName, SweepParams())
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := *sweep.Base
		set(&cfg, paramVal)

		exp := experiment.New(&cfg)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue:    paramVal,
			Collisions:    result.Collisions,
			WallHits:      result.WallHits,
			CollisionRate: result.Metrics["collision_rate"],
			MeanFreeSteps: analysis.MeanFreeSteps(result.Steps, result.Collisions, cfg.Count),
			EnergyDrift:   result.EnergyDrift,
			Warnings:      len(result.Warnings),
		})

		slog.Debug("sweep", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}
