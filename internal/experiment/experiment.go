package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/sim"
)

// Experiment turns a run configuration into a ready simulator.
type Experiment struct {
	cfg       config.Config
	registry  *Registry
	logger    *slog.Logger
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:      *cfg,
		registry: NewRegistry(),
		logger:   slog.Default(),
	}
}

func (e *Experiment) SetLogger(l *slog.Logger) { e.logger = l }

// Build allocates and seeds a system for the given seed, ignoring the
// configured one. Ensemble members share everything but the seed.
func (e *Experiment) Build(seedVal int64) (*sim.Simulator, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	layout, err := e.registry.GetLayout(e.cfg.Layout)
	if err != nil {
		return nil, err
	}
	collider, err := physics.NewCollider(e.cfg.Collider, e.cfg.Workers)
	if err != nil {
		return nil, err
	}

	sys, err := particle.New(e.cfg.Params())
	if err != nil {
		return nil, err
	}
	layout(sys, rand.New(rand.NewSource(seedVal)))

	s := sim.New(sys, collider)
	s.SetLogger(e.logger)
	s.SetWorkers(e.cfg.Workers)
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}
	return s, nil
}

// Setup builds the simulator for the configured seed.
func (e *Experiment) Setup() error {
	s, err := e.Build(e.cfg.Seed)
	if err != nil {
		return err
	}
	e.simulator = s
	return nil
}

func (e *Experiment) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Steps = e.cfg.Steps
	cfg.RecordEvery = e.cfg.RecordEvery
	return cfg
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

// Ensemble runs n copies of the experiment seeded seedStart, seedStart+1, ...
func (e *Experiment) Ensemble(ctx context.Context, n int, seedStart int64) ([]*sim.Result, error) {
	ens := sim.NewEnsemble(e.Build, n, seedStart)
	return ens.Run(ctx, e.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
