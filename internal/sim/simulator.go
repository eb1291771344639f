package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/physics"
)

type Simulator struct {
	sys       *particle.System
	collider  physics.Collider
	recorder  Recorder
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
	workers   int

	step     int
	time     float64
	warnedDt float64
}

// New wires a simulator around sys. A nil collider means the serial
// reference scan.
func New(sys *particle.System, collider physics.Collider) *Simulator {
	if collider == nil {
		collider = physics.NewSerialCollider()
	}
	return &Simulator{
		sys:       sys,
		collider:  collider,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    slog.Default(),
	}
}

func (s *Simulator) AddMetric(m Metric)       { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)   { s.observers = append(s.observers, o) }
func (s *Simulator) SetRecorder(r Recorder)   { s.recorder = r }
func (s *Simulator) SetLogger(l *slog.Logger) { s.logger = l }

// SetWorkers enables the parallel boundary and integration passes when n > 1.
func (s *Simulator) SetWorkers(n int) { s.workers = n }

func (s *Simulator) System() *particle.System   { return s.sys }
func (s *Simulator) Collider() physics.Collider { return s.collider }
func (s *Simulator) StepCount() int             { return s.step }
func (s *Simulator) Time() float64              { return s.time }

// Step runs one Collision → Boundary → Integrate pass. A non-positive dt
// means the system timestep. A dt above the recommended bound is logged
// once per distinct value.
func (s *Simulator) Step(dt float64) StepStats {
	if dt <= 0 {
		dt = s.sys.Dt()
	}
	s.checkDt(dt)

	st := StepStats{}
	st.Collisions = s.collider.Resolve(s.sys)
	if s.workers > 1 {
		st.WallHits = physics.ResolveBoundariesParallel(s.sys, s.workers)
		physics.IntegrateParallel(s.sys, dt, s.workers)
	} else {
		st.WallHits = physics.ResolveBoundaries(s.sys)
		physics.Integrate(s.sys, dt)
	}

	s.step++
	s.time += dt
	st.Step = s.step
	st.Time = s.time
	st.Dt = dt
	return st
}

// checkDt returns a warning when dt is above the recommended bound and
// logs it unless the same dt was already reported.
func (s *Simulator) checkDt(dt float64) string {
	rec := s.sys.RecommendedDt()
	if dt <= rec {
		return ""
	}
	if dt != s.warnedDt {
		s.warnedDt = dt
		s.logger.Warn("dt exceeds recommended bound, particles may tunnel",
			"dt", dt, "recommended", rec)
	}
	return fmt.Sprintf("dt %g exceeds recommended bound %g", dt, rec)
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	dt := cfg.Dt
	if dt <= 0 {
		dt = s.sys.Dt()
	}
	every := cfg.RecordEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Dt:              dt,
		Metrics:         make(map[string]float64),
		Energy:          make([]float64, 0, cfg.Steps),
		CollisionSeries: make([]float64, 0, cfg.Steps),
	}

	if w := s.checkDt(dt); w != "" {
		result.Warnings = append(result.Warnings, w)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	initialEnergy := s.sys.KineticEnergy()
	if err := s.record(); err != nil {
		return nil, err
	}

	s.logger.Debug("run started", "particles", s.sys.Count(), "steps", cfg.Steps,
		"dt", dt, "collider", s.collider.Name())

	var runErr error
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		st := s.Step(dt)

		for _, m := range s.metrics {
			m.Observe(s.sys, st)
		}
		for _, obs := range s.observers {
			obs.OnStep(s.sys, st)
		}

		result.Steps++
		result.Collisions += st.Collisions
		result.WallHits += st.WallHits
		result.Energy = append(result.Energy, s.sys.KineticEnergy())
		result.CollisionSeries = append(result.CollisionSeries, float64(st.Collisions))

		if cfg.ValidateState {
			if err := s.sys.Validate(); err != nil {
				runErr = &dynamo.SimError{Step: st.Step, Time: st.Time, Message: "invalid state (NaN/Inf)", Wrapped: err}
				break
			}
		}

		if st.Step%every == 0 {
			if err := s.record(); err != nil {
				runErr = fmt.Errorf("record step %d: %w", st.Step, err)
				break
			}
		}
	}

	result.Time = s.time
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(s.sys.KineticEnergy()-initialEnergy) / initialEnergy
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run finished", "steps", result.Steps, "collisions", result.Collisions,
		"wall_hits", result.WallHits)

	return result, runErr
}

func (s *Simulator) record() error {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Record(Frame{
		Step:       s.step,
		Time:       s.time,
		Positions:  s.sys.Positions,
		Velocities: s.sys.Velocities,
		Radii:      s.sys.Radii,
	})
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.sys == nil || s.sys.Released() {
		return dynamo.ErrReleased
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) || cfg.Dt < 0 {
		return fmt.Errorf("dt must be positive and finite, got %f", cfg.Dt)
	}
	return nil
}
