package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/automation"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/experiment"
	"github.com/san-kum/partsim/internal/export"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/storage"
	"github.com/san-kum/partsim/internal/viz"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tSTEPS\tDT\tCOLLIDER\tCOLLISIONS\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4g\t%s\t%d\t%.2e\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Count,
			run.Steps,
			run.Dt,
			run.Collider,
			run.Collisions,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	energy, collisions, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(energy) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d  steps: %d\n\n", meta.Count, len(energy))

	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("kinetic energy"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(collisions,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("collisions per step"),
	))

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// openOutput returns stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func loadRun(runID string) (*storage.RunMetadata, []sim.Snapshot, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadTrajectory(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", runID)
	}
	return meta, frames, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, err := openOutput(output)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := storage.ExportJSON(w, meta, frames); err != nil {
		return err
	}
	if output != "" {
		fmt.Printf("exported %d frames to %s\n", len(frames), output)
	}
	return nil
}

func playRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	energy, _, err := storage.New(dataDir).LoadSeries(args[0])
	if err != nil {
		energy = nil
	}

	p := viz.NewPlayer(meta.Name, meta.Bounds, frames).WithEnergy(energy)
	_, err = tea.NewProgram(p, tea.WithAltScreen()).Run()
	return err
}

func gifRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(gifOutput)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := viz.DefaultGIFOptions()
	opts.Every = gifEvery
	if err := viz.EncodeGIF(f, meta.Bounds, frames, opts); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", gifOutput)
	return nil
}

func svgRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var svg string
	if particleIdx >= 0 {
		if particleIdx >= meta.Count {
			return fmt.Errorf("particle %d out of range (run has %d)", particleIdx, meta.Count)
		}
		svg = export.PathToSVG(meta.Bounds, analysis.ParticlePath(frames, particleIdx), svgWidth, "#ff00ff")
	} else {
		idx := frameIdx
		if idx < 0 {
			idx += len(frames)
		}
		if idx < 0 || idx >= len(frames) {
			return fmt.Errorf("frame %d out of range (run has %d)", frameIdx, len(frames))
		}
		f := frames[idx]
		svg = export.FrameToSVG(meta.Bounds, f.Positions, f.Radii, svgWidth)
	}
	if svg == "" {
		return fmt.Errorf("nothing to draw")
	}

	w, err := openOutput(output)
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = io.WriteString(w, svg+"\n")
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tN\tRADIUS\tSPEED\tSTEPS\tCOLLIDER\tLAYOUT\tBOX")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g-%g\t%g\t%d\t%s\t%s\t%s\n",
			name, p.Count, p.RadiusMin, p.RadiusMax, p.Speed, p.Steps, p.Collider, p.Layout, p.Bounds)
	}
	return w.Flush()
}

func benchColliders(cmd *cobra.Command, args []string) error {
	if benchSteps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", benchSteps)
	}

	fmt.Printf("benchmarking %d steps (%d CPUs)\n\n", benchSteps, dynamo.Workers(workers))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tCOLLIDER\tTIME\tSTEPS/SEC\tCOLLISIONS")

	for _, n := range benchCounts {
		for _, name := range physics.ListColliders() {
			cfg := config.DefaultConfig()
			cfg.Count = n
			cfg.RadiusMin = 0.2 / math.Sqrt(float64(n))
			cfg.RadiusMax = cfg.RadiusMin
			cfg.Speed = 0.01
			cfg.Steps = benchSteps
			cfg.Seed = 42
			cfg.Collider = name
			cfg.Workers = workers
			cfg.Layout = config.LayoutLattice

			exp := experiment.New(cfg)
			if err := exp.Setup(); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\t%d\n",
				n, name, elapsed.Round(time.Microsecond), float64(result.Steps)/elapsed.Seconds(), result.Collisions)
		}
	}

	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if numRuns <= 0 {
		return fmt.Errorf("runs must be positive, got %d", numRuns)
	}

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("running %d seeds from %d (%d particles, %d steps)...\n", numRuns, seedStart, cfg.Count, cfg.Steps)
	start := time.Now()
	results, err := experiment.New(cfg).Ensemble(ctx, numRuns, seedStart)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tCOLLISIONS\tWALL HITS\tDRIFT\tCONTAINMENT")
	drift := make([]float64, len(results))
	rate := make([]float64, len(results))
	for i, r := range results {
		drift[i] = r.EnergyDrift
		rate[i] = r.Metrics["collision_rate"]
		fmt.Fprintf(w, "%d\t%d\t%d\t%.2e\t%.4f\n",
			seedStart+int64(i), r.Collisions, r.WallHits, r.EnergyDrift, r.Metrics["containment"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	m, s := meanStd(rate)
	fmt.Printf("\ncollision rate: %.3f ± %.3f per step\n", m, s)
	m, s = meanStd(drift)
	fmt.Printf("energy drift:   %.2e ± %.2e\n", m, s)
	fmt.Printf("elapsed: %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	v := 0.0
	for _, x := range xs {
		v += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(v / float64(len(xs)))
}

func speedStats(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.RecordEvery = cfg.Steps

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}
	rec := sim.NewMemoryRecorder()
	exp.GetSimulator().SetRecorder(rec)

	ctx, cancel := interruptContext()
	defer cancel()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	speeds := exp.GetSimulator().System().Speeds(nil)
	h := analysis.SpeedHistogram(speeds, bins)
	sigma := analysis.RayleighScale(speeds)
	expected := h.Expected(sigma, len(speeds))

	fmt.Println(asciigraph.PlotMany([][]float64{h.Counts, expected},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("speed histogram after %d steps (red: Rayleigh sigma=%.4g)", result.Steps, sigma)),
	))
	fmt.Println()
	fmt.Printf("bin width:        %.4g\n", h.Width())
	fmt.Printf("mean free steps:  %.1f\n", analysis.MeanFreeSteps(result.Steps, result.Collisions, cfg.Count))
	fmt.Printf("mean sq. displ.:  %.4g\n", analysis.Displacement(rec.Frames))
	fmt.Printf("energy drift:     %.2e\n", result.EnergyDrift)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOLLISIONS\tRATE\tMEAN FREE STEPS\tWALL HITS\tDRIFT\n", sweepParam)
	rates := make([]float64, len(results))
	for i, r := range results {
		rates[i] = r.CollisionRate
		note := ""
		if r.Warnings > 0 {
			note = "  (dt above bound)"
		}
		fmt.Fprintf(w, "%.4g\t%d\t%.3f\t%.1f\t%d\t%.2e%s\n",
			r.ParamValue, r.Collisions, r.CollisionRate, r.MeanFreeSteps, r.WallHits, r.EnergyDrift, note)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(rates) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(rates,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("collisions per step vs "+sweepParam),
		))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Description != "" {
		fmt.Printf("%s: %s\n\n", sc.Name, sc.Description)
	}

	ctx, cancel := interruptContext()
	defer cancel()

	results, runErr := automation.RunScenario(ctx, sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tN\tSTEPS\tCOLLISIONS\tWALL HITS\tDRIFT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.2e\n",
			r.Name, r.Config.Count, r.Result.Steps, r.Result.Collisions, r.Result.WallHits, r.Result.EnergyDrift)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}
