package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/experiment"
	"github.com/san-kum/partsim/internal/storage"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool

	// system flags, shared by run, ensemble, bench and stats
	configFile  string
	preset      string
	count       int
	radiusMin   float64
	radiusMax   float64
	speed       float64
	dt          float64
	steps       int
	seed        int64
	collider    string
	workers     int
	recordEvery int
	layout      string

	runName   string
	output    string
	gifOutput string

	// play / svg / gif
	frameIdx    int
	particleIdx int
	svgWidth    int
	gifEvery    int

	// ensemble
	numRuns   int
	seedStart int64

	// bench
	benchCounts []int
	benchSteps  int

	// stats
	bins int

	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

// main registers the partsim commands and exits with status 1 if the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "partsim",
		Short:         "2D elastic hard-disk particle simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its trajectory",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSystemFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to the preset name)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot kinetic energy and collisions per step",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	playCmd := &cobra.Command{
		Use:   "play [run_id]",
		Short: "replay a stored trajectory in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  playRun,
	}

	gifCmd := &cobra.Command{
		Use:   "gif [run_id]",
		Short: "render a stored trajectory as an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  gifRun,
	}
	gifCmd.Flags().StringVarP(&gifOutput, "output", "o", "simulation.gif", "output file")
	gifCmd.Flags().IntVar(&gifEvery, "every", 1, "render every n-th frame")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render one frame, or one particle's path, as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index, negative counts from the end")
	svgCmd.Flags().IntVar(&particleIdx, "particle", -1, "draw the path of this particle instead of a frame")
	svgCmd.Flags().IntVar(&svgWidth, "width", 600, "image width in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare collider throughput",
		Args:  cobra.NoArgs,
		RunE:  benchColliders,
	}
	benchCmd.Flags().IntSliceVar(&benchCounts, "counts", []int{100, 400, 1000}, "particle counts")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 100, "steps per measurement")
	benchCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all CPUs)")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run the same configuration over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addSystemFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")
	ensembleCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "seed of the first run")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "simulate and compare the final speed distribution with Rayleigh",
		Args:  cobra.NoArgs,
		RunE:  speedStats,
	}
	addSystemFlags(statsCmd)
	statsCmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and tabulate collision statistics",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSystemFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "count", "parameter to sweep (count, dt, radius, speed)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 10, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 100, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "points", 5, "number of values")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportJSONCmd, playCmd, gifCmd, svgCmd,
		presetsCmd, benchCmd, ensembleCmd, statsCmd, sweepCmd, scenarioCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSystemFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVarP(&count, "count", "n", config.DefaultCount, "number of particles")
	f.Float64Var(&radiusMin, "rmin", config.DefaultRadiusMin, "minimum radius")
	f.Float64Var(&radiusMax, "rmax", config.DefaultRadiusMax, "maximum radius")
	f.Float64Var(&speed, "speed", config.DefaultSpeed, "initial speed of every particle")
	f.Float64Var(&dt, "dt", 0, "timestep override (0 = rmin/(3*speed))")
	f.IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	f.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	f.StringVar(&collider, "collider", config.DefaultCollider, "collision resolver (serial, parallel)")
	f.IntVar(&workers, "workers", 0, "worker goroutines for parallel passes")
	f.IntVar(&recordEvery, "record-every", config.DefaultRecordEvery, "record a frame every n steps")
	f.StringVar(&layout, "layout", config.LayoutUniform, "initial layout (uniform, lattice)")
}

// resolveConfig applies preset < config file < explicit flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("rmin") {
		cfg.RadiusMin = radiusMin
	}
	if flags.Changed("rmax") {
		cfg.RadiusMax = radiusMax
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("collider") {
		cfg.Collider = collider
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}
	if flags.Changed("layout") {
		cfg.Layout = layout
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	name := runName
	if name == "" {
		name = preset
	}
	if name == "" {
		name = "run"
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	runID, err := st.Create(name)
	if err != nil {
		return err
	}
	traj, err := st.OpenTrajectory(runID)
	if err != nil {
		return err
	}
	simulator := exp.GetSimulator()
	simulator.SetRecorder(traj)

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("running %d particles for %d steps (dt %.4g, %s collider)...\n",
		cfg.Count, cfg.Steps, simulator.System().Dt(), cfg.Collider)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	closeErr := traj.Close()
	if result == nil {
		return errors.Join(runErr, closeErr)
	}
	elapsed := time.Since(start)

	meta := &storage.RunMetadata{
		ID:          runID,
		Name:        name,
		Timestamp:   time.Now(),
		Seed:        cfg.Seed,
		Count:       cfg.Count,
		Dt:          result.Dt,
		Steps:       result.Steps,
		Time:        result.Time,
		Collider:    cfg.Collider,
		Bounds:      cfg.Bounds,
		Frames:      traj.Frames(),
		Collisions:  result.Collisions,
		WallHits:    result.WallHits,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
		Warnings:    result.Warnings,
	}
	if err := st.SaveSeries(runID, result); err != nil {
		return err
	}
	if err := st.SaveConfig(runID, cfg); err != nil {
		return err
	}
	if err := st.SaveMetadata(meta); err != nil {
		return err
	}

	if errors.Is(runErr, context.Canceled) {
		fmt.Printf("interrupted after %d steps\n", result.Steps)
		runErr = nil
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  frames: %d  collisions: %d  wall hits: %d\n",
		result.Steps, meta.Frames, result.Collisions, result.WallHits)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return errors.Join(runErr, closeErr)
}
