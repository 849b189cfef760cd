package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sandsim/internal/automation"
	"github.com/san-kum/sandsim/internal/config"
	"github.com/san-kum/sandsim/internal/dynamo"
	"github.com/san-kum/sandsim/internal/metrics"
	"github.com/san-kum/sandsim/internal/physics"
	"github.com/san-kum/sandsim/internal/sim"
	"github.com/san-kum/sandsim/internal/storage"
	"github.com/san-kum/sandsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	frameDt    float64
	duration   float64
	subSteps   int
	optimize   bool
	sampleN    int
	noSave     bool
	exportPath string
	frames     int
	numRuns    int
	workers    int
	outPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sandsim",
		Short: "granular and fluid particle sandbox",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sandsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scene file (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "default", "named scene")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 keeps the scene's)")

	sceneFlags := func(cmd *cobra.Command) {
		cmd.Flags().Float64Var(&frameDt, "dt", config.DefaultFrameDt, "frame delta")
		cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
		cmd.Flags().IntVar(&subSteps, "substeps", physics.DefaultSubSteps, "sub-steps per frame")
		cmd.Flags().BoolVar(&optimize, "optimize", true, "use the spatial grid")
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal sandbox",
		RunE:  runLive,
	}
	sceneFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene headless and record metrics",
		RunE:  runHeadless,
	}
	sceneFlags(runCmd)
	runCmd.Flags().IntVar(&sampleN, "sample", 1, "record every n-th frame")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&exportPath, "export", "", "write the final particle state as json")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare spatial grid and all-pairs collision timing",
		RunE:  benchScene,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 120, "frames per mode")

	trialsCmd := &cobra.Command{
		Use:   "trials",
		Short: "measure water/fire reaction rates over seeded trials",
		RunE:  runTrials,
	}
	trialsCmd.Flags().IntVar(&numRuns, "runs", 2000, "number of trials")
	trialsCmd.Flags().IntVar(&workers, "workers", 4, "trials in flight")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named scenes",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the selected scene as a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(liveCmd, runCmd, benchCmd, trialsCmd, scenarioCmd, presetsCmd, listCmd, plotCmd, exportJSONCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScene resolves --config or --preset, then applies flags the user
// set explicitly.
func loadScene(cmd *cobra.Command) (*config.Config, string, error) {
	var cfg *config.Config
	name := preset
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
		name = strings.TrimSuffix(filepath.Base(configFile), ".yaml")
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset %q (have %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Lookup("dt") != nil && flags.Changed("dt") {
		cfg.FrameDt = frameDt
		if cfg.MaxFrameDt < cfg.FrameDt {
			cfg.MaxFrameDt = cfg.FrameDt
		}
	}
	if flags.Lookup("time") != nil && flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Lookup("substeps") != nil && flags.Changed("substeps") {
		cfg.SubSteps = subSteps
	}
	if flags.Lookup("optimize") != nil && flags.Changed("optimize") {
		cfg.Optimize = optimize
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadScene(cmd)
	if err != nil {
		return err
	}
	solver, err := cfg.Build(dynamo.NewRand(cfg.Seed))
	if err != nil {
		return err
	}
	return viz.Run(solver, cfg)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScene(cmd)
	if err != nil {
		return err
	}
	solver, err := cfg.Build(dynamo.NewRand(cfg.Seed))
	if err != nil {
		return err
	}

	s := sim.New(solver)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s: %.2fs at %.4fs/frame, %d particles\n", name, cfg.Duration, cfg.FrameDt, len(solver.Particles()))
	start := time.Now()
	result, err := s.Run(ctx, sim.Config{
		FrameDt:     cfg.FrameDt,
		MaxFrameDt:  cfg.MaxFrameDt,
		Duration:    cfg.Duration,
		SampleEvery: sampleN,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printSummary(result, elapsed)

	if exportPath != "" {
		data := storage.NewExportData(name, cfg.Seed, cfg.FrameDt, result, solver)
		if err := storage.ExportJSON(exportPath, data); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", exportPath)
	}

	if noSave {
		return nil
	}
	return saveRun(name, cfg, result, result.Names(s.Metrics()))
}

func saveRun(name string, cfg *config.Config, result *sim.Result, names []string) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Scene:     name,
		Seed:      cfg.Seed,
		FrameDt:   cfg.FrameDt,
		Duration:  cfg.Duration,
		Optimized: cfg.Optimize,
	}, names, result)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func printSummary(result *sim.Result, elapsed time.Duration) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "frames\t%d\n", result.Frames)
	fmt.Fprintf(w, "wall time\t%v\n", elapsed.Round(time.Millisecond))
	if result.Frames > 0 {
		fmt.Fprintf(w, "frames/sec\t%.0f\n", float64(result.Frames)/elapsed.Seconds())
	}
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.4f\n", name, result.Metrics[name])
	}
	mats := make([]string, 0, len(result.Final.ByMaterial))
	for m, n := range result.Final.ByMaterial {
		mats = append(mats, fmt.Sprintf("%s=%d", m, n))
	}
	sort.Strings(mats)
	fmt.Fprintf(w, "materials\t%s\n", strings.Join(mats, " "))
	w.Flush()
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScene(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s over %d frames\n\n", name, frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tPARTICLES\tTIME\tFRAMES/SEC\tMAX OVERLAP")

	for _, grid := range []bool{true, false} {
		cfg.Optimize = grid
		solver, err := cfg.Build(dynamo.NewRand(cfg.Seed))
		if err != nil {
			return err
		}
		overlap := metrics.NewStability(1.0)

		start := time.Now()
		for i := 0; i < frames; i++ {
			solver.Update(cfg.FrameDt)
		}
		elapsed := time.Since(start)
		overlap.Observe(solver, 0)

		mode := "all-pairs"
		if grid {
			mode = "grid"
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%.3f\n",
			mode, len(solver.Particles()), elapsed.Round(time.Microsecond),
			float64(frames)/elapsed.Seconds(), overlap.Worst())
	}

	return w.Flush()
}

// contactTrial places one water droplet against one flame with a
// single sub-step so each trial sees exactly one pairwise evaluation.
func contactTrial(seed int64) (*physics.Solver, error) {
	cfg := physics.DefaultConfig(100, 100)
	cfg.Gravity = 0
	cfg.SubSteps = 1
	s, err := physics.New(cfg, dynamo.NewRand(seed))
	if err != nil {
		return nil, err
	}
	s.AddParticle(50, 50, dynamo.Water, false)
	s.AddParticle(55, 50, dynamo.Fire, false)
	return s, nil
}

func runTrials(cmd *cobra.Command, args []string) error {
	if numRuns < 1 {
		return fmt.Errorf("%w: runs must be positive", dynamo.ErrParameterBounds)
	}
	start := seed
	if !cmd.Flags().Changed("seed") {
		start = time.Now().UnixNano()
	}

	newMetrics := func() []dynamo.Metric {
		return []dynamo.Metric{
			metrics.NewMaterialCount(dynamo.Steam),
			metrics.NewMaterialCount(dynamo.Fire),
		}
	}
	e := sim.NewEnsemble(contactTrial, newMetrics, numRuns, start)
	e.SetWorkers(workers)

	ctx, cancel := signalContext()
	defer cancel()

	// the second frame sweeps the spent flame away
	results, err := e.Run(ctx, sim.Config{FrameDt: config.DefaultFrameDt, Duration: 2 * config.DefaultFrameDt})
	if err != nil {
		return err
	}

	steam, fire := 0.0, 0.0
	for _, r := range results {
		steam += r.Metrics[dynamo.Steam.String()]
		fire += r.Metrics[dynamo.Fire.String()]
	}
	n := float64(len(results))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "trials\t%d\n", len(results))
	fmt.Fprintf(w, "steam conversion\t%.2f%%\t(expected 20%%)\n", 100*steam/n)
	fmt.Fprintf(w, "fire consumed\t%.2f%%\t(expected 100%%)\n", 100*(1-fire/n))
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	base, _, err := loadScene(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	name := sc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(args[0]), ".yaml")
	}
	fmt.Printf("scenario %s: %d events\n", name, len(sc.Events))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}

	start := time.Now()
	report, err := automation.RunScenario(ctx, sc, base)
	if err != nil {
		return err
	}

	for _, ev := range report.Applied {
		fmt.Printf("  applied %s\n", ev)
	}
	for _, ev := range report.Skipped {
		fmt.Printf("  skipped %s\n", ev)
	}
	printSummary(report.Result, time.Since(start))

	if noSave {
		return nil
	}
	cfg := sc.Config(base)
	names := make([]string, 0, len(report.Result.Series))
	for _, m := range metrics.Default() {
		names = append(names, m.Name())
	}
	return saveRun(name, cfg, report.Result, names)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tOBSTACLES\tSPAWNS\tTERRAIN\tDURATION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		terrain := "-"
		if cfg.Terrain != nil {
			terrain = "perlin"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%.1fs\n", name, len(cfg.Obstacles), len(cfg.Spawns), terrain, cfg.Duration)
	}
	return w.Flush()
}

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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tFRAMES\tPARTICLES\tGRID")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%v\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Frames,
			run.Particles,
			run.Optimized,
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

	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(times))

	for _, name := range meta.Series {
		data := series[name]
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(strings.ReplaceAll(name, "_", " ")+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	result := &sim.Result{Times: times, Series: series, Metrics: meta.Metrics, Frames: meta.Frames}
	data := storage.NewExportData(meta.Scene, meta.Seed, meta.FrameDt, result, nil)

	if outPath == "" {
		return storage.WriteJSON(os.Stdout, data)
	}
	if err := storage.ExportJSON(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadScene(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return config.Write(os.Stdout, cfg)
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
