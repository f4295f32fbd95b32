package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/trisolaris/internal/analysis"
	"github.com/san-kum/trisolaris/internal/automation"
	"github.com/san-kum/trisolaris/internal/config"
	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/export"
	"github.com/san-kum/trisolaris/internal/logging"
	"github.com/san-kum/trisolaris/internal/metrics"
	"github.com/san-kum/trisolaris/internal/oracle"
	"github.com/san-kum/trisolaris/internal/physics"
	"github.com/san-kum/trisolaris/internal/scenario"
	"github.com/san-kum/trisolaris/internal/sim"
	"github.com/san-kum/trisolaris/internal/storage"
	"github.com/san-kum/trisolaris/internal/tui"
	"github.com/san-kum/trisolaris/internal/view"
	"github.com/san-kum/trisolaris/internal/viz"
)

var (
	configFile string
	dataDir    string
	preset     string
	scene      string
	g          float64
	timeScale  float64
	seed       int64
	logLevel   string
	theme      string
	// run
	steps    int
	ensemble int
	stride   int
	svgPath  string
	jsonPath string
	watch    bool
	// serve
	addr string
	// oracle
	consultSteps int
	// analyze
	analyzeSteps int
	// script, sweep
	batchSteps  int
	gMin, gMax  float64
	sweepPoints int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trisolaris",
		Short:         "three suns, one planet",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInteractive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&preset, "preset", "", "named configuration (see presets)")
	pf.StringVar(&scene, "scenario", "", "initial configuration: figure8, random, hierarchical, collision")
	pf.Float64Var(&g, "g", config.DefaultG, "gravitational constant")
	pf.Float64Var(&timeScale, "time-scale", config.DefaultTimeScale, "time scale")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 = time)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn, error")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme: "+strings.Join(viz.ThemeNames(), ", "))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the simulation headlessly and save it",
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&steps, "steps", 2000, "integrator steps")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 0, "run N seeds in parallel instead of one")
	runCmd.Flags().IntVar(&stride, "stride", 10, "record positions every N steps")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final frame as SVG")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "export the run as JSON (- for stdout)")
	runCmd.Flags().BoolVar(&watch, "watch", false, "print ASCII frames while running")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "open the sky view directly, skipping the menu",
		RunE:  runLive,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the planet track of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [path]",
		Short: "draw every recorded track of a run as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportTracks,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenarios and named configurations",
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the simulation and stream snapshots over HTTP",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultServeAddr, "listen address")

	oracleCmd := &cobra.Command{
		Use:   "oracle",
		Short: "advance the simulation and consult the oracle once",
		RunE:  consultOracle,
	}
	oracleCmd.Flags().IntVar(&consultSteps, "steps", 500, "integrator steps before the consult")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "estimate chaos and the planet's orbital period",
		RunE:  analyzeScenario,
	}
	analyzeCmd.Flags().IntVar(&analyzeSteps, "steps", 2000, "integrator steps")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml script of headless simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().IntVar(&batchSteps, "steps", 2000, "steps for entries that set none")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "find where the planet survives across a range of G",
		RunE:  sweepG,
	}
	sweepCmd.Flags().IntVar(&batchSteps, "steps", 2000, "integrator steps per value")
	sweepCmd.Flags().Float64Var(&gMin, "min", config.MinG, "smallest G")
	sweepCmd.Flags().Float64Var(&gMax, "max", config.MaxG, "largest G")
	sweepCmd.Flags().IntVar(&sweepPoints, "n", 10, "number of values")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportSVGCmd, exportJSONCmd, presetsCmd, initCmd, serveCmd, oracleCmd, analyzeCmd, scriptCmd, sweepCmd)
	return rootCmd
}

// loadConfig layers defaults, the config file, a named preset, the
// environment and finally any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			names := config.ListPresets()
			sort.Strings(names)
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, names)
		}
		cfg.Preset, cfg.G, cfg.TimeScale = p.Preset, p.G, p.TimeScale
	}

	cfg.LoadEnv()

	flags := cmd.Flags()
	if flags.Changed("scenario") {
		if _, err := scenario.Parse(scene); err != nil {
			return nil, fmt.Errorf("--scenario: %w", err)
		}
		cfg.Preset = scene
	}
	if flags.Changed("g") {
		cfg.G = g
	}
	if flags.Changed("time-scale") {
		cfg.TimeScale = timeScale
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if cfg.Theme == "" {
		cfg.Theme = config.DefaultTheme
	}
	if !slices.Contains(viz.ThemeNames(), cfg.Theme) {
		return nil, fmt.Errorf("unknown theme: %s (available: %v)", cfg.Theme, viz.ThemeNames())
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Serve.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setup loads the config and sends logs to stderr.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logging.Init(cfg.Log, os.Stderr)
	return cfg, nil
}

// setupTUI loads the config and sends logs to a file so the alt screen
// stays clean.
func setupTUI(cmd *cobra.Command) (*config.Config, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	f, err := logging.InitFile(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	viz.SetTheme(cfg.Theme)
	return cfg, func() { f.Close() }, nil
}

// openStore resolves the data directory the same way run does.
func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, done, err := setupTUI(cmd)
	if err != nil {
		return err
	}
	defer done()

	collector := metrics.NewCollector()
	orc := oracle.NewFromConfig(context.Background(), cfg.Oracle, collector)
	return viz.RunInteractive(cfg, orc, collector)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, done, err := setupTUI(cmd)
	if err != nil {
		return err
	}
	defer done()

	collector := metrics.NewCollector()
	engine, err := sim.NewEngine(cfg, sim.WithCollector(collector))
	if err != nil {
		return err
	}
	orc := oracle.NewFromConfig(context.Background(), cfg.Oracle, collector)
	return viz.RunLive(engine, orc)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if ensemble > 0 {
		return runEnsemble(cfg)
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	engine, err := sim.NewEngine(cfg)
	if err != nil {
		return err
	}
	distance := metrics.NewPlanetDistance()
	traj := storage.NewTrajectory(stride)
	engine.AddMetric(distance)
	engine.AddMetric(metrics.NewEnergyDrift(cfg.G, cfg.Softening))
	engine.AddMetric(metrics.NewStability(automation.EscapeDistance))
	engine.AddMetric(traj)

	if watch {
		r := tui.NewLiveRenderer(os.Stdout, engine.String(), cfg.Width, cfg.Height, 10)
		engine.AddObserver(r)
		r.Start()
		defer r.Stop()
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (seed %d)...\n", engine.Preset(), engine.Seed())
	start := time.Now()

	result, err := engine.Run(ctx, steps, 0)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(start)

	params := storage.Params{G: engine.G(), TimeScale: engine.TimeScale(), Dt: cfg.Dt()}
	runID, err := st.Save(params, result, traj)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	printMetrics(result.Metrics)
	for _, e := range result.Errors {
		fmt.Printf("  warning: %v\n", e)
	}

	if hist := distance.History(); len(hist) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(hist,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("planet distance to suns' barycenter"),
		))
	}

	if svgPath != "" {
		if err := writeFrameSVG(svgPath, engine); err != nil {
			return err
		}
		fmt.Printf("frame written to %s\n", svgPath)
	}

	if jsonPath != "" {
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		if jsonPath == "-" {
			return storage.ExportJSON(os.Stdout, *meta, traj)
		}
		if err := storage.ExportJSONFile(jsonPath, *meta, traj); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", jsonPath)
	}
	return nil
}

func runEnsemble(cfg *config.Config) error {
	ctx, cancel := signalContext()
	defer cancel()

	ens := sim.NewEnsemble(cfg, ensemble, cfg.Seed, func() []sim.Metric {
		return []sim.Metric{
			metrics.NewPlanetDistance(),
			metrics.NewEnergyDrift(cfg.G, cfg.Softening),
			metrics.NewStability(automation.EscapeDistance),
		}
	})

	fmt.Printf("running %d seeds of %s...\n", ensemble, cfg.Preset)
	results, err := ens.Run(ctx, steps)
	if err != nil {
		return err
	}

	printResults(results)
	survived, lost := automation.SurvivalStats(results)
	fmt.Printf("\nsurvived: %d, lost: %d\n", survived, lost)
	return nil
}

func printResults(results []*sim.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSEED\tSTEPS\tDISTANCE\tDRIFT\tSTABILITY\tSURVIVED")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.0f\t%.4f\t%.3f\t%t\n",
			r.Preset,
			r.Seed,
			r.Steps,
			r.Metrics["planet_distance"],
			r.Metrics["energy_drift"],
			r.Metrics["stability"],
			automation.Survived(r),
		)
	}
	w.Flush()
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func writeFrameSVG(path string, engine *sim.Engine) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, h := engine.Size()
	cam := engine.Camera()
	stars := view.Starfield(view.StarCount, w, h, cam.Yaw)
	return export.FrameSVG(f, w, h, stars, engine.Frame(), view.HUD(*cam, engine.FPS()))
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSTEPS\tG\tSCALE\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%.1fx\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.G,
			run.TimeScale,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	traj, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	track := traj.Track(scenario.PlanetID)
	if track == nil {
		return fmt.Errorf("run %s: %w", runID, dynamo.ErrNoPlanet)
	}
	if len(track) < 2 {
		return fmt.Errorf("run %s: only %d planet samples, need 2", runID, len(track))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d (every %d steps)\n\n", len(track), traj.Stride)

	xs := make([]float64, len(track))
	ys := make([]float64, len(track))
	for i, p := range track {
		xs[i], ys[i] = p.X, p.Y
	}

	for _, series := range []struct {
		caption string
		data    []float64
	}{
		{"planet x", xs},
		{"planet y", ys},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportTracks(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	traj, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	tracks := make([][]dynamo.Vec2, 0, len(traj.IDs))
	colors := make([]string, 0, len(traj.IDs))
	sun := 0
	for _, id := range traj.IDs {
		tracks = append(tracks, traj.Track(id))
		if id == scenario.PlanetID {
			colors = append(colors, scenario.PlanetColor)
			continue
		}
		colors = append(colors, scenario.SunColor(sun))
		sun++
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.TrajectorySVG(f, tracks, colors, 800, 800); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", args[1])
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadStates(args[0])
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, traj)
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("scenarios:")
	for _, p := range scenario.All() {
		fmt.Printf("  %-14s %s\n", p.Slug(), p)
	}

	names := config.ListPresets()
	sort.Strings(names)
	fmt.Println("\nnamed configurations:")
	for _, name := range names {
		p := config.Presets[name]
		fmt.Printf("  %-18s %-13s g=%.1f scale=%.1fx\n", name, p.Preset, p.G, p.TimeScale)
	}

	fmt.Printf("\nthemes: %s\n", strings.Join(viz.ThemeNames(), ", "))
	return nil
}

func consultOracle(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	collector := metrics.NewCollector()
	engine, err := sim.NewEngine(cfg, sim.WithCollector(collector))
	if err != nil {
		return err
	}
	if _, err := engine.Run(ctx, consultSteps, 0); err != nil {
		return err
	}

	orc := oracle.NewFromConfig(ctx, cfg.Oracle, collector)
	consultCtx, cancelConsult := context.WithTimeout(ctx, 30*time.Second)
	defer cancelConsult()

	slog.Debug("consulting oracle", "component", "cli", "steps", engine.Steps())
	r := orc.Consult(consultCtx, engine.Snapshot())

	fmt.Printf("%s\n%s\n» %s\n", strings.ToUpper(r.Era), r.Description, r.Recommendation)
	return nil
}

func analyzeScenario(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	engine, err := sim.NewEngine(cfg)
	if err != nil {
		return err
	}
	distance := metrics.NewPlanetDistance()
	engine.AddMetric(distance)

	integ := physics.Integrator{G: cfg.G, Softening: cfg.Softening}
	lambda := analysis.LyapunovExponent(integ, engine.Bodies(), cfg.Dt(), analyzeSteps, 1e-3)

	result, err := engine.Run(ctx, analyzeSteps, 0)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s (seed %d)\n", engine.Preset(), engine.Seed())
	fmt.Printf("steps: %d, dt: %.3f\n", result.Steps, cfg.Dt())
	verdict := "regular"
	if lambda > 0.01 {
		verdict = "chaotic"
	}
	fmt.Printf("lyapunov exponent: %.5f (%s)\n", lambda, verdict)

	if period := analysis.DominantPeriod(distance.History(), cfg.Dt()); period > 0 {
		fmt.Printf("dominant period of planet distance: %.1f time units\n", period)
	} else {
		fmt.Println("no dominant period in planet distance")
	}
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("script: %s\n", script.Name)
	if script.Description != "" {
		fmt.Printf("  %s\n", script.Description)
	}
	results, err := automation.RunScript(ctx, script, cfg, batchSteps)
	if len(results) > 0 {
		printResults(results)
	}
	return err
}

func sweepG(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.SweepG(ctx, cfg, gMin, gMax, sweepPoints, batchSteps)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "G\tSURVIVED\tDISTANCE\tDRIFT")
	for _, r := range results {
		fmt.Fprintf(w, "%.2f\t%t\t%.0f\t%.4f\n", r.G, r.Survived, r.FinalDistance, r.MaxDrift)
	}
	return w.Flush()
}
