package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/hypersim/internal/automation"
	"github.com/san-kum/hypersim/internal/config"
	"github.com/san-kum/hypersim/internal/experiment"
	"github.com/san-kum/hypersim/internal/export"
	"github.com/san-kum/hypersim/internal/host"
	"github.com/san-kum/hypersim/internal/metrics"
	"github.com/san-kum/hypersim/internal/params"
	"github.com/san-kum/hypersim/internal/render"
	"github.com/san-kum/hypersim/internal/sim"
	"github.com/san-kum/hypersim/internal/storage"
	"github.com/san-kum/hypersim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	frameRate  int
	configFile string
	preset     string
	sets       []string
	outPath    string
	width      int
	height     int
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "hypersim",
		Short:        "four-dimensional rotation and projection viewer",
		SilenceUsage: true,
		RunE:         runView,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hypersim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log lifecycle events to stderr")

	viewCmd := &cobra.Command{
		Use:   "view [simulation]",
		Short: "interactive terminal viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runView,
	}
	viewCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	addConfigFlags(viewCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list simulations",
		RunE:  listSimulations,
	}

	controlsCmd := &cobra.Command{
		Use:   "controls [simulation]",
		Short: "show the tunable parameters of a simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  showControls,
	}

	runCmd := &cobra.Command{
		Use:   "run [simulation]",
		Short: "run a simulation headless and record its metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd, config.DefaultDuration, time.Now().UnixNano())
	addConfigFlags(runCmd)

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the metrics of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a recorded run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [simulation]",
		Short: "render one frame to svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	addRunFlags(snapshotCmd, 1.0, 1)
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <simulation>.svg)")
	snapshotCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "image width")
	snapshotCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "image height")
	addConfigFlags(snapshotCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [simulation]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "play a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [simulation]",
		Short: "run once per value of a parameter and compare metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "wPerspectiveDistance", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 2, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 8, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 7, "number of values")
	addRunFlags(sweepCmd, 5, 1)

	rootCmd.AddCommand(viewCmd, listCmd, controlsCmd, runCmd, runsCmd, plotCmd, exportCmd,
		snapshotCmd, presetsCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "parameter override key=value (repeatable)")
}

// addRunFlags registers --time, --dt and --seed; values are read back through
// cmd.Flags() since each command has its own defaults.
func addRunFlags(cmd *cobra.Command, duration float64, seed int64) {
	cmd.Flags().Float64("time", duration, "simulated duration in seconds")
	cmd.Flags().Float64("dt", config.DefaultDt, "timestep")
	cmd.Flags().Int64("seed", seed, "random seed")
}

func logger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "hypersim: ", log.Ltime)
	}
	return log.New(io.Discard, "", 0)
}

// resolveConfig layers preset, config file and flags, later ones winning.
func resolveConfig(cmd *cobra.Command, simulation string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if simulation != "" {
		cfg.Simulation = simulation
	}

	if preset != "" {
		p := config.GetPreset(cfg.Simulation, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Simulation))
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if simulation != "" {
			fileCfg.Simulation = simulation
		}
		for k, v := range cfg.Params {
			if _, ok := fileCfg.Params[k]; !ok {
				if fileCfg.Params == nil {
					fileCfg.Params = map[string]any{}
				}
				fileCfg.Params[k] = v
			}
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	layered := preset != "" || configFile != ""
	if flags.Lookup("dt") != nil && (flags.Changed("dt") || !layered) {
		cfg.Dt, _ = flags.GetFloat64("dt")
	}
	if flags.Lookup("time") != nil && (flags.Changed("time") || !layered) {
		cfg.Duration, _ = flags.GetFloat64("time")
	}
	if flags.Lookup("seed") != nil && (flags.Changed("seed") || cfg.Seed == 0) {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.FPS = frameRate
	}

	if len(sets) > 0 && cfg.Params == nil {
		cfg.Params = map[string]any{}
	}
	for _, kv := range sets {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: expected key=value", kv)
		}
		v, err := params.ParseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("--set %s: %w", key, err)
		}
		if err := params.ValidateKey(key); err != nil {
			return nil, err
		}
		cfg.Params[key] = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runView(cmd *cobra.Command, args []string) error {
	simulation := ""
	if len(args) > 0 {
		simulation = args[0]
	}
	opts := viz.Options{Simulation: simulation, FPS: config.DefaultFPS, Logger: logger()}

	if cmd.Flags().Lookup("config") != nil {
		cfg, err := resolveConfig(cmd, simulation)
		if err != nil {
			return err
		}
		if simulation != "" || configFile != "" || preset != "" {
			opts.Simulation = cfg.Simulation
		}
		opts.FPS = cfg.FPS
		opts.Seed = cfg.Seed
		opts.Params = cfg.ParamValues()
	}
	return viz.Run(opts)
}

func listSimulations(cmd *cobra.Command, args []string) error {
	reg := host.DefaultRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTITLE\tPRESETS")
	for _, key := range reg.Keys() {
		info, err := reg.Info(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", key, info.Title, strings.Join(config.ListPresets(key), ", "))
	}
	return w.Flush()
}

func showControls(cmd *cobra.Command, args []string) error {
	controls, err := host.DefaultRegistry().Controls(args[0])
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tLABEL\tKIND\tRANGE\tDEFAULT")
	for _, c := range controls {
		switch c.Kind {
		case sim.Checkbox:
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t%t\n", c.ID, c.Label, c.Kind, c.DefaultOn)
		default:
			fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g] step %g\t%g\n", c.ID, c.Label, c.Kind, c.Min, c.Max, c.Step, c.Default)
		}
	}
	return w.Flush()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Simulation: cfg.Simulation,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Seed:       cfg.Seed,
		Size:       cfg.Size(),
		Params:     cfg.ParamValues(),
	}).WithLogger(logger())
	for _, m := range metrics.Default() {
		exp.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation...\n", cfg.Simulation)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.Run{
		Simulation: cfg.Simulation,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Params:     paramStrings(cfg.ParamValues()),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Times))
	fmt.Println("\nmetrics:")
	for _, name := range result.Names() {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func paramStrings(values map[string]any) map[string]string {
	var store params.Store
	if err := store.Merge(values); err != nil {
		return nil
	}
	snap := store.Snapshot()
	out := make(map[string]string, snap.Len())
	for _, k := range snap.Keys() {
		v, _ := snap.Get(k)
		out[k] = v.String()
	}
	return out
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
	fmt.Fprintln(w, "ID\tSIMULATION\tTIME\tDURATION\tDT\tFRAMES\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.Simulation,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Frames,
			run.Seed,
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

	result, err := st.LoadResult(runID)
	if err != nil {
		return err
	}
	if len(result.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("simulation: %s\n", meta.Simulation)
	fmt.Printf("frames: %d\n\n", len(result.Times))

	for _, name := range result.Names() {
		graph := asciigraph.Plot(result.Series[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs time (mean %.4f)", name, result.Metrics[name])),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outPath != "" {
		if err := st.ExportJSONFile(outPath, args[0]); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", outPath)
		return nil
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	size := render.Size{Width: width, Height: height}

	var svg string
	exp := experiment.New(experiment.Config{
		Simulation: cfg.Simulation,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Seed:       cfg.Seed,
		Size:       size,
		Params:     cfg.ParamValues(),
	}).WithLogger(logger())
	last := float64(exp.Steps()) * cfg.Dt
	cam := render.NewCamera()
	exp.AddObserver(func(t float64, scene *render.Scene) {
		if t >= last {
			svg = export.SceneToSVG(scene, cam, size)
		}
	})
	if _, err := exp.Run(context.Background()); err != nil {
		return err
	}

	path := outPath
	if path == "" {
		path = cfg.Simulation + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	keys := host.DefaultRegistry().Keys()
	if len(args) == 1 {
		keys = args
	}
	for _, key := range keys {
		names := config.ListPresets(key)
		if len(names) == 0 {
			continue
		}
		fmt.Printf("%s:\n", key)
		for _, name := range names {
			p := config.GetPreset(key, name)
			fmt.Printf("  %-12s duration %.0fs  %d params\n", name, p.Duration, len(p.ParamValues()))
		}
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	scene := render.NewScene()
	opts := []host.Option{host.WithLogger(logger())}
	if sc.Seed != 0 {
		opts = append(opts, host.WithSeed(sc.Seed))
	}
	h := host.New(scene, opts...)
	defer h.Close()

	r := automation.NewRunner(h, scene)
	r.Logger = log.New(os.Stdout, "", 0)

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	results, err := r.RunScenario(context.Background(), sc)
	for i, res := range results {
		status := "ok"
		if res.Err != nil {
			status = res.Err.Error()
		}
		fmt.Printf("  %2d %-8s active=%-18q live=%d frames=%d %s\n", i+1, res.Action, res.Simulation, res.Live, res.Frames, status)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	duration, _ := cmd.Flags().GetFloat64("time")
	dt, _ := cmd.Flags().GetFloat64("dt")
	seed, _ := cmd.Flags().GetInt64("seed")

	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Simulation: args[0],
		ParamName:  sweepParam,
		ParamMin:   sweepMin,
		ParamMax:   sweepMax,
		NumSteps:   sweepSteps,
		Duration:   duration,
		Dt:         dt,
		Seed:       seed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tEXTENT\tSTABILITY\tMOTION\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.6f\n", r.ParamValue, r.Metrics["extent"], r.Metrics["stability"], r.Metrics["motion"])
	}
	return w.Flush()
}
