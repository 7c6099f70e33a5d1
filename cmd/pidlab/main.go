package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pidlab/internal/analysis"
	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/experiment"
	"github.com/san-kum/pidlab/internal/pid"
	"github.com/san-kum/pidlab/internal/storage"
	"github.com/san-kum/pidlab/internal/tune"
	"github.com/san-kum/pidlab/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	integrator string
	controller string
	kp         float64
	ki         float64
	kd         float64
	clampLo    float64
	clampHi    float64
	smooth     float64
	// Setpoint profile
	profile   string
	level     float64
	amplitude float64
	period    float64
	slope     float64
	startAt   float64
	// Initial conditions
	temp    float64
	current float64
	omega   float64
	theta   float64
	// Config file and preset
	configFile string
	preset     string
	// Sweep
	sweepMetric string
	sweepSteps  int
	kpMin       float64
	kpMax       float64
	kiMin       float64
	kiMax       float64
	kdMin       float64
	kdMax       float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pidlab",
		Short: "PID control loop laboratory",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pidlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [plant]",
		Short: "run a closed-loop simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addLoopFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [plant]",
		Short: "run with live visualization and interactive gain tuning",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addLoopFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [plant]",
		Short: "grid-search gains against a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addLoopFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "iae", "metric to minimize")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "grid points per gain")
	sweepCmd.Flags().Float64Var(&kpMin, "kp-min", 0, "kp lower bound")
	sweepCmd.Flags().Float64Var(&kpMax, "kp-max", 20, "kp upper bound")
	sweepCmd.Flags().Float64Var(&kiMin, "ki-min", 0, "ki lower bound")
	sweepCmd.Flags().Float64Var(&kiMax, "ki-max", 5, "ki upper bound")
	sweepCmd.Flags().Float64Var(&kdMin, "kd-min", 0, "kd lower bound")
	sweepCmd.Flags().Float64Var(&kdMax, "kd-max", 2, "kd upper bound")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the tracking error",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [plant]",
		Short: "list available presets for a plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for plant: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLoopFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	cmd.Flags().StringVar(&controller, "controller", "pid", "controller")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "proportional gain")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "integral gain")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "derivative gain")
	cmd.Flags().Float64Var(&clampLo, "clamp-lo", config.DefaultClampLo, "anti-windup lower bound")
	cmd.Flags().Float64Var(&clampHi, "clamp-hi", config.DefaultClampHi, "anti-windup upper bound")
	cmd.Flags().Float64Var(&smooth, "smooth", config.DefaultSmooth, "derivative smoothing coefficient [0,1]")
	cmd.Flags().StringVar(&profile, "profile", "step", "setpoint profile (step|ramp|sine|square|constant)")
	cmd.Flags().Float64Var(&level, "setpoint", 50.0, "setpoint level / offset")
	cmd.Flags().Float64Var(&amplitude, "amplitude", 1.0, "setpoint amplitude (sine, square)")
	cmd.Flags().Float64Var(&period, "period", 10.0, "setpoint period (sine, square)")
	cmd.Flags().Float64Var(&slope, "slope", 1.0, "setpoint slope (ramp)")
	cmd.Flags().Float64Var(&startAt, "start", 0.0, "setpoint step time")
	cmd.Flags().Float64Var(&temp, "temp", 20.0, "initial temperature (thermal)")
	cmd.Flags().Float64Var(&current, "current", 0.0, "initial current (motor)")
	cmd.Flags().Float64Var(&omega, "omega", 0.0, "initial angular velocity")
	cmd.Flags().Float64Var(&theta, "theta", 0.0, "initial angle (pendulum)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig layers preset, config file and flags, lowest priority
// first; explicit flags always win.
func buildConfig(cmd *cobra.Command, plant string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Plant = plant

	if preset != "" {
		p := config.GetPreset(plant, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(plant))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Plant = plant
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("controller") {
		cfg.Controller = controller
	}
	if cmd.Flags().Changed("kp") {
		cfg.PID.Kp = kp
	}
	if cmd.Flags().Changed("ki") {
		cfg.PID.Ki = ki
	}
	if cmd.Flags().Changed("kd") {
		cfg.PID.Kd = kd
	}
	if cmd.Flags().Changed("clamp-lo") {
		cfg.PID.ClampLo = clampLo
	}
	if cmd.Flags().Changed("clamp-hi") {
		cfg.PID.ClampHi = clampHi
	}
	if cmd.Flags().Changed("smooth") {
		cfg.PID.Smooth = smooth
	}
	if cmd.Flags().Changed("profile") {
		cfg.Setpoint.Profile = profile
	}
	if cmd.Flags().Changed("setpoint") {
		cfg.Setpoint.Level = level
	}
	if cmd.Flags().Changed("amplitude") {
		cfg.Setpoint.Amplitude = amplitude
	}
	if cmd.Flags().Changed("period") {
		cfg.Setpoint.Period = period
	}
	if cmd.Flags().Changed("slope") {
		cfg.Setpoint.Slope = slope
	}
	if cmd.Flags().Changed("start") {
		cfg.Setpoint.Start = startAt
	}
	if cmd.Flags().Changed("temp") {
		cfg.InitState.Temp = temp
	}
	if cmd.Flags().Changed("current") {
		cfg.InitState.Current = current
	}
	if cmd.Flags().Changed("omega") {
		cfg.InitState.Omega = omega
	}
	if cmd.Flags().Changed("theta") {
		cfg.InitState.Theta = theta
	}

	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	fmt.Printf("running %s loop...\n", cfg.Plant)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	meta := storage.RunMetadata{
		Plant:      cfg.Plant,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
		Kp:         cfg.PID.Kp,
		Ki:         cfg.PID.Ki,
		Kd:         cfg.PID.Kd,
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	for _, stepErr := range result.Errors {
		fmt.Printf("warning: %v\n", stepErr)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	p, err := registry.GetPlant(cfg.Plant)
	if err != nil {
		return err
	}
	stepper, err := registry.GetStepper(cfg.Integrator)
	if err != nil {
		return err
	}
	ctrl, err := registry.GetController("pid", cfg.Dt, cfg.PID)
	if err != nil {
		return err
	}
	ref, err := registry.GetReference(cfg.Setpoint)
	if err != nil {
		return err
	}

	pidCtrl, ok := ctrl.(*pid.Controller)
	if !ok {
		return fmt.Errorf("live view requires the pid controller")
	}

	m := viz.NewModel(p, stepper, pidCtrl, ref, cfg.GetInitState(), cfg.Plant)

	prog := tea.NewProgram(m)
	if _, err := prog.Run(); err != nil {
		return err
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	gs := tune.NewGridSearch(
		[]string{"kp", "ki", "kd"},
		[][]float64{
			tune.Span(kpMin, kpMax, sweepSteps),
			tune.Span(kiMin, kiMax, sweepSteps),
			tune.Span(kdMin, kdMax, sweepSteps),
		},
	)

	registry := experiment.NewRegistry()

	fmt.Printf("sweeping %s gains, %d points per axis, minimizing %s...\n",
		cfg.Plant, sweepSteps, sweepMetric)
	start := time.Now()

	best, score, err := gs.Search(context.Background(), func(params map[string]float64) (float64, error) {
		candidate := *cfg
		candidate.PID.Kp = params["kp"]
		candidate.PID.Ki = params["ki"]
		candidate.PID.Kd = params["kd"]

		exp := experiment.New(&candidate)
		if err := exp.Setup(registry); err != nil {
			return 0, err
		}
		result, err := exp.Run(context.Background())
		if err != nil {
			return 0, err
		}
		if len(result.Errors) > 0 {
			return 0, fmt.Errorf("unstable run")
		}

		val, ok := result.Metrics[sweepMetric]
		if !ok {
			return 0, fmt.Errorf("unknown metric: %s", sweepMetric)
		}
		return val, nil
	})
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no stable gain combination found")
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KP\tKI\tKD\t"+sweepMetric)
	fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.6f\n", best["kp"], best["ki"], best["kd"], score)
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
	fmt.Fprintln(w, "ID\tPLANT\tTIME\tDURATION\tDT\tINTEG\tCTRL\tKP\tKI\tKD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%.2f\t%.2f\t%.2f\n",
			run.ID,
			run.Plant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.Kp,
			run.Ki,
			run.Kd,
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

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("plant: %s\n", meta.Plant)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	graph := asciigraph.PlotMany(
		[][]float64{series.Setpoints, series.Outputs},
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
		asciigraph.Caption("setpoint (red) vs output (green)"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(series.Controls,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("control signal"),
	)
	fmt.Println(graph)

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(series.Errs) < 4 {
		return fmt.Errorf("not enough data to analyze")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("plant: %s\n\n", meta.Plant)

	ps := analysis.PowerSpectrum(analysis.PadPow2(series.Errs))
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (tracking error)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := analysis.DominantFrequency(series.Errs, meta.Dt)
	if power == 0 || freq == 0 {
		fmt.Println("no dominant oscillation detected")
		return nil
	}

	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	fmt.Printf("period: %.3f s\n", 1.0/freq)

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

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	if len(series.Times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "setpoint", "output", "error", "control"}); err != nil {
		return err
	}

	for i := range series.Times {
		row := []string{
			strconv.FormatFloat(series.Times[i], 'f', 6, 64),
			strconv.FormatFloat(series.Setpoints[i], 'f', 6, 64),
			strconv.FormatFloat(series.Outputs[i], 'f', 6, 64),
			strconv.FormatFloat(series.Errs[i], 'f', 6, 64),
			strconv.FormatFloat(series.Controls[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, series)
}
