package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/optim"
	"github.com/san-kum/nbody/internal/physics"
	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	configFile  string
	preset      string
	dt          float64
	reference   int
	sampleEvery int
	plot        bool
	verbose     bool
	// bench
	benchSteps []int
	// watch
	watchSteps    int
	stepsPerFrame int
	// sweep
	sweepDts    []float64
	sweepRadius float64
)

// main registers the commands and flags and executes the root command,
// exiting with status 1 on error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "nbody [steps]",
		Short:        "jovian planets n-body benchmark",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runSimulation,
		SilenceUsage: true,
	}
	addRunFlags(rootCmd)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")

	runCmd := &cobra.Command{
		Use:   "run [steps]",
		Short: "run the simulation and report energy before and after",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the integrator over several step counts",
		Args:  cobra.NoArgs,
		RunE:  benchPreset,
	}
	addRunFlags(benchCmd)
	benchCmd.Flags().IntSliceVar(&benchSteps, "steps", []int{1000, 10000, 100000, 1000000}, "step counts to time")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run the simulation with a live view",
		Args:  cobra.NoArgs,
		RunE:  watchSimulation,
	}
	addRunFlags(watchCmd)
	watchCmd.Flags().IntVar(&watchSteps, "steps", 0, "stop after this many steps (0 runs until quit)")
	watchCmd.Flags().IntVar(&stepsPerFrame, "speed", 20, "steps per frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep [steps]",
		Short: "compare energy drift across timesteps over the same span",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepTimesteps,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", []float64{0.04, 0.02, 0.01, 0.005, 0.0025}, "timesteps to compare")
	sweepCmd.Flags().Float64Var(&sweepRadius, "radius", 100, "bodies beyond this distance (AU) count as unstable")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available body presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tBODIES\tPAIRS")
			for _, name := range config.ListPresets() {
				n := len(config.GetPreset(name))
				fmt.Fprintf(w, "%s\t%d\t%d\n", name, n, len(physics.BuildPairs(n)))
			}
			w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the default configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "nbody.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, benchCmd, sweepCmd, watchCmd, presetsCmd, configCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", config.DefaultPreset, "body preset")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in years")
	cmd.Flags().IntVar(&reference, "reference", config.DefaultReference, "index of the body that absorbs the system momentum")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "observe metrics every n steps (0: first and last only)")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot the energy trace")
}

// resolveConfig layers defaults, the config file, explicitly set flags and
// the positional step count, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		cfg.Preset = preset
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("reference") {
		cfg.Reference = reference
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid step count %q: %w", args[0], err)
		}
		cfg.Steps = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "nbody: ", log.Ltime|log.Lmicroseconds)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	bodies, err := cfg.Bodies()
	if err != nil {
		return err
	}

	simCfg := cfg.Sim()
	if plot && simCfg.SampleEvery == 0 {
		simCfg.SampleEvery = max(simCfg.Steps/80, 1)
	}

	logger.Printf("preset %s: %d bodies, %d pairs", cfg.Preset, len(bodies), len(physics.BuildPairs(len(bodies))))
	logger.Printf("dt %g, steps %d, reference %d", simCfg.Dt, simCfg.Steps, simCfg.Reference)
	logger.Printf("momentum before normalization %.3e", r3.Norm(physics.Momentum(bodies)))
	logger.Printf("angular momentum %v", physics.AngularMomentum(bodies))

	s := sim.New(sim.NewReporter(cmd.OutOrStdout()))
	trace := metrics.NewEnergyTrace(1000)
	drift := metrics.NewEnergyDrift()
	momentum := metrics.NewMomentumDrift()
	s.AddMetric(trace)
	s.AddMetric(drift)
	s.AddMetric(momentum)

	start := time.Now()
	result, err := s.Run(cmd.Context(), bodies, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	logger.Printf("%d steps in %v", result.Steps, elapsed)
	logger.Printf("energy drift %.3e, max momentum %.3e", result.Metrics[drift.Name()], result.Metrics[momentum.Name()])
	logger.Printf("angular momentum after %d steps %v", result.Steps, physics.AngularMomentum(result.Bodies))

	if plot {
		if energies := trace.Energies(); len(energies) > 1 {
			graph := asciigraph.Plot(energies,
				asciigraph.Height(12),
				asciigraph.Width(80),
				asciigraph.Precision(9),
				asciigraph.Caption(fmt.Sprintf("energy, every %d steps", simCfg.SampleEvery)),
			)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), graph)
		}
	}
	return nil
}

func benchPreset(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	bodies, err := cfg.Bodies()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.HeaderStyle.Render(fmt.Sprintf("benchmarking %s (%d bodies, dt %g)", cfg.Preset, len(bodies), cfg.Dt)))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPS\tTIME\tSTEPS/SEC\tENERGY\tDRIFT")

	for _, steps := range benchSteps {
		simCfg := cfg.Sim()
		simCfg.Steps = steps
		simCfg.SampleEvery = 0

		s := sim.New(nil)
		drift := metrics.NewEnergyDrift()
		s.AddMetric(drift)

		start := time.Now()
		result, err := s.Run(cmd.Context(), bodies, simCfg)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)
		logger.Printf("%d steps done", steps)

		fmt.Fprintf(w, "%d\t%v\t%.0f\t%s\t%.3e\n",
			steps, elapsed.Round(time.Microsecond), float64(steps)/elapsed.Seconds(),
			sim.FormatEnergy(result.FinalEnergy), result.Metrics[drift.Name()])
	}

	return w.Flush()
}

func sweepTimesteps(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	bodies, err := cfg.Bodies()
	if err != nil {
		return err
	}

	base := cfg.Sim()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.HeaderStyle.Render(fmt.Sprintf("sweeping %s over %g years", cfg.Preset, base.Dt*float64(base.Steps))))
	fmt.Fprintln(out)

	start := time.Now()
	trials, best, err := optim.NewDtSweep(sweepDts, sweepRadius).Search(cmd.Context(), bodies, base)
	if err != nil {
		return err
	}
	logger.Printf("%d trials in %v", len(trials), time.Since(start))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY\tDRIFT\tSTABILITY")
	for _, t := range trials {
		fmt.Fprintf(w, "%g\t%d\t%s\t%.3e\t%.2f\n",
			t.Dt, t.Steps, sim.FormatEnergy(t.FinalEnergy), t.Drift, t.Stability)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.Row("Best dt", fmt.Sprintf("%g (drift %.3e)", best.Dt, best.Drift)))
	return nil
}

func watchSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	bodies, err := cfg.Bodies()
	if err != nil {
		return err
	}
	simCfg := cfg.Sim()
	simCfg.Steps = watchSteps
	return viz.RunWatch(bodies, simCfg, stepsPerFrame)
}
