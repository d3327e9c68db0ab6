package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/config"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	// Run configuration. Flags override the preset or config file only when set.
	configFile  string
	preset      string
	scheme      string
	length      float64
	alpha       float64
	tFinal      float64
	nx          int
	dt          float64
	profile     string
	tInitial    float64
	tLeft       float64
	tRight      float64
	sampleEvery int
	strict      bool

	// Outputs
	noPlot   bool
	noSave   bool
	pngOut   string
	svgOut   string
	videoOut string
	fps      int

	levels int
	modes  int
	addr   string
	useTUI bool

	sweepDt     []float64
	sweepNx     []float64
	sweepAlpha  []float64
	sweepMetric string
	workers     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "heatsim",
		Short:         "1-D transient heat conduction in a rod",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel, logFormat)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".heatsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and print the final distribution",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	addOutputFlags(runCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "run the sinusoidal case and compare with the analytical solution",
		Args:  cobra.NoArgs,
		RunE:  runVerification,
	}
	addRunFlags(verifyCmd)
	addOutputFlags(verifyCmd)

	animateCmd := &cobra.Command{
		Use:   "animate",
		Short: "record snapshots and write an AVI animation",
		Args:  cobra.NoArgs,
		RunE:  runAnimation,
	}
	addRunFlags(animateCmd)
	addOutputFlags(animateCmd)
	animateCmd.Flags().BoolVar(&useTUI, "tui", false, "replay the snapshots in the terminal afterwards")

	convergeCmd := &cobra.Command{
		Use:   "converge",
		Short: "refine the verification grid and report the error order",
		Args:  cobra.NoArgs,
		RunE:  runConvergence,
	}
	addRunFlags(convergeCmd)
	convergeCmd.Flags().IntVar(&levels, "levels", 4, "number of refinement levels")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a parameter grid and rank the points by a metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepDt, "sweep-dt", nil, "time steps to sweep")
	sweepCmd.Flags().Float64SliceVar(&sweepNx, "sweep-nx", nil, "grid sizes to sweep")
	sweepCmd.Flags().Float64SliceVar(&sweepAlpha, "sweep-alpha", nil, "diffusivities to sweep")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "max_error", "metric to minimise")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = one per CPU)")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every step of a scenario file and store the runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngOut, "png", "", "also write the comparison plot as PNG")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the comparison plot as SVG")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the snapshot series (or the final field) to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "sine-mode decay rates of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumRun,
	}
	spectrumCmd.Flags().IntVar(&modes, "modes", 8, "number of modes to compare")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a stored snapshot series in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().IntVar(&fps, "fps", 20, "frames per second")

	guiCmd := &cobra.Command{
		Use:   "gui [run_id]",
		Short: "replay a stored snapshot series in a window",
		Args:  cobra.ExactArgs(1),
		RunE:  guiRun,
	}
	guiCmd.Flags().IntVar(&fps, "fps", 20, "frames per second")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve presets and stream snapshots over websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&fps, "fps", 20, "frames per second streamed to clients (0 = unpaced)")

	rootCmd.AddCommand(runCmd, verifyCmd, animateCmd, convergeCmd, sweepCmd, batchCmd, presetsCmd, listCmd, showCmd, plotCmd,
		exportJSONCmd, exportCSVCmd, spectrumCmd, replayCmd, guiCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("heatsim failed")
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml or ini)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&scheme, "scheme", d.Scheme, "time-stepping scheme (explicit, implicit)")
	f.Float64Var(&length, "length", d.Rod.Length, "rod length L (m)")
	f.Float64Var(&alpha, "alpha", d.Rod.Alpha, "thermal diffusivity (m^2/s)")
	f.Float64Var(&tFinal, "t-final", d.TFinal, "simulated time (s)")
	f.IntVar(&nx, "nx", d.Grid.Points, "number of grid points")
	f.Float64Var(&dt, "dt", d.Grid.Dt, "time step (s)")
	f.StringVar(&profile, "profile", d.Initial.Profile, "initial profile (uniform, sine)")
	f.Float64Var(&tInitial, "t-initial", d.Initial.Value, "uniform initial temperature")
	f.Float64Var(&tLeft, "t-left", d.Boundary.Left, "left end temperature")
	f.Float64Var(&tRight, "t-right", d.Boundary.Right, "right end temperature")
	f.IntVar(&sampleEvery, "sample-every", 0, "record a snapshot every N steps (0 = off)")
	f.BoolVar(&strict, "strict", false, "fail instead of warning when Fo > 0.5")
}

func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&noPlot, "no-plot", false, "skip the terminal plot")
	f.BoolVar(&noSave, "no-save", false, "do not store the run")
	f.StringVar(&pngOut, "png", "", "write the comparison plot as PNG")
	f.StringVar(&svgOut, "svg", "", "write the comparison plot as SVG")
	f.StringVar(&videoOut, "video", "", "write the snapshot series as an AVI animation")
	f.IntVar(&fps, "fps", 20, "animation frames per second")
}

func setupLogging(level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", format)
	}
	return nil
}
