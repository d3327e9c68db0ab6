package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/config"
	"github.com/san-kum/heatsim/internal/experiment"
	"github.com/san-kum/heatsim/internal/export"
	"github.com/san-kum/heatsim/internal/rod"
	"github.com/san-kum/heatsim/internal/storage"
	"github.com/san-kum/heatsim/internal/viz"
)

// resolveConfig layers base preset, --preset, --config and changed flags, in
// that order. It returns the configuration and the run name.
func resolveConfig(cmd *cobra.Command, base string) (*config.Config, string, error) {
	cfg, name := config.DefaultConfig(), "run"
	if base != "" {
		if cfg = config.GetPreset(base); cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", base, config.ListPresets())
		}
		name = base
	}
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	}

	f := cmd.Flags()
	if f.Changed("scheme") {
		cfg.Scheme = scheme
	}
	if f.Changed("length") {
		cfg.Rod.Length = length
	}
	if f.Changed("alpha") {
		cfg.Rod.Alpha = alpha
	}
	if f.Changed("t-final") {
		cfg.TFinal = tFinal
	}
	if f.Changed("nx") {
		cfg.Grid.Points = nx
	}
	if f.Changed("dt") {
		cfg.Grid.Dt = dt
	}
	if f.Changed("profile") {
		cfg.Initial.Profile = profile
	}
	if f.Changed("t-initial") {
		cfg.Initial.Value = tInitial
	}
	if f.Changed("t-left") {
		cfg.Boundary.Left = tLeft
	}
	if f.Changed("t-right") {
		cfg.Boundary.Right = tRight
	}
	if f.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if f.Changed("strict") {
		cfg.Strict = strict
	}
	return cfg, name, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, "")
	if err != nil {
		return err
	}
	_, err = execute(cfg, name)
	return err
}

func runVerification(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, scheme+"-verify")
	if err != nil {
		return err
	}
	cfg.Verify = true
	_, err = execute(cfg, name)
	return err
}

func runAnimation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, "animation")
	if err != nil {
		return err
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("animation needs --sample-every > 0")
	}
	if videoOut == "" {
		videoOut = "heat_conduction.avi"
	}
	rep, err := execute(cfg, name)
	if err != nil {
		return err
	}
	if useTUI {
		return viz.RunReplay(name, rep.Snapshots, fps)
	}
	return nil
}

// execute runs the configuration, prints the console report and writes the
// requested outputs.
func execute(cfg *config.Config, name string) (*experiment.Report, error) {
	ec, err := cfg.Experiment(name)
	if err != nil {
		return nil, err
	}
	rep, err := experiment.New(ec).Run()
	if err != nil {
		return nil, err
	}

	writeSummary(os.Stdout, rep)
	if !noPlot {
		fmt.Println()
		fmt.Println(viz.ReportPlot(rep, 70, 15))
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return nil, err
		}
		runID, err := st.Save(rep)
		if err != nil {
			return nil, err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	if err := writeOutputs(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// writeSummary prints the Fourier number, step count and final distribution.
func writeSummary(w io.Writer, rep *experiment.Report) {
	fmt.Fprintf(w, "Fourier number is: %g\n", rep.Stability.Fourier)
	if rep.Stability.Exceeded && rep.Scheme == "explicit" {
		fmt.Fprintf(w, "WARNING! Fo must be <=%g. Simulation likely to become unstable\n", rep.Stability.Limit)
	}
	fmt.Fprintf(w, "Simulation is done after %d time steps\n", rep.Steps)
	fmt.Fprintln(w, "\nFINAL TEMPERATURE DISTRIBUTION: (from left to right):")
	fmt.Fprintln(w, formatField(rep.Final))
	if rep.Verified() {
		fmt.Fprintf(w, "\nmax error vs analytical: %.6g (rms %.6g)\n", rep.MaxError, rep.RMSError)
	}
	if len(rep.Snapshots) > 0 {
		fmt.Fprintf(w, "snapshots: %d\n", len(rep.Snapshots))
	}
}

func formatField(f rod.Field) string {
	parts := make([]string, len(f))
	for i, v := range f.Rounded(2) {
		parts[i] = fmt.Sprintf("%.2f", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func writeOutputs(rep *experiment.Report) error {
	if pngOut != "" {
		if err := writeTo(pngOut, func(w io.Writer) error { return export.ComparisonPNG(w, rep, 800, 480) }); err != nil {
			return err
		}
		fmt.Printf("plot written to %s\n", pngOut)
	}
	if svgOut != "" {
		if err := writeTo(svgOut, func(w io.Writer) error { return export.ComparisonSVG(w, rep, 800, 480) }); err != nil {
			return err
		}
		fmt.Printf("plot written to %s\n", svgOut)
	}
	if videoOut != "" {
		if len(rep.Snapshots) == 0 {
			return fmt.Errorf("--video needs a snapshot series, set --sample-every")
		}
		if err := export.WriteAnimation(videoOut, rep.Positions, rep.Snapshots, export.AnimationOptions{FPS: fps}); err != nil {
			return err
		}
		fmt.Printf("animation written to %s\n", videoOut)
	}
	return nil
}

func writeTo(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runConvergence(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, scheme+"-verify")
	if err != nil {
		return err
	}
	cfg.Verify = true
	ec, err := cfg.Experiment(name)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"scheme": ec.Scheme, "levels": levels}).Info("running convergence study")
	out, err := experiment.Converge(ec, levels)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NX\tDT\tFO\tSTEPS\tMAX ERROR\tORDER")
	for i, lv := range out {
		order := "-"
		if i > 0 {
			order = fmt.Sprintf("%.2f", lv.Order)
		}
		fmt.Fprintf(w, "%d\t%g\t%.4g\t%d\t%.3e\t%s\n", lv.Points, lv.Dt, lv.Fourier, lv.Steps, lv.MaxError, order)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCHEME\tT_FINAL\tNX\tDT\tFO\tVERIFY\tSAMPLE")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		p, err := cfg.Params()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%d\t%g\t%.4g\t%v\t%d\n",
			name, cfg.Scheme, p.TFinal, p.Points, p.Dt, p.Fourier(), cfg.Verify, cfg.SampleEvery)
	}
	return w.Flush()
}
