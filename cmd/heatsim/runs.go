package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/gui"
	"github.com/san-kum/heatsim/internal/spectrum"
	"github.com/san-kum/heatsim/internal/storage"
	"github.com/san-kum/heatsim/internal/stream"
	"github.com/san-kum/heatsim/internal/viz"
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
	fmt.Fprintln(w, "ID\tNAME\tSCHEME\tTIME\tNX\tDT\tFO\tSTEPS\tVERIFIED")

	for _, run := range runs {
		verified := "-"
		if run.Verified {
			verified = fmt.Sprintf("%.2e", run.MaxError)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%g\t%.4g\t%d\t%s\n",
			run.ID,
			run.Name,
			run.Scheme,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			run.Dt,
			run.Fourier,
			run.Steps,
			verified,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	field, err := st.LoadField(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s)\n", meta.ID, meta.Name)
	fmt.Printf("scheme: %s\n", meta.Scheme)
	fmt.Printf("rod: L=%g alpha=%g ends=%g/%g\n", meta.Length, meta.Alpha, meta.Left, meta.Right)
	fmt.Printf("grid: nx=%d dt=%g t_final=%g\n", meta.Points, meta.Dt, meta.TFinal)
	fmt.Printf("fourier: %g", meta.Fourier)
	if meta.Unstable {
		fmt.Print(" (exceeds stability limit)")
	}
	fmt.Println()
	fmt.Printf("steps: %d  snapshots: %d  elapsed: %.3fs\n", meta.Steps, meta.Snapshots, meta.ElapsedSecs)
	if meta.Verified {
		fmt.Printf("max error vs analytical: %.6g\n", meta.MaxError)
	}

	names := make([]string, 0, len(meta.Metrics))
	for name := range meta.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, meta.Metrics[name])
	}

	fmt.Println("\nfinal distribution:")
	fmt.Println(formatField(field.Final))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	rep, err := storage.New(dataDir).LoadReport(args[0])
	if err != nil {
		return err
	}
	if len(rep.Final) == 0 {
		return fmt.Errorf("no data to plot")
	}
	fmt.Println(viz.ReportPlot(rep, 70, 15))
	videoOut = ""
	return writeOutputs(rep)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	rep, err := storage.New(dataDir).LoadReport(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, rep)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	rep, err := storage.New(dataDir).LoadReport(args[0])
	if err != nil {
		return err
	}
	if len(rep.Snapshots) > 0 {
		return storage.WriteSnapshotsCSV(os.Stdout, rep.Snapshots)
	}
	return storage.WriteFieldCSV(os.Stdout, rep)
}

func spectrumRun(cmd *cobra.Command, args []string) error {
	rep, err := storage.New(dataDir).LoadReport(args[0])
	if err != nil {
		return err
	}
	if rep.Params.TFinal <= 0 {
		return fmt.Errorf("run %s has no elapsed simulated time", args[0])
	}

	final, err := spectrum.SineCoefficients(rep.Final, rep.Params.Boundary)
	if err != nil {
		return err
	}
	fmt.Println(viz.SpectrumPlot(spectrum.Power(final), 70, 10))

	decay, err := spectrum.Decay(rep.Initial, rep.Final, 0, rep.Params.TFinal, rep.Params, modes, 1e-10)
	if err != nil {
		return err
	}
	return writeModes(os.Stdout, decay)
}

func writeModes(out io.Writer, decay []spectrum.Mode) error {
	if len(decay) == 0 {
		fmt.Fprintln(out, "no modes above the noise floor")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "K\tB(0)\tB(T)\tRATE\tEXACT\tREL ERROR")
	for _, m := range decay {
		fmt.Fprintf(w, "%d\t%.4g\t%.4g\t%.4e\t%.4e\t%+.2e\n", m.K, m.From, m.To, m.Rate, m.Exact, m.RelativeError())
	}
	return w.Flush()
}

func replayRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSnapshots(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("run %s has no snapshots (record with --sample-every)", args[0])
	}
	return viz.RunReplay(args[0], series, fps)
}

func guiRun(cmd *cobra.Command, args []string) error {
	rep, err := storage.New(dataDir).LoadReport(args[0])
	if err != nil {
		return err
	}
	if len(rep.Snapshots) == 0 {
		return fmt.Errorf("run %s has no snapshots (record with --sample-every)", args[0])
	}
	return gui.Run(rep.Name, rep.Positions, rep.Snapshots, float64(fps))
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return stream.NewServer(addr, fps, log.StandardLogger()).Serve(ctx)
}
