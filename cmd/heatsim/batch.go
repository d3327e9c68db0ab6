package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/automation"
	"github.com/san-kum/heatsim/internal/storage"
)

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reports, runErr := automation.RunScenario(ctx, scenario, log.StandardLogger())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSCHEME\tFO\tSTEPS\tMAX ERROR\tID")
	for _, rep := range reports {
		runID, err := st.Save(rep)
		if err != nil {
			return err
		}
		maxErr := "-"
		if rep.Verified() {
			maxErr = fmt.Sprintf("%.3e", rep.MaxError)
		}
		fmt.Fprintf(w, "%s\t%s\t%.4g\t%d\t%s\t%s\n", rep.Name, rep.Scheme, rep.Stability.Fourier, rep.Steps, maxErr, runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}
