package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/heatsim/internal/optim"
)

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, "")
	if err != nil {
		return err
	}
	ec, err := cfg.Experiment(name)
	if err != nil {
		return err
	}

	var axes []optim.Axis
	for _, a := range []optim.Axis{
		{Name: optim.ParamDt, Values: sweepDt},
		{Name: optim.ParamNx, Values: sweepNx},
		{Name: optim.ParamAlpha, Values: sweepAlpha},
	} {
		if len(a.Values) > 0 {
			axes = append(axes, a)
		}
	}
	g, err := optim.NewGridSearch(axes...)
	if err != nil {
		return fmt.Errorf("%w (use --sweep-dt, --sweep-nx or --sweep-alpha)", err)
	}

	log.WithFields(log.Fields{"points": len(g.Points()), "scheme": ec.Scheme}).Info("running sweep")
	points, err := g.WithWorkers(workers).Run(context.Background(), ec)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINT\tFO\tSTABLE\tBOUNDED\t"+strings.ToUpper(sweepMetric))
	for _, p := range points {
		label := make([]string, 0, len(p.Values))
		for _, n := range p.Names() {
			label = append(label, fmt.Sprintf("%s=%g", n, p.Values[n]))
		}
		if p.Err != nil {
			fmt.Fprintf(w, "%s\t%.4g\t%v\t-\terror: %v\n", strings.Join(label, " "), p.Stability.Fourier, !p.Stability.Exceeded, p.Err)
			continue
		}
		metric := "-"
		if v, ok := p.Metrics[sweepMetric]; ok {
			metric = fmt.Sprintf("%.4g", v)
		}
		fmt.Fprintf(w, "%s\t%.4g\t%v\t%.3f\t%s\n", strings.Join(label, " "), p.Stability.Fourier, !p.Stability.Exceeded, p.Metrics["bounded"], metric)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := optim.Best(points, sweepMetric); ok {
		fmt.Printf("\nbest by %s: %v (%.4g)\n", sweepMetric, best.Values, best.Metrics[sweepMetric])
	}
	return nil
}
