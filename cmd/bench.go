// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"cyphergremlin/cli/internal/bench"
	"cyphergremlin/cli/internal/cypher"
	clierrors "cyphergremlin/cli/internal/errors"
	"cyphergremlin/cli/internal/gremlin"
	"cyphergremlin/cli/internal/logging"
	"cyphergremlin/cli/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	benchFile        string
	benchParams      []string
	benchIterations  int
	benchConcurrency int
	benchMetricsAddr string
)

// benchCmd runs a statement repeatedly and reports latency.
var benchCmd = &cobra.Command{
	Use:   "bench [CYPHER]",
	Short: "Measure statement latency",
	Long: `The bench command runs one Cypher statement many times over a shared connection
and reports minimum, mean, median, 95th percentile and maximum latency.

With --metrics-addr the request counters and latency histogram are served in
Prometheus format on /metrics while the benchmark runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := readQuery(args, benchFile, nil)
		if err != nil {
			return clierrors.Wrap(clierrors.ConfigInvalid, "no statement", err)
		}
		params, err := parseParams(benchParams, "")
		if err != nil {
			return clierrors.Wrap(clierrors.ConfigInvalid, "invalid parameters", err)
		}
		s, err := loadSession(cmd)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		collector := metrics.New(reg)

		if benchMetricsAddr != "" {
			stop, err := serveMetrics(benchMetricsAddr, reg)
			if err != nil {
				return clierrors.Wrap(clierrors.ConfigInvalid, "cannot serve metrics", err)
			}
			defer stop()
		}

		gc, err := s.gremlinClient(gremlin.WithObserver(collector))
		if err != nil {
			return err
		}
		defer gc.Close()

		ctx := cmd.Context()
		if err := gc.Connect(ctx); err != nil {
			reportError(err, s.url)
			return clierrors.Wrap(clierrors.ConnectFailed, "cannot connect", err)
		}

		stmt := cypher.NewStatementWithParameters(q, params)
		stopSpinner := startInlineSpinner(fmt.Sprintf("running %d iterations", benchIterations))
		st, err := bench.Run(ctx, s.cypherClient(gc), stmt, bench.Options{Iterations: benchIterations, Concurrency: benchConcurrency})
		stopSpinner()
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		printBenchStats(st)
		if st.Count == 0 && st.Errors > 0 {
			return clierrors.New(clierrors.RequestFailed, "every iteration failed")
		}
		return err
	},
}

func serveMetrics(addr string, reg *prometheus.Registry) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Warn("metrics server stopped", logging.L().Args("error", err.Error()))
		}
	}()
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Metrics: ") + "http://" + ln.Addr().String() + "/metrics")
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func printBenchStats(st bench.Stats) {
	ms := func(d time.Duration) string { return fmt.Sprintf("%.2f ms", float64(d)/float64(time.Millisecond)) }
	data := pterm.TableData{
		{"runs", "errors", "min", "mean", "p50", "p95", "max", "elapsed"},
		{fmt.Sprint(st.Count), fmt.Sprint(st.Errors), ms(st.Min), ms(st.Mean), ms(st.P50), ms(st.P95), ms(st.Max), st.Elapsed.Round(time.Millisecond).String()},
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func init() {
	rootCmd.AddCommand(benchCmd)
	f := benchCmd.Flags()
	f.StringVarP(&benchFile, "file", "f", "", "Read the statement from a file")
	f.StringArrayVarP(&benchParams, "param", "p", nil, "Statement parameter as name=value (repeatable)")
	f.IntVarP(&benchIterations, "iterations", "n", 100, "Number of runs")
	f.IntVarP(&benchConcurrency, "concurrency", "c", 4, "Runs in flight at once")
	f.StringVar(&benchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
}
