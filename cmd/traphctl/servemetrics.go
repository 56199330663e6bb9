package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/webcrawl/traph/internal/metrics"
	"github.com/webcrawl/traph/traph"
)

func newServeMetricsCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Open a Traph and expose its counters on a Prometheus endpoint until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeMetrics(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":9090", "address to serve /metrics on")

	return cmd
}

func runServeMetrics(addr string) error {
	reg := prometheus.NewRegistry()
	recorder := metrics.New(reg)

	opts := []traph.Option{
		traph.WithLogger(logger),
		traph.WithMetrics(recorder),
	}
	if flagFolder != "" {
		opts = append(opts, traph.WithFolder(flagFolder), traph.WithOverwrite(flagOverride))
	}

	t, err := traph.New(opts...)
	if err != nil {
		return err
	}
	defer t.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("serving metrics")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down metrics server")
		return server.Shutdown(context.Background())
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
