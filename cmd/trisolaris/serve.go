package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/trisolaris/internal/automation"
	"github.com/san-kum/trisolaris/internal/metrics"
	"github.com/san-kum/trisolaris/internal/sim"
	"github.com/san-kum/trisolaris/internal/stream"
)

const shutdownTimeout = 5 * time.Second

// serve runs the engine on a wall-clock ticker in one goroutine and serves
// its published snapshots until interrupted.
func serve(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	logger := slog.With("component", "serve")

	ctx, cancel := signalContext()
	defer cancel()

	collector := metrics.NewCollector()
	engine, err := sim.NewEngine(cfg, sim.WithCollector(collector))
	if err != nil {
		return err
	}
	engine.AddMetric(metrics.NewPlanetDistance())
	engine.AddMetric(metrics.NewEnergyDrift(cfg.G, cfg.Softening))
	engine.AddMetric(metrics.NewStability(automation.EscapeDistance))

	hub := stream.NewHub(cfg.Serve.AllowedOrigins)
	engine.AddObserver(hub)
	go hub.Run(ctx)

	simDone := make(chan error, 1)
	go func() {
		_, err := engine.Run(ctx, 0, time.Second/time.Duration(cfg.FPS))
		simDone <- err
	}()

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           stream.NewHandler(engine, hub, collector.Handler(), cfg.Serve.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srvErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Serve.Addr, "preset", engine.Preset(), "seed", engine.Seed())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-srvErr:
		cancel()
		<-simDone
		return err
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-simDone; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
