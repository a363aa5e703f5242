package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/classroom/internal/app"
	"github.com/geocoder89/classroom/internal/config"
	"github.com/geocoder89/classroom/internal/db"
	httpx "github.com/geocoder89/classroom/internal/http"
	"github.com/geocoder89/classroom/internal/observability"
	"github.com/geocoder89/classroom/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// run owns every deferred cleanup, so exit only after it returns
	if err := run(cfg, log); err != nil {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, "classroom", cfg.OtelEndpoint, cfg.Env)
	if err != nil {
		return fmt.Errorf("tracer init: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	stores, err := app.Build(ctx, cfg, log, prom)
	if err != nil {
		_ = shutdownTracer(context.Background())
		return fmt.Errorf("store setup: %w", err)
	}
	defer stores.Close()

	seedCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	seeded, err := db.EnsureAdminUser(seedCtx, stores.Credentials, cfg)
	cancel()
	if err != nil {
		_ = shutdownTracer(context.Background())
		return fmt.Errorf("admin seed: %w", err)
	}
	if seeded {
		log.Info("admin account ensured", "email", cfg.AdminEmail)
	}

	sweepDone := make(chan struct{})
	if stores.SweepNeeded {
		sweeper := worker.NewSweeper(worker.Config{Interval: cfg.SessionSweepInterval}, stores.Sessions, prom, log)
		stores.Checks["session_sweeper"] = sweeper.Check

		go func() {
			defer close(sweepDone)
			_ = sweeper.Run(ctx)
		}()
	} else {
		close(sweepDone)
	}

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Credentials: stores.Credentials,
		Assignments: stores.Assignments,
		Sessions:    stores.Sessions,
		Prom:        prom,
		Gatherer:    reg,
		Checks:      stores.Checks,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store, "session_store", cfg.SessionStore)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			serveErr <- err
			stop()
		}
	}()

	// Graceful shutdown

	<-ctx.Done()
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}

		<-sweepDone
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}

	select {
	case err := <-serveErr:
		return err
	default:
		return nil
	}
}
