package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tvcharts/internal/config"
	"tvcharts/internal/dashboard"
	"tvcharts/internal/loader"
	"tvcharts/internal/logger"
	"tvcharts/internal/metrics"
	"tvcharts/internal/reports"
	"tvcharts/internal/server"
	"tvcharts/internal/storage"
)

// app bundles the HTTP surface with the controller goroutine behind it
type app struct {
	server  *server.Server
	handler http.Handler
	// done receives the controller's exit error; nil when no controller runs
	done <-chan error
}

// newApp loads the dataset and starts the controller. A dataset that fails
// to load is not fatal: the app then serves the error page.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.WithComponent("main")
	m := metrics.New()

	pages, err := reports.NewPageBuilder()
	if err != nil {
		return nil, err
	}

	failed := func(err error) *app {
		srv := server.NewFailedServer(cfg, err, pages, m)
		return &app{server: srv, handler: srv.SetupRoutes()}
	}

	ds, err := loader.New(cfg.FetchTimeout).Load(ctx, cfg.DataSource)
	if err != nil {
		log.Error("Dataset failed to load", err, logger.Fields{"source": cfg.DataSource})
		return failed(err), nil
	}

	controller, err := dashboard.New(ds, dashboard.ConfigFrom(cfg), dashboard.WithMetrics(m))
	if err != nil {
		log.Error("Charts could not be drawn", err, logger.Fields{"source": cfg.DataSource})
		return failed(err), nil
	}

	store, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		log.Warn("Publishing disabled", logger.Fields{"error": err.Error(), "mode": cfg.DeploymentMode})
		store = nil
	}

	requests := make(chan dashboard.Request)
	done := make(chan error, 1)
	go func() {
		done <- controller.Run(ctx, requests)
	}()

	srv := server.NewServer(cfg, requests, pages, store, m)
	return &app{server: srv, handler: srv.SetupRoutes(), done: done}, nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		logger.Fatal("Failed to configure logging", err)
	}
	log := logger.WithComponent("main")

	log.Info("Starting TV charts service", logger.Fields{
		"port":        cfg.Port,
		"version":     config.GetVersion(),
		"environment": cfg.Environment,
		"source":      cfg.DataSource,
		"mode":        cfg.DeploymentMode,
	})

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(runCtx, cfg)
	if err != nil {
		log.Fatal("Failed to start", err)
	}
	defer a.server.Close()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", logger.Fields{"addr": httpServer.Addr})
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", err)
		}
	}()

	<-runCtx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}
	if a.done != nil {
		if err := <-a.done; err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Controller stopped with error", err)
		}
	}

	log.Info("Server stopped")
}
