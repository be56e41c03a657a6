package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/taskmaster/tasksync/internal/adapters/gateway"
	"github.com/taskmaster/tasksync/internal/application/services"
	"github.com/taskmaster/tasksync/internal/application/store"
	"github.com/taskmaster/tasksync/internal/infrastructure/config"
	"github.com/taskmaster/tasksync/internal/infrastructure/logger"
	"github.com/taskmaster/tasksync/internal/infrastructure/metrics"
)

// app wires one TaskSyncService from configuration
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	registry *prometheus.Registry
	recorder *metrics.Recorder
	service  *services.TaskSyncService
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	gw, err := gateway.NewHTTPGateway(cfg.Gateway, appLogger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	return &app{
		cfg:      cfg,
		logger:   appLogger,
		registry: registry,
		recorder: recorder,
		service:  services.NewTaskSyncService(gw, store.New(), recorder, appLogger),
	}, nil
}

// metricsRouter serves the operation metrics on /metrics
func metricsRouter(recorder *metrics.Recorder) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(recorder.Handler()))
	return e
}

// serveMetrics exposes /metrics on the configured port until ctx is done
func (a *app) serveMetrics(ctx context.Context) {
	if !a.cfg.Metrics.Enabled {
		return
	}

	e := metricsRouter(a.recorder)
	addr := fmt.Sprintf(":%d", a.cfg.Metrics.Port)

	go func() {
		a.logger.Infow("Serving metrics", "address", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorw("Metrics server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			a.logger.Warnw("Metrics server shutdown failed", "error", err)
		}
	}()
}

func (a *app) close() {
	_ = a.logger.Close()
}

// settle waits for op, bounded by the gateway timeout plus slack
func (a *app) settle(ctx context.Context, op *services.Operation) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Gateway.Timeout+5*time.Second)
	defer cancel()
	return op.Wait(ctx)
}
