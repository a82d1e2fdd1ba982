package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"electionpulse/internal/analytics"
	"electionpulse/internal/config"
	"electionpulse/internal/dataset"
	"electionpulse/internal/errors"
	"electionpulse/internal/infrastructure"
	custommw "electionpulse/internal/middleware"
	"electionpulse/internal/services"
	handlers "electionpulse/internal/transport/http"
)

// Version is the application version, overridable at build time.
var Version = "dev"

// Application is the assembled service container.
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Logger    *slog.Logger
	Metrics   *infrastructure.MetricsProvider
	Dashboard *services.DashboardService
}

// NewApplication loads configuration and wires every component.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.String("dataset_source", cfg.Dataset.Source))

	metrics, err := infrastructure.InitializeMetrics(Version, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	pipelineMetrics, err := infrastructure.NewPipelineMetrics(metrics.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	dashboard := services.NewDashboardService(
		newLoader(cfg, logger),
		analytics.SnapshotOptions{TopN: cfg.Dataset.TopN},
		logger,
		pipelineMetrics,
	)

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics,
		Dashboard: dashboard,
	}
	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// setupRouter assembles the middleware chain and routes.
func (a *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.Timeout(a.Config.Server.RequestTimeout, a.Logger))

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := errors.NewErrorHandler(a.Logger, false)
	dashboardHandler := handlers.NewDashboardHandler(a.Dashboard, a.Logger, errorHandler)
	healthHandler := handlers.NewHealthHandler(a.Dashboard, Version)

	r.Mount("/api", dashboardHandler.Routes())
	r.Method(http.MethodGet, "/healthz", healthHandler)
	r.Handle("/metrics", a.Metrics.Handler())

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	return r
}

// Run starts the server, optionally preloading the dataset, and blocks
// until shutdown.
func (a *Application) Run(ctx context.Context) error {
	if a.Config.Dataset.LoadOnStart {
		loadCtx, cancel := context.WithTimeout(ctx, a.Config.Dataset.FetchTimeout)
		if err := a.Dashboard.Load(loadCtx); err != nil {
			// The API still comes up; queries answer 503 until a reload
			// succeeds.
			a.Logger.Warn("initial dataset load failed",
				slog.String("error", err.Error()))
		}
		cancel()
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-sigCh:
		a.Logger.Info("shutting down", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.Info("shutting down", slog.String("reason", "context cancelled"))
	}

	return a.Shutdown()
}

// Shutdown stops the server and flushes telemetry.
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := a.Metrics.Shutdown(ctx); err != nil {
		a.Logger.Warn("metrics shutdown failed", slog.String("error", err.Error()))
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("log file close failed: %w", err)
	}

	a.Logger.Info("shutdown complete")
	return nil
}

// newLoader builds the dataset loader from configuration.
func newLoader(cfg *config.Config, logger *slog.Logger) *dataset.Loader {
	return dataset.NewLoader(
		cfg.Dataset.Source,
		dataset.Format(cfg.Dataset.Format),
		dataset.WithCache(dataset.NewMemoryCache(cfg.Dataset.CacheTTL)),
		dataset.WithHTTPClient(&http.Client{Timeout: cfg.Dataset.FetchTimeout}),
		dataset.WithLogger(logger),
	)
}
