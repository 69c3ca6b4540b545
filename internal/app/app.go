package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"epipulse/internal/config"
	"epipulse/internal/infrastructure"
	customMiddleware "epipulse/internal/middleware"
	"epipulse/internal/pipeline"
	"epipulse/internal/services"
	handlers "epipulse/internal/transport/http"
	ws "epipulse/internal/websocket"
)

// AppName identifies the service in startup logs.
const AppName = "EpiPulse - COVID-19 statistics dashboard"

// Application represents the main application container.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	WebSocketHub  *ws.Hub
	DataService   *services.DataService
	HealthService *services.HealthService
	Logger        *slog.Logger
}

// NewApplication creates a new application instance with dependency
// injection: configuration, logger, websocket hub, pipeline-backed data
// service, router and HTTP server.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", services.Version))

	paths := cfg.GetPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services.
func (a *Application) initializeServices() error {
	hub := ws.NewHub(a.Logger)
	hub.Start()
	a.WebSocketHub = hub

	dataService, err := services.NewDataService(context.Background(), a.Config, a.Logger, hub)
	if err != nil {
		var unavailable *pipeline.InputUnavailableError
		if stderrors.As(err, &unavailable) {
			// Serving mode keeps running with an empty result set; the
			// condition is reported, not fatal.
			a.Logger.Warn("Source dataset unavailable, serving empty result set",
				slog.String("path", unavailable.Path),
				slog.String("error", unavailable.Error()))
		} else {
			return err
		}
	}
	a.DataService = dataService
	a.HealthService = services.NewHealthService(dataService)

	return nil
}

// setupRouter configures the chi router and all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.CORS(a.Config.Security))
	r.Use(customMiddleware.RateLimit(a.Config.Security.RateLimit))
	r.Use(chimiddleware.Timeout(a.Config.Server.ReadTimeout))

	dataHandler := handlers.NewDataHandler(a.DataService, a.Logger)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	metricsHandler := handlers.NewMetricsHandler()
	wsHandler := handlers.NewWebSocketHandler(a.WebSocketHub, a.Config.WebSocket, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/data", func(r chi.Router) {
			r.Get("/entities", dataHandler.Entities)
			r.Get("/series", dataHandler.Series)
			r.Get("/summary", dataHandler.Summary)
			r.Post("/reload", dataHandler.Reload)
		})
		r.Route("/health", func(r chi.Router) {
			r.Get("/", healthHandler.HealthCheck)
			r.Get("/ready", healthHandler.ReadinessCheck)
			r.Get("/live", healthHandler.LivenessCheck)
		})
		r.Get("/version", healthHandler.Version)
	})
	r.Get("/metrics", metricsHandler.Metrics)
	r.Get("/ws", wsHandler.Handle)

	a.Router = r
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("HTTP server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info("Shutdown signal received", slog.String("signal", sig.String()))
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the server and the websocket hub.
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.WebSocketHub.Stop()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.Logger.Info("Server stopped")
	infrastructure.CloseLogFile()

	// Give in-flight log writes a moment to flush.
	time.Sleep(50 * time.Millisecond)

	return nil
}
