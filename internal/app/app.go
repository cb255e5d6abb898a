package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"krxcli/internal/config"
	"krxcli/internal/directory"
	apierrors "krxcli/internal/errors"
	"krxcli/internal/infrastructure"
	"krxcli/internal/marketdata"
	customMiddleware "krxcli/internal/middleware"
	"krxcli/internal/news"
	"krxcli/internal/services"
	transport "krxcli/internal/transport/http"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Application holds all application dependencies and the HTTP server.
type Application struct {
	Config     *config.Config
	Logger     *slog.Logger
	Router     chi.Router
	Server     *http.Server
	FrontendFS fs.FS

	quoteService  *services.QuoteService
	healthService *services.HealthService
	metrics       *customMiddleware.HTTPMetrics
}

// NewApplication creates and wires the application.
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := &Application{
		Config:     cfg,
		Logger:     logger,
		FrontendFS: frontendFS,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices wires the pipeline components.
func (a *Application) initializeServices() {
	loader := directory.NewLoader(
		a.Config.Directory.URL,
		a.Config.Directory.CacheTTL,
		a.Config.Directory.Timeout,
		a.Logger,
	)

	prices := marketdata.NewClient(
		a.Config.MarketData.BaseURL,
		a.Config.MarketData.Timeout,
		a.Logger,
	)

	headlines := news.NewClient(
		a.Config.News.BaseURL,
		a.Config.News.Timeout,
		a.Config.News.CacheTTL,
		a.Logger,
	)

	a.quoteService = services.NewQuoteService(loader, prices, headlines, a.Logger)
	a.healthService = services.NewHealthService(Version, a.Logger)
	a.metrics = customMiddleware.NewHTTPMetrics()
}

// setupRouter configures the chi router and middleware chain.
// Ordering: RequestID → RealIP → Metrics → Logger → Recoverer →
// SecurityHeaders → CORS → RateLimiter → Timeout.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// Prometheus endpoint outside the main middleware group.
	r.Handle("/metrics", a.metrics.MetricsHandler())

	r.Group(func(r chi.Router) {
		r.Use(a.metrics.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
		r.Use(customMiddleware.Compress(5))

		a.setupAPIRoutes(r)
		a.setupHTMLRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := apierrors.NewErrorHandler(a.Logger)

	companyHandler := transport.NewCompanyHandler(a.quoteService, a.Logger, errorHandler)
	quoteHandler := transport.NewQuoteHandler(a.quoteService, a.Logger, errorHandler)
	healthHandler := transport.NewHealthHandler(a.healthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/companies", companyHandler.Routes())
		r.Mount("/quotes", quoteHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/version", healthHandler.Version)
	})
}

// setupHTMLRoutes configures the embedded dashboard pages
func (a *Application) setupHTMLRoutes(r chi.Router) {
	if a.FrontendFS == nil {
		return
	}

	r.Get("/", transport.ServeDashboard(a.FrontendFS))
	r.Get("/companies", transport.ServeCompaniesPage(a.FrontendFS))

	// Static assets (css/js) served straight from the embedded FS.
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(a.FrontendFS))))
}

// createServer builds the HTTP server around the router.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the server and blocks until shutdown.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server starting",
			slog.Int("port", a.Config.Server.Port),
			slog.String("version", Version),
		)
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.Warn("failed to close log file", slog.String("error", err.Error()))
	}

	a.Logger.Info("server stopped")
	return nil
}

// Stop shuts the server down with the configured timeout. Used by tests.
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()
	return a.Server.Shutdown(shutdownCtx)
}

// WaitUntilReady polls the health endpoint until the server responds or the
// context expires. Used by tests and the startup check.
func (a *Application) WaitUntilReady(ctx context.Context) error {
	url := fmt.Sprintf("http://localhost:%d/api/health", a.Config.Server.Port)
	client := &http.Client{Timeout: time.Second}

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}
