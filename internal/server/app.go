// Package server wires the backend: Postgres repositories, services, the
// JSON API over HTTP and the gRPC health endpoint, with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/dvi/internal/logging"
	"github.com/dmitrijs2005/dvi/internal/server/config"
	"github.com/dmitrijs2005/dvi/internal/server/httpapi"
	"github.com/dmitrijs2005/dvi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dvi/internal/server/services"

	gs "github.com/dmitrijs2005/dvi/internal/server/grpc"
)

const (
	shutdownTimeout     = 5 * time.Second
	healthCheckInterval = 5 * time.Second
	healthCheckTimeout  = 2 * time.Second
)

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	auth    *services.AuthService
	handler http.Handler
}

// NewApp opens the database, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return newApp(c, logger, db, rm), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) *App {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewDBStatsCollector(db, "dvi"))

	auth := services.NewAuthService(db, rm, c)
	h := httpapi.NewHandler(
		auth,
		services.NewInspectionService(db, rm),
		services.NewPhotoService(c),
		services.NewDirectoryService(db, rm),
		logger.With("module", "http_api"),
		reg,
	)

	return &App{config: c, logger: logger, db: db, auth: auth, handler: h.Routes()}
}

// Auth exposes mechanic registration to admin tooling.
func (app *App) Auth() *services.AuthService {
	return app.auth
}

// Close releases the database connection pool.
func (app *App) Close() error {
	return app.db.Close()
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) pingDB(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return app.db.PingContext(ctx)
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.pingDB, healthCheckInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown error", "err", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the servers fails. Both servers are stopped before it returns.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "err", err)
	}
	app.logger.Info(ctx, "App stopped")
}
