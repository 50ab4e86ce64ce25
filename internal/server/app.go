// Package server wires the ledger engine to its journal, archive, metrics
// and gRPC transport, and runs them until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/workcredits/internal/ledger"
	"github.com/dmitrijs2005/workcredits/internal/logging"
	"github.com/dmitrijs2005/workcredits/internal/server/archive"
	"github.com/dmitrijs2005/workcredits/internal/server/config"
	"github.com/dmitrijs2005/workcredits/internal/server/journal"
	"github.com/dmitrijs2005/workcredits/internal/server/metrics"
	"github.com/dmitrijs2005/workcredits/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/workcredits/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/workcredits/internal/server/grpc"
)

const shutdownTimeout = 5 * time.Second

// Seams for tests.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	collector *metrics.Collector
	service   *services.LedgerService
}

func NewApp(ctx context.Context, c *config.Config, opts ...Option) (*App, error) {
	app := &App{config: c}
	for _, o := range opts {
		o(app)
	}
	if app.logger == nil {
		app.logger = logging.New(os.Stdout, c.LogLevel, c.LogFormat)
	}
	app.collector = metrics.NewCollector("")

	engineOpts := []ledger.Option{
		ledger.WithLogger(app.logger.With("module", "ledger")),
		ledger.WithRecorder(app.collector),
	}

	var (
		engine *ledger.Engine
		err    error
	)
	if c.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database configured, ledger is kept in memory only")
		engine = ledger.New(engineOpts...)
	} else {
		engine, err = app.restore(ctx, engineOpts)
		if err != nil {
			app.Close()
			return nil, err
		}
	}

	admins := make([]ledger.Principal, 0, len(c.BootstrapAdmins))
	for _, p := range c.BootstrapAdmins {
		admins = append(admins, ledger.Principal(p))
	}
	if err := engine.SeedAdmins(ctx, admins...); err != nil {
		app.Close()
		return nil, fmt.Errorf("seed admins: %w", err)
	}

	app.collector.Seed(engine.Stats(ctx))
	app.service = services.NewLedgerService(engine, archive.NewExporter(c), app.logger)
	return app, nil
}

type Option func(*App)

func WithLogger(l logging.Logger) Option {
	return func(a *App) { a.logger = l }
}

func (app *App) restore(ctx context.Context, engineOpts []ledger.Option) (*ledger.Engine, error) {
	db, err := openDB(app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db = db

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	engine, err := ledger.Restore(ctx, journal.NewPostgresJournal(db, rm), engineOpts...)
	if err != nil {
		return nil, err
	}
	if err := engine.Audit(ctx); err != nil {
		return nil, err
	}
	return engine, nil
}

// Close releases the database handle, if any.
func (app *App) Close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close", "error", err)
		}
	}
}

// Run serves gRPC and metrics until ctx is cancelled, a termination
// signal arrives or one of the servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "grpc", app.config.EndpointAddrGRPC, "metrics", app.config.MetricsAddr)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.service, app.config.SecretKey,
			gs.WithObserver(app.collector))
		return s.Run(ctx)
	})

	if app.config.MetricsAddr != "" {
		g.Go(func() error {
			return app.serveMetrics(ctx)
		})
	}

	err := g.Wait()
	app.logger.Info(context.Background(), "app stopped")
	return err
}

func (app *App) serveMetrics(ctx context.Context) error {
	lis, err := net.Listen("tcp", app.config.MetricsAddr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", app.collector.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "metrics server listening", "addr", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
