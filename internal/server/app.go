// Package server wires configuration, storage, object storage, the token
// blacklist and the HTTP API into a runnable application and handles
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/videohub/internal/filex"
	"github.com/dmitrijs2005/videohub/internal/logging"
	"github.com/dmitrijs2005/videohub/internal/server/api"
	"github.com/dmitrijs2005/videohub/internal/server/config"
	"github.com/dmitrijs2005/videohub/internal/server/media"
	"github.com/dmitrijs2005/videohub/internal/server/purger"
	"github.com/dmitrijs2005/videohub/internal/server/repositories/blacklist"
	"github.com/dmitrijs2005/videohub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/videohub/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	blacklist blacklist.Repository
	router    *api.Router
	closers   []io.Closer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.Env, os.Stdout)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	app := &App{config: c, logger: logger, db: db, closers: []io.Closer{db}}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	bl, closer, err := newBlacklist(ctx, c, db, manager)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.blacklist = bl
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	uploadDir, err := filex.EnsureDir(c.UploadDir)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	c.UploadDir = uploadDir

	store, err := media.NewS3Store(ctx, c)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("object storage: %w", err)
	}

	us := services.NewUserService(db, manager, bl, store, logger, c)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.router = api.NewRouter(c, api.NewHandler(us, logger, c), logger, reg, reg)

	return app, nil
}

// newBlacklist picks the blacklist backend. The returned closer is non-nil
// when the backend owns a connection of its own.
func newBlacklist(ctx context.Context, c *config.Config, db *sql.DB, m repomanager.RepositoryManager) (blacklist.Repository, io.Closer, error) {
	switch c.BlacklistBackend {
	case config.BlacklistBackendRedis:
		client, err := blacklist.NewRedisClient(ctx, c.RedisAddr, c.RedisPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		return blacklist.NewRedisRepository(client), client, nil
	case config.BlacklistBackendPostgres, "":
		return m.Blacklist(db), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown blacklist backend %q", c.BlacklistBackend)
	}
}

func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
	if app.router != nil {
		app.router.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP and purges the blacklist until a signal arrives or the
// server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.Close()

	app.logger.Info(ctx, "starting app", "env", app.config.Env, "addr", app.config.HTTPAddr)

	app.initSignalHandler(cancelFunc)

	stopPurger := purger.Start(ctx, app.logger, app.blacklist, app.config.BlacklistPurgeInterval)
	defer stopPurger()

	var (
		wg     sync.WaitGroup
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		s := api.NewServer(app.config.HTTPAddr, app.router, app.logger)
		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server stopped", "error", err)
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()
	app.logger.Info(ctx, "app stopped")
	return runErr
}
