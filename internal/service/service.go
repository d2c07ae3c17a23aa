// Package service assembles the simulation from a Config and runs its outer
// surfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"marketsim/db"
	"marketsim/internal/adapter/archive"
	httpadapter "marketsim/internal/adapter/http"
	metricsinmem "marketsim/internal/adapter/metrics/inmemory"
	"marketsim/internal/adapter/oracle/autopilot"
	"marketsim/internal/adapter/oracle/groq"
	gormrepo "marketsim/internal/adapter/repo/gorm"
	"marketsim/internal/adapter/repo/memory"
	sqliterepo "marketsim/internal/adapter/repo/sqlite"
	"marketsim/internal/adapter/stream"
	"marketsim/internal/app/observe"
	"marketsim/internal/app/ports"
	"marketsim/internal/app/replay"
	"marketsim/internal/app/tick"
	"marketsim/internal/config"
	"marketsim/internal/domain/clock"

	hertzserver "github.com/cloudwego/hertz/pkg/app/server"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	// Oracle replaces the provider named in the config when set.
	Oracle ports.Oracle
	Logger *slog.Logger
}

type App struct {
	Config  config.Config
	Tick    *tick.UseCase
	Observe observe.UseCase
	Replay  replay.UseCase
	Metrics *metricsinmem.Recorder
	Hub     *stream.Hub

	logger  *slog.Logger
	closers []func() error
}

type repos struct {
	worlds ports.WorldRepository
	logs   ports.LogRepository
	tx     ports.TxManager
}

// Build wires storage, oracle, metrics, stream and archive for cfg.
func Build(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = cfg.Log.NewLogger()
	}
	a := &App{Config: cfg, logger: logger}

	r, err := a.openStore(ctx, cfg.Store)
	if err != nil {
		a.Close()
		return nil, err
	}

	oracle := opts.Oracle
	if oracle == nil {
		oracle = buildOracle(cfg.Oracle, logger)
	}

	c := clock.Default()
	a.Metrics = metricsinmem.NewRecorder()
	a.Hub = stream.NewHub(logger.With("component", "stream"))
	a.closers = append(a.closers, func() error { a.Hub.Close(); return nil })

	a.Tick = &tick.UseCase{
		TxManager:   r.tx,
		Worlds:      r.worlds,
		Logs:        r.logs,
		Oracle:      oracle,
		Metrics:     a.Metrics,
		Publisher:   a.Hub,
		Clock:       c,
		DiceSeed:    cfg.Sim.Seed,
		CallTimeout: cfg.Oracle.Timeout,
		Concurrency: cfg.Oracle.Concurrency,
		Logger:      logger.With("component", "tick"),
	}
	if cfg.Archive.Dir != "" {
		w := archive.NewWriter(cfg.Archive.Dir)
		a.Tick.Archive = w
		a.closers = append(a.closers, w.Close)
	}
	a.Observe = observe.UseCase{Worlds: r.worlds, Clock: c}
	a.Replay = replay.UseCase{Logs: r.logs, Clock: c}
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.StoreConfig) (repos, error) {
	switch cfg.Driver {
	case config.StorePostgres:
		gdb, err := gormrepo.OpenPostgres(cfg.DSN)
		if err != nil {
			return repos{}, err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		if cfg.MigrationsDir != "" {
			err = gormrepo.ApplyMigrations(ctx, gdb, cfg.MigrationsDir)
		} else {
			err = gormrepo.ApplyMigrationsFS(ctx, gdb, db.Migrations())
		}
		if err != nil {
			return repos{}, fmt.Errorf("migrate postgres: %w", err)
		}
		return repos{worlds: gormrepo.NewWorldRepo(gdb), logs: gormrepo.NewLogRepo(gdb), tx: gormrepo.NewTxManager(gdb)}, nil
	case config.StoreSQLite:
		sdb, err := sqliterepo.Open(cfg.DSN)
		if err != nil {
			return repos{}, fmt.Errorf("open sqlite %s: %w", cfg.DSN, err)
		}
		a.closers = append(a.closers, sdb.Close)
		return repos{worlds: sqliterepo.NewWorldRepo(sdb), logs: sqliterepo.NewLogRepo(sdb), tx: sqliterepo.NewTxManager(sdb)}, nil
	default:
		store := memory.NewStore()
		return repos{worlds: memory.NewWorldRepo(store), logs: memory.NewLogRepo(store), tx: memory.NewTxManager(store)}, nil
	}
}

func buildOracle(cfg config.OracleConfig, logger *slog.Logger) ports.Oracle {
	if cfg.Provider != config.OracleGroq {
		return autopilot.New()
	}
	client := groq.NewClient(groq.Options{
		BaseURL:      cfg.BaseURL,
		APIKeys:      cfg.APIKeys,
		MaxPerMinute: cfg.MaxPerMinute,
		HTTPClient:   &http.Client{Timeout: cfg.Timeout},
	})
	if !client.Enabled() {
		logger.Warn("groq provider has no usable keys, using autopilot")
		return autopilot.New()
	}
	return groq.New(client, groq.Models{Agent: cfg.AgentModel, CEO: cfg.CEOModel})
}

// Seed loads the configured scenario and stores it unless a world already exists.
func (a *App) Seed(ctx context.Context) error {
	s, err := config.LoadScenario(a.Config.Sim.Scenario)
	if err != nil {
		return err
	}
	w, err := s.World()
	if err != nil {
		return err
	}
	_, err = a.Tick.Bootstrap(ctx, w)
	return err
}

func (a *App) Handler() httpadapter.Handler {
	return httpadapter.Handler{
		TickUC:    a.Tick,
		ObserveUC: a.Observe,
		ReplayUC:  a.Replay,
		KPI:       a.Metrics,
	}
}

// Serve runs the HTTP API, the observer stream and the auto-tick loop until ctx
// is done.
func (a *App) Serve(ctx context.Context) error {
	h := hertzserver.Default(hertzserver.WithHostPorts(a.Config.HTTP.Addr))
	a.Handler().RegisterRoutes(h)

	mux := http.NewServeMux()
	mux.Handle("/ws", a.Hub.Handler())
	streamSrv := &http.Server{Addr: a.Config.Stream.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http api listening", "addr", a.Config.HTTP.Addr)
		if err := h.Run(); err != nil && gctx.Err() == nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		a.logger.Info("observer stream listening", "addr", a.Config.Stream.Addr, "path", "/ws")
		if err := streamSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("stream server: %w", err)
		}
		return nil
	})
	if a.Config.Sim.AutoTick > 0 {
		g.Go(func() error {
			a.AutoTick(gctx, a.Config.Sim.AutoTick)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.Hub.Close()
		return errors.Join(h.Shutdown(sctx), streamSrv.Shutdown(sctx))
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// AutoTick advances the world every interval until ctx is done. Failed ticks are
// logged and the loop keeps going.
func (a *App) AutoTick(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	a.logger.Info("auto tick started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := a.Tick.Execute(ctx); err != nil {
				if errors.Is(err, tick.ErrTickInProgress) {
					a.logger.Debug("auto tick skipped", "reason", "tick in progress")
					continue
				}
				if ctx.Err() != nil {
					return
				}
				a.logger.Error("auto tick failed", "err", err)
			}
		}
	}
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
