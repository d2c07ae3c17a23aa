package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"marketsim/internal/config"
	"marketsim/internal/service"
)

func main() {
	configPath := flag.String("config", os.Getenv("MARKETSIM_CONFIG"), "path to a config file (yaml, toml or json)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(viper.New(), configPath)
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := service.Build(ctx, cfg, service.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Seed(ctx); err != nil {
		return err
	}
	logger.Info("marketsim server starting",
		"store", cfg.Store.Driver,
		"oracle", cfg.Oracle.Provider,
		"scenario", cfg.Sim.Scenario,
		"auto_tick", cfg.Sim.AutoTick,
	)
	return app.Serve(ctx)
}
