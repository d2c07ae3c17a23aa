package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"marketsim/internal/app/ports"
	"marketsim/internal/config"
	"marketsim/internal/service"
)

type app struct {
	configPath string
	cfg        config.Config
	logger     *slog.Logger
}

func (a *app) load() error {
	cfg, err := config.Load(viper.New(), a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Log.NewLogger()
	return nil
}

// build assembles and seeds a simulation. A non-nil oracle overrides the configured provider.
func (a *app) build(ctx context.Context, cfg config.Config, oracle ports.Oracle) (*service.App, error) {
	sim, err := service.Build(ctx, cfg, service.Options{Oracle: oracle, Logger: a.logger})
	if err != nil {
		return nil, fmt.Errorf("wire simulation: %w", err)
	}
	if err := sim.Seed(ctx); err != nil {
		sim.Close()
		return nil, fmt.Errorf("seed world: %w", err)
	}
	return sim, nil
}
