package tick

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/clock"
	"marketsim/internal/domain/economy"
)

var ErrTickInProgress = errors.New("tick in progress")

const (
	defaultCallTimeout = 20 * time.Second
	defaultConcurrency = 4
)

// UseCase advances the shared world by one hour. Only one tick runs at a time; a
// second caller gets ErrTickInProgress instead of queueing.
type UseCase struct {
	TxManager   ports.TxManager
	Worlds      ports.WorldRepository
	Logs        ports.LogRepository
	Oracle      ports.Oracle
	Metrics     ports.TickMetrics
	Publisher   ports.TickPublisher
	Archive     ports.TickArchive
	Clock       clock.Clock
	IDs         economy.IDGenerator
	DiceSeed    int64
	CallTimeout time.Duration
	Concurrency int
	Logger      *slog.Logger

	running atomic.Bool
}

func (u *UseCase) Execute(ctx context.Context) (Response, error) {
	if !u.running.CompareAndSwap(false, true) {
		return Response{}, ErrTickInProgress
	}
	defer u.running.Store(false)

	w, err := u.Worlds.Load(ctx)
	if err != nil {
		u.recordFailure()
		return Response{}, fmt.Errorf("load world: %w", err)
	}
	expected := w.Version

	tk := economy.Begin(w, u.envFor(w))
	var decisions economy.Decisions
	if tk.CEOsAct() {
		decisions.Companies, err = u.gatherCompanies(ctx, tk)
		if err != nil {
			return Response{}, err
		}
		tk.ApplyCompanies(decisions.Companies)
	} else {
		decisions.Observations, err = u.gatherObservations(ctx, tk)
		if err != nil {
			return Response{}, err
		}
		tk.ApplyObservations(decisions.Observations)
	}
	tk.Decay()
	plans := tk.PlanAgents()
	decisions.Agents, err = u.gatherAgents(ctx, tk, plans)
	if err != nil {
		return Response{}, err
	}
	tk.ApplyAgents(plans, decisions.Agents)
	next, outcome := tk.Finish()

	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.Worlds.Save(txCtx, next, expected); err != nil {
			return err
		}
		return u.Logs.Append(txCtx, outcome.Entries)
	})
	if err != nil {
		if errors.Is(err, ports.ErrConflict) {
			if u.Metrics != nil {
				u.Metrics.RecordConflict()
			}
		} else {
			u.recordFailure()
		}
		return Response{}, fmt.Errorf("commit tick: %w", err)
	}
	if u.Metrics != nil {
		u.Metrics.RecordTick(outcome)
	}
	u.afterCommit(ctx, ports.TickRecord{
		Day:       outcome.Day,
		Hour:      outcome.Hour,
		Seed:      u.DiceSeed,
		Version:   next.Version,
		Decisions: decisions,
		Entries:   outcome.Entries,
		Degraded:  outcome.Degraded,
	}, outcome)

	u.logger().Info("tick committed",
		"day", outcome.Day,
		"hour", outcome.Hour,
		"ceos_acted", outcome.CEOsActed,
		"entries", len(outcome.Entries),
		"degraded", len(outcome.Degraded),
		"version", next.Version,
	)
	return Response{Outcome: outcome, Version: next.Version}, nil
}

// Bootstrap stores w when the repository holds no world yet. An existing world wins.
func (u *UseCase) Bootstrap(ctx context.Context, w economy.World) (economy.World, error) {
	current, err := u.Worlds.Load(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return economy.World{}, fmt.Errorf("load world: %w", err)
	}
	w.Normalize()
	if err := w.Validate(); err != nil {
		return economy.World{}, err
	}
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return u.Worlds.Save(txCtx, w, -1)
	})
	if err != nil {
		return economy.World{}, fmt.Errorf("seed world: %w", err)
	}
	u.logger().Info("world seeded", "agents", len(w.Agents), "companies", len(w.Companies), "products", len(w.Market))
	return w, nil
}

// EnvFor is the resolution environment of the tick that starts from w. Replays
// rebuild the same dice from the same seed.
func EnvFor(w economy.World, c clock.Clock, seed int64, ids economy.IDGenerator) economy.Env {
	return economy.Env{Clock: c, Dice: economy.TickDice(seed, w.Day, w.Time), IDs: ids}
}

func (u *UseCase) envFor(w economy.World) economy.Env {
	ids := u.IDs
	if ids == nil {
		ids = economy.UUIDs{}
	}
	return EnvFor(w, u.Clock, u.DiceSeed, ids)
}

func (u *UseCase) afterCommit(ctx context.Context, rec ports.TickRecord, outcome economy.TickOutcome) {
	if u.Publisher != nil {
		if err := u.Publisher.PublishTick(ctx, outcome); err != nil {
			u.logger().Warn("publish tick failed", "day", rec.Day, "hour", rec.Hour, "err", err)
		}
	}
	if u.Archive != nil {
		if err := u.Archive.AppendTick(ctx, rec); err != nil {
			u.logger().Warn("archive tick failed", "day", rec.Day, "hour", rec.Hour, "err", err)
		}
	}
}

func (u *UseCase) recordFailure() {
	if u.Metrics != nil {
		u.Metrics.RecordFailure()
	}
}

func (u *UseCase) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}
