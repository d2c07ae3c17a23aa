package gormrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"

	"gorm.io/gorm"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("MARKETSIM_DB_DSN")
	if dsn == "" {
		t.Skip("MARKETSIM_DB_DSN is required for integration test")
	}
	return dsn
}

func openMigrated(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenPostgres(requireDSN(t))
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "db", "migrations")
	if err := ApplyMigrations(context.Background(), db, dir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	_ = db.Exec("DELETE FROM world_snapshots").Error
	_ = db.Exec("DELETE FROM sim_log_entries").Error
	return db
}

func TestWorldRepo_RoundTripAndVersion(t *testing.T) {
	db := openMigrated(t)
	repo := NewWorldRepo(db)
	ctx := context.Background()

	if _, err := repo.Load(ctx); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	w := economy.World{
		Day:  1,
		Time: 8,
		Companies: []economy.Company{{ID: "comp_1", Name: "FastBite Inc", CEOName: "Sarah Chen", Funds: 1000, Reputation: 40}},
		Market:    []economy.Product{{ID: "prod_1", CompanyID: "comp_1", Name: "Insta-Oats", ItemType: economy.ItemFood, Price: 5, Quality: 20, Ratings: []int{7}}},
		Agents: []economy.Agent{{ID: "1", Name: "Alex", Location: economy.LocationHome, Vitals: economy.Vitals{Hunger: 30, Energy: 80, Money: 1200},
			Memory: economy.Memory{BrandOpinions: map[string]int{"comp_1": 4}}}},
	}
	if err := repo.Save(ctx, w, -1); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := repo.Save(ctx, w, -1); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected second seed to conflict, got %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Agents[0].Memory.BrandOpinions["comp_1"] != 4 || got.Market[0].Ratings[0] != 7 {
		t.Fatalf("snapshot lost state: %+v", got)
	}

	got.Time, got.Version = 9, 1
	if err := repo.Save(ctx, got, 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.Save(ctx, got, 0); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected stale update to conflict, got %v", err)
	}
}

func TestLogRepo_AppendAndQuery(t *testing.T) {
	db := openMigrated(t)
	logs := NewLogRepo(db)
	tx := NewTxManager(db)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		return logs.Append(txCtx, []economy.LogEntry{
			{Seq: 1, Day: 1, Time: 9, ActorName: "System", Message: "Hour 9:00", Kind: economy.LogSystem},
			{Seq: 2, Day: 1, Time: 9, ActorName: "Alex", Message: "snack", Kind: economy.LogThought},
			{Seq: 3, Day: 1, Time: 9, ActorName: "Alex", Message: "Bought Insta-Oats for $5.", Kind: economy.LogAction},
		})
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := logs.List(ctx, ports.LogQuery{Kinds: []economy.LogKind{economy.LogThought, economy.LogAction}, Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Seq != 2 || got[1].Seq != 3 {
		t.Fatalf("unexpected entries %+v", got)
	}
	got, _ = logs.List(ctx, ports.LogQuery{Day: 1, Hour: 9, ByHour: true, Limit: 1})
	if len(got) != 1 || got[0].Seq != 3 {
		t.Fatalf("expected newest entry of the hour, got %+v", got)
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := openMigrated(t)
	worlds := NewWorldRepo(db)
	tx := NewTxManager(db)
	boom := errors.New("boom")

	err := tx.RunInTx(context.Background(), func(txCtx context.Context) error {
		if err := worlds.Save(txCtx, economy.World{Day: 1}, -1); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := worlds.Load(context.Background()); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}
