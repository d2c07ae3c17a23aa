package memory

import (
	"context"
	"errors"
	"testing"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

func TestWorldRepo_OptimisticVersion(t *testing.T) {
	store := NewStore()
	repo := NewWorldRepo(store)
	ctx := context.Background()

	if _, err := repo.Load(ctx); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before seeding, got %v", err)
	}
	w := economy.World{Day: 1, Time: 8}
	if err := repo.Save(ctx, w, 0); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected seeding without -1 to conflict, got %v", err)
	}
	if err := repo.Save(ctx, w, -1); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	w.Time, w.Version = 9, 1
	if err := repo.Save(ctx, w, 0); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if err := repo.Save(ctx, w, 0); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected stale version to conflict, got %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil || got.Time != 9 || got.Version != 1 {
		t.Fatalf("unexpected load %+v err=%v", got, err)
	}
}

func TestLogRepo_FiltersAndLimit(t *testing.T) {
	store := NewStore()
	logs := NewLogRepo(store)
	tx := NewTxManager(store)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		return logs.Append(txCtx, []economy.LogEntry{
			{Seq: 1, Day: 1, Time: 9, ActorName: "Alex", Message: "a", Kind: economy.LogThought},
			{Seq: 2, Day: 1, Time: 9, ActorName: "Bella", Message: "b", Kind: economy.LogAction},
			{Seq: 3, Day: 1, Time: 10, ActorName: "Alex", Message: "c", Kind: economy.LogAction},
		})
	})
	if err != nil {
		t.Fatalf("append error: %v", err)
	}
	got, _ := logs.List(ctx, ports.LogQuery{Actor: "Alex"})
	if len(got) != 2 || got[0].Seq != 1 || got[1].Seq != 3 {
		t.Fatalf("unexpected actor filter %+v", got)
	}
	got, _ = logs.List(ctx, ports.LogQuery{Limit: 2})
	if len(got) != 2 || got[0].Seq != 2 {
		t.Fatalf("expected newest two in seq order, got %+v", got)
	}
	got, _ = logs.List(ctx, ports.LogQuery{Day: 1, Hour: 9, ByHour: true, Kinds: []economy.LogKind{economy.LogAction}})
	if len(got) != 1 || got[0].Message != "b" {
		t.Fatalf("unexpected hour/kind filter %+v", got)
	}
}

func TestTxManager_ReentrantRepositories(t *testing.T) {
	store := NewStore()
	tx := NewTxManager(store)
	worlds := NewWorldRepo(store)
	err := tx.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := worlds.Save(ctx, economy.World{Day: 1}, -1); err != nil {
			return err
		}
		_, err := worlds.Load(ctx)
		return err
	})
	if err != nil {
		t.Fatalf("expected repositories usable inside tx, got %v", err)
	}
}
