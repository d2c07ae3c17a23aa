package replay

import (
	"context"
	"errors"
	"testing"

	"marketsim/internal/app/ports"
	"marketsim/internal/app/tick"
	"marketsim/internal/domain/clock"
	"marketsim/internal/domain/economy"
)

type fakeLogs struct {
	entries []economy.LogEntry
	last    ports.LogQuery
}

func (r *fakeLogs) Append(_ context.Context, entries []economy.LogEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeLogs) List(_ context.Context, q ports.LogQuery) ([]economy.LogEntry, error) {
	r.last = q
	out := []economy.LogEntry{}
	for _, e := range r.entries {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[len(out)-q.Limit:]
	}
	return out, nil
}

func seed() economy.World {
	w := economy.World{
		Day:  1,
		Time: 8,
		Companies: []economy.Company{
			{ID: "comp_1", Name: "FastBite Inc", CEOName: "Sarah Chen", Funds: 1000, Reputation: 40},
		},
		Market: []economy.Product{
			{ID: "prod_1", CompanyID: "comp_1", Name: "Insta-Oats", ItemType: economy.ItemFood, Price: 5, Quality: 20, Effect: economy.Effect{Hunger: -20}},
		},
		Agents: []economy.Agent{
			{ID: "1", Name: "Alex", Vitals: economy.Vitals{Hunger: 30, Energy: 80, Money: 100}, Location: economy.LocationSupermarket, ThinkFrequency: 1, Spawned: true},
		},
	}
	w.Normalize()
	return w
}

func record(t *testing.T) []ports.TickRecord {
	t.Helper()
	w := seed()
	script := []economy.Decisions{
		{Agents: map[string]economy.AgentDecision{"1": {ThoughtProcess: "snack", Action: economy.ActionBuy, Target: "Insta-Oats"}}},
		{Agents: map[string]economy.AgentDecision{"1": {ThoughtProcess: "eat", Action: economy.ActionConsume, Target: "Insta-Oats"}}},
	}
	recs := []ports.TickRecord{}
	for _, d := range script {
		env := tick.EnvFor(w, clock.Default(), 42, &economy.SequenceIDs{})
		next, out := economy.Advance(w, d, env)
		recs = append(recs, ports.TickRecord{Day: out.Day, Hour: out.Hour, Seed: 42, Version: next.Version, Decisions: d, Entries: out.Entries})
		w = next
	}
	return recs
}

func TestUseCase_ReplayReproducesArchive(t *testing.T) {
	recs := record(t)
	out, err := UseCase{}.Replay(context.Background(), ReplayRequest{Seed: seed(), Records: recs})
	if err != nil {
		t.Fatalf("Replay error: %v", err)
	}
	if out.Ticks != 2 || len(out.Divergences) != 0 {
		t.Fatalf("expected clean replay of 2 ticks, got %+v", out.Divergences)
	}
	if out.Final.Time != 10 || out.Final.Version != 2 {
		t.Fatalf("unexpected final world day=%d time=%d", out.Final.Day, out.Final.Time)
	}
	alex := out.Final.Agents[0]
	if alex.Vitals.Money != 95 || len(alex.Inventory) != 0 || len(out.Final.Market[0].Ratings) != 1 {
		t.Fatalf("expected buy then consume replayed, got %+v", alex)
	}
}

func TestUseCase_ReplayReportsDivergence(t *testing.T) {
	recs := record(t)
	recs[1].Entries[len(recs[1].Entries)-1].Message = "Ate something else."
	out, err := UseCase{}.Replay(context.Background(), ReplayRequest{Seed: seed(), Records: recs})
	if err != nil {
		t.Fatalf("Replay error: %v", err)
	}
	if len(out.Divergences) != 1 {
		t.Fatalf("expected one divergence, got %+v", out.Divergences)
	}
	d := out.Divergences[0]
	if d.Hour != 10 || d.Want != "Alex: Ate something else." {
		t.Fatalf("unexpected divergence %+v", d)
	}
}

func TestUseCase_ReplayRejectsGap(t *testing.T) {
	recs := record(t)
	_, err := UseCase{}.Replay(context.Background(), ReplayRequest{Seed: seed(), Records: recs[1:]})
	if !errors.Is(err, ErrOutOfSequence) {
		t.Fatalf("expected ErrOutOfSequence, got %v", err)
	}
}

func TestUseCase_ReplayHonorsMaxTicks(t *testing.T) {
	out, err := UseCase{}.Replay(context.Background(), ReplayRequest{Seed: seed(), Records: record(t), MaxTicks: 1})
	if err != nil {
		t.Fatalf("Replay error: %v", err)
	}
	if out.Ticks != 1 || out.Final.Time != 9 {
		t.Fatalf("expected a single replayed tick, got %d", out.Ticks)
	}
}

func TestUseCase_LogFilters(t *testing.T) {
	logs := &fakeLogs{entries: []economy.LogEntry{
		{Seq: 1, Day: 1, Time: 9, ActorName: "System", Message: "Hour 9:00", Kind: economy.LogSystem},
		{Seq: 2, Day: 1, Time: 9, ActorName: "Alex", Message: "snack", Kind: economy.LogThought},
		{Seq: 3, Day: 1, Time: 9, ActorName: "Alex", Message: "Bought Insta-Oats for $5.", Kind: economy.LogAction},
		{Seq: 4, Day: 1, Time: 10, ActorName: "Alex", Message: "eat", Kind: economy.LogThought},
	}}
	uc := UseCase{Logs: logs}

	out, err := uc.Log(context.Background(), LogRequest{Actor: "Alex", Kind: "THOUGHT"})
	if err != nil {
		t.Fatalf("Log error: %v", err)
	}
	if len(out.Entries) != 2 || logs.last.Limit != defaultLogLimit {
		t.Fatalf("unexpected entries %+v limit %d", out.Entries, logs.last.Limit)
	}

	hour := 9
	out, err = uc.Log(context.Background(), LogRequest{Day: 1, Hour: &hour, Limit: 2})
	if err != nil {
		t.Fatalf("Log error: %v", err)
	}
	if len(out.Entries) != 2 || out.Entries[0].Seq != 2 {
		t.Fatalf("expected newest two entries of 9:00, got %+v", out.Entries)
	}

	if _, err := uc.Log(context.Background(), LogRequest{Kind: "gossip"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for unknown kind, got %v", err)
	}
	if _, err := uc.Log(context.Background(), LogRequest{Hour: &hour}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for hour without day, got %v", err)
	}
}
