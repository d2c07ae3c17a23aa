package tick

import (
	"context"
	"sync"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubWorlds struct {
	world   *economy.World
	saves   int
	saveErr error
}

func (r *stubWorlds) Load(context.Context) (economy.World, error) {
	if r.world == nil {
		return economy.World{}, ports.ErrNotFound
	}
	return r.world.Clone(), nil
}

func (r *stubWorlds) Save(_ context.Context, w economy.World, expectedVersion int64) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.world != nil && r.world.Version != expectedVersion {
		return ports.ErrConflict
	}
	if r.world == nil && expectedVersion != -1 {
		return ports.ErrConflict
	}
	c := w.Clone()
	r.world = &c
	r.saves++
	return nil
}

type stubLogs struct {
	entries []economy.LogEntry
}

func (r *stubLogs) Append(_ context.Context, entries []economy.LogEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *stubLogs) List(_ context.Context, q ports.LogQuery) ([]economy.LogEntry, error) {
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

type stubOracle struct {
	agent   func(ctx context.Context, in ports.AgentContext) (economy.AgentDecision, error)
	company func(ctx context.Context, in ports.CompanyContext) (economy.CeoDecision, error)
	observe func(ctx context.Context, in ports.ObservationContext) (string, error)
}

func (o stubOracle) DecideAgent(ctx context.Context, in ports.AgentContext) (economy.AgentDecision, error) {
	if o.agent == nil {
		return economy.AgentDecision{ThoughtProcess: "nothing to do", Action: economy.ActionIdle, Target: "Self"}, nil
	}
	return o.agent(ctx, in)
}

func (o stubOracle) DecideCompany(ctx context.Context, in ports.CompanyContext) (economy.CeoDecision, error) {
	if o.company == nil {
		return economy.CeoDecision{ThoughtProcess: "hold", Action: economy.CeoWait}, nil
	}
	return o.company(ctx, in)
}

func (o stubOracle) Observe(ctx context.Context, in ports.ObservationContext) (string, error) {
	if o.observe == nil {
		return "All calm.", nil
	}
	return o.observe(ctx, in)
}

type stubMetrics struct {
	mu        sync.Mutex
	ticks     int
	degraded  int
	conflicts int
	failures  int
}

func (m *stubMetrics) RecordTick(outcome economy.TickOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks++
	m.degraded += len(outcome.Degraded)
}

func (m *stubMetrics) RecordConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *stubMetrics) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

type stubSink struct {
	outcomes []economy.TickOutcome
	records  []ports.TickRecord
}

func (s *stubSink) PublishTick(_ context.Context, outcome economy.TickOutcome) error {
	s.outcomes = append(s.outcomes, outcome)
	return nil
}

func (s *stubSink) AppendTick(_ context.Context, rec ports.TickRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func seedWorld(hour int) economy.World {
	w := economy.World{
		Day:  1,
		Time: hour,
		Companies: []economy.Company{
			{ID: "comp_1", Name: "FastBite Inc", CEOName: "Sarah Chen", Funds: 1000, Reputation: 40, OpenPositions: 1, Wage: 45},
			{ID: "comp_2", Name: "Luxura Brands", CEOName: "Marcus Wright", Funds: 5000, Reputation: 80, Wage: 85},
		},
		Market: []economy.Product{
			{ID: "prod_1", CompanyID: "comp_1", Name: "Insta-Oats", ItemType: economy.ItemFood, Price: 5, Quality: 20, Cost: 2, Effect: economy.Effect{Hunger: -20}},
		},
		Agents: []economy.Agent{
			{ID: "1", Name: "Alex", Vitals: economy.Vitals{Hunger: 30, Energy: 80, Boredom: 10, Money: 1200}, Location: economy.LocationSupermarket, ThinkFrequency: 1, Spawned: true},
			{ID: "2", Name: "Bella", Vitals: economy.Vitals{Hunger: 20, Energy: 90, Boredom: 20, Money: 450}, Location: economy.LocationHome, ThinkFrequency: 1, Spawned: true},
		},
	}
	w.Normalize()
	return w
}

func newUseCase(w *economy.World, oracle ports.Oracle) (*UseCase, *stubWorlds, *stubLogs, *stubMetrics, *stubSink) {
	worlds := &stubWorlds{world: w}
	logs := &stubLogs{}
	metrics := &stubMetrics{}
	sink := &stubSink{}
	uc := &UseCase{
		TxManager: stubTxManager{},
		Worlds:    worlds,
		Logs:      logs,
		Oracle:    oracle,
		Metrics:   metrics,
		Publisher: sink,
		Archive:   sink,
		IDs:       &economy.SequenceIDs{},
		DiceSeed:  7,
	}
	return uc, worlds, logs, metrics, sink
}
