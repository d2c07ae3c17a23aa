package tick

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

func (u *UseCase) gatherCompanies(ctx context.Context, tk *economy.Tick) (map[string]economy.CeoDecision, error) {
	snap := tk.World()
	entries, err := u.Logs.List(ctx, ports.LogQuery{
		Kinds: []economy.LogKind{economy.LogThought, economy.LogAction},
		Limit: economy.CEOIntelWindow,
	})
	if err != nil {
		u.logger().Warn("load market intel failed", "err", err)
		entries = nil
	}
	intel := economy.MarketIntel(entries)

	vals, errs, err := fanOut(ctx, u.concurrency(), u.callTimeout(), len(snap.Companies), func(ctx context.Context, i int) (economy.CeoDecision, error) {
		c := snap.Companies[i]
		return u.Oracle.DecideCompany(ctx, ports.CompanyContext{
			Company:    c,
			Day:        snap.Day,
			Hour:       snap.Time,
			Market:     snap.Market,
			Companies:  snap.Companies,
			Intel:      intel,
			Applicants: applicantsOf(snap, c),
		})
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]economy.CeoDecision, len(snap.Companies))
	for i, c := range snap.Companies {
		if errs[i] != nil {
			out[c.ID] = economy.FallbackCeoDecision()
			u.degrade(tk, economy.DegradedCompany, c.ID, errs[i])
			continue
		}
		out[c.ID] = vals[i]
	}
	return out, nil
}

func (u *UseCase) gatherObservations(ctx context.Context, tk *economy.Tick) (map[string]string, error) {
	snap := tk.World()
	day, hour := tk.PreviousHour()
	entries, err := u.Logs.List(ctx, ports.LogQuery{Day: day, Hour: hour, ByHour: true})
	if err != nil {
		u.logger().Warn("load previous hour failed", "day", day, "hour", hour, "err", err)
		entries = nil
	}
	lines := economy.ObservationLines(entries, day, hour)

	vals, errs, err := fanOut(ctx, u.concurrency(), u.callTimeout(), len(snap.Companies), func(ctx context.Context, i int) (string, error) {
		return u.Oracle.Observe(ctx, ports.ObservationContext{
			Company: snap.Companies[i],
			Day:     snap.Day,
			Hour:    snap.Time,
			Lines:   lines,
		})
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(snap.Companies))
	for i, c := range snap.Companies {
		if errs[i] != nil || vals[i] == "" {
			out[c.ID] = economy.DefaultObservation
			if errs[i] != nil {
				u.degrade(tk, economy.DegradedObservation, c.ID, errs[i])
			}
			continue
		}
		out[c.ID] = vals[i]
	}
	return out, nil
}

// gatherAgents asks the oracle for every planned agent that thinks this hour.
// Decisions are gathered after the company phase, so agents see the new market.
func (u *UseCase) gatherAgents(ctx context.Context, tk *economy.Tick, plans []economy.AgentPlan) (map[string]economy.AgentDecision, error) {
	snap := tk.World()
	thinking := make([]economy.AgentPlan, 0, len(plans))
	for _, p := range plans {
		if p.ShouldThink && !p.Sleeping {
			thinking = append(thinking, p)
		}
	}
	vals, errs, err := fanOut(ctx, u.concurrency(), u.callTimeout(), len(thinking), func(ctx context.Context, i int) (economy.AgentDecision, error) {
		return u.Oracle.DecideAgent(ctx, ports.AgentContext{
			Agent:     snap.Agents[thinking[i].Index],
			Day:       snap.Day,
			Hour:      snap.Time,
			Market:    snap.Market,
			Companies: snap.Companies,
			Locations: economy.Locations,
		})
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string]economy.AgentDecision, len(thinking))
	for i, p := range thinking {
		if errs[i] != nil {
			out[p.AgentID] = economy.FallbackAgentDecision()
			u.degrade(tk, economy.DegradedAgent, p.AgentID, errs[i])
			continue
		}
		out[p.AgentID] = vals[i]
	}
	return out, nil
}

func (u *UseCase) degrade(tk *economy.Tick, kind economy.DegradedKind, actorID string, err error) {
	tk.Degrade(economy.Degraded{Kind: kind, ActorID: actorID, Reason: err.Error()})
	u.logger().Warn("oracle call degraded", "kind", kind, "actor_id", actorID, "err", err)
}

// fanOut runs fn for indexes [0,n) with bounded concurrency and a per-call timeout.
// A failing call is reported in its slot; only cancellation of ctx aborts the batch.
func fanOut[T any](ctx context.Context, limit int, timeout time.Duration, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, []error, error) {
	vals := make([]T, n)
	errs := make([]error, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			callCtx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()
			vals[i], errs[i] = fn(callCtx, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return vals, errs, nil
}

func applicantsOf(w economy.World, c economy.Company) []economy.Agent {
	out := make([]economy.Agent, 0, len(c.Applicants))
	for _, id := range c.Applicants {
		if i := w.AgentIndex(id); i >= 0 {
			out = append(out, w.Agents[i])
		}
	}
	return out
}

func (u *UseCase) concurrency() int {
	if u.Concurrency > 0 {
		return u.Concurrency
	}
	return defaultConcurrency
}

func (u *UseCase) callTimeout() time.Duration {
	if u.CallTimeout > 0 {
		return u.CallTimeout
	}
	return defaultCallTimeout
}
