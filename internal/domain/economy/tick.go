package economy

import (
	"fmt"

	"marketsim/internal/domain/clock"
)

// Env carries the injected capabilities a tick needs besides the world itself.
type Env struct {
	Clock clock.Clock
	Dice  Dice
	IDs   IDGenerator
}

func (e Env) withDefaults() Env {
	if e.Clock == (clock.Clock{}) {
		e.Clock = clock.Default()
	}
	if e.IDs == nil {
		e.IDs = &SequenceIDs{}
	}
	return e
}

type DegradedKind string

const (
	DegradedAgent       DegradedKind = "agent"
	DegradedCompany     DegradedKind = "company"
	DegradedObservation DegradedKind = "observation"
)

// Degraded records an actor whose decision fell back to the safe default.
type Degraded struct {
	Kind    DegradedKind `json:"kind"`
	ActorID string       `json:"actor_id"`
	Reason  string       `json:"reason"`
}

type AgentOutcome struct {
	AgentID   string        `json:"agent_id"`
	Activated bool          `json:"activated,omitempty"`
	Sleeping  bool          `json:"sleeping,omitempty"`
	Thought   bool          `json:"thought"`
	Decision  AgentDecision `json:"decision"`
	Result    ActionResult  `json:"result"`
}

type CompanyOutcome struct {
	CompanyID string      `json:"company_id"`
	Decision  CeoDecision `json:"decision"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	ProductID string      `json:"product_id,omitempty"`
}

type TickOutcome struct {
	Day       int              `json:"day"`
	Hour      int              `json:"hour"`
	CEOsActed bool             `json:"ceos_acted"`
	Entries   []LogEntry       `json:"entries"`
	Agents    []AgentOutcome   `json:"agents"`
	Companies []CompanyOutcome `json:"companies"`
	Degraded  []Degraded       `json:"degraded"`
}

// AgentPlan is the per-agent verdict taken after decay and before decisions are gathered.
type AgentPlan struct {
	Index       int
	AgentID     string
	Activated   bool
	Sleeping    bool
	Critical    bool
	ShouldThink bool
}

// Tick is a working copy of the world moving through one hour. Phases must run in
// order: Begin, company or observation phase, Decay, PlanAgents, ApplyAgents, Finish.
type Tick struct {
	world   World
	env     Env
	prevDay int
	prevHr  int
	ceosAct bool
	outcome TickOutcome
}

// Begin clones w, advances the clock and decides whether CEOs act this hour.
func Begin(w World, env Env) *Tick {
	env = env.withDefaults()
	t := &Tick{
		world:   w.Clone(),
		env:     env,
		prevDay: w.Day,
		prevHr:  w.Time,
	}
	next, rolled := env.Clock.Next(w.Time)
	t.world.Time = next
	if rolled {
		t.world.Day++
	}
	t.ceosAct = env.Clock.IsDecisionHour(next) || len(t.world.Market) == 0
	t.outcome = TickOutcome{
		Day:       t.world.Day,
		Hour:      next,
		CEOsActed: t.ceosAct,
		Entries:   []LogEntry{},
		Agents:    []AgentOutcome{},
		Companies: []CompanyOutcome{},
		Degraded:  []Degraded{},
	}
	t.log("System", fmt.Sprintf("Hour %d:00", next), LogSystem)
	return t
}

// World returns a copy of the working state for decision gathering.
func (t *Tick) World() World { return t.world.Clone() }

func (t *Tick) CEOsAct() bool { return t.ceosAct }

func (t *Tick) Hour() int { return t.world.Time }

// PreviousHour is the (day, hour) the world was at before Begin.
func (t *Tick) PreviousHour() (int, int) { return t.prevDay, t.prevHr }

func (t *Tick) Degrade(d Degraded) {
	t.outcome.Degraded = append(t.outcome.Degraded, d)
}

// ApplyCompanies runs every company's decision in registration order against one
// working market. A missing decision counts as the fallback WAIT.
func (t *Tick) ApplyCompanies(decisions map[string]CeoDecision) {
	if !t.ceosAct {
		return
	}
	t.log("System", "CEOs are analyzing the competitive landscape...", LogMarket)
	for i := range t.world.Companies {
		d, ok := decisions[t.world.Companies[i].ID]
		if !ok {
			d = FallbackCeoDecision()
		}
		t.outcome.Companies = append(t.outcome.Companies, t.resolveCompany(i, d))
	}
}

// ApplyObservations records each company's narrative observation without mutating the economy.
func (t *Tick) ApplyObservations(observations map[string]string) {
	if t.ceosAct {
		return
	}
	for i := range t.world.Companies {
		c := &t.world.Companies[i]
		obs, ok := observations[c.ID]
		if !ok || obs == "" {
			obs = DefaultObservation
		}
		c.LastObservation = obs
		t.log(c.Name, fmt.Sprintf("%s: %s", c.CEOName, obs), LogMarket)
	}
}

// Decay applies hourly drift to every agent, active or not.
func (t *Tick) Decay() {
	for i := range t.world.Agents {
		a := &t.world.Agents[i]
		a.Vitals = a.Vitals.Decayed(a.lastAction() == ActionSleep)
	}
}

// PlanAgents activates newly spawned agents and decides who sleeps, who thinks and
// who runs on autopilot. Only active agents get a plan.
func (t *Tick) PlanAgents() []AgentPlan {
	plans := []AgentPlan{}
	hour := t.world.Time
	for i := range t.world.Agents {
		a := &t.world.Agents[i]
		activated := false
		if !a.Spawned {
			if a.SpawnTime > 23 || hour < a.SpawnTime {
				continue
			}
			a.Spawned = true
			activated = true
		}
		p := AgentPlan{Index: i, AgentID: a.ID, Activated: activated}
		if a.lastAction() == ActionSleep && a.Vitals.Energy < WakeEnergyThreshold {
			p.Sleeping = true
			plans = append(plans, p)
			continue
		}
		freq := a.ThinkFrequency
		if freq <= 0 {
			freq = 1
		}
		p.Critical = a.Vitals.Critical()
		p.ShouldThink = p.Critical || (hour+i)%freq == 0
		plans = append(plans, p)
	}
	return plans
}

// ApplyAgents resolves each planned agent in roster order. Thinking agents take their
// entry from decisions (fallback IDLE when missing); the rest use the autopilot.
func (t *Tick) ApplyAgents(plans []AgentPlan, decisions map[string]AgentDecision) {
	for _, p := range plans {
		a := &t.world.Agents[p.Index]
		if p.Activated {
			t.log(a.Name, "Has entered the simulation.", LogSystem)
		}
		if p.Sleeping {
			t.log(a.Name, "Zzz...", LogAction)
			t.outcome.Agents = append(t.outcome.Agents, AgentOutcome{AgentID: a.ID, Activated: p.Activated, Sleeping: true})
			continue
		}
		decision := AutopilotDecision()
		if p.ShouldThink {
			d, ok := decisions[a.ID]
			if !ok {
				d = FallbackAgentDecision()
			}
			decision = d
			t.log(a.Name, decision.ThoughtProcess, LogThought)
		}
		res := t.resolveAgent(p.Index, decision, p.ShouldThink)
		t.outcome.Agents = append(t.outcome.Agents, AgentOutcome{
			AgentID:   a.ID,
			Activated: p.Activated,
			Thought:   p.ShouldThink,
			Decision:  decision,
			Result:    res,
		})
	}
}

// Finish bumps the world version and hands back the new state and the tick outcome.
func (t *Tick) Finish() (World, TickOutcome) {
	t.world.Version++
	return t.world, t.outcome
}

func (t *Tick) log(actor, message string, kind LogKind) {
	t.world.NextLogSeq++
	t.outcome.Entries = append(t.outcome.Entries, LogEntry{
		Seq:       t.world.NextLogSeq,
		Day:       t.world.Day,
		Time:      t.world.Time,
		ActorName: actor,
		Message:   message,
		Kind:      kind,
	})
}

// Decisions is everything the oracle contributed to one tick.
type Decisions struct {
	Companies    map[string]CeoDecision   `json:"companies,omitempty"`
	Observations map[string]string        `json:"observations,omitempty"`
	Agents       map[string]AgentDecision `json:"agents,omitempty"`
}

// Advance resolves one full tick from pre-collected decisions. It performs no I/O and
// leaves w untouched.
func Advance(w World, decisions Decisions, env Env) (World, TickOutcome) {
	t := Begin(w, env)
	if t.CEOsAct() {
		t.ApplyCompanies(decisions.Companies)
	} else {
		t.ApplyObservations(decisions.Observations)
	}
	t.Decay()
	t.ApplyAgents(t.PlanAgents(), decisions.Agents)
	return t.Finish()
}
