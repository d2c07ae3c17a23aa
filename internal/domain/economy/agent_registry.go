package economy

import "strings"

type ActionSpec struct {
	Type    ActionType
	Handler ActionHandler
}

// ActionHandler gates an action with Precheck and mutates state with Apply. Apply is
// only called when Precheck returned nil and returns the line written to the log.
type ActionHandler interface {
	Precheck(ac *actionContext) *rejection
	Apply(ac *actionContext) string
}

type rejection struct {
	reason  string
	logLine string
}

type actionContext struct {
	tick     *Tick
	agent    *Agent
	decision AgentDecision

	location Location
	product  int
	item     int
	company  int
}

func actionRegistry() map[ActionType]ActionSpec {
	return map[ActionType]ActionSpec{
		ActionMove:      {Type: ActionMove, Handler: moveHandler{}},
		ActionWork:      {Type: ActionWork, Handler: workHandler{}},
		ActionBuy:       {Type: ActionBuy, Handler: buyHandler{}},
		ActionConsume:   {Type: ActionConsume, Handler: consumeHandler{}},
		ActionUse:       {Type: ActionUse, Handler: useHandler{}},
		ActionSleep:     {Type: ActionSleep, Handler: sleepHandler{}},
		ActionRest:      {Type: ActionRest, Handler: restHandler{}},
		ActionSocialize: {Type: ActionSocialize, Handler: socializeHandler{}},
		ActionApply:     {Type: ActionApply, Handler: applyHandler{}},
		ActionIdle:      {Type: ActionIdle, Handler: idleHandler{}},
	}
}

var registry = actionRegistry()

func specFor(action ActionType) ActionSpec {
	if spec, ok := registry[action]; ok {
		return spec
	}
	return ActionSpec{Type: action, Handler: idleHandler{}}
}

// resolveAgent applies one decision to the agent at idx and returns its ActionResult.
// The result enters actionHistory only when the agent actually thought this hour.
func (t *Tick) resolveAgent(idx int, d AgentDecision, thought bool) ActionResult {
	a := &t.world.Agents[idx]
	ac := &actionContext{tick: t, agent: a, decision: d, product: -1, item: -1, company: -1}
	res := ActionResult{Tick: t.world.Time, Action: d.Action, Target: d.Target}

	var line string
	spec := specFor(d.Action)
	if rej := spec.Handler.Precheck(ac); rej != nil {
		res.Message = rej.reason
		line = rej.logLine
		a.Memory.Learnings = rememberLearning(a.Memory.Learnings, rej.reason)
	} else {
		res.Success = true
		res.Message = ActionCompleted
		line = spec.Handler.Apply(ac)
	}

	a.Vitals = a.Vitals.Clamped()
	if thought {
		a.Memory.ActionHistory = lastN(append(a.Memory.ActionHistory, res), ActionHistoryWindow)
	}
	a.Memory.RecentEvents = lastN(a.Memory.RecentEvents, RecentEventsWindow)
	decided := d
	if !res.Success && decided.Action == ActionSleep {
		// only a sleep that started carries the decay bonus and continuation
		decided.Action = ActionIdle
	}
	a.LastDecision = &decided
	if line != "" {
		a.History = append([]string{line}, a.History...)
		if len(a.History) > HistoryWindow {
			a.History = a.History[:HistoryWindow]
		}
		t.log(a.Name, line, LogAction)
	}
	return res
}

func rememberLearning(learnings []string, lesson string) []string {
	for _, l := range learnings {
		if l == lesson {
			return learnings
		}
	}
	return lastN(append(learnings, lesson), LearningsWindow)
}

func (a *Agent) inventoryIndex(name string) int {
	name = strings.TrimSpace(name)
	for i := range a.Inventory {
		if strings.EqualFold(a.Inventory[i].Name, name) {
			return i
		}
	}
	return -1
}

func (a *Agent) remember(event string) {
	a.Memory.RecentEvents = append(a.Memory.RecentEvents, event)
}

func (a *Agent) shiftOpinion(companyID string, delta int) {
	if companyID == "" || delta == 0 {
		return
	}
	if a.Memory.BrandOpinions == nil {
		a.Memory.BrandOpinions = map[string]int{}
	}
	a.Memory.BrandOpinions[companyID] = Clamp(a.Memory.BrandOpinions[companyID]+delta, OpinionMin, OpinionMax)
}
