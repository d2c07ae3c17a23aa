package economy

import (
	"strings"
	"testing"
)

func TestBuy_SucceedsAtSupermarket(t *testing.T) {
	w := testWorld()
	w.Agents[0].Location = LocationSupermarket
	w.Agents[0].Vitals.Money = 50
	tk := newTestTick(w)

	res := tk.resolveAgent(0, AgentDecision{Action: ActionBuy, Target: "insta-oats"}, true)
	if !res.Success || res.Message != ActionCompleted {
		t.Fatalf("expected successful buy, got %+v", res)
	}
	a := tk.world.Agents[0]
	if a.Vitals.Money != 45 {
		t.Fatalf("expected money 45, got %v", a.Vitals.Money)
	}
	if len(a.Inventory) != 1 || a.Inventory[0].Name != "Insta-Oats" || a.Inventory[0].ProductID != "prod_1" {
		t.Fatalf("expected one Insta-Oats in inventory, got %+v", a.Inventory)
	}
	if got := tk.world.Companies[0].Funds; got != 1003 {
		t.Fatalf("expected FastBite funds 1003, got %v", got)
	}
	if got := lastEntry(t, tk).Message; got != "Bought Insta-Oats for $5." {
		t.Fatalf("unexpected log message %q", got)
	}
	if got := a.Memory.RecentEvents[len(a.Memory.RecentEvents)-1]; got != "Bought Insta-Oats." {
		t.Fatalf("unexpected recent event %q", got)
	}
}

func TestBuy_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	w := testWorld()
	w.Agents[0].Location = LocationSupermarket
	w.Agents[0].Vitals.Money = 2
	tk := newTestTick(w)

	res := tk.resolveAgent(0, AgentDecision{Action: ActionBuy, Target: "Insta-Oats"}, true)
	if res.Success {
		t.Fatalf("expected buy to fail")
	}
	if res.Message != "Tried to BUY Insta-Oats but couldn't afford it ($2 vs $5)" {
		t.Fatalf("unexpected failure message %q", res.Message)
	}
	a := tk.world.Agents[0]
	if a.Vitals.Money != 2 || len(a.Inventory) != 0 {
		t.Fatalf("expected no state change, got money=%v inventory=%d", a.Vitals.Money, len(a.Inventory))
	}
	if tk.world.Companies[0].Funds != 1000 {
		t.Fatalf("expected company funds untouched, got %v", tk.world.Companies[0].Funds)
	}
	if len(a.Memory.Learnings) != 1 || a.Memory.Learnings[0] != res.Message {
		t.Fatalf("expected failure to be remembered, got %v", a.Memory.Learnings)
	}
}

func TestBuy_RequiresSupermarketAndKnownProduct(t *testing.T) {
	tk := newTestTick(testWorld())
	res := tk.resolveAgent(0, AgentDecision{Action: ActionBuy, Target: "Insta-Oats"}, true)
	if res.Success || !strings.Contains(res.Message, "wasn't at Supermarket") {
		t.Fatalf("expected location failure, got %+v", res)
	}

	tk.world.Agents[0].Location = LocationSupermarket
	res = tk.resolveAgent(0, AgentDecision{Action: ActionBuy, Target: "Caviar"}, true)
	if res.Success || res.Message != "Tried to BUY Caviar but it wasn't in the market." {
		t.Fatalf("expected missing product failure, got %+v", res)
	}
}

func TestWork_AwayFromOfficeFails(t *testing.T) {
	tk := newTestTick(testWorld())
	res := tk.resolveAgent(0, AgentDecision{Action: ActionWork, Target: "Office"}, true)
	if res.Success {
		t.Fatalf("expected work to fail at home")
	}
	if !strings.Contains(res.Message, "wasn't at Office") {
		t.Fatalf("expected location mismatch reason, got %q", res.Message)
	}
	if tk.world.Agents[0].Vitals.Money != 1200 {
		t.Fatalf("expected money unchanged, got %v", tk.world.Agents[0].Vitals.Money)
	}
}

func TestWork_FreelanceAndEmployedPay(t *testing.T) {
	w := testWorld()
	w.Agents[0].Location = LocationOffice
	w.Agents[1].Location = LocationOffice
	w.Agents[1].Employer = "comp_2"
	w.Agents[1].Wage = 85
	tk := newTestTick(w)

	tk.resolveAgent(0, AgentDecision{Action: ActionWork}, true)
	a := tk.world.Agents[0]
	if a.Vitals.Money != 1250 || a.Vitals.Energy != 70 || a.Vitals.Boredom != 15 {
		t.Fatalf("unexpected freelance vitals %+v", a.Vitals)
	}

	tk.resolveAgent(1, AgentDecision{Action: ActionWork}, true)
	b := tk.world.Agents[1]
	if b.Vitals.Money != 535 {
		t.Fatalf("expected wage 85 paid, got money %v", b.Vitals.Money)
	}
	if tk.world.Companies[1].Funds != 4915 {
		t.Fatalf("expected employer funds debited to 4915, got %v", tk.world.Companies[1].Funds)
	}
}

func TestConsume_SatisfactionBoundary(t *testing.T) {
	w := testWorld()
	w.Agents[0].Vitals.Hunger = 50
	w.Agents[0].Inventory = []InventoryItem{
		{ID: "i1", ProductID: "prod_1", CompanyID: "comp_1", Name: "Insta-Oats", Type: ItemFood, Effect: Effect{Hunger: -20}, Quality: 100, Price: 5},
	}
	tk := newTestTick(w)

	res := tk.resolveAgent(0, AgentDecision{Action: ActionConsume, Target: "Insta-Oats"}, true)
	if !res.Success {
		t.Fatalf("expected consume success, got %+v", res)
	}
	a := tk.world.Agents[0]
	if len(a.Inventory) != 0 {
		t.Fatalf("expected item removed, got %+v", a.Inventory)
	}
	if a.Vitals.Hunger != 30 {
		t.Fatalf("expected hunger 30, got %d", a.Vitals.Hunger)
	}
	if a.Memory.BrandOpinions["comp_1"] != 2 {
		t.Fatalf("expected opinion +2, got %d", a.Memory.BrandOpinions["comp_1"])
	}
	if tk.world.Companies[0].Reputation != 41 {
		t.Fatalf("expected reputation 41, got %d", tk.world.Companies[0].Reputation)
	}
	if got := tk.world.Market[0].Ratings; len(got) != 1 || got[0] != 10 {
		t.Fatalf("expected rating 10 pushed onto product, got %v", got)
	}
	if len(a.Memory.PurchaseHistory) != 1 || a.Memory.PurchaseHistory[0].Satisfaction != 10 {
		t.Fatalf("expected purchase record with satisfaction 10, got %+v", a.Memory.PurchaseHistory)
	}
	if got := a.Memory.RecentEvents[len(a.Memory.RecentEvents)-1]; got != "Consumed Insta-Oats. Rating: 10/10. Loved it!" {
		t.Fatalf("unexpected recent event %q", got)
	}
}

func TestConsume_LowQualityHurtsBrand(t *testing.T) {
	w := testWorld()
	w.Agents[0].Inventory = []InventoryItem{
		{ID: "i1", CompanyID: "comp_1", Name: "Insta-Oats", Type: ItemFood, Effect: Effect{Hunger: -20}, Quality: 20, Price: 5},
	}
	tk := newTestTick(w)

	tk.resolveAgent(0, AgentDecision{Action: ActionConsume, Target: "Insta-Oats"}, true)
	if got := tk.world.Agents[0].Memory.BrandOpinions["comp_1"]; got != -5 {
		t.Fatalf("expected opinion -5, got %d", got)
	}
	if got := tk.world.Companies[0].Reputation; got != 38 {
		t.Fatalf("expected reputation 38, got %d", got)
	}
	if got := tk.world.Market[0].Ratings; len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected rating 2 matched by name and maker, got %v", got)
	}
}

func TestConsumeAndUse_TypeMismatchFailsWithoutMutation(t *testing.T) {
	w := testWorld()
	w.Agents[0].Inventory = []InventoryItem{
		{ID: "g1", CompanyID: "comp_3", Name: "Kaleidoscope", Type: ItemGadget, Effect: Effect{Boredom: -20}, Quality: 70},
		{ID: "f1", CompanyID: "comp_1", Name: "Bulk Rice", Type: ItemFood, Effect: Effect{Hunger: -30}, Quality: 40},
	}
	tk := newTestTick(w)
	before := tk.world.Agents[0].Vitals

	res := tk.resolveAgent(0, AgentDecision{Action: ActionConsume, Target: "Kaleidoscope"}, true)
	if res.Success || res.Message != "Tried to CONSUME Kaleidoscope but it is a gadget. Use USE instead." {
		t.Fatalf("unexpected consume result %+v", res)
	}
	res = tk.resolveAgent(0, AgentDecision{Action: ActionUse, Target: "Bulk Rice"}, true)
	if res.Success || res.Message != "Tried to USE Bulk Rice but it is a food. Use CONSUME instead." {
		t.Fatalf("unexpected use result %+v", res)
	}
	if tk.world.Agents[0].Vitals != before {
		t.Fatalf("expected vitals unchanged, got %+v want %+v", tk.world.Agents[0].Vitals, before)
	}
	if len(tk.world.Agents[0].Inventory) != 2 {
		t.Fatalf("expected inventory untouched")
	}
}

func TestUse_GadgetIsRetained(t *testing.T) {
	w := testWorld()
	w.Agents[0].Vitals.Boredom = 90
	w.Agents[0].Inventory = []InventoryItem{
		{ID: "g1", CompanyID: "comp_3", Name: "VR Headset", Type: ItemGadget, Effect: Effect{Boredom: -80}, Quality: 80},
	}
	tk := newTestTick(w)

	res := tk.resolveAgent(0, AgentDecision{Action: ActionUse, Target: "vr headset"}, true)
	if !res.Success {
		t.Fatalf("expected use success, got %+v", res)
	}
	a := tk.world.Agents[0]
	if len(a.Inventory) != 1 {
		t.Fatalf("expected gadget retained")
	}
	if a.Vitals.Boredom != 10 {
		t.Fatalf("expected boredom 10, got %d", a.Vitals.Boredom)
	}
	if a.Memory.BrandOpinions["comp_3"] != 1 {
		t.Fatalf("expected opinion +1 for a quality gadget, got %d", a.Memory.BrandOpinions["comp_3"])
	}
}

func TestSleepAwayFromHomeDoesNotStartSleeping(t *testing.T) {
	w := testWorld()
	w.Agents[0].Location = LocationPark
	tk := newTestTick(w)

	res := tk.resolveAgent(0, AgentDecision{ThoughtProcess: "nap", Action: ActionSleep, Target: "Home"}, true)
	if res.Success {
		t.Fatalf("expected sleep away from home to fail, got %+v", res)
	}
	a := tk.world.Agents[0]
	if a.LastDecision == nil || a.LastDecision.Action == ActionSleep {
		t.Fatalf("rejected sleep must not be kept as the last decision, got %+v", a.LastDecision)
	}
	if a.lastAction() == ActionSleep {
		t.Fatalf("agent must not be treated as sleeping")
	}
	if n := len(a.Memory.ActionHistory); n == 0 || a.Memory.ActionHistory[n-1].Action != ActionSleep {
		t.Fatalf("expected the failed SLEEP in action history, got %+v", a.Memory.ActionHistory)
	}
}

func TestSleepSocializeRest(t *testing.T) {
	tk := newTestTick(testWorld())
	if res := tk.resolveAgent(0, AgentDecision{Action: ActionSleep}, true); !res.Success {
		t.Fatalf("expected sleep at home to succeed, got %+v", res)
	}
	if tk.world.Agents[0].LastDecision == nil || tk.world.Agents[0].LastDecision.Action != ActionSleep {
		t.Fatalf("expected last decision SLEEP")
	}

	res := tk.resolveAgent(1, AgentDecision{Action: ActionSocialize}, true)
	if res.Success || res.Message != "Tried to SOCIALIZE but wasn't at Park. Move to 'Park' first." {
		t.Fatalf("unexpected socialize result %+v", res)
	}
	tk.world.Agents[1].Location = LocationPark
	tk.resolveAgent(1, AgentDecision{Action: ActionSocialize}, true)
	if got := tk.world.Agents[1].Vitals.Boredom; got != 5 {
		t.Fatalf("expected boredom 5, got %d", got)
	}
	tk.world.Agents[1].Vitals.Energy = 85
	tk.resolveAgent(1, AgentDecision{Action: ActionRest}, true)
	if got := tk.world.Agents[1].Vitals.Energy; got != 100 {
		t.Fatalf("expected rest to clamp energy at 100, got %d", got)
	}

	tk.world.Agents[0].Location = LocationPark
	res = tk.resolveAgent(0, AgentDecision{Action: ActionSleep}, true)
	if res.Success || res.Message != "Tried to SLEEP but wasn't at Home. Move to 'Home' first." {
		t.Fatalf("unexpected sleep result %+v", res)
	}
}

func TestMove_ValidatesLocation(t *testing.T) {
	tk := newTestTick(testWorld())
	res := tk.resolveAgent(0, AgentDecision{Action: ActionMove, Target: "Moon"}, true)
	if res.Success || res.Message != "Invalid location Moon" {
		t.Fatalf("unexpected move result %+v", res)
	}
	res = tk.resolveAgent(0, AgentDecision{Action: ActionMove, Target: "Office"}, true)
	if !res.Success || tk.world.Agents[0].Location != LocationOffice {
		t.Fatalf("expected move to Office, got %+v at %s", res, tk.world.Agents[0].Location)
	}
	if got := lastEntry(t, tk).Message; got != "Moved to Office" {
		t.Fatalf("unexpected log %q", got)
	}
}

func TestApply_AddsApplicantOnce(t *testing.T) {
	tk := newTestTick(testWorld())
	res := tk.resolveAgent(0, AgentDecision{Action: ActionApply, Target: "fastbite inc"}, true)
	if !res.Success {
		t.Fatalf("expected apply success, got %+v", res)
	}
	if got := tk.world.Companies[0].Applicants; len(got) != 1 || got[0] != "1" {
		t.Fatalf("expected applicant recorded, got %v", got)
	}
	res = tk.resolveAgent(0, AgentDecision{Action: ActionApply, Target: "comp_1"}, true)
	if res.Success {
		t.Fatalf("expected duplicate application to fail")
	}
	res = tk.resolveAgent(0, AgentDecision{Action: ActionApply, Target: "Chaos Labs"}, true)
	if res.Success || !strings.Contains(res.Message, "no open positions") {
		t.Fatalf("expected no openings failure, got %+v", res)
	}
}

func TestUnknownAction_SucceedsSilently(t *testing.T) {
	tk := newTestTick(testWorld())
	before := tk.world.Agents[0].Vitals
	res := tk.resolveAgent(0, AgentDecision{Action: ActionType("DANCE"), Target: "floor"}, true)
	if !res.Success {
		t.Fatalf("expected unknown action to succeed, got %+v", res)
	}
	if tk.world.Agents[0].Vitals != before {
		t.Fatalf("expected no vitals change")
	}
	idle := tk.resolveAgent(0, AutopilotDecision(), false)
	if !idle.Success {
		t.Fatalf("expected idle to succeed")
	}
	if got := len(tk.world.Agents[0].Memory.ActionHistory); got != 1 {
		t.Fatalf("expected only the thinking action recorded, got %d", got)
	}
}

func TestResolveAgent_WindowsMemory(t *testing.T) {
	tk := newTestTick(testWorld())
	tk.world.Agents[0].Location = LocationPark
	for i := 0; i < 12; i++ {
		tk.resolveAgent(0, AgentDecision{Action: ActionSocialize}, true)
	}
	a := tk.world.Agents[0]
	if len(a.Memory.ActionHistory) != ActionHistoryWindow {
		t.Fatalf("expected %d action results, got %d", ActionHistoryWindow, len(a.Memory.ActionHistory))
	}
	if len(a.Memory.RecentEvents) != RecentEventsWindow {
		t.Fatalf("expected %d recent events, got %d", RecentEventsWindow, len(a.Memory.RecentEvents))
	}
	if len(a.History) != HistoryWindow {
		t.Fatalf("expected %d history lines, got %d", HistoryWindow, len(a.History))
	}
	if a.Vitals.Boredom != 0 {
		t.Fatalf("expected boredom clamped at 0, got %d", a.Vitals.Boredom)
	}
}
