package economy

import (
	"strings"
	"testing"
)

// fixedDice always returns v (bounded to n-1); v=10 gives a zero satisfaction offset.
type fixedDice int

func (d fixedDice) Intn(n int) int {
	v := int(d)
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

func testEnv() Env {
	return Env{Dice: fixedDice(10), IDs: &SequenceIDs{}}
}

func testWorld() World {
	w := World{
		Day:  1,
		Time: 8,
		Companies: []Company{
			{ID: "comp_1", Name: "FastBite Inc", CEOName: "Sarah Chen", Funds: 1000, Reputation: 40, OpenPositions: 3, Wage: 45},
			{ID: "comp_2", Name: "Luxura Brands", CEOName: "Marcus Wright", Funds: 5000, Reputation: 80, OpenPositions: 2, Wage: 85},
			{ID: "comp_3", Name: "Chaos Labs", CEOName: "Zara Kim", Funds: 2000, Reputation: 60, OpenPositions: 0, Wage: 65},
		},
		Market: []Product{
			{ID: "prod_1", CompanyID: "comp_1", Name: "Insta-Oats", ItemType: ItemFood, Price: 5, Quality: 20, Cost: 2, Effect: Effect{Hunger: -20}},
			{ID: "prod_3", CompanyID: "comp_3", Name: "VR Headset", ItemType: ItemGadget, Price: 150, Quality: 80, Cost: 100, Effect: Effect{Boredom: -80}},
			{ID: "prod_4", CompanyID: "comp_2", Name: "Wagyu Burger", ItemType: ItemFood, Price: 50, Quality: 95, Cost: 35, Effect: Effect{Hunger: -70, Energy: 10}},
		},
		Agents: []Agent{
			{ID: "1", Name: "Alex", Vitals: Vitals{Hunger: 30, Energy: 80, Boredom: 10, Money: 1200}, Location: LocationHome, ThinkFrequency: 2, Spawned: true},
			{ID: "2", Name: "Bella", Vitals: Vitals{Hunger: 20, Energy: 90, Boredom: 20, Money: 450}, Location: LocationHome, ThinkFrequency: 2, Spawned: true},
		},
	}
	w.Normalize()
	return w
}

// newTestTick builds a tick over w without advancing the clock, for resolver tests.
func newTestTick(w World) *Tick {
	w.Normalize()
	return &Tick{
		world:   w.Clone(),
		env:     testEnv().withDefaults(),
		outcome: TickOutcome{Entries: []LogEntry{}},
	}
}

func lastEntry(t *testing.T, tk *Tick) LogEntry {
	t.Helper()
	if len(tk.outcome.Entries) == 0 {
		t.Fatalf("expected at least one log entry")
	}
	return tk.outcome.Entries[len(tk.outcome.Entries)-1]
}

func hasEntry(entries []LogEntry, actor, message string, kind LogKind) bool {
	for _, e := range entries {
		if e.ActorName == actor && e.Message == message && e.Kind == kind {
			return true
		}
	}
	return false
}

func hasEntryContaining(entries []LogEntry, fragment string) bool {
	for _, e := range entries {
		if strings.Contains(e.Message, fragment) {
			return true
		}
	}
	return false
}
