package economy

import (
	"fmt"
	"slices"
)

type moveHandler struct{}

func (moveHandler) Precheck(ac *actionContext) *rejection {
	loc, ok := ParseLocation(ac.decision.Target)
	if !ok {
		return &rejection{
			reason:  fmt.Sprintf("Invalid location %s", ac.decision.Target),
			logLine: fmt.Sprintf("Tried to move to invalid location %s", ac.decision.Target),
		}
	}
	ac.location = loc
	return nil
}

func (moveHandler) Apply(ac *actionContext) string {
	ac.agent.Location = ac.location
	return fmt.Sprintf("Moved to %s", ac.location)
}

type workHandler struct{}

func (workHandler) Precheck(ac *actionContext) *rejection {
	if ac.agent.Location != LocationOffice {
		return &rejection{
			reason:  "Tried to WORK but wasn't at Office. You must MOVE to 'Office' first.",
			logLine: "Tried to work, but wasn't at the office.",
		}
	}
	ac.company = ac.tick.world.CompanyIndex(ac.agent.Employer)
	return nil
}

func (workHandler) Apply(ac *actionContext) string {
	a := ac.agent
	pay := float64(FreelanceWage)
	line := fmt.Sprintf("Worked hard. Earned %s.", formatMoney(pay))
	if a.Employed() && ac.company >= 0 {
		employer := &ac.tick.world.Companies[ac.company]
		pay = a.Wage
		if pay <= 0 {
			pay = employer.Wage
		}
		employer.Funds -= pay
		line = fmt.Sprintf("Worked a shift at %s. Earned %s.", employer.Name, formatMoney(pay))
	}
	a.Vitals.Money += pay
	a.Vitals.Energy -= WorkEnergyCost
	a.Vitals.Boredom += WorkBoredomGain
	return line
}

type buyHandler struct{}

func (buyHandler) Precheck(ac *actionContext) *rejection {
	if ac.agent.Location != LocationSupermarket {
		return &rejection{
			reason:  "Tried to BUY but wasn't at Supermarket. You must MOVE to 'Supermarket' first.",
			logLine: "Tried to buy, but wasn't at the store.",
		}
	}
	idx := ac.tick.world.ProductByName(ac.decision.Target)
	if idx < 0 {
		return &rejection{
			reason:  fmt.Sprintf("Tried to BUY %s but it wasn't in the market.", ac.decision.Target),
			logLine: fmt.Sprintf("Can't find %q.", ac.decision.Target),
		}
	}
	p := ac.tick.world.Market[idx]
	if ac.agent.Vitals.Money < p.Price {
		return &rejection{
			reason:  fmt.Sprintf("Tried to BUY %s but couldn't afford it (%s vs %s)", p.Name, formatMoney(ac.agent.Vitals.Money), formatMoney(p.Price)),
			logLine: fmt.Sprintf("Can't afford %s.", p.Name),
		}
	}
	ac.product = idx
	return nil
}

func (buyHandler) Apply(ac *actionContext) string {
	w := &ac.tick.world
	p := w.Market[ac.product]
	a := ac.agent
	a.Vitals.Money -= p.Price
	if ci := w.CompanyIndex(p.CompanyID); ci >= 0 {
		w.Companies[ci].Funds += p.Price - p.Cost
	}
	a.Inventory = append(a.Inventory, InventoryItem{
		ID:        ac.tick.env.IDs.NewID("item"),
		ProductID: p.ID,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		Type:      p.ItemType,
		Effect:    p.Effect,
		Quality:   p.Quality,
		Price:     p.Price,
	})
	a.remember(fmt.Sprintf("Bought %s.", p.Name))
	return fmt.Sprintf("Bought %s for %s.", p.Name, formatMoney(p.Price))
}

type consumeHandler struct{}

func (consumeHandler) Precheck(ac *actionContext) *rejection {
	idx := ac.agent.inventoryIndex(ac.decision.Target)
	if idx < 0 {
		return &rejection{
			reason:  fmt.Sprintf("Tried to CONSUME %s but didn't have it.", ac.decision.Target),
			logLine: fmt.Sprintf("Wanted to eat %s but didn't have it.", ac.decision.Target),
		}
	}
	item := ac.agent.Inventory[idx]
	if !item.Type.Consumable() {
		return &rejection{
			reason:  fmt.Sprintf("Tried to CONSUME %s but it is a %s. Use USE instead.", item.Name, item.Type),
			logLine: fmt.Sprintf("Tried to eat a %s... bad idea.", item.Name),
		}
	}
	ac.item = idx
	return nil
}

func (consumeHandler) Apply(ac *actionContext) string {
	t := ac.tick
	a := ac.agent
	item := a.Inventory[ac.item]
	a.Vitals = a.Vitals.Apply(item.Effect)
	a.Inventory = slices.Delete(a.Inventory, ac.item, ac.item+1)

	satisfaction := Satisfaction(item.Quality, rollOffset(t.env.Dice))
	verdict := ""
	opinion, reputation := 0, 0
	switch {
	case satisfaction >= LovedItThreshold:
		verdict, opinion, reputation = "Loved it!", LovedOpinionDelta, LovedReputationDelta
	case satisfaction <= HatedItThreshold:
		verdict, opinion, reputation = "Hated it.", HatedOpinionDelta, HatedReputationDelta
	}
	if item.CompanyID != "" {
		a.shiftOpinion(item.CompanyID, opinion)
		if ci := t.world.CompanyIndex(item.CompanyID); ci >= 0 {
			c := &t.world.Companies[ci]
			c.Reputation = Clamp(c.Reputation+reputation, VitalMin, VitalMax)
		}
	}
	if pi := t.ratedProduct(item); pi >= 0 {
		t.world.Market[pi].Ratings = append(t.world.Market[pi].Ratings, satisfaction)
	}
	a.Memory.PurchaseHistory = append(a.Memory.PurchaseHistory, PurchaseRecord{
		ProductName:  item.Name,
		Price:        item.Price,
		Satisfaction: satisfaction,
		Time:         t.world.Time,
	})

	event := fmt.Sprintf("Consumed %s. Rating: %d/10.", item.Name, satisfaction)
	line := fmt.Sprintf("Consumed %s. (Sat: %d)", item.Name, satisfaction)
	if verdict != "" {
		event += " " + verdict
		line = fmt.Sprintf("Consumed %s. %s (Sat: %d)", item.Name, verdict, satisfaction)
	}
	a.remember(event)
	return line
}

// Satisfaction maps quality plus a roll offset onto the 1..10 scale.
func Satisfaction(quality, offset int) int {
	return Clamp(roundHalfUp(float64(quality+offset)/10), SatisfactionMin, SatisfactionMax)
}

// ratedProduct finds the market listing an item came from, by id first and then by
// name and maker for items that predate the listing id.
func (t *Tick) ratedProduct(item InventoryItem) int {
	if item.ProductID != "" {
		return t.world.ProductIndex(item.ProductID)
	}
	for i, p := range t.world.Market {
		if p.CompanyID == item.CompanyID && p.Name == item.Name {
			return i
		}
	}
	return -1
}

type useHandler struct{}

func (useHandler) Precheck(ac *actionContext) *rejection {
	idx := ac.agent.inventoryIndex(ac.decision.Target)
	if idx < 0 {
		return &rejection{
			reason:  fmt.Sprintf("Tried to USE %s but didn't have it.", ac.decision.Target),
			logLine: fmt.Sprintf("Wanted to use %s but didn't have it.", ac.decision.Target),
		}
	}
	item := ac.agent.Inventory[idx]
	if item.Type != ItemGadget {
		return &rejection{
			reason:  fmt.Sprintf("Tried to USE %s but it is a %s. Use CONSUME instead.", item.Name, item.Type),
			logLine: fmt.Sprintf("Tried to use %s... didn't work.", item.Name),
		}
	}
	ac.item = idx
	return nil
}

func (useHandler) Apply(ac *actionContext) string {
	a := ac.agent
	item := a.Inventory[ac.item]
	a.Vitals = a.Vitals.Apply(item.Effect)
	if roundHalfUp(float64(item.Quality)/10) > GadgetFunThreshold {
		a.shiftOpinion(item.CompanyID, GadgetOpinionDelta)
	}
	a.remember(fmt.Sprintf("Used %s. It was fun.", item.Name))
	return fmt.Sprintf("Used %s. Fun! (Boredom %d)", item.Name, item.Effect.Boredom)
}

type sleepHandler struct{}

func (sleepHandler) Precheck(ac *actionContext) *rejection {
	if ac.agent.Location != LocationHome {
		return &rejection{
			reason:  "Tried to SLEEP but wasn't at Home. Move to 'Home' first.",
			logLine: fmt.Sprintf("Tried to sleep at %s but it was too noisy.", ac.agent.Location),
		}
	}
	return nil
}

func (sleepHandler) Apply(ac *actionContext) string {
	ac.agent.remember("Slept.")
	return "Is sleeping."
}

type restHandler struct{}

func (restHandler) Precheck(*actionContext) *rejection { return nil }

func (restHandler) Apply(ac *actionContext) string {
	ac.agent.Vitals.Energy += RestEnergyRecovery
	ac.agent.remember("Rested.")
	return fmt.Sprintf("Took a rest at %s. Energy +%d.", ac.agent.Location, RestEnergyRecovery)
}

type socializeHandler struct{}

func (socializeHandler) Precheck(ac *actionContext) *rejection {
	if ac.agent.Location != LocationPark {
		return &rejection{
			reason:  "Tried to SOCIALIZE but wasn't at Park. Move to 'Park' first.",
			logLine: "Tried to socialize, but wasn't at the park.",
		}
	}
	return nil
}

func (socializeHandler) Apply(ac *actionContext) string {
	ac.agent.Vitals.Boredom -= SocializeBoredom
	ac.agent.remember("Hung out at the Park.")
	return "Socialized at Park."
}

type applyHandler struct{}

func (applyHandler) Precheck(ac *actionContext) *rejection {
	w := &ac.tick.world
	ci := w.FindCompany(ac.decision.Target)
	if ci < 0 {
		return &rejection{
			reason:  fmt.Sprintf("Tried to APPLY to %s but no such company exists.", ac.decision.Target),
			logLine: fmt.Sprintf("Looked for a job at %s, which doesn't exist.", ac.decision.Target),
		}
	}
	c := w.Companies[ci]
	switch {
	case ac.agent.Employed():
		return &rejection{
			reason:  fmt.Sprintf("Tried to APPLY to %s but already employed at %s.", c.Name, w.CompanyName(ac.agent.Employer)),
			logLine: "Tried to apply for a job while already employed.",
		}
	case c.OpenPositions <= 0:
		return &rejection{
			reason:  fmt.Sprintf("Tried to APPLY to %s but it has no open positions.", c.Name),
			logLine: fmt.Sprintf("%s isn't hiring.", c.Name),
		}
	case slices.Contains(c.Applicants, ac.agent.ID):
		return &rejection{
			reason:  fmt.Sprintf("Tried to APPLY to %s but the application is still pending.", c.Name),
			logLine: fmt.Sprintf("Still waiting to hear back from %s.", c.Name),
		}
	}
	ac.company = ci
	return nil
}

func (applyHandler) Apply(ac *actionContext) string {
	c := &ac.tick.world.Companies[ac.company]
	c.Applicants = append(c.Applicants, ac.agent.ID)
	ac.agent.remember(fmt.Sprintf("Applied to %s.", c.Name))
	return fmt.Sprintf("Applied for a job at %s.", c.Name)
}

type idleHandler struct{}

func (idleHandler) Precheck(*actionContext) *rejection { return nil }

func (idleHandler) Apply(ac *actionContext) string {
	if ac.decision.Action == ActionIdle {
		return ""
	}
	return "Idling."
}
