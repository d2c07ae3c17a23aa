// Package autopilot is a rule-based oracle that needs no network access. Agents
// chase their most urgent need and companies follow a simple playbook, so runs
// are reproducible.
package autopilot

import (
	"context"
	"fmt"
	"slices"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

const (
	hungry          = 60
	tired           = 30
	bored           = 70
	workStart       = 9
	workEnd         = 17
	aggressiveFunds = 2000
	minRatings      = 3
	starterQuality  = 40
	starterPrice    = 8
)

type Oracle struct{}

var _ ports.Oracle = Oracle{}

func New() Oracle { return Oracle{} }

func (Oracle) DecideAgent(_ context.Context, in ports.AgentContext) (economy.AgentDecision, error) {
	return decideAgent(in), nil
}

func (Oracle) DecideCompany(_ context.Context, in ports.CompanyContext) (economy.CeoDecision, error) {
	return decideCompany(in), nil
}

func (Oracle) Observe(_ context.Context, in ports.ObservationContext) (string, error) {
	if len(in.Lines) == 0 {
		return "Quiet hour. Nobody seems to be shopping.", nil
	}
	return fmt.Sprintf("%d things happened last hour. Latest: %s", len(in.Lines), in.Lines[len(in.Lines)-1]), nil
}

func decision(thought string, action economy.ActionType, target string) economy.AgentDecision {
	return economy.AgentDecision{ThoughtProcess: thought, Action: action, Target: target}
}

func moveTo(thought string, loc economy.Location) economy.AgentDecision {
	return decision(thought, economy.ActionMove, string(loc))
}

func decideAgent(in ports.AgentContext) economy.AgentDecision {
	a := in.Agent
	v := a.Vitals

	if v.Hunger > hungry {
		if item, ok := firstItem(a, true); ok {
			return decision("Eating what I have.", economy.ActionConsume, item)
		}
		if p, ok := bestAffordableFood(a, in.Market); ok {
			if a.Location == economy.LocationSupermarket {
				return decision("Buying something to eat.", economy.ActionBuy, p.Name)
			}
			return moveTo("Heading to the store for food.", economy.LocationSupermarket)
		}
	}

	if v.Energy < tired {
		if a.Location == economy.LocationHome {
			return decision("Exhausted, going to bed.", economy.ActionSleep, string(economy.LocationHome))
		}
		return decision("Taking a quick rest.", economy.ActionRest, "Self")
	}

	if v.Boredom > bored {
		if item, ok := firstItem(a, false); ok {
			return decision("Playing with my gadget.", economy.ActionUse, item)
		}
		if a.Location == economy.LocationPark {
			return decision("Hanging out with people.", economy.ActionSocialize, string(economy.LocationPark))
		}
		return moveTo("Need some fresh air.", economy.LocationPark)
	}

	if !a.Employed() {
		if c, ok := hiringCompany(a.ID, in.Companies); ok {
			return decision("Looking for a steady job.", economy.ActionApply, c.Name)
		}
	}

	if in.Hour >= workStart && in.Hour < workEnd {
		if a.Location == economy.LocationOffice {
			return decision("Working my shift.", economy.ActionWork, string(economy.LocationOffice))
		}
		return moveTo("Time to go to work.", economy.LocationOffice)
	}

	if a.Location != economy.LocationHome {
		return moveTo("Heading home.", economy.LocationHome)
	}
	if v.Energy < economy.WakeEnergyThreshold {
		return decision("Early night.", economy.ActionSleep, string(economy.LocationHome))
	}
	return decision("Nothing to do.", economy.ActionIdle, "Self")
}

// firstItem returns the first consumable (or gadget when consumable is false) in the inventory.
func firstItem(a economy.Agent, consumable bool) (string, bool) {
	for _, it := range a.Inventory {
		if it.Type.Consumable() == consumable {
			return it.Name, true
		}
	}
	return "", false
}

// bestAffordableFood prefers the strongest hunger effect, then quality, then price.
func bestAffordableFood(a economy.Agent, market []economy.Product) (economy.Product, bool) {
	var (
		best  economy.Product
		found bool
	)
	for _, p := range market {
		if !p.ItemType.Consumable() || p.Effect.Hunger >= 0 || p.Price > a.Vitals.Money {
			continue
		}
		if !found || better(p, best) {
			best, found = p, true
		}
	}
	return best, found
}

func better(p, q economy.Product) bool {
	if p.Effect.Hunger != q.Effect.Hunger {
		return p.Effect.Hunger < q.Effect.Hunger
	}
	if p.Quality != q.Quality {
		return p.Quality > q.Quality
	}
	return p.Price < q.Price
}

func hiringCompany(agentID string, companies []economy.Company) (economy.Company, bool) {
	for _, c := range companies {
		if slices.Contains(c.Applicants, agentID) {
			return economy.Company{}, false
		}
	}
	for _, c := range companies {
		if c.OpenPositions > 0 {
			return c, true
		}
	}
	return economy.Company{}, false
}

func decideCompany(in ports.CompanyContext) economy.CeoDecision {
	c := in.Company

	if len(in.Applicants) > 0 {
		first := in.Applicants[0]
		if c.OpenPositions > 0 {
			return economy.CeoDecision{ThoughtProcess: "We need hands on deck.", Action: economy.CeoHire, ApplicantID: first.ID}
		}
		return economy.CeoDecision{ThoughtProcess: "No openings right now.", Action: economy.CeoReject, ApplicantID: first.ID}
	}

	var mine, rivals []economy.Product
	for _, p := range in.Market {
		if p.CompanyID == c.ID {
			mine = append(mine, p)
		} else {
			rivals = append(rivals, p)
		}
	}

	for _, p := range mine {
		if avg, ok := p.AverageRating(); ok && len(p.Ratings) >= minRatings && avg < economy.HatedItThreshold {
			return economy.CeoDecision{
				ThoughtProcess:  fmt.Sprintf("%s is hurting our brand.", p.Name),
				Action:          economy.CeoWithdrawProduct,
				TargetProductID: p.ID,
			}
		}
	}

	if len(mine) == 0 && c.Funds > economy.ProductionCost(starterQuality)*economy.LaunchFundsMultiple {
		return economy.CeoDecision{
			ThoughtProcess: "We need something on the shelves.",
			Action:         economy.CeoLaunchProduct,
			ProductName:    c.Name + " Snack",
			ProductPrice:   starterPrice,
			ProductQuality: starterQuality,
			ProductType:    economy.ProductFood,
		}
	}

	if c.Funds > aggressiveFunds {
		if p, ok := topRated(rivals); ok {
			return economy.CeoDecision{
				ThoughtProcess:  fmt.Sprintf("Customers love %s. Time to undercut.", p.Name),
				Action:          economy.CeoUndercut,
				TargetProductID: p.ID,
			}
		}
		if p, ok := topRated(mine); ok {
			return economy.CeoDecision{
				ThoughtProcess:  fmt.Sprintf("%s is a hit. Let's make a better one.", p.Name),
				Action:          economy.CeoImprove,
				TargetProductID: p.ID,
			}
		}
	}

	return economy.CeoDecision{ThoughtProcess: "Holding position.", Action: economy.CeoWait}
}

// topRated returns the best product rated at least LovedItThreshold-1 on average.
func topRated(products []economy.Product) (economy.Product, bool) {
	var (
		best    economy.Product
		bestAvg int
		found   bool
	)
	for _, p := range products {
		avg, ok := p.AverageRating()
		if !ok || len(p.Ratings) < minRatings || avg < economy.LovedItThreshold-1 {
			continue
		}
		if !found || avg > bestAvg {
			best, bestAvg, found = p, avg, true
		}
	}
	return best, found
}
