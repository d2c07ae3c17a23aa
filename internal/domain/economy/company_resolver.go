package economy

import (
	"fmt"
	"math"
	"slices"
)

// resolveCompany applies one CEO decision for the company at idx. Everything it
// touches is visible to the companies resolved after it in the same tick.
func (t *Tick) resolveCompany(idx int, d CeoDecision) CompanyOutcome {
	c := &t.world.Companies[idx]
	t.log(c.Name, fmt.Sprintf("CEO %s: %s", c.CEOName, d.ThoughtProcess), LogMarket)

	out := CompanyOutcome{CompanyID: c.ID, Decision: d}
	var msg string
	var ok bool
	switch d.Action {
	case CeoLaunchProduct:
		if d.ProductName == "" {
			msg = "Tried to LAUNCH_PRODUCT but gave no product name."
			break
		}
		ok, msg, out.ProductID = t.commitLaunch(c, d.Action, launchProduct(c.ID, d))
	case CeoUndercut, CeoImprove:
		ti := -1
		if d.TargetProductID != "" {
			ti = t.world.ProductIndex(d.TargetProductID)
		}
		if ti < 0 {
			msg = fmt.Sprintf("Tried to %s but couldn't find target product.", d.Action)
			break
		}
		ok, msg, out.ProductID = t.commitLaunch(c, d.Action, deriveProduct(c.ID, d, t.world.Market[ti]))
	case CeoWithdrawProduct:
		pi := t.world.ProductIndex(d.TargetProductID)
		if d.TargetProductID == "" || pi < 0 {
			msg = fmt.Sprintf("Tried to %s but couldn't find target product.", d.Action)
			break
		}
		t.world.Market = slices.Delete(t.world.Market, pi, pi+1)
		ok, msg = true, "WITHDREW a product from market."
	case CeoHire:
		ok, msg = t.hire(c, d.ApplicantID)
	case CeoReject:
		ok, msg = t.reject(c, d.ApplicantID)
	default:
		return CompanyOutcome{CompanyID: c.ID, Decision: d, Success: true, Message: "Waited."}
	}
	t.log(c.Name, msg, LogMarket)
	out.Success = ok
	out.Message = msg
	return out
}

// commitLaunch puts p on the market when the company can fund a production ramp of
// LaunchFundsMultiple units. Launching itself does not debit funds.
func (t *Tick) commitLaunch(c *Company, action CeoAction, p Product) (bool, string, string) {
	if c.Funds <= p.Cost*LaunchFundsMultiple {
		return false, fmt.Sprintf("Cannot afford to launch %s.", p.Name), ""
	}
	p.ID = t.world.newProductID()
	t.world.Market = append(t.world.Market, p)
	return true, fmt.Sprintf("%s: Launched %s (%s) [Qual: %d]", action, p.Name, formatMoney(p.Price), p.Quality), p.ID
}

func launchProduct(companyID string, d CeoDecision) Product {
	quality := d.ProductQuality
	if quality == 0 {
		quality = DefaultLaunchQuality
	}
	quality = Clamp(quality, QualityMin, QualityMax)
	price := d.ProductPrice
	if price == 0 {
		price = DefaultLaunchPrice
	}
	p := Product{
		CompanyID: companyID,
		Name:      d.ProductName,
		ItemType:  ItemFood,
		Price:     price,
		Quality:   quality,
		Cost:      ProductionCost(quality),
		Ratings:   []int{},
	}
	q := float64(quality)
	switch d.ProductType {
	case ProductFood:
		p.Effect.Hunger = roundHalfUp(-20 - q/5)
	case ProductDrink:
		p.Effect.Energy = roundHalfUp(15 + q/10)
	case ProductGadget:
		p.ItemType = ItemGadget
		p.Effect.Boredom = roundHalfUp(-30 - q/2)
	}
	return p
}

// deriveProduct builds an UNDERCUT or IMPROVE variant of target.
func deriveProduct(companyID string, d CeoDecision, target Product) Product {
	improve := d.Action == CeoImprove
	quality := d.ProductQuality
	if quality == 0 {
		quality = target.Quality + UndercutQualityDelta
		if improve {
			quality = target.Quality + ImproveQualityDelta
		}
	}
	quality = Clamp(quality, QualityMin, QualityMax)
	price := d.ProductPrice
	if price == 0 {
		price = target.Price * UndercutPriceFactor
		if improve {
			price = target.Price * ImprovePriceFactor
		}
	}
	name := d.ProductName
	if name == "" {
		name = "Budget " + target.Name
		if improve {
			name = target.Name + " Pro"
		}
	}
	effect := target.Effect
	if improve {
		if effect.Hunger != 0 {
			effect.Hunger += ImproveHungerBoost
		}
		if effect.Boredom != 0 {
			effect.Boredom += ImproveBoredomBoost
		}
	}
	return Product{
		CompanyID: companyID,
		Name:      name,
		ItemType:  target.ItemType,
		Price:     math.Floor(price),
		Quality:   quality,
		Cost:      ProductionCost(quality),
		Effect:    effect,
		Ratings:   []int{},
	}
}

func ProductionCost(quality int) float64 {
	return math.Floor(float64(quality)*0.3 + 2)
}
