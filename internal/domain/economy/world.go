package economy

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidWorld = errors.New("invalid world")

// World is the whole simulation state. Agents keep roster order and companies keep
// registration order; both orders are part of the resolution rules.
type World struct {
	Day            int       `json:"day"`
	Time           int       `json:"time"`
	Agents         []Agent   `json:"agents"`
	Companies      []Company `json:"companies"`
	Market         []Product `json:"market"`
	NextProductSeq int       `json:"next_product_seq"`
	NextLogSeq     int64     `json:"next_log_seq"`
	Version        int64     `json:"version"`
}

func (w World) Clone() World {
	out := w
	out.Agents = make([]Agent, len(w.Agents))
	for i, a := range w.Agents {
		out.Agents[i] = a.clone()
	}
	out.Companies = make([]Company, len(w.Companies))
	for i, c := range w.Companies {
		out.Companies[i] = c.clone()
	}
	out.Market = make([]Product, len(w.Market))
	for i, p := range w.Market {
		out.Market[i] = p.clone()
	}
	return out
}

func (a Agent) clone() Agent {
	out := a
	out.Personality.Traits = append([]string(nil), a.Personality.Traits...)
	out.Inventory = append([]InventoryItem(nil), a.Inventory...)
	out.History = append([]string(nil), a.History...)
	out.Memory.PurchaseHistory = append([]PurchaseRecord(nil), a.Memory.PurchaseHistory...)
	out.Memory.Learnings = append([]string(nil), a.Memory.Learnings...)
	out.Memory.RecentEvents = append([]string(nil), a.Memory.RecentEvents...)
	out.Memory.ActionHistory = append([]ActionResult(nil), a.Memory.ActionHistory...)
	out.Memory.BrandOpinions = make(map[string]int, len(a.Memory.BrandOpinions))
	for k, v := range a.Memory.BrandOpinions {
		out.Memory.BrandOpinions[k] = v
	}
	if a.LastDecision != nil {
		d := *a.LastDecision
		out.LastDecision = &d
	}
	return out
}

func (c Company) clone() Company {
	out := c
	out.Employees = append([]string(nil), c.Employees...)
	out.Applicants = append([]string(nil), c.Applicants...)
	return out
}

func (p Product) clone() Product {
	out := p
	out.Ratings = append([]int(nil), p.Ratings...)
	return out
}

func (w World) AgentIndex(id string) int {
	for i := range w.Agents {
		if w.Agents[i].ID == id {
			return i
		}
	}
	return -1
}

func (w World) CompanyIndex(id string) int {
	for i := range w.Companies {
		if w.Companies[i].ID == id {
			return i
		}
	}
	return -1
}

// FindCompany resolves a company by id or case-insensitive name.
func (w World) FindCompany(ref string) int {
	ref = strings.TrimSpace(ref)
	if i := w.CompanyIndex(ref); i >= 0 {
		return i
	}
	for i := range w.Companies {
		if strings.EqualFold(w.Companies[i].Name, ref) {
			return i
		}
	}
	return -1
}

func (w World) ProductIndex(id string) int {
	for i := range w.Market {
		if w.Market[i].ID == id {
			return i
		}
	}
	return -1
}

// ProductByName matches a market product by case-insensitive exact name.
func (w World) ProductByName(name string) int {
	name = strings.TrimSpace(name)
	for i := range w.Market {
		if strings.EqualFold(w.Market[i].Name, name) {
			return i
		}
	}
	return -1
}

func (w World) CompanyName(id string) string {
	if i := w.CompanyIndex(id); i >= 0 {
		return w.Companies[i].Name
	}
	return "Unknown"
}

func (w World) ProductsOf(companyID string) []Product {
	out := []Product{}
	for _, p := range w.Market {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out
}

func (w *World) newProductID() string {
	for {
		if w.NextProductSeq <= 0 {
			w.NextProductSeq = 1
		}
		id := fmt.Sprintf("prod_%d", w.NextProductSeq)
		w.NextProductSeq++
		if w.ProductIndex(id) < 0 {
			return id
		}
	}
}

// Validate checks referential integrity of a seeded or loaded world.
func (w World) Validate() error {
	if w.Time < 0 || w.Time > 23 {
		return fmt.Errorf("%w: time %d out of range", ErrInvalidWorld, w.Time)
	}
	companies := map[string]bool{}
	for _, c := range w.Companies {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("%w: company without id", ErrInvalidWorld)
		}
		if companies[c.ID] {
			return fmt.Errorf("%w: duplicate company %q", ErrInvalidWorld, c.ID)
		}
		if c.Reputation < 0 || c.Reputation > 100 {
			return fmt.Errorf("%w: company %q reputation %d out of range", ErrInvalidWorld, c.ID, c.Reputation)
		}
		if c.OpenPositions < 0 {
			return fmt.Errorf("%w: company %q has negative open positions", ErrInvalidWorld, c.ID)
		}
		companies[c.ID] = true
	}
	products := map[string]bool{}
	for _, p := range w.Market {
		if products[p.ID] {
			return fmt.Errorf("%w: duplicate product %q", ErrInvalidWorld, p.ID)
		}
		if !companies[p.CompanyID] {
			return fmt.Errorf("%w: product %q references unknown company %q", ErrInvalidWorld, p.ID, p.CompanyID)
		}
		if p.Quality < QualityMin || p.Quality > QualityMax {
			return fmt.Errorf("%w: product %q quality %d out of range", ErrInvalidWorld, p.ID, p.Quality)
		}
		products[p.ID] = true
	}
	agents := map[string]bool{}
	for _, a := range w.Agents {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("%w: agent without id", ErrInvalidWorld)
		}
		if agents[a.ID] {
			return fmt.Errorf("%w: duplicate agent %q", ErrInvalidWorld, a.ID)
		}
		if a.Vitals != a.Vitals.Clamped() {
			return fmt.Errorf("%w: agent %q vitals out of range", ErrInvalidWorld, a.ID)
		}
		if _, ok := ParseLocation(string(a.Location)); !ok {
			return fmt.Errorf("%w: agent %q at unknown location %q", ErrInvalidWorld, a.ID, a.Location)
		}
		if a.Employer != "" && !companies[a.Employer] {
			return fmt.Errorf("%w: agent %q employed by unknown company %q", ErrInvalidWorld, a.ID, a.Employer)
		}
		agents[a.ID] = true
	}
	return nil
}

// Normalize fills nil collections so freshly decoded worlds behave like seeded ones.
func (w *World) Normalize() {
	for i := range w.Agents {
		a := &w.Agents[i]
		if a.Memory.BrandOpinions == nil {
			a.Memory.BrandOpinions = map[string]int{}
		}
		if a.Inventory == nil {
			a.Inventory = []InventoryItem{}
		}
		if a.ThinkFrequency <= 0 {
			a.ThinkFrequency = 1
		}
	}
	for i := range w.Companies {
		c := &w.Companies[i]
		if c.Employees == nil {
			c.Employees = []string{}
		}
		if c.Applicants == nil {
			c.Applicants = []string{}
		}
	}
	for i := range w.Market {
		if w.Market[i].Ratings == nil {
			w.Market[i].Ratings = []int{}
		}
	}
	if w.Market == nil {
		w.Market = []Product{}
	}
	if w.NextProductSeq <= len(w.Market) {
		w.NextProductSeq = len(w.Market) + 1
	}
}
