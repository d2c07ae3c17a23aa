package observe

import (
	"context"
	"errors"
	"strings"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/clock"
	"marketsim/internal/domain/economy"
)

var ErrInvalidRequest = errors.New("invalid observe request")

type UseCase struct {
	Worlds ports.WorldRepository
	Clock  clock.Clock
}

func (u UseCase) World(ctx context.Context) (WorldView, error) {
	w, err := u.Worlds.Load(ctx)
	if err != nil {
		return WorldView{}, err
	}
	return Project(w, u.Clock), nil
}

// Project builds the world view of w. A zero clock means the default cycle.
func Project(w economy.World, c clock.Clock) WorldView {
	if c == (clock.Clock{}) {
		c = clock.Default()
	}
	phase, remain := c.PhaseAt(w.Time)
	out := WorldView{
		Day:            w.Day,
		Hour:           w.Time,
		Phase:          phase,
		NextPhaseHours: remain,
		Version:        w.Version,
		Companies:      make([]CompanyView, 0, len(w.Companies)),
		Market:         projectMarket(w, w.Market),
		Agents:         make([]AgentSummary, 0, len(w.Agents)),
	}
	for _, co := range w.Companies {
		out.Companies = append(out.Companies, CompanyView{
			ID:              co.ID,
			Name:            co.Name,
			CEOName:         co.CEOName,
			Strategy:        co.Strategy,
			Funds:           co.Funds,
			Reputation:      co.Reputation,
			Employees:       len(co.Employees),
			Applicants:      len(co.Applicants),
			OpenPositions:   co.OpenPositions,
			Wage:            co.Wage,
			Products:        len(w.ProductsOf(co.ID)),
			LastObservation: co.LastObservation,
		})
	}
	for _, a := range w.Agents {
		s := summarize(a)
		if s.Active {
			out.ActiveAgents++
		}
		out.Agents = append(out.Agents, s)
	}
	return out
}

func (u UseCase) Agent(ctx context.Context, id string) (AgentView, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return AgentView{}, ErrInvalidRequest
	}
	w, err := u.Worlds.Load(ctx)
	if err != nil {
		return AgentView{}, err
	}
	i := w.AgentIndex(id)
	if i < 0 {
		return AgentView{}, ports.ErrNotFound
	}
	a := w.Agents[i]
	out := AgentView{Agent: a, Inventory: make([]ItemView, 0, len(a.Inventory))}
	if a.Employed() {
		out.EmployerName = w.CompanyName(a.Employer)
	}
	for _, item := range a.Inventory {
		out.Inventory = append(out.Inventory, ItemView{InventoryItem: item, CompanyName: w.CompanyName(item.CompanyID)})
	}
	return out, nil
}

// Company resolves id first as a company id, then as a company name.
func (u UseCase) Company(ctx context.Context, id string) (CompanyDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return CompanyDetail{}, ErrInvalidRequest
	}
	w, err := u.Worlds.Load(ctx)
	if err != nil {
		return CompanyDetail{}, err
	}
	i := w.FindCompany(id)
	if i < 0 {
		return CompanyDetail{}, ports.ErrNotFound
	}
	co := w.Companies[i]
	return CompanyDetail{
		Company:    co,
		Products:   projectMarket(w, w.ProductsOf(co.ID)),
		Employees:  summarizeIDs(w, co.Employees),
		Applicants: summarizeIDs(w, co.Applicants),
	}, nil
}

func projectMarket(w economy.World, products []economy.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		avg, _ := p.AverageRating()
		out = append(out, ProductView{
			ID:            p.ID,
			Name:          p.Name,
			CompanyID:     p.CompanyID,
			CompanyName:   w.CompanyName(p.CompanyID),
			ItemType:      p.ItemType,
			Price:         p.Price,
			Quality:       p.Quality,
			Effect:        p.Effect,
			AverageRating: avg,
			RatingCount:   len(p.Ratings),
		})
	}
	return out
}

func summarize(a economy.Agent) AgentSummary {
	s := AgentSummary{
		ID:       a.ID,
		Name:     a.Name,
		Location: a.Location,
		Vitals:   a.Vitals,
		Active:   a.Spawned,
		Employer: a.Employer,
	}
	if a.LastDecision != nil {
		s.LastAction = string(a.LastDecision.Action)
		s.Sleeping = a.LastDecision.Action == economy.ActionSleep && a.Vitals.Energy < economy.WakeEnergyThreshold
	}
	return s
}

func summarizeIDs(w economy.World, ids []string) []AgentSummary {
	out := make([]AgentSummary, 0, len(ids))
	for _, id := range ids {
		if i := w.AgentIndex(id); i >= 0 {
			out = append(out, summarize(w.Agents[i]))
		}
	}
	return out
}
