package ports

import (
	"context"

	"marketsim/internal/domain/economy"
)

// AgentContext is everything an agent sees when deciding its next action.
type AgentContext struct {
	Agent     economy.Agent
	Day       int
	Hour      int
	Market    []economy.Product
	Companies []economy.Company
	Locations []economy.Location
}

// CompanyContext is a CEO's view on a deciding hour. Intel holds the latest
// thought/action log lines, Applicants the agents waiting in the hiring pool.
type CompanyContext struct {
	Company    economy.Company
	Day        int
	Hour       int
	Market     []economy.Product
	Companies  []economy.Company
	Intel      []string
	Applicants []economy.Agent
}

type ObservationContext struct {
	Company economy.Company
	Day     int
	Hour    int
	Lines   []string
}

// Oracle produces decisions. Implementations may fail; callers fall back to the
// default decision and never surface the error.
type Oracle interface {
	DecideAgent(ctx context.Context, in AgentContext) (economy.AgentDecision, error)
	DecideCompany(ctx context.Context, in CompanyContext) (economy.CeoDecision, error)
	Observe(ctx context.Context, in ObservationContext) (string, error)
}
