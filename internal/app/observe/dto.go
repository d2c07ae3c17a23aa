package observe

import (
	"marketsim/internal/domain/clock"
	"marketsim/internal/domain/economy"
)

type WorldView struct {
	Day            int            `json:"day"`
	Hour           int            `json:"hour"`
	Phase          clock.Phase    `json:"phase"`
	NextPhaseHours int            `json:"next_phase_in_hours"`
	Version        int64          `json:"version"`
	ActiveAgents   int            `json:"active_agents"`
	Companies      []CompanyView  `json:"companies"`
	Market         []ProductView  `json:"market"`
	Agents         []AgentSummary `json:"agents"`
}

type CompanyView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	CEOName         string  `json:"ceo_name"`
	Strategy        string  `json:"strategy"`
	Funds           float64 `json:"funds"`
	Reputation      int     `json:"reputation"`
	Employees       int     `json:"employees"`
	Applicants      int     `json:"applicants"`
	OpenPositions   int     `json:"open_positions"`
	Wage            float64 `json:"wage"`
	Products        int     `json:"products"`
	LastObservation string  `json:"last_observation,omitempty"`
}

// ProductView is a market listing. AverageRating is on the 1-10 satisfaction scale
// and only meaningful when RatingCount > 0.
type ProductView struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	CompanyID     string           `json:"company_id"`
	CompanyName   string           `json:"company_name"`
	ItemType      economy.ItemType `json:"item_type"`
	Price         float64          `json:"price"`
	Quality       int              `json:"quality"`
	Effect        economy.Effect   `json:"effect"`
	AverageRating int              `json:"average_rating"`
	RatingCount   int              `json:"rating_count"`
}

type AgentSummary struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Location   economy.Location `json:"location"`
	Vitals     economy.Vitals   `json:"vitals"`
	Active     bool             `json:"active"`
	Sleeping   bool             `json:"sleeping"`
	Employer   string           `json:"employer,omitempty"`
	LastAction string           `json:"last_action,omitempty"`
}

type AgentView struct {
	Agent        economy.Agent `json:"agent"`
	EmployerName string        `json:"employer_name,omitempty"`
	Inventory    []ItemView    `json:"inventory"`
}

type ItemView struct {
	economy.InventoryItem
	CompanyName string `json:"company_name"`
}

type CompanyDetail struct {
	Company    economy.Company `json:"company"`
	Products   []ProductView   `json:"products"`
	Employees  []AgentSummary  `json:"employees"`
	Applicants []AgentSummary  `json:"applicants"`
}
