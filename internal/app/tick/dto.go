package tick

import "marketsim/internal/domain/economy"

type Response struct {
	Outcome economy.TickOutcome `json:"outcome"`
	Version int64               `json:"version"`
}
