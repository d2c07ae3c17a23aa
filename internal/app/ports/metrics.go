package ports

import "marketsim/internal/domain/economy"

type TickMetrics interface {
	RecordTick(outcome economy.TickOutcome)
	RecordConflict()
	RecordFailure()
}
