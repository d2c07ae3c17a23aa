package ports

import (
	"context"

	"marketsim/internal/domain/economy"
)

// TickRecord is one committed tick as archived for replay: the decisions that were
// applied and the log they produced.
type TickRecord struct {
	Day       int                `json:"day"`
	Hour      int                `json:"hour"`
	Seed      int64              `json:"seed"`
	Version   int64              `json:"version"`
	Decisions economy.Decisions  `json:"decisions"`
	Entries   []economy.LogEntry `json:"entries"`
	Degraded  []economy.Degraded `json:"degraded,omitempty"`
}

// TickPublisher pushes committed outcomes to live observers.
type TickPublisher interface {
	PublishTick(ctx context.Context, outcome economy.TickOutcome) error
}

type TickArchive interface {
	AppendTick(ctx context.Context, rec TickRecord) error
}
