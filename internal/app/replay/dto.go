package replay

import (
	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

type LogRequest struct {
	Actor string
	Kind  string
	Day   int
	Hour  *int
	Limit int
}

type LogResponse struct {
	Entries []economy.LogEntry `json:"entries"`
}

type ReplayRequest struct {
	Seed    economy.World
	Records []ports.TickRecord
	// Stop after this many records; 0 replays everything.
	MaxTicks int
}

// Divergence is the first log line where a replayed tick differs from the archive.
type Divergence struct {
	Day   int    `json:"day"`
	Hour  int    `json:"hour"`
	Index int    `json:"index"`
	Want  string `json:"want"`
	Got   string `json:"got"`
}

type ReplayResponse struct {
	Ticks       int                `json:"ticks"`
	Divergences []Divergence       `json:"divergences"`
	Final       economy.World      `json:"final"`
	Entries     []economy.LogEntry `json:"-"`
}
