package inmemory

import (
	"sync"

	"marketsim/internal/domain/economy"
)

type Snapshot struct {
	TickTotal      uint64            `json:"tick_total"`
	TickCommitted  uint64            `json:"tick_committed"`
	TickConflict   uint64            `json:"tick_conflict"`
	TickFailure    uint64            `json:"tick_failure"`
	CEOTicks       uint64            `json:"ceo_ticks"`
	LogEntries     uint64            `json:"log_entries"`
	Degraded       map[string]uint64 `json:"degraded"`
	ActionSuccess  map[string]uint64 `json:"action_success"`
	ActionFailure  map[string]uint64 `json:"action_failure"`
	CompanyActions map[string]uint64 `json:"company_actions"`
	LastDay        int               `json:"last_day"`
	LastHour       int               `json:"last_hour"`
}

type Recorder struct {
	mu             sync.Mutex
	committed      uint64
	conflict       uint64
	failure        uint64
	ceoTicks       uint64
	entries        uint64
	degraded       map[string]uint64
	actionSuccess  map[string]uint64
	actionFailure  map[string]uint64
	companyActions map[string]uint64
	lastDay        int
	lastHour       int
}

func NewRecorder() *Recorder {
	return &Recorder{
		degraded:       map[string]uint64{},
		actionSuccess:  map[string]uint64{},
		actionFailure:  map[string]uint64{},
		companyActions: map[string]uint64{},
	}
}

func (r *Recorder) RecordTick(outcome economy.TickOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed++
	if outcome.CEOsActed {
		r.ceoTicks++
	}
	r.entries += uint64(len(outcome.Entries))
	r.lastDay, r.lastHour = outcome.Day, outcome.Hour
	for _, d := range outcome.Degraded {
		r.degraded[string(d.Kind)]++
	}
	for _, a := range outcome.Agents {
		if a.Sleeping {
			continue
		}
		if a.Result.Success {
			r.actionSuccess[string(a.Result.Action)]++
		} else {
			r.actionFailure[string(a.Result.Action)]++
		}
	}
	for _, c := range outcome.Companies {
		r.companyActions[string(c.Decision.Action)]++
	}
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		TickCommitted:  r.committed,
		TickConflict:   r.conflict,
		TickFailure:    r.failure,
		TickTotal:      r.committed + r.conflict + r.failure,
		CEOTicks:       r.ceoTicks,
		LogEntries:     r.entries,
		Degraded:       copyCounts(r.degraded),
		ActionSuccess:  copyCounts(r.actionSuccess),
		ActionFailure:  copyCounts(r.actionFailure),
		CompanyActions: copyCounts(r.companyActions),
		LastDay:        r.lastDay,
		LastHour:       r.lastHour,
	}
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
