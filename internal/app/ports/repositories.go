package ports

import (
	"context"

	"marketsim/internal/domain/economy"
)

type WorldRepository interface {
	// Load returns ErrNotFound until a world has been seeded.
	Load(ctx context.Context) (economy.World, error)
	// Save stores w when the stored version equals expectedVersion, else ErrConflict.
	// expectedVersion -1 seeds an empty store.
	Save(ctx context.Context, w economy.World, expectedVersion int64) error
}

// LogQuery filters the append-only log. Zero fields match everything; Hour is only
// applied together with Day. Limit keeps the newest entries, returned oldest first.
type LogQuery struct {
	Actor  string
	Kinds  []economy.LogKind
	Day    int
	Hour   int
	ByHour bool
	Limit  int
}

type LogRepository interface {
	Append(ctx context.Context, entries []economy.LogEntry) error
	List(ctx context.Context, q LogQuery) ([]economy.LogEntry, error)
}

// Matches reports whether e passes the query filters, ignoring Limit.
func (q LogQuery) Matches(e economy.LogEntry) bool {
	if q.Actor != "" && q.Actor != e.ActorName {
		return false
	}
	if len(q.Kinds) > 0 {
		found := false
		for _, k := range q.Kinds {
			if k == e.Kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.Day > 0 && q.Day != e.Day {
		return false
	}
	if q.Day > 0 && q.ByHour && q.Hour != e.Time {
		return false
	}
	return true
}
