package memory

import (
	"context"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

type LogRepo struct {
	store *Store
}

func NewLogRepo(store *Store) LogRepo {
	return LogRepo{store: store}
}

func (r LogRepo) Append(ctx context.Context, entries []economy.LogEntry) error {
	return r.store.write(ctx, func() error {
		r.store.logs = append(r.store.logs, entries...)
		return nil
	})
}

func (r LogRepo) List(ctx context.Context, q ports.LogQuery) ([]economy.LogEntry, error) {
	out := []economy.LogEntry{}
	r.store.read(ctx, func() {
		for i := len(r.store.logs) - 1; i >= 0; i-- {
			if q.Limit > 0 && len(out) == q.Limit {
				break
			}
			if q.Matches(r.store.logs[i]) {
				out = append(out, r.store.logs[i])
			}
		}
	})
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
