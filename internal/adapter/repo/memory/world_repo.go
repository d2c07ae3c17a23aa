package memory

import (
	"context"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

type WorldRepo struct {
	store *Store
}

func NewWorldRepo(store *Store) WorldRepo {
	return WorldRepo{store: store}
}

func (r WorldRepo) Load(ctx context.Context) (economy.World, error) {
	var (
		w   economy.World
		err error
	)
	r.store.read(ctx, func() {
		if r.store.world == nil {
			err = ports.ErrNotFound
			return
		}
		w = r.store.world.Clone()
	})
	return w, err
}

func (r WorldRepo) Save(ctx context.Context, w economy.World, expectedVersion int64) error {
	return r.store.write(ctx, func() error {
		switch {
		case r.store.world == nil && expectedVersion != -1:
			return ports.ErrConflict
		case r.store.world != nil && r.store.world.Version != expectedVersion:
			return ports.ErrConflict
		}
		c := w.Clone()
		r.store.world = &c
		return nil
	})
}
