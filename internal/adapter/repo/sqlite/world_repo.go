package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

type worldRow struct {
	Version int64  `db:"version"`
	State   string `db:"state"`
}

type WorldRepo struct {
	db *DB
}

func NewWorldRepo(db *DB) WorldRepo {
	return WorldRepo{db: db}
}

func (r WorldRepo) Load(ctx context.Context) (economy.World, error) {
	var row worldRow
	err := r.db.q(ctx).GetContext(ctx, &row, `SELECT version, state FROM world_snapshots WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return economy.World{}, ports.ErrNotFound
	}
	if err != nil {
		return economy.World{}, err
	}
	var w economy.World
	if err := json.Unmarshal([]byte(row.State), &w); err != nil {
		return economy.World{}, fmt.Errorf("decode world snapshot: %w", err)
	}
	w.Version = row.Version
	w.Normalize()
	return w, nil
}

func (r WorldRepo) Save(ctx context.Context, w economy.World, expectedVersion int64) error {
	state, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode world snapshot: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	q := r.db.q(ctx)
	if expectedVersion == -1 {
		_, err := q.ExecContext(ctx,
			`INSERT INTO world_snapshots (id, day, hour, version, state, updated_at) VALUES (1, ?, ?, ?, ?, ?)`,
			w.Day, w.Time, w.Version, string(state), now)
		if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ports.ErrConflict
		}
		return err
	}
	res, err := q.ExecContext(ctx,
		`UPDATE world_snapshots SET day = ?, hour = ?, version = ?, state = ?, updated_at = ? WHERE id = 1 AND version = ?`,
		w.Day, w.Time, w.Version, string(state), now, expectedVersion)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrConflict
	}
	return nil
}
