package sqliterepo

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"
)

type logRow struct {
	Seq       int64  `db:"seq"`
	Day       int    `db:"day"`
	Hour      int    `db:"hour"`
	ActorName string `db:"actor_name"`
	Message   string `db:"message"`
	Kind      string `db:"kind"`
}

type LogRepo struct {
	db *DB
}

func NewLogRepo(db *DB) LogRepo {
	return LogRepo{db: db}
}

func (r LogRepo) Append(ctx context.Context, entries []economy.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	q := r.db.q(ctx)
	for _, e := range entries {
		_, err := q.ExecContext(ctx,
			`INSERT INTO sim_log_entries (seq, day, hour, actor_name, message, kind) VALUES (?, ?, ?, ?, ?, ?)`,
			e.Seq, e.Day, e.Time, e.ActorName, e.Message, string(e.Kind))
		if err != nil {
			return fmt.Errorf("insert log entry %d: %w", e.Seq, err)
		}
	}
	return nil
}

func (r LogRepo) List(ctx context.Context, lq ports.LogQuery) ([]economy.LogEntry, error) {
	where := []string{"1 = 1"}
	args := []any{}
	if lq.Actor != "" {
		where = append(where, "actor_name = ?")
		args = append(args, lq.Actor)
	}
	if len(lq.Kinds) > 0 {
		kinds := make([]string, 0, len(lq.Kinds))
		for _, k := range lq.Kinds {
			kinds = append(kinds, string(k))
		}
		clause, kargs, err := sqlx.In("kind IN (?)", kinds)
		if err != nil {
			return nil, err
		}
		where = append(where, clause)
		args = append(args, kargs...)
	}
	if lq.Day > 0 {
		where = append(where, "day = ?")
		args = append(args, lq.Day)
		if lq.ByHour {
			where = append(where, "hour = ?")
			args = append(args, lq.Hour)
		}
	}
	query := "SELECT seq, day, hour, actor_name, message, kind FROM sim_log_entries WHERE " +
		strings.Join(where, " AND ") + " ORDER BY seq DESC"
	if lq.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, lq.Limit)
	}

	var rows []logRow
	if err := r.db.q(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	slices.Reverse(rows)
	out := make([]economy.LogEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, economy.LogEntry{
			Seq:       m.Seq,
			Day:       m.Day,
			Time:      m.Hour,
			ActorName: m.ActorName,
			Message:   m.Message,
			Kind:      economy.LogKind(m.Kind),
		})
	}
	return out, nil
}
