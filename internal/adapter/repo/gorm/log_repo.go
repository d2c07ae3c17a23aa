package gormrepo

import (
	"context"
	"slices"

	"marketsim/internal/adapter/repo/gorm/model"
	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"

	"gorm.io/gorm"
)

type LogRepo struct {
	db *gorm.DB
}

func NewLogRepo(db *gorm.DB) LogRepo {
	return LogRepo{db: db}
}

func (r LogRepo) Append(ctx context.Context, entries []economy.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]model.SimLogEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, model.SimLogEntry{
			Seq:       e.Seq,
			Day:       int32(e.Day),
			Hour:      int32(e.Time),
			ActorName: e.ActorName,
			Message:   e.Message,
			Kind:      string(e.Kind),
		})
	}
	return getDBFromCtx(ctx, r.db).WithContext(ctx).CreateInBatches(&rows, 200).Error
}

func (r LogRepo) List(ctx context.Context, q ports.LogQuery) ([]economy.LogEntry, error) {
	db := getDBFromCtx(ctx, r.db).WithContext(ctx).Model(&model.SimLogEntry{})
	if q.Actor != "" {
		db = db.Where("actor_name = ?", q.Actor)
	}
	if len(q.Kinds) > 0 {
		kinds := make([]string, 0, len(q.Kinds))
		for _, k := range q.Kinds {
			kinds = append(kinds, string(k))
		}
		db = db.Where("kind IN ?", kinds)
	}
	if q.Day > 0 {
		db = db.Where("day = ?", q.Day)
		if q.ByHour {
			db = db.Where("hour = ?", q.Hour)
		}
	}
	db = db.Order("seq DESC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	var rows []model.SimLogEntry
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	slices.Reverse(rows)
	return toEntries(rows), nil
}

func toEntries(rows []model.SimLogEntry) []economy.LogEntry {
	out := make([]economy.LogEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, economy.LogEntry{
			Seq:       m.Seq,
			Day:       int(m.Day),
			Time:      int(m.Hour),
			ActorName: m.ActorName,
			Message:   m.Message,
			Kind:      economy.LogKind(m.Kind),
		})
	}
	return out
}

