package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketsim/internal/adapter/repo/gorm/model"
	"marketsim/internal/app/ports"
	"marketsim/internal/domain/economy"

	"gorm.io/gorm"
)

// worldRowID is the single row holding the shared world.
const worldRowID int16 = 1

type WorldRepo struct {
	db *gorm.DB
}

func NewWorldRepo(db *gorm.DB) WorldRepo {
	return WorldRepo{db: db}
}

func (r WorldRepo) Load(ctx context.Context) (economy.World, error) {
	var m model.WorldSnapshot
	if err := getDBFromCtx(ctx, r.db).WithContext(ctx).Where("id = ?", worldRowID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return economy.World{}, ports.ErrNotFound
		}
		return economy.World{}, err
	}
	var w economy.World
	if err := json.Unmarshal([]byte(m.State), &w); err != nil {
		return economy.World{}, fmt.Errorf("decode world snapshot: %w", err)
	}
	w.Version = m.Version
	w.Normalize()
	return w, nil
}

func (r WorldRepo) Save(ctx context.Context, w economy.World, expectedVersion int64) error {
	state, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode world snapshot: %w", err)
	}
	db := getDBFromCtx(ctx, r.db).WithContext(ctx)
	if expectedVersion == -1 {
		m := model.WorldSnapshot{
			ID:        worldRowID,
			Day:       int32(w.Day),
			Hour:      int32(w.Time),
			Version:   w.Version,
			State:     string(state),
			UpdatedAt: time.Now(),
		}
		if err := db.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.WorldSnapshot{}).
		Where("id = ? AND version = ?", worldRowID, expectedVersion).
		Updates(map[string]any{
			"day":        int32(w.Day),
			"hour":       int32(w.Time),
			"version":    w.Version,
			"state":      string(state),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}
