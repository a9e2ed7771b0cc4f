package repository

import (
	"context"
	"errors"

	"github.com/ismailhaddouche/PiControl/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfigRepository interface {
	Get(ctx context.Context, key string) (*model.ConfigEntry, error)
	// Set upserts the key, last writer wins.
	Set(ctx context.Context, key, value string) error
	List(ctx context.Context) ([]model.ConfigEntry, error)
}

type configRepo struct{ db *gorm.DB }

func NewConfigRepository(db *gorm.DB) ConfigRepository { return &configRepo{db: db} }

func (r *configRepo) Get(ctx context.Context, key string) (*model.ConfigEntry, error) {
	var e model.ConfigEntry
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *configRepo) Set(ctx context.Context, key, value string) error {
	entry := model.ConfigEntry{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (r *configRepo) List(ctx context.Context) ([]model.ConfigEntry, error) {
	var entries []model.ConfigEntry
	err := r.db.WithContext(ctx).Order("key ASC").Find(&entries).Error
	return entries, err
}
