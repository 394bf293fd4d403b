package repository

import (
	"context"

	"techsat/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	db     *gorm.DB
	policy CallPolicy
}

func NewSettingRepository(db *gorm.DB, policy CallPolicy) *SettingRepository {
	return &SettingRepository{db: db, policy: policy}
}

// Get returns the value stored under key, or "" when no row exists.
func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	var rows []models.AppSetting
	err := r.policy.do(ctx, "get setting "+key, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Where("setting_key = ?", key).Limit(1).Find(&rows).Error
	})
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].SettingValue, nil
}

// Set upserts the row keyed by key.
func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	return r.policy.do(ctx, "set setting "+key, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
		}).Create(&models.AppSetting{SettingKey: key, SettingValue: value}).Error
	})
}

func (r *SettingRepository) GetAll(ctx context.Context) ([]models.AppSetting, error) {
	var list []models.AppSetting
	err := r.policy.do(ctx, "list settings", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Order("setting_key ASC").Find(&list).Error
	})
	return list, err
}

// SeedDefaults inserts default settings if they don't already exist.
func (r *SettingRepository) SeedDefaults(ctx context.Context, defaults map[string]string) error {
	for k, v := range defaults {
		key, value := k, v
		err := r.policy.do(ctx, "seed setting "+key, func(ctx context.Context) error {
			return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.AppSetting{SettingKey: key, SettingValue: value}).Error
		})
		if err != nil {
			return err
		}
	}
	return nil
}
