package repository

import (
	"context"

	"techsat/internal/models"

	"gorm.io/gorm"
)

type AdminUserRepository struct {
	db     *gorm.DB
	policy CallPolicy
}

func NewAdminUserRepository(db *gorm.DB, policy CallPolicy) *AdminUserRepository {
	return &AdminUserRepository{db: db, policy: policy}
}

// GetByUsername returns ErrNotFound when no admin has that username.
func (r *AdminUserRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var list []models.AdminUser
	err := r.policy.do(ctx, "get admin user", func(ctx context.Context) error {
		return r.db.WithContext(ctx).Where("username = ?", username).Limit(1).Find(&list).Error
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return &list[0], nil
}

// SetPasswordHash replaces the stored hash for username.
func (r *AdminUserRepository) SetPasswordHash(ctx context.Context, username, hash string) error {
	return r.policy.do(ctx, "set admin password", func(ctx context.Context) error {
		res := r.db.WithContext(ctx).Model(&models.AdminUser{}).
			Where("username = ?", username).Update("password_hash", hash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
