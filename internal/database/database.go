package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"techsat/config"
	"techsat/internal/models"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.BackendConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := Open(dialector)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Open applies the gorm settings every backend shares.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
}

// Dialector picks the gorm driver and joins the endpoint with the access key.
func Dialector(cfg *config.BackendConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		u, err := url.Parse(cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("backend endpoint: %w", err)
		}
		if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			return nil, fmt.Errorf("backend endpoint: unexpected scheme %q", u.Scheme)
		}
		user := "postgres"
		if u.User != nil && u.User.Username() != "" {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, cfg.AccessKey)
		return postgres.Open(u.String()), nil
	case "mysql":
		mcfg, err := mysqldriver.ParseDSN(cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("backend endpoint: %w", err)
		}
		mcfg.Passwd = cfg.AccessKey
		mcfg.ParseTime = true
		return mysql.Open(mcfg.FormatDSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.Endpoint), nil
	}
	return nil, fmt.Errorf("unsupported backend driver %q", cfg.Driver)
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.AppSetting{},
		&models.AdminUser{},
	)
}

// SeedAdmin inserts the configured admin account when it does not exist yet.
// The stored hash is never replaced here; rotate it with hash-password.
func SeedAdmin(ctx context.Context, db *gorm.DB, username, passwordHash string) error {
	if username == "" || passwordHash == "" {
		return errors.New("seed admin: username and password hash are required")
	}
	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.AdminUser{Username: username, PasswordHash: passwordHash})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		zap.L().Info("admin account created", zap.String("username", username))
	}
	return nil
}
