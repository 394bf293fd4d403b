package main

import (
	"techsat/internal/auth"
	"techsat/internal/database"
	"techsat/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and seed default settings and the admin account",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	ctx := cmd.Context()

	db, err := database.NewDB(&cfg.Backend)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	settings := repository.NewSettingRepository(db, repository.NewCallPolicy(&cfg.Backend, log))
	if err := settings.SeedDefaults(ctx, cfg.Settings); err != nil {
		return err
	}
	all, err := settings.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, s := range all {
		log.Info("setting", zap.String("key", s.SettingKey), zap.Int("length", len(s.SettingValue)))
	}

	if cfg.Admin.Mode == "store" {
		if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
			log.Warn("admin account not seeded: set ADMIN_USERNAME and ADMIN_PASSWORD")
		} else {
			hash, err := auth.HashPassword(cfg.Admin.Password)
			if err != nil {
				return err
			}
			if err := database.SeedAdmin(ctx, db, cfg.Admin.Username, hash); err != nil {
				return err
			}
		}
	}
	log.Info("migration complete", zap.String("driver", cfg.Backend.Driver))
	return nil
}
