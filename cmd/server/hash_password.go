package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"techsat/internal/auth"
	"techsat/internal/database"
	"techsat/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var hashPasswordUser string

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH or the admin_users table",
	Long: "Hashes the given password, or the first line of stdin when no argument is passed.\n" +
		"With --user the hash also replaces that account's password in admin_users.",
	Args: cobra.MaximumNArgs(1),
	RunE: runHashPassword,
}

func init() {
	hashPasswordCmd.Flags().StringVar(&hashPasswordUser, "user", "", "store the hash for this admin account")
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return errors.New("no password given")
		}
		password = strings.TrimRight(line, "\r\n")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if hashPasswordUser == "" {
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	}

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	db, err := database.NewDB(&cfg.Backend)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	users := repository.NewAdminUserRepository(db, repository.NewCallPolicy(&cfg.Backend, log))
	if err := users.SetPasswordHash(cmd.Context(), hashPasswordUser, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("admin account %q does not exist; run migrate first", hashPasswordUser)
		}
		return err
	}
	log.Info("admin password updated", zap.String("username", hashPasswordUser))
	return nil
}
