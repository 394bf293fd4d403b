package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"techsat/config"
	"techsat/internal/models"
	"techsat/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials never says which field was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator checks an admin username/password pair. A false result with a
// nil error is a credential mismatch; an error means the check itself failed.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (bool, error)
}

// StaticAuthenticator compares against one fixed pair. Development only.
type StaticAuthenticator struct {
	username string
	password string
}

func NewStaticAuthenticator(username, password string) *StaticAuthenticator {
	return &StaticAuthenticator{username: username, password: password}
}

func (a *StaticAuthenticator) Authenticate(_ context.Context, username, password string) (bool, error) {
	if a.username == "" || a.password == "" {
		return false, nil
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK, nil
}

// HashedAuthenticator checks a single account whose bcrypt hash comes from the
// environment or a secret manager.
type HashedAuthenticator struct {
	username string
	hash     []byte
}

func NewHashedAuthenticator(username, passwordHash string) *HashedAuthenticator {
	return &HashedAuthenticator{username: username, hash: []byte(passwordHash)}
}

func (a *HashedAuthenticator) Authenticate(_ context.Context, username, password string) (bool, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) != 1 {
		return false, nil
	}
	return comparePassword(a.hash, password)
}

// AdminUserLookup is the part of the admin user repository the store authenticator needs.
type AdminUserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
}

// StoreAuthenticator checks bcrypt hashes kept in the admin_users table.
type StoreAuthenticator struct {
	users AdminUserLookup
}

func NewStoreAuthenticator(users AdminUserLookup) *StoreAuthenticator {
	return &StoreAuthenticator{users: users}
}

func (a *StoreAuthenticator) Authenticate(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	u, err := a.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return comparePassword([]byte(u.PasswordHash), password)
}

func comparePassword(hash []byte, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password: %w", err)
	}
}

// HashPassword returns a bcrypt hash suitable for the admin_users table or ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NewAuthenticator builds the gate selected by cfg.Mode.
func NewAuthenticator(cfg config.AdminConfig, users AdminUserLookup) (Authenticator, error) {
	switch cfg.Mode {
	case "static":
		return NewStaticAuthenticator(cfg.Username, cfg.Password), nil
	case "hashed":
		if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		return NewHashedAuthenticator(cfg.Username, cfg.PasswordHash), nil
	case "store", "":
		return NewStoreAuthenticator(users), nil
	}
	return nil, fmt.Errorf("unsupported admin mode %q", cfg.Mode)
}
