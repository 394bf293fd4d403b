package auth

import (
	"context"
	"errors"
	"testing"

	"techsat/config"
	"techsat/internal/models"
	"techsat/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestStaticAuthenticatorExactMatchOnly(t *testing.T) {
	a := NewStaticAuthenticator("wassim1", "zed18666")
	ctx := context.Background()

	ok, err := a.Authenticate(ctx, "wassim1", "zed18666")
	require.NoError(t, err)
	assert.True(t, ok)

	rejected := [][2]string{
		{"Wassim1", "zed18666"},
		{"wassim1", "ZED18666"},
		{"wassim1 ", "zed18666"},
		{"wassim1", ""},
		{"", "zed18666"},
		{"", ""},
		{"admin", "admin"},
	}
	for _, pair := range rejected {
		ok, err := a.Authenticate(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.False(t, ok, "%q/%q", pair[0], pair[1])
	}
}

func TestStaticAuthenticatorUnconfigured(t *testing.T) {
	ok, err := NewStaticAuthenticator("", "").Authenticate(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func minCostHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestHashedAuthenticator(t *testing.T) {
	a := NewHashedAuthenticator("owner", minCostHash(t, "long-passphrase"))
	ctx := context.Background()

	ok, err := a.Authenticate(ctx, "owner", "long-passphrase")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Authenticate(ctx, "owner", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = a.Authenticate(ctx, "other", "long-passphrase")
	require.NoError(t, err)
	assert.False(t, ok)
}

type fakeUsers struct {
	users map[string]*models.AdminUser
	err   error
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func TestStoreAuthenticator(t *testing.T) {
	users := &fakeUsers{users: map[string]*models.AdminUser{
		"admin": {Username: "admin", PasswordHash: minCostHash(t, "s3cret")},
	}}
	a := NewStoreAuthenticator(users)
	ctx := context.Background()

	ok, err := a.Authenticate(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.Authenticate(ctx, "admin", "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = a.Authenticate(ctx, "ghost", "s3cret")
	require.NoError(t, err)
	assert.False(t, ok)

	users.err = &repository.BackendError{Op: "get admin user", Err: errors.New("dial tcp: refused")}
	ok, err = a.Authenticate(ctx, "admin", "s3cret")
	assert.False(t, ok)
	assert.True(t, repository.IsBackend(err))
}

func TestNewAuthenticator(t *testing.T) {
	a, err := NewAuthenticator(config.AdminConfig{Mode: "static", Username: "u", Password: "p"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &StaticAuthenticator{}, a)

	_, err = NewAuthenticator(config.AdminConfig{Mode: "hashed", Username: "u", PasswordHash: "plaintext"}, nil)
	assert.Error(t, err)

	a, err = NewAuthenticator(config.AdminConfig{Mode: "hashed", Username: "u", PasswordHash: minCostHash(t, "p")}, nil)
	require.NoError(t, err)
	assert.IsType(t, &HashedAuthenticator{}, a)

	a, err = NewAuthenticator(config.AdminConfig{Mode: "store"}, &fakeUsers{})
	require.NoError(t, err)
	assert.IsType(t, &StoreAuthenticator{}, a)

	_, err = NewAuthenticator(config.AdminConfig{Mode: "oauth"}, nil)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	require.NoError(t, err)
	ok, err := comparePassword([]byte(h), "pw")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = HashPassword("")
	assert.Error(t, err)
}
