package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"techsat/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettingNeverWrittenIsEmpty(t *testing.T) {
	repo := NewSettingRepository(newTestDB(t), testPolicy)
	v, err := repo.Get(context.Background(), "never_written")
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestSetSettingUpserts(t *testing.T) {
	repo := NewSettingRepository(newTestDB(t), testPolicy)
	ctx := context.Background()
	key := domain.SettingIPTVDownloadLink

	require.NoError(t, repo.Set(ctx, key, "https://dl.example.com/v1.apk"))
	require.NoError(t, repo.Set(ctx, key, "https://dl.example.com/v2.apk"))
	require.NoError(t, repo.Set(ctx, key, "https://dl.example.com/v2.apk"))

	v, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "https://dl.example.com/v2.apk", v)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestSeedDefaultsKeepsExisting(t *testing.T) {
	repo := NewSettingRepository(newTestDB(t), testPolicy)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, domain.SettingFeaturedMessage, "Ramadan offers"))

	require.NoError(t, repo.SeedDefaults(ctx, map[string]string{
		domain.SettingFeaturedMessage:  "default",
		domain.SettingIPTVDownloadLink: "",
	}))

	v, err := repo.Get(ctx, domain.SettingFeaturedMessage)
	require.NoError(t, err)
	assert.Equal(t, "Ramadan offers", v)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetSettingBackendFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSettingRepository(db, testPolicy)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `app_settings`")).
		WillReturnError(errors.New("relation app_settings does not exist"))

	v, err := repo.Get(context.Background(), domain.SettingFeaturedMessage)
	assert.Equal(t, "", v)
	assert.True(t, IsBackend(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUserLookup(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdminUserRepository(db, testPolicy)
	ctx := context.Background()

	_, err := repo.GetByUsername(ctx, "admin")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.SetPasswordHash(ctx, "admin", "h"), ErrNotFound)

	require.NoError(t, db.Exec("INSERT INTO admin_users (username, password_hash, created_at, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)", "admin", "h1").Error)
	require.NoError(t, repo.SetPasswordHash(ctx, "admin", "h2"))

	u, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "h2", u.PasswordHash)
}
