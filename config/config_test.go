package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "techsat.yaml")
	err := os.WriteFile(path, []byte(`
server:
  port: "9000"
backend:
  driver: mysql
  endpoint: "shop@tcp(db:3306)/shop"
  call_timeout: 2s
storefront:
  whatsapp_phone: "21600000000"
settings:
  featured_message: "Summer sale"
`), 0o600)
	require.NoError(t, err)

	t.Setenv("BACKEND_ACCESS_KEY", "secret")
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Backend.Driver)
	assert.Equal(t, "secret", cfg.Backend.AccessKey)
	assert.Equal(t, 2*time.Second, cfg.Backend.CallTimeout)
	assert.Equal(t, 1, cfg.Backend.Retries)
	assert.Equal(t, "21600000000", cfg.Storefront.WhatsAppPhone)
	assert.Equal(t, "TND", cfg.Storefront.Currency)
	assert.Equal(t, "Summer sale", cfg.Settings["featured_message"])
	assert.NoError(t, cfg.Validate())
}

func TestValidateMissingBackend(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingBackend)

	cfg.Backend.Endpoint = "postgres://shop@db.example.com:5432/postgres"
	assert.ErrorIs(t, cfg.Validate(), ErrMissingBackend)

	cfg.Backend.AccessKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Backend.Driver = "sqlite"
	cfg.Backend.Endpoint = "file:shop.db"
	assert.NoError(t, cfg.Validate())
}

func TestValidateAdminAndProduction(t *testing.T) {
	cfg := Default()
	cfg.Backend.Driver = "sqlite"
	cfg.Backend.Endpoint = ":memory:"

	cfg.Admin.Mode = "hashed"
	assert.Error(t, cfg.Validate())
	cfg.Admin.Username = "admin"
	cfg.Admin.PasswordHash = "$2a$10$abc"
	assert.NoError(t, cfg.Validate())

	cfg.Admin.Mode = "ldap"
	assert.Error(t, cfg.Validate())

	cfg.Admin.Mode = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "store", cfg.Admin.Mode)

	cfg.Admin.Mode = "store"
	cfg.Server.Env = "production"
	assert.Error(t, cfg.Validate())
	cfg.JWT.Secret = "s3cr3t"
	assert.NoError(t, cfg.Validate())
}

func TestValidatePurchaseTemplate(t *testing.T) {
	cfg := Default()
	cfg.Backend.Driver = "sqlite"
	cfg.Backend.Endpoint = ":memory:"

	cfg.Storefront.PurchaseTemplate = "Hello! I'm interested in your offer."
	assert.EqualError(t, cfg.Validate(), "storefront purchase_template must contain {name}")

	cfg.Storefront.PurchaseTemplate = "Ahla! {name} please"
	assert.NoError(t, cfg.Validate())
}

func TestLoadBadDurationEnv(t *testing.T) {
	t.Setenv("BACKEND_CALL_TIMEOUT", "soon")
	_, err := Load("")
	assert.Error(t, err)
}
