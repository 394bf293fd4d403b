package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"techsat/internal/domain"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Backend    BackendConfig     `yaml:"backend"`
	JWT        JWTConfig         `yaml:"jwt"`
	Admin      AdminConfig       `yaml:"admin"`
	Cloudinary CloudinaryConfig  `yaml:"cloudinary"`
	Storefront StorefrontConfig  `yaml:"storefront"`
	Logger     LoggerConfig      `yaml:"logger"`
	Settings   map[string]string `yaml:"settings"` // seeded by migrate when absent
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	Env          string        `yaml:"env"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// BackendConfig describes the hosted table store. Endpoint is a DSN or URL
// without the secret; AccessKey is injected as the connection password.
type BackendConfig struct {
	Driver          string        `yaml:"driver"` // postgres | mysql | sqlite
	Endpoint        string        `yaml:"endpoint"`
	AccessKey       string        `yaml:"access_key"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	CallTimeout     time.Duration `yaml:"call_timeout"`
	Retries         int           `yaml:"retries"`
	RetryBackoff    time.Duration `yaml:"retry_backoff"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
	Issuer string        `yaml:"issuer"`
}

// AdminConfig selects how the admin gate checks credentials.
//
//	store  - bcrypt hash in the admin_users table (Password seeds it on migrate)
//	hashed - bcrypt PasswordHash supplied by the environment
//	static - plaintext pair, development only
type AdminConfig struct {
	Mode         string `yaml:"mode"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type StorefrontConfig struct {
	StoreName        string        `yaml:"store_name"`
	WhatsAppPhone    string        `yaml:"whatsapp_phone"`
	DisplayPhone     string        `yaml:"display_phone"`
	Currency         string        `yaml:"currency"`
	PlaceholderImage string        `yaml:"placeholder_image"`
	PurchaseTemplate string        `yaml:"purchase_template"` // {name} is replaced by the product name
	IPTVInquiry      string        `yaml:"iptv_inquiry"`
	GeneralInquiry   string        `yaml:"general_inquiry"`
	BoxInquiry       string        `yaml:"box_inquiry"`
	Tagline          string        `yaml:"tagline"`
	FacebookURL      string        `yaml:"facebook_url"`
	FlashTTL         time.Duration `yaml:"flash_ttl"`
	SessionIdle      time.Duration `yaml:"session_idle"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode"` // production | development
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

const defaultJWTSecret = "change-me-in-production"

var ErrMissingBackend = errors.New("backend endpoint and access key are required")

// Default returns the built-in configuration before file and environment overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8099",
			Env:          "development",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Backend: BackendConfig{
			Driver:          "postgres",
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: time.Hour,
			CallTimeout:     5 * time.Second,
			Retries:         1,
			RetryBackoff:    200 * time.Millisecond,
		},
		JWT: JWTConfig{
			Secret: defaultJWTSecret,
			Expiry: 12 * time.Hour,
			Issuer: "techsat",
		},
		Admin: AdminConfig{
			Mode: "store",
		},
		Cloudinary: CloudinaryConfig{
			Folder: "techsat/products",
		},
		Storefront: StorefrontConfig{
			StoreName:        "TechsatWassim TN",
			WhatsAppPhone:    "21655338664",
			DisplayPhone:     "+216 55 338 664",
			Currency:         domain.DefaultCurrency,
			PlaceholderImage: domain.DefaultPlaceholderImage,
			PurchaseTemplate: "Hello! I'm interested in {name}. Can you help me?",
			IPTVInquiry:      "Hello! I'm interested in your IPTV services. Can you help me?",
			GeneralInquiry:   "Hello! I'm interested in your services. Can you help me?",
			BoxInquiry:       "Hello! I'm interested in your Android TV boxes. Can you help me?",
			Tagline:          "Your trusted electronics store in Gafsa, Tunisia",
			FacebookURL:      "https://www.facebook.com/profile.php?id=61579941277703",
			FlashTTL:         5 * time.Second,
			SessionIdle:      2 * time.Hour,
		},
		Logger: LoggerConfig{
			Mode:     "development",
			Filename: "logs/techsat.log",
		},
		Settings: map[string]string{
			domain.SettingIPTVDownloadLink: "",
			domain.SettingFeaturedMessage:  "",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and the environment, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "SERVER_PORT")
	setString(&c.Server.Env, "APP_ENV")
	setString(&c.Backend.Driver, "BACKEND_DRIVER")
	setString(&c.Backend.Endpoint, "BACKEND_ENDPOINT")
	setString(&c.Backend.AccessKey, "BACKEND_ACCESS_KEY")
	setString(&c.JWT.Secret, "JWT_SECRET")
	setString(&c.Admin.Mode, "ADMIN_MODE")
	setString(&c.Admin.Username, "ADMIN_USERNAME")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")
	setString(&c.Admin.PasswordHash, "ADMIN_PASSWORD_HASH")
	setString(&c.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&c.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&c.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	setString(&c.Storefront.WhatsAppPhone, "WHATSAPP_PHONE")
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.Logger.FileEnable = true
		c.Logger.Filename = v
	}
	if v := os.Getenv("BACKEND_CALL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("BACKEND_CALL_TIMEOUT: %w", err)
		}
		c.Backend.CallTimeout = d
	}
	if v := os.Getenv("BACKEND_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BACKEND_RETRIES: %w", err)
		}
		c.Backend.Retries = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate reports configuration that must stop the process at startup.
func (c *Config) Validate() error {
	c.Backend.Driver = strings.ToLower(strings.TrimSpace(c.Backend.Driver))
	switch c.Backend.Driver {
	case "postgres", "mysql":
		if c.Backend.Endpoint == "" || c.Backend.AccessKey == "" {
			return ErrMissingBackend
		}
	case "sqlite":
		if c.Backend.Endpoint == "" {
			return ErrMissingBackend
		}
	default:
		return fmt.Errorf("unsupported backend driver %q", c.Backend.Driver)
	}
	if c.Backend.Retries < 0 {
		return errors.New("backend retries must be >= 0")
	}
	c.Admin.Mode = strings.ToLower(strings.TrimSpace(c.Admin.Mode))
	if c.Admin.Mode == "" {
		c.Admin.Mode = "store"
	}
	switch c.Admin.Mode {
	case "store":
	case "hashed":
		if c.Admin.Username == "" || c.Admin.PasswordHash == "" {
			return errors.New("admin mode hashed needs ADMIN_USERNAME and ADMIN_PASSWORD_HASH")
		}
	case "static":
		if c.Admin.Username == "" || c.Admin.Password == "" {
			return errors.New("admin mode static needs ADMIN_USERNAME and ADMIN_PASSWORD")
		}
	default:
		return fmt.Errorf("unsupported admin mode %q", c.Admin.Mode)
	}
	if !strings.Contains(c.Storefront.PurchaseTemplate, "{name}") {
		return errors.New("storefront purchase_template must contain {name}")
	}
	if c.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Server.Env == "production" }
