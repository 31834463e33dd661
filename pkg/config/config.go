package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no config path is given.
const EnvConfigPath = "PESTO_CONFIG"

// Storage drivers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Ledger modes
const (
	LedgerModeDemo = "demo"
	LedgerModeLive = "live"
)

// Config represents the sync service configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Storage    StorageConfig    `yaml:"storage"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	OAuth      OAuthConfig      `yaml:"oauth"`
	Keys       KeysConfig       `yaml:"keys"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Compliance ComplianceConfig `yaml:"compliance"`
	Demo       DemoConfig       `yaml:"demo"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" default:"60s"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// StorageConfig selects where persisted state lives
type StorageConfig struct {
	Driver   string         `yaml:"driver" default:"memory" validate:"oneof=memory postgres"`
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"pesto"`
	SSLMode  string `yaml:"ssl_mode" default:"disable"`
}

// LedgerConfig contains chain access settings
type LedgerConfig struct {
	Mode             string        `yaml:"mode" default:"demo" validate:"oneof=demo live"`
	Network          string        `yaml:"network" default:"testnet"`
	NodeURL          string        `yaml:"node_url" default:"https://fullnode.testnet.aptoslabs.com" validate:"required,url"`
	NativeCoinType   string        `yaml:"native_coin_type" default:"0x1::aptos_coin::AptosCoin" validate:"required"`
	TransactionLimit int           `yaml:"transaction_limit" default:"25" validate:"min=1,max=100"`
	SubmitEnabled    bool          `yaml:"submit_enabled" default:"true"`
	RequestTimeout   time.Duration `yaml:"request_timeout" default:"10s"`
	RateLimit        float64       `yaml:"rate_limit" default:"5"`
	RateBurst        int           `yaml:"rate_burst" default:"5"`
	MockSeed         int64         `yaml:"mock_seed"`
}

// OAuthConfig contains the external identity provider settings
type OAuthConfig struct {
	Enabled         bool          `yaml:"enabled"`
	ClientID        string        `yaml:"client_id"`
	ClientSecret    string        `yaml:"client_secret"`
	RedirectURI     string        `yaml:"redirect_uri" default:"http://127.0.0.1:8765/oauth/callback"`
	AuthURL         string        `yaml:"auth_url" default:"https://accounts.google.com/o/oauth2/v2/auth"`
	TokenURL        string        `yaml:"token_url" default:"https://oauth2.googleapis.com/token"`
	UserInfoURL     string        `yaml:"userinfo_url" default:"https://www.googleapis.com/oauth2/v2/userinfo"`
	RevokeURL       string        `yaml:"revoke_url" default:"https://oauth2.googleapis.com/revoke"`
	Scopes          []string      `yaml:"scopes"`
	CallbackTimeout time.Duration `yaml:"callback_timeout" default:"2m"`
}

// KeysConfig contains at-rest key protection settings
type KeysConfig struct {
	// MasterKeyEnv names the env var holding a base64 AES-256 key. Empty stores keys as plain hex.
	MasterKeyEnv string `yaml:"master_key_env"`
}

// PricingConfig contains quote cache settings
type PricingConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl" default:"1m"`
}

// ComplianceConfig contains transfer limits
type ComplianceConfig struct {
	// MaxTransactionAmount caps a single transfer in display units. Zero disables the cap.
	MaxTransactionAmount float64       `yaml:"max_transaction_amount" default:"10000" validate:"min=0"`
	SessionTimeout       time.Duration `yaml:"session_timeout" default:"30m"`
}

// DemoConfig contains demo dataset settings
type DemoConfig struct {
	DefaultUserID string `yaml:"default_user_id" default:"user-ava"`
}

// Load reads the YAML file at configPath, applies defaults and validates the result.
// An empty path falls back to $PESTO_CONFIG; if that is unset too, defaults alone are used.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv(EnvConfigPath)
	}

	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	// Decoding over the defaults lets explicit zero values (e.g. submit_enabled: false) win.
	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	if len(cfg.OAuth.Scopes) == 0 {
		cfg.OAuth.Scopes = []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Storage.Driver == StoragePostgres && c.Storage.Database.Host == "" {
		return errors.New("storage.database.host is required for postgres storage")
	}
	if c.OAuth.Enabled {
		if c.OAuth.ClientID == "" {
			return errors.New("oauth.client_id is required when oauth is enabled")
		}
		if c.OAuth.RedirectURI == "" {
			return errors.New("oauth.redirect_uri is required when oauth is enabled")
		}
	}
	return nil
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
