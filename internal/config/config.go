// /internal/config/config.go
package config

import (
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverDatastore = "datastore"
	DriverSQLite    = "sqlite"
)

type Config struct {
	DiscordToken  string        `env:"DISCORD_TOKEN"`
	StorageDriver string        `env:"STORAGE_DRIVER"          envDefault:"datastore"`
	StoragePath   string        `env:"STORAGE_PATH"            envDefault:"datastore.json"`
	SQLitePath    string        `env:"SQLITE_PATH"             envDefault:"data/dea.db"`
	RulesPath     string        `env:"RULES_PATH"              envDefault:"rules.yaml"`
	DefaultPrefix string        `env:"DEFAULT_PREFIX"          envDefault:"$"`
	OwnerIDs      []string      `env:"OWNER_IDS"               envSeparator:","`
	CommandRate   float64       `env:"COMMAND_RATE"            envDefault:"1"`
	CommandBurst  int           `env:"COMMAND_BURST"           envDefault:"3"`
	CooldownSweep time.Duration `env:"COOLDOWN_SWEEP_INTERVAL" envDefault:"1m"`
	HistoryLimit  int           `env:"COMMAND_HISTORY_LIMIT"   envDefault:"20"`
	SaveInterval  time.Duration `env:"DATASTORE_SAVE_INTERVAL" envDefault:"1m"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// New loads .env if present, parses the environment and exits when the bot
// token is missing.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DiscordToken == "" {
		log.Fatal("DISCORD_TOKEN is not set")
	}
	return cfg
}

// IsOwner reports whether userID is listed in OWNER_IDS.
func (c *Config) IsOwner(userID string) bool {
	return slices.Contains(c.OwnerIDs, userID)
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverDatastore, DriverSQLite:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.DefaultPrefix == "" {
		return fmt.Errorf("DEFAULT_PREFIX must not be empty")
	}
	if c.CommandRate <= 0 || c.CommandBurst <= 0 {
		return fmt.Errorf("COMMAND_RATE and COMMAND_BURST must be positive")
	}
	if c.CooldownSweep <= 0 || c.SaveInterval <= 0 {
		return fmt.Errorf("COOLDOWN_SWEEP_INTERVAL and DATASTORE_SAVE_INTERVAL must be positive")
	}
	return nil
}
