package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/gopher-golf/internal/handicap"
	"github.com/pfrederiksen/gopher-golf/internal/logger"
	"github.com/pfrederiksen/gopher-golf/internal/storage"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultAddr     = ":8080"
	DefaultDriver   = storage.DriverSQLite
	DefaultDSN      = "~/.local/share/gopher-golf/gopher.db"
	DefaultPlayerID = "local-player"
	DefaultLogLevel = "info"
	DefaultCacheTTL = 10 * time.Minute
)

// Nine-hole round policies.
const (
	NineHoleInclude = "include"
	NineHoleExclude = "exclude"
)

// Config is the top-level configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Player   PlayerConfig   `yaml:"player"`
	Handicap HandicapConfig `yaml:"handicap"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
	Log      LogConfig      `yaml:"log"`
	Cache    CacheConfig    `yaml:"cache"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr" env:"GOPHER_ADDR"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	// Driver is sqlite or postgres.
	Driver string `yaml:"driver" env:"GOPHER_DB_DRIVER"`

	// DSN is a file path for sqlite or a connection string for postgres.
	DSN string `yaml:"dsn" env:"GOPHER_DB_DSN"`
}

// PlayerConfig identifies whose rounds are recorded.
type PlayerConfig struct {
	ID string `yaml:"id" env:"GOPHER_PLAYER_ID"`
}

// HandicapConfig holds the handicap engine tunables.
type HandicapConfig struct {
	BestOf         int     `yaml:"best_of" env:"GOPHER_HANDICAP_BEST_OF"`
	Factor         float64 `yaml:"factor" env:"GOPHER_HANDICAP_FACTOR"`
	NineHoleRounds string  `yaml:"nine_hole_rounds" env:"GOPHER_HANDICAP_NINE_HOLE_ROUNDS"`
}

// Policy converts the settings into a handicap policy.
func (h HandicapConfig) Policy() handicap.Policy {
	return handicap.Policy{
		Calculator: handicap.Calculator{
			BestOf:        h.BestOf,
			Factor:        h.Factor,
			StandardSlope: handicap.DefaultStandardSlope,
		},
		ExcludeNineHole: h.NineHoleRounds == NineHoleExclude,
	}
}

// ScrapeConfig points at a course-data scrape endpoint.
type ScrapeConfig struct {
	Endpoint string `yaml:"endpoint" env:"GOPHER_SCRAPE_ENDPOINT"`
	APIKey   string `yaml:"api_key" env:"GOPHER_SCRAPE_API_KEY"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"GOPHER_LOG_LEVEL"`
}

// CacheConfig holds the course search cache settings.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl" env:"GOPHER_CACHE_TTL"`
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment, in that order.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the process
// environment. Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Server:   ServerConfig{Addr: DefaultAddr},
		Database: DatabaseConfig{Driver: DefaultDriver, DSN: DefaultDSN},
		Player:   PlayerConfig{ID: DefaultPlayerID},
		Handicap: HandicapConfig{
			BestOf:         handicap.DefaultBestOf,
			Factor:         handicap.DefaultFactor,
			NineHoleRounds: NineHoleInclude,
		},
		Log:   LogConfig{Level: DefaultLogLevel},
		Cache: CacheConfig{TTL: DefaultCacheTTL},
	}
}

// Validate checks values and normalizes enumerations to lower case.
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Handicap.NineHoleRounds = strings.ToLower(strings.TrimSpace(c.Handicap.NineHoleRounds))

	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch c.Database.Driver {
	case storage.DriverSQLite:
	case storage.DriverPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q",
			storage.DriverSQLite, storage.DriverPostgres, c.Database.Driver)
	}
	if c.Handicap.BestOf < 1 {
		return fmt.Errorf("handicap.best_of must be at least 1")
	}
	if c.Handicap.Factor <= 0 || c.Handicap.Factor > 1 {
		return fmt.Errorf("handicap.factor must be in (0, 1]")
	}
	switch c.Handicap.NineHoleRounds {
	case NineHoleInclude, NineHoleExclude:
	default:
		return fmt.Errorf("handicap.nine_hole_rounds must be %q or %q, got %q",
			NineHoleInclude, NineHoleExclude, c.Handicap.NineHoleRounds)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}
