package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds server settings. Values come from keepara.toml when present,
// with environment variables overriding individual fields and sensible
// defaults underneath.
type Config struct {
	Port         string   `toml:"port"`
	CORSOrigins  []string `toml:"cors_origins"`
	UploadsDir   string   `toml:"uploads_dir"`
	MockLatency  int      `toml:"mock_latency_ms"` // simulated delay for the in-memory store
	SeedMockData bool     `toml:"seed_mock_data"`

	Database DatabaseConfig `toml:"database"`
}

// DatabaseConfig selects and configures the record store backend.
type DatabaseConfig struct {
	// Enabled selects the Postgres store; when false the service runs on
	// the in-memory store (mock mode).
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
}

func defaultConfig() Config {
	return Config{
		Port:         "8080",
		CORSOrigins:  []string{"http://localhost:3000"},
		UploadsDir:   "uploads",
		SeedMockData: true,
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "password",
			Name:     "keepara",
		},
	}
}

// loadConfig reads the TOML config file at path (missing file is fine) and
// then applies environment overrides.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	applyEnv(&cfg.Port, "PORT")
	applyEnv(&cfg.UploadsDir, "UPLOADS_DIR")
	applyEnv(&cfg.Database.Host, "DB_HOST")
	applyEnv(&cfg.Database.Port, "DB_PORT")
	applyEnv(&cfg.Database.User, "DB_USER")
	applyEnv(&cfg.Database.Password, "DB_PASSWORD")
	applyEnv(&cfg.Database.Name, "DB_NAME")
	if v := os.Getenv("DB_ENABLED"); v != "" {
		cfg.Database.Enabled = v == "true" || v == "1"
	}

	return cfg, nil
}

func applyEnv(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// connString builds the Postgres connection string.
func (d DatabaseConfig) connString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}
