package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	defaultDBPath        = "./dev.db"
	defaultPort          = "8080"
	defaultReferenceFile = "idler_master.xlsx"

	ReferenceXLSX   = "xlsx"
	ReferenceSQLite = "sqlite"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env              string `envconfig:"APP_ENV" default:"development"`
	Port             string `envconfig:"PORT" default:"8080"`
	DBPath           string `envconfig:"DB_PATH" default:"./dev.db"`
	SessionSecret    string `envconfig:"SESSION_SECRET"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	ReferenceBackend string `envconfig:"REFERENCE_BACKEND" default:"xlsx"`
	ReferenceFile    string `envconfig:"REFERENCE_FILE" default:"idler_master.xlsx"`
	RoundingMode     string `envconfig:"ROUNDING_MODE" default:"outputs"`
	CompanyName      string `envconfig:"COMPANY_NAME" default:"STEADFAST"`
}

// Load reads .env (if present) and the environment and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("could not read .env")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Warn().Err(err).Msg("invalid environment, using defaults")
		cfg = Config{}
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.ReferenceFile == "" {
		cfg.ReferenceFile = defaultReferenceFile
	}
	cfg.ReferenceBackend = strings.ToLower(strings.TrimSpace(cfg.ReferenceBackend))
	if cfg.ReferenceBackend != ReferenceSQLite {
		cfg.ReferenceBackend = ReferenceXLSX
	}

	return cfg
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "", "dev", "development", "local":
		return true
	}
	return false
}
