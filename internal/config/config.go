package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/avandenberg/tally/internal/recon"
)

type Config struct {
	App struct {
		Name    string `envconfig:"APP_NAME" default:"Tally"`
		Port    int    `envconfig:"PORT" default:"8080"`
		DataDir string `envconfig:"DATA_DIR" default:"data"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"tally"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`
	}

	Auth struct {
		// Secret enables JWT bearer auth on the API when non-empty.
		Secret string `envconfig:"AUTH_SECRET"`
	}

	Recon struct {
		DateWindowDays  int     `envconfig:"DATE_WINDOW_DAYS" default:"3"`
		AmountTolerance float64 `envconfig:"AMOUNT_TOLERANCE" default:"0.50"`
		PSPFeeAbs       float64 `envconfig:"PSP_FEE_ABS" default:"50.00"`
		PSPFeePct       float64 `envconfig:"PSP_FEE_PCT" default:"0.04"`
		OnlyPSPNames    bool    `envconfig:"ONLY_PSP_NAMES" default:"true"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// ReconDefaults converts the environment-sourced matching settings into an
// engine config. Per-request settings may still override them.
func (c *Config) ReconDefaults() recon.Config {
	return recon.Config{
		DateWindowDays:  c.Recon.DateWindowDays,
		AmountTolerance: decimal.NewFromFloat(c.Recon.AmountTolerance),
		PSPFeeAbs:       decimal.NewFromFloat(c.Recon.PSPFeeAbs),
		PSPFeePct:       decimal.NewFromFloat(c.Recon.PSPFeePct),
		OnlyPSPNames:    c.Recon.OnlyPSPNames,
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.ReconDefaults().Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching defaults: %w", err)
	}

	return &cfg, nil
}
