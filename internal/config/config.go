package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tvcharts/internal/binning"

	"github.com/sethvargo/go-envconfig"
)

// Deployment modes
const (
	ModeLocal = "local"
	ModeGCS   = "gcs"
)

// Config holds all configuration for the TV charts service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// Dataset
	DataSource   string        `env:"DATA_SOURCE,default=data/tvdata.csv"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT,default=30s"`
	BinField     string        `env:"BIN_FIELD,default=energyConsumption"`

	// Charts
	ChartWidth         int           `env:"CHART_WIDTH,default=800"`
	ChartHeight        int           `env:"CHART_HEIGHT,default=400"`
	TransitionDuration time.Duration `env:"TRANSITION_DURATION,default=500ms"`

	// Published snapshots
	DeploymentMode string `env:"DEPLOYMENT_MODE,default=local"`
	LocalOutputDir string `env:"LOCAL_OUTPUT_DIR,default=./output"`
	GCSBucket      string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom loads configuration from l and validates it
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot check on its own
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataSource) == "" {
		errs = append(errs, errors.New("DATA_SOURCE must not be empty"))
	}
	if _, err := binning.ParseField(c.BinField); err != nil {
		errs = append(errs, fmt.Errorf("BIN_FIELD: %w", err))
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		errs = append(errs, fmt.Errorf("chart size %dx%d must be positive", c.ChartWidth, c.ChartHeight))
	}
	if c.TransitionDuration < 0 {
		errs = append(errs, errors.New("TRANSITION_DURATION must not be negative"))
	}
	switch c.DeploymentMode {
	case ModeLocal:
	case ModeGCS:
		if c.GCSBucket == "" {
			errs = append(errs, errors.New("GCS_BUCKET is required when DEPLOYMENT_MODE is gcs"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DEPLOYMENT_MODE %q", c.DeploymentMode))
	}
	return errors.Join(errs...)
}

// Field returns the configured binning field
func (c *Config) Field() binning.Field {
	f, err := binning.ParseField(c.BinField)
	if err != nil {
		return binning.FieldEnergyConsumption
	}
	return f
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
