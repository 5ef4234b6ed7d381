package storage

import (
	"context"
	"fmt"

	"tvcharts/internal/config"
)

// NewStorageClient creates a storage client based on the configured deployment mode
func NewStorageClient(ctx context.Context, cfg *config.Config) (StorageClient, error) {
	switch cfg.DeploymentMode {
	case config.ModeLocal, "":
		dir := cfg.LocalOutputDir
		if dir == "" {
			dir = "output"
		}
		localClient, err := NewLocalStorageClient(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case config.ModeGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET is required for deployment mode %q", cfg.DeploymentMode)
		}
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported deployment mode: %s", cfg.DeploymentMode)
	}
}
