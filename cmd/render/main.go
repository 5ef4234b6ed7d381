// Command render draws both charts once and publishes SVG, PNG and a static
// HTML page to the configured storage.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"tvcharts/internal/config"
	"tvcharts/internal/dashboard"
	"tvcharts/internal/filter"
	"tvcharts/internal/loader"
	"tvcharts/internal/logger"
	"tvcharts/internal/reports"
	"tvcharts/internal/storage"
)

type options struct {
	filter filter.ID
	hover  int
	now    time.Time
}

// run renders the snapshot and returns the folder it was published to.
// A dataset that fails to load publishes the error page and returns the load error.
func run(ctx context.Context, cfg *config.Config, opts options) (string, error) {
	log := logger.WithComponent("render")

	store, err := storage.NewStorageClient(ctx, cfg)
	if err != nil {
		return "", err
	}
	defer store.Close()

	pages, err := reports.NewPageBuilder()
	if err != nil {
		return "", err
	}

	ds, err := loader.New(cfg.FetchTimeout).Load(ctx, cfg.DataSource)
	if err != nil {
		page, perr := pages.BuildErrorPage(err)
		if perr != nil {
			return "", perr
		}
		folder, _, perr := storage.PublishSnapshot(ctx, store, opts.now, []storage.Artifact{{Name: "index.html", Data: page}})
		if perr != nil {
			return "", perr
		}
		return folder, err
	}

	// static output has no animation to wait for
	dcfg := dashboard.ConfigFrom(cfg)
	dcfg.Histogram.Duration = 0
	c, err := dashboard.New(ds, dcfg)
	if err != nil {
		return "", err
	}

	if opts.filter != "" {
		res, err := c.Handle(dashboard.SetFilter{ID: opts.filter})
		if err != nil {
			return "", err
		}
		if res.Skipped {
			log.Warn("Filter selects no records, rendering the full histogram", logger.Fields{"filter": string(opts.filter)})
		}
	}
	if opts.hover >= 0 {
		if _, err := c.Handle(dashboard.Hover{Index: opts.hover}); err != nil {
			return "", err
		}
	}

	artifacts, err := pages.SnapshotArtifacts(c.Handle)
	if err != nil {
		return "", err
	}
	folder, paths, err := storage.PublishSnapshot(ctx, store, opts.now, artifacts)
	if err != nil {
		return "", err
	}
	log.Info("Snapshot published", logger.Fields{"folder": folder, "files": len(paths), "mode": cfg.DeploymentMode})
	return folder, nil
}

func main() {
	filterID := flag.String("filter", string(filter.All), "technology filter: all, LED, LCD or OLED")
	hover := flag.Int("hover", -1, "scatterplot point to show the tooltip for")
	outDir := flag.String("out", "", "local output directory (overrides LOCAL_OUTPUT_DIR)")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		logger.Fatal("Failed to configure logging", err)
	}
	if *outDir != "" {
		cfg.DeploymentMode = config.ModeLocal
		cfg.LocalOutputDir = *outDir
	}

	folder, err := run(ctx, cfg, options{filter: filter.ID(*filterID), hover: *hover, now: time.Now()})
	if err != nil {
		logger.Error("Render failed", err, logger.Fields{"folder": folder})
		os.Exit(1)
	}
	fmt.Println(folder)
}
