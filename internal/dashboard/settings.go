package dashboard

import "tvcharts/internal/config"

// ConfigFrom derives the per-chart configuration from the service settings.
// Both charts share the configured size.
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	c.Histogram.Field = cfg.Field()
	c.Histogram.Duration = cfg.TransitionDuration
	if cfg.ChartWidth > 0 && cfg.ChartHeight > 0 {
		c.Histogram.Width, c.Histogram.Height = cfg.ChartWidth, cfg.ChartHeight
		c.Scatter.Width, c.Scatter.Height = cfg.ChartWidth, cfg.ChartHeight
	}
	return c
}
