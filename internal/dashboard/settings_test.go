package dashboard

import (
	"testing"
	"time"

	"tvcharts/internal/binning"
	"tvcharts/internal/config"
)

func TestConfigFrom(t *testing.T) {
	c := ConfigFrom(&config.Config{
		BinField:           "screenSize",
		ChartWidth:         640,
		ChartHeight:        320,
		TransitionDuration: 250 * time.Millisecond,
	})

	if c.Histogram.Field != binning.FieldScreenSize {
		t.Errorf("Expected field screenSize, got %v", c.Histogram.Field)
	}
	if c.Histogram.Duration != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", c.Histogram.Duration)
	}
	if c.Histogram.Width != 640 || c.Scatter.Height != 320 {
		t.Errorf("Expected 640x320 charts, got %dx%d / %dx%d",
			c.Histogram.Width, c.Histogram.Height, c.Scatter.Width, c.Scatter.Height)
	}
	if c.Histogram.Name != ChartHistogram || c.Scatter.Name != ChartScatterplot {
		t.Errorf("Expected default chart names, got %s / %s", c.Histogram.Name, c.Scatter.Name)
	}
}

func TestConfigFrom_KeepsDefaultSize(t *testing.T) {
	def := DefaultConfig()
	c := ConfigFrom(&config.Config{BinField: "star"})
	if c.Histogram.Width != def.Histogram.Width || c.Histogram.Height != def.Histogram.Height {
		t.Errorf("Expected default size, got %dx%d", c.Histogram.Width, c.Histogram.Height)
	}
	if c.Histogram.Field != binning.FieldStar {
		t.Errorf("Expected field star, got %v", c.Histogram.Field)
	}
}
