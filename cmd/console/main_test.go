package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tvcharts/internal/dashboard"
	"tvcharts/internal/filter"
	"tvcharts/internal/models"
	"tvcharts/internal/reports"
)

func newConsole(t *testing.T) (*console, *bytes.Buffer) {
	t.Helper()
	records := []models.Record{
		{Brand: "Samsung", Model: "A", ScreenSize: 55, ScreenTech: models.TechLED, EnergyConsumption: 100, Star: 4},
		{Brand: "LG", Model: "B", ScreenSize: 65, ScreenTech: models.TechLCD, EnergyConsumption: 150, Star: 5},
		{Brand: "Sony", Model: "C", ScreenSize: 43, ScreenTech: models.TechLED, EnergyConsumption: 220, Star: 3.5},
		{Brand: "TCL", Model: "D", ScreenSize: 65, ScreenTech: models.TechLCD, EnergyConsumption: 300, Star: 2},
	}
	cfg := dashboard.DefaultConfig()
	cfg.Histogram.Duration = 0
	c, err := dashboard.New(models.NewDataset("test.csv", records), cfg)
	if err != nil {
		t.Fatalf("dashboard.New failed: %v", err)
	}
	pages, err := reports.NewPageBuilder()
	if err != nil {
		t.Fatalf("NewPageBuilder failed: %v", err)
	}
	var out bytes.Buffer
	return &console{ctx: context.Background(), c: c, pages: pages, out: &out}, &out
}

func TestConsoleExec(t *testing.T) {
	tests := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"help", "filter <all|LED|LCD|OLED>", false},
		{"filter led", "filter LED: 2 records", false},
		{"filter LED", "filter LED already active", false},
		{"filter oled", "filter OLED selects no records", false},
		{"filter ALL", "filter all: 4 records", false},
		{"hover 1", "point 1: screen size 65", false},
		{"state", "hovered:  1", false},
		{"leave", "", false},
		{"state", "hovered:  none", false},
		{"bins", "count", false},
		{"filter", "", true},
		{"filter QLED", "", true},
		{"hover x", "", true},
		{"hover 42", "", true},
		{"dance", "", true},
	}

	s, out := newConsole(t)
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out.Reset()
			err := s.exec(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("exec(%q): expected error %v, got %v", tt.line, tt.wantErr, err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("exec(%q): expected output to contain %q, got %q", tt.line, tt.want, out.String())
			}
		})
	}
}

func TestConsoleErrors(t *testing.T) {
	s, _ := newConsole(t)
	if err := s.exec("filter QLED"); !errors.Is(err, filter.ErrUnknownFilter) {
		t.Errorf("Expected ErrUnknownFilter, got %v", err)
	}
	if err := s.exec("hover 42"); !errors.Is(err, dashboard.ErrPointOutOfRange) {
		t.Errorf("Expected ErrPointOutOfRange, got %v", err)
	}
	if err := s.exec("quit"); !errors.Is(err, errQuit) {
		t.Errorf("Expected errQuit, got %v", err)
	}
}

func TestConsoleSave(t *testing.T) {
	s, out := newConsole(t)
	dir := filepath.Join(t.TempDir(), "charts")
	if err := s.exec("save " + dir); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.Contains(out.String(), "wrote 6 files") {
		t.Errorf("Unexpected output %q", out.String())
	}
	for _, name := range []string{"histogram.svg", "scatterplot.png", "index.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}
}

func TestCompleter(t *testing.T) {
	c := completer()
	line := []rune("filter O")
	candidates, _ := c.Do(line, len(line))
	if len(candidates) != 1 || !strings.HasPrefix(string(candidates[0]), "LED") {
		t.Errorf("Expected the OLED completion, got %v", candidates)
	}
}
