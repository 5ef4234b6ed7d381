package filter

import (
	"errors"
	"testing"

	"tvcharts/internal/models"
)

func testRecords() []models.Record {
	return []models.Record{
		{Model: "a", ScreenTech: models.TechLED, EnergyConsumption: 100},
		{Model: "b", ScreenTech: models.TechLCD, EnergyConsumption: 150},
		{Model: "c", ScreenTech: models.TechLED, EnergyConsumption: 220},
		{Model: "d", ScreenTech: models.TechLCD, EnergyConsumption: 300},
	}
}

func TestNewStateDefaultsToAll(t *testing.T) {
	s := NewState()
	if s.Active() != All {
		t.Errorf("Expected 'all' to be active, got %q", s.Active())
	}

	active := 0
	for _, f := range s.Filters() {
		if f.Active {
			active++
			if f.ID != All {
				t.Errorf("Expected 'all' button to be active, got %q", f.ID)
			}
		}
	}
	if active != 1 {
		t.Errorf("Expected exactly one active filter, got %d", active)
	}
}

func TestSetTransitions(t *testing.T) {
	s := NewState()

	tests := []struct {
		id          ID
		wantChanged bool
		wantErr     error
		wantActive  ID
	}{
		{"LED", true, nil, "LED"},
		{"LED", false, nil, "LED"},
		{"OLED", true, nil, "OLED"},
		{"plasma", false, ErrUnknownFilter, "OLED"},
		{"", false, ErrUnknownFilter, "OLED"},
		{All, true, nil, All},
	}

	for _, tt := range tests {
		changed, err := s.Set(tt.id)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Set(%q): expected error %v, got %v", tt.id, tt.wantErr, err)
		}
		if changed != tt.wantChanged {
			t.Errorf("Set(%q): expected changed=%v, got %v", tt.id, tt.wantChanged, changed)
		}
		if s.Active() != tt.wantActive {
			t.Errorf("Set(%q): expected active %q, got %q", tt.id, tt.wantActive, s.Active())
		}
	}
}

func TestFiltersOrder(t *testing.T) {
	labels := []string{"All", "LED", "LCD", "OLED"}
	filters := NewState().Filters()
	if len(filters) != len(labels) {
		t.Fatalf("Expected %d filters, got %d", len(labels), len(filters))
	}
	for i, f := range filters {
		if f.Label != labels[i] {
			t.Errorf("Filter %d: expected label %q, got %q", i, labels[i], f.Label)
		}
	}
}

func TestApplyAllReturnsFullDataset(t *testing.T) {
	recs := testRecords()
	out := Apply(All, recs)
	if len(out) != len(recs) {
		t.Fatalf("Expected %d records, got %d", len(recs), len(out))
	}
	for i := range recs {
		if out[i] != recs[i] {
			t.Errorf("Record %d differs", i)
		}
	}
}

func TestApplyTechnologySubset(t *testing.T) {
	recs := testRecords()
	for _, tech := range models.KnownTechs {
		out := Apply(ID(tech), recs)
		for _, r := range out {
			if r.ScreenTech != tech {
				t.Errorf("Filter %s returned record with tech %s", tech, r.ScreenTech)
			}
		}
		if len(out) >= len(recs) {
			t.Errorf("Filter %s should produce a true subset, got %d of %d", tech, len(out), len(recs))
		}
	}

	if len(Apply("OLED", recs)) != 0 {
		t.Error("Expected no OLED records in test data")
	}
	if len(recs) != 4 || recs[0].Model != "a" {
		t.Error("Apply must not modify its input")
	}
}

func TestStateApply(t *testing.T) {
	s := NewState()
	if _, err := s.Set("LCD"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	out := s.Apply(testRecords())
	if len(out) != 2 {
		t.Errorf("Expected 2 LCD records, got %d", len(out))
	}
}
