package loader

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tvcharts/internal/models"
)

const sampleCSV = `brand,model,screenSize,screenTech,energyConsumption,star
Samsung,UA55,55,LED,100,4
LG,OLED65,65,OLED,150,5
Sony,KD43,43,LCD,220,3.5
TCL,65C,65,LED,300,2
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadLocalFile(t *testing.T) {
	path := writeFile(t, "tv.csv", sampleCSV)

	ds, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Len() != 4 {
		t.Fatalf("Expected 4 records, got %d", ds.Len())
	}
	if ds.Source() != path {
		t.Errorf("Expected source %s, got %s", path, ds.Source())
	}

	recs := ds.Records()
	first := recs[0]
	if first.Brand != "Samsung" || first.ScreenTech != models.TechLED {
		t.Errorf("Unexpected first record: %+v", first)
	}
	if first.ScreenSize != 55 || first.EnergyConsumption != 100 || first.Star != 4 {
		t.Errorf("Numeric columns not coerced: %+v", first)
	}
	if recs[2].Star != 3.5 {
		t.Errorf("Expected star 3.5, got %v", recs[2].Star)
	}
}

func TestLoadHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tvdata.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	ds, err := New(5*time.Second).Load(context.Background(), server.URL+"/tvdata.csv")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Len() != 4 {
		t.Errorf("Expected 4 records, got %d", ds.Len())
	}
}

func TestLoadHTTPErrorIsNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := New(5*time.Second).Load(context.Background(), server.URL)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected *LoadError, got %T: %v", err, err)
	}
	if loadErr.Source != server.URL {
		t.Errorf("Expected source %s, got %s", server.URL, loadErr.Source)
	}
	if calls != 1 {
		t.Errorf("Expected exactly 1 request, got %d", calls)
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"empty file", "", "missing header"},
		{"missing column", "brand,model,screenSize,screenTech,star\nA,B,1,LED,2\n", "energyConsumption"},
		{"bad quoting", "brand,model,screenSize,screenTech,energyConsumption,star\n\"A,B,1,LED,2,3\n", "row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "tv.csv", tt.content)
			_, err := Load(context.Background(), path)
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Expected *LoadError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error mentioning %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, writeFile(t, "tv.csv", sampleCSV))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestParseColumnOrderAndExtras(t *testing.T) {
	in := "star,extra,energyConsumption,screenTech,screenSize,model,brand\n" +
		"3, x ,  120 ,OLED,48,M1,B1\n" +
		",,,,,,\n" +
		"1,y,,LCD,abc,M2,B2\n"

	records, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records (blank row skipped), got %d", len(records))
	}
	if records[0].EnergyConsumption != 120 || records[0].ScreenTech != models.TechOLED || records[0].Brand != "B1" {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
	if records[1].EnergyConsumption != 0 {
		t.Errorf("Expected empty cell to coerce to 0, got %v", records[1].EnergyConsumption)
	}
	if !math.IsNaN(records[1].ScreenSize) {
		t.Errorf("Expected unparsable cell to coerce to NaN, got %v", records[1].ScreenSize)
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{" 3.5 ", 3.5},
		{"", 0},
		{"   ", 0},
		{"1e3", 1000},
		{".5", 0.5},
		{"-7", -7},
		{"0x1A", 26},
		{"Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
	}

	for _, tt := range tests {
		if got := Number(tt.in); got != tt.want {
			t.Errorf("Number(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	for _, in := range []string{"abc", "12kWh", "NaN", "inf", "1_000", "0xZZ"} {
		if got := Number(in); !math.IsNaN(got) {
			t.Errorf("Number(%q): expected NaN, got %v", in, got)
		}
	}
}
