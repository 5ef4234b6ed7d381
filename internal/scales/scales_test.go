package scales

import (
	"math"
	"testing"
)

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestTickIncrement(t *testing.T) {
	tests := []struct {
		name         string
		start, stop  float64
		count        int
		expectedStep float64
	}{
		{"energy range", 100, 300, 3, 50},
		{"unit range", 0, 10, 10, 1},
		{"frequency", 0, 7, 10, 0.5},
		{"fractional", 0, 1, 10, 0.1},
		{"wide", 0, 1000, 5, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TickStep(tt.start, tt.stop, tt.count)
			if math.Abs(got-tt.expectedStep) > 1e-12 {
				t.Errorf("TickStep(%v, %v, %d) = %v, expected %v", tt.start, tt.stop, tt.count, got, tt.expectedStep)
			}
		})
	}

	if inc := TickIncrement(5, 5, 3); !math.IsNaN(inc) {
		t.Errorf("Expected NaN increment for empty span, got %v", inc)
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		name        string
		start, stop float64
		count       int
		expected    []float64
	}{
		{"energy", 100, 300, 3, []float64{100, 150, 200, 250, 300}},
		{"fractions", 0, 0.5, 5, []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5}},
		{"reversed", 10, 0, 2, []float64{10, 5, 0}},
		{"single", 4, 4, 10, []float64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ticks(tt.start, tt.stop, tt.count)
			if !floatsEqual(got, tt.expected) {
				t.Errorf("Ticks(%v, %v, %d) = %v, expected %v", tt.start, tt.stop, tt.count, got, tt.expected)
			}
		})
	}
}

func TestNiceBounds(t *testing.T) {
	tests := []struct {
		name            string
		start, stop     float64
		count           int
		expLow, expHigh float64
	}{
		{"already nice", 100, 300, 3, 100, 300},
		{"frequency", 0, 7, 10, 0, 7},
		{"screen sizes", 19, 98, 10, 10, 100},
		{"fractional", 0.13, 0.87, 10, 0.1, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := NiceBounds(tt.start, tt.stop, tt.count)
			if math.Abs(lo-tt.expLow) > 1e-9 || math.Abs(hi-tt.expHigh) > 1e-9 {
				t.Errorf("NiceBounds(%v, %v) = [%v, %v], expected [%v, %v]", tt.start, tt.stop, lo, hi, tt.expLow, tt.expHigh)
			}
			if lo > tt.start || hi < tt.stop {
				t.Errorf("Nice bounds [%v, %v] do not contain [%v, %v]", lo, hi, tt.start, tt.stop)
			}
		})
	}
}

func TestLinearMapAndInvert(t *testing.T) {
	s := NewLinear(0, 10, 310, 0)

	if got := s.Map(0); got != 310 {
		t.Errorf("Map(0) = %v, expected 310", got)
	}
	if got := s.Map(10); got != 0 {
		t.Errorf("Map(10) = %v, expected 0", got)
	}
	if got := s.Map(5); got != 155 {
		t.Errorf("Map(5) = %v, expected 155", got)
	}

	for _, v := range []float64{0, 2.5, 7, 10} {
		if got := s.Invert(s.Map(v)); math.Abs(got-v) > 1e-9 {
			t.Errorf("Invert(Map(%v)) = %v", v, got)
		}
	}

	flat := NewLinear(3, 3, 0, 100)
	if got := flat.Map(3); got != 50 {
		t.Errorf("Expected degenerate domain to map to range middle, got %v", got)
	}
}

func TestLinearNiceReturnsNewScale(t *testing.T) {
	s := NewLinear(0, 7.3, 310, 0)
	n := s.Nice(DefaultTickCount)

	if _, hi := s.Domain(); hi != 7.3 {
		t.Errorf("Expected original scale to be unchanged, got upper bound %v", hi)
	}
	lo, hi := n.Domain()
	if lo != 0 || hi != 8 {
		t.Errorf("Expected niced domain [0, 8], got [%v, %v]", lo, hi)
	}
	if r0, r1 := n.Range(); r0 != 310 || r1 != 0 {
		t.Errorf("Expected range to be kept, got [%v, %v]", r0, r1)
	}
}

func TestLinearNiceUpperBoundCoversMax(t *testing.T) {
	for _, max := range []float64{1, 3, 7, 13, 29, 58, 98, 117, 1234} {
		n := NewLinear(0, max, 1, 0).Nice(DefaultTickCount)
		if _, hi := n.Domain(); hi < max {
			t.Errorf("Niced upper bound %v is below data maximum %v", hi, max)
		}
	}
}

func TestTickFormat(t *testing.T) {
	s := NewLinear(0, 1, 0, 100)
	if got := s.TickFormat(10, 0.3); got != "0.3" {
		t.Errorf("Expected '0.3', got %q", got)
	}
	big := NewLinear(0, 400, 0, 100)
	if got := big.TickFormat(10, 150); got != "150" {
		t.Errorf("Expected '150', got %q", got)
	}
}

func TestOrdinalStableAssignment(t *testing.T) {
	o := NewOrdinal(nil, "LED", "LCD")

	led := o.Color("LED")
	if led != Category10[0] {
		t.Errorf("Expected LED to get first palette color, got %s", led)
	}
	oled := o.Color("OLED")
	if oled != Category10[2] {
		t.Errorf("Expected OLED to get third palette color, got %s", oled)
	}

	for i := 0; i < 5; i++ {
		if o.Color("LED") != led || o.Color("OLED") != oled {
			t.Fatal("Expected category colors to be stable across calls")
		}
	}

	domain := o.Domain()
	if len(domain) != 3 || domain[2] != "OLED" {
		t.Errorf("Unexpected domain %v", domain)
	}
}

func TestOrdinalWrapsPalette(t *testing.T) {
	o := NewOrdinal([]string{"#000", "#fff"})
	o.Color("a")
	o.Color("b")
	if got := o.Color("c"); got != "#000" {
		t.Errorf("Expected palette to wrap, got %s", got)
	}
}
