package render

import (
	"errors"
	"testing"

	"tvcharts/internal/scales"
)

func TestScenesCreate(t *testing.T) {
	var ss Scenes

	s, err := ss.Create("histogram", 800, 400, Margin{Top: 40, Right: 30, Bottom: 50, Left: 70})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if s.InnerWidth() != 700 || s.InnerHeight() != 310 {
		t.Errorf("Expected inner size 700x310, got %vx%v", s.InnerWidth(), s.InnerHeight())
	}

	other, _ := ss.Create("scatterplot", 800, 400, Margin{})
	if other.ID == s.ID {
		t.Error("Expected distinct surface ids")
	}

	tests := []struct {
		w, h   int
		margin Margin
	}{
		{0, 400, Margin{}},
		{800, -1, Margin{}},
		{100, 100, Margin{Left: 60, Right: 40}},
	}
	for _, tt := range tests {
		if _, err := ss.Create("bad", tt.w, tt.h, tt.margin); err == nil {
			t.Errorf("Expected error for %dx%d with margin %+v", tt.w, tt.h, tt.margin)
		}
	}
}

func TestScenesUnknownSurface(t *testing.T) {
	var ss Scenes
	if _, err := ss.Get(Surface{ID: 42}); !errors.Is(err, ErrUnknownSurface) {
		t.Errorf("Expected ErrUnknownSurface, got %v", err)
	}
}

func TestSceneHandles(t *testing.T) {
	sc := NewScene(Surface{ID: 1, Width: 800, Height: 400})

	bars := []Bar{{Rect: Rect{X: 0, Width: 10, Height: 5}, Count: 1}}
	hb := sc.AddBars(bars, BarStyle{Fill: "#606464"})
	bars[0].Count = 99
	if sc.Bars()[0].Count != 1 {
		t.Error("AddBars must copy its input")
	}

	ha := sc.AddAxis(Axis{Orientation: Left, Scale: scales.NewLinear(0, 1, 310, 0)})
	if ha == hb {
		t.Fatal("Expected distinct handles")
	}

	if err := sc.SetBars(ha, nil); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("Expected ErrUnknownHandle when updating bars through an axis handle, got %v", err)
	}
	if err := sc.UpdateAxis(hb, scales.Linear{}); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("Expected ErrUnknownHandle when updating an axis through a bar handle, got %v", err)
	}

	if err := sc.SetBars(hb, []Bar{{Count: 2}, {Count: 3}}); err != nil {
		t.Fatalf("SetBars failed: %v", err)
	}
	if got := len(sc.Bars()); got != 2 {
		t.Errorf("Expected 2 bars, got %d", got)
	}

	if err := sc.UpdateAxis(ha, scales.NewLinear(0, 5, 310, 0)); err != nil {
		t.Fatalf("UpdateAxis failed: %v", err)
	}
	axis, ok := sc.AxisAt(Left)
	if !ok {
		t.Fatal("Expected a left axis")
	}
	if _, d1 := axis.Scale.Domain(); d1 != 5 {
		t.Errorf("Expected updated left axis domain to end at 5, got %v", d1)
	}
	if _, ok := sc.AxisAt(Bottom); ok {
		t.Error("Expected no bottom axis")
	}
}

func TestAxisTicks(t *testing.T) {
	a := Axis{Orientation: Bottom, Scale: scales.NewLinear(0, 10, 0, 100), TickCount: 5}
	ticks := a.Ticks()
	if len(ticks) != 6 {
		t.Fatalf("Expected 6 ticks, got %d", len(ticks))
	}
	if ticks[1].Value != 2 || ticks[1].Offset != 20 || ticks[1].Label != "2" {
		t.Errorf("Unexpected tick: %+v", ticks[1])
	}
}
