package echarts

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"tvcharts/internal/render"
	"tvcharts/internal/scales"
)

var margin = render.Margin{Top: 40, Right: 30, Bottom: 50, Left: 70}

func TestBarSnippet(t *testing.T) {
	b := New(500 * time.Millisecond)
	s, err := b.CreateChartSurface("histogram", 800, 400, margin)
	if err != nil {
		t.Fatalf("CreateChartSurface failed: %v", err)
	}
	bars := []render.Bar{
		{Lower: 100, Upper: 150, Count: 1},
		{Lower: 150, Upper: 200, Count: 2},
	}
	b.DrawBars(s, bars, render.BarStyle{Fill: "#606464", Stroke: "#fffaf0", StrokeWidth: 2})
	b.DrawAxis(s, render.Axis{Orientation: render.Bottom, Scale: scales.NewLinear(100, 200, 0, 700), Label: "Energy"})
	b.DrawAxis(s, render.Axis{Orientation: render.Left, Scale: scales.NewLinear(0, 2, 310, 0), Label: "Frequency"})

	snip, err := b.Snippet("histogram", "Energy consumption")
	if err != nil {
		t.Fatalf("Snippet failed: %v", err)
	}
	if snip.ID != "chart-histogram" {
		t.Errorf("Expected id chart-histogram, got %s", snip.ID)
	}

	var option map[string]interface{}
	if err := json.Unmarshal([]byte(snip.Option), &option); err != nil {
		t.Fatalf("Option is not valid JSON: %v", err)
	}
	if option["animationDurationUpdate"] != float64(500) {
		t.Errorf("Expected animationDurationUpdate 500, got %v", option["animationDurationUpdate"])
	}
	opt := string(snip.Option)
	for _, want := range []string{`"type":"bar"`, "#606464", "100–150", "Frequency"} {
		if !strings.Contains(opt, want) {
			t.Errorf("Expected option to contain %q", want)
		}
	}
	if !strings.Contains(string(snip.Script), "echarts.init") {
		t.Error("Expected init script")
	}
}

func TestScatterSnippetWithTooltip(t *testing.T) {
	b := New(0)
	s, _ := b.CreateChartSurface("scatterplot", 800, 400, margin)
	dots := []render.Dot{
		{Center: render.Point{X: 10, Y: 20}, Radius: 4, Color: "#1f77b4", Opacity: 0.5, X: 4, Y: 55, Category: "LED"},
		{Center: render.Point{X: 30, Y: 40}, Radius: 4, Color: "#ff7f0e", Opacity: 0.5, X: 5, Y: 65, Category: "OLED"},
	}
	b.DrawPoints(s, dots)
	b.DrawAxis(s, render.Axis{Orientation: render.Bottom, Scale: scales.NewLinear(3.5, 5.5, 0, 700)})
	b.DrawAxis(s, render.Axis{Orientation: render.Left, Scale: scales.NewLinear(50, 70, 310, 0)})
	b.DrawLegend(s, []render.LegendEntry{{Label: "LED", Color: "#1f77b4"}, {Label: "OLED", Color: "#ff7f0e"}})
	b.ShowTooltip(s, render.Tooltip{Rect: render.Rect{X: -22.5, Y: -20, Width: 65, Height: 32}, Text: "55"})

	snip, err := b.Snippet("scatterplot", "Screen size by star rating")
	if err != nil {
		t.Fatalf("Snippet failed: %v", err)
	}
	opt := string(snip.Option)
	if !strings.Contains(opt, tooltipFormatter) {
		t.Errorf("Expected raw formatter function in option, got %s", opt)
	}
	if !strings.Contains(opt, `"position":`+tooltipPosition) {
		t.Errorf("Expected tooltip position function in option, got %s", opt)
	}
	// centered horizontally, bottom edge 8px above the point
	for _, want := range []string{"convertToPixel", "p[0] - size.contentSize[0] / 2", "p[1] - size.contentSize[1] - 8"} {
		if !strings.Contains(tooltipPosition, want) {
			t.Errorf("Expected position function to contain %q, got %s", want, tooltipPosition)
		}
	}
	if strings.Contains(opt, "__f__") {
		t.Error("Expected function markers to be stripped")
	}
	if strings.Count(opt, `"type":"scatter"`) != 2 {
		t.Errorf("Expected one scatter series per technology, got %s", opt)
	}
	if strings.Contains(opt, "animationDurationUpdate") {
		t.Error("Expected no update animation override for zero duration")
	}
	if !strings.Contains(string(snip.Script), "c.dispatchAction({type:'showTip',x:80,y:60});") {
		t.Errorf("Expected showTip at the hovered point, got %s", snip.Script)
	}

	b.HideTooltip(s)
	snip, _ = b.Snippet("scatterplot", "")
	if strings.Contains(string(snip.Script), "showTip") {
		t.Error("Expected no showTip after HideTooltip")
	}
}

func TestSnippetUnknownSurface(t *testing.T) {
	if _, err := New(0).Snippet("nope", ""); !errors.Is(err, render.ErrUnknownSurface) {
		t.Errorf("Expected ErrUnknownSurface, got %v", err)
	}
}
