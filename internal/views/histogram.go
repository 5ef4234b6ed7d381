package views

import (
	"errors"
	"fmt"
	"time"

	"tvcharts/internal/binning"
	"tvcharts/internal/logger"
	"tvcharts/internal/render"
	"tvcharts/internal/scales"
)

// ErrNotDrawn is returned when updating a view before its first Draw
var ErrNotDrawn = errors.New("view has not been drawn")

// Shared chart geometry and colors
const (
	DefaultWidth      = 800
	DefaultHeight     = 400
	DefaultBarColor   = "#606464"
	DefaultBackground = "#fffaf0"
)

// DefaultMargin leaves room for axes and labels
var DefaultMargin = render.Margin{Top: 40, Right: 30, Bottom: 50, Left: 70}

// HistogramConfig configures one histogram chart
type HistogramConfig struct {
	Name        string
	Width       int
	Height      int
	Margin      render.Margin
	Field       binning.Field
	BarColor    string
	StrokeColor string
	StrokeWidth float64
	Duration    time.Duration
	TickCount   int
	YLabel      string
}

// DefaultHistogramConfig returns the energy consumption histogram settings
func DefaultHistogramConfig() HistogramConfig {
	return HistogramConfig{
		Name:        "histogram",
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Margin:      DefaultMargin,
		Field:       binning.FieldEnergyConsumption,
		BarColor:    DefaultBarColor,
		StrokeColor: DefaultBackground,
		StrokeWidth: 2,
		Duration:    500 * time.Millisecond,
		TickCount:   scales.DefaultTickCount,
		YLabel:      "Frequency",
	}
}

// HistogramView draws bins as bars and animates them between histograms
type HistogramView struct {
	cfg HistogramConfig
	log *logger.Logger

	drawer  render.Drawer
	surface render.Surface
	bars    render.Handle
	xAxis   render.Handle
	yAxis   render.Handle
	drawn   bool

	hist    binning.Histogram
	x, y    scales.Linear
	current []render.Bar
	anim    *transition
}

// NewHistogram creates an undrawn histogram view
func NewHistogram(cfg HistogramConfig) *HistogramView {
	return &HistogramView{
		cfg: cfg,
		log: logger.WithComponent("histogram"),
	}
}

// Config returns the view configuration
func (v *HistogramView) Config() HistogramConfig {
	return v.cfg
}

// Draw creates the surface and draws bars and both axes for hist
func (v *HistogramView) Draw(d render.Drawer, hist binning.Histogram) error {
	if len(hist.Bins) == 0 {
		return binning.ErrEmptyDataset
	}
	s, err := d.CreateChartSurface(v.cfg.Name, v.cfg.Width, v.cfg.Height, v.cfg.Margin)
	if err != nil {
		return fmt.Errorf("create histogram surface: %w", err)
	}

	v.drawer = d
	v.surface = s
	v.hist = hist
	v.x, v.y = v.scalesFor(hist)
	v.current = v.barsFor(hist)

	style := render.BarStyle{Fill: v.cfg.BarColor, Stroke: v.cfg.StrokeColor, StrokeWidth: v.cfg.StrokeWidth}
	if v.bars, err = d.DrawBars(s, v.current, style); err != nil {
		return fmt.Errorf("draw bars: %w", err)
	}
	if v.xAxis, err = d.DrawAxis(s, render.Axis{Orientation: render.Bottom, Scale: v.x, Label: hist.Field.Label(), TickCount: v.cfg.TickCount}); err != nil {
		return fmt.Errorf("draw x axis: %w", err)
	}
	if v.yAxis, err = d.DrawAxis(s, render.Axis{Orientation: render.Left, Scale: v.y, Label: v.cfg.YLabel, TickCount: v.cfg.TickCount}); err != nil {
		return fmt.Errorf("draw y axis: %w", err)
	}
	v.drawn = true

	v.log.Debug("Histogram drawn", logger.Fields{"bins": len(hist.Bins), "records": hist.Total()})
	return nil
}

// Update recomputes scales for hist, updates the axes and starts a transition
// from the geometry visible at now. The bars move on subsequent Ticks.
func (v *HistogramView) Update(hist binning.Histogram, now time.Time) error {
	if !v.drawn {
		return ErrNotDrawn
	}
	if len(hist.Bins) == 0 {
		return binning.ErrEmptyDataset
	}

	from := v.current
	if v.anim != nil {
		from, _ = v.anim.frame(now)
	}

	v.hist = hist
	v.x, v.y = v.scalesFor(hist)
	if err := v.drawer.UpdateAxis(v.surface, v.xAxis, v.x); err != nil {
		return fmt.Errorf("update x axis: %w", err)
	}
	if err := v.drawer.UpdateAxis(v.surface, v.yAxis, v.y); err != nil {
		return fmt.Errorf("update y axis: %w", err)
	}

	v.anim = newTransition(from, v.barsFor(hist), now, v.cfg.Duration)
	return v.Tick(now)
}

// Tick pushes the frame at now to the drawer. It does nothing when no
// transition is running.
func (v *HistogramView) Tick(now time.Time) error {
	if !v.drawn {
		return ErrNotDrawn
	}
	if v.anim == nil {
		return nil
	}
	frame, done := v.anim.frame(now)
	if err := v.drawer.SetBars(v.surface, v.bars, frame); err != nil {
		return fmt.Errorf("set bars: %w", err)
	}
	v.current = frame
	if done {
		v.anim = nil
	}
	return nil
}

// Animating reports whether a transition is in flight
func (v *HistogramView) Animating() bool {
	return v.anim != nil
}

// Settle jumps to the end of any transition
func (v *HistogramView) Settle() error {
	if v.anim == nil {
		return nil
	}
	return v.Tick(v.anim.start.Add(v.anim.duration))
}

// Histogram returns the histogram currently targeted by the view
func (v *HistogramView) Histogram() binning.Histogram {
	return v.hist
}

// Scales returns the current x and y scales
func (v *HistogramView) Scales() (x, y scales.Linear) {
	return v.x, v.y
}

// Bars returns the bars as last pushed to the drawer
func (v *HistogramView) Bars() []render.Bar {
	return append([]render.Bar(nil), v.current...)
}

// Surface returns the surface created by Draw
func (v *HistogramView) Surface() render.Surface {
	return v.surface
}

func (v *HistogramView) scalesFor(hist binning.Histogram) (x, y scales.Linear) {
	lo, hi := hist.Extent()
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	innerW := v.surface.InnerWidth()
	innerH := v.surface.InnerHeight()
	count := v.cfg.TickCount
	if count <= 0 {
		count = scales.DefaultTickCount
	}
	x = scales.NewLinear(lo, hi, 0, innerW)
	y = scales.NewLinear(0, float64(hist.MaxCount()), innerH, 0).Nice(count)
	return x, y
}

func (v *HistogramView) barsFor(hist binning.Histogram) []render.Bar {
	innerH := v.surface.InnerHeight()
	bars := make([]render.Bar, len(hist.Bins))
	for i, b := range hist.Bins {
		lo, hi := b.Lower, b.Upper
		if lo == hi {
			lo, hi = lo-0.5, hi+0.5
		}
		x0, x1 := v.x.Map(lo), v.x.Map(hi)
		top := v.y.Map(float64(b.Count()))
		bars[i] = render.Bar{
			Rect:  render.Rect{X: x0, Y: top, Width: x1 - x0, Height: innerH - top},
			Lower: b.Lower,
			Upper: b.Upper,
			Count: float64(b.Count()),
		}
	}
	return bars
}
