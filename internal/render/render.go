// Package render defines the drawing boundary between chart views and the
// backends that turn marks into SVG, PNG or ECharts options.
//
// A view creates a Surface, draws groups of marks on it and keeps the returned
// Handles. Later updates go through those handles rather than looking marks up
// by selector.
package render

import (
	"errors"
	"fmt"

	"tvcharts/internal/scales"
)

var (
	// ErrUnknownSurface is returned for surfaces the drawer did not create
	ErrUnknownSurface = errors.New("unknown surface")
	// ErrUnknownHandle is returned for handles that do not name a mark group on the surface
	ErrUnknownHandle = errors.New("unknown handle")
)

// Orientation places an axis relative to the plot area
type Orientation int

const (
	Bottom Orientation = iota
	Left
)

func (o Orientation) String() string {
	switch o {
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Point is a pixel position inside the plot area
type Point struct {
	X, Y float64
}

// Rect is a pixel rectangle inside the plot area
type Rect struct {
	X, Y, Width, Height float64
}

// Margin is the space between the surface edge and the plot area
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Handle names a group of marks on one surface
type Handle int

// Surface is a drawing target created by a Drawer
type Surface struct {
	ID     int
	Name   string
	Width  int
	Height int
	Margin Margin
}

// InnerWidth is the plot area width
func (s Surface) InnerWidth() float64 {
	return float64(s.Width) - s.Margin.Left - s.Margin.Right
}

// InnerHeight is the plot area height
func (s Surface) InnerHeight() float64 {
	return float64(s.Height) - s.Margin.Top - s.Margin.Bottom
}

// Bar is one histogram rectangle with the bin it represents
type Bar struct {
	Rect
	Lower, Upper float64
	Count        float64
}

// BarStyle applies to every bar in a group
type BarStyle struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
}

// Dot is one scatterplot point
type Dot struct {
	Center  Point
	Radius  float64
	Color   string
	Opacity float64
	// X and Y are the data values the dot was placed from
	X, Y     float64
	Category string
	Label    string
}

// Axis describes an axis drawn from a linear scale
type Axis struct {
	Orientation Orientation
	Scale       scales.Linear
	Label       string
	TickCount   int
}

// Tick is one labelled axis tick in pixels along the axis
type Tick struct {
	Value  float64
	Offset float64
	Label  string
}

// Ticks returns the tick marks for the axis
func (a Axis) Ticks() []Tick {
	count := a.TickCount
	if count <= 0 {
		count = scales.DefaultTickCount
	}
	values := a.Scale.Ticks(count)
	out := make([]Tick, len(values))
	for i, v := range values {
		out[i] = Tick{Value: v, Offset: a.Scale.Map(v), Label: a.Scale.TickFormat(count, v)}
	}
	return out
}

// LegendEntry is one legend swatch
type LegendEntry struct {
	Label string
	Color string
}

// TooltipGap is the space between a hovered point and the tooltip box above it
const TooltipGap = 8

// Tooltip is a text box in plot coordinates
type Tooltip struct {
	Rect
	Text      string
	Fill      string
	Opacity   float64
	TextColor string
}

// Drawer is implemented by every rendering backend. Mark groups are
// addressed by the Handle returned when they were first drawn.
type Drawer interface {
	CreateChartSurface(name string, width, height int, margin Margin) (Surface, error)
	DrawBars(s Surface, bars []Bar, style BarStyle) (Handle, error)
	SetBars(s Surface, h Handle, bars []Bar) error
	DrawPoints(s Surface, dots []Dot) (Handle, error)
	DrawAxis(s Surface, axis Axis) (Handle, error)
	UpdateAxis(s Surface, h Handle, scale scales.Linear) error
	DrawLegend(s Surface, entries []LegendEntry) error
	ShowTooltip(s Surface, tip Tooltip) error
	HideTooltip(s Surface) error
}
