// Package svg renders chart surfaces to SVG or PNG with go-chart's renderer.
// Marks are retained per surface and the whole surface is redrawn on Save.
package svg

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"tvcharts/internal/render"
	"tvcharts/internal/scales"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the output encoding
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat accepts "svg" or "png"
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case SVG:
		return SVG, nil
	case PNG:
		return PNG, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// ContentType returns the MIME type of f
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// DefaultBackground is the page color behind every chart
const DefaultBackground = "#fffaf0"

const (
	axisColor     = "#333333"
	tickSize      = 6
	tickFontSize  = 10
	labelFontSize = 12
	circleSteps   = 24
)

// Backend is a render.Drawer producing static images
type Backend struct {
	mu         sync.Mutex
	scenes     render.Scenes
	background string
	font       *truetype.Font
}

// New creates a backend painting surfaces on background (a #rrggbb color)
func New(background string) *Backend {
	if background == "" {
		background = DefaultBackground
	}
	return &Backend{background: background}
}

func (b *Backend) CreateChartSurface(name string, width, height int, margin render.Margin) (render.Surface, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scenes.Create(name, width, height, margin)
}

func (b *Backend) DrawBars(s render.Surface, bars []render.Bar, style render.BarStyle) (render.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sc, err := b.scenes.Get(s)
	if err != nil {
		return 0, err
	}
	return sc.AddBars(bars, style), nil
}

func (b *Backend) SetBars(s render.Surface, h render.Handle, bars []render.Bar) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	sc, err := b.scenes.Get(s)
	if err != nil {
		return err
	}
	return sc.SetBars(h, bars)
}

func (b *Backend) DrawPoints(s render.Surface, dots []render.Dot) (render.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sc, err := b.scenes.Get(s)
	if err != nil {
		return 0, err
	}
	return sc.AddPoints(dots), nil
}

func (b *Backend) DrawAxis(s render.Surface, axis render.Axis) (render.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sc, err := b.scenes.Get(s)
	if err != nil {
		return 0, err
	}
	return sc.AddAxis(axis), nil
}

func (b *Backend) UpdateAxis(s render.Surface, h render.Handle, scale scales.Linear) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	sc, err := b.scenes.Get(s)
	if err != nil {
		return err
	}
	return sc.UpdateAxis(h, scale)
}

func (b *Backend) DrawLegend(s render.Surface, entries []render.LegendEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	sc, err := b.scenes.Get(s)
	if err != nil {
		return err
	}
	sc.Legend = append([]render.LegendEntry(nil), entries...)
	return nil
}

func (b *Backend) ShowTooltip(s render.Surface, tip render.Tooltip) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	sc, err := b.scenes.Get(s)
	if err != nil {
		return err
	}
	sc.Tooltip = &tip
	return nil
}

func (b *Backend) HideTooltip(s render.Surface) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	sc, err := b.scenes.Get(s)
	if err != nil {
		return err
	}
	sc.Tooltip = nil
	return nil
}

// SaveNamed writes the most recent surface called name
func (b *Backend) SaveNamed(name string, w io.Writer, f Format) error {
	b.mu.Lock()
	sc, ok := b.scenes.ByName(name)
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", render.ErrUnknownSurface, name)
	}
	return b.Save(sc.Surface, w, f)
}

// Save paints the current state of s and writes it to w
func (b *Backend) Save(s render.Surface, w io.Writer, f Format) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sc, err := b.scenes.Get(s)
	if err != nil {
		return err
	}

	provider := chart.SVG
	if f == PNG {
		provider = chart.PNG
	}
	r, err := provider(s.Width, s.Height)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	if b.font == nil {
		font, err := chart.GetDefaultFont()
		if err != nil {
			return fmt.Errorf("load font: %w", err)
		}
		b.font = font
	}
	r.SetFont(b.font)

	p := painter{r: r, ox: s.Margin.Left, oy: s.Margin.Top}
	p.rect(render.Rect{X: -s.Margin.Left, Y: -s.Margin.Top, Width: float64(s.Width), Height: float64(s.Height)}, b.background, "", 0)

	for _, h := range sc.Order() {
		switch {
		case sc.BarGroups[h] != nil:
			g := sc.BarGroups[h]
			for _, bar := range g.Bars {
				p.rect(bar.Rect, g.Style.Fill, g.Style.Stroke, g.Style.StrokeWidth)
			}
		case sc.Axes[h] != nil:
			p.axis(*sc.Axes[h], s)
		default:
			for _, d := range sc.PointGroups[h] {
				p.circle(d)
			}
		}
	}
	p.legend(sc.Legend, s)
	if sc.Tooltip != nil {
		p.tooltip(*sc.Tooltip)
	}

	return r.Save(w)
}

// painter draws in plot coordinates offset by the surface margins
type painter struct {
	r      chart.Renderer
	ox, oy float64
}

func (p painter) pt(x, y float64) (int, int) {
	return int(math.Round(p.ox + x)), int(math.Round(p.oy + y))
}

func (p painter) rect(rc render.Rect, fill, stroke string, strokeWidth float64) {
	if rc.Width <= 0 || rc.Height <= 0 {
		return
	}
	p.r.ResetStyle()
	p.r.SetFillColor(parseColor(fill, 1))
	if stroke != "" && strokeWidth > 0 {
		p.r.SetStrokeColor(parseColor(stroke, 1))
		p.r.SetStrokeWidth(strokeWidth)
	} else {
		p.r.SetStrokeColor(drawing.ColorTransparent)
		p.r.SetStrokeWidth(0)
	}
	x0, y0 := p.pt(rc.X, rc.Y)
	x1, y1 := p.pt(rc.X+rc.Width, rc.Y+rc.Height)
	p.r.MoveTo(x0, y0)
	p.r.LineTo(x1, y0)
	p.r.LineTo(x1, y1)
	p.r.LineTo(x0, y1)
	p.r.Close()
	if stroke != "" && strokeWidth > 0 {
		p.r.FillStroke()
	} else {
		p.r.Fill()
	}
}

// circle approximates a dot with a polygon path
func (p painter) circle(d render.Dot) {
	if math.IsNaN(d.Center.X) || math.IsNaN(d.Center.Y) {
		return
	}
	p.r.ResetStyle()
	p.r.SetFillColor(parseColor(d.Color, d.Opacity))
	for i := 0; i <= circleSteps; i++ {
		angle := 2 * math.Pi * float64(i) / circleSteps
		x, y := p.pt(d.Center.X+d.Radius*math.Cos(angle), d.Center.Y+d.Radius*math.Sin(angle))
		if i == 0 {
			p.r.MoveTo(x, y)
		} else {
			p.r.LineTo(x, y)
		}
	}
	p.r.Close()
	p.r.Fill()
}

func (p painter) line(x0, y0, x1, y1 float64) {
	p.r.ResetStyle()
	p.r.SetStrokeColor(parseColor(axisColor, 1))
	p.r.SetStrokeWidth(1)
	ax, ay := p.pt(x0, y0)
	bx, by := p.pt(x1, y1)
	p.r.MoveTo(ax, ay)
	p.r.LineTo(bx, by)
	p.r.Stroke()
}

func (p painter) text(body string, x, y float64, size float64, color string) chart.Box {
	p.r.SetFontSize(size)
	p.r.SetFontColor(parseColor(color, 1))
	box := p.r.MeasureText(body)
	tx, ty := p.pt(x, y)
	p.r.Text(body, tx, ty)
	return box
}

func (p painter) measure(body string, size float64) chart.Box {
	p.r.SetFontSize(size)
	return p.r.MeasureText(body)
}

func (p painter) axis(a render.Axis, s render.Surface) {
	r0, r1 := a.Scale.Range()
	ticks := a.Ticks()

	switch a.Orientation {
	case render.Bottom:
		y := s.InnerHeight()
		p.line(r0, y, r1, y)
		for _, t := range ticks {
			p.line(t.Offset, y, t.Offset, y+tickSize)
			box := p.measure(t.Label, tickFontSize)
			p.text(t.Label, t.Offset-float64(box.Width())/2, y+tickSize+float64(box.Height())+3, tickFontSize, axisColor)
		}
		if a.Label != "" {
			box := p.measure(a.Label, labelFontSize)
			p.text(a.Label, (r0+r1)/2-float64(box.Width())/2, s.InnerHeight()+s.Margin.Bottom-8, labelFontSize, axisColor)
		}
	case render.Left:
		p.line(0, r0, 0, r1)
		for _, t := range ticks {
			p.line(-tickSize, t.Offset, 0, t.Offset)
			box := p.measure(t.Label, tickFontSize)
			p.text(t.Label, -tickSize-3-float64(box.Width()), t.Offset+float64(box.Height())/2, tickFontSize, axisColor)
		}
		if a.Label != "" {
			box := p.measure(a.Label, labelFontSize)
			p.r.SetTextRotation(-math.Pi / 2)
			p.text(a.Label, -s.Margin.Left+float64(box.Height())+4, (r0+r1)/2+float64(box.Width())/2, labelFontSize, axisColor)
			p.r.ClearTextRotation()
		}
	}
}

func (p painter) legend(entries []render.LegendEntry, s render.Surface) {
	if len(entries) == 0 {
		return
	}
	x := s.InnerWidth() - 60.0
	y := 4.0
	for _, e := range entries {
		p.circle(render.Dot{Center: render.Point{X: x, Y: y}, Radius: 5, Color: e.Color, Opacity: 1})
		p.text(e.Label, x+10, y+4, tickFontSize, axisColor)
		y += 16
	}
}

func (p painter) tooltip(t render.Tooltip) {
	fill := t.Fill
	if fill == "" {
		fill = axisColor
	}
	p.r.ResetStyle()
	opacity := t.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	p.r.SetFillColor(parseColor(fill, opacity))
	x0, y0 := p.pt(t.X, t.Y)
	x1, y1 := p.pt(t.X+t.Width, t.Y+t.Height)
	p.r.MoveTo(x0, y0)
	p.r.LineTo(x1, y0)
	p.r.LineTo(x1, y1)
	p.r.LineTo(x0, y1)
	p.r.Close()
	p.r.Fill()

	textColor := t.TextColor
	if textColor == "" {
		textColor = "#ffffff"
	}
	box := p.measure(t.Text, labelFontSize)
	p.text(t.Text, t.X+t.Width/2-float64(box.Width())/2, t.Y+t.Height/2+float64(box.Height())/2, labelFontSize, textColor)
}

// parseColor converts #rrggbb into a drawing color with the given opacity
func parseColor(hex string, opacity float64) drawing.Color {
	c := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	if opacity >= 1 || opacity <= 0 {
		return c
	}
	return c.WithAlpha(uint8(math.Round(opacity * 255)))
}

var _ render.Drawer = (*Backend)(nil)
