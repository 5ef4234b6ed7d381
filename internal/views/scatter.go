package views

import (
	"errors"
	"fmt"
	"strconv"

	"tvcharts/internal/binning"
	"tvcharts/internal/logger"
	"tvcharts/internal/models"
	"tvcharts/internal/render"
	"tvcharts/internal/scales"
)

// ErrPointOutOfRange is returned when hovering a point index that does not exist
var ErrPointOutOfRange = errors.New("point index out of range")

// ScatterConfig configures the star rating / screen size scatterplot
type ScatterConfig struct {
	Name           string
	Width          int
	Height         int
	Margin         render.Margin
	Radius         float64
	Opacity        float64
	Palette        []string
	TickCount      int
	XLabel         string
	YLabel         string
	TooltipWidth   float64
	TooltipHeight  float64
	TooltipFill    string
	TooltipOpacity float64
}

// DefaultScatterConfig returns the scatterplot settings
func DefaultScatterConfig() ScatterConfig {
	return ScatterConfig{
		Name:           "scatterplot",
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Margin:         DefaultMargin,
		Radius:         4,
		Opacity:        0.5,
		Palette:        scales.Category10,
		TickCount:      scales.DefaultTickCount,
		XLabel:         binning.FieldStar.Label(),
		YLabel:         binning.FieldScreenSize.Label(),
		TooltipWidth:   65,
		TooltipHeight:  32,
		TooltipFill:    DefaultBarColor,
		TooltipOpacity: 0.75,
	}
}

// ScatterView plots one point per record, x by star rating and y by screen
// size, colored by screen technology.
type ScatterView struct {
	cfg ScatterConfig
	log *logger.Logger

	drawer  render.Drawer
	surface render.Surface
	points  render.Handle
	drawn   bool

	records []models.Record
	dots    []render.Dot
	x, y    scales.Linear
	color   *scales.Ordinal
	hovered int
}

// NewScatter creates an undrawn scatterplot view
func NewScatter(cfg ScatterConfig) *ScatterView {
	return &ScatterView{
		cfg:     cfg,
		log:     logger.WithComponent("scatterplot"),
		hovered: -1,
	}
}

// Config returns the view configuration
func (v *ScatterView) Config() ScatterConfig {
	return v.cfg
}

// Draw creates the surface and draws points, axes and the technology legend
func (v *ScatterView) Draw(d render.Drawer, records []models.Record) error {
	minStar, maxStar, ok := models.Extent(records, binning.FieldStar.Value)
	if !ok {
		return binning.ErrEmptyDataset
	}
	minSize, maxSize, ok := models.Extent(records, binning.FieldScreenSize.Value)
	if !ok {
		return binning.ErrEmptyDataset
	}

	s, err := d.CreateChartSurface(v.cfg.Name, v.cfg.Width, v.cfg.Height, v.cfg.Margin)
	if err != nil {
		return fmt.Errorf("create scatterplot surface: %w", err)
	}
	v.drawer = d
	v.surface = s
	v.records = append([]models.Record(nil), records...)

	count := v.cfg.TickCount
	if count <= 0 {
		count = scales.DefaultTickCount
	}
	v.x = scales.NewLinear(minStar-0.5, maxStar+0.5, 0, s.InnerWidth())
	v.y = scales.NewLinear(minSize, maxSize, s.InnerHeight(), 0).Nice(count)

	var techs []string
	seen := make(map[models.ScreenTech]bool)
	for _, r := range records {
		if !seen[r.ScreenTech] {
			seen[r.ScreenTech] = true
			techs = append(techs, string(r.ScreenTech))
		}
	}
	v.color = scales.NewOrdinal(v.cfg.Palette, techs...)

	v.dots = make([]render.Dot, len(records))
	for i, r := range records {
		v.dots[i] = render.Dot{
			Center:   render.Point{X: v.x.Map(r.Star), Y: v.y.Map(r.ScreenSize)},
			Radius:   v.cfg.Radius,
			Color:    v.color.Color(string(r.ScreenTech)),
			Opacity:  v.cfg.Opacity,
			X:        r.Star,
			Y:        r.ScreenSize,
			Category: string(r.ScreenTech),
			Label:    r.Brand + " " + r.Model,
		}
	}

	if v.points, err = d.DrawPoints(s, v.dots); err != nil {
		return fmt.Errorf("draw points: %w", err)
	}
	if _, err = d.DrawAxis(s, render.Axis{Orientation: render.Bottom, Scale: v.x, Label: v.cfg.XLabel, TickCount: count}); err != nil {
		return fmt.Errorf("draw x axis: %w", err)
	}
	if _, err = d.DrawAxis(s, render.Axis{Orientation: render.Left, Scale: v.y, Label: v.cfg.YLabel, TickCount: count}); err != nil {
		return fmt.Errorf("draw y axis: %w", err)
	}

	legend := make([]render.LegendEntry, len(techs))
	for i, tech := range techs {
		legend[i] = render.LegendEntry{Label: tech, Color: v.color.Color(tech)}
	}
	if err := d.DrawLegend(s, legend); err != nil {
		return fmt.Errorf("draw legend: %w", err)
	}
	v.drawn = true

	v.log.Debug("Scatterplot drawn", logger.Fields{"points": len(records), "techs": len(techs)})
	return nil
}

// Hover shows the tooltip for point i: its exact screen size in a box
// centered above the point.
func (v *ScatterView) Hover(i int) (render.Tooltip, error) {
	if !v.drawn {
		return render.Tooltip{}, ErrNotDrawn
	}
	if i < 0 || i >= len(v.dots) {
		return render.Tooltip{}, fmt.Errorf("%w: %d of %d", ErrPointOutOfRange, i, len(v.dots))
	}

	tip := v.TooltipFor(i)
	if err := v.drawer.ShowTooltip(v.surface, tip); err != nil {
		return render.Tooltip{}, fmt.Errorf("show tooltip: %w", err)
	}
	v.hovered = i
	return tip, nil
}

// TooltipFor computes the tooltip of point i without showing it
func (v *ScatterView) TooltipFor(i int) render.Tooltip {
	c := v.dots[i].Center
	return render.Tooltip{
		Rect: render.Rect{
			X:      c.X - v.cfg.TooltipWidth/2,
			Y:      c.Y - v.cfg.TooltipHeight - render.TooltipGap,
			Width:  v.cfg.TooltipWidth,
			Height: v.cfg.TooltipHeight,
		},
		Text:      FormatValue(v.records[i].ScreenSize),
		Fill:      v.cfg.TooltipFill,
		Opacity:   v.cfg.TooltipOpacity,
		TextColor: "#ffffff",
	}
}

// Leave hides the tooltip whatever its state
func (v *ScatterView) Leave() error {
	if !v.drawn {
		return ErrNotDrawn
	}
	v.hovered = -1
	if err := v.drawer.HideTooltip(v.surface); err != nil {
		return fmt.Errorf("hide tooltip: %w", err)
	}
	return nil
}

// Hovered returns the hovered point index, or -1
func (v *ScatterView) Hovered() int {
	return v.hovered
}

// Len returns the number of points
func (v *ScatterView) Len() int {
	return len(v.dots)
}

// Dots returns the drawn points
func (v *ScatterView) Dots() []render.Dot {
	return append([]render.Dot(nil), v.dots...)
}

// Scales returns the x and y scales
func (v *ScatterView) Scales() (x, y scales.Linear) {
	return v.x, v.y
}

// Legend returns the technologies in color assignment order
func (v *ScatterView) Legend() []string {
	if v.color == nil {
		return nil
	}
	return v.color.Domain()
}

// Surface returns the surface created by Draw
func (v *ScatterView) Surface() render.Surface {
	return v.surface
}

// FormatValue prints a number with the shortest exact representation
func FormatValue(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
