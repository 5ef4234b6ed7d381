// Package echarts turns chart surfaces into ECharts option JSON so the page can
// render them interactively in the browser.
package echarts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"sync"
	"time"

	"tvcharts/internal/render"
	"tvcharts/internal/scales"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ScriptURL is the ECharts build the page loads
const ScriptURL = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

// tooltipFormatter shows the y value (screen size) of the hovered point
const tooltipFormatter = "function (p) { return p.value[1]; }"

// tooltipPosition centers the tooltip box above the hovered point, leaving
// render.TooltipGap pixels between them. The tooltip element lives inside the
// chart container, which is how the chart instance is found.
var tooltipPosition = fmt.Sprintf("function (pt, params, dom, rect, size) {"+
	" var c = echarts.getInstanceByDom(dom.parentNode);"+
	" var p = c ? c.convertToPixel({seriesIndex: params.seriesIndex}, params.value) : pt;"+
	" return [p[0] - size.contentSize[0] / 2, p[1] - size.contentSize[1] - %d]; }", int(render.TooltipGap))

// funcMarker matches the markers opts.FuncOpts puts around JS functions
var funcMarker = regexp.MustCompile(`(__f__")|("__f__)|(__f__)`)

// Snippet is an embeddable chart: a container div and the script filling it
type Snippet struct {
	ID     string
	Title  string
	Option template.JS
	Div    template.HTML
	Script template.HTML
}

// Backend is a render.Drawer that keeps marks until a Snippet is requested
type Backend struct {
	mu       sync.Mutex
	scenes   render.Scenes
	duration time.Duration
}

// New creates a backend whose charts animate data updates over duration
func New(duration time.Duration) *Backend {
	return &Backend{duration: duration}
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

// ShowTooltip records the tooltip; the generated script replays it with showTip
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

// Snippet builds the embeddable chart for the most recent surface called name
func (b *Backend) Snippet(name, title string) (Snippet, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sc, ok := b.scenes.ByName(name)
	if !ok {
		return Snippet{}, fmt.Errorf("%w: %q", render.ErrUnknownSurface, name)
	}

	id := "chart-" + name
	var option map[string]interface{}
	if len(sc.BarGroups) > 0 {
		option = b.barOption(sc, id)
	} else {
		option = b.scatterOption(sc, id)
	}
	if b.duration > 0 {
		option["animationDurationUpdate"] = b.duration.Milliseconds()
		option["animationEasingUpdate"] = "cubicInOut"
	}

	optJSON, err := marshal(option)
	if err != nil {
		return Snippet{}, fmt.Errorf("encode %s option: %w", name, err)
	}

	div := fmt.Sprintf(`<div id="%s" style="width:%dpx;height:%dpx;"></div>`, id, sc.Surface.Width, sc.Surface.Height)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;var c=echarts.init(el);var option=%s;c.setOption(option);%swindow.addEventListener('resize',function(){c.resize();});})();</script>`,
		id, optJSON, showTip(sc))

	return Snippet{
		ID:     id,
		Title:  title,
		Option: template.JS(optJSON),
		Div:    template.HTML(div),
		Script: template.HTML(script),
	}, nil
}

func grid(s render.Surface) opts.Grid {
	px := func(v float64) string { return strconv.Itoa(int(v)) }
	return opts.Grid{
		Left:   px(s.Margin.Left),
		Right:  px(s.Margin.Right),
		Top:    px(s.Margin.Top),
		Bottom: px(s.Margin.Bottom),
	}
}

func initOpts(s render.Surface, id string) opts.Initialization {
	return opts.Initialization{
		ChartID: id,
		Width:   fmt.Sprintf("%dpx", s.Width),
		Height:  fmt.Sprintf("%dpx", s.Height),
	}
}

func (b *Backend) barOption(sc *render.Scene, id string) map[string]interface{} {
	bars := sc.Bars()
	x, _ := sc.AxisAt(render.Bottom)
	y, _ := sc.AxisAt(render.Left)

	labels := make([]string, len(bars))
	data := make([]opts.BarData, len(bars))
	for i, bar := range bars {
		labels[i] = fmt.Sprintf("%s–%s", x.Scale.TickFormat(len(bars), bar.Lower), x.Scale.TickFormat(len(bars), bar.Upper))
		data[i] = opts.BarData{Name: labels[i], Value: bar.Count}
	}

	var style render.BarStyle
	for _, h := range sc.Order() {
		if g, ok := sc.BarGroups[h]; ok {
			style = g.Style
			break
		}
	}

	y0, y1 := y.Scale.Domain()
	chart := charts.NewBar()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(sc.Surface, id)),
		charts.WithGridOpts(grid(sc.Surface)),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Name: x.Label, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: y.Label, Type: "value", Min: y0, Max: y1}),
	)
	chart.SetXAxis(labels).AddSeries("count", data,
		charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "0%"}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: style.Fill, BorderColor: style.Stroke}),
	)
	chart.Validate()
	return chart.JSON()
}

func (b *Backend) scatterOption(sc *render.Scene, id string) map[string]interface{} {
	x, _ := sc.AxisAt(render.Bottom)
	y, _ := sc.AxisAt(render.Left)

	// one series per category, in legend order then first appearance
	type series struct {
		color   string
		opacity float64
		data    []opts.ScatterData
	}
	byCat := make(map[string]*series)
	var order []string
	for _, e := range sc.Legend {
		if _, ok := byCat[e.Label]; !ok {
			byCat[e.Label] = &series{color: e.Color, opacity: 1}
			order = append(order, e.Label)
		}
	}
	for _, d := range sc.Dots() {
		s, ok := byCat[d.Category]
		if !ok {
			s = &series{color: d.Color}
			byCat[d.Category] = s
			order = append(order, d.Category)
		}
		s.opacity = d.Opacity
		s.data = append(s.data, opts.ScatterData{Name: d.Label, Value: []interface{}{d.X, d.Y}, SymbolSize: int(2 * d.Radius)})
	}

	x0, x1 := x.Scale.Domain()
	y0, y1 := y.Scale.Domain()
	chart := charts.NewScatter()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(sc.Surface, id)),
		charts.WithGridOpts(grid(sc.Surface)),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "10", Data: order}),
		charts.WithXAxisOpts(opts.XAxis{Name: x.Label, Type: "value", Min: x0, Max: x1}),
		charts.WithYAxisOpts(opts.YAxis{Name: y.Label, Type: "value", Min: y0, Max: y1}),
	)
	for _, cat := range order {
		s := byCat[cat]
		chart.AddSeries(cat, s.data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.color, Opacity: float32(s.opacity)}))
	}
	chart.Validate()
	option := chart.JSON()
	option["tooltip"] = map[string]interface{}{
		"show":      true,
		"trigger":   "item",
		"formatter": opts.FuncOpts(tooltipFormatter),
		"position":  opts.FuncOpts(tooltipPosition),
	}
	return option
}

// showTip replays a visible tooltip at the hovered point
func showTip(sc *render.Scene) string {
	t := sc.Tooltip
	if t == nil {
		return ""
	}
	m := sc.Surface.Margin
	// the tooltip box sits centered above the point
	px := m.Left + t.X + t.Width/2
	py := m.Top + t.Y + t.Height + render.TooltipGap
	return fmt.Sprintf("c.dispatchAction({type:'showTip',x:%d,y:%d});", int(px), int(py))
}

func marshal(option map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(option); err != nil {
		return "", err
	}
	out := bytes.TrimSpace(buf.Bytes())
	return string(funcMarker.ReplaceAll(out, nil)), nil
}

var _ render.Drawer = (*Backend)(nil)
