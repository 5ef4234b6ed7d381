// Package dashboard owns the chart context: the dataset, the filter state,
// both views and their backends. All user actions reach it as commands and
// are processed one at a time.
package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"tvcharts/internal/binning"
	"tvcharts/internal/filter"
	"tvcharts/internal/logger"
	"tvcharts/internal/metrics"
	"tvcharts/internal/models"
	"tvcharts/internal/render"
	"tvcharts/internal/render/echarts"
	"tvcharts/internal/render/svg"
	"tvcharts/internal/views"
)

var (
	// ErrPointOutOfRange is returned by Hover for an index without a point
	ErrPointOutOfRange = views.ErrPointOutOfRange
	// ErrUnknownChart is returned by Snapshot for a chart name that is not drawn
	ErrUnknownChart = errors.New("unknown chart")
	// ErrUnknownCommand is returned for command types the controller does not handle
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUnavailable is returned by Send when the controller does not take the request
	ErrUnavailable = errors.New("controller unavailable")
)

// Chart names
const (
	ChartHistogram   = "histogram"
	ChartScatterplot = "scatterplot"
)

// Config holds the per-chart configuration owned by the controller
type Config struct {
	Histogram views.HistogramConfig
	Scatter   views.ScatterConfig
	// Clock returns the current time; transitions are computed from it
	Clock func() time.Time
}

// DefaultConfig returns the default chart configuration
func DefaultConfig() Config {
	return Config{
		Histogram: views.DefaultHistogramConfig(),
		Scatter:   views.DefaultScatterConfig(),
		Clock:     time.Now,
	}
}

// Controller processes commands against the chart context. It is not safe
// for concurrent use; Run serializes requests from many goroutines.
type Controller struct {
	cfg     Config
	log     *logger.Logger
	metrics *metrics.Metrics

	dataset *models.Dataset
	filter  *filter.State
	// filtered is the subset shown by the histogram
	filtered []models.Record

	histogram *views.HistogramView
	scatter   *views.ScatterView

	images      *svg.Backend
	interactive *echarts.Backend
	extra       []render.Drawer
}

// Option customizes a Controller
type Option func(*Controller)

// WithMetrics records command metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithDrawer adds another backend that receives every drawing call
func WithDrawer(d render.Drawer) Option {
	return func(c *Controller) { c.extra = append(c.extra, d) }
}

// New draws both charts for ds with the "all" filter active
func New(ds *models.Dataset, cfg Config, options ...Option) (*Controller, error) {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	c := &Controller{
		cfg:         cfg,
		log:         logger.WithComponent("dashboard"),
		dataset:     ds,
		filter:      filter.NewState(),
		histogram:   views.NewHistogram(cfg.Histogram),
		scatter:     views.NewScatter(cfg.Scatter),
		images:      svg.New(views.DefaultBackground),
		interactive: echarts.New(cfg.Histogram.Duration),
	}
	for _, opt := range options {
		opt(c)
	}

	drawer := render.NewTee(append([]render.Drawer{c.images, c.interactive}, c.extra...)...)

	records := ds.Records()
	c.filtered = c.filter.Apply(records)
	hist, err := binning.Bin(c.filtered, cfg.Histogram.Field)
	if err != nil {
		return nil, fmt.Errorf("bin %s: %w", cfg.Histogram.Field, err)
	}
	if err := c.histogram.Draw(drawer, hist); err != nil {
		return nil, fmt.Errorf("draw histogram: %w", err)
	}
	if err := c.scatter.Draw(drawer, records); err != nil {
		return nil, fmt.Errorf("draw scatterplot: %w", err)
	}

	c.metrics.SetDatasetRecords(ds.Len())
	c.log.Info("Charts drawn", logger.Fields{
		"records": ds.Len(),
		"bins":    len(hist.Bins),
		"skipped": hist.Skipped,
	})
	return c, nil
}

// Handle processes one command to completion
func (c *Controller) Handle(cmd Command) (Result, error) {
	now := c.cfg.Clock()
	if err := c.histogram.Tick(now); err != nil {
		c.log.Warn("Histogram tick failed", logger.Fields{"error": err.Error()})
	}

	var (
		res Result
		err error
	)
	switch cmd := cmd.(type) {
	case SetFilter:
		res, err = c.setFilter(cmd.ID, now)
	case Hover:
		res, err = c.hover(cmd.Index)
	case Leave:
		err = c.scatter.Leave()
	case Snapshot:
		res, err = c.snapshot(cmd)
	case State:
		res, err = c.state()
	case Tick:
		// the tick above already advanced the transition
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	name := "unknown"
	if cmd != nil {
		name = cmd.Name()
	}
	c.metrics.Command(name, err)
	if err != nil {
		return Result{}, err
	}
	if _, ok := cmd.(State); !ok {
		res.Status = c.status()
	}
	return res, nil
}

func (c *Controller) setFilter(id filter.ID, now time.Time) (Result, error) {
	changed, err := c.filter.Set(id)
	if err != nil {
		return Result{}, err
	}
	if !changed {
		return Result{}, nil
	}
	c.metrics.FilterChanged(string(id))

	c.filtered = c.filter.Apply(c.dataset.Records())
	hist, err := binning.Bin(c.filtered, c.cfg.Histogram.Field)
	if errors.Is(err, binning.ErrEmptyDataset) {
		c.log.Warn("Filter selects no binnable records, keeping current histogram", logger.Fields{"filter": string(id)})
		return Result{Changed: true, Skipped: true}, nil
	}
	if err != nil {
		return Result{}, err
	}
	if err := c.histogram.Update(hist, now); err != nil {
		return Result{}, fmt.Errorf("update histogram: %w", err)
	}

	c.log.Info("Filter applied", logger.Fields{
		"filter":  string(id),
		"records": len(c.filtered),
		"bins":    len(hist.Bins),
	})

	// the bars carry their target counts from the first frame, so the
	// browser can animate towards this option on its own
	snip, err := c.snippet(chartTitles[0])
	if err != nil {
		return Result{}, err
	}
	return Result{Changed: true, Snippets: []echarts.Snippet{snip}}, nil
}

func (c *Controller) hover(i int) (Result, error) {
	tip, err := c.scatter.Hover(i)
	if err != nil {
		return Result{}, err
	}
	return Result{Tooltip: &tip}, nil
}

func (c *Controller) snapshot(cmd Snapshot) (Result, error) {
	name := cmd.Chart
	if name != ChartHistogram && name != ChartScatterplot {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	format := cmd.Format
	if format == "" {
		format = svg.SVG
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := c.images.SaveNamed(name, &buf, format); err != nil {
		return Result{}, fmt.Errorf("render %s: %w", name, err)
	}
	c.metrics.Rendered(string(format), name, time.Since(start))

	return Result{Image: buf.Bytes(), ContentType: format.ContentType()}, nil
}

type chartTitle struct{ name, title string }

var chartTitles = []chartTitle{
	{ChartHistogram, "Energy consumption"},
	{ChartScatterplot, "Screen size by star rating"},
}

func (c *Controller) snippet(t chartTitle) (echarts.Snippet, error) {
	start := time.Now()
	snip, err := c.interactive.Snippet(t.name, t.title)
	if err != nil {
		return echarts.Snippet{}, fmt.Errorf("chart %s: %w", t.name, err)
	}
	c.metrics.Rendered("echarts", t.name, time.Since(start))
	return snip, nil
}

func (c *Controller) state() (Result, error) {
	snippets := make([]echarts.Snippet, 0, len(chartTitles))
	for _, t := range chartTitles {
		snip, err := c.snippet(t)
		if err != nil {
			return Result{}, err
		}
		snippets = append(snippets, snip)
	}
	return Result{Status: c.status(), Snippets: snippets}, nil
}

func (c *Controller) status() Status {
	hist := c.histogram.Histogram()
	bins := make([]BinSummary, len(hist.Bins))
	for i, b := range hist.Bins {
		bins[i] = BinSummary{Lower: b.Lower, Upper: b.Upper, Count: b.Count()}
	}
	byTech := make(map[string]int)
	for tech, n := range c.dataset.CountByTech() {
		byTech[string(tech)] = n
	}
	return Status{
		Source:    c.dataset.Source(),
		Field:     string(hist.Field),
		Filter:    c.filter.Active(),
		Filters:   c.filter.Filters(),
		Records:   c.dataset.Len(),
		Filtered:  len(c.filtered),
		Skipped:   hist.Skipped,
		Bins:      bins,
		ByTech:    byTech,
		Hovered:   c.scatter.Hovered(),
		Animating: c.histogram.Animating(),
	}
}

// Request carries a command to Run and the channel its reply goes to
type Request struct {
	Ctx   context.Context
	Cmd   Command
	Reply chan<- Reply
}

// Reply is the outcome of a Request
type Reply struct {
	Result Result
	Err    error
}

// Run handles requests one at a time until ctx is done or requests is closed.
// Requests whose context is already cancelled are answered without running.
func (c *Controller) Run(ctx context.Context, requests <-chan Request) error {
	c.log.Info("Controller running")
	defer c.log.Info("Controller stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req, ok := <-requests:
			if !ok {
				return nil
			}
			var rep Reply
			if req.Cmd == nil {
				rep.Err = ErrUnknownCommand
			} else if req.Ctx != nil && req.Ctx.Err() != nil {
				rep.Err = req.Ctx.Err()
			} else {
				rep.Result, rep.Err = c.Handle(req.Cmd)
			}
			if req.Reply != nil {
				// reply channels are buffered by Send; never block the loop
				select {
				case req.Reply <- rep:
				default:
					c.log.Warn("Dropping reply nobody is waiting for")
				}
			}
		}
	}
}

// Send submits cmd to a running controller and waits for its reply
func Send(ctx context.Context, requests chan<- Request, cmd Command) (Result, error) {
	reply := make(chan Reply, 1)
	select {
	case requests <- Request{Ctx: ctx, Cmd: cmd, Reply: reply}:
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
	select {
	case rep := <-reply:
		return rep.Result, rep.Err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
