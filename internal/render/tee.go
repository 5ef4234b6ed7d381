package render

import (
	"fmt"
	"sync"

	"tvcharts/internal/scales"
)

// Tee forwards every call to several drawers. It hands out its own surfaces
// and handles and maps them to those of each drawer.
type Tee struct {
	mu       sync.Mutex
	drawers  []Drawer
	surfaces map[int][]Surface
	handles  map[teeKey][]Handle
	nextID   int
	next     Handle
}

type teeKey struct {
	surface int
	handle  Handle
}

// NewTee creates a drawer that fans out to drawers
func NewTee(drawers ...Drawer) *Tee {
	return &Tee{
		drawers:  drawers,
		surfaces: make(map[int][]Surface),
		handles:  make(map[teeKey][]Handle),
	}
}

func (t *Tee) CreateChartSurface(name string, width, height int, margin Margin) (Surface, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	inner := make([]Surface, len(t.drawers))
	for i, d := range t.drawers {
		s, err := d.CreateChartSurface(name, width, height, margin)
		if err != nil {
			return Surface{}, err
		}
		inner[i] = s
	}
	t.nextID++
	t.surfaces[t.nextID] = inner
	return Surface{ID: t.nextID, Name: name, Width: width, Height: height, Margin: margin}, nil
}

func (t *Tee) inner(s Surface) ([]Surface, error) {
	inner, ok := t.surfaces[s.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSurface, s.ID)
	}
	return inner, nil
}

// draw runs a call that creates a mark group on every drawer
func (t *Tee) draw(s Surface, fn func(d Drawer, s Surface) (Handle, error)) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	inner, err := t.inner(s)
	if err != nil {
		return 0, err
	}
	hs := make([]Handle, len(t.drawers))
	for i, d := range t.drawers {
		if hs[i], err = fn(d, inner[i]); err != nil {
			return 0, err
		}
	}
	t.next++
	t.handles[teeKey{s.ID, t.next}] = hs
	return t.next, nil
}

// update runs a call addressing an existing mark group on every drawer
func (t *Tee) update(s Surface, h Handle, fn func(d Drawer, s Surface, h Handle) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	inner, err := t.inner(s)
	if err != nil {
		return err
	}
	hs, ok := t.handles[teeKey{s.ID, h}]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	for i, d := range t.drawers {
		if err := fn(d, inner[i], hs[i]); err != nil {
			return err
		}
	}
	return nil
}

// each runs a surface-level call on every drawer
func (t *Tee) each(s Surface, fn func(d Drawer, s Surface) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	inner, err := t.inner(s)
	if err != nil {
		return err
	}
	for i, d := range t.drawers {
		if err := fn(d, inner[i]); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tee) DrawBars(s Surface, bars []Bar, style BarStyle) (Handle, error) {
	return t.draw(s, func(d Drawer, s Surface) (Handle, error) { return d.DrawBars(s, bars, style) })
}

func (t *Tee) SetBars(s Surface, h Handle, bars []Bar) error {
	return t.update(s, h, func(d Drawer, s Surface, h Handle) error { return d.SetBars(s, h, bars) })
}

func (t *Tee) DrawPoints(s Surface, dots []Dot) (Handle, error) {
	return t.draw(s, func(d Drawer, s Surface) (Handle, error) { return d.DrawPoints(s, dots) })
}

func (t *Tee) DrawAxis(s Surface, axis Axis) (Handle, error) {
	return t.draw(s, func(d Drawer, s Surface) (Handle, error) { return d.DrawAxis(s, axis) })
}

func (t *Tee) UpdateAxis(s Surface, h Handle, scale scales.Linear) error {
	return t.update(s, h, func(d Drawer, s Surface, h Handle) error { return d.UpdateAxis(s, h, scale) })
}

func (t *Tee) DrawLegend(s Surface, entries []LegendEntry) error {
	return t.each(s, func(d Drawer, s Surface) error { return d.DrawLegend(s, entries) })
}

func (t *Tee) ShowTooltip(s Surface, tip Tooltip) error {
	return t.each(s, func(d Drawer, s Surface) error { return d.ShowTooltip(s, tip) })
}

func (t *Tee) HideTooltip(s Surface) error {
	return t.each(s, func(d Drawer, s Surface) error { return d.HideTooltip(s) })
}

var _ Drawer = (*Tee)(nil)
