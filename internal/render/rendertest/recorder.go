// Package rendertest provides a render.Drawer that records calls and keeps
// the resulting scenes for inspection in tests.
package rendertest

import (
	"sync"

	"tvcharts/internal/render"
	"tvcharts/internal/scales"
)

// Call is one recorded Drawer call
type Call struct {
	Op      string
	Surface int
	Handle  render.Handle
}

// Recorder is an in-memory render.Drawer
type Recorder struct {
	mu     sync.Mutex
	scenes render.Scenes
	calls  []Call

	// FailOn makes the named operation return Err
	FailOn string
	Err    error
}

// New creates an empty recorder
func New() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(op string, s render.Surface, h render.Handle) error {
	r.calls = append(r.calls, Call{Op: op, Surface: s.ID, Handle: h})
	if r.FailOn == op {
		return r.Err
	}
	return nil
}

func (r *Recorder) CreateChartSurface(name string, width, height int, margin render.Margin) (render.Surface, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.scenes.Create(name, width, height, margin)
	if err != nil {
		return s, err
	}
	return s, r.record("CreateChartSurface", s, 0)
}

func (r *Recorder) DrawBars(s render.Surface, bars []render.Bar, style render.BarStyle) (render.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, err := r.scenes.Get(s)
	if err != nil {
		return 0, err
	}
	h := sc.AddBars(bars, style)
	return h, r.record("DrawBars", s, h)
}

func (r *Recorder) SetBars(s render.Surface, h render.Handle, bars []render.Bar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, err := r.scenes.Get(s)
	if err != nil {
		return err
	}
	if err := sc.SetBars(h, bars); err != nil {
		return err
	}
	return r.record("SetBars", s, h)
}

func (r *Recorder) DrawPoints(s render.Surface, dots []render.Dot) (render.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, err := r.scenes.Get(s)
	if err != nil {
		return 0, err
	}
	h := sc.AddPoints(dots)
	return h, r.record("DrawPoints", s, h)
}

func (r *Recorder) DrawAxis(s render.Surface, axis render.Axis) (render.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, err := r.scenes.Get(s)
	if err != nil {
		return 0, err
	}
	h := sc.AddAxis(axis)
	return h, r.record("DrawAxis", s, h)
}

func (r *Recorder) UpdateAxis(s render.Surface, h render.Handle, scale scales.Linear) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, err := r.scenes.Get(s)
	if err != nil {
		return err
	}
	if err := sc.UpdateAxis(h, scale); err != nil {
		return err
	}
	return r.record("UpdateAxis", s, h)
}

func (r *Recorder) DrawLegend(s render.Surface, entries []render.LegendEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, err := r.scenes.Get(s)
	if err != nil {
		return err
	}
	sc.Legend = append([]render.LegendEntry(nil), entries...)
	return r.record("DrawLegend", s, 0)
}

func (r *Recorder) ShowTooltip(s render.Surface, tip render.Tooltip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, err := r.scenes.Get(s)
	if err != nil {
		return err
	}
	sc.Tooltip = &tip
	return r.record("ShowTooltip", s, 0)
}

func (r *Recorder) HideTooltip(s render.Surface) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, err := r.scenes.Get(s)
	if err != nil {
		return err
	}
	sc.Tooltip = nil
	return r.record("HideTooltip", s, 0)
}

// Calls returns the recorded calls in order
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns how many times op was called
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps scenes
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Scene returns the scene of s, or nil
func (r *Recorder) Scene(s render.Surface) *render.Scene {
	r.mu.Lock()
	defer r.mu.Unlock()
	sc, err := r.scenes.Get(s)
	if err != nil {
		return nil
	}
	return sc
}

var _ render.Drawer = (*Recorder)(nil)
