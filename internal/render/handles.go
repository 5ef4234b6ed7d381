package render

import (
	"fmt"

	"tvcharts/internal/scales"
)

// Scene is the retained state of one surface. Backends that redraw from
// scratch on every save keep one Scene per surface.
type Scene struct {
	Surface Surface

	BarGroups   map[Handle]*BarGroup
	PointGroups map[Handle][]Dot
	Axes        map[Handle]*Axis
	Legend      []LegendEntry
	Tooltip     *Tooltip

	order []Handle
	next  Handle
}

// BarGroup is a retained set of bars with a shared style
type BarGroup struct {
	Style BarStyle
	Bars  []Bar
}

// NewScene creates an empty scene for s
func NewScene(s Surface) *Scene {
	return &Scene{
		Surface:     s,
		BarGroups:   make(map[Handle]*BarGroup),
		PointGroups: make(map[Handle][]Dot),
		Axes:        make(map[Handle]*Axis),
	}
}

func (sc *Scene) allocate() Handle {
	sc.next++
	sc.order = append(sc.order, sc.next)
	return sc.next
}

// Order returns handles in the order their groups were drawn
func (sc *Scene) Order() []Handle {
	return append([]Handle(nil), sc.order...)
}

// AddBars stores a new bar group
func (sc *Scene) AddBars(bars []Bar, style BarStyle) Handle {
	h := sc.allocate()
	sc.BarGroups[h] = &BarGroup{Style: style, Bars: append([]Bar(nil), bars...)}
	return h
}

// SetBars replaces the bars of an existing group
func (sc *Scene) SetBars(h Handle, bars []Bar) error {
	g, ok := sc.BarGroups[h]
	if !ok {
		return fmt.Errorf("%w: bars %d", ErrUnknownHandle, h)
	}
	g.Bars = append(g.Bars[:0:0], bars...)
	return nil
}

// AddPoints stores a new point group
func (sc *Scene) AddPoints(dots []Dot) Handle {
	h := sc.allocate()
	sc.PointGroups[h] = append([]Dot(nil), dots...)
	return h
}

// AddAxis stores a new axis
func (sc *Scene) AddAxis(a Axis) Handle {
	h := sc.allocate()
	sc.Axes[h] = &a
	return h
}

// UpdateAxis rescales an existing axis
func (sc *Scene) UpdateAxis(h Handle, scale scales.Linear) error {
	a, ok := sc.Axes[h]
	if !ok {
		return fmt.Errorf("%w: axis %d", ErrUnknownHandle, h)
	}
	a.Scale = scale
	return nil
}

// Bars returns the bars of every bar group in draw order
func (sc *Scene) Bars() []Bar {
	var out []Bar
	for _, h := range sc.order {
		if g, ok := sc.BarGroups[h]; ok {
			out = append(out, g.Bars...)
		}
	}
	return out
}

// Dots returns every dot in draw order
func (sc *Scene) Dots() []Dot {
	var out []Dot
	for _, h := range sc.order {
		out = append(out, sc.PointGroups[h]...)
	}
	return out
}

// AxisAt returns the most recently drawn axis with orientation o
func (sc *Scene) AxisAt(o Orientation) (Axis, bool) {
	for i := len(sc.order) - 1; i >= 0; i-- {
		if a, ok := sc.Axes[sc.order[i]]; ok && a.Orientation == o {
			return *a, true
		}
	}
	return Axis{}, false
}

// Scenes tracks the scenes of a backend by surface id
type Scenes struct {
	scenes map[int]*Scene
	order  []int
	nextID int
}

// Create allocates a surface and its scene
func (ss *Scenes) Create(name string, width, height int, margin Margin) (Surface, error) {
	if width <= 0 || height <= 0 {
		return Surface{}, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	s := Surface{Name: name, Width: width, Height: height, Margin: margin}
	if s.InnerWidth() <= 0 || s.InnerHeight() <= 0 {
		return Surface{}, fmt.Errorf("margins leave no plot area on %dx%d surface", width, height)
	}
	if ss.scenes == nil {
		ss.scenes = make(map[int]*Scene)
	}
	ss.nextID++
	s.ID = ss.nextID
	ss.scenes[s.ID] = NewScene(s)
	ss.order = append(ss.order, s.ID)
	return s, nil
}

// Get returns the scene of s
func (ss *Scenes) Get(s Surface) (*Scene, error) {
	sc, ok := ss.scenes[s.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSurface, s.ID)
	}
	return sc, nil
}

// ByName returns the most recently created scene named name
func (ss *Scenes) ByName(name string) (*Scene, bool) {
	for i := len(ss.order) - 1; i >= 0; i-- {
		if sc := ss.scenes[ss.order[i]]; sc.Surface.Name == name {
			return sc, true
		}
	}
	return nil, false
}
