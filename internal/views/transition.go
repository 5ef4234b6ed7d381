package views

import (
	"time"

	"tvcharts/internal/render"
)

// EaseCubicInOut is the cubic ease-in-out curve for t in [0, 1]
func EaseCubicInOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// transition animates bar geometry from one frame to a target.
// Bars are matched by position: bars without a predecessor start at their
// target and surplus old bars are dropped.
type transition struct {
	from     []render.Bar
	to       []render.Bar
	start    time.Time
	duration time.Duration
}

func newTransition(from, to []render.Bar, start time.Time, duration time.Duration) *transition {
	return &transition{
		from:     append([]render.Bar(nil), from...),
		to:       append([]render.Bar(nil), to...),
		start:    start,
		duration: duration,
	}
}

// progress returns the eased progress at now
func (t *transition) progress(now time.Time) float64 {
	if t.duration <= 0 {
		return 1
	}
	elapsed := now.Sub(t.start)
	if elapsed <= 0 {
		return 0
	}
	return EaseCubicInOut(float64(elapsed) / float64(t.duration))
}

// frame returns the bars at now and whether the transition has finished
func (t *transition) frame(now time.Time) ([]render.Bar, bool) {
	e := t.progress(now)
	out := make([]render.Bar, len(t.to))
	for i, target := range t.to {
		out[i] = target
		if i < len(t.from) && e < 1 {
			out[i].Rect = lerpRect(t.from[i].Rect, target.Rect, e)
		}
	}
	return out, e >= 1
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpRect(a, b render.Rect, t float64) render.Rect {
	return render.Rect{
		X:      lerp(a.X, b.X, t),
		Y:      lerp(a.Y, b.Y, t),
		Width:  lerp(a.Width, b.Width, t),
		Height: lerp(a.Height, b.Height, t),
	}
}
