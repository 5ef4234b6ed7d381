package scales

import (
	"fmt"
	"math"
)

// DefaultTickCount is the number of ticks nice domains are rounded for
const DefaultTickCount = 10

// Linear maps a continuous domain onto a pixel range. It is a value type:
// every adjustment returns a new scale.
type Linear struct {
	domain [2]float64
	rng    [2]float64
}

// NewLinear creates a linear scale from domain [d0, d1] to range [r0, r1]
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{domain: [2]float64{d0, d1}, rng: [2]float64{r0, r1}}
}

// Domain returns the domain bounds
func (s Linear) Domain() (float64, float64) {
	return s.domain[0], s.domain[1]
}

// Range returns the range bounds
func (s Linear) Range() (float64, float64) {
	return s.rng[0], s.rng[1]
}

// WithDomain returns a copy of s with a new domain
func (s Linear) WithDomain(d0, d1 float64) Linear {
	s.domain = [2]float64{d0, d1}
	return s
}

// Map converts a domain value to a range value.
// A degenerate domain maps everything to the middle of the range.
func (s Linear) Map(v float64) float64 {
	d0, d1 := s.domain[0], s.domain[1]
	r0, r1 := s.rng[0], s.rng[1]
	if d1 == d0 {
		return (r0 + r1) / 2
	}
	return r0 + (v-d0)/(d1-d0)*(r1-r0)
}

// Invert converts a range value back to the domain
func (s Linear) Invert(px float64) float64 {
	d0, d1 := s.domain[0], s.domain[1]
	r0, r1 := s.rng[0], s.rng[1]
	if r1 == r0 {
		return (d0 + d1) / 2
	}
	return d0 + (px-r0)/(r1-r0)*(d1-d0)
}

// Nice returns a copy of s whose domain is extended to round values
func (s Linear) Nice(count int) Linear {
	d0, d1 := s.domain[0], s.domain[1]
	if d1 < d0 {
		hi, lo := NiceBounds(d1, d0, count)
		return s.WithDomain(lo, hi)
	}
	lo, hi := NiceBounds(d0, d1, count)
	return s.WithDomain(lo, hi)
}

// Ticks returns about count tick values inside the domain
func (s Linear) Ticks(count int) []float64 {
	return Ticks(s.domain[0], s.domain[1], count)
}

// TickFormat formats v with just enough precision for ticks of the given count
func (s Linear) TickFormat(count int, v float64) string {
	step := TickStep(math.Min(s.domain[0], s.domain[1]), math.Max(s.domain[0], s.domain[1]), count)
	if math.IsNaN(step) || step >= 1 {
		return fmt.Sprintf("%.0f", v)
	}
	digits := int(math.Ceil(-math.Log10(step) - 1e-9))
	return fmt.Sprintf("%.*f", digits, v)
}

// String describes the scale, mostly for logs
func (s Linear) String() string {
	return fmt.Sprintf("linear[%g,%g]->[%g,%g]", s.domain[0], s.domain[1], s.rng[0], s.rng[1])
}
