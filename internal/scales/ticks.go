package scales

import "math"

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// TickIncrement returns the step between roughly count nice ticks spanning
// [start, stop]. Positive results are the step itself; negative results -k
// stand for a fractional step of 1/k, which keeps small steps exact.
// Zero or NaN means no usable step exists.
func TickIncrement(start, stop float64, count int) float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) || stop <= start {
		return math.NaN()
	}
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)

	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}

	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

// TickStep is TickIncrement expressed as a plain positive step
func TickStep(start, stop float64, count int) float64 {
	inc := TickIncrement(start, stop, count)
	if inc < 0 {
		return -1 / inc
	}
	return inc
}

// Ticks returns about count nice values in [start, stop], in ascending order.
func Ticks(start, stop float64, count int) []float64 {
	if math.IsNaN(start) || math.IsNaN(stop) || count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	inc := TickIncrement(start, stop, count)
	if inc == 0 || math.IsNaN(inc) || math.IsInf(inc, 0) {
		return nil
	}

	var ticks []float64
	if inc > 0 {
		i0, i1 := math.Ceil(start/inc), math.Floor(stop/inc)
		for i := i0; i <= i1; i++ {
			ticks = append(ticks, i*inc)
		}
	} else {
		inv := -inc
		i0, i1 := math.Ceil(start*inv), math.Floor(stop*inv)
		for i := i0; i <= i1; i++ {
			ticks = append(ticks, i/inv)
		}
	}

	if reverse {
		for i, j := 0, len(ticks)-1; i < j; i, j = i+1, j-1 {
			ticks[i], ticks[j] = ticks[j], ticks[i]
		}
	}
	return ticks
}

// NiceBounds extends [start, stop] outward to multiples of the tick step for
// count ticks, repeating until the step settles.
func NiceBounds(start, stop float64, count int) (float64, float64) {
	if math.IsNaN(start) || math.IsNaN(stop) || stop <= start {
		return start, stop
	}
	prestep := math.NaN()
	for iter := 0; iter < 10; iter++ {
		step := TickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return start, stop
		}
		prestep = step
	}
	// avoid -0 from the fractional branch
	return start + 0, stop + 0
}
