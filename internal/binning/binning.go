// Package binning partitions a numeric record field into contiguous
// histogram bins.
package binning

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"tvcharts/internal/models"
	"tvcharts/internal/scales"
)

// ErrEmptyDataset is returned when there are no numeric values to bin
var ErrEmptyDataset = errors.New("cannot bin an empty dataset")

// Field selects the numeric record attribute to bin
type Field string

const (
	FieldEnergyConsumption Field = "energyConsumption"
	FieldScreenSize        Field = "screenSize"
	FieldStar              Field = "star"
)

// ParseField resolves a field name case-insensitively
func ParseField(name string) (Field, error) {
	for _, f := range []Field{FieldEnergyConsumption, FieldScreenSize, FieldStar} {
		if strings.EqualFold(string(f), strings.TrimSpace(name)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown bin field %q", name)
}

// Value extracts the field from a record
func (f Field) Value(r models.Record) float64 {
	switch f {
	case FieldScreenSize:
		return r.ScreenSize
	case FieldStar:
		return r.Star
	default:
		return r.EnergyConsumption
	}
}

// Label is the axis caption for the field
func (f Field) Label() string {
	switch f {
	case FieldScreenSize:
		return "Screen size (inches)"
	case FieldStar:
		return "Star Rating"
	default:
		return "Labeled Energy Consumption (kWh/year)"
	}
}

// Histogram is the result of binning one field over a set of records
type Histogram struct {
	Field   Field
	Bins    []models.Bin
	Skipped int // records whose value was NaN
}

// MaxCount returns the size of the largest bin
func (h Histogram) MaxCount() int {
	max := 0
	for _, b := range h.Bins {
		if b.Count() > max {
			max = b.Count()
		}
	}
	return max
}

// Total returns the number of binned records
func (h Histogram) Total() int {
	n := 0
	for _, b := range h.Bins {
		n += b.Count()
	}
	return n
}

// Extent returns the lower bound of the first bin and the upper bound of the last
func (h Histogram) Extent() (float64, float64) {
	if len(h.Bins) == 0 {
		return math.NaN(), math.NaN()
	}
	return h.Bins[0].Lower, h.Bins[len(h.Bins)-1].Upper
}

// SturgesCount returns the bin count suggested by Sturges' rule for n values
func SturgesCount(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Thresholds computes the bin boundaries for values in [min, max]: the niced
// extent followed by the interior tick values. The result always has at least
// two entries.
func Thresholds(min, max float64, count int) []float64 {
	if min == max {
		return []float64{min, max}
	}
	lo, hi := scales.NiceBounds(min, max, count)
	bounds := []float64{lo}
	for _, t := range scales.Ticks(lo, hi, count) {
		if t > lo && t < hi {
			bounds = append(bounds, t)
		}
	}
	return append(bounds, hi)
}

// Bin groups records into bins over field. Bin count follows Sturges' rule
// and boundaries sit on nice tick values. Every bin but the last is half-open
// [lower, upper); the last is closed. Records whose value is NaN or infinite
// are skipped and counted.
func Bin(records []models.Record, field Field) (Histogram, error) {
	hist := Histogram{Field: field}

	values := make([]float64, 0, len(records))
	valid := make([]models.Record, 0, len(records))
	for _, r := range records {
		v := field.Value(r)
		if !models.Finite(v) {
			hist.Skipped++
			continue
		}
		values = append(values, v)
		valid = append(valid, r)
	}
	if len(valid) == 0 {
		return hist, ErrEmptyDataset
	}

	min, max, _ := models.Extent(valid, field.Value)
	bounds := Thresholds(min, max, SturgesCount(len(valid)))

	bins := make([]models.Bin, len(bounds)-1)
	for i := range bins {
		bins[i] = models.Bin{Lower: bounds[i], Upper: bounds[i+1]}
	}

	last := len(bins) - 1
	for i, v := range values {
		// first boundary strictly greater than v, clamped into the last bin
		idx := sort.Search(len(bounds), func(j int) bool { return bounds[j] > v }) - 1
		if idx < 0 {
			idx = 0
		}
		if idx > last {
			idx = last
		}
		bins[idx].Members = append(bins[idx].Members, valid[i])
	}

	hist.Bins = bins
	return hist, nil
}
