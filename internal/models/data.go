package models

import "math"

// ScreenTech is the display technology of a television
type ScreenTech string

const (
	TechLED  ScreenTech = "LED"
	TechLCD  ScreenTech = "LCD"
	TechOLED ScreenTech = "OLED"
)

// KnownTechs lists the technologies the dashboard offers filters for, in button order
var KnownTechs = []ScreenTech{TechLED, TechLCD, TechOLED}

// Record represents a single television from the energy-consumption dataset
type Record struct {
	Brand             string     `json:"brand"`
	Model             string     `json:"model"`
	ScreenSize        float64    `json:"screen_size"`        // inches
	ScreenTech        ScreenTech `json:"screen_tech"`        // LED/LCD/OLED
	EnergyConsumption float64    `json:"energy_consumption"` // kWh/year
	Star              float64    `json:"star"`               // energy star rating
}

// Dataset is the immutable collection of records loaded at startup.
// Callers only ever receive copies of the underlying slice.
type Dataset struct {
	source  string
	records []Record
}

// NewDataset creates a dataset from the given records. The slice is copied.
func NewDataset(source string, records []Record) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Dataset{source: source, records: cp}
}

// Source returns where the dataset was loaded from
func (d *Dataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of all records in load order
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	cp := make([]Record, len(d.records))
	copy(cp, d.records)
	return cp
}

// CountByTech returns the number of records per screen technology
func (d *Dataset) CountByTech() map[ScreenTech]int {
	counts := make(map[ScreenTech]int)
	if d == nil {
		return counts
	}
	for _, r := range d.records {
		counts[r.ScreenTech]++
	}
	return counts
}

// Finite reports whether v is neither NaN nor infinite
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Extent returns the minimum and maximum of value over records, ignoring NaN
// and infinities. ok is false when no record yields a finite number.
func Extent(records []Record, value func(Record) float64) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, r := range records {
		v := value(r)
		if !Finite(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		ok = true
	}
	if !ok {
		return math.NaN(), math.NaN(), false
	}
	return min, max, true
}

// Bin is a contiguous range of a numeric field and the records falling into it
type Bin struct {
	Lower float64 `json:"lower"`
	// Upper is exclusive, except in the last bin of a histogram which is
	// closed so the maximum value is counted.
	Upper   float64  `json:"upper"`
	Members []Record `json:"-"`
}

// Count returns the number of members of the bin
func (b Bin) Count() int {
	return len(b.Members)
}

// Contains reports whether v falls into the bin. last marks the final bin,
// which is closed on the right.
func (b Bin) Contains(v float64, last bool) bool {
	if v < b.Lower {
		return false
	}
	if last {
		return v <= b.Upper
	}
	return v < b.Upper
}
