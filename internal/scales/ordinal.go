package scales

import "sync"

// Category10 is the ten-color categorical palette used for technologies
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Ordinal assigns palette colors to category labels. Once a category has
// a color it keeps it for the lifetime of the scale.
type Ordinal struct {
	mu      sync.Mutex
	palette []string
	index   map[string]int
	order   []string
}

// NewOrdinal creates an ordinal scale over palette, pre-assigning the given
// categories in order
func NewOrdinal(palette []string, categories ...string) *Ordinal {
	if len(palette) == 0 {
		palette = Category10
	}
	o := &Ordinal{
		palette: palette,
		index:   make(map[string]int),
	}
	for _, c := range categories {
		o.assign(c)
	}
	return o
}

func (o *Ordinal) assign(category string) int {
	if i, ok := o.index[category]; ok {
		return i
	}
	i := len(o.order)
	o.index[category] = i
	o.order = append(o.order, category)
	return i
}

// Color returns the color for category, assigning the next palette entry on
// first use. The palette wraps around when exhausted.
func (o *Ordinal) Color(category string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	i := o.assign(category)
	return o.palette[i%len(o.palette)]
}

// Domain returns the categories seen so far, in assignment order
func (o *Ordinal) Domain() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	cp := make([]string, len(o.order))
	copy(cp, o.order)
	return cp
}
