package dashboard

import (
	"tvcharts/internal/filter"
	"tvcharts/internal/render"
	"tvcharts/internal/render/echarts"
	"tvcharts/internal/render/svg"
)

// Command is one user action handled by the controller
type Command interface {
	Name() string
}

// SetFilter selects the active technology filter
type SetFilter struct {
	ID filter.ID
}

// Hover shows the tooltip of scatterplot point Index
type Hover struct {
	Index int
}

// Leave hides the scatterplot tooltip
type Leave struct{}

// Snapshot renders a chart as an image
type Snapshot struct {
	Chart  string
	Format svg.Format
}

// State reports the controller state and the interactive chart snippets
type State struct{}

// Tick advances a running histogram transition to the current time
type Tick struct{}

func (SetFilter) Name() string { return "set_filter" }
func (Hover) Name() string     { return "hover" }
func (Leave) Name() string     { return "leave" }
func (Snapshot) Name() string  { return "snapshot" }
func (State) Name() string     { return "state" }
func (Tick) Name() string      { return "tick" }

// BinSummary describes one histogram bin
type BinSummary struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Status is a read-only view of the controller state
type Status struct {
	Source    string          `json:"source"`
	Field     string          `json:"field"`
	Filter    filter.ID       `json:"filter"`
	Filters   []filter.Filter `json:"filters"`
	Records   int             `json:"records"`
	Filtered  int             `json:"filtered"`
	Skipped   int             `json:"skipped"`
	Bins      []BinSummary    `json:"bins"`
	ByTech    map[string]int  `json:"by_tech"`
	Hovered   int             `json:"hovered"`
	Animating bool            `json:"animating"`
}

// Result is what a command produced. Only the fields relevant to the
// command are set.
type Result struct {
	// Changed reports whether SetFilter changed the active filter
	Changed bool
	// Skipped reports that the filtered set was empty and the charts were left as they were
	Skipped bool

	Tooltip     *render.Tooltip
	Image       []byte
	ContentType string
	Status      Status
	// Snippets holds both charts for State and the new histogram for a
	// SetFilter that redrew it
	Snippets []echarts.Snippet
}
