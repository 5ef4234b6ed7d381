// Package filter holds the single active technology filter and derives the
// filtered subset of the dataset.
package filter

import (
	"errors"
	"fmt"

	"tvcharts/internal/models"
)

// ErrUnknownFilter is returned when selecting an id outside the known set
var ErrUnknownFilter = errors.New("unknown filter")

// ID identifies one of the filter buttons
type ID string

// All shows the complete dataset
const All ID = "all"

// Filter describes one button of the filter bar
type Filter struct {
	ID     ID     `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// known is the button order: All, then each technology
var known = buttons()

func buttons() []Filter {
	out := []Filter{{ID: All, Label: "All"}}
	for _, tech := range models.KnownTechs {
		out = append(out, Filter{ID: ID(tech), Label: string(tech)})
	}
	return out
}

// Known reports whether id names a filter
func Known(id ID) bool {
	for _, f := range known {
		if f.ID == id {
			return true
		}
	}
	return false
}

// State tracks which filter is active. The zero value is not usable; use NewState.
type State struct {
	active ID
}

// NewState creates a filter state with "all" active
func NewState() *State {
	return &State{active: All}
}

// Active returns the active filter id
func (s *State) Active() ID {
	return s.active
}

// Set activates id. Selecting the already active filter is a no-op and
// reports changed == false. Unknown ids leave the state untouched.
func (s *State) Set(id ID) (changed bool, err error) {
	if !Known(id) {
		return false, fmt.Errorf("%w: %q", ErrUnknownFilter, id)
	}
	if id == s.active {
		return false, nil
	}
	s.active = id
	return true, nil
}

// Filters returns the button list with the active flag set on exactly one entry
func (s *State) Filters() []Filter {
	out := make([]Filter, len(known))
	for i, f := range known {
		f.Active = f.ID == s.active
		out[i] = f
	}
	return out
}

// Apply derives the filtered records for the active filter
func (s *State) Apply(records []models.Record) []models.Record {
	return Apply(s.active, records)
}

// Apply returns records unchanged for "all", otherwise the records whose
// screen technology equals id. The input is never modified.
func Apply(id ID, records []models.Record) []models.Record {
	if id == All {
		return records
	}
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if ID(r.ScreenTech) == id {
			out = append(out, r)
		}
	}
	return out
}
