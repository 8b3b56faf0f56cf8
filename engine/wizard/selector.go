package wizard

import (
	"slices"
	"time"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
	"github.com/WessleyAI/vehicle-lookup/pkg/fn"
)

// MakesLoaded completes a makes fetch.
type MakesLoaded struct {
	Gen   uint64
	Makes []domain.Make
}

// MakesFailed completes a makes fetch that did not produce a list.
type MakesFailed struct {
	Gen uint64
	Err error
}

// SelectMake chooses a make by its offered key; "" clears the choice.
type SelectMake struct{ ID string }

// SelectYear chooses a model year; "" clears the choice.
type SelectYear struct{ Year string }

// Selector is the state of the selector view.
type Selector struct {
	Makes  []domain.Make
	Years  []string
	MakeID string
	Year   string
	Status Status
	Err    error
	Gen    uint64
}

// NewSelector returns an empty selector whose year range is computed from now.
func NewSelector(now time.Time) Selector {
	return Selector{Makes: []domain.Make{}, Years: domain.Years(now)}
}

// Begin marks a makes fetch of generation gen as outstanding. Used for the
// initial load and for an explicit retry.
func (s Selector) Begin(gen uint64) Selector {
	s.Gen = gen
	s.Status = StatusLoading
	s.Err = nil
	return s
}

// Loading reports whether the makes fetch is outstanding.
func (s Selector) Loading() bool { return s.Status == StatusLoading }

// Failed reports whether the last makes fetch failed; the front ends offer
// a retry in this state.
func (s Selector) Failed() bool { return s.Status == StatusFailed }

// Selection returns the current choice.
func (s Selector) Selection() domain.Selection {
	return domain.Selection{MakeID: s.MakeID, Year: s.Year}
}

// CanAdvance reports whether the forward action is enabled.
func (s Selector) CanAdvance() bool { return s.Selection().Complete() }

// Advance returns the results view's path, or false when either selection
// is empty.
func (s Selector) Advance() (string, bool) {
	if !s.CanAdvance() {
		return "", false
	}
	return domain.ResultsPath(s.Selection()), true
}

// SelectedMake returns the chosen make, if any.
func (s Selector) SelectedMake() (domain.Make, bool) {
	return fn.Find(s.Makes, func(m domain.Make) bool { return m.Key() == s.MakeID })
}

func (s Selector) offersMake(id string) bool {
	return fn.Contains(s.Makes, func(m domain.Make) bool { return m.Key() == id })
}

// Update applies msg and returns the next state.
func (s Selector) Update(msg Msg) Selector {
	switch msg := msg.(type) {
	case MakesLoaded:
		if msg.Gen != s.Gen || s.Status != StatusLoading {
			return s
		}
		s.Makes = msg.Makes
		if s.Makes == nil {
			s.Makes = []domain.Make{}
		}
		s.Status = StatusLoaded
		if s.MakeID != "" && !s.offersMake(s.MakeID) {
			s.MakeID = ""
		}
	case MakesFailed:
		if msg.Gen != s.Gen || s.Status != StatusLoading {
			return s
		}
		s.Makes = []domain.Make{}
		s.MakeID = ""
		s.Status = StatusFailed
		s.Err = msg.Err
	case SelectMake:
		if msg.ID == "" || s.offersMake(msg.ID) {
			s.MakeID = msg.ID
		}
	case SelectYear:
		if msg.Year == "" || slices.Contains(s.Years, msg.Year) {
			s.Year = msg.Year
		}
	}
	return s
}
