package wizard

import (
	"errors"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
)

// ModelsLoaded completes a models fetch.
type ModelsLoaded struct {
	Gen    uint64
	Models []domain.Model
}

// ModelsFailed completes a models fetch that did not produce a list.
type ModelsFailed struct {
	Gen uint64
	Err error
}

// Results is the state of the results view.
type Results struct {
	Selection domain.Selection
	MakeID    int
	Year      int
	Models    []domain.Model
	Status    Status
	Err       error
	Gen       uint64
}

// NewResults builds the results view from its raw path parameters. With a
// parameter missing the view waits (StatusIdle) and never fetches. With a
// parameter present but unusable it fails straight away.
func NewResults(sel domain.Selection) Results {
	r := Results{Selection: sel, Models: []domain.Model{}}
	makeID, year, err := domain.ParseSelection(sel)
	switch {
	case errors.Is(err, domain.ErrMissingParam):
	case err != nil:
		r.Status = StatusFailed
		r.Err = err
	default:
		r.MakeID, r.Year = makeID, year
	}
	return r
}

// Ready reports whether both parameters are present and valid, so a fetch
// may start.
func (r Results) Ready() bool { return r.MakeID > 0 && r.Year > 0 }

// Waiting reports whether the view is still missing a parameter.
func (r Results) Waiting() bool { return !r.Ready() && r.Status == StatusIdle }

// Loading reports whether the models fetch is outstanding.
func (r Results) Loading() bool { return r.Status == StatusLoading }

// Failed reports whether the view ended in the failure state.
func (r Results) Failed() bool { return r.Status == StatusFailed }

// Empty reports a settled fetch that returned no models.
func (r Results) Empty() bool { return r.Status == StatusLoaded && len(r.Models) == 0 }

// Retryable reports whether a retry would issue a new fetch.
func (r Results) Retryable() bool { return r.Ready() && r.Status == StatusFailed }

// Begin marks a models fetch of generation gen as outstanding. It is a no-op
// until both parameters are known.
func (r Results) Begin(gen uint64) Results {
	if !r.Ready() {
		return r
	}
	r.Gen = gen
	r.Status = StatusLoading
	r.Err = nil
	return r
}

// Update applies msg and returns the next state.
func (r Results) Update(msg Msg) Results {
	switch msg := msg.(type) {
	case ModelsLoaded:
		if msg.Gen != r.Gen || r.Status != StatusLoading {
			return r
		}
		r.Models = msg.Models
		if r.Models == nil {
			r.Models = []domain.Model{}
		}
		r.Status = StatusLoaded
	case ModelsFailed:
		if msg.Gen != r.Gen || r.Status != StatusLoading {
			return r
		}
		r.Models = []domain.Model{}
		r.Status = StatusFailed
		r.Err = msg.Err
	}
	return r
}
