package web

import (
	"context"
	"net/http"
	"strconv"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
	"github.com/WessleyAI/vehicle-lookup/engine/wizard"
)

type resultsPage struct {
	Title     string
	Results   wizard.Results
	ModelsURL string
	BackURL   string
	Skeletons []int
}

// selectionFrom reads the selection out of a results path; the models
// fragment's trailing segment is ignored.
func selectionFrom(r *http.Request) domain.Selection {
	return domain.ParseResultsPath(r.URL.EscapedPath())
}

// handleResults renders the results shell: heading, back link and skeleton
// cards, after which the page loads its models fragment. With a parameter
// missing nothing is fetched and the page asks for a selection instead.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	res := wizard.NewResults(selectionFrom(r))
	page := resultsPage{
		Title:   "Vehicle Models",
		Results: res,
		BackURL: domain.SelectorPath,
	}
	status := http.StatusOK
	switch {
	case res.Ready():
		page.Title = "Vehicle Models in " + strconv.Itoa(res.Year)
		page.ModelsURL = domain.ResultsPath(res.Selection) + "/models"
		page.Skeletons = make([]int, wizard.SkeletonCards)
	case res.Failed():
		status = http.StatusBadRequest
	}
	if err := s.pages.render(w, status, "results", page); err != nil {
		s.log.ErrorContext(r.Context(), "render results", "error", err)
	}
}

// handleModelsFragment runs the results view's single fetch, scoped to the
// request, and renders the settled state as an HTML fragment.
func (s *Server) handleModelsFragment(w http.ResponseWriter, r *http.Request) {
	res := s.loadResults(r.Context(), selectionFrom(r))

	status := http.StatusOK
	switch {
	case res.Failed() && !res.Ready():
		status = http.StatusBadRequest
	case res.Failed():
		status = http.StatusBadGateway
	}
	if err := s.pages.render(w, status, "models", res); err != nil {
		s.log.ErrorContext(r.Context(), "render models", "error", err)
	}
}

func (s *Server) loadResults(ctx context.Context, sel domain.Selection) wizard.Results {
	res := wizard.NewResults(sel)
	if !res.Ready() {
		return res
	}
	life := wizard.NewLifetime(ctx)
	defer life.End()
	lctx, gen := life.Begin()
	res = res.Begin(gen)
	return res.Update(s.loader.Models(lctx, res, gen))
}
