package web

import (
	"context"
	"net/http"

	"github.com/WessleyAI/vehicle-lookup/engine/wizard"
)

type selectorPage struct {
	Title    string
	Selector wizard.Selector
}

// handleSelector renders an empty selector. The makes list is filled in by
// the page itself from /api/v1/makes, so the loading state is visible.
func (s *Server) handleSelector(w http.ResponseWriter, r *http.Request) {
	sel := wizard.NewSelector(s.now()).Begin(0)
	s.renderSelector(w, r, http.StatusOK, sel)
}

// handleNext is the advance action. Both choices must be non-empty and
// offered; otherwise the selector comes back with what was kept.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := s.loadSelector(r.Context())
	sel = sel.Update(wizard.SelectMake{ID: q.Get("make")})
	sel = sel.Update(wizard.SelectYear{Year: q.Get("year")})

	if path, ok := sel.Advance(); ok {
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}
	s.renderSelector(w, r, http.StatusOK, sel)
}

func (s *Server) loadSelector(ctx context.Context) wizard.Selector {
	life := wizard.NewLifetime(ctx)
	defer life.End()
	lctx, gen := life.Begin()
	sel := wizard.NewSelector(s.now()).Begin(gen)
	return sel.Update(s.loader.Makes(lctx, gen))
}

func (s *Server) renderSelector(w http.ResponseWriter, r *http.Request, status int, sel wizard.Selector) {
	page := selectorPage{Title: "Vehicle Filter", Selector: sel}
	if err := s.pages.render(w, status, "selector", page); err != nil {
		s.log.ErrorContext(r.Context(), "render selector", "error", err)
	}
}
