package web

import (
	"errors"
	"net/http"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
)

type makesResponse struct {
	Count int           `json:"count"`
	Makes []domain.Make `json:"makes"`
}

type modelsResponse struct {
	MakeID int            `json:"make_id"`
	Year   int            `json:"year"`
	Count  int            `json:"count"`
	Models []domain.Model `json:"models"`
}

func (s *Server) handleAPIMakes(w http.ResponseWriter, r *http.Request) {
	sel := s.loadSelector(r.Context())
	if sel.Failed() {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "could not load makes"})
		return
	}
	writeJSON(w, http.StatusOK, makesResponse{Count: len(sel.Makes), Makes: sel.Makes})
}

func (s *Server) handleAPIModels(w http.ResponseWriter, r *http.Request) {
	res := s.loadResults(r.Context(), selectionFrom(r))
	switch {
	case res.Failed() && !res.Ready():
		msg := "invalid selection"
		var ve *domain.ValidationError
		if errors.As(res.Err, &ve) {
			msg = ve.Error()
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
	case res.Failed():
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "could not load models"})
	default:
		writeJSON(w, http.StatusOK, modelsResponse{
			MakeID: res.MakeID,
			Year:   res.Year,
			Count:  len(res.Models),
			Models: res.Models,
		})
	}
}

