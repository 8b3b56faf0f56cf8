// Package web serves the browser front end of the lookup wizard and its
// small JSON API.
package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/WessleyAI/vehicle-lookup/engine/wizard"
	"github.com/WessleyAI/vehicle-lookup/pkg/metrics"
	"github.com/WessleyAI/vehicle-lookup/pkg/mid"
	"github.com/WessleyAI/vehicle-lookup/pkg/resilience"
)

// Options wires a Server. Loader is required; everything else is optional.
type Options struct {
	Loader      *wizard.Loader
	Logger      *slog.Logger
	Metrics     *metrics.Registry
	Breaker     *resilience.Breaker
	CORSOrigin  string
	ServiceName string
	Now         func() time.Time
}

// Server renders the selector and results views.
type Server struct {
	loader  *wizard.Loader
	log     *slog.Logger
	metrics *metrics.Registry
	breaker *resilience.Breaker
	pages   *pages
	cors    string
	service string
	now     func() time.Time
}

// New parses the page templates and returns a Server.
func New(opts Options) (*Server, error) {
	if opts.Loader == nil {
		return nil, fmt.Errorf("web: loader is required")
	}
	p, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}
	s := &Server{
		loader:  opts.Loader,
		log:     opts.Logger,
		metrics: opts.Metrics,
		breaker: opts.Breaker,
		pages:   p,
		cors:    opts.CORSOrigin,
		service: opts.ServiceName,
		now:     opts.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.cors == "" {
		s.cors = "*"
	}
	if s.service == "" {
		s.service = "vehicle-lookup"
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Routes registers every route on a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleSelector)
	mux.HandleFunc("GET /next", s.handleNext)

	mux.HandleFunc("GET /result/{$}", s.handleResults)
	mux.HandleFunc("GET /result/{makeId}", s.handleResults)
	mux.HandleFunc("GET /result/{makeId}/{$}", s.handleResults)
	mux.HandleFunc("GET /result/{makeId}/{year}", s.handleResults)
	mux.HandleFunc("GET /result/{makeId}/{year}/models", s.handleModelsFragment)

	mux.HandleFunc("GET /api/v1/makes", s.handleAPIMakes)
	mux.HandleFunc("GET /api/v1/models/{makeId}/{year}", s.handleAPIModels)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// Handler returns the routes wrapped in the standard middleware stack.
// Metrics sits innermost so it sees the pattern the mux matched.
func (s *Server) Handler() http.Handler {
	return mid.Chain(s.Routes(),
		mid.Recover(s.log),
		mid.RequestID(),
		mid.OTel(s.service),
		mid.Logger(s.log),
		mid.CORS(s.cors),
		mid.Metrics(s.metrics),
	)
}

type healthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.breaker != nil {
		resp.Upstream = s.breaker.State().String()
	}
	writeJSON(w, http.StatusOK, resp)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
