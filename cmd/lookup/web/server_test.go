package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
	"github.com/WessleyAI/vehicle-lookup/engine/wizard"
	"github.com/WessleyAI/vehicle-lookup/pkg/mid"
	"github.com/WessleyAI/vehicle-lookup/pkg/resilience"
)

type stubSource struct {
	makes       []domain.Make
	models      []domain.Model
	makesErr    error
	modelsErr   error
	modelsCalls atomic.Int32
	gotMakeID   int
	gotYear     int
}

func (s *stubSource) Makes(context.Context, string) ([]domain.Make, error) {
	if s.makesErr != nil {
		return nil, s.makesErr
	}
	return s.makes, nil
}

func (s *stubSource) Models(_ context.Context, makeID, year int) ([]domain.Model, error) {
	s.modelsCalls.Add(1)
	s.gotMakeID, s.gotYear = makeID, year
	if s.modelsErr != nil {
		return nil, s.modelsErr
	}
	return s.models, nil
}

var (
	fixedNow  = func() time.Time { return time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC) }
	twoMakes  = []domain.Make{{ID: 1, Name: "Acura"}, {ID: 2, Name: "Audi"}}
	audiCars  = []domain.Model{{MakeID: 2, MakeName: "Audi", ID: 1685, Name: "A4"}, {MakeID: 2, MakeName: "Audi", ID: 1686, Name: "A6"}}
	quietLogs = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func newTestServer(t *testing.T, src *stubSource, opts Options) *Server {
	t.Helper()
	opts.Loader = wizard.NewLoader(src, quietLogs, nil)
	opts.Logger = quietLogs
	opts.Now = fixedNow
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNew_RequiresLoader(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestSelector_InitialRender(t *testing.T) {
	s := newTestServer(t, &stubSource{makes: twoMakes}, Options{})
	rec := get(t, s.Routes(), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Vehicle Filter</h1>")
	assert.Contains(t, body, `<option value="">Select Make</option>`)
	assert.Contains(t, body, `<option value="">Select Year</option>`)
	assert.Contains(t, body, "Loading makes...")
	assert.Contains(t, body, `data-pending="true"`)
	assert.Contains(t, body, `<option value="2024">2024</option>`)
	assert.Contains(t, body, `<option value="2015">2015</option>`)
	assert.NotContains(t, body, `value="2014"`)
	assert.Contains(t, body, `id="next" disabled`)
	assert.NotContains(t, body, `class="status error"`)
}

func TestNext_RedirectsWhenBothChosen(t *testing.T) {
	s := newTestServer(t, &stubSource{makes: twoMakes}, Options{})
	rec := get(t, s.Routes(), "/next?make=2&year=2020")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/result/2/2020", rec.Header().Get("Location"))
}

func TestNext_PartialSelectionReRenders(t *testing.T) {
	s := newTestServer(t, &stubSource{makes: twoMakes}, Options{})

	for _, path := range []string{"/next?make=2", "/next?year=2020", "/next?make=99&year=2020", "/next?make=2&year=2014"} {
		rec := get(t, s.Routes(), path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `id="next" disabled`, path)
	}

	body := get(t, s.Routes(), "/next?make=2").Body.String()
	assert.Contains(t, body, `<option value="2" selected>Audi</option>`)
	assert.NotContains(t, body, "data-pending")
}

func TestNext_MakesFailureShowsRetry(t *testing.T) {
	s := newTestServer(t, &stubSource{makesErr: errors.New("down")}, Options{})
	rec := get(t, s.Routes(), "/next?make=2&year=2020")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="status error"`)
	assert.Contains(t, body, `Could not load makes. <button type="button" data-retry>Retry</button></p>`)
	assert.Contains(t, body, `id="next" disabled`)
}

func TestResults_Shell(t *testing.T) {
	src := &stubSource{models: audiCars}
	s := newTestServer(t, src, Options{})
	rec := get(t, s.Routes(), "/result/2/2020")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Vehicle Models in 2020")
	assert.Contains(t, body, "Back to Filter")
	assert.Contains(t, body, `data-src="/result/2/2020/models"`)
	assert.Equal(t, wizard.SkeletonCards, strings.Count(body, "card skeleton"))
	assert.Zero(t, src.modelsCalls.Load())
}

func TestResults_WaitingForParameters(t *testing.T) {
	src := &stubSource{}
	s := newTestServer(t, src, Options{})
	for _, path := range []string{"/result/", "/result/2", "/result/2/"} {
		rec := get(t, s.Routes(), path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Choose a make and a model year", path)
		assert.NotContains(t, rec.Body.String(), "data-src", path)
	}
	assert.Zero(t, src.modelsCalls.Load())
}

func TestResults_InvalidParameters(t *testing.T) {
	src := &stubSource{}
	s := newTestServer(t, src, Options{})
	rec := get(t, s.Routes(), "/result/abc/2020")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not valid")

	rec = get(t, s.Routes(), "/result/abc/2020/models")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, src.modelsCalls.Load())
}

func TestModelsFragment_Cards(t *testing.T) {
	src := &stubSource{models: audiCars}
	s := newTestServer(t, src, Options{})
	rec := get(t, s.Routes(), "/result/2/2020/models")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, `<article class="card"`))
	assert.Contains(t, body, "<h2>A4</h2>")
	assert.Contains(t, body, "<p>Audi</p>")
	assert.Contains(t, body, "ID: 1685")
	assert.Contains(t, body, "animation-delay: 0.00s")
	assert.Contains(t, body, "animation-delay: 0.05s")
	assert.Equal(t, 2, src.gotMakeID)
	assert.Equal(t, 2020, src.gotYear)
	assert.EqualValues(t, 1, src.modelsCalls.Load())
}

func TestModelsFragment_Empty(t *testing.T) {
	s := newTestServer(t, &stubSource{models: []domain.Model{}}, Options{})
	rec := get(t, s.Routes(), "/result/2/2015/models")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No models found")
	assert.NotContains(t, rec.Body.String(), "<article")
}

func TestModelsFragment_FailureOffersRetry(t *testing.T) {
	s := newTestServer(t, &stubSource{modelsErr: errors.New("503")}, Options{})
	rec := get(t, s.Routes(), "/result/2/2020/models")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not load models.")
	assert.Contains(t, rec.Body.String(), "data-retry")
	assert.NotContains(t, rec.Body.String(), "No models found")
}

func TestAPI_Makes(t *testing.T) {
	s := newTestServer(t, &stubSource{makes: twoMakes}, Options{})
	rec := get(t, s.Routes(), "/api/v1/makes")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp makesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, twoMakes, resp.Makes)
}

func TestAPI_MakesFailure(t *testing.T) {
	s := newTestServer(t, &stubSource{makesErr: errors.New("down")}, Options{})
	rec := get(t, s.Routes(), "/api/v1/makes")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not load makes")
}

func TestAPI_Models(t *testing.T) {
	s := newTestServer(t, &stubSource{models: audiCars}, Options{})
	rec := get(t, s.Routes(), "/api/v1/models/2/2020")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp modelsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.MakeID)
	assert.Equal(t, 2020, resp.Year)
	assert.Equal(t, audiCars, resp.Models)
}

func TestAPI_ModelsEmptyIsNotAnError(t *testing.T) {
	s := newTestServer(t, &stubSource{}, Options{})
	rec := get(t, s.Routes(), "/api/v1/models/2/2015")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"make_id":2,"year":2015,"count":0,"models":[]}`, rec.Body.String())
}

func TestAPI_ModelsErrors(t *testing.T) {
	s := newTestServer(t, &stubSource{modelsErr: errors.New("boom")}, Options{})

	rec := get(t, s.Routes(), "/api/v1/models/x/2020")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "make_id")

	rec = get(t, s.Routes(), "/api/v1/models/2/2020")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &stubSource{}, Options{})
	rec := get(t, s.Routes(), "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	b := resilience.NewBreaker(resilience.DefaultBreakerOpts)
	s = newTestServer(t, &stubSource{}, Options{Breaker: b})
	rec = get(t, s.Routes(), "/api/health")
	assert.JSONEq(t, `{"status":"ok","upstream":"closed"}`, rec.Body.String())
}

func TestHandler_MiddlewareStack(t *testing.T) {
	s := newTestServer(t, &stubSource{}, Options{CORSOrigin: "https://cars.example"})
	h := s.Handler()

	rec := get(t, h, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(mid.RequestIDHeader))
	assert.Equal(t, "https://cars.example", rec.Header().Get("Access-Control-Allow-Origin"))

	get(t, h, "/nope")
	out := get(t, h, "/metrics").Body.String()
	assert.Contains(t, out, `http_requests_total{route="GET /api/health",code="2xx"} 1`)
	assert.Contains(t, out, `http_requests_total{route="unmatched",code="4xx"} 1`)
}

func TestUnknownPathIs404(t *testing.T) {
	s := newTestServer(t, &stubSource{}, Options{})
	assert.Equal(t, http.StatusNotFound, get(t, s.Routes(), "/nope").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s.Routes(), "/result/2/2020/extra/bits").Code)
}
