package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounterVecSeriesPerLabelSet(t *testing.T) {
	r := New()
	requests := r.CounterVec("vpic_requests_total", "Requests sent to the vPIC API", "endpoint", "outcome")
	requests.With("makes", "ok").Inc()
	requests.With("makes", "ok").Inc()
	requests.With("models", "error").Inc()

	// Registering again hands back the same family.
	r.CounterVec("vpic_requests_total", "", "endpoint", "outcome").With("models", "error").Inc()

	out := r.Render()
	for _, want := range []string{
		"# HELP vpic_requests_total Requests sent to the vPIC API\n",
		"# TYPE vpic_requests_total counter\n",
		`vpic_requests_total{endpoint="makes",outcome="ok"} 2` + "\n",
		`vpic_requests_total{endpoint="models",outcome="error"} 2` + "\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, `endpoint="makes"`) > strings.Index(out, `endpoint="models"`) {
		t.Errorf("series not sorted by label values:\n%s", out)
	}
}

func TestGaugeKeepsLastValue(t *testing.T) {
	r := New()
	open := r.Gauge("vpic_breaker_open", "1 while the vPIC circuit breaker is open")
	open.Set(1)
	open.Set(0)
	r.Gauge("vpic_breaker_open", "").Set(1)

	out := r.Render()
	if !strings.Contains(out, "# TYPE vpic_breaker_open gauge\nvpic_breaker_open 1\n") {
		t.Errorf("unexpected gauge output:\n%s", out)
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	r := New()
	latency := r.HistogramVec("http_request_duration_seconds", "HTTP request latency", []float64{1, 0.1, 0.5}, "route")
	h := latency.With("GET /api/v1/makes")
	for _, v := range []float64{0.0625, 0.25, 0.5, 0.75, 2} {
		h.Observe(v)
	}

	out := r.Render()
	for _, want := range []string{
		`http_request_duration_seconds_bucket{route="GET /api/v1/makes",le="0.1"} 1`,
		`http_request_duration_seconds_bucket{route="GET /api/v1/makes",le="0.5"} 3`,
		`http_request_duration_seconds_bucket{route="GET /api/v1/makes",le="1"} 4`,
		`http_request_duration_seconds_bucket{route="GET /api/v1/makes",le="+Inf"} 5`,
		`http_request_duration_seconds_sum{route="GET /api/v1/makes"} 3.5625`,
		`http_request_duration_seconds_count{route="GET /api/v1/makes"} 5`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestFamiliesRenderInRegistrationOrder(t *testing.T) {
	r := New()
	r.Gauge("vpic_breaker_open", "")
	r.CounterVec("http_requests_total", "", "route", "code").With("unmatched", "4xx").Inc()

	out := r.Render()
	if strings.Index(out, "vpic_breaker_open") > strings.Index(out, "http_requests_total") {
		t.Errorf("families out of order:\n%s", out)
	}
	if strings.Contains(out, "# HELP") {
		t.Errorf("empty help should be omitted:\n%s", out)
	}
}

func TestLabelValuesEscaped(t *testing.T) {
	r := New()
	r.CounterVec("http_requests_total", "", "route", "code").With(`GET /q"x\`, "2xx").Inc()
	if out := r.Render(); !strings.Contains(out, `route="GET /q\"x\\"`) {
		t.Errorf("label not escaped:\n%s", out)
	}
}

func TestReRegisterWithOtherLabelsPanics(t *testing.T) {
	r := New()
	r.CounterVec("vpic_requests_total", "", "endpoint", "outcome")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	r.CounterVec("vpic_requests_total", "", "endpoint")
}

func TestWrongLabelCountPanics(t *testing.T) {
	r := New()
	requests := r.CounterVec("vpic_requests_total", "", "endpoint", "outcome")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	requests.With("makes")
}

func TestHandler(t *testing.T) {
	r := New()
	r.Gauge("vpic_breaker_open", "").Set(1)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain; version=0.0.4") {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "vpic_breaker_open 1") {
		t.Error("missing gauge in handler output")
	}
}
