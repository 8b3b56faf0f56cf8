package vpic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/WessleyAI/vehicle-lookup/engine/domain"
	"github.com/WessleyAI/vehicle-lookup/pkg/fn"
	"github.com/WessleyAI/vehicle-lookup/pkg/metrics"
	"github.com/WessleyAI/vehicle-lookup/pkg/resilience"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "vehicle-lookup/1.0"
	maxBodyBytes     = 8 << 20
)

// Options configures a Client. Zero values fall back to sensible defaults;
// a nil Breaker or Metrics simply disables that concern.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Rate      float64 // requests per second; <= 0 disables pacing
	Burst     int
	Breaker   *resilience.Breaker
	Metrics   *metrics.Registry
	Transport http.RoundTripper
	UserAgent string
}

type clientMetrics struct {
	requests metrics.CounterVec
	latency  metrics.HistogramVec
}

type modelsQuery struct {
	MakeID int
	Year   int
}

// Client fetches makes and models from vPIC. It is safe for concurrent use.
type Client struct {
	base    string
	client  *http.Client
	limiter *rate.Limiter
	metrics *clientMetrics
	ua      string

	makes  fn.Stage[string, []domain.Make]
	models fn.Stage[modelsQuery, []domain.Model]
}

// New builds a Client. It fails only when BaseURL is not an absolute
// http(s) URL.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("vpic: invalid base url %q", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	c := &Client{
		base: base,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		ua: ua,
	}
	if opts.Metrics != nil {
		c.metrics = &clientMetrics{
			requests: opts.Metrics.CounterVec("vpic_requests_total", "Requests sent to the vPIC API", "endpoint", "outcome"),
			latency:  opts.Metrics.HistogramVec("vpic_request_duration_seconds", "vPIC request latency", nil, "endpoint"),
		}
	}
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}

	makes := fn.Stage[string, []domain.Make](func(ctx context.Context, vehicleType string) fn.Result[[]domain.Make] {
		return fetch(ctx, c, "makes", "/vehicles/GetMakesForVehicleType/"+url.PathEscape(vehicleType), decodeMakes)
	})
	models := fn.Stage[modelsQuery, []domain.Model](func(ctx context.Context, q modelsQuery) fn.Result[[]domain.Model] {
		path := fmt.Sprintf("/vehicles/GetModelsForMakeIdYear/makeId/%d/modelyear/%d", q.MakeID, q.Year)
		return fetch(ctx, c, "models", path, decodeModels)
	})
	if opts.Breaker != nil {
		makes = resilience.BreakerStage(opts.Breaker, makes)
		models = resilience.BreakerStage(opts.Breaker, models)
	}
	c.makes = fn.TracedStage("vpic.makes", makes, func(vt string) []attribute.KeyValue {
		return []attribute.KeyValue{attribute.String("vpic.vehicle_type", vt)}
	})
	c.models = fn.TracedStage("vpic.models", models, func(q modelsQuery) []attribute.KeyValue {
		return []attribute.KeyValue{attribute.Int("vpic.make_id", q.MakeID), attribute.Int("vpic.model_year", q.Year)}
	})
	return c, nil
}

// BaseURL returns the normalized base URL requests are sent to.
func (c *Client) BaseURL() string { return c.base }

// Makes lists the makes vPIC knows for a vehicle type, in API order.
func (c *Client) Makes(ctx context.Context, vehicleType string) ([]domain.Make, error) {
	return c.makes(ctx, vehicleType).Unwrap()
}

// Models lists the models of a make for one model year, in API order.
func (c *Client) Models(ctx context.Context, makeID, year int) ([]domain.Model, error) {
	return c.models(ctx, modelsQuery{MakeID: makeID, Year: year}).Unwrap()
}

func fetch[T any](ctx context.Context, c *Client, endpoint, path string, decode func(io.Reader) (T, error)) (res fn.Result[T]) {
	start := time.Now()
	defer func() { c.observe(endpoint, start, res.IsOk()) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fn.Err[T](fmt.Errorf("vpic %s: %w", endpoint, err))
		}
	}

	u := c.base + path + "?format=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fn.Err[T](fmt.Errorf("vpic %s: %w", endpoint, err))
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fn.Err[T](fmt.Errorf("vpic %s: %w", endpoint, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fn.Err[T](fmt.Errorf("vpic %s: %w", endpoint, &StatusError{Code: resp.StatusCode, URL: u}))
	}

	v, err := decode(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fn.Err[T](fmt.Errorf("vpic %s: %w", endpoint, err))
	}
	return fn.Ok(v)
}

func (c *Client) observe(endpoint string, start time.Time, ok bool) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	c.metrics.requests.With(endpoint, outcome).Inc()
	c.metrics.latency.With(endpoint).Since(start)
}
