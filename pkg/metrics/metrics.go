// Package metrics keeps the lookup service's metric families (vPIC calls,
// HTTP requests, breaker state) and renders them in the Prometheus text
// exposition format on /metrics.
package metrics

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LatencyBuckets are upper bounds in seconds, sized for a public API that
// answers in tens to hundreds of milliseconds.
var LatencyBuckets = []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

type kind string

const (
	counterKind   kind = "counter"
	gaugeKind     kind = "gauge"
	histogramKind kind = "histogram"
)

// Registry holds metric families in registration order.
type Registry struct {
	mu       sync.Mutex
	families []*family
	byName   map[string]*family
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*family)}
}

type family struct {
	name    string
	help    string
	kind    kind
	labels  []string
	buckets []float64

	mu     sync.Mutex
	series map[string]*series
}

// series is one label combination. Counters and gauges use n; histograms
// use the bucket fields.
type series struct {
	values []string
	n      atomic.Int64

	mu     sync.Mutex
	counts []uint64
	sum    float64
	count  uint64
}

// family returns the family called name, creating it on first use.
// Re-registering a name with a different kind or label set is a programming
// error.
func (r *Registry) family(name, help string, k kind, buckets []float64, labels []string) *family {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.byName[name]; ok {
		if f.kind != k || !slices.Equal(f.labels, labels) {
			panic(fmt.Sprintf("metrics: %s re-registered as %s%v", name, k, labels))
		}
		return f
	}
	f := &family{
		name:    name,
		help:    help,
		kind:    k,
		labels:  labels,
		buckets: buckets,
		series:  make(map[string]*series),
	}
	r.families = append(r.families, f)
	r.byName[name] = f
	return f
}

func (f *family) with(values []string) *series {
	if len(values) != len(f.labels) {
		panic(fmt.Sprintf("metrics: %s wants %d label values, got %d", f.name, len(f.labels), len(values)))
	}
	key := strings.Join(values, "\xff")
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.series[key]
	if !ok {
		s = &series{values: slices.Clone(values)}
		if f.kind == histogramKind {
			s.counts = make([]uint64, len(f.buckets))
		}
		f.series[key] = s
	}
	return s
}

// Counter only goes up.
type Counter struct{ s *series }

func (c Counter) Inc() { c.s.n.Add(1) }

// CounterVec is a counter family partitioned by labels.
type CounterVec struct{ f *family }

// CounterVec registers (or returns) the counter family name.
func (r *Registry) CounterVec(name, help string, labels ...string) CounterVec {
	return CounterVec{r.family(name, help, counterKind, nil, labels)}
}

// With returns the counter for one set of label values, in label order.
func (v CounterVec) With(values ...string) Counter { return Counter{v.f.with(values)} }

// Gauge holds the last value set.
type Gauge struct{ s *series }

// Gauge registers (or returns) the unlabelled gauge name.
func (r *Registry) Gauge(name, help string) Gauge {
	return Gauge{r.family(name, help, gaugeKind, nil, nil).with(nil)}
}

func (g Gauge) Set(n int64) { g.s.n.Store(n) }

// Histogram observes durations into fixed buckets.
type Histogram struct {
	s       *series
	buckets []float64
}

// Since observes the seconds elapsed since start.
func (h Histogram) Since(start time.Time) { h.Observe(time.Since(start).Seconds()) }

// Observe records v in the first bucket whose bound holds it; Render makes
// the counts cumulative.
func (h Histogram) Observe(v float64) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.s.sum += v
	h.s.count++
	if i, _ := slices.BinarySearch(h.buckets, v); i < len(h.buckets) {
		h.s.counts[i]++
	}
}

// HistogramVec is a histogram family partitioned by labels.
type HistogramVec struct{ f *family }

// HistogramVec registers (or returns) the histogram family name. Nil
// buckets means LatencyBuckets.
func (r *Registry) HistogramVec(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = LatencyBuckets
	}
	b := slices.Clone(buckets)
	slices.Sort(b)
	return HistogramVec{r.family(name, help, histogramKind, b, labels)}
}

func (v HistogramVec) With(values ...string) Histogram {
	return Histogram{s: v.f.with(values), buckets: v.f.buckets}
}

// Render writes every family in the text exposition format. Series within a
// family are sorted by label values.
func (r *Registry) Render() string {
	r.mu.Lock()
	families := slices.Clone(r.families)
	r.mu.Unlock()

	var b strings.Builder
	for _, f := range families {
		f.render(&b)
	}
	return b.String()
}

func (f *family) render(b *strings.Builder) {
	f.mu.Lock()
	all := make([]*series, 0, len(f.series))
	for _, s := range f.series {
		all = append(all, s)
	}
	f.mu.Unlock()
	slices.SortFunc(all, func(x, y *series) int { return slices.Compare(x.values, y.values) })

	if f.help != "" {
		fmt.Fprintf(b, "# HELP %s %s\n", f.name, f.help)
	}
	fmt.Fprintf(b, "# TYPE %s %s\n", f.name, f.kind)
	for _, s := range all {
		labels := f.labelPairs(s.values)
		if f.kind != histogramKind {
			fmt.Fprintf(b, "%s%s %d\n", f.name, braces(labels), s.n.Load())
			continue
		}
		s.mu.Lock()
		var cumulative uint64
		for i, bound := range f.buckets {
			cumulative += s.counts[i]
			le := `le="` + strconv.FormatFloat(bound, 'g', -1, 64) + `"`
			fmt.Fprintf(b, "%s_bucket%s %d\n", f.name, braces(slices.Concat(labels, []string{le})), cumulative)
		}
		fmt.Fprintf(b, "%s_bucket%s %d\n", f.name, braces(slices.Concat(labels, []string{`le="+Inf"`})), s.count)
		fmt.Fprintf(b, "%s_sum%s %g\n", f.name, braces(labels), s.sum)
		fmt.Fprintf(b, "%s_count%s %d\n", f.name, braces(labels), s.count)
		s.mu.Unlock()
	}
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func (f *family) labelPairs(values []string) []string {
	pairs := make([]string, len(values))
	for i, v := range values {
		pairs[i] = f.labels[i] + `="` + labelEscaper.Replace(v) + `"`
	}
	return pairs
}

func braces(pairs []string) string {
	if len(pairs) == 0 {
		return ""
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

// Handler serves Render.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.Write([]byte(r.Render()))
	})
}
