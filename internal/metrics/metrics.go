// Package metrics exposes processing counters and latencies in Prometheus
// format. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private registry so tests and multiple servers do not
// collide on the global one.
type Recorder struct {
	registry    *prometheus.Registry
	results     *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	validations *prometheus.CounterVec
	fallbacks   prometheus.Counter
}

// New builds a Recorder with Go runtime and process collectors attached.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careflow",
			Name:      "unit_results_total",
			Help:      "Processor results by unit and status.",
		}, []string{"unit", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "careflow",
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent per pipeline stage.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
		}, []string{"stage"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careflow",
			Name:      "validations_total",
			Help:      "Input validations by outcome.",
		}, []string{"valid"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "careflow",
			Name:      "llm_fallbacks_total",
			Help:      "LLM drafts that fell back to the heuristic engine.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.results, r.durations, r.validations, r.fallbacks,
	)
	return r
}

// Result counts one processor result.
func (r *Recorder) Result(unit, status string) {
	if r == nil {
		return
	}
	r.results.WithLabelValues(unit, status).Inc()
}

// Observe records the duration of a stage.
func (r *Recorder) Observe(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.durations.WithLabelValues(stage).Observe(d.Seconds())
}

// Validation counts one validation outcome.
func (r *Recorder) Validation(valid bool) {
	if r == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	r.validations.WithLabelValues(label).Inc()
}

// Fallback counts one LLM fallback.
func (r *Recorder) Fallback() {
	if r == nil {
		return
	}
	r.fallbacks.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
