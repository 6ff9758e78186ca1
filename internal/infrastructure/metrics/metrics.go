// Package metrics exposes Prometheus counters for the analysis pipeline and the
// expiry caches.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder owns the pipeline counters. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	analyses       *prometheus.CounterVec
	remoteFailures *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	predictions    *prometheus.CounterVec
}

// NewRecorder registers the counters on reg. A nil reg creates a private registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Recorder{
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jua",
			Name:      "analyses_total",
			Help:      "Analysis records produced, by provenance.",
		}, []string{"provenance"}),
		remoteFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jua",
			Name:      "remote_failures_total",
			Help:      "Remote classification attempts that fell back to local simulation, by reason.",
		}, []string{"reason"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jua",
			Name:      "cache_lookups_total",
			Help:      "Expiry cache lookups, by scope and outcome.",
		}, []string{"scope", "outcome"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jua",
			Subsystem: "server",
			Name:      "predictions_total",
			Help:      "Predictions served by the local classification backend, by class.",
		}, []string{"prediction"}),
	}
	reg.MustRegister(r.analyses, r.remoteFailures, r.cacheLookups, r.predictions)
	return r
}

// Analysis counts a produced record.
func (r *Recorder) Analysis(provenance string) {
	if r == nil {
		return
	}
	r.analyses.WithLabelValues(provenance).Inc()
}

// RemoteFailure counts a fallback trigger.
func (r *Recorder) RemoteFailure(reason string) {
	if r == nil {
		return
	}
	r.remoteFailures.WithLabelValues(reason).Inc()
}

// CacheHit counts a served cache entry.
func (r *Recorder) CacheHit(scope string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(scope, "hit").Inc()
}

// CacheMiss counts an absent or expired cache entry.
func (r *Recorder) CacheMiss(scope string) {
	if r == nil {
		return
	}
	r.cacheLookups.WithLabelValues(scope, "miss").Inc()
}

// Prediction counts a prediction served over HTTP.
func (r *Recorder) Prediction(class string) {
	if r == nil {
		return
	}
	r.predictions.WithLabelValues(class).Inc()
}
