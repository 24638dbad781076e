// Package metrics exposes playback counters over Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quarrel"

// Metrics records engine outcomes. It satisfies engine.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	loaded    *prometheus.CounterVec
	loadTime  *prometheus.HistogramVec
	advanced  *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	retried   *prometheus.CounterVec
	exhausted *prometheus.CounterVec
	blocked   prometheus.Counter
	playing   prometheus.Gauge
}

// New creates and registers the metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		loaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_loaded_total",
			Help:      "Segments whose video and audio both finished buffering",
		}, []string{"segment"}),
		loadTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "segment_load_seconds",
			Help:      "Time from requesting a segment to both resources being ready",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"segment"}),
		advanced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_finished_total",
			Help:      "Segments whose voice line played to the end",
		}, []string{"segment"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_skipped_total",
			Help:      "Segments skipped after a load or decode error",
		}, []string{"segment"}),
		retried: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "play_retries_total",
			Help:      "Play attempts retried after a failure",
		}, []string{"segment"}),
		exhausted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "play_retries_exhausted_total",
			Help:      "Segments that gave up after too many failed play attempts",
		}, []string{"segment"}),
		blocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autoplay_blocked_total",
			Help:      "Play attempts refused until the viewer interacts",
		}),
		playing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "playing",
			Help:      "1 while a segment is playing",
		}),
	}

	registry.MustRegister(m.loaded, m.loadTime, m.advanced, m.skipped, m.retried, m.exhausted, m.blocked, m.playing)
	return m
}

// SegmentLoaded counts a buffered segment and records how long it took.
func (m *Metrics) SegmentLoaded(segment string, took time.Duration) {
	m.loaded.WithLabelValues(segment).Inc()
	m.loadTime.WithLabelValues(segment).Observe(took.Seconds())
}

// SegmentAdvanced counts a segment whose voice line played to the end.
func (m *Metrics) SegmentAdvanced(segment string) {
	m.advanced.WithLabelValues(segment).Inc()
}

// SegmentSkipped counts a segment dropped after a load or decode failure.
func (m *Metrics) SegmentSkipped(segment string) {
	m.skipped.WithLabelValues(segment).Inc()
}

// PlayRetried counts a failed play attempt that will be retried.
func (m *Metrics) PlayRetried(segment string) {
	m.retried.WithLabelValues(segment).Inc()
}

// RetriesExhausted counts a segment that paused after its last play attempt failed.
func (m *Metrics) RetriesExhausted(segment string) {
	m.exhausted.WithLabelValues(segment).Inc()
}

// AutoplayBlocked counts playback parked until the viewer interacts.
func (m *Metrics) AutoplayBlocked(string) {
	m.blocked.Inc()
}

// SetPlaying mirrors the engine's playing flag.
func (m *Metrics) SetPlaying(playing bool) {
	if playing {
		m.playing.Set(1)
		return
	}
	m.playing.Set(0)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
