package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics
type Metrics struct {
	// Frame pipeline counters
	FramesRead      atomic.Uint64
	FramesProcessed atomic.Uint64
	DetectorRuns    atomic.Uint64
	DetectorErrors  atomic.Uint64
	CachedBoxes     atomic.Uint64 // Detections currently held by the cache
	MotionEvents    atomic.Uint64

	// Side-effect counters
	PersonSaves   atomic.Uint64
	MotionSaves   atomic.Uint64
	SavesDropped  atomic.Uint64
	PersonAlerts  atomic.Uint64
	AnimalAlerts  atomic.Uint64
	MotionAlerts  atomic.Uint64
	AlertsDropped atomic.Uint64
	EventsEmitted atomic.Uint64

	// Error counters
	ReadErrors   atomic.Uint64
	SaveErrors   atomic.Uint64
	SpeechErrors atomic.Uint64
	EventErrors  atomic.Uint64

	// Pipeline state
	MotionGateEnabled atomic.Uint64 // 1 = motion sensing enabled, 0 = suppressed

	// Latency tracking
	ProcessLatencyMs atomic.Uint64 // Last frame processing latency in ms

	// Prometheus collectors
	registry *prometheus.Registry
}

// New creates a new Metrics instance with Prometheus collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.registerPrometheusMetrics()

	return m
}

// registerPrometheusMetrics registers all metrics with Prometheus
func (m *Metrics) registerPrometheusMetrics() {
	gauges := []struct {
		name string
		help string
		load func() uint64
	}{
		{"vigia_frames_read_total", "Total frames read from the capture source", m.FramesRead.Load},
		{"vigia_frames_processed_total", "Total frames run through the pipeline", m.FramesProcessed.Load},
		{"vigia_detector_runs_total", "Total object detector invocations", m.DetectorRuns.Load},
		{"vigia_detector_errors_total", "Total object detector failures", m.DetectorErrors.Load},
		{"vigia_cached_detections", "Detections held by the cache after the last detector run", m.CachedBoxes.Load},
		{"vigia_motion_events_total", "Total significant motion events", m.MotionEvents.Load},
		{"vigia_person_saves_total", "Total person/pet frames persisted", m.PersonSaves.Load},
		{"vigia_motion_saves_total", "Total motion frames persisted", m.MotionSaves.Load},
		{"vigia_saves_dropped_total", "Total frame saves dropped (writer queue full)", m.SavesDropped.Load},
		{"vigia_person_alerts_total", "Total person alerts dispatched", m.PersonAlerts.Load},
		{"vigia_animal_alerts_total", "Total animal alerts dispatched", m.AnimalAlerts.Load},
		{"vigia_motion_alerts_total", "Total motion alerts dispatched", m.MotionAlerts.Load},
		{"vigia_alerts_dropped_total", "Total alerts dropped (speech queue full)", m.AlertsDropped.Load},
		{"vigia_events_emitted_total", "Total detection/motion events emitted", m.EventsEmitted.Load},
		{"vigia_read_errors_total", "Total frame read errors", m.ReadErrors.Load},
		{"vigia_save_errors_total", "Total frame persistence errors", m.SaveErrors.Load},
		{"vigia_speech_errors_total", "Total speech synthesis/playback errors", m.SpeechErrors.Load},
		{"vigia_event_errors_total", "Total event emission errors", m.EventErrors.Load},
		{"vigia_motion_gate_enabled", "Motion gate state (1=enabled, 0=suppressed)", m.MotionGateEnabled.Load},
		{"vigia_process_latency_ms", "Last frame processing latency in milliseconds", m.ProcessLatencyMs.Load},
	}

	for _, g := range gauges {
		load := g.load
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: g.name,
				Help: g.help,
			},
			func() float64 { return float64(load()) },
		))
	}
}

// UpdateProcessLatency records the processing latency of the last frame
func (m *Metrics) UpdateProcessLatency(duration time.Duration) {
	m.ProcessLatencyMs.Store(uint64(duration.Milliseconds()))
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server
func (m *Metrics) StartServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return http.ListenAndServe(addr, mux)
}
