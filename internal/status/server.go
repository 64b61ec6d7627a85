package status

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SaganGromov/webcam-yolo-vigia/internal/metrics"
)

// Server exposes a small JSON status endpoint for the running watcher.
// It reads only the atomic metric counters, so it is safe to serve
// while the frame loop runs.
type Server struct {
	m      *metrics.Metrics
	source string
	start  time.Time
}

// New creates a status server for the given source description.
func New(m *metrics.Metrics, source string) *Server {
	return &Server{m: m, source: source, start: time.Now()}
}

// Handler returns the HTTP handler serving /api/status.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	return mux
}

// Start serves the status endpoint on addr, blocking.
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	payload := map[string]any{
		"source":              s.source,
		"uptime_s":            int64(time.Since(s.start).Seconds()),
		"frames_read":         s.m.FramesRead.Load(),
		"frames_processed":    s.m.FramesProcessed.Load(),
		"detector_runs":       s.m.DetectorRuns.Load(),
		"detector_errors":     s.m.DetectorErrors.Load(),
		"cached_detections":   s.m.CachedBoxes.Load(),
		"motion_gate_enabled": s.m.MotionGateEnabled.Load() == 1,
		"motion_events":       s.m.MotionEvents.Load(),
		"person_saves":        s.m.PersonSaves.Load(),
		"motion_saves":        s.m.MotionSaves.Load(),
		"person_alerts":       s.m.PersonAlerts.Load(),
		"animal_alerts":       s.m.AnimalAlerts.Load(),
		"motion_alerts":       s.m.MotionAlerts.Load(),
		"read_errors":         s.m.ReadErrors.Load(),
		"save_errors":         s.m.SaveErrors.Load(),
		"speech_errors":       s.m.SpeechErrors.Load(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
	}
}
