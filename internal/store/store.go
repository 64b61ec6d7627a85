package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/SaganGromov/webcam-yolo-vigia/internal/logger"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/metrics"
)

// Save categories understood by the store.
const (
	CategoryMotion = "motion"
	CategoryPerson = "person"
)

type category struct {
	dir    string
	prefix string
}

type saveJob struct {
	frame    gocv.Mat
	category string
	ts       time.Time
}

// Store persists frames as JPEG files, keyed by category and a
// millisecond timestamp. Writes happen on a detached worker fed by a
// bounded channel; the frame loop is never stalled by disk latency.
type Store struct {
	categories map[string]category
	m          *metrics.Metrics
	jobs       chan saveJob
	wg         sync.WaitGroup
}

// New creates the category directories under baseDir and starts the
// writer goroutine.
func New(baseDir string, m *metrics.Metrics) (*Store, error) {
	s := &Store{
		categories: map[string]category{
			CategoryMotion: {dir: filepath.Join(baseDir, "motion_frames_detected"), prefix: "motion"},
			CategoryPerson: {dir: filepath.Join(baseDir, "person_frames_detected"), prefix: "person_pet"},
		},
		m:    m,
		jobs: make(chan saveJob, 60),
	}

	for _, cat := range s.categories {
		if err := os.MkdirAll(cat.dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create frame directory: %w", err)
		}
	}

	s.wg.Add(1)
	go s.writeFrames()

	return s, nil
}

// Save clones the frame and queues it for writing. Non-blocking:
// returns false when the writer is saturated or the category is
// unknown, and the frame is dropped.
func (s *Store) Save(frame gocv.Mat, cat string, ts time.Time) bool {
	if _, ok := s.categories[cat]; !ok {
		return false
	}

	// Clone so the caller can keep reusing its Mat.
	clone := frame.Clone()
	select {
	case s.jobs <- saveJob{frame: clone, category: cat, ts: ts}:
		return true
	default:
		clone.Close()
		return false
	}
}

// Close stops accepting frames and drains the queue.
func (s *Store) Close() error {
	close(s.jobs)
	s.wg.Wait()
	return nil
}

func (s *Store) writeFrames() {
	defer s.wg.Done()

	for j := range s.jobs {
		s.writeFrame(j)
	}
}

func (s *Store) writeFrame(j saveJob) {
	defer j.frame.Close()

	cat := s.categories[j.category]
	path := filepath.Join(cat.dir, Filename(cat.prefix, j.ts))

	if ok := gocv.IMWrite(path, j.frame); !ok {
		if s.m != nil {
			s.m.SaveErrors.Add(1)
		}
		logger.Error("Store", "failed to save frame: %s", path)
		return
	}

	logger.Debug("Store", "frame saved: %s", path)
}

// Filename builds the timestamped frame filename, millisecond
// precision so back-to-back saves never collide.
func Filename(prefix string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.jpg", prefix, ts.Format("20060102_150405.000"))
}
