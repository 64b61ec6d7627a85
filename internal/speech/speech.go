package speech

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	htgotts "github.com/hegedustibor/htgo-tts"

	"github.com/SaganGromov/webcam-yolo-vigia/internal/logger"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/metrics"
)

type job struct {
	text  string
	speed float64
}

// Speaker synthesizes and plays spoken alerts in a detached worker so
// the frame loop is never stalled by the audio subsystem. Each job owns
// uuid-named temp files and removes them itself, so concurrent jobs
// never collide on a shared filename.
type Speaker struct {
	tts     htgotts.Speech
	workDir string
	m       *metrics.Metrics
	jobs    chan job
	wg      sync.WaitGroup
}

// New creates a speaker and starts its worker. workDir holds the
// synthesized audio scratch files.
func New(language, workDir string, m *metrics.Metrics) (*Speaker, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create speech work dir: %w", err)
	}

	s := &Speaker{
		tts:     htgotts.Speech{Folder: workDir, Language: language},
		workDir: workDir,
		m:       m,
		jobs:    make(chan job, 8),
	}

	s.wg.Add(1)
	go s.worker()

	return s, nil
}

// Speak queues an alert for playback. Non-blocking: returns false when
// the worker is saturated and the alert is dropped.
func (s *Speaker) Speak(text string, speed float64) bool {
	select {
	case s.jobs <- job{text: text, speed: speed}:
		return true
	default:
		return false
	}
}

// Close stops accepting alerts and waits for queued playback to finish.
func (s *Speaker) Close() error {
	close(s.jobs)
	s.wg.Wait()
	return nil
}

func (s *Speaker) worker() {
	defer s.wg.Done()

	for j := range s.jobs {
		s.play(j)
	}
}

func (s *Speaker) play(j job) {
	name := "vigia_" + uuid.NewString()

	raw, err := s.tts.CreateSpeechFile(j.text, name)
	if err != nil {
		s.fail("synthesis failed: %v", err)
		return
	}
	defer os.Remove(raw)

	audio := raw
	if j.speed > 0 && j.speed != 1.0 {
		adjusted := filepath.Join(s.workDir, name+"_adjusted.mp3")
		cmd := exec.Command("ffmpeg", "-i", raw,
			"-filter:a", fmt.Sprintf("atempo=%.2f", j.speed),
			"-vn", adjusted, "-y", "-loglevel", "quiet")
		if err := cmd.Run(); err != nil {
			s.fail("speed adjustment failed: %v", err)
			return
		}
		defer os.Remove(adjusted)
		audio = adjusted
	}

	playCmd := exec.Command("ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", audio)
	if err := playCmd.Run(); err != nil {
		s.fail("playback failed: %v", err)
	}
}

func (s *Speaker) fail(format string, args ...interface{}) {
	if s.m != nil {
		s.m.SpeechErrors.Add(1)
	}
	logger.Error("Speech", format, args...)
}
