package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/SaganGromov/webcam-yolo-vigia/internal/metrics"
)

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 6, 1, 14, 35, 7, 123000000, time.UTC)

	if got, want := Filename("motion", ts), "motion_20250601_143507.123.jpg"; got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
	if got, want := Filename("person_pet", ts), "person_pet_20250601_143507.123.jpg"; got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
}

func TestNewCreatesCategoryDirectories(t *testing.T) {
	base := t.TempDir()
	s, err := New(base, metrics.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	for _, dir := range []string{"motion_frames_detected", "person_frames_detected"} {
		info, err := os.Stat(filepath.Join(base, dir))
		if err != nil {
			t.Errorf("missing directory %s: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestSaveRejectsUnknownCategory(t *testing.T) {
	s, err := New(t.TempDir(), metrics.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	if s.Save(frame, "vehicle", time.Now()) {
		t.Fatal("unknown category must be rejected")
	}
}

func TestSaveWritesFrameToDisk(t *testing.T) {
	base := t.TempDir()
	s, err := New(base, metrics.New())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	ts := time.Date(2025, 6, 1, 14, 35, 7, 0, time.UTC)
	if !s.Save(frame, CategoryMotion, ts) {
		t.Fatal("save should be accepted")
	}

	// Close drains the writer before we look at the disk.
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	path := filepath.Join(base, "motion_frames_detected", Filename("motion", ts))
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("saved frame missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("saved frame is empty")
	}
}
