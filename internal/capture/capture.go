package capture

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/SaganGromov/webcam-yolo-vigia/internal/config"
)

// Source supplies frames. Read returns false on a failed read; callers
// decide whether that is transient (device hiccup) or terminal (file
// exhausted).
type Source interface {
	Read(frame *gocv.Mat) bool
	Close() error
}

// Camera wraps a gocv VideoCapture over a live device or a video file.
type Camera struct {
	vc       *gocv.VideoCapture
	desc     string
	fromFile bool
}

// Open opens the configured source. A file path takes precedence over
// the device index.
func Open(cfg config.SourceConfig) (*Camera, error) {
	var (
		vc   *gocv.VideoCapture
		err  error
		desc string
		file bool
	)

	if cfg.File != "" {
		vc, err = gocv.OpenVideoCapture(cfg.File)
		desc = cfg.File
		file = true
	} else {
		vc, err = gocv.OpenVideoCapture(cfg.Device)
		desc = fmt.Sprintf("device %d", cfg.Device)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open video source %s: %w", desc, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("video source %s did not open", desc)
	}

	return &Camera{vc: vc, desc: desc, fromFile: file}, nil
}

// Read grabs the next frame. Empty frames count as failed reads.
func (c *Camera) Read(frame *gocv.Mat) bool {
	if !c.vc.Read(frame) {
		return false
	}
	return !frame.Empty()
}

// FromFile reports whether the source is a file; a failed read on a
// file means end of stream rather than a transient hiccup.
func (c *Camera) FromFile() bool {
	return c.fromFile
}

// Description returns a human-readable source name for logs.
func (c *Camera) Description() string {
	return c.desc
}

// Close releases the capture device.
func (c *Camera) Close() error {
	return c.vc.Close()
}
