// The windowed watcher: same pipeline as cmd/vigia, but the annotated
// frames are shown in a window. ESC or q quits.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"gocv.io/x/gocv"

	"github.com/SaganGromov/webcam-yolo-vigia/internal/app"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/config"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/logger"
)

var (
	configPath = flag.String("config", "", "Path to YAML config (defaults used when empty)")
	device     = flag.Int("device", -1, "Camera device index override")
	file       = flag.String("file", "", "Video file override (takes precedence over device)")
	logLevel   = flag.String("log-level", "info", "Log level (debug, info, warn, error, silent)")
	logColor   = flag.Bool("log-color", true, "Enable colored log output")
)

func main() {
	flag.Parse()

	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logger.Init(level, os.Stderr, *logColor)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	a.StartServers()

	window := gocv.NewWindow("Webcam Motion Detection")
	defer window.Close()

	logger.Info("Main", "watching %s, press ESC or q to quit", a.Source.Description())

	run(a, window)

	logger.Info("Main", "video source released, shutting down")
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if *file != "" {
		cfg.Source.File = *file
	} else if *device >= 0 {
		cfg.Source.Device = *device
		cfg.Source.File = ""
	}

	return cfg, cfg.Validate()
}

func run(a *app.App, window *gocv.Window) {
	frame := gocv.NewMat()
	defer frame.Close()

	failures := 0
	maxFailures := a.MaxReadFailures()

	for {
		if !a.Source.Read(&frame) {
			a.Metrics.ReadErrors.Add(1)
			failures++
			if failures >= maxFailures {
				logger.Error("Main", "frame source exhausted after %d failed reads", failures)
				return
			}
			continue
		}
		failures = 0
		a.Metrics.FramesRead.Add(1)

		start := time.Now()
		a.Orchestrator.Process(&frame, start)
		a.Metrics.UpdateProcessLatency(time.Since(start))

		window.IMShow(frame)
		key := window.WaitKey(1)
		if key == 27 || key == 'q' {
			logger.Info("Main", "quit requested")
			return
		}
	}
}
