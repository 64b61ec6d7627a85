// The headless watcher: runs the detection/motion pipeline against a
// camera or video file until interrupted or the source is exhausted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Main", "watching %s (detector every %d frames), Ctrl+C to stop",
		a.Source.Description(), cfg.Detector.FrameSkip)

	run(ctx, a)

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

func run(ctx context.Context, a *app.App) {
	frame := gocv.NewMat()
	defer frame.Close()

	failures := 0
	maxFailures := a.MaxReadFailures()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Main", "stop signal received")
			return
		default:
		}

		if !a.Source.Read(&frame) {
			a.Metrics.ReadErrors.Add(1)
			failures++
			if failures >= maxFailures {
				logger.Error("Main", "frame source exhausted after %d failed reads", failures)
				return
			}
			logger.Warn("Main", "failed to read frame, retrying")
			continue
		}
		failures = 0
		a.Metrics.FramesRead.Add(1)

		start := time.Now()
		a.Orchestrator.Process(&frame, start)
		a.Metrics.UpdateProcessLatency(time.Since(start))
	}
}
