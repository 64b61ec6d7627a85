// Package app wires the watcher's components together so the headless
// and windowed front ends share everything except what happens after a
// frame is processed.
package app

import (
	"fmt"

	"github.com/SaganGromov/webcam-yolo-vigia/internal/capture"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/config"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/events"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/logger"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/metrics"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/pipeline"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/speech"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/status"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/store"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/vision"
)

// App holds the assembled watcher.
type App struct {
	Cfg          *config.Config
	Metrics      *metrics.Metrics
	Orchestrator *pipeline.Orchestrator
	Source       *capture.Camera

	detector *vision.NetDetector
	sensor   *vision.MotionSensor
	frames   *store.Store
	speaker  *speech.Speaker
	emitter  events.Emitter
}

// New builds every component from the configuration.
func New(cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg, Metrics: metrics.New()}

	detector, err := vision.NewNetDetector(
		cfg.Detector.WeightsPath, cfg.Detector.ConfigPath, cfg.Detector.NamesPath,
		cfg.Detector.InputSize, cfg.Detector.Confidence)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}
	a.detector = detector

	a.sensor = vision.NewMotionSensor(
		cfg.Motion.History, cfg.Motion.VarThreshold, cfg.Motion.AreaThreshold)

	frames, err := store.New(cfg.Storage.BaseDir, a.Metrics)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("store: %w", err)
	}
	a.frames = frames

	var notifier pipeline.Notifier
	if cfg.Speech.Enabled {
		speaker, err := speech.New(cfg.Speech.Language, cfg.Speech.WorkDir, a.Metrics)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("speech: %w", err)
		}
		a.speaker = speaker
		notifier = speaker
	}

	emitter, err := buildEmitter(cfg.Events)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.emitter = emitter

	source, err := capture.Open(cfg.Source)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Source = source

	a.Orchestrator = pipeline.New(pipeline.Options{
		FrameSkip:        cfg.Detector.FrameSkip,
		AllowedLabels:    cfg.Detector.AllowedLabels,
		SuppressWindow:   cfg.Motion.SuppressWindow(),
		SuppressOnAnimal: cfg.Motion.SuppressOnAnimal,

		PersonAlertCooldown: cfg.Alerts.PersonAlertCooldown(),
		AnimalAlertCooldown: cfg.Alerts.AnimalAlertCooldown(),
		MotionAlertCooldown: cfg.Alerts.MotionAlertCooldown(),
		PersonSaveCooldown:  cfg.Alerts.PersonSaveCooldown(),
		MotionSaveCooldown:  cfg.Alerts.MotionSaveCooldown(),

		PersonAlertSpeed: cfg.Speech.PersonSpeed,
		AnimalAlertSpeed: cfg.Speech.AnimalSpeed,
		MotionAlertSpeed: cfg.Speech.MotionSpeed,
	}, pipeline.Deps{
		Detector: a.detector,
		Motion:   a.sensor,
		Store:    a.frames,
		Notifier: notifier,
		Emitter:  a.emitter,
		Metrics:  a.Metrics,
	})

	return a, nil
}

func buildEmitter(cfg config.EventsConfig) (events.Emitter, error) {
	var emitters events.MultiEmitter

	if cfg.LogDir != "" {
		fe, err := events.NewFileEmitter(cfg.LogDir)
		if err != nil {
			return nil, fmt.Errorf("event log: %w", err)
		}
		emitters = append(emitters, fe)
	}

	if cfg.MQTT.Enabled {
		me, err := events.NewMQTTEmitter(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic)
		if err != nil {
			// Publishing is best effort; run without it.
			logger.Warn("Main", "MQTT disabled: %v", err)
		} else {
			emitters = append(emitters, me)
		}
	}

	if len(emitters) == 0 {
		return nil, nil
	}
	return emitters, nil
}

// StartServers launches the metrics and status HTTP servers when
// configured. They run for the lifetime of the process.
func (a *App) StartServers() {
	if addr := a.Cfg.Server.MetricsAddr; addr != "" {
		go func() {
			logger.Info("Main", "metrics server on %s", addr)
			if err := a.Metrics.StartServer(addr); err != nil {
				logger.Error("Main", "metrics server: %v", err)
			}
		}()
	}

	if addr := a.Cfg.Server.StatusAddr; addr != "" {
		srv := status.New(a.Metrics, a.Source.Description())
		go func() {
			logger.Info("Main", "status server on %s", addr)
			if err := srv.Start(addr); err != nil {
				logger.Error("Main", "status server: %v", err)
			}
		}()
	}
}

// MaxReadFailures returns how many consecutive failed reads count as
// source exhaustion: one for a file (end of stream), a few seconds
// worth for a flaky device.
func (a *App) MaxReadFailures() int {
	if a.Source.FromFile() {
		return 1
	}
	return 30
}

// Close releases everything in reverse construction order. Queued
// background work (saves, speech) is drained first.
func (a *App) Close() {
	if a.Source != nil {
		a.Source.Close()
	}
	if a.frames != nil {
		a.frames.Close()
	}
	if a.speaker != nil {
		a.speaker.Close()
	}
	if a.emitter != nil {
		a.emitter.Close()
	}
	if a.sensor != nil {
		a.sensor.Close()
	}
	if a.detector != nil {
		a.detector.Close()
	}
}
