package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete vigia configuration
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Detector DetectorConfig `yaml:"detector"`
	Motion   MotionConfig   `yaml:"motion"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Storage  StorageConfig  `yaml:"storage"`
	Speech   SpeechConfig   `yaml:"speech"`
	Events   EventsConfig   `yaml:"events"`
	Server   ServerConfig   `yaml:"server"`
}

// SourceConfig selects the capture source. File takes precedence over Device
// when set, so recorded footage can be replayed through the same pipeline.
type SourceConfig struct {
	Device int    `yaml:"device"` // camera device index
	File   string `yaml:"file"`   // optional video file path
}

// DetectorConfig contains object detector settings
type DetectorConfig struct {
	WeightsPath   string   `yaml:"weights_path"`
	ConfigPath    string   `yaml:"config_path"`
	NamesPath     string   `yaml:"names_path"`
	InputSize     int      `yaml:"input_size"`     // square DNN input, e.g. 416
	Confidence    float64  `yaml:"confidence"`     // minimum detection confidence
	FrameSkip     int      `yaml:"frame_skip"`     // run detector every Nth frame
	AllowedLabels []string `yaml:"allowed_labels"` // labels kept from detector output
}

// MotionConfig contains background-subtraction motion sensing settings
type MotionConfig struct {
	History          int     `yaml:"history"`            // MOG2 background history
	VarThreshold     float64 `yaml:"var_threshold"`      // MOG2 variance threshold
	AreaThreshold    float64 `yaml:"area_threshold"`     // minimum contour area in px^2
	SuppressS        float64 `yaml:"suppress_s"`         // motion suppression window after a person
	SuppressOnAnimal bool    `yaml:"suppress_on_animal"` // also suppress motion on cat/dog
}

// AlertsConfig contains per-category cooldowns in seconds
type AlertsConfig struct {
	PersonAlertS float64 `yaml:"person_alert_s"`
	AnimalAlertS float64 `yaml:"animal_alert_s"`
	MotionAlertS float64 `yaml:"motion_alert_s"`
	PersonSaveS  float64 `yaml:"person_save_s"`
	MotionSaveS  float64 `yaml:"motion_save_s"`
}

// StorageConfig contains frame persistence settings
type StorageConfig struct {
	BaseDir string `yaml:"base_dir"` // root for motion/person frame directories
}

// SpeechConfig contains TTS notification settings
type SpeechConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Language    string  `yaml:"language"`
	WorkDir     string  `yaml:"work_dir"` // scratch dir for synthesized audio
	PersonSpeed float64 `yaml:"person_speed"`
	AnimalSpeed float64 `yaml:"animal_speed"`
	MotionSpeed float64 `yaml:"motion_speed"`
}

// EventsConfig contains event emission settings
type EventsConfig struct {
	LogDir string     `yaml:"log_dir"` // per-event log files; empty disables
	MQTT   MQTTConfig `yaml:"mqtt"`
}

// MQTTConfig contains optional MQTT publishing settings
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"` // host:port
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

// ServerConfig contains addresses of the auxiliary HTTP servers
type ServerConfig struct {
	MetricsAddr string `yaml:"metrics_addr"` // empty disables
	StatusAddr  string `yaml:"status_addr"`  // empty disables
}

// Default returns the configuration matching the stock vigia setup.
func Default() *Config {
	return &Config{
		Source: SourceConfig{Device: 0},
		Detector: DetectorConfig{
			WeightsPath:   "models/yolov4-tiny.weights",
			ConfigPath:    "models/yolov4-tiny.cfg",
			NamesPath:     "models/coco.names",
			InputSize:     416,
			Confidence:    0.5,
			FrameSkip:     5,
			AllowedLabels: []string{"person", "cat", "dog"},
		},
		Motion: MotionConfig{
			History:       500,
			VarThreshold:  10,
			AreaThreshold: 500,
			SuppressS:     20,
		},
		Alerts: AlertsConfig{
			PersonAlertS: 3,
			AnimalAlertS: 3,
			MotionAlertS: 10,
			PersonSaveS:  0.2,
			MotionSaveS:  0.2,
		},
		Storage: StorageConfig{BaseDir: "."},
		Speech: SpeechConfig{
			Enabled:     true,
			Language:    "pt-br",
			WorkDir:     os.TempDir(),
			PersonSpeed: 1.71,
			AnimalSpeed: 1.71,
			MotionSpeed: 1.61,
		},
		Events: EventsConfig{
			LogDir: "logs",
			MQTT: MQTTConfig{
				ClientID: "vigia",
				Topic:    "vigia/events",
			},
		},
		Server: ServerConfig{
			MetricsAddr: ":9090",
			StatusAddr:  ":8080",
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Detector.FrameSkip < 1 {
		return fmt.Errorf("detector.frame_skip must be >= 1, got %d", c.Detector.FrameSkip)
	}
	if c.Detector.InputSize <= 0 {
		return fmt.Errorf("detector.input_size must be positive, got %d", c.Detector.InputSize)
	}
	if c.Detector.Confidence < 0 || c.Detector.Confidence > 1 {
		return fmt.Errorf("detector.confidence must be in [0,1], got %g", c.Detector.Confidence)
	}
	if len(c.Detector.AllowedLabels) == 0 {
		return fmt.Errorf("detector.allowed_labels must not be empty")
	}
	if c.Motion.AreaThreshold <= 0 {
		return fmt.Errorf("motion.area_threshold must be positive, got %g", c.Motion.AreaThreshold)
	}
	if c.Motion.SuppressS < 0 {
		return fmt.Errorf("motion.suppress_s must not be negative, got %g", c.Motion.SuppressS)
	}
	for name, v := range map[string]float64{
		"alerts.person_alert_s": c.Alerts.PersonAlertS,
		"alerts.animal_alert_s": c.Alerts.AnimalAlertS,
		"alerts.motion_alert_s": c.Alerts.MotionAlertS,
		"alerts.person_save_s":  c.Alerts.PersonSaveS,
		"alerts.motion_save_s":  c.Alerts.MotionSaveS,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %g", name, v)
		}
	}
	if c.Events.MQTT.Enabled && c.Events.MQTT.Broker == "" {
		return fmt.Errorf("events.mqtt.broker is required when MQTT is enabled")
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// SuppressWindow returns the motion suppression window as a duration.
func (c *MotionConfig) SuppressWindow() time.Duration { return seconds(c.SuppressS) }

// PersonAlertCooldown returns the person alert cooldown as a duration.
func (c *AlertsConfig) PersonAlertCooldown() time.Duration { return seconds(c.PersonAlertS) }

// AnimalAlertCooldown returns the animal alert cooldown as a duration.
func (c *AlertsConfig) AnimalAlertCooldown() time.Duration { return seconds(c.AnimalAlertS) }

// MotionAlertCooldown returns the motion alert cooldown as a duration.
func (c *AlertsConfig) MotionAlertCooldown() time.Duration { return seconds(c.MotionAlertS) }

// PersonSaveCooldown returns the person save cooldown as a duration.
func (c *AlertsConfig) PersonSaveCooldown() time.Duration { return seconds(c.PersonSaveS) }

// MotionSaveCooldown returns the motion save cooldown as a duration.
func (c *AlertsConfig) MotionSaveCooldown() time.Duration { return seconds(c.MotionSaveS) }
