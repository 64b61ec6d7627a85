package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}

	if cfg.Detector.FrameSkip != 5 {
		t.Errorf("expected frame_skip 5, got %d", cfg.Detector.FrameSkip)
	}
	if got := cfg.Motion.SuppressWindow(); got != 20*time.Second {
		t.Errorf("expected 20s suppression window, got %v", got)
	}
	if got := cfg.Alerts.PersonSaveCooldown(); got != 200*time.Millisecond {
		t.Errorf("expected 200ms person save cooldown, got %v", got)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigia.yaml")
	data := []byte(`
source:
  file: footage.mp4
detector:
  frame_skip: 3
  allowed_labels: [person]
motion:
  suppress_s: 10
  suppress_on_animal: true
alerts:
  motion_alert_s: 15
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Source.File != "footage.mp4" {
		t.Errorf("expected file source override, got %q", cfg.Source.File)
	}
	if cfg.Detector.FrameSkip != 3 {
		t.Errorf("expected frame_skip 3, got %d", cfg.Detector.FrameSkip)
	}
	if len(cfg.Detector.AllowedLabels) != 1 || cfg.Detector.AllowedLabels[0] != "person" {
		t.Errorf("expected allowed_labels [person], got %v", cfg.Detector.AllowedLabels)
	}
	if !cfg.Motion.SuppressOnAnimal {
		t.Error("expected suppress_on_animal true")
	}
	if got := cfg.Motion.SuppressWindow(); got != 10*time.Second {
		t.Errorf("expected 10s suppression window, got %v", got)
	}
	if got := cfg.Alerts.MotionAlertCooldown(); got != 15*time.Second {
		t.Errorf("expected 15s motion alert cooldown, got %v", got)
	}

	// Untouched sections keep their defaults
	if cfg.Motion.History != 500 {
		t.Errorf("expected default history 500, got %d", cfg.Motion.History)
	}
	if cfg.Speech.Language != "pt-br" {
		t.Errorf("expected default language pt-br, got %q", cfg.Speech.Language)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero frame skip", func(c *Config) { c.Detector.FrameSkip = 0 }},
		{"negative confidence", func(c *Config) { c.Detector.Confidence = -0.1 }},
		{"no allowed labels", func(c *Config) { c.Detector.AllowedLabels = nil }},
		{"zero area threshold", func(c *Config) { c.Motion.AreaThreshold = 0 }},
		{"negative suppression", func(c *Config) { c.Motion.SuppressS = -1 }},
		{"negative cooldown", func(c *Config) { c.Alerts.MotionSaveS = -0.5 }},
		{"mqtt without broker", func(c *Config) { c.Events.MQTT.Enabled = true; c.Events.MQTT.Broker = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
