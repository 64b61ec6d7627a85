package events

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Event types emitted by the pipeline.
const (
	TypePerson = "person"
	TypeAnimal = "animal"
	TypeMotion = "motion"
)

// Event is one detection or motion occurrence.
type Event struct {
	Type       string    `json:"type"`
	Label      string    `json:"label,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Time       time.Time `json:"time"`
}

// Emitter publishes pipeline events. Emission failures are never fatal:
// callers log them and move on.
type Emitter interface {
	Emit(Event) error
	Close() error
}

// FileEmitter writes one small JSON log file per event, split into
// motion_logs/ and person_logs/ subdirectories.
type FileEmitter struct {
	motionDir string
	personDir string
}

// NewFileEmitter creates the log directories under baseDir.
func NewFileEmitter(baseDir string) (*FileEmitter, error) {
	e := &FileEmitter{
		motionDir: filepath.Join(baseDir, "motion_logs"),
		personDir: filepath.Join(baseDir, "person_logs"),
	}
	for _, dir := range []string{e.motionDir, e.personDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	return e, nil
}

func marshalEvent(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

// Emit writes the event to <dir>/<type>_<timestamp>.log as JSON.
func (e *FileEmitter) Emit(evt Event) error {
	dir := e.personDir
	if evt.Type == TypeMotion {
		dir = e.motionDir
	}

	data, err := marshalEvent(evt)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%s_%s.log", evt.Type, evt.Time.Format("20060102_150405.000"))
	if err := os.WriteFile(filepath.Join(dir, name), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write event log: %w", err)
	}
	return nil
}

// Close is a no-op for the file emitter.
func (e *FileEmitter) Close() error { return nil }

// MultiEmitter fans an event out to several emitters, returning the
// first error while still trying the rest.
type MultiEmitter []Emitter

// Emit publishes to every emitter.
func (m MultiEmitter) Emit(evt Event) error {
	var firstErr error
	for _, e := range m {
		if err := e.Emit(evt); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes every emitter.
func (m MultiEmitter) Close() error {
	var firstErr error
	for _, e := range m {
		if err := e.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
