package pipeline

import "time"

// Throttle categories used by the pipeline.
const (
	CategoryPersonAlert = "person-alert"
	CategoryAnimalAlert = "animal-alert"
	CategoryMotionAlert = "motion-alert"
	CategoryPersonSave  = "person-save"
	CategoryMotionSave  = "motion-save"
)

// Throttle is a per-category cooldown gate. Each category keeps its own
// last-fired timestamp, so a long motion-alert cooldown never blocks a
// person-alert in the same frame.
//
// Written only by the frame loop, before any background dispatch, so it
// needs no locking.
type Throttle struct {
	lastFired map[string]time.Time
}

// NewThrottle creates an empty throttle. The first Allow call for any
// category always fires.
func NewThrottle() *Throttle {
	return &Throttle{lastFired: make(map[string]time.Time)}
}

// Allow reports whether the category may fire now. On true it records
// now as the category's last-fired time; on false nothing changes.
func (t *Throttle) Allow(category string, now time.Time, cooldown time.Duration) bool {
	if last, ok := t.lastFired[category]; ok && now.Sub(last) < cooldown {
		return false
	}
	t.lastFired[category] = now
	return true
}

// LastFired returns the last time the category fired, or the zero time
// if it never has.
func (t *Throttle) LastFired(category string) time.Time {
	return t.lastFired[category]
}
