package pipeline

import "time"

// Gate toggles motion sensing on and off. A person detection suppresses
// it for a fixed window; while suppressed, motion sensing is skipped
// entirely rather than merely ignored.
type Gate struct {
	window        time.Duration
	enabled       bool
	disabledUntil time.Time
}

// NewGate creates an enabled gate with the given suppression window.
func NewGate(window time.Duration) *Gate {
	return &Gate{window: window, enabled: true}
}

// Suppress disables the gate until now+window. Suppressing an already
// disabled gate resets the deadline; windows never stack.
func (g *Gate) Suppress(now time.Time) {
	g.enabled = false
	g.disabledUntil = now.Add(g.window)
}

// Enabled reports whether motion sensing may run. While disabled it
// re-enables the gate once the deadline has passed; there is no early
// re-enable.
func (g *Gate) Enabled(now time.Time) bool {
	if !g.enabled && !now.Before(g.disabledUntil) {
		g.enabled = true
	}
	return g.enabled
}

// DisabledUntil returns the current suppression deadline. Meaningful
// only while the gate is disabled.
func (g *Gate) DisabledUntil() time.Time {
	return g.disabledUntil
}
