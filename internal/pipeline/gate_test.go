package pipeline

import (
	"testing"
	"time"
)

var gateBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestGateStartsEnabled(t *testing.T) {
	g := NewGate(20 * time.Second)
	if !g.Enabled(gateBase) {
		t.Fatal("new gate should be enabled")
	}
}

func TestGateSuppressionWindow(t *testing.T) {
	// enabled=false for now in [T, T+20), true for now >= T+20
	checks := []struct {
		offset time.Duration
		want   bool
	}{
		{0, false},
		{time.Second, false},
		{19 * time.Second, false},
		{20*time.Second - time.Millisecond, false},
		{20 * time.Second, true},
		{25 * time.Second, true},
	}

	for _, c := range checks {
		g := NewGate(20 * time.Second)
		g.Suppress(gateBase)
		if got := g.Enabled(gateBase.Add(c.offset)); got != c.want {
			t.Errorf("Enabled at T+%v = %v, want %v", c.offset, got, c.want)
		}
	}
}

func TestGateReSuppressResetsNotStacks(t *testing.T) {
	g := NewGate(20 * time.Second)
	g.Suppress(gateBase)

	// A second person detection at T+5 extends the window to T+25.
	second := gateBase.Add(5 * time.Second)
	g.Suppress(second)

	if got := g.DisabledUntil(); !got.Equal(second.Add(20 * time.Second)) {
		t.Errorf("disabled-until = %v, want %v", got, second.Add(20*time.Second))
	}
	if g.Enabled(gateBase.Add(22 * time.Second)) {
		t.Error("gate should still be suppressed at T+22 after reset at T+5")
	}
	if !g.Enabled(gateBase.Add(25 * time.Second)) {
		t.Error("gate should re-enable at T+25")
	}
}

func TestGateNoEarlyReEnable(t *testing.T) {
	g := NewGate(20 * time.Second)
	g.Suppress(gateBase)

	// Polling repeatedly inside the window must not re-enable.
	for off := time.Second; off < 20*time.Second; off += time.Second {
		if g.Enabled(gateBase.Add(off)) {
			t.Fatalf("gate re-enabled early at T+%v", off)
		}
	}
	if !g.Enabled(gateBase.Add(20 * time.Second)) {
		t.Fatal("gate should re-enable at the deadline")
	}
}
