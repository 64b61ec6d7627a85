package speech

import (
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		ts   time.Time
		want string
	}{
		{time.Date(2025, 6, 1, 14, 35, 7, 0, time.UTC), "14 horas, 35 minutos e 07 segundos"},
		{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "00 horas, 00 minutos e 00 segundos"},
		{time.Date(2025, 6, 1, 9, 5, 59, 0, time.UTC), "09 horas, 05 minutos e 59 segundos"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.ts); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.ts, got, tt.want)
		}
	}
}

func TestMessages(t *testing.T) {
	ts := time.Date(2025, 6, 1, 14, 35, 7, 0, time.UTC)

	if got, want := PersonMessage(ts), "Pessoa detectada às 14 horas, 35 minutos e 07 segundos."; got != want {
		t.Errorf("PersonMessage = %q, want %q", got, want)
	}
	if got, want := AnimalMessage(ts), "Animal detectado às 14 horas, 35 minutos e 07 segundos."; got != want {
		t.Errorf("AnimalMessage = %q, want %q", got, want)
	}
	if got, want := MotionMessage(ts), "Movimento detectado às 14 horas, 35 minutos e 07 segundos."; got != want {
		t.Errorf("MotionMessage = %q, want %q", got, want)
	}
}
