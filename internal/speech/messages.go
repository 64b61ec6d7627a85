package speech

import (
	"fmt"
	"time"
)

// FormatClock renders a timestamp as spoken Portuguese clock time.
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%02d horas, %02d minutos e %02d segundos",
		t.Hour(), t.Minute(), t.Second())
}

// PersonMessage is the spoken alert for a person detection.
func PersonMessage(t time.Time) string {
	return fmt.Sprintf("Pessoa detectada às %s.", FormatClock(t))
}

// AnimalMessage is the spoken alert for a cat/dog detection.
func AnimalMessage(t time.Time) string {
	return fmt.Sprintf("Animal detectado às %s.", FormatClock(t))
}

// MotionMessage is the spoken alert for significant motion.
func MotionMessage(t time.Time) string {
	return fmt.Sprintf("Movimento detectado às %s.", FormatClock(t))
}
