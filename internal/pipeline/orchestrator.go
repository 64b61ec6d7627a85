package pipeline

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/SaganGromov/webcam-yolo-vigia/internal/events"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/logger"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/metrics"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/speech"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/store"
	"github.com/SaganGromov/webcam-yolo-vigia/internal/vision"
)

// MotionSensor reports significant motion for a frame. It is stateful
// internally (rolling background model) but opaque to the orchestrator.
type MotionSensor interface {
	Detect(frame gocv.Mat) bool
}

// Store persists a frame under a category. Implementations run the
// actual write in the background; the return value reports whether the
// frame was accepted for writing.
type Store interface {
	Save(frame gocv.Mat, category string, ts time.Time) bool
}

// Notifier speaks an alert in the background. The return value reports
// whether the alert was accepted for playback.
type Notifier interface {
	Speak(text string, speed float64) bool
}

// Options configures the per-frame pipeline.
type Options struct {
	FrameSkip        int      // run the detector every Nth frame
	AllowedLabels    []string // detector labels kept in the cache
	SuppressWindow   time.Duration
	SuppressOnAnimal bool // treat cat/dog like a person for motion suppression

	PersonAlertCooldown time.Duration
	AnimalAlertCooldown time.Duration
	MotionAlertCooldown time.Duration
	PersonSaveCooldown  time.Duration
	MotionSaveCooldown  time.Duration

	PersonAlertSpeed float64
	AnimalAlertSpeed float64
	MotionAlertSpeed float64
}

// Deps are the orchestrator's collaborators. Detector and Metrics are
// required; the rest may be nil, in which case the corresponding side
// effect is skipped.
type Deps struct {
	Detector vision.Detector
	Motion   MotionSensor
	Store    Store
	Notifier Notifier
	Emitter  events.Emitter
	Metrics  *metrics.Metrics

	// Annotate overrides the box renderer; defaults to vision.Annotate.
	Annotate func(frame *gocv.Mat, batch []vision.Detection)
}

// Result summarizes what happened to one frame.
type Result struct {
	DetectorRan   bool
	Detections    []vision.Detection
	PersonPresent bool
	Motion        bool
}

// Orchestrator drives the per-frame pipeline: detector cadence,
// detection cache, motion gate, throttled saves and alerts, frame
// annotation. It must be called from a single goroutine.
type Orchestrator struct {
	opts     Options
	deps     Deps
	cache    *Cache
	gate     *Gate
	throttle *Throttle

	frameCount uint64
}

// New creates an orchestrator. A FrameSkip below 1 is treated as 1
// (detector on every frame).
func New(opts Options, deps Deps) *Orchestrator {
	if opts.FrameSkip < 1 {
		opts.FrameSkip = 1
	}
	if deps.Annotate == nil {
		deps.Annotate = vision.Annotate
	}

	return &Orchestrator{
		opts:     opts,
		deps:     deps,
		cache:    NewCache(),
		gate:     NewGate(opts.SuppressWindow),
		throttle: NewThrottle(),
	}
}

// Process consumes one frame, draws the cached detections onto it and
// triggers any due side effects. Side-effect failures are logged and
// counted, never propagated: one bad frame must not halt the stream.
func (o *Orchestrator) Process(frame *gocv.Mat, now time.Time) Result {
	var res Result

	// 1. Detector cadence: frame-indexed, independent of wall clock.
	if o.frameCount%uint64(o.opts.FrameSkip) == 0 {
		res.DetectorRan = true
		o.deps.Metrics.DetectorRuns.Add(1)

		batch, err := o.deps.Detector.Detect(*frame)
		if err != nil {
			// Stale-but-available: the previous cache survives.
			o.deps.Metrics.DetectorErrors.Add(1)
			logger.Error("Pipeline", "detector failed, keeping previous detections: %v", err)
		} else {
			o.cache.Replace(vision.FilterLabels(batch, o.opts.AllowedLabels))
			o.deps.Metrics.CachedBoxes.Store(uint64(len(o.cache.Detections())))
		}
	}
	res.Detections = o.cache.Detections()

	// 2. Presence check drives the motion gate.
	res.PersonPresent = o.cache.ContainsLabel(vision.LabelPerson)
	if res.PersonPresent {
		o.gate.Suppress(now)
	} else if o.opts.SuppressOnAnimal &&
		(o.cache.ContainsLabel(vision.LabelCat) || o.cache.ContainsLabel(vision.LabelDog)) {
		o.gate.Suppress(now)
	}

	// 3. Motion sensing on the un-annotated frame, skipped entirely
	// while the gate is suppressed.
	gateOpen := o.gate.Enabled(now)
	if gateOpen && o.deps.Motion != nil && o.deps.Motion.Detect(*frame) {
		res.Motion = true
		o.deps.Metrics.MotionEvents.Add(1)

		if o.throttle.Allow(CategoryMotionSave, now, o.opts.MotionSaveCooldown) {
			o.dispatchSave(*frame, store.CategoryMotion, now)
		}
		if o.throttle.Allow(CategoryMotionAlert, now, o.opts.MotionAlertCooldown) {
			o.deps.Metrics.MotionAlerts.Add(1)
			o.dispatchAlert(speech.MotionMessage(now), o.opts.MotionAlertSpeed)
			o.emit(events.Event{Type: events.TypeMotion, Time: now})
		}
	}
	if gateOpen {
		o.deps.Metrics.MotionGateEnabled.Store(1)
	} else {
		o.deps.Metrics.MotionGateEnabled.Store(0)
	}

	// 4. Draw the cached detections so skipped frames render the same
	// boxes as the last detector frame.
	o.deps.Annotate(frame, res.Detections)

	// 5. Detection alert: at most one category per frame, person wins
	// over animal, first match in batch order.
	if alert, ok := o.pickAlert(); ok {
		switch {
		case alert.Label == vision.LabelPerson:
			if o.throttle.Allow(CategoryPersonAlert, now, o.opts.PersonAlertCooldown) {
				o.deps.Metrics.PersonAlerts.Add(1)
				o.dispatchAlert(speech.PersonMessage(now), o.opts.PersonAlertSpeed)
				o.emit(events.Event{Type: events.TypePerson, Label: alert.Label, Confidence: alert.Confidence, Time: now})
			}
		case alert.IsAnimal():
			if o.throttle.Allow(CategoryAnimalAlert, now, o.opts.AnimalAlertCooldown) {
				o.deps.Metrics.AnimalAlerts.Add(1)
				o.dispatchAlert(speech.AnimalMessage(now), o.opts.AnimalAlertSpeed)
				o.emit(events.Event{Type: events.TypeAnimal, Label: alert.Label, Confidence: alert.Confidence, Time: now})
			}
		}
	}

	// 6. Persist the annotated frame while anything is in the cache.
	if !o.cache.IsEmpty() && o.throttle.Allow(CategoryPersonSave, now, o.opts.PersonSaveCooldown) {
		o.dispatchSave(*frame, store.CategoryPerson, now)
	}

	o.frameCount++
	o.deps.Metrics.FramesProcessed.Add(1)

	return res
}

// pickAlert returns the first person in the cached batch, or failing
// that the first animal.
func (o *Orchestrator) pickAlert() (vision.Detection, bool) {
	var animal vision.Detection
	var haveAnimal bool

	for _, d := range o.cache.Detections() {
		if d.Label == vision.LabelPerson {
			return d, true
		}
		if !haveAnimal && d.IsAnimal() {
			animal = d
			haveAnimal = true
		}
	}
	return animal, haveAnimal
}

func (o *Orchestrator) dispatchSave(frame gocv.Mat, category string, now time.Time) {
	if o.deps.Store == nil {
		return
	}
	if !o.deps.Store.Save(frame, category, now) {
		o.deps.Metrics.SavesDropped.Add(1)
		return
	}
	switch category {
	case store.CategoryMotion:
		o.deps.Metrics.MotionSaves.Add(1)
	case store.CategoryPerson:
		o.deps.Metrics.PersonSaves.Add(1)
	}
}

func (o *Orchestrator) dispatchAlert(text string, speed float64) {
	if o.deps.Notifier == nil {
		return
	}
	if !o.deps.Notifier.Speak(text, speed) {
		o.deps.Metrics.AlertsDropped.Add(1)
	}
}

func (o *Orchestrator) emit(evt events.Event) {
	if o.deps.Emitter == nil {
		return
	}
	if err := o.deps.Emitter.Emit(evt); err != nil {
		o.deps.Metrics.EventErrors.Add(1)
		logger.Error("Pipeline", "event emission failed: %v", err)
	} else {
		o.deps.Metrics.EventsEmitted.Add(1)
	}
}

// FrameCount returns the number of frames processed so far.
func (o *Orchestrator) FrameCount() uint64 {
	return o.frameCount
}
