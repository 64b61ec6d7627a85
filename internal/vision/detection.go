package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Labels the pipeline cares about. The detector itself knows the full
// model vocabulary; everything else is filtered out before caching.
const (
	LabelPerson = "person"
	LabelCat    = "cat"
	LabelDog    = "dog"
)

// Detection is a single object reported by the detector. Immutable once
// produced; the pipeline's cache owns it until the next detector run.
type Detection struct {
	Label      string
	Confidence float64
	Box        image.Rectangle
}

func (d Detection) String() string {
	return fmt.Sprintf("%s %.2f @ %v", d.Label, d.Confidence, d.Box)
}

// IsAnimal reports whether the detection is a pet rather than a person.
func (d Detection) IsAnimal() bool {
	return d.Label == LabelCat || d.Label == LabelDog
}

// Detector produces one batch of detections per invocation.
type Detector interface {
	Detect(frame gocv.Mat) ([]Detection, error)
	Close() error
}

// FilterLabels returns the detections whose label is in allowed, keeping
// the batch's original order.
func FilterLabels(batch []Detection, allowed []string) []Detection {
	if len(batch) == 0 {
		return nil
	}

	keep := make(map[string]bool, len(allowed))
	for _, label := range allowed {
		keep[label] = true
	}

	var out []Detection
	for _, d := range batch {
		if keep[d.Label] {
			out = append(out, d)
		}
	}
	return out
}
