package vision

import (
	"gocv.io/x/gocv"
)

// MotionSensor detects significant motion with MOG2 background
// subtraction. It keeps a rolling background model internally, so it
// must only be fed frames in stream order.
type MotionSensor struct {
	subtractor    gocv.BackgroundSubtractorMOG2
	mask          gocv.Mat
	thresh        gocv.Mat
	areaThreshold float64
}

// NewMotionSensor creates a motion sensor. A contour with area above
// areaThreshold (in px^2) counts as significant motion.
func NewMotionSensor(history int, varThreshold, areaThreshold float64) *MotionSensor {
	return &MotionSensor{
		subtractor:    gocv.NewBackgroundSubtractorMOG2WithParams(history, varThreshold, false),
		mask:          gocv.NewMat(),
		thresh:        gocv.NewMat(),
		areaThreshold: areaThreshold,
	}
}

// Detect feeds the frame into the background model and reports whether
// any contour in the foreground mask is larger than the area threshold.
func (m *MotionSensor) Detect(frame gocv.Mat) bool {
	m.subtractor.Apply(frame, &m.mask)
	gocv.Threshold(m.mask, &m.thresh, 127, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(m.thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	for i := 0; i < contours.Size(); i++ {
		if gocv.ContourArea(contours.At(i)) > m.areaThreshold {
			return true
		}
	}
	return false
}

// Close releases the background model and scratch mats.
func (m *MotionSensor) Close() error {
	m.mask.Close()
	m.thresh.Close()
	return m.subtractor.Close()
}
