package vision

import (
	"fmt"
	"image"
	"os"
	"strings"

	"gocv.io/x/gocv"
)

// NetDetector runs object detection through an OpenCV DNN network
// (Darknet-style YOLO weights). Stateless per call apart from the
// loaded network.
type NetDetector struct {
	net        gocv.Net
	classNames []string
	inputSize  int
	confidence float64
}

// NewNetDetector loads the network and class names from disk.
func NewNetDetector(weightsPath, configPath, namesPath string, inputSize int, confidence float64) (*NetDetector, error) {
	net := gocv.ReadNet(weightsPath, configPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %s and %s", weightsPath, configPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	namesData, err := os.ReadFile(namesPath)
	if err != nil {
		net.Close()
		return nil, fmt.Errorf("could not read class names: %w", err)
	}

	var classNames []string
	for _, line := range strings.Split(string(namesData), "\n") {
		classNames = append(classNames, strings.TrimSpace(line))
	}

	return &NetDetector{
		net:        net,
		classNames: classNames,
		inputSize:  inputSize,
		confidence: confidence,
	}, nil
}

// Detect performs object detection on a frame.
func (d *NetDetector) Detect(frame gocv.Mat) ([]Detection, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	blob := gocv.BlobFromImage(frame, 1.0/255.0,
		image.Pt(d.inputSize, d.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	frameW := float32(frame.Cols())
	frameH := float32(frame.Rows())

	var batch []Detection

	// Each row is [cx cy w h objectness score...] in normalized coordinates.
	for i := 0; i < output.Rows(); i++ {
		row := output.RowRange(i, i+1)
		data := row.Clone()
		scores := data.ColRange(5, data.Cols())
		_, maxVal, _, maxLoc := gocv.MinMaxLoc(scores)
		classID := maxLoc.X

		if float64(maxVal) >= d.confidence && classID < len(d.classNames) {
			cx := data.GetFloatAt(0, 0) * frameW
			cy := data.GetFloatAt(0, 1) * frameH
			w := data.GetFloatAt(0, 2) * frameW
			h := data.GetFloatAt(0, 3) * frameH

			left := int(cx - w/2)
			top := int(cy - h/2)
			box := image.Rect(left, top, left+int(w), top+int(h))

			batch = append(batch, Detection{
				Label:      d.classNames[classID],
				Confidence: float64(maxVal),
				Box:        box,
			})
		}

		scores.Close()
		data.Close()
		row.Close()
	}

	return batch, nil
}

// Close releases the network.
func (d *NetDetector) Close() error {
	return d.net.Close()
}
