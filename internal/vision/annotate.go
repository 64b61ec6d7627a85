package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var boxColor = color.RGBA{G: 255}

// Annotate draws the detections onto the frame: a rectangle per box and
// a "label confidence" caption just above it.
func Annotate(frame *gocv.Mat, batch []Detection) {
	for _, d := range batch {
		gocv.Rectangle(frame, d.Box, boxColor, 2)

		text := fmt.Sprintf("%s %.2f", d.Label, d.Confidence)
		gocv.PutText(frame, text,
			image.Pt(d.Box.Min.X, d.Box.Min.Y-10),
			gocv.FontHersheySimplex, 0.5, boxColor, 2)
	}
}
