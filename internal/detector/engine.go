package detector

import (
	"gocv.io/x/gocv"
)

// Engine builds membership masks and bounding boxes with whole-frame OpenCV
// operations. It holds no state, so one Engine may serve any number of frames.
type Engine struct{}

// NewEngine creates a new Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Mask converts the frame to HSV once and returns a CV_8U mask that is 255
// where the pixel lies in any of the target ranges and 0 elsewhere.
// The caller is responsible for closing the returned Mat. The frame is not modified.
func (e *Engine) Mask(frame *gocv.Mat, t Target) (gocv.Mat, error) {
	if err := checkFrame(frame); err != nil {
		return gocv.Mat{}, err
	}
	if len(t.Ranges) == 0 {
		return gocv.Mat{}, ErrNoRanges
	}

	hsvFrame := gocv.NewMat()
	defer hsvFrame.Close()
	gocv.CvtColor(*frame, &hsvFrame, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	lower, upper := t.Ranges[0].Scalars()
	gocv.InRangeWithScalar(hsvFrame, lower, upper, &mask)

	if len(t.Ranges) > 1 {
		part := gocv.NewMat()
		defer part.Close()

		for _, r := range t.Ranges[1:] {
			lower, upper := r.Scalars()
			gocv.InRangeWithScalar(hsvFrame, lower, upper, &part)
			gocv.BitwiseOr(mask, part, &mask)
		}
	}

	return mask, nil
}

// Detect returns the bounding box of the target color in the frame,
// or nil if no pixel matches.
func (e *Engine) Detect(frame *gocv.Mat, t Target) (*Box, error) {
	mask, err := e.Mask(frame, t)
	if err != nil {
		return nil, err
	}
	defer mask.Close()

	return BoxOf(mask), nil
}
