// Package detector finds the region of a frame that matches a target color.
package detector

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ayusman/huedetect/internal/hsv"
	"github.com/ayusman/huedetect/internal/palette"
)

// Frame validation errors.
var (
	ErrEmptyFrame       = errors.New("frame is empty")
	ErrUnsupportedFrame = errors.New("frame must be 8-bit, 3-channel BGR")
	ErrNoRanges         = errors.New("target has no hsv ranges")
)

// Detector defines the interface for color detection implementations.
type Detector interface {
	// Detect returns the bounding box of the pixels matching the target,
	// or nil when no pixel matches.
	Detect(frame *gocv.Mat, t Target) (*Box, error)
}

// Target is the color a session tracks: the palette name, its sample and
// the HSV ranges whose union defines a match.
type Target struct {
	Name   palette.Name `json:"name"`
	Sample hsv.Sample   `json:"sample"`
	Ranges []hsv.Bounds `json:"ranges"`
}

// NewTarget builds the target for a palette color.
//
// Red always uses the fixed dual range on both sides of the hue wraparound,
// whatever the range calculator derives for its sample. Every other color
// uses the calculator's single range.
func NewTarget(name palette.Name) (Target, error) {
	sample, err := name.Sample()
	if err != nil {
		return Target{}, err
	}

	if name == palette.Red {
		if err := sample.Validate(); err != nil {
			return Target{}, err
		}
		return Target{Name: name, Sample: sample, Ranges: hsv.RedRanges()}, nil
	}

	bounds, err := hsv.ComputeBounds(sample)
	if err != nil {
		return Target{}, fmt.Errorf("compute bounds for %s: %w", name, err)
	}
	return Target{Name: name, Sample: sample, Ranges: []hsv.Bounds{bounds}}, nil
}

// Matches reports whether an HSV triplet falls in any of the target ranges.
func (t Target) Matches(p hsv.Triplet) bool {
	for _, r := range t.Ranges {
		if r.Contains(p) {
			return true
		}
	}
	return false
}

// MatchingColors returns the palette colors whose detection ranges contain p,
// in palette order.
func MatchingColors(p hsv.Triplet) ([]palette.Name, error) {
	var names []palette.Name
	for _, e := range palette.All() {
		t, err := NewTarget(e.Name)
		if err != nil {
			return nil, err
		}
		if t.Matches(p) {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// checkFrame validates that a frame can be converted to HSV.
func checkFrame(frame *gocv.Mat) error {
	if frame == nil || frame.Empty() {
		return ErrEmptyFrame
	}
	if frame.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("%w: got %d channels", ErrUnsupportedFrame, frame.Channels())
	}
	return nil
}
