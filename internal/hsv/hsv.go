// Package hsv derives HSV detection ranges from BGR color samples.
//
// Hue uses OpenCV's 8-bit convention: 0-180 rather than 0-360, so red sits at
// both ends of the scale. Saturation and value span 0-255.
package hsv

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Channel limits of the 8-bit HSV representation.
const (
	MaxHue        = 180
	MaxSaturation = 255
	MaxValue      = 255
	MaxChannel    = 255
)

// Range derivation constants.
const (
	// RedHueLow and RedHueHigh bound the hues treated as red-like.
	// Hues strictly below RedHueLow or strictly above RedHueHigh take the fixed red range.
	RedHueLow  = 10
	RedHueHigh = 170
	// HueWindow is the half-width of the generic hue window.
	HueWindow = 15
	// MinSaturation and MinValue reject washed-out and dark pixels.
	MinSaturation = 50
	MinValue      = 50
)

// ErrInvalidColorSample is returned when a sample channel is outside 0-255.
var ErrInvalidColorSample = errors.New("invalid color sample")

// Sample is a color in device-native BGR channel order.
type Sample struct {
	B int `json:"b"`
	G int `json:"g"`
	R int `json:"r"`
}

// Validate checks that every channel lies in 0-255.
func (s Sample) Validate() error {
	channels := []struct {
		name string
		v    int
	}{
		{"blue", s.B},
		{"green", s.G},
		{"red", s.R},
	}
	for _, c := range channels {
		if c.v < 0 || c.v > MaxChannel {
			return fmt.Errorf("%w: %s channel %d outside [0, %d]", ErrInvalidColorSample, c.name, c.v, MaxChannel)
		}
	}
	return nil
}

// Scalar returns the sample as a BGR gocv.Scalar.
func (s Sample) Scalar() gocv.Scalar {
	return gocv.NewScalar(float64(s.B), float64(s.G), float64(s.R), 0)
}

func (s Sample) String() string {
	return fmt.Sprintf("BGR(%d, %d, %d)", s.B, s.G, s.R)
}

// Triplet is a color in hue/saturation/value representation.
type Triplet struct {
	H int `json:"h"`
	S int `json:"s"`
	V int `json:"v"`
}

func (t Triplet) String() string {
	return fmt.Sprintf("HSV(%d, %d, %d)", t.H, t.S, t.V)
}

// Bounds is a closed HSV interval: a pixel matches when every component
// lies within [Lower, Upper].
type Bounds struct {
	Lower Triplet `json:"lower"`
	Upper Triplet `json:"upper"`
}

// The two halves of the red range on either side of the hue wraparound.
var (
	RedLow = Bounds{
		Lower: Triplet{H: 0, S: MinSaturation, V: MinValue},
		Upper: Triplet{H: RedHueLow, S: MaxSaturation, V: MaxValue},
	}
	RedHigh = Bounds{
		Lower: Triplet{H: RedHueHigh, S: MinSaturation, V: MinValue},
		Upper: Triplet{H: MaxHue, S: MaxSaturation, V: MaxValue},
	}
)

// RedRanges returns the dual red range whose union detects true red.
func RedRanges() []Bounds {
	return []Bounds{RedLow, RedHigh}
}

// IsRedLike reports whether a hue is close enough to the wraparound point
// to take the fixed red range.
func IsRedLike(hue int) bool {
	return hue < RedHueLow || hue > RedHueHigh
}

// BoundsForHue derives the detection range for a hue.
//
// Red-like hues get RedLow only; the second half of the red range is added
// by the detector for the Red target. Other hues get GenericWindow.
func BoundsForHue(hue int) Bounds {
	if IsRedLike(hue) {
		return RedLow
	}
	return GenericWindow(hue)
}

// GenericWindow is the ±HueWindow range around hue with the fixed
// saturation and value floors. The hue ends are not clamped to [0, MaxHue]:
// hues 10-14 yield a negative lower hue and hues 166-170 an upper hue past 180.
// Converted hues never leave [0, MaxHue], so the overhang matches nothing.
func GenericWindow(hue int) Bounds {
	return Bounds{
		Lower: Triplet{H: hue - HueWindow, S: MinSaturation, V: MinValue},
		Upper: Triplet{H: hue + HueWindow, S: MaxSaturation, V: MaxValue},
	}
}

// ToHSV converts a BGR sample with OpenCV's BGR to HSV conversion.
func ToHSV(s Sample) (Triplet, error) {
	if err := s.Validate(); err != nil {
		return Triplet{}, err
	}

	src := gocv.NewMatWithSizeFromScalar(s.Scalar(), 1, 1, gocv.MatTypeCV8UC3)
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToHSV)

	if dst.Empty() || dst.Channels() != 3 {
		return Triplet{}, fmt.Errorf("convert %s to hsv: empty result", s)
	}

	px := dst.GetVecbAt(0, 0)
	return Triplet{H: int(px[0]), S: int(px[1]), V: int(px[2])}, nil
}

// ComputeBounds validates a sample, converts it to HSV and derives its range.
func ComputeBounds(s Sample) (Bounds, error) {
	t, err := ToHSV(s)
	if err != nil {
		return Bounds{}, err
	}
	return BoundsForHue(t.H), nil
}

// Contains reports whether t lies in the closed interval.
func (b Bounds) Contains(t Triplet) bool {
	return t.H >= b.Lower.H && t.H <= b.Upper.H &&
		t.S >= b.Lower.S && t.S <= b.Upper.S &&
		t.V >= b.Lower.V && t.V <= b.Upper.V
}

// Clamped returns the bounds limited to the valid channel ranges. Only used
// for presentation; matching always uses the raw bounds.
func (b Bounds) Clamped() Bounds {
	return Bounds{
		Lower: clampTriplet(b.Lower),
		Upper: clampTriplet(b.Upper),
	}
}

// Scalars returns the bounds as gocv scalars for InRangeWithScalar.
func (b Bounds) Scalars() (lower, upper gocv.Scalar) {
	lower = gocv.NewScalar(float64(b.Lower.H), float64(b.Lower.S), float64(b.Lower.V), 0)
	upper = gocv.NewScalar(float64(b.Upper.H), float64(b.Upper.S), float64(b.Upper.V), 0)
	return lower, upper
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d,%d]-[%d,%d,%d]",
		b.Lower.H, b.Lower.S, b.Lower.V, b.Upper.H, b.Upper.S, b.Upper.V)
}

func clampTriplet(t Triplet) Triplet {
	return Triplet{
		H: clamp(t.H, MaxHue),
		S: clamp(t.S, MaxSaturation),
		V: clamp(t.V, MaxValue),
	}
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
