// Package palette holds the fixed set of colors the detector can track.
package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ayusman/huedetect/internal/hsv"
)

// ErrUnknownColor is returned when a color name is not in the palette.
var ErrUnknownColor = errors.New("unknown color")

// Name identifies one of the palette colors.
type Name int

const (
	// Red sits on the hue wraparound point and is detected with two ranges.
	Red Name = iota
	// Blue is sampled with a small green component for steadier detection.
	Blue
	// Green is pure green.
	Green
)

// Entry pairs a color name with its BGR sample.
type Entry struct {
	Name   Name
	Sample hsv.Sample
}

// entries is the single read-only palette table, ordered as presented to users.
var entries = [...]Entry{
	{Name: Red, Sample: hsv.Sample{B: 0, G: 0, R: 200}},
	{Name: Blue, Sample: hsv.Sample{B: 180, G: 60, R: 0}},
	{Name: Green, Sample: hsv.Sample{B: 0, G: 180, R: 0}},
}

var names = map[Name]string{
	Red:   "Red",
	Blue:  "Blue",
	Green: "Green",
}

// All returns the palette entries in presentation order.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries[:])
	return out
}

// Default is the color preselected by interactive selectors.
func Default() Name {
	return Red
}

// String returns the display name of the color.
func (n Name) String() string {
	if s, ok := names[n]; ok {
		return s
	}
	return fmt.Sprintf("Name(%d)", int(n))
}

// Valid reports whether n is a palette color.
func (n Name) Valid() bool {
	_, ok := names[n]
	return ok
}

// Sample returns the BGR sample for the color.
func (n Name) Sample() (hsv.Sample, error) {
	for _, e := range entries {
		if e.Name == n {
			return e.Sample, nil
		}
	}
	return hsv.Sample{}, fmt.Errorf("%w: %s", ErrUnknownColor, n)
}

// Hex renders the color's sample as "#rrggbb".
func (n Name) Hex() string {
	s, err := n.Sample()
	if err != nil {
		return ""
	}
	c := colorful.Color{
		R: float64(s.R) / 255.0,
		G: float64(s.G) / 255.0,
		B: float64(s.B) / 255.0,
	}
	return c.Hex()
}

// MarshalText implements encoding.TextMarshaler.
func (n Name) MarshalText() ([]byte, error) {
	if !n.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownColor, int(n))
	}
	return []byte(strings.ToLower(n.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Name) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Parse resolves a case-insensitive color name.
func Parse(s string) (Name, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for n, name := range names {
		if strings.ToLower(name) == key {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}

// Lookup finds the palette color whose sample equals s.
func Lookup(s hsv.Sample) (Name, bool) {
	for _, e := range entries {
		if e.Sample == s {
			return e.Name, true
		}
	}
	return 0, false
}
