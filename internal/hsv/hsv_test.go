package hsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsForHue_GenericWindow(t *testing.T) {
	for h := RedHueLow; h <= RedHueHigh; h++ {
		got := BoundsForHue(h)
		want := Bounds{
			Lower: Triplet{H: h - 15, S: 50, V: 50},
			Upper: Triplet{H: h + 15, S: 255, V: 255},
		}
		require.Equal(t, want, got, "hue %d", h)
	}
}

func TestBoundsForHue_RedLike(t *testing.T) {
	want := Bounds{
		Lower: Triplet{H: 0, S: 50, V: 50},
		Upper: Triplet{H: 10, S: 255, V: 255},
	}

	for h := 0; h < RedHueLow; h++ {
		assert.Equal(t, want, BoundsForHue(h), "hue %d", h)
	}
	for h := RedHueHigh + 1; h <= MaxHue; h++ {
		assert.Equal(t, want, BoundsForHue(h), "hue %d", h)
	}
}

func TestGenericWindow_IsNotClamped(t *testing.T) {
	low := GenericWindow(12)
	assert.Equal(t, -3, low.Lower.H)

	high := GenericWindow(170)
	assert.Equal(t, 185, high.Upper.H)

	clamped := high.Clamped()
	assert.Equal(t, MaxHue, clamped.Upper.H)
	assert.Equal(t, 0, low.Clamped().Lower.H)
}

func TestIsRedLike_Thresholds(t *testing.T) {
	tests := []struct {
		hue  int
		want bool
	}{
		{0, true},
		{9, true},
		{10, false},
		{90, false},
		{170, false},
		{171, true},
		{180, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRedLike(tt.hue), "hue %d", tt.hue)
	}
}

func TestBounds_ContainsEndpoints(t *testing.T) {
	b := GenericWindow(60)

	assert.True(t, b.Contains(b.Lower), "lower endpoint is included")
	assert.True(t, b.Contains(b.Upper), "upper endpoint is included")
	assert.True(t, b.Contains(Triplet{H: 60, S: 200, V: 200}))

	assert.False(t, b.Contains(Triplet{H: 44, S: 200, V: 200}))
	assert.False(t, b.Contains(Triplet{H: 76, S: 200, V: 200}))
	assert.False(t, b.Contains(Triplet{H: 60, S: 49, V: 200}))
	assert.False(t, b.Contains(Triplet{H: 60, S: 200, V: 49}))
}

func TestRedRanges(t *testing.T) {
	ranges := RedRanges()
	require.Len(t, ranges, 2)
	assert.Equal(t, RedLow, ranges[0])
	assert.Equal(t, RedHigh, ranges[1])

	assert.Equal(t, Triplet{H: 170, S: 50, V: 50}, RedHigh.Lower)
	assert.Equal(t, Triplet{H: 180, S: 255, V: 255}, RedHigh.Upper)
}

func TestSample_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sample  Sample
		wantErr bool
	}{
		{name: "black", sample: Sample{0, 0, 0}},
		{name: "white", sample: Sample{255, 255, 255}},
		{name: "negative blue", sample: Sample{-1, 0, 0}, wantErr: true},
		{name: "green overflow", sample: Sample{0, 256, 0}, wantErr: true},
		{name: "red overflow", sample: Sample{0, 0, 1000}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sample.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidColorSample)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestComputeBounds_RejectsInvalidSample(t *testing.T) {
	_, err := ComputeBounds(Sample{B: 300, G: 0, R: 0})
	assert.ErrorIs(t, err, ErrInvalidColorSample)
}

func TestToHSV(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		want   Triplet
	}{
		{name: "red", sample: Sample{B: 0, G: 0, R: 200}, want: Triplet{H: 0, S: 255, V: 200}},
		{name: "blue", sample: Sample{B: 180, G: 60, R: 0}, want: Triplet{H: 110, S: 255, V: 180}},
		{name: "green", sample: Sample{B: 0, G: 180, R: 0}, want: Triplet{H: 60, S: 255, V: 180}},
		{name: "black", sample: Sample{}, want: Triplet{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHSV(tt.sample)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeBounds_PaletteSamples(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		want   Bounds
	}{
		{name: "red takes the fixed range", sample: Sample{B: 0, G: 0, R: 200}, want: RedLow},
		{name: "blue", sample: Sample{B: 180, G: 60, R: 0}, want: Bounds{
			Lower: Triplet{H: 95, S: 50, V: 50},
			Upper: Triplet{H: 125, S: 255, V: 255},
		}},
		{name: "green", sample: Sample{B: 0, G: 180, R: 0}, want: Bounds{
			Lower: Triplet{H: 45, S: 50, V: 50},
			Upper: Triplet{H: 75, S: 255, V: 255},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBounds(tt.sample)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBounds_Scalars(t *testing.T) {
	lower, upper := GenericWindow(100).Scalars()
	assert.Equal(t, 85.0, lower.Val1)
	assert.Equal(t, 50.0, lower.Val2)
	assert.Equal(t, 50.0, lower.Val3)
	assert.Equal(t, 115.0, upper.Val1)
	assert.Equal(t, 255.0, upper.Val2)
	assert.Equal(t, 255.0, upper.Val3)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "BGR(1, 2, 3)", Sample{B: 1, G: 2, R: 3}.String())
	assert.Equal(t, "HSV(4, 5, 6)", Triplet{H: 4, S: 5, V: 6}.String())
	assert.Equal(t, "[0,50,50]-[10,255,255]", RedLow.String())
}
