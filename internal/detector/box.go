package detector

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Box is the smallest axis-aligned rectangle containing every matching pixel.
// All four coordinates are inclusive, so a single pixel at (x, y) is Box{x, y, x, y}.
type Box struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Rect returns the box as a half-open image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.MinX, b.MinY, b.MaxX+1, b.MaxY+1)
}

// Width returns the number of columns covered by the box.
func (b Box) Width() int {
	return b.MaxX - b.MinX + 1
}

// Height returns the number of rows covered by the box.
func (b Box) Height() int {
	return b.MaxY - b.MinY + 1
}

func (b Box) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// BoxOf reduces a binary mask to its bounding box. It returns nil when the
// mask has no non-zero pixel.
//
// Algorithm:
// 1. CountNonZero rejects empty masks
// 2. Reduce with ReduceMax collapses the mask into a column profile (1 x cols)
// 3. Reduce with ReduceMax collapses the mask into a row profile (rows x 1)
// 4. The first and last non-zero entries of each profile are the box edges
func BoxOf(mask gocv.Mat) *Box {
	if mask.Empty() || gocv.CountNonZero(mask) == 0 {
		return nil
	}

	cols := gocv.NewMat()
	defer cols.Close()
	gocv.Reduce(mask, &cols, 0, gocv.ReduceMax, -1)

	rows := gocv.NewMat()
	defer rows.Close()
	gocv.Reduce(mask, &rows, 1, gocv.ReduceMax, -1)

	minX, maxX, okX := span(cols.ToBytes())
	minY, maxY, okY := span(rows.ToBytes())
	if !okX || !okY {
		return nil
	}

	return &Box{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// span returns the first and last indices of non-zero entries in a profile.
func span(profile []byte) (lo, hi int, ok bool) {
	lo = -1
	for i, v := range profile {
		if v != 0 {
			lo = i
			break
		}
	}
	if lo < 0 {
		return 0, 0, false
	}

	for i := len(profile) - 1; i >= lo; i-- {
		if profile[i] != 0 {
			hi = i
			break
		}
	}
	return lo, hi, true
}
