// Package testdata embeds PNG frames for end-to-end detection tests.
//
// Every frame is 64x48 on a neutral gray background, which has no
// saturation and so never matches a palette color.
package testdata

import (
	"embed"
	"fmt"
	"path"
	"testing"

	"gocv.io/x/gocv"
)

//go:embed frames
var framesFS embed.FS

// Frame size shared by all fixtures.
const (
	Width  = 64
	Height = 48
)

// LoadFrame decodes a fixture frame as 8-bit BGR.
// The caller is responsible for closing the returned Mat.
func LoadFrame(name string) (*gocv.Mat, error) {
	data, err := framesFS.ReadFile(path.Join("frames", name))
	if err != nil {
		return nil, fmt.Errorf("load frame %s: %w", name, err)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", name, err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("decode frame %s: empty image", name)
	}

	return &mat, nil
}

// LoadSequence loads every frame in dir in name order.
func LoadSequence(dir string) ([]*gocv.Mat, error) {
	entries, err := framesFS.ReadDir(path.Join("frames", dir))
	if err != nil {
		return nil, err
	}

	var frames []*gocv.Mat
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		frame, err := LoadFrame(path.Join(dir, entry.Name()))
		if err != nil {
			// Clean up already loaded frames
			for _, f := range frames {
				f.Close()
			}
			return nil, err
		}
		frames = append(frames, frame)
	}

	return frames, nil
}

// MustLoad loads the named frames and closes them when the test ends.
func MustLoad(tb testing.TB, names ...string) []*gocv.Mat {
	tb.Helper()

	frames := make([]*gocv.Mat, 0, len(names))
	for _, name := range names {
		frame, err := LoadFrame(name)
		if err != nil {
			tb.Fatalf("load fixture: %v", err)
		}
		tb.Cleanup(func() { frame.Close() })
		frames = append(frames, frame)
	}
	return frames
}

// MustLoadSequence is LoadSequence for tests.
func MustLoadSequence(tb testing.TB, dir string) []*gocv.Mat {
	tb.Helper()

	frames, err := LoadSequence(dir)
	if err != nil {
		tb.Fatalf("load fixture sequence: %v", err)
	}
	tb.Cleanup(func() {
		for _, f := range frames {
			f.Close()
		}
	})
	return frames
}
