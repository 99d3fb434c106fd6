// Package display renders frames with their detection overlay.
package display

import (
	"fmt"
	"image/color"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/huedetect/internal/detector"
	"github.com/ayusman/huedetect/internal/palette"
)

// Overlay settings.
const (
	BoxThickness = 5
	// QuitKey and EscKey end the session when pressed in a window.
	QuitKey = 'q'
	EscKey  = 27
	// DefaultWaitMs is the key poll delay per frame.
	DefaultWaitMs = 1
)

// BoxColor is the overlay color.
var BoxColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}

// Display defines the interface for frame renderers.
type Display interface {
	// Show renders the frame with the box, if any. It may draw on the frame.
	Show(frame *gocv.Mat, t detector.Target, box *detector.Box) error
	// QuitRequested polls for a user quit signal.
	QuitRequested() bool
	// Close releases display resources.
	Close() error
}

// Title returns the window title for a target color.
func Title(name palette.Name) string {
	return fmt.Sprintf("Detection of %s (press q to quit)", name)
}

// Annotate draws the box outline on the frame. A nil box leaves the frame untouched.
func Annotate(frame *gocv.Mat, box *detector.Box) {
	if frame == nil || box == nil {
		return
	}
	gocv.Rectangle(frame, box.Rect(), BoxColor, BoxThickness)
}

// Window shows frames in a native OpenCV window.
type Window struct {
	window *gocv.Window
	waitMs int
}

// NewWindow opens a window with the given title.
// waitMs is the key poll delay; values less than or equal to 0 use DefaultWaitMs.
func NewWindow(title string, waitMs int) *Window {
	if waitMs <= 0 {
		waitMs = DefaultWaitMs
	}
	return &Window{
		window: gocv.NewWindow(title),
		waitMs: waitMs,
	}
}

// Show draws the box and displays the frame.
func (w *Window) Show(frame *gocv.Mat, t detector.Target, box *detector.Box) error {
	if frame == nil || frame.Empty() {
		return detector.ErrEmptyFrame
	}
	Annotate(frame, box)
	w.window.IMShow(*frame)
	return nil
}

// QuitRequested waits briefly for a key press and reports whether it was q or Esc.
func (w *Window) QuitRequested() bool {
	key := w.window.WaitKey(w.waitMs) & 0xFF
	return key == QuitKey || key == EscKey
}

// Close closes the window.
func (w *Window) Close() error {
	return w.window.Close()
}

// Recorder is a headless Display that keeps the boxes it was shown.
// It requests quit once it has shown quitAfter frames; 0 never quits.
type Recorder struct {
	mu        sync.Mutex
	boxes     []*detector.Box
	quitAfter int
	closed    bool
}

// NewRecorder creates a Recorder.
func NewRecorder(quitAfter int) *Recorder {
	return &Recorder{quitAfter: quitAfter}
}

// Show records the box.
func (r *Recorder) Show(frame *gocv.Mat, t detector.Target, box *detector.Box) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boxes = append(r.boxes, box)
	return nil
}

// QuitRequested reports whether quitAfter frames have been shown.
func (r *Recorder) QuitRequested() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quitAfter > 0 && len(r.boxes) >= r.quitAfter
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Boxes returns the boxes shown so far.
func (r *Recorder) Boxes() []*detector.Box {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*detector.Box, len(r.boxes))
	copy(out, r.boxes)
	return out
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Discard is a Display that drops every frame and never requests quit.
// Sessions using it end on cancellation or capture loss.
type Discard struct{}

// Show does nothing.
func (Discard) Show(*gocv.Mat, detector.Target, *detector.Box) error { return nil }

// QuitRequested always reports false.
func (Discard) QuitRequested() bool { return false }

// Close does nothing.
func (Discard) Close() error { return nil }
