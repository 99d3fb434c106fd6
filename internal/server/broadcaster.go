package server

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/huedetect/internal/detector"
	"github.com/ayusman/huedetect/internal/display"
	"github.com/ayusman/huedetect/internal/palette"
)

// Detection is the event pushed to websocket clients for every processed frame.
// Box is null when the color was not found.
type Detection struct {
	Color     palette.Name  `json:"color"`
	Box       *detector.Box `json:"box"`
	Frame     uint64        `json:"frame"`
	Timestamp int64         `json:"timestamp"`
}

// Broadcaster is a display.Display that publishes annotated frames over HTTP
// instead of drawing them in a window. It never reads the camera itself; the
// session loop hands it frames through Show.
type Broadcaster struct {
	mu     sync.RWMutex
	jpeg   []byte
	seq    uint64
	closed bool

	detections *DetectionsHandler
	logger     *slog.Logger
}

var _ display.Display = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		detections: NewDetectionsHandler(logger),
		logger:     logger,
	}
}

// Show annotates the frame, encodes it as JPEG and publishes it together
// with the detection event.
func (b *Broadcaster) Show(frame *gocv.Mat, t detector.Target, box *detector.Box) error {
	if frame == nil || frame.Empty() {
		return detector.ErrEmptyFrame
	}
	display.Annotate(frame, box)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	// GetBytes aliases native memory released by Close.
	jpeg := append([]byte(nil), buf.GetBytes()...)
	b.publish(jpeg, t.Name, box)
	return nil
}

func (b *Broadcaster) publish(jpeg []byte, name palette.Name, box *detector.Box) {
	b.mu.Lock()
	b.jpeg = jpeg
	b.seq++
	seq := b.seq
	b.mu.Unlock()

	b.detections.Publish(Detection{
		Color:     name,
		Box:       box,
		Frame:     seq,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Latest returns the most recent encoded frame and its sequence number.
// The sequence is 0 until the first frame is shown.
func (b *Broadcaster) Latest() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg, b.seq
}

// QuitRequested reports whether the broadcaster has been closed. HTTP
// clients cannot stop the session; it ends on cancellation.
func (b *Broadcaster) QuitRequested() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// Close disconnects websocket clients. It is safe to call more than once.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.detections.CloseAll()
	b.logger.Debug("broadcaster closed")
	return nil
}

// Detections returns the websocket handler fed by this broadcaster.
func (b *Broadcaster) Detections() *DetectionsHandler {
	return b.detections
}
