package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeSource is a FrameSource with a settable frame.
type fakeSource struct {
	mu   sync.Mutex
	buf  []byte
	seq  uint64
	read int
}

func (f *fakeSource) set(buf []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf = buf
	f.seq++
}

func (f *fakeSource) Latest() ([]byte, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.read++
	return f.buf, f.seq
}

func TestStreamHandler_WritesEachFrameOnce(t *testing.T) {
	source := &fakeSource{}
	source.set([]byte("jpegdata"))

	h := NewStreamHandler(source)
	h.interval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); got != "multipart/x-mixed-replace; boundary=frame" {
		t.Errorf("Content-Type = %q", got)
	}

	body := rec.Body.String()
	if n := strings.Count(body, "--frame\r\n"); n != 1 {
		t.Errorf("frame parts = %d, want 1", n)
	}
	if !strings.Contains(body, "Content-Type: image/jpeg\r\nContent-Length: 8\r\n\r\njpegdata\r\n") {
		t.Errorf("unexpected body %q", body)
	}
}

func TestStreamHandler_WaitsForFirstFrame(t *testing.T) {
	source := &fakeSource{}

	h := NewStreamHandler(source)
	h.interval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body before any frame, got %q", rec.Body.String())
	}
	if source.read == 0 {
		t.Error("expected the source to be polled")
	}
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	h := NewStreamHandler(&fakeSource{})

	req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
