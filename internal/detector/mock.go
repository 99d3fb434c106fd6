package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	boxes []*Box
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector that never detects anything.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetBoxes sets the boxes returned by successive Detect calls.
// The last box is repeated once the sequence is exhausted.
func (m *MockDetector) SetBoxes(boxes ...*Box) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boxes = boxes
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect was called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured box or error.
func (m *MockDetector) Detect(frame *gocv.Mat, t Target) (*Box, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.boxes) == 0 {
		return nil, nil
	}

	i := m.calls - 1
	if i >= len(m.boxes) {
		i = len(m.boxes) - 1
	}
	return m.boxes[i], nil
}
