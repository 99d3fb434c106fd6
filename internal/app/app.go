// Package app runs detection sessions: it opens a camera, tracks one palette
// color frame by frame and hands each result to a display until the session ends.
package app

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ayusman/huedetect/internal/capture"
	"github.com/ayusman/huedetect/internal/detector"
	"github.com/ayusman/huedetect/internal/display"
	"github.com/ayusman/huedetect/internal/palette"
	"github.com/ayusman/huedetect/internal/store"
)

// DefaultMaxReadFailures is how many consecutive failed reads end a session.
const DefaultMaxReadFailures = 30

// DefaultReadRetryDelay is the pause after a failed read, so a device that
// fails instantly still gets about three seconds to recover.
const DefaultReadRetryDelay = 100 * time.Millisecond

// ErrCaptureLost is returned when the camera stops delivering frames.
var ErrCaptureLost = errors.New("capture lost")

// DisplayFactory creates the display for a session once its target is known.
type DisplayFactory func(t detector.Target) (display.Display, error)

// WindowDisplay is the default DisplayFactory: a native OpenCV window titled
// after the target color.
func WindowDisplay(t detector.Target) (display.Display, error) {
	return display.NewWindow(display.Title(t.Name), display.DefaultWaitMs), nil
}

// Config holds configuration options for the application.
type Config struct {
	// Store journals sessions when non-nil.
	Store *store.Store
	// Opener creates cameras for probing; defaults to capture.NewCamera.
	Opener capture.Opener
	// MaxDeviceIndex is the last device index probed.
	MaxDeviceIndex int
	// MaxReadFailures ends the session after this many consecutive failed reads.
	MaxReadFailures int
	// ReadRetryDelay is the pause after each failed read.
	ReadRetryDelay time.Duration
	// FPS requested from the camera; 0 keeps the camera default.
	FPS int
	// Detector locates the target in each frame; defaults to detector.NewEngine.
	Detector detector.Detector
	// Display creates the session display; defaults to WindowDisplay.
	Display DisplayFactory
	Logger  *slog.Logger
}

// Summary describes a finished session.
type Summary struct {
	SessionID  string
	Color      palette.Name
	Device     int
	Frames     int
	Detections int
	Reason     store.EndReason
}

// App is the main application that runs detection sessions.
type App struct {
	config Config
	logger *slog.Logger
}

// New creates a new App instance with the given configuration, filling in
// defaults for anything left zero.
func New(config Config) *App {
	if config.Opener == nil {
		config.Opener = capture.NewCamera
	}
	if config.MaxDeviceIndex <= 0 {
		config.MaxDeviceIndex = capture.DefaultMaxDeviceIndex
	}
	if config.MaxReadFailures <= 0 {
		config.MaxReadFailures = DefaultMaxReadFailures
	}
	if config.ReadRetryDelay <= 0 {
		config.ReadRetryDelay = DefaultReadRetryDelay
	}
	if config.Detector == nil {
		config.Detector = detector.NewEngine()
	}
	if config.Display == nil {
		config.Display = WindowDisplay
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &App{
		config: config,
		logger: config.Logger,
	}
}

// Config returns the effective configuration.
func (a *App) Config() Config {
	return a.config
}
