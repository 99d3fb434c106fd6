package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ayusman/huedetect/internal/capture"
	"github.com/ayusman/huedetect/internal/detector"
	"github.com/ayusman/huedetect/internal/display"
	"github.com/ayusman/huedetect/internal/palette"
	"github.com/ayusman/huedetect/internal/store"
)

// Run tracks the named color until the display asks to quit, ctx is
// cancelled or the camera is lost.
//
// Session flow:
// 1. Build the target once; it stays read-only for the whole session
// 2. Probe device indices 0..MaxDeviceIndex and open the first camera
// 3. Create the display and journal the session
// 4. Per frame: read, detect, show, check for quit
// 5. Release the display and the camera on every exit path
func (a *App) Run(ctx context.Context, name palette.Name) (Summary, error) {
	summary := Summary{Color: name}

	target, err := detector.NewTarget(name)
	if err != nil {
		return summary, err
	}
	a.logTarget(target)

	cam, err := capture.OpenFirst(a.config.Opener, a.config.MaxDeviceIndex, a.logger)
	if err != nil {
		return summary, err
	}
	defer func() {
		if err := cam.Close(); err != nil {
			a.logger.Warn("closing camera", "error", err)
		}
	}()
	if a.config.FPS > 0 {
		cam.SetFPS(a.config.FPS)
	}
	summary.Device = cam.DeviceID()

	disp, err := a.config.Display(target)
	if err != nil {
		return summary, fmt.Errorf("create display: %w", err)
	}
	defer func() {
		if err := disp.Close(); err != nil {
			a.logger.Warn("closing display", "error", err)
		}
	}()

	summary.SessionID = a.beginSession(target, summary.Device)

	a.logger.Info("detection started", "color", name, "device", summary.Device)
	reason, runErr := a.loop(ctx, cam, disp, target, &summary)
	summary.Reason = reason

	a.finishSession(summary)
	a.logger.Info("detection stopped",
		"color", name,
		"reason", reason,
		"frames", summary.Frames,
		"detections", summary.Detections,
	)

	return summary, runErr
}

// loop is the synchronous capture, detect and display cycle.
func (a *App) loop(ctx context.Context, cam capture.Camera, disp display.Display, target detector.Target, summary *Summary) (store.EndReason, error) {
	failures := 0

	for {
		if ctx.Err() != nil {
			return store.EndQuit, nil
		}

		frame, err := cam.ReadFrame()
		if err != nil {
			failures++
			a.logger.Warn("reading frame", "error", err, "consecutive", failures)
			if failures > a.config.MaxReadFailures {
				return store.EndCaptureLost, fmt.Errorf("%w: %d consecutive read failures: %v",
					ErrCaptureLost, failures, err)
			}
			if !sleepCtx(ctx, a.config.ReadRetryDelay) {
				return store.EndQuit, nil
			}
			continue
		}
		failures = 0
		summary.Frames++

		box, err := a.config.Detector.Detect(frame, target)
		if err != nil {
			frame.Close()
			a.logger.Warn("detecting color", "error", err, "frame", summary.Frames)
			continue
		}
		if box != nil {
			summary.Detections++
			a.logger.Debug("color found", "box", box.String())
		}

		err = disp.Show(frame, target, box)
		frame.Close()
		if err != nil {
			return store.EndError, fmt.Errorf("show frame: %w", err)
		}

		if disp.QuitRequested() {
			return store.EndQuit, nil
		}
	}
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (a *App) logTarget(t detector.Target) {
	attrs := []any{"color", t.Name, "sample", t.Sample.String()}
	for i, b := range t.Ranges {
		attrs = append(attrs, fmt.Sprintf("range%d", i), b.String())
	}
	a.logger.Info("target ready", attrs...)
}

// beginSession journals the session start and returns its ID, or "" when
// no store is configured or the insert failed.
func (a *App) beginSession(t detector.Target, device int) string {
	if a.config.Store == nil {
		return ""
	}

	sess := &store.Session{
		Color:  t.Name,
		Device: device,
		Ranges: t.Ranges,
	}
	if err := a.config.Store.Sessions().Create(sess); err != nil {
		a.logger.Warn("journaling session", "error", err)
		return ""
	}
	return sess.ID
}

func (a *App) finishSession(s Summary) {
	if a.config.Store == nil || s.SessionID == "" {
		return
	}
	if err := a.config.Store.Sessions().Finish(s.SessionID, s.Frames, s.Detections, s.Reason); err != nil {
		a.logger.Warn("finishing session", "id", s.SessionID, "error", err)
	}
}
