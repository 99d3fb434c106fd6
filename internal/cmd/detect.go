package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/huedetect/internal/app"
	"github.com/ayusman/huedetect/internal/capture"
	"github.com/ayusman/huedetect/internal/config"
	"github.com/ayusman/huedetect/internal/detector"
	"github.com/ayusman/huedetect/internal/display"
	"github.com/ayusman/huedetect/internal/palette"
	"github.com/ayusman/huedetect/internal/selector"
	"github.com/ayusman/huedetect/internal/server"
	"github.com/ayusman/huedetect/internal/store"
	"github.com/ayusman/huedetect/internal/tray"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Track a primary color in the camera feed",
	Long: `Track a primary color in the camera feed until q is pressed.

Without --color the color is chosen interactively, either from a terminal
menu (--select prompt) or from a system tray menu (--select tray).
With --display http the annotated feed is served as MJPEG on /api/stream
and detections are pushed as JSON on the /api/detections websocket.`,
	Args: cobra.NoArgs,
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().String("color", "", "Color to track (red, blue, green); skips selection")
	detectCmd.Flags().String("select", config.SelectPrompt, "How to choose the color (prompt, tray)")
	detectCmd.Flags().String("display", config.DisplayWindow, "Where to show detections (window, http, none)")
	detectCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address for --display http")
	detectCmd.Flags().Int("max-device-index", capture.DefaultMaxDeviceIndex, "Highest camera index probed (0 uses the default)")
	detectCmd.Flags().Int("width", capture.DefaultWidth, "Requested frame width")
	detectCmd.Flags().Int("height", capture.DefaultHeight, "Requested frame height")
	detectCmd.Flags().Int("fps", capture.DefaultFPS, "Requested frame rate")
	detectCmd.Flags().Bool("no-store", false, "Do not journal the session")
	detectCmd.Flags().Int("max-read-failures", app.DefaultMaxReadFailures, "Consecutive failed reads before the camera is considered lost")

	mustBind(detectCmd, config.KeyColor, "color")
	mustBind(detectCmd, config.KeySelect, "select")
	mustBind(detectCmd, config.KeyDisplay, "display")
	mustBind(detectCmd, config.KeyAddr, "addr")
	mustBind(detectCmd, config.KeyMaxDeviceIndex, "max-device-index")
	mustBind(detectCmd, config.KeyWidth, "width")
	mustBind(detectCmd, config.KeyHeight, "height")
	mustBind(detectCmd, config.KeyFPS, "fps")
	mustBind(detectCmd, config.KeyNoStore, "no-store")
	mustBind(detectCmd, config.KeyMaxReadFailures, "max-read-failures")
}

func runDetect(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	cfg := config.FromViper(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name, err := chooseColor(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	if errors.Is(err, selector.ErrCancelled) {
		fmt.Fprintln(cmd.OutOrStdout(), "No color selected")
		return nil
	}
	if err != nil {
		return err
	}

	var st *store.Store
	if !cfg.NoStore {
		st, err = openStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	appCfg := app.Config{
		Store: st,
		Opener: func(id int) capture.Camera {
			return capture.NewCameraSize(id, cfg.Width, cfg.Height)
		},
		MaxDeviceIndex:  cfg.MaxDeviceIndex,
		MaxReadFailures: cfg.MaxReadFailures,
		FPS:             cfg.FPS,
		Logger:          logger,
	}

	sessionCtx, cancelSession := context.WithCancelCause(ctx)
	defer cancelSession(nil)

	var serverDone chan struct{}
	switch cfg.Display {
	case config.DisplayNone:
		appCfg.Display = func(detector.Target) (display.Display, error) {
			return display.Discard{}, nil
		}
	case config.DisplayHTTP:
		b := server.NewBroadcaster(logger)
		srv := server.New(server.Config{
			StaticDir:   findWebDir(cfg.WebDir),
			Store:       st,
			Broadcaster: b,
			Logger:      logger,
		})

		serverDone = make(chan struct{})
		go func() {
			defer close(serverDone)
			if err := srv.Run(sessionCtx, cfg.Addr); err != nil {
				cancelSession(fmt.Errorf("http server: %w", err))
			}
		}()
		appCfg.Display = func(detector.Target) (display.Display, error) {
			return b, nil
		}
	default:
		appCfg.Display = app.WindowDisplay
	}

	summary, runErr := app.New(appCfg).Run(sessionCtx, name)
	if summary.Reason != "" {
		printSummary(cmd.OutOrStdout(), summary)
	}

	if serverDone != nil {
		cancelSession(nil)
		<-serverDone
	}

	if cause := context.Cause(sessionCtx); runErr == nil && cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return runErr
}

// newSelector picks how the color is chosen: a fixed color when one is
// configured, otherwise the configured interactive selector.
func newSelector(cfg config.Config, in io.Reader, out io.Writer) (selector.Selector, error) {
	name, ok, err := cfg.ColorName()
	if err != nil {
		return nil, err
	}
	if ok {
		return selector.Fixed(name), nil
	}
	if cfg.Select == config.SelectTray {
		return tray.New(), nil
	}
	return selector.NewPrompt(in, out), nil
}

func chooseColor(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) (palette.Name, error) {
	sel, err := newSelector(cfg, in, out)
	if err != nil {
		return 0, err
	}
	return sel.Select(ctx)
}

func printSummary(w io.Writer, s app.Summary) {
	fmt.Fprintf(w, "Color:      %s\n", s.Color)
	fmt.Fprintf(w, "Device:     %d\n", s.Device)
	fmt.Fprintf(w, "Frames:     %d\n", s.Frames)
	fmt.Fprintf(w, "Detections: %d\n", s.Detections)
	fmt.Fprintf(w, "Ended:      %s\n", s.Reason)
	if s.SessionID != "" {
		fmt.Fprintf(w, "Session:    %s\n", s.SessionID)
	}
}
