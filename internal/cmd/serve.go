package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/huedetect/internal/config"
	"github.com/ayusman/huedetect/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session journal and palette API without a camera",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	mustBind(serveCmd, config.KeyServeAddr, "addr")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	st, err := openStore(viper.GetString(config.KeyDBPath))
	if err != nil {
		return err
	}
	defer st.Close()

	webDir := findWebDir(viper.GetString(config.KeyWebDir))
	if webDir != "" {
		logger.Info("serving static files", "dir", webDir)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Logger:    logger,
	})
	return srv.Run(ctx, viper.GetString(config.KeyServeAddr))
}

// findWebDir returns configured when set, otherwise the first existing
// directory among "web", "../web" and ~/.huedetect/web. It returns "" when
// none exists.
func findWebDir(configured string) string {
	if configured != "" {
		return configured
	}

	candidates := []string{"web", filepath.Join("..", "web"), filepath.Join(config.DataDir(), "web")}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	return ""
}
