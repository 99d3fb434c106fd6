package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayusman/huedetect/internal/config"
	"github.com/ayusman/huedetect/internal/store"
)

var (
	cfgFile string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "huedetect",
	Short: "Real-time detection of red, blue and green in a camera feed",
	Long: `huedetect tracks one primary color in a live camera feed.

Each frame is converted to HSV, masked against the color's hue range and
the bounding box of every matching pixel is drawn around the detection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(viper.GetViper(), cfgFile); err != nil {
			return err
		}
		initLogging()
		return nil
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("db", config.DefaultDBPath(), "Session journal database path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("web-dir", "", "Static files served next to the API (default: search web, ../web, ~/.huedetect/web)")

	mustBind(rootCmd, config.KeyDBPath, "db")
	mustBind(rootCmd, config.KeyVerbose, "verbose")
	mustBind(rootCmd, config.KeyWebDir, "web-dir")
}

// mustBind binds a viper key to a flag declared on c.
func mustBind(c *cobra.Command, key, name string) {
	flag := c.Flags().Lookup(name)
	if flag == nil {
		flag = c.PersistentFlags().Lookup(name)
	}
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
}

// openStore opens the journal, creating its directory on first use.
func openStore(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return store.New(path)
}

func initLogging() {
	level := slog.LevelInfo
	if viper.GetBool(config.KeyVerbose) {
		level = slog.LevelDebug
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
}
