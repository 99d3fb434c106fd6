// Package config loads huedetect settings from a .env file, the
// environment, an optional config file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ayusman/huedetect/internal/app"
	"github.com/ayusman/huedetect/internal/capture"
	"github.com/ayusman/huedetect/internal/palette"
)

// EnvPrefix prefixes every environment variable, e.g. HUEDETECT_COLOR.
const EnvPrefix = "HUEDETECT"

// Configuration keys.
const (
	KeyColor           = "color"
	KeySelect          = "select"
	KeyDisplay         = "display"
	KeyAddr            = "addr"
	KeyMaxDeviceIndex  = "max_device_index"
	KeyWidth           = "width"
	KeyHeight          = "height"
	KeyFPS             = "fps"
	KeyDBPath          = "db_path"
	KeyNoStore         = "no_store"
	KeyMaxReadFailures = "max_read_failures"
	KeyVerbose         = "verbose"
	KeyWebDir          = "web_dir"
	// KeyServeAddr is the listen address of the serve command, kept apart
	// from KeyAddr so each command binds its own --addr flag.
	KeyServeAddr = "serve.addr"
)

// Selector modes.
const (
	SelectPrompt = "prompt"
	SelectTray   = "tray"
)

// Display modes.
const (
	DisplayWindow = "window"
	DisplayHTTP   = "http"
	DisplayNone   = "none"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the resolved application configuration.
type Config struct {
	// Color skips interactive selection when set.
	Color           string
	Select          string
	Display         string
	Addr            string
	MaxDeviceIndex  int
	Width           int
	Height          int
	FPS             int
	DBPath          string
	NoStore         bool
	MaxReadFailures int
	Verbose         bool
	// WebDir holds static files served next to the API; empty searches the
	// usual locations.
	WebDir string
	// ServeAddr is where the serve command listens.
	ServeAddr string
}

// DataDir returns ~/.huedetect, or "." when the home directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".huedetect")
}

// DefaultDBPath returns the journal database path inside DataDir.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "huedetect.db")
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyColor, "")
	v.SetDefault(KeySelect, SelectPrompt)
	v.SetDefault(KeyDisplay, DisplayWindow)
	v.SetDefault(KeyAddr, "127.0.0.1:8080")
	v.SetDefault(KeyMaxDeviceIndex, capture.DefaultMaxDeviceIndex)
	v.SetDefault(KeyWidth, capture.DefaultWidth)
	v.SetDefault(KeyHeight, capture.DefaultHeight)
	v.SetDefault(KeyFPS, capture.DefaultFPS)
	v.SetDefault(KeyDBPath, DefaultDBPath())
	v.SetDefault(KeyNoStore, false)
	v.SetDefault(KeyMaxReadFailures, app.DefaultMaxReadFailures)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyWebDir, "")
	v.SetDefault(KeyServeAddr, "127.0.0.1:8080")
}

// Init loads .env files into the process environment, then binds HUEDETECT_*
// variables and reads the config file. A missing default .env or config file
// is not an error.
func Init(v *viper.Viper, cfgFile string, envFiles ...string) error {
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return fmt.Errorf("load env file: %w", err)
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// FromViper builds a Config from v.
func FromViper(v *viper.Viper) Config {
	return Config{
		Color:           strings.TrimSpace(v.GetString(KeyColor)),
		Select:          strings.ToLower(v.GetString(KeySelect)),
		Display:         strings.ToLower(v.GetString(KeyDisplay)),
		Addr:            v.GetString(KeyAddr),
		MaxDeviceIndex:  v.GetInt(KeyMaxDeviceIndex),
		Width:           v.GetInt(KeyWidth),
		Height:          v.GetInt(KeyHeight),
		FPS:             v.GetInt(KeyFPS),
		DBPath:          v.GetString(KeyDBPath),
		NoStore:         v.GetBool(KeyNoStore),
		MaxReadFailures: v.GetInt(KeyMaxReadFailures),
		Verbose:         v.GetBool(KeyVerbose),
		WebDir:          v.GetString(KeyWebDir),
		ServeAddr:       v.GetString(KeyServeAddr),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Color != "" {
		if _, err := palette.Parse(c.Color); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, KeyColor, err)
		}
	}
	switch c.Select {
	case SelectPrompt, SelectTray:
	default:
		return fmt.Errorf("%w: %s must be %q or %q, got %q", ErrInvalidConfig, KeySelect, SelectPrompt, SelectTray, c.Select)
	}
	switch c.Display {
	case DisplayWindow, DisplayHTTP, DisplayNone:
	default:
		return fmt.Errorf("%w: %s must be %q, %q or %q, got %q", ErrInvalidConfig, KeyDisplay,
			DisplayWindow, DisplayHTTP, DisplayNone, c.Display)
	}
	if c.Display == DisplayHTTP && c.Addr == "" {
		return fmt.Errorf("%w: %s is required for the http display", ErrInvalidConfig, KeyAddr)
	}
	if c.MaxDeviceIndex < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, KeyMaxDeviceIndex)
	}
	if c.Width < 0 || c.Height < 0 || c.FPS < 0 {
		return fmt.Errorf("%w: %s, %s and %s must not be negative", ErrInvalidConfig, KeyWidth, KeyHeight, KeyFPS)
	}
	if c.MaxReadFailures < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, KeyMaxReadFailures)
	}
	if !c.NoStore && c.DBPath == "" {
		return fmt.Errorf("%w: %s is required unless %s is set", ErrInvalidConfig, KeyDBPath, KeyNoStore)
	}
	return nil
}

// ColorName parses Color. ok is false when no color is configured.
func (c Config) ColorName() (name palette.Name, ok bool, err error) {
	if c.Color == "" {
		return 0, false, nil
	}
	name, err = palette.Parse(c.Color)
	if err != nil {
		return 0, false, err
	}
	return name, true, nil
}
