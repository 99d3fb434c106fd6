package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/huedetect/internal/app"
	"github.com/ayusman/huedetect/internal/capture"
	"github.com/ayusman/huedetect/internal/palette"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg := FromViper(v)
	assert.Equal(t, Config{
		Select:          SelectPrompt,
		Display:         DisplayWindow,
		Addr:            "127.0.0.1:8080",
		MaxDeviceIndex:  capture.DefaultMaxDeviceIndex,
		Width:           capture.DefaultWidth,
		Height:          capture.DefaultHeight,
		FPS:             capture.DefaultFPS,
		DBPath:          DefaultDBPath(),
		MaxReadFailures: app.DefaultMaxReadFailures,
		ServeAddr:       "127.0.0.1:8080",
	}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultDBPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, filepath.Join("/home/tester", ".huedetect", "huedetect.db"), DefaultDBPath())
}

func TestInit_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yaml", "color: Blue\ndisplay: http\naddr: \":9000\"\nfps: 30\n")

	v := viper.New()
	require.NoError(t, Init(v, cfgFile))

	cfg := FromViper(v)
	assert.Equal(t, "Blue", cfg.Color)
	assert.Equal(t, DisplayHTTP, cfg.Display)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, capture.DefaultWidth, cfg.Width, "unset keys keep defaults")
}

func TestInit_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yaml", "color: blue\nmax_device_index: 2\n")

	t.Setenv("HUEDETECT_COLOR", "green")
	t.Setenv("HUEDETECT_MAX_DEVICE_INDEX", "7")

	v := viper.New()
	require.NoError(t, Init(v, cfgFile))

	cfg := FromViper(v)
	assert.Equal(t, "green", cfg.Color)
	assert.Equal(t, 7, cfg.MaxDeviceIndex)
}

func TestInit_ServeAddr(t *testing.T) {
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yaml", "serve:\n  addr: \":9100\"\n")

	v := viper.New()
	require.NoError(t, Init(v, cfgFile))
	assert.Equal(t, ":9100", FromViper(v).ServeAddr)

	t.Setenv("HUEDETECT_SERVE_ADDR", ":9200")
	v = viper.New()
	require.NoError(t, Init(v, cfgFile))

	cfg := FromViper(v)
	assert.Equal(t, ":9200", cfg.ServeAddr)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr, "detect address is separate")
}

func TestInit_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "test.env", "HUEDETECT_NO_STORE=true\nHUEDETECT_SELECT=tray\n")

	// t.Setenv restores the variables godotenv sets.
	t.Setenv("HUEDETECT_NO_STORE", "")
	t.Setenv("HUEDETECT_SELECT", "")
	os.Unsetenv("HUEDETECT_NO_STORE")
	os.Unsetenv("HUEDETECT_SELECT")

	v := viper.New()
	require.NoError(t, Init(v, "", envFile))

	cfg := FromViper(v)
	assert.True(t, cfg.NoStore)
	assert.Equal(t, SelectTray, cfg.Select)
}

func TestInit_MissingExplicitFiles(t *testing.T) {
	dir := t.TempDir()

	err := Init(viper.New(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	err = Init(viper.New(), "", filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		v := viper.New()
		SetDefaults(v)
		return FromViper(v)
	}

	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"known color", func(c *Config) { c.Color = "RED" }, true},
		{"unknown color", func(c *Config) { c.Color = "purple" }, false},
		{"tray selector", func(c *Config) { c.Select = SelectTray }, true},
		{"unknown selector", func(c *Config) { c.Select = "voice" }, false},
		{"http display", func(c *Config) { c.Display = DisplayHTTP }, true},
		{"headless display", func(c *Config) { c.Display = DisplayNone }, true},
		{"unknown display", func(c *Config) { c.Display = "tv" }, false},
		{"http without addr", func(c *Config) { c.Display = DisplayHTTP; c.Addr = "" }, false},
		{"negative device index", func(c *Config) { c.MaxDeviceIndex = -1 }, false},
		{"negative fps", func(c *Config) { c.FPS = -5 }, false},
		{"negative read failures", func(c *Config) { c.MaxReadFailures = -1 }, false},
		{"no db path", func(c *Config) { c.DBPath = "" }, false},
		{"no db path without store", func(c *Config) { c.DBPath = ""; c.NoStore = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)

			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestColorName(t *testing.T) {
	name, ok, err := Config{}.ColorName()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, palette.Name(0), name)

	name, ok, err = Config{Color: "green"}.ColorName()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, palette.Green, name)

	_, _, err = Config{Color: "teal"}.ColorName()
	assert.ErrorIs(t, err, palette.ErrUnknownColor)
}
