package bgew

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/bgew/network"
)

// Config describes a game: its identity, surface, physics and optional
// services. Zero fields take the values of DefaultConfig.
type Config struct {
	Name    string  `yaml:"name"`
	Version string  `yaml:"version"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	FPS     int     `yaml:"fps"`
	Scale   float64 `yaml:"scale"`
	Gravity float64 `yaml:"gravity"`
	// Background is a "#rrggbb" or "#rrggbbaa" hex color.
	Background string `yaml:"background"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// ScreenshotDir receives the PNGs written by Board.Screenshot.
	ScreenshotDir string         `yaml:"screenshot_dir"`
	Debug         Debug          `yaml:"debug"`
	Network       network.Config `yaml:"network"`
}

// DefaultConfig returns an 800x600 board at 60 ticks per second with no
// gravity.
func DefaultConfig() Config {
	return Config{
		Name:          "bgew",
		Version:       "0.0.0",
		Width:         800,
		Height:        600,
		FPS:           60,
		Scale:         1,
		Background:    "#000000",
		LogLevel:      "info",
		ScreenshotDir: "screenshots",
	}
}

// LoadConfig parses YAML into a Config on top of DefaultConfig and
// validates it.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a YAML config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return LoadConfig(data)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %vx%v must be positive", c.Width, c.Height))
	}
	if c.FPS <= 0 || c.FPS > 1000 {
		errs = append(errs, fmt.Errorf("fps %d out of range (1-1000)", c.FPS))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale %v must be positive", c.Scale))
	}
	if c.Gravity < 0 {
		errs = append(errs, fmt.Errorf("gravity %v must not be negative", c.Gravity))
	}
	if c.Background != "" {
		if _, err := ParseColor(c.Background); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.Network.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.FPS <= 0 {
		c.FPS = d.FPS
	}
	if c.Scale <= 0 {
		c.Scale = d.Scale
	}
	if c.Background == "" {
		c.Background = d.Background
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = d.ScreenshotDir
	}
	return c
}

func (c Config) background() Color {
	col, err := ParseColor(c.Background)
	if err != nil {
		return ColorBlack
	}
	return col
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("color %q: want #rgb, #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
