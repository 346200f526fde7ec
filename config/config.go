// Package config holds the engine settings read from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"vector-engine/core"
	"vector-engine/log"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full engine configuration.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Frame  FrameConfig  `yaml:"frame"`
	Render RenderConfig `yaml:"render"`
	Assets AssetsConfig `yaml:"assets"`
	Log    LogConfig    `yaml:"log"`
}

// WindowConfig describes the main window.
type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Resizable  bool   `yaml:"resizable"`
	VSync      bool   `yaml:"vsync"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// FrameConfig controls frame pacing.
type FrameConfig struct {
	TargetFPS int `yaml:"target_fps"` // pacing rate without vsync, 0 for unpaced
	MaxFPS    int `yaml:"max_fps"`    // cap applied on top of vsync, 0 for none
}

// RenderConfig controls the render engine.
type RenderConfig struct {
	ClearColor    []float32 `yaml:"clear_color"` // r, g, b, a
	DebugBindings bool      `yaml:"debug_bindings"`
	UI            bool      `yaml:"ui"`
}

// AssetsConfig locates shader and texture files. An empty shader_dir
// selects the built-in shaders.
type AssetsConfig struct {
	ShaderDir  string `yaml:"shader_dir"`
	TextureDir string `yaml:"texture_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "Vector Engine",
			Resizable: true,
			VSync:     true,
		},
		Frame: FrameConfig{
			TargetFPS: 60,
			MaxFPS:    300,
		},
		Render: RenderConfig{
			ClearColor: []float32{0, 0, 0, 1},
			UI:         true,
		},
		Assets: AssetsConfig{
			TextureDir: "assets/textures",
		},
		Log: LogConfig{
			Level: "notice",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Frame.TargetFPS < 0 || c.Frame.MaxFPS < 0:
		return fmt.Errorf("%w: negative frame rate", ErrInvalidConfig)
	case c.Frame.MaxFPS > 0 && c.Frame.TargetFPS > c.Frame.MaxFPS:
		return fmt.Errorf("%w: target_fps %d above max_fps %d", ErrInvalidConfig, c.Frame.TargetFPS, c.Frame.MaxFPS)
	case len(c.Render.ClearColor) != 4:
		return fmt.Errorf("%w: clear_color needs 4 components; got %d", ErrInvalidConfig, len(c.Render.ClearColor))
	}
	for _, v := range c.Render.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear_color component %v outside [0, 1]", ErrInvalidConfig, v)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Color returns the configured window clear color.
func (r RenderConfig) Color() core.Color {
	if len(r.ClearColor) != 4 {
		return core.ColorBlack
	}
	return core.Color{R: r.ClearColor[0], G: r.ClearColor[1], B: r.ClearColor[2], A: r.ClearColor[3]}
}

// Interval is the minimum duration of one frame. With vsync the swap already
// waits for the display, so only MaxFPS applies. Zero means no pacing.
func (f FrameConfig) Interval(vsync bool) time.Duration {
	fps := f.TargetFPS
	if vsync {
		fps = f.MaxFPS
	}
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}
