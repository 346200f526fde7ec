package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vector-engine/core"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  width: 640
  height: 480
render:
  clear_color: [0.5, 0.25, 0, 1]
  debug_bindings: true
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Width != 640 || cfg.Window.Height != 480 {
		t.Errorf("expected 640x480; got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.Title != "Vector Engine" || cfg.Frame.TargetFPS != 60 {
		t.Errorf("expected unset fields to keep defaults; got %+v %+v", cfg.Window, cfg.Frame)
	}
	if !cfg.Render.DebugBindings {
		t.Error("expected debug bindings enabled")
	}
	if got := cfg.Render.Color(); got != (core.Color{R: 0.5, G: 0.25, B: 0, A: 1}) {
		t.Errorf("unexpected clear color %+v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error; got %v", err)
	}
	if _, err := Load(writeConfig(t, "window: [1, 2")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Load(writeConfig(t, "window:\n  width: 0\n")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig; got %v", err)
	}
}

func TestValidate(t *testing.T) {
	type spec struct {
		name   string
		mutate func(*Config)
	}
	specs := []spec{
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"negative fps", func(c *Config) { c.Frame.TargetFPS = -5 }},
		{"target above max", func(c *Config) { c.Frame.TargetFPS, c.Frame.MaxFPS = 120, 60 }},
		{"short clear color", func(c *Config) { c.Render.ClearColor = []float32{1, 1, 1} }},
		{"clear color range", func(c *Config) { c.Render.ClearColor = []float32{2, 0, 0, 1} }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, s := range specs {
		cfg := Default()
		s.mutate(cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig; got %v", s.name, err)
		}
	}
}

func TestFrameInterval(t *testing.T) {
	type spec struct {
		frame FrameConfig
		vsync bool
		exp   time.Duration
	}
	specs := []spec{
		{FrameConfig{TargetFPS: 50, MaxFPS: 200}, false, 20 * time.Millisecond},
		{FrameConfig{TargetFPS: 50, MaxFPS: 200}, true, 5 * time.Millisecond},
		{FrameConfig{TargetFPS: 0, MaxFPS: 200}, false, 0},
		{FrameConfig{TargetFPS: 60, MaxFPS: 0}, true, 0},
	}
	for i, s := range specs {
		if got := s.frame.Interval(s.vsync); got != s.exp {
			t.Errorf("[spec %d] expected %v; got %v", i, s.exp, got)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Window.Title = "saved"
	if err := Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Window.Title != "saved" {
		t.Errorf("expected saved title; got %q", loaded.Window.Title)
	}
}
