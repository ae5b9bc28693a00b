package config

import (
	"os"
	"path/filepath"
	"testing"

	"draw3droi/pkg/projection"
	"draw3droi/pkg/session"
)

// TestDefaultConfig verifies the defaults are valid
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	if cfg.Processing.NumCores <= 0 {
		t.Errorf("Expected positive core count, got %d", cfg.Processing.NumCores)
	}
	if cfg.Output.Format != "png" {
		t.Errorf("Expected png output, got %s", cfg.Output.Format)
	}
}

// TestLoadConfigMissingFile verifies that a missing file gives the defaults
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.View.Perspective != "xy" {
		t.Errorf("Expected default perspective xy, got %s", cfg.View.Perspective)
	}
}

// TestSaveAndLoadConfig verifies a saved file loads back with its values
func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Processing.NumCores = 3
	cfg.View.Projection = "median"
	cfg.Preview.PaintValue = 128
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Processing.NumCores != 3 {
		t.Errorf("Expected 3 cores, got %d", loaded.Processing.NumCores)
	}
	if loaded.View.Projection != "median" {
		t.Errorf("Expected median projection, got %s", loaded.View.Projection)
	}
	if loaded.Preview.PaintValue != 128 {
		t.Errorf("Expected paint value 128, got %g", loaded.Preview.PaintValue)
	}
}

// TestLoadConfigPartialFile verifies unset keys keep their defaults
func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("view:\n  perspective: yz\noutput:\n  format: tif\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.View.Perspective != "yz" || cfg.Output.Format != "tif" {
		t.Errorf("Expected yz/tif, got %s/%s", cfg.View.Perspective, cfg.Output.Format)
	}
	if cfg.View.Projection != "none" {
		t.Errorf("Expected default projection none, got %s", cfg.View.Projection)
	}

	if err := os.WriteFile(path, []byte("view: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for malformed YAML, got nil")
	}
}

// TestEnvOverrides verifies DRAW3DROI_* variables win over the file
func TestEnvOverrides(t *testing.T) {
	t.Setenv("DRAW3DROI_WORKERS", "7")
	t.Setenv("DRAW3DROI_MAX_VOXELS", "1000")
	t.Setenv("DRAW3DROI_PROJECTION", "max")
	t.Setenv("DRAW3DROI_PREVIEW", "true")
	t.Setenv("DRAW3DROI_OUTPUT_DIR", "/tmp/masks")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Processing.NumCores != 7 {
		t.Errorf("Expected 7 workers, got %d", cfg.Processing.NumCores)
	}
	if cfg.Processing.MaxVoxels != 1000 {
		t.Errorf("Expected 1000 max voxels, got %d", cfg.Processing.MaxVoxels)
	}
	if cfg.View.Projection != "max" {
		t.Errorf("Expected max projection, got %s", cfg.View.Projection)
	}
	if !cfg.Preview.Enabled {
		t.Error("Expected preview enabled")
	}
	if cfg.Output.Dir != "/tmp/masks" {
		t.Errorf("Expected output dir /tmp/masks, got %s", cfg.Output.Dir)
	}
	// untouched by the environment
	if cfg.Output.Format != "png" {
		t.Errorf("Expected png output, got %s", cfg.Output.Format)
	}

	t.Setenv("DRAW3DROI_WORKERS", "many")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for a non-numeric worker count, got nil")
	}
}

// TestValidate verifies invalid settings are rejected
func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative cores", func(c *Config) { c.Processing.NumCores = -1 }},
		{"negative voxels", func(c *Config) { c.Processing.MaxVoxels = -1 }},
		{"negative gap", func(c *Config) { c.Processing.SliceGap = -1 }},
		{"bad perspective", func(c *Config) { c.View.Perspective = "back" }},
		{"bad projection", func(c *Config) { c.View.Projection = "sum" }},
		{"negative paint", func(c *Config) { c.Preview.PaintValue = -5 }},
		{"bad format", func(c *Config) { c.Output.Format = "gif" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for %s, got nil", tt.name)
			}
		})
	}
}

// TestInitial verifies the view section maps onto a session state
func TestInitial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.View.Perspective = "xz"
	cfg.View.Projection = "variance"
	cfg.Preview.Enabled = true

	state, err := cfg.Initial()
	if err != nil {
		t.Fatalf("Failed to build initial state: %v", err)
	}
	if state.Perspective != session.Top {
		t.Errorf("Expected top perspective, got %s", state.Perspective)
	}
	if state.Projection != projection.Variance {
		t.Errorf("Expected variance projection, got %s", state.Projection)
	}
	if !state.Preview {
		t.Error("Expected preview on")
	}
}

// TestCreateDefaultConfigFile verifies the default file is written
func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Config file does not exist: %s", path)
	}
}
