// Package config provides configuration loading and management for draw3droi.
// It handles loading configuration from YAML files, environment overrides and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"draw3droi/pkg/projection"
	"draw3droi/pkg/session"
	"draw3droi/pkg/volume"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores projection and mask synthesis use
		NumCores int `yaml:"numCores" env:"DRAW3DROI_WORKERS"`

		// MaxVoxels caps the sample count of a single allocated volume
		MaxVoxels int `yaml:"maxVoxels" env:"DRAW3DROI_MAX_VOXELS"`

		// SliceGap is the physical distance between consecutive slices
		SliceGap float64 `yaml:"sliceGap"`

		// PixelSize is the physical size of one pixel within a slice
		PixelSize float64 `yaml:"pixelSize"`

		// Unit names the calibration unit of SliceGap and PixelSize
		Unit string `yaml:"unit"`
	} `yaml:"processing"`

	// Working view parameters
	View struct {
		// Perspective is the initial perspective: xy, xz or yz
		Perspective string `yaml:"perspective"`

		// Projection is the initial projection: none, max, mean, median or variance
		Projection string `yaml:"projection" env:"DRAW3DROI_PROJECTION"`
	} `yaml:"view"`

	// Preview parameters
	Preview struct {
		// Enabled shows the mask preview channel from the start
		Enabled bool `yaml:"enabled" env:"DRAW3DROI_PREVIEW"`

		// PaintValue is the preview value of selected voxels, 0 picks one from the sample type
		PaintValue float64 `yaml:"paintValue"`
	} `yaml:"preview"`

	// Output parameters
	Output struct {
		// Dir is where views and the mask are written
		Dir string `yaml:"dir" env:"DRAW3DROI_OUTPUT_DIR"`

		// Format is the slice image format: png, tif or jpg
		Format string `yaml:"format"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumCores = runtime.NumCPU()
	cfg.Processing.MaxVoxels = volume.DefaultMaxVoxels
	cfg.Processing.SliceGap = 1.0
	cfg.Processing.PixelSize = 1.0

	cfg.View.Perspective = "xy"
	cfg.View.Projection = "none"

	cfg.Preview.Enabled = false
	cfg.Preview.PaintValue = 0

	cfg.Output.Dir = "output"
	cfg.Output.Format = "png"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file and applies environment
// overrides. If the file doesn't exist, the defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from DRAW3DROI_* environment variables.
// Unset variables leave the current value in place.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks names and ranges
func (c *Config) Validate() error {
	if c.Processing.NumCores < 0 {
		return fmt.Errorf("numCores must be non-negative, got %d", c.Processing.NumCores)
	}
	if c.Processing.MaxVoxels < 0 {
		return fmt.Errorf("maxVoxels must be non-negative, got %d", c.Processing.MaxVoxels)
	}
	if c.Processing.SliceGap < 0 || c.Processing.PixelSize < 0 {
		return fmt.Errorf("calibration must be non-negative")
	}
	if _, err := session.ParsePerspective(c.View.Perspective); err != nil {
		return err
	}
	if _, err := projection.ParseMethod(c.View.Projection); err != nil {
		return err
	}
	if c.Preview.PaintValue < 0 {
		return fmt.Errorf("paintValue must be non-negative, got %g", c.Preview.PaintValue)
	}
	switch c.Output.Format {
	case "png", "tif", "tiff", "jpg", "jpeg":
	default:
		return fmt.Errorf("unsupported output format %q", c.Output.Format)
	}
	return nil
}

// Initial returns the session state the view section describes
func (c *Config) Initial() (session.State, error) {
	p, err := session.ParsePerspective(c.View.Perspective)
	if err != nil {
		return session.State{}, err
	}
	m, err := projection.ParseMethod(c.View.Projection)
	if err != nil {
		return session.State{}, err
	}
	return session.DefaultState().WithPerspective(p).WithProjection(m).WithPreview(c.Preview.Enabled), nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
