// Package config provides configuration loading and management for magicroi.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"magicroi/internal/models"
	"magicroi/pkg/magicroi"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Magic wand parameters
	Magic struct {
		// NeighborhoodSize is the half-size of the window used to estimate
		// the local standard deviation around the seed
		NeighborhoodSize int `yaml:"neighborhoodSize"`

		// Factor is the initial sensitivity factor
		Factor float64 `yaml:"factor"`

		// DragScale converts vertical pointer displacement into factor change
		DragScale float64 `yaml:"dragScale"`

		// ClosureTolerance is the physical distance at which the contour closes
		ClosureTolerance float64 `yaml:"closureTolerance"`
	} `yaml:"magic"`

	// Input parameters
	Input struct {
		// View is the slicing orientation: axial, sagittal or coronal
		View string `yaml:"view"`

		// PixelSpacing is the in-plane pixel size in mm
		PixelSpacing [2]float64 `yaml:"pixelSpacing"`

		// SliceGap is the physical distance between consecutive slices in mm
		SliceGap float64 `yaml:"sliceGap"`
	} `yaml:"input"`

	// Output parameters
	Output struct {
		// OverlayFile is where the slice with the region drawn on it is saved
		OverlayFile string `yaml:"overlayFile"`

		// PlotFile is where the contour plot is saved
		PlotFile string `yaml:"plotFile"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Magic.NeighborhoodSize = magicroi.DefaultNeighborhoodSize
	cfg.Magic.Factor = magicroi.DefaultFactor
	cfg.Magic.DragScale = magicroi.DefaultDragScale
	cfg.Magic.ClosureTolerance = magicroi.DefaultTolerance

	cfg.Input.View = models.Axial.String()
	cfg.Input.PixelSpacing = [2]float64{1.0, 1.0}
	cfg.Input.SliceGap = 1.0

	cfg.Output.OverlayFile = "roi_overlay.png"
	cfg.Output.PlotFile = ""
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks that the configuration can drive a segmentation
func (c *Config) Validate() error {
	if _, err := models.ParseView(c.Input.View); err != nil {
		return err
	}
	if c.Input.PixelSpacing[0] <= 0 || c.Input.PixelSpacing[1] <= 0 {
		return fmt.Errorf("pixel spacing must be positive, got %v", c.Input.PixelSpacing)
	}
	if c.Input.SliceGap <= 0 {
		return fmt.Errorf("slice gap must be positive, got %v", c.Input.SliceGap)
	}
	if c.Magic.DragScale <= 0 {
		return fmt.Errorf("drag scale must be positive, got %v", c.Magic.DragScale)
	}
	spacing := magicroi.Point{X: c.Input.PixelSpacing[0], Y: c.Input.PixelSpacing[1], Z: c.Input.SliceGap}
	return c.Options().Validate(spacing)
}

// Options returns the segmentation options described by the configuration
func (c *Config) Options() magicroi.Options {
	return magicroi.Options{
		NeighborhoodSize: c.Magic.NeighborhoodSize,
		Factor:           c.Magic.Factor,
		Tolerance:        c.Magic.ClosureTolerance,
	}
}

// LoadConfig reads configuration from a YAML file over the defaults and
// validates the result. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// SaveConfig validates cfg and writes it as YAML, creating parent directories
func SaveConfig(cfg *Config, configPath string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(configPath, data, 0644)
}

// CreateDefaultConfigFile writes the default configuration to configPath
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
