// Package config loads optional YAML configuration for palgen.
// Command-line flags always take precedence over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/palgen/palgen/internal/colour"
)

// ExtractConfig holds defaults for the extract command.
type ExtractConfig struct {
	// Colours is the histogram size requested from the extractor.
	Colours int `yaml:"colours"`
	// HistFile is the default histogram path.
	HistFile string `yaml:"hist_file"`
}

// ThemeConfig holds defaults for the theme command.
type ThemeConfig struct {
	// Mix is the proportion of pure attractor colour blended into each
	// chosen theme colour. 0 keeps extracted colours untouched.
	Mix float64 `yaml:"mix"`
	// ColourFile is the default theme output path.
	ColourFile string `yaml:"colour_file"`
}

// RenderConfig holds swatch geometry for the render command.
type RenderConfig struct {
	SwatchWidth  int    `yaml:"swatch_width"`
	SwatchHeight int    `yaml:"swatch_height"`
	Margin       int    `yaml:"margin"`
	Font         string `yaml:"font"`
	PaletteFile  string `yaml:"palette_file"`
}

// Config is the root configuration document.
type Config struct {
	Extract ExtractConfig `yaml:"extract"`
	Theme   ThemeConfig   `yaml:"theme"`
	Render  RenderConfig  `yaml:"render"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Extract: ExtractConfig{
			Colours:  colour.DefaultColourCount,
			HistFile: "color_hist.txt",
		},
		Theme: ThemeConfig{
			Mix:        0.25,
			ColourFile: "colors.json",
		},
		Render: RenderConfig{
			SwatchWidth:  180,
			SwatchHeight: 90,
			Margin:       10,
			PaletteFile:  "palette.png",
		},
	}
}

// DefaultPath returns the conventional config location
// ($XDG_CONFIG_HOME/palgen/config.yaml), or empty if no home is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "palgen", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "palgen", "config.yaml")
}

// Load reads a YAML config file, layering it over the defaults.
// A missing file at the default location is not an error; a missing file
// given explicitly is.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - User-specified config path
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.Extract.Colours < 1 || c.Extract.Colours > colour.MaxColourCount {
		return fmt.Errorf("extract.colours must be 1-%d, got %d", colour.MaxColourCount, c.Extract.Colours)
	}
	if c.Theme.Mix < 0 || c.Theme.Mix > 1 {
		return fmt.Errorf("theme.mix must be between 0 and 1, got %v", c.Theme.Mix)
	}
	if c.Render.SwatchWidth < 1 || c.Render.SwatchHeight < 1 {
		return fmt.Errorf("render swatch size must be positive, got %dx%d",
			c.Render.SwatchWidth, c.Render.SwatchHeight)
	}
	if c.Render.Margin < 0 {
		return fmt.Errorf("render.margin must not be negative, got %d", c.Render.Margin)
	}
	return nil
}
