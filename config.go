package canopy

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// Config holds the tunables consumed by the masking engine and sessions.
//
// A config file is TOML; colors are either "#rrggbb" strings or
// [r, g, b] arrays:
//
//	forest_sentinel        = "#00ff00"
//	not_forest_sentinel    = [0, 0, 0]
//	forest_threshold       = 20
//	forest_validation_rate = 0.8
//	complete_percent       = 0.5
//	result_directory       = "results"
type Config struct {
	// ForestSentinel is the stencil color meaning "forest here".
	ForestSentinel RGB `toml:"forest_sentinel"`

	// NotForestSentinel is the stencil color meaning "not forest".
	NotForestSentinel RGB `toml:"not_forest_sentinel"`

	// ForestThreshold is the largest L1 distance, 0-765, from the reference
	// color that still counts as forest.
	ForestThreshold int `toml:"forest_threshold"`

	// ValidationRate is the minimum fraction, 0-1, of the covered rectangle
	// that must not be off for a placement to be accepted.
	ValidationRate float64 `toml:"forest_validation_rate"`

	// CompletePercent is the progress fraction, 0-1, at which a level is won.
	CompletePercent float64 `toml:"complete_percent"`

	// ResultDirectory is where finished maps are saved.
	ResultDirectory string `toml:"result_directory"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		ForestSentinel:    RGB{R: 0, G: 255, B: 0},
		NotForestSentinel: RGB{R: 0, G: 0, B: 0},
		ForestThreshold:   20,
		ValidationRate:    0.8,
		CompletePercent:   0.5,
		ResultDirectory:   "results",
	}
}

// LoadConfig reads a TOML config file. Keys missing from the file keep
// their DefaultConfig values. The result is validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrIO, path, err)
		}
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: %s: unknown key %q", ErrInvalidConfig, path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every value is within its documented range.
func (c Config) Validate() error {
	switch {
	case c.ForestThreshold < 0 || c.ForestThreshold > 765:
		return fmt.Errorf("%w: forest_threshold %d not in 0-765", ErrInvalidConfig, c.ForestThreshold)
	case c.ValidationRate < 0 || c.ValidationRate > 1:
		return fmt.Errorf("%w: forest_validation_rate %g not in 0-1", ErrInvalidConfig, c.ValidationRate)
	case c.CompletePercent < 0 || c.CompletePercent > 1:
		return fmt.Errorf("%w: complete_percent %g not in 0-1", ErrInvalidConfig, c.CompletePercent)
	case c.ForestSentinel == c.NotForestSentinel:
		return fmt.Errorf("%w: forest and not-forest sentinels are both %s", ErrInvalidConfig, c.ForestSentinel)
	}
	return nil
}

// Classifier returns the color classifier described by c.
func (c Config) Classifier() Classifier {
	return Classifier{
		Forest:    c.ForestSentinel,
		NotForest: c.NotForestSentinel,
		Threshold: c.ForestThreshold,
	}
}
