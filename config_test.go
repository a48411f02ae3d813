package canopy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "canopy.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	c := cfg.Classifier()
	if c.Forest != (RGB{0, 255, 0}) || c.NotForest != (RGB{0, 0, 0}) || c.Threshold != 20 {
		t.Errorf("Classifier() = %+v", c)
	}
	if cfg.ValidationRate != 0.8 || cfg.CompletePercent != 0.5 || cfg.ResultDirectory != "results" {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
forest_sentinel = "#10c020"
not_forest_sentinel = [255, 0, 255]
forest_threshold = 35
forest_validation_rate = 0.65
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.ForestSentinel != (RGB{0x10, 0xc0, 0x20}) {
		t.Errorf("ForestSentinel = %v", cfg.ForestSentinel)
	}
	if cfg.NotForestSentinel != (RGB{255, 0, 255}) {
		t.Errorf("NotForestSentinel = %v", cfg.NotForestSentinel)
	}
	if cfg.ForestThreshold != 35 || cfg.ValidationRate != 0.65 {
		t.Errorf("threshold = %d, rate = %g", cfg.ForestThreshold, cfg.ValidationRate)
	}
	// Keys absent from the file keep their defaults.
	if cfg.CompletePercent != 0.5 || cfg.ResultDirectory != "results" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"threshold range", "forest_threshold = 800", ErrInvalidConfig},
		{"negative threshold", "forest_threshold = -1", ErrInvalidConfig},
		{"rate range", "forest_validation_rate = 1.2", ErrInvalidConfig},
		{"complete range", "complete_percent = -0.1", ErrInvalidConfig},
		{"bad color", `forest_sentinel = "leafy"`, ErrInvalidConfig},
		{"same sentinels", `forest_sentinel = "#000000"`, ErrInvalidConfig},
		{"unknown key", "forest_treshold = 20", ErrInvalidConfig},
		{"syntax", "forest_threshold = = 3", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, ErrIO) {
		t.Errorf("LoadConfig() error = %v, want ErrIO", err)
	}
}
