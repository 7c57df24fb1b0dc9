package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cellcrawl.yaml")
	content := []byte("seed: 99\nmax_cells: 8\nlighting:\n  throttle_frames: 5\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99", cfg.Seed)
	}
	if cfg.MaxCells != 8 {
		t.Errorf("MaxCells = %d, want 8", cfg.MaxCells)
	}
	if cfg.Lighting.ThrottleFrames != 5 {
		t.Errorf("ThrottleFrames = %d, want 5", cfg.Lighting.ThrottleFrames)
	}
	// Untouched keys keep their defaults
	if cfg.Lighting.Attenuation != 0.2 {
		t.Errorf("Attenuation = %v, want 0.2", cfg.Lighting.Attenuation)
	}
	if cfg.CellTilesX != 20 || cfg.CellTilesY != 12 {
		t.Errorf("cell size = %dx%d, want 20x12", cfg.CellTilesX, cfg.CellTilesY)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CELLCRAWL_SEED", "1234")
	t.Setenv("CELLCRAWL_MAX_CELLS", "6")
	t.Setenv("CELLCRAWL_TEMPLATES", "/tmp/cells")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Seed != 1234 {
		t.Errorf("Seed = %d, want 1234", cfg.Seed)
	}
	if cfg.MaxCells != 6 {
		t.Errorf("MaxCells = %d, want 6", cfg.MaxCells)
	}
	if cfg.TemplateDir != "/tmp/cells" {
		t.Errorf("TemplateDir = %q, want /tmp/cells", cfg.TemplateDir)
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("CELLCRAWL_SEED", "not-a-number")

	_, err := Load("")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.CellTilesX = 0 }},
		{"zero tile size", func(c *Config) { c.TileSize = 0 }},
		{"no cells", func(c *Config) { c.MaxCells = 0 }},
		{"zero depth", func(c *Config) { c.Depth = 0 }},
		{"no attenuation", func(c *Config) { c.Lighting.Attenuation = 0 }},
		{"no throttle", func(c *Config) { c.Lighting.ThrottleFrames = 0 }},
		{"sample ratio above one", func(c *Config) { c.Telemetry.SampleRatio = 1.5 }},
	}

	for _, tt := range tests {
		cfg := Default()
		tt.mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: Validate() = %v, want ErrInvalid", tt.name, err)
		}
	}
}
