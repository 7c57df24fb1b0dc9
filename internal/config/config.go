// Package config holds the world core configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible level generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64 `yaml:"seed"`

	// TemplateDir is the room template directory. Empty selects the embedded templates.
	TemplateDir string `yaml:"template_dir"`

	// Cell size in tiles; every template must match it exactly.
	CellTilesX int `yaml:"cell_tiles_x"`
	CellTilesY int `yaml:"cell_tiles_y"`

	// TileSize is the world size of one tile.
	TileSize float64 `yaml:"tile_size"`

	// MaxCells bounds the assembled graph.
	MaxCells int `yaml:"max_cells"`

	// Depth scales enemy stats and xp rewards.
	Depth int `yaml:"depth"`

	Lighting LightingConfig `yaml:"lighting"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LightingConfig tunes the dynamic light field.
type LightingConfig struct {
	Attenuation      float64 `yaml:"attenuation"`
	AmbientColor     string  `yaml:"ambient_color"`
	AmbientIntensity float64 `yaml:"ambient_intensity"`
	TorchIntensity   float64 `yaml:"torch_intensity"`
	OrbIntensity     float64 `yaml:"orb_intensity"`
	PlayerIntensity  float64 `yaml:"player_intensity"`
	// ThrottleFrames recomputes the field once every N frames.
	ThrottleFrames int `yaml:"throttle_frames"`
}

// LogConfig selects logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TelemetryConfig tunes tracing. The exporter itself is configured through
// the standard OTEL_EXPORTER_OTLP_* variables.
type TelemetryConfig struct {
	// SampleRatio is the fraction of root spans kept, in [0,1].
	SampleRatio float64 `yaml:"sample_ratio"`
}

// MetricsConfig controls the prometheus endpoint. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the stock configuration: 20×12 tile cells of 64 units,
// at most 20 cells, light attenuation 0.2 recomputed every 3rd frame.
func Default() Config {
	return Config{
		CellTilesX: 20,
		CellTilesY: 12,
		TileSize:   64,
		MaxCells:   20,
		Depth:      1,
		Lighting: LightingConfig{
			Attenuation:      0.2,
			AmbientColor:     "#7A9EB0",
			AmbientIntensity: 0.2,
			TorchIntensity:   0.9,
			OrbIntensity:     1.0,
			PlayerIntensity:  1.0,
			ThrottleFrames:   3,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			SampleRatio: 1,
		},
	}
}

// Load reads a YAML file over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CELLCRAWL_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: CELLCRAWL_SEED=%q: %v", ErrInvalid, v, err)
		}
		c.Seed = seed
	}
	if v := os.Getenv("CELLCRAWL_TEMPLATES"); v != "" {
		c.TemplateDir = v
	}
	if v := os.Getenv("CELLCRAWL_MAX_CELLS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CELLCRAWL_MAX_CELLS=%q: %v", ErrInvalid, v, err)
		}
		c.MaxCells = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

// Validate checks the values the core cannot run without.
func (c Config) Validate() error {
	switch {
	case c.CellTilesX <= 0 || c.CellTilesY <= 0:
		return fmt.Errorf("%w: cell size %dx%d", ErrInvalid, c.CellTilesX, c.CellTilesY)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile_size %v", ErrInvalid, c.TileSize)
	case c.MaxCells < 1:
		return fmt.Errorf("%w: max_cells %d", ErrInvalid, c.MaxCells)
	case c.Depth < 1:
		return fmt.Errorf("%w: depth %d", ErrInvalid, c.Depth)
	case c.Lighting.Attenuation <= 0:
		return fmt.Errorf("%w: lighting.attenuation must be positive", ErrInvalid)
	case c.Lighting.ThrottleFrames < 1:
		return fmt.Errorf("%w: lighting.throttle_frames %d", ErrInvalid, c.Lighting.ThrottleFrames)
	case c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1:
		return fmt.Errorf("%w: telemetry.sample_ratio %v", ErrInvalid, c.Telemetry.SampleRatio)
	}
	return nil
}
