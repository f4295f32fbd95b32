package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

const (
	DefaultG               = 1.5
	DefaultTimeScale       = 1.0
	DefaultSoftening       = 1000.0
	DefaultBaseDt          = 0.1
	DefaultWidth           = 1200
	DefaultHeight          = 800
	DefaultFPS             = 60
	DefaultPublishInterval = 500 * time.Millisecond
	DefaultOracleModel     = "gemini-2.5-flash"
	DefaultServeAddr       = ":8080"
	DefaultDataDir         = ".trisolaris"
	DefaultTheme           = "trisolaris"

	MinG, MaxG                 = 0.1, 5.0
	MinTimeScale, MaxTimeScale = 0.1, 3.0
)

type Config struct {
	Preset          string        `yaml:"preset"`
	G               float64       `yaml:"g"`
	TimeScale       float64       `yaml:"time_scale"`
	Softening       float64       `yaml:"softening"`
	BaseDt          float64       `yaml:"base_dt"`
	Width           float64       `yaml:"width"`
	Height          float64       `yaml:"height"`
	Seed            int64         `yaml:"seed"`
	FPS             int           `yaml:"fps"`
	PublishInterval time.Duration `yaml:"publish_interval"`
	DataDir         string        `yaml:"data_dir"`
	Theme           string        `yaml:"theme"`
	Oracle          OracleConfig  `yaml:"oracle"`
	Log             LogConfig     `yaml:"log"`
	Serve           ServeConfig   `yaml:"serve"`
}

type OracleConfig struct {
	Model      string  `yaml:"model"`
	RatePerSec float64 `yaml:"rate_per_sec"`
	APIKey     string  `yaml:"-"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
	File  string `yaml:"file"`
}

type ServeConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:          "figure8",
		G:               DefaultG,
		TimeScale:       DefaultTimeScale,
		Softening:       DefaultSoftening,
		BaseDt:          DefaultBaseDt,
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		FPS:             DefaultFPS,
		PublishInterval: DefaultPublishInterval,
		DataDir:         DefaultDataDir,
		Theme:           DefaultTheme,
		Oracle: OracleConfig{
			Model:      DefaultOracleModel,
			RatePerSec: 0.5,
		},
		Log: LogConfig{
			Level: "info",
			File:  "trisolaris.log",
		},
		Serve: ServeConfig{
			Addr:           DefaultServeAddr,
			AllowedOrigins: []string{"*"},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadEnv reads an optional .env file and overlays environment settings.
func (c *Config) LoadEnv() {
	// a missing .env is the common case
	_ = godotenv.Load()

	if lvl := os.Getenv("TRISOLARIS_LOG_LEVEL"); lvl != "" {
		c.Log.Level = lvl
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Oracle.APIKey = key
	} else if key := os.Getenv("API_KEY"); key != "" {
		c.Oracle.APIKey = key
	}
}

// Validate clamps the physics knobs to their UI ranges and rejects unusable
// dimensions or rates. Rejections wrap dynamo.ErrParameterBounds.
//
// Softening and base_dt are tunable, but the presets are tuned for the
// defaults of 1000 and 0.1. Softening must stay positive: at zero the force
// on coincident bodies divides by zero.
func (c *Config) Validate() error {
	c.G = Clamp(c.G, MinG, MaxG)
	c.TimeScale = Clamp(c.TimeScale, MinTimeScale, MaxTimeScale)
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas must be positive, got %gx%g", dynamo.ErrParameterBounds, c.Width, c.Height)
	}
	if c.Softening <= 0 {
		return fmt.Errorf("%w: softening must be positive, got %g", dynamo.ErrParameterBounds, c.Softening)
	}
	if c.BaseDt <= 0 {
		return fmt.Errorf("%w: base_dt must be positive, got %g", dynamo.ErrParameterBounds, c.BaseDt)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", dynamo.ErrParameterBounds, c.FPS)
	}
	if c.PublishInterval <= 0 {
		return fmt.Errorf("%w: publish_interval must be positive, got %s", dynamo.ErrParameterBounds, c.PublishInterval)
	}
	if c.Oracle.RatePerSec <= 0 {
		return fmt.Errorf("%w: oracle.rate_per_sec must be positive, got %g", dynamo.ErrParameterBounds, c.Oracle.RatePerSec)
	}
	return nil
}

// Dt is the integrator step for the current time scale.
func (c *Config) Dt() float64 {
	return c.BaseDt * c.TimeScale
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
