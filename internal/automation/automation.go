// Package automation runs batches of headless simulations: YAML scripts,
// parameter sweeps over G and survival statistics over seeds.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/trisolaris/internal/config"
	"github.com/san-kum/trisolaris/internal/metrics"
	"github.com/san-kum/trisolaris/internal/scenario"
	"github.com/san-kum/trisolaris/internal/sim"
)

// EscapeDistance is how far from the suns' barycenter the planet may drift
// before a run counts as lost.
const EscapeDistance = 5000

// Script defines a scripted simulation sequence
type Script struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Steps       []ScriptStep `yaml:"steps"`
}

// ScriptStep is a single run in a script. Zero fields inherit the base
// configuration.
type ScriptStep struct {
	Scenario  string  `yaml:"scenario"`
	G         float64 `yaml:"g"`
	TimeScale float64 `yaml:"time_scale"`
	Seed      int64   `yaml:"seed"`
	Steps     int     `yaml:"steps"`
}

// LoadScript loads a script from a YAML file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, step := range script.Steps {
		if step.Scenario == "" {
			continue
		}
		if _, err := scenario.Parse(step.Scenario); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return &script, nil
}

func defaultMetrics(cfg *config.Config) []sim.Metric {
	return []sim.Metric{
		metrics.NewPlanetDistance(),
		metrics.NewEnergyDrift(cfg.G, cfg.Softening),
		metrics.NewStability(EscapeDistance),
	}
}

func runOne(ctx context.Context, cfg *config.Config, steps int) (*sim.Result, error) {
	engine, err := sim.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	for _, m := range defaultMetrics(cfg) {
		engine.AddMetric(m)
	}
	return engine.Run(ctx, steps, 0)
}

// RunScript executes all steps in a script on top of base
func RunScript(ctx context.Context, script *Script, base *config.Config, defaultSteps int) ([]*sim.Result, error) {
	logger := slog.With("component", "automation", "script", script.Name)
	results := make([]*sim.Result, 0, len(script.Steps))

	for i, step := range script.Steps {
		cfg := *base
		if step.Scenario != "" {
			cfg.Preset = step.Scenario
		}
		if step.G != 0 {
			cfg.G = step.G
		}
		if step.TimeScale != 0 {
			cfg.TimeScale = step.TimeScale
		}
		if step.Seed != 0 {
			cfg.Seed = step.Seed
		}
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		n := step.Steps
		if n <= 0 {
			n = defaultSteps
		}

		logger.Info("running step", "step", i+1, "of", len(script.Steps), "scenario", cfg.Preset, "g", cfg.G)
		result, err := runOne(ctx, &cfg, n)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// SweepResult holds the outcome of one G value
type SweepResult struct {
	G             float64
	Survived      bool
	FinalDistance float64
	MaxDrift      float64
	Steps         int
}

// SweepG runs base at n evenly spaced values of G in [gMin, gMax]. Every
// run uses the same seed so only G differs.
func SweepG(ctx context.Context, base *config.Config, gMin, gMax float64, n, steps int) ([]SweepResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("sweep needs at least one value, got %d", n)
	}
	logger := slog.With("component", "automation", "operation", "sweep")

	seed := base.Seed
	if seed == 0 {
		seed = 1
	}

	paramStep := 0.0
	if n > 1 {
		paramStep = (gMax - gMin) / float64(n-1)
	}

	results := make([]SweepResult, 0, n)
	for i := 0; i < n; i++ {
		cfg := *base
		cfg.Seed = seed
		cfg.G = config.Clamp(gMin+float64(i)*paramStep, config.MinG, config.MaxG)

		result, err := runOne(ctx, &cfg, steps)
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			G:             cfg.G,
			Survived:      Survived(result),
			FinalDistance: result.Metrics["planet_distance"],
			MaxDrift:      result.Metrics["energy_drift"],
			Steps:         result.Steps,
		})
		logger.Debug("sweep point", "index", i+1, "of", n, "g", cfg.G)
	}

	return results, nil
}

// Survived reports whether a run stayed finite and kept the planet within
// EscapeDistance on every step.
func Survived(r *sim.Result) bool {
	return len(r.Errors) == 0 && r.Metrics["stability"] >= 1
}

// SurvivalStats counts survived and lost runs
func SurvivalStats(results []*sim.Result) (survived int, lost int) {
	for _, r := range results {
		if Survived(r) {
			survived++
		} else {
			lost++
		}
	}
	return
}
