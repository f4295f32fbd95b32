package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/trisolaris/internal/config"
	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/sim"
)

const script = `
name: tour
description: every scenario once
steps:
  - scenario: figure8
    steps: 20
  - scenario: hierarchical
    g: 2.0
    seed: 3
  - scenario: collision
    time_scale: 9
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScript(t *testing.T) {
	s, err := LoadScript(writeScript(t, script))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if s.Name != "tour" || len(s.Steps) != 3 {
		t.Fatalf("unexpected script %+v", s)
	}

	results, err := RunScript(context.Background(), s, config.DefaultConfig(), 10)
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	want := []struct {
		preset string
		steps  int
	}{{"figure8", 20}, {"hierarchical", 10}, {"collision", 10}}
	for i, w := range want {
		if results[i].Preset != w.preset || results[i].Steps != w.steps {
			t.Errorf("step %d: got %s/%d, want %s/%d", i+1, results[i].Preset, results[i].Steps, w.preset, w.steps)
		}
	}
	if results[1].Seed != 3 {
		t.Errorf("expected seed 3, got %d", results[1].Seed)
	}
}

func TestLoadScriptRejectsUnknownScenario(t *testing.T) {
	_, err := LoadScript(writeScript(t, "steps:\n  - scenario: binary\n"))
	if !errors.Is(err, dynamo.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestSweepG(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Preset = "figure8"

	results, err := SweepG(context.Background(), cfg, 0.5, 2.5, 3, 10)
	if err != nil {
		t.Fatalf("SweepG: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 points, got %d", len(results))
	}
	for i, g := range []float64{0.5, 1.5, 2.5} {
		if results[i].G != g {
			t.Errorf("point %d: G = %v, want %v", i, results[i].G, g)
		}
		if results[i].Steps != 10 {
			t.Errorf("point %d: steps = %d", i, results[i].Steps)
		}
	}

	if _, err := SweepG(context.Background(), cfg, 1, 2, 0, 10); err == nil {
		t.Error("expected error for empty sweep")
	}
}

func TestSurvivalStats(t *testing.T) {
	results := []*sim.Result{
		{Metrics: map[string]float64{"stability": 1}},
		{Metrics: map[string]float64{"stability": 0.5}},
		{Metrics: map[string]float64{"stability": 1}, Errors: []error{dynamo.ErrInvalidState}},
	}
	survived, lost := SurvivalStats(results)
	if survived != 1 || lost != 2 {
		t.Errorf("got %d survived, %d lost", survived, lost)
	}
}
