package oracle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/trisolaris/internal/config"
	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/metrics"
	"github.com/san-kum/trisolaris/internal/scenario"
)

type fakeGenerator struct {
	calls   int
	prompts []string
	reply   string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

const stableReply = `{"era":"Stable Era","description":"Three suns rest.","recommendation":"Rehydrate"}`

func TestConsultWithoutPlanet(t *testing.T) {
	gen := &fakeGenerator{reply: stableReply}
	o := New(gen, 100, nil)

	bodies := scenario.Generate(scenario.StableFigure8, 1200, 800, nil).Suns()
	got := o.Consult(context.Background(), bodies)

	if got != Destroyed {
		t.Errorf("expected Destroyed, got %+v", got)
	}
	if gen.calls != 0 {
		t.Errorf("expected no generator calls, got %d", gen.calls)
	}
	want := Reading{Era: "Chaotic Era", Description: "Trisolaris has been destroyed.", Recommendation: "Mourn."}
	if got != want {
		t.Errorf("unexpected destroyed reading %+v", got)
	}
}

func TestConsultFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"transport error", "", errors.New("connection reset")},
		{"empty", "   ", nil},
		{"not json", "the suns are angry", nil},
		{"unknown era", `{"era":"Golden Era","description":"x","recommendation":"y"}`, nil},
		{"missing recommendation", `{"era":"Stable Era","description":"x"}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{reply: tt.reply, err: tt.err}
			o := New(gen, 100, nil)

			got := o.Consult(context.Background(), scenario.Generate(scenario.Hierarchical, 1200, 800, nil))
			if got != Silent {
				t.Errorf("expected Silent, got %+v", got)
			}
			if gen.calls != 1 {
				t.Errorf("expected 1 generator call, got %d", gen.calls)
			}
		})
	}
}

func TestConsultParsesReading(t *testing.T) {
	gen := &fakeGenerator{reply: stableReply}
	c := metrics.NewCollector()
	o := New(gen, 100, c)

	got := o.Consult(context.Background(), scenario.Generate(scenario.StableFigure8, 1200, 800, nil))

	want := Reading{Era: StableEra, Description: "Three suns rest.", Recommendation: "Rehydrate"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if n := testutil.CollectAndCount(c.Registry(), "trisolaris_oracle_consults_total"); n != 1 {
		t.Errorf("expected one consult series, got %d", n)
	}
}

func TestConsultThrottled(t *testing.T) {
	gen := &fakeGenerator{reply: stableReply}
	o := New(gen, 0.001, nil)
	bodies := scenario.Generate(scenario.StableFigure8, 1200, 800, nil)

	if got := o.Consult(context.Background(), bodies); got.Era != StableEra {
		t.Fatalf("first consult should pass, got %+v", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if got := o.Consult(ctx, bodies); got != Silent {
		t.Errorf("expected Silent while throttled, got %+v", got)
	}
	if gen.calls != 1 {
		t.Errorf("expected 1 generator call, got %d", gen.calls)
	}
}

func TestConsultWithoutCredentials(t *testing.T) {
	o := NewFromConfig(context.Background(), config.OracleConfig{RatePerSec: 100}, nil)
	got := o.Consult(context.Background(), scenario.Generate(scenario.StableFigure8, 1200, 800, nil))
	if got != Silent {
		t.Errorf("expected Silent, got %+v", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	planet := dynamo.Body{ID: scenario.PlanetID, Position: dynamo.Vec2{X: 100.4, Y: -20.6}, IsPlanet: true}
	suns := dynamo.Bodies{
		{ID: "sun1", Position: dynamo.Vec2{X: 103.4, Y: -16.6}, Mass: 1000, Color: "#fbbf24"},
		{ID: "sun2", Position: dynamo.Vec2{X: 100.4, Y: 79.4}, Mass: 500.2, Color: "#f87171"},
	}

	prompt := BuildPrompt(planet, suns)

	for _, want := range []string{
		"Planet Position: (100, -21)",
		"Sun 1 (#fbbf24): 5 units away. Mass: 1000.",
		"Sun 2 (#f87171): 100 units away. Mass: 500.",
		"Stable Era",
		"Chaotic Era",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestParseReadingErrors(t *testing.T) {
	if _, err := ParseReading(""); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
	if _, err := ParseReading(`{"era":"x","description":"d","recommendation":"r"}`); !errors.Is(err, ErrInvalidReading) {
		t.Errorf("expected ErrInvalidReading, got %v", err)
	}
}
