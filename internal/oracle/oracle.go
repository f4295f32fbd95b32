// Package oracle asks a language model whether Trisolaris is in a stable or
// chaotic era. Every failure resolves to a fixed reading; Consult never errors.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/san-kum/trisolaris/internal/config"
	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/metrics"
)

const (
	StableEra  = "Stable Era"
	ChaoticEra = "Chaotic Era"
)

type Reading struct {
	Era            string `json:"era"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

var (
	// Destroyed is returned without a remote call when no planet remains.
	Destroyed = Reading{
		Era:            ChaoticEra,
		Description:    "Trisolaris has been destroyed.",
		Recommendation: "Mourn.",
	}

	// Silent stands in for any transport, throttle or parse failure.
	Silent = Reading{
		Era:            ChaoticEra,
		Description:    "The Oracle is silent. The magnetic interference from the suns is too strong.",
		Recommendation: "Wait",
	}
)

var (
	ErrEmptyResponse  = errors.New("oracle: empty response")
	ErrInvalidReading = errors.New("oracle: invalid reading")
	ErrNoCredentials  = errors.New("oracle: no API key configured")
)

// Generator turns a prompt into the model's raw JSON answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// unavailable is used when no credentials exist, so every consult is Silent.
type unavailable struct{}

func (unavailable) Generate(context.Context, string) (string, error) {
	return "", ErrNoCredentials
}

type Oracle struct {
	gen       Generator
	limiter   *rate.Limiter
	collector *metrics.Collector
	log       *slog.Logger
}

// New wraps gen with a limiter allowing ratePerSec consults, burst 1.
func New(gen Generator, ratePerSec float64, collector *metrics.Collector) *Oracle {
	if gen == nil {
		gen = unavailable{}
	}
	if ratePerSec <= 0 {
		ratePerSec = 0.5
	}
	return &Oracle{
		gen:       gen,
		limiter:   rate.NewLimiter(rate.Limit(ratePerSec), 1),
		collector: collector,
		log:       slog.With("component", "oracle"),
	}
}

// NewFromConfig builds a Gemini-backed oracle, or a permanently silent one
// when cfg carries no API key.
func NewFromConfig(ctx context.Context, cfg config.OracleConfig, collector *metrics.Collector) *Oracle {
	var gen Generator = unavailable{}
	if cfg.APIKey != "" {
		g, err := NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			slog.Warn("gemini client unavailable", "component", "oracle", "error", err)
		} else {
			gen = g
		}
	}
	return New(gen, cfg.RatePerSec, collector)
}

// Consult reads the sky for bodies. Callers should pass a snapshot they own.
func (o *Oracle) Consult(ctx context.Context, bodies dynamo.Bodies) Reading {
	planet, ok := bodies.Planet()
	if !ok {
		o.log.Info("skipping remote consult", "error", dynamo.ErrNoPlanet)
		o.collector.RecordConsult("destroyed")
		return Destroyed
	}

	if err := o.limiter.Wait(ctx); err != nil {
		o.log.Warn("oracle throttled", "error", err)
		o.collector.RecordConsult("fallback")
		return Silent
	}

	text, err := o.gen.Generate(ctx, BuildPrompt(planet, bodies.Suns()))
	if err != nil {
		o.log.Error("oracle failed", "error", err)
		o.collector.RecordConsult("fallback")
		return Silent
	}

	reading, err := ParseReading(text)
	if err != nil {
		o.log.Error("oracle failed", "error", err, "response", text)
		o.collector.RecordConsult("fallback")
		return Silent
	}

	o.collector.RecordConsult("ok")
	o.log.Debug("oracle consulted", "era", reading.Era)
	return reading
}

// BuildPrompt describes the planet position and each sun's distance and mass.
func BuildPrompt(planet dynamo.Body, suns dynamo.Bodies) string {
	var b strings.Builder
	b.WriteString("You are the Oracle of Trisolaris (from the Three Body Problem).\n")
	b.WriteString("Analyze the current astronomical data of our world.\n\n")
	b.WriteString("Data:\n")
	fmt.Fprintf(&b, "Planet Position: (%.0f, %.0f)\n", planet.Position.X, planet.Position.Y)
	for i, sun := range suns {
		dist := sun.Position.Sub(planet.Position).Len()
		fmt.Fprintf(&b, "Sun %d (%s): %.0f units away. Mass: %.0f.\n", i+1, sun.Color, dist, sun.Mass)
	}
	b.WriteString("\nDetermine if we are in a Stable Era (suns follow a regular pattern, temperate climate) ")
	b.WriteString("or a Chaotic Era (unpredictable sun movement, extreme heat/cold).\n")
	b.WriteString("Provide a cryptic, atmospheric description of the sky and the fate of civilization.\n")
	b.WriteString(`Provide a recommendation (e.g., "Dehydrate", "Rehydrate", "Develop Industry").` + "\n")
	return b.String()
}

// ParseReading decodes and validates the model's JSON answer.
func ParseReading(text string) (Reading, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reading{}, ErrEmptyResponse
	}

	var r Reading
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return Reading{}, fmt.Errorf("decode reading: %w", err)
	}
	if r.Era != StableEra && r.Era != ChaoticEra {
		return Reading{}, fmt.Errorf("%w: era %q", ErrInvalidReading, r.Era)
	}
	if r.Description == "" || r.Recommendation == "" {
		return Reading{}, fmt.Errorf("%w: missing description or recommendation", ErrInvalidReading)
	}
	return r, nil
}
