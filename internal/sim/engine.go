package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/trisolaris/internal/config"
	"github.com/san-kum/trisolaris/internal/dynamo"
	"github.com/san-kum/trisolaris/internal/metrics"
	"github.com/san-kum/trisolaris/internal/physics"
	"github.com/san-kum/trisolaris/internal/scenario"
	"github.com/san-kum/trisolaris/internal/view"
)

// Engine owns the working body set and the camera. It is not safe for
// concurrent use; only Snapshot may be called from other goroutines.
type Engine struct {
	cfg       config.Config
	preset    scenario.Preset
	seed      int64
	rng       *rand.Rand
	sampler   physics.TrailSampler
	bodies    dynamo.Bodies
	cam       view.Camera
	running   bool
	width     float64
	height    float64
	lastTick  time.Time
	fps       float64
	steps     int
	invalidAt int

	publisher *Publisher
	metrics   []Metric
	collector *metrics.Collector
	now       func() time.Time
	log       *slog.Logger
}

type Option func(*Engine)

// WithSampler replaces the random trail sampler, mostly for tests.
func WithSampler(s physics.TrailSampler) Option {
	return func(e *Engine) { e.sampler = s }
}

func WithCollector(c *metrics.Collector) Option {
	return func(e *Engine) { e.collector = c }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := *cfg
	if err := c.Validate(); err != nil {
		return nil, err
	}

	preset, err := scenario.Parse(c.Preset)
	if err != nil {
		return nil, err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		cfg:       c,
		preset:    preset,
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
		cam:       view.NewCamera(),
		width:     c.Width,
		height:    c.Height,
		invalidAt: -1,
		publisher: NewPublisher(c.PublishInterval),
		now:       time.Now,
		log:       slog.With("component", "engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sampler == nil {
		e.sampler = physics.NewRandomSampler(e.rng)
	}

	e.bodies = scenario.Generate(preset, e.width, e.height, e.rng)
	e.publisher.Publish(e.now(), e.bodies)
	return e, nil
}

func (e *Engine) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Engine) AddObserver(o Observer) { e.publisher.AddObserver(o) }

// Tick advances one animation frame: FPS estimate, camera rotation from the
// held keys, and one integrator step plus throttled publication if running.
func (e *Engine) Tick(now time.Time, keys view.KeySet) {
	if !e.lastTick.IsZero() {
		if delta := now.Sub(e.lastTick).Seconds(); delta > 0 {
			e.fps = 1 / delta
			e.collector.SetFPS(e.fps)
		}
	}
	e.lastTick = now

	e.cam.Rotate(keys)

	if !e.running {
		return
	}
	e.step()

	if e.publisher.Maybe(now, e.bodies) {
		e.collector.RecordSnapshot()
		for _, m := range e.metrics {
			e.collector.SetMetric(m.Name(), m.Value())
		}
	}
}

func (e *Engine) step() {
	e.bodies = physics.Step(e.bodies, e.cfg.G, e.cfg.Softening, e.cfg.Dt(), e.sampler)
	e.steps++

	valid := e.bodies.IsValid()
	e.collector.RecordStep(valid)
	if !valid && e.invalidAt < 0 {
		e.invalidAt = e.steps
		e.log.Warn("body set became non-finite", "preset", e.preset, "step", e.steps, "g", e.cfg.G)
	}

	for _, m := range e.metrics {
		m.Observe(e.bodies)
	}
}

// Run drives the engine headlessly. With interval > 0 it ticks on a wall-clock
// ticker; otherwise it steps as fast as possible. steps <= 0 runs until ctx
// is done.
func (e *Engine) Run(ctx context.Context, steps int, interval time.Duration) (*Result, error) {
	e.SetRunning(true)
	defer e.SetRunning(false)

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	start := e.steps
	for steps <= 0 || e.steps-start < steps {
		if tick != nil {
			select {
			case <-ctx.Done():
				return e.result(), ctx.Err()
			case now := <-tick:
				e.Tick(now, view.KeySet{})
			}
			continue
		}

		select {
		case <-ctx.Done():
			return e.result(), ctx.Err()
		default:
		}
		e.Tick(e.now(), view.KeySet{})
	}

	e.publisher.Publish(e.now(), e.bodies)
	return e.result(), nil
}

func (e *Engine) result() *Result {
	r := &Result{
		Preset:  e.preset.Slug(),
		Seed:    e.seed,
		Steps:   e.steps,
		Final:   e.bodies.Clone(),
		Metrics: e.MetricValues(),
	}
	if e.invalidAt >= 0 {
		r.Errors = append(r.Errors, &dynamo.StepError{Step: e.invalidAt, Wrapped: dynamo.ErrInvalidState})
	}
	return r
}

// Reset stops the run and regenerates the preset. The camera is kept and the
// new set is published at once.
func (e *Engine) Reset(preset scenario.Preset) {
	e.running = false
	e.preset = preset
	e.bodies = scenario.Generate(preset, e.width, e.height, e.rng)
	e.invalidAt = -1
	for _, m := range e.metrics {
		m.Reset()
	}
	e.publisher.Publish(e.now(), e.bodies)
	e.log.Debug("reset", "preset", preset)
}

func (e *Engine) SetRunning(running bool) { e.running = running }
func (e *Engine) Running() bool           { return e.running }
func (e *Engine) Toggle()                 { e.running = !e.running }

func (e *Engine) SetG(g float64) {
	e.cfg.G = config.Clamp(g, config.MinG, config.MaxG)
	for _, m := range e.metrics {
		if gc, ok := m.(gCoupled); ok {
			gc.SetG(e.cfg.G)
		}
	}
}

func (e *Engine) G() float64 { return e.cfg.G }

func (e *Engine) SetTimeScale(s float64) {
	e.cfg.TimeScale = config.Clamp(s, config.MinTimeScale, config.MaxTimeScale)
}

func (e *Engine) TimeScale() float64 { return e.cfg.TimeScale }

// Resize changes the viewport used for rendering and later resets. Bodies
// are not moved.
func (e *Engine) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width, e.height = width, height
}

func (e *Engine) Size() (float64, float64) { return e.width, e.height }

func (e *Engine) Camera() *view.Camera { return &e.cam }

// Bodies returns the working set. Callers must not modify it.
func (e *Engine) Bodies() dynamo.Bodies { return e.bodies }

func (e *Engine) Snapshot() dynamo.Bodies { return e.publisher.Snapshot() }

func (e *Engine) Frame() []view.DrawItem {
	return view.BuildFrame(e.cam, e.bodies, e.width, e.height)
}

func (e *Engine) FPS() float64            { return e.fps }
func (e *Engine) Steps() int              { return e.steps }
func (e *Engine) Seed() int64             { return e.seed }
func (e *Engine) Preset() scenario.Preset { return e.preset }
func (e *Engine) Config() config.Config   { return e.cfg }

// MetricValues reads every attached metric by name.
func (e *Engine) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (e *Engine) String() string {
	return fmt.Sprintf("%s g=%.1f x%.1f step=%d", e.preset, e.cfg.G, e.cfg.TimeScale, e.steps)
}
