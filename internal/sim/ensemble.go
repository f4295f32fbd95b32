package sim

import (
	"context"
	"sync"

	"github.com/san-kum/trisolaris/internal/config"
)

// Ensemble runs the same configuration under consecutive seeds in parallel.
// It is mostly useful for Chaotic Random, where the seed picks the bodies.
type Ensemble struct {
	cfg       config.Config
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

// NewEnsemble prepares numRuns engines seeded from seedStart upward. The
// metrics factory is called once per run so no metric is shared.
func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64, metrics func() []Metric) *Ensemble {
	if seedStart == 0 {
		seedStart = 1
	}
	return &Ensemble{cfg: *cfg, numRuns: numRuns, seedStart: seedStart, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, steps int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			engine, err := NewEngine(&cfgCopy)
			if err != nil {
				errs[idx] = err
				return
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					engine.AddMetric(m)
				}
			}

			results[idx], errs[idx] = engine.Run(ctx, steps, 0)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
