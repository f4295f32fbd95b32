package metrics

import (
	"github.com/san-kum/trisolaris/internal/dynamo"
)

// Stability is the fraction of observed steps whose state was finite and
// whose planet stayed within threshold of the suns' barycenter.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(bodies dynamo.Bodies) {
	s.samples++
	if !bodies.IsValid() {
		s.violations++
		return
	}
	if d, ok := planetDistance(bodies); ok && d > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
