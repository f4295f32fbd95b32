package physics

import (
	"math/rand"
	"time"
)

// TrailProbability is the chance that a body records its position on a step.
const TrailProbability = 0.3

// TrailSampler decides, once per body per step, whether to record a trail point.
type TrailSampler interface {
	Sample() bool
}

type constSampler bool

func (c constSampler) Sample() bool { return bool(c) }

var (
	Always TrailSampler = constSampler(true)
	Never  TrailSampler = constSampler(false)
)

// RandomSampler records with probability TrailProbability.
type RandomSampler struct {
	rng *rand.Rand
}

// NewRandomSampler wraps rng; a nil rng gets a time-seeded source.
func NewRandomSampler(rng *rand.Rand) *RandomSampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomSampler{rng: rng}
}

func (s *RandomSampler) Sample() bool {
	return s.rng.Float64() < TrailProbability
}
