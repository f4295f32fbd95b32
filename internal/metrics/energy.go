package metrics

import (
	"math"

	"github.com/san-kum/trisolaris/internal/dynamo"
)

// EnergyDrift tracks the maximum relative drift |E-E0|/|E0| over a run.
// Explicit Euler does not conserve energy, so this only bounds the error.
type EnergyDrift struct {
	name          string
	g, softening  float64
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	history       []float64
}

func NewEnergyDrift(g, softening float64) *EnergyDrift {
	return &EnergyDrift{
		name:      "energy_drift",
		g:         g,
		softening: softening,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

// SetG changes the coupling; the baseline restarts because E0 depends on G.
func (e *EnergyDrift) SetG(g float64) {
	e.g = g
	e.Reset()
}

func (e *EnergyDrift) Observe(bodies dynamo.Bodies) {
	if !bodies.IsValid() {
		return
	}
	energy := bodies.Energy(e.g, e.softening)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy == 0 {
		return
	}
	drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
	e.maxDrift = math.Max(e.maxDrift, drift)
	e.history = append(e.history, drift)
	if len(e.history) > historyCapacity {
		e.history = e.history[1:]
	}
}

// History returns a copy of the recent relative drifts, oldest first.
func (e *EnergyDrift) History() []float64 {
	out := make([]float64, len(e.history))
	copy(out, e.history)
	return out
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Current() float64 {
	return e.currentEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
	e.history = e.history[:0]
}
