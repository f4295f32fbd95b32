package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a body set with NaN or Inf positions or velocities.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownPreset indicates a scenario name that matches no preset.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrNoPlanet indicates a body set without a planet.
	ErrNoPlanet = errors.New("dynamo: no planet in body set")
)

// StepError wraps an error with the step at which it was detected.
type StepError struct {
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return e.Wrapped.Error()
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
