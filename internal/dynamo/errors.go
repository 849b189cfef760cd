package dynamo

import "errors"

// Domain errors for simulation setup. Per-frame simulation never fails;
// these surface from configuration and command parsing only.
var (
	// ErrUnknownMaterial indicates a material name that is not one of the six kinds.
	ErrUnknownMaterial = errors.New("dynamo: unknown material")

	// ErrUnknownShape indicates an obstacle shape other than circle or rect.
	ErrUnknownShape = errors.New("dynamo: unknown obstacle shape")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with the frame it occurred on.
type SimulationError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
